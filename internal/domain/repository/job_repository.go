package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	// Update и Delete применяются только к открытому заказу,
	// иначе возвращают apperror.ErrStatusMismatch (или ErrJobNotFound).
	Update(ctx context.Context, job *entity.Job) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	List(ctx context.Context) ([]*entity.Job, error)
	FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.Job, error)
	// FindOpenBySkills возвращает открытые заказы, у которых есть хотя бы один из навыков.
	FindOpenBySkills(ctx context.Context, skills []string) ([]*entity.Job, error)
	// UpdateStatusIfMatch меняет статус только если текущий равен from.
	// Иначе возвращает apperror.ErrStatusMismatch (или ErrJobNotFound).
	UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.JobStatus) (*entity.Job, error)
}
