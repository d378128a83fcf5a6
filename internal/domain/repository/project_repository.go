package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
)

type ProjectRepository interface {
	// Create возвращает apperror.ErrDuplicate, если проект по заказу уже существует.
	Create(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	FindByJobID(ctx context.Context, jobID uuid.UUID) (*entity.Project, error)
	ListDetailedByClientID(ctx context.Context, clientID uuid.UUID) ([]*entity.ProjectDetails, error)
	ListDetailedByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.ProjectDetails, error)
	UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.ProjectStatus) (*entity.Project, error)
	UpdatePaymentStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.PaymentStatus) (*entity.Project, error)
}
