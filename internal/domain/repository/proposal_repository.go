package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
)

type ProposalRepository interface {
	// Create сохраняет предложение, только если заказ открыт: ErrJobNotFound,
	// ErrJobNotOpen или ErrDuplicate в остальных случаях.
	Create(ctx context.Context, proposal *entity.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.Proposal, error)
	FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Proposal, error)
	// FindByJobAndFreelancer возвращает nil, nil, если предложения нет.
	FindByJobAndFreelancer(ctx context.Context, jobID, freelancerID uuid.UUID) (*entity.Proposal, error)
	UpdateStatusIfMatch(ctx context.Context, id uuid.UUID, from, to valueobject.ProposalStatus) (*entity.Proposal, error)
}
