package proposal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

var errAlreadyProposed = apperror.New(apperror.ErrCodeConflict, "вы уже отправили предложение на этот заказ")

type CreateProposalInput struct {
	JobID         uuid.UUID
	ProposalText  string
	EstimatedCost float64
	DeliveryTime  string
}

type CreateProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	jobRepo      repository.JobRepository
}

func NewCreateProposalUseCase(proposalRepo repository.ProposalRepository, jobRepo repository.JobRepository) *CreateProposalUseCase {
	return &CreateProposalUseCase{
		proposalRepo: proposalRepo,
		jobRepo:      jobRepo,
	}
}

// Execute создаёт предложение от имени actor; автором всегда становится actor.ID.
func (uc *CreateProposalUseCase) Execute(ctx context.Context, actor policy.Actor, input CreateProposalInput) (*entity.Proposal, error) {
	if err := policy.CanPerform(actor, policy.ActionProposalCreate); err != nil {
		return nil, err
	}

	job, err := uc.jobRepo.FindByID(ctx, input.JobID)
	if err != nil {
		return nil, err
	}

	if !job.IsOpen() {
		return nil, apperror.ErrJobNotOpen
	}

	existing, err := uc.proposalRepo.FindByJobAndFreelancer(ctx, input.JobID, actor.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errAlreadyProposed
	}

	proposal, err := entity.NewProposal(input.JobID, actor.ID, input.ProposalText, input.EstimatedCost, input.DeliveryTime)
	if err != nil {
		return nil, err
	}

	// Статус заказа перепроверяется при вставке: принятие могло случиться после FindByID.
	if err := uc.proposalRepo.Create(ctx, proposal); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, errAlreadyProposed
		}
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"proposal_id": proposal.ID,
		"job_id":      proposal.JobID,
		"actor_id":    actor.ID,
	}).Info("предложение создано")
	return proposal, nil
}
