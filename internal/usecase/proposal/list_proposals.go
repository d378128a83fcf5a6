package proposal

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
)

type ListJobProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
	jobRepo      repository.JobRepository
}

func NewListJobProposalsUseCase(proposalRepo repository.ProposalRepository, jobRepo repository.JobRepository) *ListJobProposalsUseCase {
	return &ListJobProposalsUseCase{
		proposalRepo: proposalRepo,
		jobRepo:      jobRepo,
	}
}

func (uc *ListJobProposalsUseCase) Execute(ctx context.Context, actor policy.Actor, jobID uuid.UUID) ([]*entity.Proposal, error) {
	if err := policy.CanPerform(actor, policy.ActionProposalList); err != nil {
		return nil, err
	}

	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanViewProposals(actor, job); err != nil {
		return nil, err
	}

	return uc.proposalRepo.FindByJobID(ctx, jobID)
}

type ListMyProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewListMyProposalsUseCase(proposalRepo repository.ProposalRepository) *ListMyProposalsUseCase {
	return &ListMyProposalsUseCase{proposalRepo: proposalRepo}
}

func (uc *ListMyProposalsUseCase) Execute(ctx context.Context, actor policy.Actor) ([]*entity.Proposal, error) {
	return uc.proposalRepo.FindByFreelancerID(ctx, actor.ID)
}
