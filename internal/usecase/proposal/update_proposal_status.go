package proposal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// ProjectSpawner создаёт проект по принятому предложению.
type ProjectSpawner interface {
	Spawn(ctx context.Context, jobID, freelancerID, clientID uuid.UUID) (*entity.Project, error)
}

// Decision - результат решения по предложению. Project заполнен только при принятии.
type Decision struct {
	Proposal *entity.Proposal
	Project  *entity.Project
}

type UpdateProposalStatusUseCase struct {
	proposalRepo repository.ProposalRepository
	jobRepo      repository.JobRepository
	transactor   repository.Transactor
	spawner      ProjectSpawner
}

func NewUpdateProposalStatusUseCase(
	proposalRepo repository.ProposalRepository,
	jobRepo repository.JobRepository,
	transactor repository.Transactor,
	spawner ProjectSpawner,
) *UpdateProposalStatusUseCase {
	return &UpdateProposalStatusUseCase{
		proposalRepo: proposalRepo,
		jobRepo:      jobRepo,
		transactor:   transactor,
		spawner:      spawner,
	}
}

func (uc *UpdateProposalStatusUseCase) Execute(ctx context.Context, actor policy.Actor, proposalID uuid.UUID, newStatus string) (*Decision, error) {
	if err := policy.CanPerform(actor, policy.ActionProposalDecide); err != nil {
		return nil, err
	}

	status := valueobject.ProposalStatus(newStatus)
	if !status.IsDecision() {
		return nil, apperror.New(apperror.ErrCodeValidation, "статус должен быть accepted или rejected")
	}

	proposal, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	job, err := uc.jobRepo.FindByID(ctx, proposal.JobID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanDecideProposal(actor, job); err != nil {
		return nil, err
	}

	if err := proposal.CheckDecision(status); err != nil {
		return nil, err
	}

	decision := &Decision{}
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := uc.proposalRepo.UpdateStatusIfMatch(ctx, proposal.ID, valueobject.ProposalStatusPending, status)
		if err != nil {
			if errors.Is(err, apperror.ErrStatusMismatch) {
				return apperror.ErrProposalDecided
			}
			return err
		}
		decision.Proposal = updated

		if status != valueobject.ProposalStatusAccepted {
			return nil
		}

		project, err := uc.spawner.Spawn(ctx, job.ID, updated.FreelancerID, job.ClientID)
		if err != nil {
			return err
		}
		decision.Project = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"proposal_id": proposal.ID,
		"job_id":      job.ID,
		"status":      status,
		"actor_id":    actor.ID,
	}
	if decision.Project != nil {
		fields["project_id"] = decision.Project.ID
	}
	logger.Log.WithFields(fields).Info("решение по предложению принято")

	return decision, nil
}
