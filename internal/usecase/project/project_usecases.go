package project

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

type ListProjectsUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewListProjectsUseCase(projectRepo repository.ProjectRepository) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: projectRepo}
}

// Execute: клиент видит проекты по своим заказам, остальные роли проекты, где они исполнители.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, actor policy.Actor) ([]*entity.ProjectDetails, error) {
	if actor.Role == valueobject.RoleClient {
		return uc.projectRepo.ListDetailedByClientID(ctx, actor.ID)
	}
	return uc.projectRepo.ListDetailedByFreelancerID(ctx, actor.ID)
}

type MarkCompletedUseCase struct {
	projectRepo repository.ProjectRepository
	transactor  repository.Transactor
	jobs        JobTransitions
}

func NewMarkCompletedUseCase(projectRepo repository.ProjectRepository, transactor repository.Transactor, jobs JobTransitions) *MarkCompletedUseCase {
	return &MarkCompletedUseCase{
		projectRepo: projectRepo,
		transactor:  transactor,
		jobs:        jobs,
	}
}

// Execute завершает проект и его заказ в одной транзакции. Повторный вызов
// для завершённого проекта возвращает его без изменений.
func (uc *MarkCompletedUseCase) Execute(ctx context.Context, actor policy.Actor, projectID uuid.UUID) (*entity.Project, error) {
	project, err := loadForProgress(ctx, uc.projectRepo, actor, policy.ActionProjectComplete, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsCompleted() {
		return project, nil
	}

	var result *entity.Project
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err := uc.projectRepo.UpdateStatusIfMatch(ctx, projectID, valueobject.ProjectStatusActive, valueobject.ProjectStatusCompleted)
		if err != nil {
			if errors.Is(err, apperror.ErrStatusMismatch) {
				// завершён параллельным запросом
				result, err = uc.projectRepo.FindByID(ctx, projectID)
				return err
			}
			return err
		}
		result = updated

		if _, err := uc.jobs.MarkCompleted(ctx, updated.JobID); err != nil {
			if !errors.Is(err, apperror.ErrStatusMismatch) {
				return err
			}
			logger.Log.WithFields(logrus.Fields{
				"project_id": projectID,
				"job_id":     updated.JobID,
			}).Warn("заказ проекта не в статусе in_progress, статус заказа не изменён")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{"project_id": projectID, "actor_id": actor.ID}).Info("проект завершён")
	return result, nil
}

type MarkPaidUseCase struct {
	projectRepo repository.ProjectRepository
}

func NewMarkPaidUseCase(projectRepo repository.ProjectRepository) *MarkPaidUseCase {
	return &MarkPaidUseCase{projectRepo: projectRepo}
}

// Execute отмечает проект оплаченным. Повторный вызов ничего не меняет.
func (uc *MarkPaidUseCase) Execute(ctx context.Context, actor policy.Actor, projectID uuid.UUID) (*entity.Project, error) {
	project, err := loadForProgress(ctx, uc.projectRepo, actor, policy.ActionProjectPay, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsPaid() {
		return project, nil
	}

	updated, err := uc.projectRepo.UpdatePaymentStatusIfMatch(ctx, projectID, valueobject.PaymentStatusPending, valueobject.PaymentStatusPaid)
	if err != nil {
		if errors.Is(err, apperror.ErrStatusMismatch) {
			return uc.projectRepo.FindByID(ctx, projectID)
		}
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{"project_id": projectID, "actor_id": actor.ID}).Info("проект отмечен оплаченным")
	return updated, nil
}

func loadForProgress(ctx context.Context, repo repository.ProjectRepository, actor policy.Actor, action policy.Action, projectID uuid.UUID) (*entity.Project, error) {
	if err := policy.CanPerform(actor, action); err != nil {
		return nil, err
	}

	project, err := repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanProgressProject(actor, project); err != nil {
		return nil, err
	}
	return project, nil
}
