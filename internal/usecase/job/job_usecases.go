package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

var (
	errJobNotEditable  = apperror.New(apperror.ErrCodeConflict, "редактировать можно только открытый заказ")
	errJobNotDeletable = apperror.New(apperror.ErrCodeConflict, "удалить можно только открытый заказ")
)

type CreateJobInput struct {
	Title          string
	Description    string
	Budget         float64
	Deadline       time.Time
	RequiredSkills []string
}

type CreateJobUseCase struct {
	jobRepo repository.JobRepository
}

func NewCreateJobUseCase(jobRepo repository.JobRepository) *CreateJobUseCase {
	return &CreateJobUseCase{jobRepo: jobRepo}
}

func (uc *CreateJobUseCase) Execute(ctx context.Context, actor policy.Actor, input CreateJobInput) (*entity.Job, error) {
	if err := policy.CanPerform(actor, policy.ActionJobCreate); err != nil {
		return nil, err
	}

	job, err := entity.NewJob(actor.ID, input.Title, input.Description, input.Budget, input.Deadline, input.RequiredSkills)
	if err != nil {
		return nil, err
	}

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{"job_id": job.ID, "actor_id": actor.ID}).Info("заказ создан")
	return job, nil
}

type UpdateJobUseCase struct {
	jobRepo repository.JobRepository
}

func NewUpdateJobUseCase(jobRepo repository.JobRepository) *UpdateJobUseCase {
	return &UpdateJobUseCase{jobRepo: jobRepo}
}

func (uc *UpdateJobUseCase) Execute(ctx context.Context, actor policy.Actor, jobID uuid.UUID, patch entity.JobPatch) (*entity.Job, error) {
	if err := policy.CanPerform(actor, policy.ActionJobUpdate); err != nil {
		return nil, err
	}

	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanManageJob(actor, job); err != nil {
		return nil, err
	}

	if err := job.Apply(patch); err != nil {
		return nil, err
	}

	if err := uc.jobRepo.Update(ctx, job); err != nil {
		if errors.Is(err, apperror.ErrStatusMismatch) {
			return nil, errJobNotEditable
		}
		return nil, err
	}
	return job, nil
}

type DeleteJobUseCase struct {
	jobRepo repository.JobRepository
}

func NewDeleteJobUseCase(jobRepo repository.JobRepository) *DeleteJobUseCase {
	return &DeleteJobUseCase{jobRepo: jobRepo}
}

func (uc *DeleteJobUseCase) Execute(ctx context.Context, actor policy.Actor, jobID uuid.UUID) error {
	if err := policy.CanPerform(actor, policy.ActionJobDelete); err != nil {
		return err
	}

	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}

	if err := policy.CanManageJob(actor, job); err != nil {
		return err
	}

	if !job.IsOpen() {
		return errJobNotDeletable
	}

	// Заказ могли принять после проверки - репозиторий удаляет только открытый.
	if err := uc.jobRepo.Delete(ctx, jobID); err != nil {
		if errors.Is(err, apperror.ErrStatusMismatch) {
			return errJobNotDeletable
		}
		return err
	}

	logger.Log.WithFields(logrus.Fields{"job_id": jobID, "actor_id": actor.ID}).Info("заказ удалён")
	return nil
}

type GetJobUseCase struct {
	jobRepo repository.JobRepository
}

func NewGetJobUseCase(jobRepo repository.JobRepository) *GetJobUseCase {
	return &GetJobUseCase{jobRepo: jobRepo}
}

func (uc *GetJobUseCase) Execute(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	return uc.jobRepo.FindByID(ctx, jobID)
}

type ListJobsUseCase struct {
	jobRepo  repository.JobRepository
	userRepo repository.UserRepository
}

func NewListJobsUseCase(jobRepo repository.JobRepository, userRepo repository.UserRepository) *ListJobsUseCase {
	return &ListJobsUseCase{jobRepo: jobRepo, userRepo: userRepo}
}

// Execute: клиент видит свои заказы, фрилансер открытые заказы по своим навыкам
// (или все, если навыки не указаны), остальные роли все заказы.
func (uc *ListJobsUseCase) Execute(ctx context.Context, actor policy.Actor) ([]*entity.Job, error) {
	switch actor.Role {
	case valueobject.RoleClient:
		return uc.jobRepo.FindByClientID(ctx, actor.ID)
	case valueobject.RoleFreelancer:
		user, err := uc.userRepo.FindByID(ctx, actor.ID)
		if err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
		if user == nil || len(user.Profile.Skills) == 0 {
			return uc.jobRepo.List(ctx)
		}
		return uc.jobRepo.FindOpenBySkills(ctx, user.Profile.Skills)
	default:
		return uc.jobRepo.List(ctx)
	}
}
