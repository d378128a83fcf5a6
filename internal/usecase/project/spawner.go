package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/sirupsen/logrus"
)

// JobTransitions - переходы статуса заказа, которые вызывает работа с проектами.
type JobTransitions interface {
	MarkInProgress(ctx context.Context, jobID uuid.UUID) (*entity.Job, error)
	MarkCompleted(ctx context.Context, jobID uuid.UUID) (*entity.Job, error)
	Reopen(ctx context.Context, jobID uuid.UUID) error
}

// Spawner создаёт проект при принятии предложения.
type Spawner struct {
	projectRepo repository.ProjectRepository
	jobs        JobTransitions
}

func NewSpawner(projectRepo repository.ProjectRepository, jobs JobTransitions) *Spawner {
	return &Spawner{projectRepo: projectRepo, jobs: jobs}
}

// Spawn переводит заказ в in_progress и создаёт активный проект.
// Если заказ уже не открыт, проект не создаётся. Если не удалось создать проект
// вне транзакции, заказ возвращается в open.
func (s *Spawner) Spawn(ctx context.Context, jobID, freelancerID, clientID uuid.UUID) (*entity.Project, error) {
	if _, err := s.jobs.MarkInProgress(ctx, jobID); err != nil {
		return nil, err
	}

	project := entity.NewProject(jobID, freelancerID, clientID)
	if err := s.projectRepo.Create(ctx, project); err != nil {
		if !repository.InTransaction(ctx) {
			s.compensate(ctx, jobID, err)
		}
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"project_id":    project.ID,
		"job_id":        jobID,
		"freelancer_id": freelancerID,
	}).Info("проект создан")
	return project, nil
}

func (s *Spawner) compensate(ctx context.Context, jobID uuid.UUID, cause error) {
	// отмена запроса не должна прерывать откат статуса
	if err := s.jobs.Reopen(context.WithoutCancel(ctx), jobID); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"job_id": jobID,
			"cause":  cause,
		}).WithError(err).Error("не удалось вернуть заказ в open после ошибки создания проекта")
	}
}
