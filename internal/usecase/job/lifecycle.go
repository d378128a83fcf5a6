package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// Lifecycle выполняет переходы статуса заказа. Клиентские операции статус не меняют:
// open → in_progress происходит при принятии предложения, in_progress → completed
// при завершении проекта.
type Lifecycle struct {
	jobRepo repository.JobRepository
}

func NewLifecycle(jobRepo repository.JobRepository) *Lifecycle {
	return &Lifecycle{jobRepo: jobRepo}
}

// MarkInProgress: open → in_progress. Если заказ уже не открыт, возвращает ErrJobNotOpen.
func (l *Lifecycle) MarkInProgress(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	return l.transition(ctx, jobID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress, apperror.ErrJobNotOpen)
}

// MarkCompleted: in_progress → completed.
func (l *Lifecycle) MarkCompleted(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	return l.transition(ctx, jobID, valueobject.JobStatusInProgress, valueobject.JobStatusCompleted, apperror.ErrStatusMismatch)
}

// Reopen возвращает заказ в open. Используется только как компенсация
// неудачного создания проекта вне транзакции.
func (l *Lifecycle) Reopen(ctx context.Context, jobID uuid.UUID) error {
	_, err := l.jobRepo.UpdateStatusIfMatch(ctx, jobID, valueobject.JobStatusInProgress, valueobject.JobStatusOpen)
	if err != nil {
		return err
	}
	logger.Log.WithField("job_id", jobID).Warn("заказ возвращён в статус open")
	return nil
}

func (l *Lifecycle) transition(ctx context.Context, jobID uuid.UUID, from, to valueobject.JobStatus, mismatch error) (*entity.Job, error) {
	job, err := l.jobRepo.UpdateStatusIfMatch(ctx, jobID, from, to)
	if err != nil {
		if errors.Is(err, apperror.ErrStatusMismatch) {
			return nil, mismatch
		}
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"job_id": jobID,
		"from":   from,
		"to":     to,
	}).Info("статус заказа изменён")
	return job, nil
}
