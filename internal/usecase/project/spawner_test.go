package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/project"
)

type mockJobTransitions struct {
	mock.Mock
}

func (m *mockJobTransitions) MarkInProgress(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

func (m *mockJobTransitions) MarkCompleted(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Job), args.Error(1)
}

func (m *mockJobTransitions) Reopen(ctx context.Context, jobID uuid.UUID) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

// failingProjectRepo отклоняет создание проекта.
type failingProjectRepo struct {
	repository.ProjectRepository
	err error
}

func (r *failingProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	return r.err
}

func TestSpawn_CreatesProject(t *testing.T) {
	logger.Silence()
	store := memory.NewStore()
	jobs := new(mockJobTransitions)
	jobID, freelancerID, clientID := uuid.New(), uuid.New(), uuid.New()

	jobs.On("MarkInProgress", mock.Anything, jobID).Return(&entity.Job{ID: jobID}, nil)

	p, err := project.NewSpawner(store.Projects(), jobs).Spawn(context.Background(), jobID, freelancerID, clientID)
	require.NoError(t, err)
	assert.Equal(t, jobID, p.JobID)
	assert.Equal(t, freelancerID, p.FreelancerID)
	assert.Equal(t, clientID, p.ClientID)

	stored, err := store.Projects().FindByJobID(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, stored.ID)
	jobs.AssertExpectations(t)
}

func TestSpawn_JobNotOpen(t *testing.T) {
	logger.Silence()
	store := memory.NewStore()
	jobs := new(mockJobTransitions)
	jobID := uuid.New()

	jobs.On("MarkInProgress", mock.Anything, jobID).Return(nil, apperror.ErrJobNotOpen)

	_, err := project.NewSpawner(store.Projects(), jobs).Spawn(context.Background(), jobID, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrJobNotOpen)

	_, err = store.Projects().FindByJobID(context.Background(), jobID)
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
	jobs.AssertNotCalled(t, "Reopen", mock.Anything, mock.Anything)
}

func TestSpawn_ReopensJobWhenProjectFails(t *testing.T) {
	logger.Silence()
	jobs := new(mockJobTransitions)
	jobID := uuid.New()
	createErr := errors.New("insert failed")

	jobs.On("MarkInProgress", mock.Anything, jobID).Return(&entity.Job{ID: jobID}, nil)
	jobs.On("Reopen", mock.Anything, jobID).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spawner := project.NewSpawner(&failingProjectRepo{err: createErr}, jobs)
	_, err := spawner.Spawn(ctx, jobID, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, createErr)
	jobs.AssertCalled(t, "Reopen", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), jobID)
}

func TestSpawn_NoCompensationInsideTransaction(t *testing.T) {
	logger.Silence()
	jobs := new(mockJobTransitions)
	jobID := uuid.New()
	createErr := errors.New("insert failed")

	jobs.On("MarkInProgress", mock.Anything, jobID).Return(&entity.Job{ID: jobID}, nil)

	spawner := project.NewSpawner(&failingProjectRepo{err: createErr}, jobs)
	_, err := spawner.Spawn(repository.MarkTransaction(context.Background()), jobID, uuid.New(), uuid.New())

	assert.ErrorIs(t, err, createErr)
	jobs.AssertNotCalled(t, "Reopen", mock.Anything, mock.Anything)
}
