package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/job"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/project"
)

type projectFixture struct {
	store      *memory.Store
	client     *entity.User
	freelancer *entity.User
	job        *entity.Job
	project    *entity.Project
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	logger.Silence()
	ctx := context.Background()
	store := memory.NewStore()

	client := entity.NewUser("Ольга", "olga@example.com", "hash", valueobject.RoleClient)
	freelancer := entity.NewUser("Игорь", "igor@example.com", "hash", valueobject.RoleFreelancer)
	require.NoError(t, store.Users().Create(ctx, client))
	require.NoError(t, store.Users().Create(ctx, freelancer))

	j, err := entity.NewJob(client.ID, "Бот", "Телеграм-бот для записи", 700, time.Now().Add(14*24*time.Hour), []string{"Go"})
	require.NoError(t, err)
	require.NoError(t, store.Jobs().Create(ctx, j))

	spawner := project.NewSpawner(store.Projects(), job.NewLifecycle(store.Jobs()))
	p, err := spawner.Spawn(ctx, j.ID, freelancer.ID, client.ID)
	require.NoError(t, err)

	return &projectFixture{store: store, client: client, freelancer: freelancer, job: j, project: p}
}

func (f *projectFixture) actor(u *entity.User) policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role}
}

func TestMarkCompleted_CompletesProjectAndJob(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	uc := project.NewMarkCompletedUseCase(f.store.Projects(), f.store, job.NewLifecycle(f.store.Jobs()))

	done, err := uc.Execute(ctx, f.actor(f.freelancer), f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProjectStatusCompleted, done.Status)

	j, err := f.store.Jobs().FindByID(ctx, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusCompleted, j.Status)

	again, err := uc.Execute(ctx, f.actor(f.freelancer), f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProjectStatusCompleted, again.Status)
	assert.Equal(t, done.UpdatedAt, again.UpdatedAt)
}

func TestMarkCompleted_Denials(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	uc := project.NewMarkCompletedUseCase(f.store.Projects(), f.store, job.NewLifecycle(f.store.Jobs()))

	_, err := uc.Execute(ctx, f.actor(f.client), f.project.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	other := policy.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer}
	_, err = uc.Execute(ctx, other, f.project.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = uc.Execute(ctx, f.actor(f.freelancer), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)

	p, err := f.store.Projects().FindByID(ctx, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProjectStatusActive, p.Status)
}

func TestMarkPaid_Idempotent(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	uc := project.NewMarkPaidUseCase(f.store.Projects())

	_, err := uc.Execute(ctx, f.actor(f.client), f.project.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	paid, err := uc.Execute(ctx, f.actor(f.freelancer), f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, valueobject.ProjectStatusActive, paid.Status)

	again, err := uc.Execute(ctx, f.actor(f.freelancer), f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusPaid, again.PaymentStatus)
}

func TestListProjects_ByRole(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	uc := project.NewListProjectsUseCase(f.store.Projects())

	forClient, err := uc.Execute(ctx, f.actor(f.client))
	require.NoError(t, err)
	require.Len(t, forClient, 1)
	assert.Equal(t, "Игорь", forClient[0].Freelancer.Name)

	forFreelancer, err := uc.Execute(ctx, f.actor(f.freelancer))
	require.NoError(t, err)
	require.Len(t, forFreelancer, 1)
	assert.Equal(t, f.job.Title, forFreelancer[0].Job.Title)

	none, err := uc.Execute(ctx, policy.Actor{ID: uuid.New(), Role: valueobject.RoleFreelancer})
	require.NoError(t, err)
	assert.Empty(t, none)
}
