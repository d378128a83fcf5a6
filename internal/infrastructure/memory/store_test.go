package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/repository"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

func seedJob(t *testing.T, store *memory.Store, clientID uuid.UUID, skills ...string) *entity.Job {
	t.Helper()
	job, err := entity.NewJob(clientID, "Сайт", "Интернет-магазин", 1000, time.Now().Add(48*time.Hour), skills)
	require.NoError(t, err)
	require.NoError(t, store.Jobs().Create(context.Background(), job))
	return job
}

func seedProposal(t *testing.T, store *memory.Store, jobID uuid.UUID) *entity.Proposal {
	t.Helper()
	p, err := entity.NewProposal(jobID, uuid.New(), "Готов взяться", 800, "10 дней")
	require.NoError(t, err)
	require.NoError(t, store.Proposals().Create(context.Background(), p))
	return p
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())
	boom := errors.New("boom")

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		assert.True(t, repository.InTransaction(ctx))
		_, err := store.Jobs().UpdateStatusIfMatch(ctx, job.ID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
		require.NoError(t, err)
		require.NoError(t, store.Projects().Create(ctx, entity.NewProject(job.ID, uuid.New(), job.ClientID)))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	got, err := store.Jobs().FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusOpen, got.Status)
	_, err = store.Projects().FindByJobID(ctx, job.ID)
	assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
}

func TestWithinTransaction_RollsBackOnPanic(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())

	assert.Panics(t, func() {
		_ = store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, _ = store.Jobs().UpdateStatusIfMatch(ctx, job.ID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
			panic("unexpected")
		})
	})

	got, err := store.Jobs().FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusOpen, got.Status)
}

func TestWithinTransaction_CommitsAndNests(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := store.Jobs().UpdateStatusIfMatch(ctx, job.ID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
			return err
		})
	})

	require.NoError(t, err)
	got, err := store.Jobs().FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusInProgress, got.Status)
}

func TestJobRepository_UpdateStatusIfMatch(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())

	_, err := store.Jobs().UpdateStatusIfMatch(ctx, job.ID, valueobject.JobStatusInProgress, valueobject.JobStatusCompleted)
	assert.ErrorIs(t, err, apperror.ErrStatusMismatch)

	_, err = store.Jobs().UpdateStatusIfMatch(ctx, uuid.New(), valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
	assert.ErrorIs(t, err, apperror.ErrJobNotFound)

	updated, err := store.Jobs().UpdateStatusIfMatch(ctx, job.ID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusInProgress, updated.Status)
}

func TestJobRepository_ReturnsCopies(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New(), "Go")

	got, err := store.Jobs().FindByID(ctx, job.ID)
	require.NoError(t, err)
	got.RequiredSkills[0] = "Rust"
	got.Status = valueobject.JobStatusCompleted

	again, err := store.Jobs().FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, again.RequiredSkills)
	assert.Equal(t, valueobject.JobStatusOpen, again.Status)
}

func TestJobRepository_FindOpenBySkills(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	clientID := uuid.New()
	goJob := seedJob(t, store, clientID, "Go", "PostgreSQL")
	seedJob(t, store, clientID, "Python")
	busy := seedJob(t, store, clientID, "go")
	_, err := store.Jobs().UpdateStatusIfMatch(ctx, busy.ID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
	require.NoError(t, err)

	jobs, err := store.Jobs().FindOpenBySkills(ctx, []string{"GO"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, goJob.ID, jobs[0].ID)
}

func TestJobRepository_DeleteCascadesProposals(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())
	p := seedProposal(t, store, job.ID)

	require.NoError(t, store.Jobs().Delete(ctx, job.ID))

	_, err := store.Proposals().FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
	assert.ErrorIs(t, store.Jobs().Delete(ctx, job.ID), apperror.ErrJobNotFound)
}

func TestJobRepository_WritesRequireOpenJob(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())
	seedProposal(t, store, job.ID)

	taken, err := store.Jobs().UpdateStatusIfMatch(ctx, job.ID, valueobject.JobStatusOpen, valueobject.JobStatusInProgress)
	require.NoError(t, err)

	taken.Title = "Изменённый"
	assert.ErrorIs(t, store.Jobs().Update(ctx, taken), apperror.ErrStatusMismatch)
	assert.ErrorIs(t, store.Jobs().Delete(ctx, job.ID), apperror.ErrStatusMismatch)

	late, err := entity.NewProposal(job.ID, uuid.New(), "Поздно", 500, "3 дня")
	require.NoError(t, err)
	assert.ErrorIs(t, store.Proposals().Create(ctx, late), apperror.ErrJobNotOpen)

	kept, err := store.Jobs().FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, kept.Title)
	all, err := store.Proposals().FindByJobID(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProposalRepository_Uniqueness(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())
	first := seedProposal(t, store, job.ID)

	dup, err := entity.NewProposal(job.ID, first.FreelancerID, "Ещё раз", 700, "5 дней")
	require.NoError(t, err)
	assert.ErrorIs(t, store.Proposals().Create(ctx, dup), apperror.ErrDuplicate)

	orphan, err := entity.NewProposal(uuid.New(), uuid.New(), "Текст", 100, "1 день")
	require.NoError(t, err)
	assert.ErrorIs(t, store.Proposals().Create(ctx, orphan), apperror.ErrJobNotFound)

	found, err := store.Proposals().FindByJobAndFreelancer(ctx, job.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestProposalRepository_SingleAcceptedPerJob(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	job := seedJob(t, store, uuid.New())
	a := seedProposal(t, store, job.ID)
	b := seedProposal(t, store, job.ID)

	_, err := store.Proposals().UpdateStatusIfMatch(ctx, a.ID, valueobject.ProposalStatusPending, valueobject.ProposalStatusAccepted)
	require.NoError(t, err)

	_, err = store.Proposals().UpdateStatusIfMatch(ctx, b.ID, valueobject.ProposalStatusPending, valueobject.ProposalStatusAccepted)
	assert.ErrorIs(t, err, apperror.ErrStatusMismatch)

	rejected, err := store.Proposals().UpdateStatusIfMatch(ctx, b.ID, valueobject.ProposalStatusPending, valueobject.ProposalStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusRejected, rejected.Status)
}

func TestProjectRepository_OnePerJobAndDetails(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	client := entity.NewUser("Клиент", "client@example.com", "hash", valueobject.RoleClient)
	freelancer := entity.NewUser("Фрилансер", "free@example.com", "hash", valueobject.RoleFreelancer)
	require.NoError(t, store.Users().Create(ctx, client))
	require.NoError(t, store.Users().Create(ctx, freelancer))
	job := seedJob(t, store, client.ID)

	project := entity.NewProject(job.ID, freelancer.ID, client.ID)
	require.NoError(t, store.Projects().Create(ctx, project))
	assert.ErrorIs(t, store.Projects().Create(ctx, entity.NewProject(job.ID, freelancer.ID, client.ID)), apperror.ErrDuplicate)

	details, err := store.Projects().ListDetailedByFreelancerID(ctx, freelancer.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, project.ID, details[0].Project.ID)
	assert.Equal(t, job.Title, details[0].Job.Title)
	assert.Equal(t, "client@example.com", details[0].Client.Email)
	assert.Equal(t, "Фрилансер", details[0].Freelancer.Name)

	empty, err := store.Projects().ListDetailedByClientID(ctx, freelancer.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = store.Projects().UpdatePaymentStatusIfMatch(ctx, project.ID, valueobject.PaymentStatusPaid, valueobject.PaymentStatusPending)
	assert.ErrorIs(t, err, apperror.ErrStatusMismatch)
}

func TestUserRepository_EmailUnique(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, entity.NewUser("Анна", "anna@example.com", "hash", valueobject.RoleClient)))
	err := store.Users().Create(ctx, entity.NewUser("Другая Анна", "ANNA@example.com", "hash", valueobject.RoleFreelancer))
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)

	got, err := store.Users().FindByEmail(ctx, "Anna@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Анна", got.Name)
}
