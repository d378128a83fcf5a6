package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

func TestNewJob(t *testing.T) {
	clientID := uuid.New()
	deadline := time.Now().Add(72 * time.Hour)

	tests := []struct {
		name        string
		title       string
		description string
		budget      float64
		deadline    time.Time
		wantErr     bool
	}{
		{"valid", "Лендинг", "Нужен лендинг", 500, deadline, false},
		{"empty title", "  ", "Нужен лендинг", 500, deadline, true},
		{"empty description", "Лендинг", "", 500, deadline, true},
		{"zero budget", "Лендинг", "Нужен лендинг", 0, deadline, true},
		{"negative budget", "Лендинг", "Нужен лендинг", -10, deadline, true},
		{"missing deadline", "Лендинг", "Нужен лендинг", 500, time.Time{}, true},
		{"past deadline", "Лендинг", "Нужен лендинг", 500, time.Now().Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := entity.NewJob(clientID, tt.title, tt.description, tt.budget, tt.deadline, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, clientID, job.ClientID)
			assert.Equal(t, valueobject.JobStatusOpen, job.Status)
			assert.NotEqual(t, uuid.Nil, job.ID)
			assert.Empty(t, job.RequiredSkills)
		})
	}
}

func TestNewJob_NormalizesSkills(t *testing.T) {
	job, err := entity.NewJob(uuid.New(), "API", "REST API", 1000, time.Now().Add(time.Hour), []string{" Go ", "go", "", "PostgreSQL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, job.RequiredSkills)
}

func TestJob_Apply(t *testing.T) {
	job, err := entity.NewJob(uuid.New(), "API", "REST API", 1000, time.Now().Add(time.Hour), []string{"Go"})
	require.NoError(t, err)

	title := "GraphQL API"
	budget := 1500.0
	require.NoError(t, job.Apply(entity.JobPatch{Title: &title, Budget: &budget}))

	assert.Equal(t, "GraphQL API", job.Title)
	assert.Equal(t, "REST API", job.Description)
	assert.Equal(t, valueobject.Money(1500), job.Budget)
	assert.Equal(t, []string{"Go"}, job.RequiredSkills)
}

func TestJob_Apply_InvalidPatchLeavesJobUntouched(t *testing.T) {
	job, err := entity.NewJob(uuid.New(), "API", "REST API", 1000, time.Now().Add(time.Hour), nil)
	require.NoError(t, err)

	title := "Новое название"
	budget := -1.0
	err = job.Apply(entity.JobPatch{Title: &title, Budget: &budget})

	require.Error(t, err)
	assert.Equal(t, "API", job.Title)
	assert.Equal(t, valueobject.Money(1000), job.Budget)
}

func TestJob_Apply_OnlyWhileOpen(t *testing.T) {
	job, err := entity.NewJob(uuid.New(), "API", "REST API", 1000, time.Now().Add(time.Hour), nil)
	require.NoError(t, err)
	job.Status = valueobject.JobStatusInProgress

	title := "Другое"
	err = job.Apply(entity.JobPatch{Title: &title})

	assert.True(t, apperror.IsConflict(err))
}

func TestJob_MatchesSkills(t *testing.T) {
	job := &entity.Job{RequiredSkills: []string{"Go", "Docker"}}

	assert.True(t, job.MatchesSkills([]string{"docker"}))
	assert.False(t, job.MatchesSkills([]string{"Python"}))
	assert.False(t, job.MatchesSkills(nil))
}
