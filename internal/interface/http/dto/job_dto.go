package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type CreateJobRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	Budget         float64  `json:"budget" binding:"required,gt=0"`
	Deadline       string   `json:"deadline" binding:"required"`
	RequiredSkills []string `json:"required_skills"`
}

// UpdateJobRequest - частичное обновление: отсутствующие поля не меняются.
type UpdateJobRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Budget         *float64 `json:"budget" binding:"omitempty,gt=0"`
	Deadline       *string  `json:"deadline"`
	RequiredSkills []string `json:"required_skills"`
}

type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	ClientID       uuid.UUID `json:"client_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Budget         float64   `json:"budget"`
	Deadline       time.Time `json:"deadline"`
	RequiredSkills []string  `json:"required_skills"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r UpdateJobRequest) ToPatch() (entity.JobPatch, error) {
	patch := entity.JobPatch{
		Title:          r.Title,
		Description:    r.Description,
		Budget:         r.Budget,
		RequiredSkills: r.RequiredSkills,
	}
	if r.Deadline != nil {
		deadline, err := ParseDeadline(*r.Deadline)
		if err != nil {
			return entity.JobPatch{}, err
		}
		patch.Deadline = &deadline
	}
	return patch, nil
}

// ParseDeadline принимает RFC 3339 или дату в формате YYYY-MM-DD (конец дня по UTC).
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, apperror.New(apperror.ErrCodeValidation, "некорректный формат дедлайна")
}

func ToJobResponse(job *entity.Job) JobResponse {
	skills := job.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:             job.ID,
		ClientID:       job.ClientID,
		Title:          job.Title,
		Description:    job.Description,
		Budget:         job.Budget.Float64(),
		Deadline:       job.Deadline,
		RequiredSkills: skills,
		Status:         string(job.Status),
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

func ToJobResponses(jobs []*entity.Job) []JobResponse {
	result := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, ToJobResponse(j))
	}
	return result
}
