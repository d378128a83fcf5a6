package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
)

type ProjectResponse struct {
	ID            uuid.UUID `json:"id"`
	JobID         uuid.UUID `json:"job_id"`
	FreelancerID  uuid.UUID `json:"freelancer_id"`
	ClientID      uuid.UUID `json:"client_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProjectDetailsResponse struct {
	ProjectResponse
	Job        JobSummaryResponse  `json:"job"`
	Freelancer UserSummaryResponse `json:"freelancer"`
	Client     UserSummaryResponse `json:"client"`
}

type JobSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	Deadline    time.Time `json:"deadline"`
}

type UserSummaryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func ToProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		JobID:         p.JobID,
		FreelancerID:  p.FreelancerID,
		ClientID:      p.ClientID,
		Status:        string(p.Status),
		PaymentStatus: string(p.PaymentStatus),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToProjectDetailsResponses(details []*entity.ProjectDetails) []ProjectDetailsResponse {
	result := make([]ProjectDetailsResponse, 0, len(details))
	for _, d := range details {
		result = append(result, ProjectDetailsResponse{
			ProjectResponse: ToProjectResponse(&d.Project),
			Job: JobSummaryResponse{
				ID:          d.Job.ID,
				Title:       d.Job.Title,
				Description: d.Job.Description,
				Budget:      d.Job.Budget.Float64(),
				Deadline:    d.Job.Deadline,
			},
			Freelancer: toUserSummary(d.Freelancer),
			Client:     toUserSummary(d.Client),
		})
	}
	return result
}

func toUserSummary(u entity.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
