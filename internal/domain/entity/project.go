package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
)

type Project struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	FreelancerID  uuid.UUID
	ClientID      uuid.UUID
	Status        valueobject.ProjectStatus
	PaymentStatus valueobject.PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectDetails - проект вместе с данными заказа и участников для отображения.
type ProjectDetails struct {
	Project    Project
	Job        JobSummary
	Freelancer UserSummary
	Client     UserSummary
}

type JobSummary struct {
	ID          uuid.UUID
	Title       string
	Description string
	Budget      valueobject.Money
	Deadline    time.Time
}

type UserSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

func NewProject(jobID, freelancerID, clientID uuid.UUID) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:            uuid.New(),
		JobID:         jobID,
		FreelancerID:  freelancerID,
		ClientID:      clientID,
		Status:        valueobject.ProjectStatusActive,
		PaymentStatus: valueobject.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (p *Project) IsCompleted() bool {
	return p.Status == valueobject.ProjectStatusCompleted
}

func (p *Project) IsPaid() bool {
	return p.PaymentStatus == valueobject.PaymentStatusPaid
}

func (p *Project) HasFreelancer(userID uuid.UUID) bool {
	return p.FreelancerID == userID
}
