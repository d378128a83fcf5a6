package valueobject

import "github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo описывает линейный жизненный цикл заказа без возвратов.
func (s JobStatus) CanTransitionTo(newStatus JobStatus) bool {
	transitions := map[JobStatus][]JobStatus{
		JobStatusOpen:       {JobStatusInProgress},
		JobStatusInProgress: {JobStatusCompleted},
		JobStatusCompleted:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewJobStatus(status string) (JobStatus, error) {
	s := JobStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

// IsDecision сообщает, может ли статус быть целью решения клиента.
func (s ProposalStatus) IsDecision() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения")
	}
	return s, nil
}

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) IsValid() bool {
	return s == ProjectStatusActive || s == ProjectStatusCompleted
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}
