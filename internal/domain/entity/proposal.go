package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

const (
	MaxProposalTextLength = 5000
	MaxDeliveryTimeLength = 100
)

type Proposal struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	FreelancerID  uuid.UUID
	ProposalText  string
	EstimatedCost valueobject.Money
	DeliveryTime  string
	Status        valueobject.ProposalStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewProposal(jobID, freelancerID uuid.UUID, text string, estimatedCost float64, deliveryTime string) (*Proposal, error) {
	text = strings.TrimSpace(text)
	deliveryTime = strings.TrimSpace(deliveryTime)

	if text == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "текст предложения обязателен")
	}
	if utf8.RuneCountInString(text) > MaxProposalTextLength {
		return nil, apperror.New(apperror.ErrCodeValidation, "текст предложения слишком длинный")
	}
	cost, err := valueobject.NewMoney("стоимость", estimatedCost)
	if err != nil {
		return nil, err
	}
	if deliveryTime == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "срок выполнения обязателен")
	}
	if utf8.RuneCountInString(deliveryTime) > MaxDeliveryTimeLength {
		return nil, apperror.New(apperror.ErrCodeValidation, "срок выполнения слишком длинный")
	}

	now := time.Now().UTC()
	return &Proposal{
		ID:            uuid.New(),
		JobID:         jobID,
		FreelancerID:  freelancerID,
		ProposalText:  text,
		EstimatedCost: cost,
		DeliveryTime:  deliveryTime,
		Status:        valueobject.ProposalStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CheckDecision проверяет, что по предложению ещё можно принять решение status.
func (p *Proposal) CheckDecision(status valueobject.ProposalStatus) error {
	if !status.IsDecision() {
		return apperror.New(apperror.ErrCodeValidation, "статус должен быть accepted или rejected")
	}
	if !p.IsPending() {
		return apperror.ErrProposalDecided
	}
	return nil
}

func (p *Proposal) IsOwnedBy(userID uuid.UUID) bool {
	return p.FreelancerID == userID
}

func (p *Proposal) IsPending() bool {
	return p.Status == valueobject.ProposalStatusPending
}

func (p *Proposal) IsAccepted() bool {
	return p.Status == valueobject.ProposalStatusAccepted
}
