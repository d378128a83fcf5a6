package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/proposal"
)

// CreateProposalRequest не содержит автора: им всегда становится текущий пользователь.
type CreateProposalRequest struct {
	ProposalText  string  `json:"proposal_text" binding:"required"`
	EstimatedCost float64 `json:"estimated_cost" binding:"required,gt=0"`
	DeliveryTime  string  `json:"delivery_time" binding:"required"`
}

type UpdateProposalStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

type ProposalResponse struct {
	ID            uuid.UUID `json:"id"`
	JobID         uuid.UUID `json:"job_id"`
	FreelancerID  uuid.UUID `json:"freelancer_id"`
	ProposalText  string    `json:"proposal_text"`
	EstimatedCost float64   `json:"estimated_cost"`
	DeliveryTime  string    `json:"delivery_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProposalDecisionResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Project  *ProjectResponse `json:"project,omitempty"`
}

func ToProposalResponse(p *entity.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:            p.ID,
		JobID:         p.JobID,
		FreelancerID:  p.FreelancerID,
		ProposalText:  p.ProposalText,
		EstimatedCost: p.EstimatedCost.Float64(),
		DeliveryTime:  p.DeliveryTime,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToProposalResponses(proposals []*entity.Proposal) []ProposalResponse {
	result := make([]ProposalResponse, 0, len(proposals))
	for _, p := range proposals {
		result = append(result, ToProposalResponse(p))
	}
	return result
}

func ToProposalDecisionResponse(d *proposal.Decision) ProposalDecisionResponse {
	resp := ProposalDecisionResponse{Proposal: ToProposalResponse(d.Proposal)}
	if d.Project != nil {
		project := ToProjectResponse(d.Project)
		resp.Project = &project
	}
	return resp
}
