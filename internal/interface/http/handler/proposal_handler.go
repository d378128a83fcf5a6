package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/proposal"
)

type ProposalHandler struct {
	createProposalUC  *proposal.CreateProposalUseCase
	updateStatusUC    *proposal.UpdateProposalStatusUseCase
	listJobProposalUC *proposal.ListJobProposalsUseCase
	listMyProposalsUC *proposal.ListMyProposalsUseCase
}

func NewProposalHandler(
	createProposalUC *proposal.CreateProposalUseCase,
	updateStatusUC *proposal.UpdateProposalStatusUseCase,
	listJobProposalUC *proposal.ListJobProposalsUseCase,
	listMyProposalsUC *proposal.ListMyProposalsUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		createProposalUC:  createProposalUC,
		updateStatusUC:    updateStatusUC,
		listJobProposalUC: listJobProposalUC,
		listMyProposalsUC: listMyProposalsUC,
	}
}

func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	jobID, ok := pathID(c, "id", "заказа")
	if !ok {
		return
	}

	var req dto.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.createProposalUC.Execute(c.Request.Context(), actor, proposal.CreateProposalInput{
		JobID:         jobID,
		ProposalText:  req.ProposalText,
		EstimatedCost: req.EstimatedCost,
		DeliveryTime:  req.DeliveryTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToProposalResponse(created))
}

func (h *ProposalHandler) ListJobProposals(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	jobID, ok := pathID(c, "id", "заказа")
	if !ok {
		return
	}

	proposals, err := h.listJobProposalUC.Execute(c.Request.Context(), actor, jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *ProposalHandler) ListMyProposals(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	proposals, err := h.listMyProposalsUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalResponses(proposals))
}

func (h *ProposalHandler) UpdateProposalStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	proposalID, ok := pathID(c, "proposalId", "предложения")
	if !ok {
		return
	}

	var req dto.UpdateProposalStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	decision, err := h.updateStatusUC.Execute(c.Request.Context(), actor, proposalID, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProposalDecisionResponse(decision))
}
