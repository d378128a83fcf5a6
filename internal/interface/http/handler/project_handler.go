package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/project"
)

type ProjectHandler struct {
	listProjectsUC  *project.ListProjectsUseCase
	markCompletedUC *project.MarkCompletedUseCase
	markPaidUC      *project.MarkPaidUseCase
}

func NewProjectHandler(
	listProjectsUC *project.ListProjectsUseCase,
	markCompletedUC *project.MarkCompletedUseCase,
	markPaidUC *project.MarkPaidUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		listProjectsUC:  listProjectsUC,
		markCompletedUC: markCompletedUC,
		markPaidUC:      markPaidUC,
	}
}

func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	projects, err := h.listProjectsUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectDetailsResponses(projects))
}

func (h *ProjectHandler) MarkCompleted(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	projectID, ok := pathID(c, "id", "проекта")
	if !ok {
		return
	}

	updated, err := h.markCompletedUC.Execute(c.Request.Context(), actor, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(updated))
}

func (h *ProjectHandler) MarkPaid(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	projectID, ok := pathID(c, "id", "проекта")
	if !ok {
		return
	}

	updated, err := h.markPaidUC.Execute(c.Request.Context(), actor, projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToProjectResponse(updated))
}
