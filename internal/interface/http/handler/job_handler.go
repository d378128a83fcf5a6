package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/job"
)

type JobHandler struct {
	createJobUC *job.CreateJobUseCase
	updateJobUC *job.UpdateJobUseCase
	deleteJobUC *job.DeleteJobUseCase
	getJobUC    *job.GetJobUseCase
	listJobsUC  *job.ListJobsUseCase
}

func NewJobHandler(
	createJobUC *job.CreateJobUseCase,
	updateJobUC *job.UpdateJobUseCase,
	deleteJobUC *job.DeleteJobUseCase,
	getJobUC *job.GetJobUseCase,
	listJobsUC *job.ListJobsUseCase,
) *JobHandler {
	return &JobHandler{
		createJobUC: createJobUC,
		updateJobUC: updateJobUC,
		deleteJobUC: deleteJobUC,
		getJobUC:    getJobUC,
		listJobsUC:  listJobsUC,
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	jobs, err := h.listJobsUC.Execute(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponses(jobs))
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	deadline, err := dto.ParseDeadline(req.Deadline)
	if err != nil {
		response.Error(c, err)
		return
	}

	created, err := h.createJobUC.Execute(c.Request.Context(), actor, job.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		Budget:         req.Budget,
		Deadline:       deadline,
		RequiredSkills: req.RequiredSkills,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ToJobResponse(created))
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := pathID(c, "id", "заказа")
	if !ok {
		return
	}

	found, err := h.getJobUC.Execute(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(found))
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	jobID, ok := pathID(c, "id", "заказа")
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.updateJobUC.Execute(c.Request.Context(), actor, jobID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToJobResponse(updated))
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	jobID, ok := pathID(c, "id", "заказа")
	if !ok {
		return
	}

	if err := h.deleteJobUC.Execute(c.Request.Context(), actor, jobID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
