package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/freelance-marketplace/internal/usecase/user"
)

type UserHandler struct {
	getUserUC       *user.GetUserUseCase
	listUsersUC     *user.ListUsersUseCase
	updateProfileUC *user.UpdateProfileUseCase
}

func NewUserHandler(
	getUserUC *user.GetUserUseCase,
	listUsersUC *user.ListUsersUseCase,
	updateProfileUC *user.UpdateProfileUseCase,
) *UserHandler {
	return &UserHandler{
		getUserUC:       getUserUC,
		listUsersUC:     listUsersUC,
		updateProfileUC: updateProfileUC,
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.listUsersUC.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponses(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "id", "пользователя")
	if !ok {
		return
	}

	found, err := h.getUserUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponse(found))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	userID, ok := pathID(c, "id", "пользователя")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.updateProfileUC.Execute(c.Request.Context(), actor, userID, req.ToPatch())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.ToUserResponse(updated))
}
