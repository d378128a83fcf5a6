package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-marketplace/internal/domain/policy"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/http/middleware"
	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
)

// currentActor достаёт пользователя, положенного в контекст AuthMiddleware.
// При отсутствии пишет 401 и возвращает false.
func currentActor(c *gin.Context) (policy.Actor, bool) {
	userIDValue, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		response.Unauthorized(c, "требуется авторизация")
		return policy.Actor{}, false
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		response.Unauthorized(c, "требуется авторизация")
		return policy.Actor{}, false
	}

	role := c.GetString(middleware.ContextRoleKey)
	return policy.Actor{ID: userID, Role: valueobject.Role(role)}, true
}

// pathID разбирает UUID из параметра пути. При ошибке пишет 400 и возвращает false.
func pathID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "некорректный ID "+what)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON разбирает тело запроса. Неизвестные поля отклоняются
// (binding.EnableDecoderDisallowUnknownFields включается в роутере).
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return false
	}
	return true
}
