package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error переводит ошибку в HTTP-ответ. Для 5xx причина пишется в лог и клиенту не отдаётся.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logError(c, err)
			writeError(c, appErr.HTTPStatus, appErr.Code, "внутренняя ошибка сервера")
			return
		}
		writeError(c, appErr.HTTPStatus, appErr.Code, appErr.Message)
		return
	}

	logError(c, err)
	writeError(c, http.StatusInternalServerError, apperror.ErrCodeInternal, "внутренняя ошибка сервера")
}

func BadRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, apperror.ErrCodeBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	writeError(c, http.StatusNotFound, apperror.ErrCodeNotFound, message)
}

func Unauthorized(c *gin.Context, message string) {
	writeError(c, http.StatusUnauthorized, apperror.ErrCodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	writeError(c, http.StatusForbidden, apperror.ErrCodeForbidden, message)
}

func TooManyRequests(c *gin.Context, message string) {
	writeError(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", message)
}

func writeError(c *gin.Context, status int, code apperror.ErrorCode, message string) {
	c.JSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    string(code),
			Message: message,
		},
	})
}

func logError(c *gin.Context, err error) {
	logger.Log.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).WithError(err).Error("ошибка обработки запроса")
}
