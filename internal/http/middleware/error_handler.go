package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

// ErrorHandler перехватывает панику и ошибки, добавленные через c.Error,
// и отвечает единым форматом. Детали внутренних ошибок клиенту не отдаются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.WithFields(logrus.Fields{
					"panic":  rec,
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("паника при обработке запроса")
				if !c.Writer.Written() {
					response.Error(c, apperror.New(apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
				}
				c.Abort()
			}
		}()

		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		response.Error(c, c.Errors.Last().Err)
	}
}
