package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/ignatzorin/freelance-marketplace/internal/interface/http/response"
	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

const rateLimitPrefix = "marketplace:ratelimit"

// NewRateLimitStore возвращает хранилище счётчиков: redis, если клиент задан
// (общий лимит для нескольких инстансов), иначе память процесса.
func NewRateLimitStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}

	store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   rateLimitPrefix,
		MaxRetry: limiter.DefaultMaxRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit: не удалось создать redis store: %w", err)
	}
	return store, nil
}

// RateLimitMiddleware ограничивает количество запросов с одного IP.
// По умолчанию: 10 запросов в минуту.
func RateLimitMiddleware(store limiter.Store, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}

	instance := limiter.New(store, limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		lctx, err := instance.Get(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Log.WithError(err).Error("rate limit: ошибка хранилища счётчиков")
			response.Error(c, apperror.Wrap(err, apperror.ErrCodeInternal, "внутренняя ошибка сервера"))
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", lctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", lctx.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", lctx.Reset))

		if lctx.Reached {
			response.TooManyRequests(c, "слишком много запросов, попробуйте позже")
			c.Abort()
			return
		}

		c.Next()
	}
}
