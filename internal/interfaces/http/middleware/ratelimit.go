package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ai-academy-api/internal/config"
	"ai-academy-api/internal/interfaces/http/dto"
	"ai-academy-api/pkg/errors"
	"ai-academy-api/pkg/logger"
	"ai-academy-api/pkg/metrics"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

const rateLimitWindow = time.Minute

// RateLimit 按用户（未登录时按客户端 IP）与路由做分钟级限流
// limiter 为 nil 或未启用时直接放行。
func RateLimit(cfg config.RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	limit := cfg.RequestsPerMinute
	if limit <= 0 {
		limit = 30
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "ratelimit"
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := fmt.Sprintf("%s:%s:%s", prefix, rateLimitSubject(c), path)

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, rateLimitWindow)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		if !allowed {
			c.Header("X-RateLimit-Remaining", "0")
			metrics.RateLimitRejected.WithLabelValues(path).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "rate limit exceeded",
				Error: &dto.ErrorDetail{
					ErrorCode:   string(errors.CodeTooManyRequests),
					Suggestions: []string{"Wait a minute before sending another request."},
				},
				TraceID: c.GetString("trace_id"),
			})
			return
		}

		if remaining, err := limiter.Remaining(c.Request.Context(), key, limit, rateLimitWindow); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		c.Next()
	}
}

func rateLimitSubject(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}
