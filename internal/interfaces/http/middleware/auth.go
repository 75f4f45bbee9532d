package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-academy-api/internal/interfaces/http/dto"
	"ai-academy-api/pkg/errors"
	"ai-academy-api/pkg/logger"
	"ai-academy-api/pkg/utils"
)

// AuthConfig 认证配置
type AuthConfig struct {
	Enabled bool
	Secret  string
	Issuer  string
	// SkipPaths 按前缀匹配跳过认证
	SkipPaths []string
}

// DefaultSkipPaths 默认跳过认证的路径
var DefaultSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// Auth JWT 认证中间件
// 未启用时放行，请求按匿名用户处理。
func Auth(cfg AuthConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	return func(c *gin.Context) {
		for _, p := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, errors.CodeTokenMissing, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, errors.CodeTokenInvalid, "invalid authorization format")
			return
		}

		claims, err := jwtManager.ParseToken(strings.TrimSpace(token))
		if err != nil {
			if stderrors.Is(err, utils.ErrExpiredToken) {
				abortUnauthorized(c, errors.CodeTokenExpired, "token expired")
				return
			}
			abortUnauthorized(c, errors.CodeTokenInvalid, "invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code errors.ErrorCode, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    http.StatusUnauthorized,
		Message: msg,
		Error:   &dto.ErrorDetail{ErrorCode: string(code)},
		TraceID: c.GetString("trace_id"),
	})
}
