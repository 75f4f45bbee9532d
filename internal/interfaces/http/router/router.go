// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ai-academy-api/internal/config"
	"ai-academy-api/internal/interfaces/http/handler"
	"ai-academy-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	prompt  *handler.PromptHandler
	health  *handler.HealthHandler
	limiter middleware.RateLimiter
}

// New 创建路由器，limiter 为 nil 时不限流
func New(cfg *config.Config, prompt *handler.PromptHandler, health *handler.HealthHandler, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		prompt:  prompt,
		health:  health,
		limiter: limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CORS(r.cfg.Security.CORS))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")
	// 认证在限流之前，限流键优先使用 user_id
	v1.Use(middleware.Auth(middleware.AuthConfig{
		Enabled:   r.cfg.Security.JWT.Enabled,
		Secret:    r.cfg.Security.JWT.Secret,
		Issuer:    r.cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
	}))
	v1.Use(middleware.RateLimit(r.cfg.Security.RateLimit, r.limiter))

	RegisterV1Routes(v1, r.prompt)
}
