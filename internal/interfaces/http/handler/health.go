package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ai-academy-api/internal/infrastructure/persistence/redis"
)

// ProviderProbe LLM Provider 就绪探测
type ProviderProbe interface {
	Ready(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	redis    *redis.Client
	provider ProviderProbe
	version  string
}

// NewHealthHandler 创建健康检查处理器，redisClient 为 nil 表示未启用
func NewHealthHandler(redisClient *redis.Client, provider ProviderProbe, version string) *HealthHandler {
	return &HealthHandler{
		redis:    redisClient,
		provider: provider,
		version:  version,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready 就绪检查接口
// Provider 必需；Redis 可选，故障时标记 degraded 但不影响就绪态。
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	checks := map[string]*readinessCheck{}

	if h.provider == nil {
		checks["llm"] = &readinessCheck{Status: "missing", Error: "llm provider not configured"}
		ready = false
	} else {
		checks["llm"] = probe(ctx, h.provider.Ready, "error")
		ready = checks["llm"].Status == "ok"
	}

	if h.redis == nil {
		checks["redis"] = &readinessCheck{Status: "disabled"}
	} else {
		checks["redis"] = probe(ctx, h.redis.HealthCheck, "degraded")
	}

	resp := readinessResponse{Status: "ok", Checks: checks}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func probe(ctx context.Context, check func(context.Context) error, failStatus string) *readinessCheck {
	start := time.Now()
	err := check(ctx)
	res := &readinessCheck{Status: "ok", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		res.Status = failStatus
		res.Error = err.Error()
	}
	return res
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
