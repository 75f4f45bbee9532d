package wire

import (
	"context"

	"ai-academy-api/internal/application/prompting"
	"ai-academy-api/internal/config"
	"ai-academy-api/internal/domain/service"
	"ai-academy-api/internal/infrastructure/llm"
	"ai-academy-api/internal/infrastructure/persistence/redis"
	"ai-academy-api/internal/interfaces/http/handler"
	"ai-academy-api/internal/interfaces/http/middleware"
	obsllm "ai-academy-api/internal/observability/llm"
	"ai-academy-api/pkg/logger"
)

// ProvideRedisClient 提供可选 Redis 客户端，未启用或不可达时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, rate limit and usage accounting disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRateLimiter 无 Redis 时返回 nil 接口，中间件直接放行
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideUsageRecorder 无 Redis 时返回空实现
func ProvideUsageRecorder(cfg *config.Config, client *redis.Client) service.LLMUsageRecorder {
	if client == nil {
		return service.NoopUsageRecorder{}
	}
	return redis.NewUsageRecorder(client, cfg.Cache.Redis.UsageTTL)
}

// ProvideProviderDecorator 为每个 Provider 附加追踪、指标与用量记录
func ProvideProviderDecorator(recorder service.LLMUsageRecorder) service.ProviderDecorator {
	return obsllm.NewDecorator(recorder)
}

// ProvidePromptingConfig 提供模板生成与评估参数
func ProvidePromptingConfig(cfg *config.Config) prompting.Config {
	return prompting.Config{
		Model:                 cfg.Prompting.Model,
		GenerationTemperature: cfg.Prompting.GenerationTemperature,
		EvaluationTemperature: cfg.Prompting.EvaluationTemperature,
		Timeout:               cfg.Prompting.RequestTimeout,
	}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, client *redis.Client, factory *llm.Factory) *handler.HealthHandler {
	return handler.NewHealthHandler(client, factory, cfg.App.Version)
}
