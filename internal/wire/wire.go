//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"ai-academy-api/internal/application/prompting"
	"ai-academy-api/internal/config"
	"ai-academy-api/internal/domain/service"
	"ai-academy-api/internal/infrastructure/llm"
	"ai-academy-api/internal/interfaces/http/handler"
	"ai-academy-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RedisSet,
		LLMSet,
		PromptingSet,
		RouterSet,
	)
	return nil, nil, nil
}

// RedisSet Redis 提供者集合（未启用时各项降级为空实现）
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideUsageRecorder,
)

// LLMSet 补全服务提供者集合
var LLMSet = wire.NewSet(
	ProvideProviderDecorator,
	llm.NewFactory,
	wire.Bind(new(service.CompletionProvider), new(*llm.Factory)),
)

// PromptingSet 模板生成与评估提供者集合
var PromptingSet = wire.NewSet(
	ProvidePromptingConfig,
	prompting.NewTemplateComposer,
	prompting.NewPromptEvaluator,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	handler.NewPromptHandler,
	ProvideHealthHandler,
	router.New,
)
