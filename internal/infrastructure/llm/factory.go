// Package llm 提供补全服务的具体绑定
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ai-academy-api/internal/config"
	"ai-academy-api/internal/domain/service"
)

// builder 按配置构建未包装的 Provider
type builder func(ctx context.Context, cfg config.ProviderConfig) (service.CompletionProvider, error)

var builders = map[string]builder{
	config.ProviderTypeGemini: func(ctx context.Context, cfg config.ProviderConfig) (service.CompletionProvider, error) {
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	},
	config.ProviderTypeOpenAI: func(ctx context.Context, cfg config.ProviderConfig) (service.CompletionProvider, error) {
		return NewEinoProvider(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	},
}

// Factory 管理多个 Provider 实例，按名称惰性构建
// Factory 本身实现 CompletionProvider，转发到默认 Provider。
type Factory struct {
	config   *config.LLMConfig
	decorate service.ProviderDecorator
	builders map[string]builder

	providers map[string]service.CompletionProvider
	mu        sync.RWMutex
}

// NewFactory 创建 Provider 工厂，decorate 可为 nil
func NewFactory(cfg *config.Config, decorate service.ProviderDecorator) *Factory {
	return &Factory{
		config:    &cfg.LLM,
		decorate:  decorate,
		builders:  builders,
		providers: make(map[string]service.CompletionProvider),
	}
}

// Get 获取指定名称的 Provider，如果未指定则返回默认 Provider
func (f *Factory) Get(ctx context.Context, name string) (service.CompletionProvider, error) {
	if strings.TrimSpace(name) == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	p, ok := f.providers[name]
	f.mu.RUnlock()
	if ok {
		return p, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if p, ok = f.providers[name]; ok {
		return p, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}
	build, ok := f.builders[providerCfg.Type]
	if !ok {
		return nil, fmt.Errorf("provider %s has unsupported type %q", name, providerCfg.Type)
	}

	p, err := build(ctx, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %s: %w", name, err)
	}
	if f.decorate != nil {
		p = f.decorate(name, providerCfg.Model, p)
	}

	f.providers[name] = p
	return p, nil
}

// Default 返回默认 Provider
func (f *Factory) Default(ctx context.Context) (service.CompletionProvider, error) {
	return f.Get(ctx, "")
}

// Complete 使用默认 Provider 完成调用
func (f *Factory) Complete(ctx context.Context, req *service.CompletionRequest) (*service.CompletionResponse, error) {
	p, err := f.Default(ctx)
	if err != nil {
		return nil, err
	}
	return p.Complete(service.WithProvider(ctx, f.config.DefaultProvider), req)
}

// Ready 检查默认 Provider 是否可构建（不发起网络请求）
func (f *Factory) Ready(ctx context.Context) error {
	_, err := f.Default(ctx)
	return err
}
