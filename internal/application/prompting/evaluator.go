package prompting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-academy-api/internal/domain/entity"
	"ai-academy-api/internal/domain/service"
	"ai-academy-api/pkg/logger"
	"ai-academy-api/pkg/metrics"
	"ai-academy-api/pkg/tracer"
)

// PromptEvaluator 按 PCTR 评分标准评估用户 Prompt
type PromptEvaluator struct {
	provider    service.CompletionProvider
	model       string
	temperature float32
	timeout     time.Duration
}

// NewPromptEvaluator 创建评估器
func NewPromptEvaluator(provider service.CompletionProvider, cfg Config) *PromptEvaluator {
	return &PromptEvaluator{
		provider:    provider,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.EvaluationTemperature,
		timeout:     cfg.Timeout,
	}
}

// Evaluate 评估 Prompt，scenario 可为空
// 不返回错误：任何失败都降级为 entity.FallbackEvaluation。
func (e *PromptEvaluator) Evaluate(ctx context.Context, userPrompt, scenario string) *entity.EvaluationResult {
	ctx = service.WithWorkflow(ctx, service.WorkflowPromptEvaluation)
	ctx, span := tracer.Start(ctx, "prompting.evaluate_prompt", trace.WithAttributes(
		attribute.Bool("prompt.has_scenario", strings.TrimSpace(scenario) != ""),
		attribute.Int("prompt.length", len(userPrompt)),
	))
	defer span.End()

	return withFallback(ctx,
		func(ctx context.Context) (*entity.EvaluationResult, error) {
			res, err := e.attempt(ctx, userPrompt, scenario)
			if err != nil {
				return nil, err
			}
			metrics.EvaluationTotal.WithLabelValues("success").Inc()
			return res, nil
		},
		func(err error) *entity.EvaluationResult {
			metrics.EvaluationTotal.WithLabelValues("fallback").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "fallback")
			logger.Warn(ctx, "prompt evaluation degraded to fallback", "error", err.Error())
			return entity.FallbackEvaluation(userPrompt)
		},
	)
}

func (e *PromptEvaluator) attempt(ctx context.Context, userPrompt, scenario string) (*entity.EvaluationResult, error) {
	if e == nil || e.provider == nil {
		return nil, fmt.Errorf("%w: provider not configured", ErrProviderFailure)
	}
	system, contents, err := evaluationPrompt(ctx, userPrompt, scenario)
	if err != nil {
		return nil, err
	}
	callCtx, cancel := withCallTimeout(ctx, e.timeout)
	defer cancel()
	resp, err := e.provider.Complete(callCtx, &service.CompletionRequest{
		Model:             e.model,
		Contents:          contents,
		SystemInstruction: system,
		ResponseSchema:    evaluationSchema,
		Temperature:       e.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrProviderFailure)
	}
	return parseEvaluation(resp.Text)
}

// withFallback 执行 attempt，失败或 panic 时返回 fallback 的结果
func withFallback[T any](ctx context.Context, attempt func(context.Context) (T, error), fallback func(error) T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = fallback(fmt.Errorf("panic: %v", r))
		}
	}()
	v, err := attempt(ctx)
	if err != nil {
		return fallback(err)
	}
	return v
}
