// Package llm 为补全调用提供追踪、指标、日志与用量记录
package llm

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-academy-api/internal/domain/service"
	"ai-academy-api/pkg/logger"
	"ai-academy-api/pkg/metrics"
	"ai-academy-api/pkg/tracer"
)

// usageRecordTimeout 用量记录的最长等待时间，超时即放弃
const usageRecordTimeout = 500 * time.Millisecond

// InstrumentedProvider 包装 CompletionProvider
type InstrumentedProvider struct {
	next     service.CompletionProvider
	name     string
	model    string
	recorder service.LLMUsageRecorder
}

// NewDecorator 返回附加可观测能力的装饰器，recorder 可为 nil
func NewDecorator(recorder service.LLMUsageRecorder) service.ProviderDecorator {
	return func(name, model string, next service.CompletionProvider) service.CompletionProvider {
		return &InstrumentedProvider{next: next, name: name, model: model, recorder: recorder}
	}
}

func (p *InstrumentedProvider) Complete(ctx context.Context, req *service.CompletionRequest) (*service.CompletionResponse, error) {
	ctx = service.WithProvider(ctx, p.name)
	workflow := service.WorkflowFromContext(ctx)
	provider := service.ProviderFromContext(ctx)
	modelName := p.model
	if req != nil && strings.TrimSpace(req.Model) != "" {
		modelName = strings.TrimSpace(req.Model)
	}

	ctx, span := tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.workflow", workflow),
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", modelName),
		attribute.Bool("llm.structured_output", req != nil && req.ResponseSchema != nil),
	))
	defer span.End()

	start := time.Now()
	resp, err := p.next.Complete(ctx, req)
	elapsed := time.Since(start)
	metrics.LLMCallDuration.WithLabelValues(workflow, provider, modelName).Observe(elapsed.Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(workflow, provider, modelName, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "llm call failed", err,
			"workflow", workflow,
			"provider", provider,
			"model", modelName,
			"duration_ms", elapsed.Milliseconds(),
		)
		return nil, err
	}
	if resp == nil {
		metrics.LLMCallTotal.WithLabelValues(workflow, provider, modelName, "error").Inc()
		return nil, nil
	}

	metrics.LLMCallTotal.WithLabelValues(workflow, provider, modelName, "success").Inc()
	metrics.LLMTokensUsed.WithLabelValues(workflow, provider, modelName, "prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(workflow, provider, modelName, "completion").Add(float64(resp.Usage.CompletionTokens))
	span.SetAttributes(
		attribute.Int("llm.prompt_tokens", resp.Usage.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.Usage.CompletionTokens),
	)
	logger.Debug(ctx, "llm call completed",
		"workflow", workflow,
		"provider", provider,
		"model", modelName,
		"duration_ms", elapsed.Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	p.recordUsage(ctx, service.LLMUsageInput{
		UserID:           userIDFromContext(ctx),
		Workflow:         workflow,
		Provider:         provider,
		Model:            modelName,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		DurationMs:       int(elapsed.Milliseconds()),
	})
	return resp, nil
}

// recordUsage best-effort，失败只记日志
func (p *InstrumentedProvider) recordUsage(ctx context.Context, in service.LLMUsageInput) {
	if p.recorder == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageRecordTimeout)
	defer cancel()
	if err := p.recorder.Record(rctx, in); err != nil {
		logger.Warn(ctx, "failed to record llm usage", "error", err.Error(), "workflow", in.Workflow)
	}
}

func userIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(logger.UserIDKey).(string); ok {
		return v
	}
	return ""
}
