package prompting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-academy-api/internal/domain/entity"
	"ai-academy-api/internal/domain/service"
	"ai-academy-api/pkg/logger"
	"ai-academy-api/pkg/metrics"
	"ai-academy-api/pkg/tracer"
)

// Config 模板生成与评估的调用参数
type Config struct {
	// Model 为空时由 Provider 使用其默认模型
	Model                 string
	GenerationTemperature float32
	EvaluationTemperature float32
	// Timeout 单次补全调用的超时，<=0 表示只受调用方 ctx 约束
	Timeout time.Duration
}

// TemplateComposer 根据用户选项生成结构化 Prompt 模板
type TemplateComposer struct {
	provider    service.CompletionProvider
	model       string
	temperature float32
	timeout     time.Duration

	now   func() time.Time
	newID func() string
}

// NewTemplateComposer 创建模板生成器
func NewTemplateComposer(provider service.CompletionProvider, cfg Config) *TemplateComposer {
	return &TemplateComposer{
		provider:    provider,
		model:       strings.TrimSpace(cfg.Model),
		temperature: cfg.GenerationTemperature,
		timeout:     cfg.Timeout,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

// Generate 生成模板
// 选项非法时返回 *OptionsValidationError 且不发起调用；
// 调用失败或响应不合规时返回 *GenerationError，不返回部分结果。
func (c *TemplateComposer) Generate(ctx context.Context, opts entity.GenerationOptions) (*entity.GeneratedTemplate, error) {
	if issues := opts.Validate(); len(issues) > 0 {
		metrics.TemplateGenerationTotal.WithLabelValues(toolLabel(opts.ToolTarget), "invalid").Inc()
		return nil, &OptionsValidationError{Issues: issues}
	}
	if c == nil || c.provider == nil {
		return nil, newGenerationError(fmt.Errorf("%w: provider not configured", ErrProviderFailure))
	}

	tool := string(opts.ToolTarget)
	ctx = service.WithWorkflow(ctx, service.WorkflowPromptTemplate)
	ctx, span := tracer.Start(ctx, "prompting.generate_template", trace.WithAttributes(
		attribute.String("prompt.tool_target", tool),
		attribute.String("prompt.structure_level", string(opts.StructureLevel)),
		attribute.String("prompt.stakes", string(opts.Stakes)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.TemplateGenerationDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
	}()

	p, err := composeGeneration(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(ctx, "failed to compose template request", err, "tool", tool)
		return nil, err
	}

	logger.Debug(ctx, "generating prompt template",
		"tool", tool,
		"structure_level", string(opts.StructureLevel),
		"stakes", string(opts.Stakes),
	)

	callCtx, cancel := withCallTimeout(ctx, c.timeout)
	resp, err := c.provider.Complete(callCtx, &service.CompletionRequest{
		Model:             c.model,
		Contents:          p.Contents,
		SystemInstruction: p.SystemInstruction,
		ResponseSchema:    generationSchema,
		Temperature:       c.temperature,
	})
	cancel()
	if err != nil {
		return nil, c.fail(ctx, span, tool, fmt.Errorf("%w: %w", ErrProviderFailure, err))
	}
	if resp == nil {
		return nil, c.fail(ctx, span, tool, fmt.Errorf("%w: empty response", ErrProviderFailure))
	}

	payload, block, err := parseGeneration(resp.Text)
	if err != nil {
		return nil, c.fail(ctx, span, tool, err)
	}

	tpl := c.buildTemplate(opts, payload, block)
	metrics.TemplateGenerationTotal.WithLabelValues(tool, "success").Inc()
	span.SetAttributes(attribute.String("prompt.template_id", tpl.ID))
	logger.Info(ctx, "prompt template generated",
		"tool", tool,
		"template_id", tpl.ID,
		"complexity", string(tpl.ComplexityLevel),
		"mode", string(tpl.ModeRecommendation),
	)
	return tpl, nil
}

func (c *TemplateComposer) buildTemplate(opts entity.GenerationOptions, p *generationPayload, block entity.PCTRBlock) *entity.GeneratedTemplate {
	tpl := &entity.GeneratedTemplate{
		ID:                 c.newID(),
		CreatedAt:          c.now(),
		Summary:            strings.TrimSpace(*p.Summary),
		ToolRecommendation: strings.TrimSpace(*p.ToolType),
		TechniquesUsed:     nonNil(*p.TechniquesUsed),
		PCTR:               block,
		Prompt:             block.Flatten(),
		FollowUpPrompts:    nonNil(*p.FollowUpPrompts),
		ComplexityLevel:    opts.StructureLevel.Complexity(),
		ModeRecommendation: opts.Stakes.Mode(),
	}
	if tpl.ToolRecommendation == "" {
		tpl.ToolRecommendation = string(opts.ToolTarget)
	}
	if nonBlank(p.ExtraInstructions) {
		s := strings.TrimSpace(*p.ExtraInstructions)
		tpl.SystemInstructions = &s
	}
	return tpl
}

func (c *TemplateComposer) fail(ctx context.Context, span trace.Span, tool string, err error) error {
	status := "provider_error"
	if errors.Is(err, ErrMalformedResponse) {
		status = "malformed"
	}
	metrics.TemplateGenerationTotal.WithLabelValues(tool, status).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	logger.Error(ctx, "prompt template generation failed", err, "tool", tool, "status", status)
	return newGenerationError(err)
}

func withCallTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func toolLabel(t entity.ToolTarget) string {
	if t.Valid() {
		return string(t)
	}
	return "unknown"
}

func nonNil(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
