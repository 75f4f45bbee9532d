package llm

import (
	"context"
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-academy-api/internal/domain/service"
	"ai-academy-api/pkg/tracer"
)

var initOnce sync.Once

// InitEinoCallbacks 注册 Eino 全局 callbacks（进程级一次）
// 指标由 InstrumentedProvider 统一上报，这里只补充 Eino 组件级 Span。
func InitEinoCallbacks() {
	initOnce.Do(func() {
		handler := cbtemplate.NewHandlerHelper().
			ChatModel(newChatModelCallbackHandler()).
			Prompt(newPromptCallbackHandler()).
			Handler()
		einocallbacks.AppendGlobalHandlers(handler)
	})
}

func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocallbacks.RunInfo, input *model.CallbackInput) context.Context {
			attrs := runInfoAttrs(ctx, info)
			if input != nil && input.Config != nil {
				attrs = append(attrs, attribute.String("llm.model", input.Config.Model))
			}
			ctx, _ = tracer.Start(ctx, "eino.chat_model", trace.WithAttributes(attrs...))
			return ctx
		},
		OnEnd: func(ctx context.Context, _ *einocallbacks.RunInfo, output *model.CallbackOutput) context.Context {
			span := trace.SpanFromContext(ctx)
			if output != nil && output.TokenUsage != nil {
				span.SetAttributes(
					attribute.Int("llm.prompt_tokens", output.TokenUsage.PromptTokens),
					attribute.Int("llm.completion_tokens", output.TokenUsage.CompletionTokens),
				)
			}
			span.End()
			return ctx
		},
		OnError: endWithError,
	}
}

func newPromptCallbackHandler() *cbtemplate.PromptCallbackHandler {
	return &cbtemplate.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocallbacks.RunInfo, _ *prompt.CallbackInput) context.Context {
			ctx, _ = tracer.Start(ctx, "eino.prompt_format", trace.WithAttributes(runInfoAttrs(ctx, info)...))
			return ctx
		},
		OnEnd: func(ctx context.Context, _ *einocallbacks.RunInfo, _ *prompt.CallbackOutput) context.Context {
			trace.SpanFromContext(ctx).End()
			return ctx
		},
		OnError: endWithError,
	}
}

func runInfoAttrs(ctx context.Context, info *einocallbacks.RunInfo) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("llm.workflow", service.WorkflowFromContext(ctx)),
	}
	if info != nil {
		attrs = append(attrs,
			attribute.String("eino.node_name", info.Name),
			attribute.String("eino.type", info.Type),
		)
	}
	return attrs
}

func endWithError(ctx context.Context, _ *einocallbacks.RunInfo, err error) context.Context {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
	return ctx
}
