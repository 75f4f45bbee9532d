package llm

import (
	"context"
	"fmt"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"ai-academy-api/internal/domain/service"
)

// EinoProvider 基于 Eino ChatModel 的补全实现，适用于 OpenAI 兼容接口
type EinoProvider struct {
	chatModel model.BaseChatModel
	model     string
}

// NewEinoProvider 使用 Eino 的 OpenAI 适配器创建 Provider
func NewEinoProvider(ctx context.Context, apiKey, baseURL, modelName string, timeout time.Duration) (*EinoProvider, error) {
	chatModel, err := openaiopts.NewChatModel(ctx, &openaiopts.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return &EinoProvider{chatModel: chatModel, model: modelName}, nil
}

// Complete 发起一次 Generate 调用
func (p *EinoProvider) Complete(ctx context.Context, req *service.CompletionRequest) (*service.CompletionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("completion request is nil")
	}
	modelName := pickModel(req.Model, p.model)

	msgs := make([]*schema.Message, 0, 2)
	if req.SystemInstruction != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemInstruction))
	}
	msgs = append(msgs, schema.UserMessage(req.Contents))

	// 直接调用组件（不经过 compose 图）时需手动挂载全局 callbacks
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      service.WorkflowFromContext(ctx),
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})
	out, err := p.chatModel.Generate(ctx, msgs, buildModelOptions(req, modelName)...)
	if err != nil {
		return nil, fmt.Errorf("eino generate: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	resp := &service.CompletionResponse{Text: out.Content, Model: modelName}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		resp.Usage = service.Usage{
			PromptTokens:     out.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: out.ResponseMeta.Usage.CompletionTokens,
		}
	}
	return resp, nil
}

func buildModelOptions(req *service.CompletionRequest, modelName string) []model.Option {
	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if modelName != "" {
		opts = append(opts, model.WithModel(modelName))
	}
	if req.ResponseSchema != nil {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   "structured_output",
					"strict": false,
					"schema": toJSONSchema(req.ResponseSchema),
				},
			},
		}))
	}
	return opts
}
