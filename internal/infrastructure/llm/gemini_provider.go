package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"ai-academy-api/internal/domain/service"
)

// contentGenerator genai.Models 的最小依赖，便于测试替换
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider 基于 Google GenAI SDK 的补全实现
type GeminiProvider struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGeminiProvider 创建 Gemini Provider
func NewGeminiProvider(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiProvider{
		models:  client.Models,
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete 发起一次 GenerateContent 调用
func (p *GeminiProvider) Complete(ctx context.Context, req *service.CompletionRequest) (*service.CompletionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("completion request is nil")
	}
	modelName := pickModel(req.Model, p.model)
	if modelName == "" {
		return nil, fmt.Errorf("model is required")
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if strings.TrimSpace(req.SystemInstruction) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenAISchema(req.ResponseSchema)
	}

	resp, err := p.models.GenerateContent(ctx, modelName, genai.Text(req.Contents), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	out := &service.CompletionResponse{
		Text:  resp.Text(),
		Model: modelName,
	}
	if resp.UsageMetadata != nil {
		out.Usage = service.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

func pickModel(requested, fallback string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	return strings.TrimSpace(fallback)
}
