package service

import "context"

// LLMUsageInput 表示一次 LLM 调用的可观测数据。
type LLMUsageInput struct {
	UserID string

	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// LLMUsageRecorder 负责记录 LLM 使用量。
// 约定：实现应尽量 best-effort，不应阻塞主业务流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}

// NoopUsageRecorder 未配置存储时使用
type NoopUsageRecorder struct{}

func (NoopUsageRecorder) Record(context.Context, LLMUsageInput) error { return nil }
