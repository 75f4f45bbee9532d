// Package service 定义跨层的领域端口
package service

import "context"

// CompletionRequest 一次补全调用的请求描述
type CompletionRequest struct {
	Model             string
	Contents          string
	SystemInstruction string
	// ResponseSchema 为空时不约束输出结构
	ResponseSchema *Schema
	Temperature    float32
}

// Usage Token 用量
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// CompletionResponse 补全结果
type CompletionResponse struct {
	Text  string
	Model string
	Usage Usage
}

// CompletionProvider 语言模型补全能力
// 约定：每次 Complete 只发起一次外部请求，不做重试。
type CompletionProvider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// ProviderDecorator 为指定名称与模型的 Provider 附加横切能力
type ProviderDecorator func(name, model string, next CompletionProvider) CompletionProvider
