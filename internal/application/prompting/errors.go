// Package prompting 实现结构化 Prompt 模板生成与 Prompt 评估
package prompting

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidOptions 选项校验失败，不会发起外部调用
	ErrInvalidOptions = errors.New("invalid generation options")
	// ErrProviderFailure 补全服务调用失败（网络、鉴权、配额等）
	ErrProviderFailure = errors.New("completion provider failure")
	// ErrMalformedResponse 响应无法解析为 JSON，或缺少必填字段
	ErrMalformedResponse = errors.New("malformed completion response")
)

// OptionsValidationError 携带全部校验问题
type OptionsValidationError struct {
	Issues []string
}

func (e *OptionsValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrInvalidOptions.Error()
	}
	return ErrInvalidOptions.Error() + ": " + strings.Join(e.Issues, "; ")
}

func (e *OptionsValidationError) Unwrap() error {
	return ErrInvalidOptions
}

// GenerationError 模板生成失败，Message 可直接展示给调用方
// Err 保留 ErrProviderFailure / ErrMalformedResponse 错误链。
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

const (
	msgProviderFailure   = "The template service is temporarily unavailable. Please try again."
	msgMalformedResponse = "The template service returned an unexpected response. Please try again."
)

func newGenerationError(err error) *GenerationError {
	msg := msgProviderFailure
	if errors.Is(err, ErrMalformedResponse) {
		msg = msgMalformedResponse
	}
	return &GenerationError{Message: msg, Err: err}
}
