// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-academy-api/internal/application/prompting"
	"ai-academy-api/internal/domain/entity"
	"ai-academy-api/internal/interfaces/http/dto"
	"ai-academy-api/pkg/errors"
	"ai-academy-api/pkg/logger"
)

// TemplateGenerator 模板生成能力
type TemplateGenerator interface {
	Generate(ctx context.Context, opts entity.GenerationOptions) (*entity.GeneratedTemplate, error)
}

// PromptReviewer Prompt 评估能力，不返回错误
type PromptReviewer interface {
	Evaluate(ctx context.Context, userPrompt, scenario string) *entity.EvaluationResult
}

// PromptHandler Prompt 模板与评估处理器
type PromptHandler struct {
	composer  TemplateGenerator
	evaluator PromptReviewer
}

// NewPromptHandler 创建 Prompt 处理器
func NewPromptHandler(composer *prompting.TemplateComposer, evaluator *prompting.PromptEvaluator) *PromptHandler {
	return &PromptHandler{composer: composer, evaluator: evaluator}
}

// GenerateTemplate 生成结构化 Prompt 模板
// @Summary 生成 Prompt 模板
// @Tags Prompts
// @Accept json
// @Produce json
// @Param body body dto.GenerateTemplateRequest true "生成选项"
// @Success 200 {object} dto.Response[entity.GeneratedTemplate]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/prompts/templates [post]
func (h *PromptHandler) GenerateTemplate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl, err := h.composer.Generate(ctx, req.ToOptions())
	if err != nil {
		h.writeGenerationError(c, err)
		return
	}
	dto.Success(c, tpl)
}

func (h *PromptHandler) writeGenerationError(c *gin.Context, err error) {
	var vErr *prompting.OptionsValidationError
	if stderrors.As(err, &vErr) {
		appErr := errors.New(errors.CodeInvalidParam, "invalid generation options").WithDetail(strings.Join(vErr.Issues, "; "))
		dto.FromAppError(c, appErr)
		return
	}

	var gErr *prompting.GenerationError
	if stderrors.As(err, &gErr) {
		appErr := errors.Wrap(gErr, errors.CodeGenerationFailed, gErr.Message)
		dto.FromAppError(c, appErr, "Retry the request in a few seconds.")
		return
	}

	logger.Error(c.Request.Context(), "unexpected template generation error", err)
	dto.InternalError(c, "failed to generate template")
}

// EvaluatePrompt 按 PCTR 评估 Prompt，失败时返回降级结果
// @Summary 评估 Prompt
// @Tags Prompts
// @Accept json
// @Produce json
// @Param body body dto.EvaluatePromptRequest true "待评估 Prompt"
// @Success 200 {object} dto.Response[entity.EvaluationResult]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/prompts/evaluations [post]
func (h *PromptHandler) EvaluatePrompt(c *gin.Context) {
	var req dto.EvaluatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	dto.Success(c, h.evaluator.Evaluate(c.Request.Context(), req.Prompt, req.Scenario))
}

// GetOptions 返回可选项与默认值
// @Summary 获取生成选项
// @Tags Prompts
// @Produce json
// @Success 200 {object} dto.Response[dto.PromptOptionsResponse]
// @Router /v1/prompts/options [get]
func (h *PromptHandler) GetOptions(c *gin.Context) {
	dto.Success(c, dto.NewPromptOptionsResponse())
}
