package entity

import "time"

// GeneratedTemplate 模板生成结果
// ComplexityLevel 与 ModeRecommendation 只由输入选项推导，不取自模型输出。
type GeneratedTemplate struct {
	ID                 string             `json:"id"`
	CreatedAt          time.Time          `json:"createdAt"`
	Summary            string             `json:"summary"`
	ToolRecommendation string             `json:"toolRecommendation"`
	TechniquesUsed     []string           `json:"techniquesUsed"`
	PCTR               PCTRBlock          `json:"pctr"`
	Prompt             string             `json:"prompt"`
	SystemInstructions *string            `json:"systemInstructions,omitempty"`
	FollowUpPrompts    []string           `json:"followUpPrompts"`
	ComplexityLevel    ComplexityLevel    `json:"complexityLevel"`
	ModeRecommendation ModeRecommendation `json:"modeRecommendation"`
}
