package dto

import (
	"strings"

	"ai-academy-api/internal/domain/entity"
)

// GenerateTemplateRequest 模板生成请求
// structureLevel / stakes / dataSensitivity 为空时分别取 Medium / standard / normal。
type GenerateTemplateRequest struct {
	TaskDescription string   `json:"taskDescription"`
	ToolTarget      string   `json:"toolTarget"`
	StructureLevel  string   `json:"structureLevel,omitempty"`
	Stakes          string   `json:"stakes,omitempty"`
	DataSensitivity string   `json:"dataSensitivity,omitempty"`
	Constraints     []string `json:"constraints,omitempty"`
}

// ToOptions 转换为领域选项，约束去重
func (r *GenerateTemplateRequest) ToOptions() entity.GenerationOptions {
	opts := entity.GenerationOptions{
		TaskDescription: r.TaskDescription,
		ToolTarget:      entity.ToolTarget(strings.TrimSpace(r.ToolTarget)),
		StructureLevel:  entity.StructureLevel(orDefault(r.StructureLevel, string(DefaultStructureLevel))),
		Stakes:          entity.Stakes(orDefault(r.Stakes, string(DefaultStakes))),
		DataSensitivity: entity.DataSensitivity(orDefault(r.DataSensitivity, string(DefaultDataSensitivity))),
	}
	seen := make(map[string]struct{}, len(r.Constraints))
	for _, c := range r.Constraints {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		opts.Constraints = append(opts.Constraints, key)
	}
	return opts
}

// EvaluatePromptRequest Prompt 评估请求，prompt 允许为空
type EvaluatePromptRequest struct {
	Prompt   string `json:"prompt"`
	Scenario string `json:"scenario,omitempty"`
}

const (
	DefaultStructureLevel  = entity.StructureMedium
	DefaultStakes          = entity.StakesStandard
	DefaultDataSensitivity = entity.SensitivityNormal
)

// PromptOptionsResponse 选项枚举与默认值，供前端选择器使用
type PromptOptionsResponse struct {
	ToolTargets       []entity.ToolTarget      `json:"toolTargets"`
	StructureLevels   []entity.StructureLevel  `json:"structureLevels"`
	Stakes            []entity.Stakes          `json:"stakes"`
	DataSensitivities []entity.DataSensitivity `json:"dataSensitivities"`
	Constraints       []string                 `json:"constraints"`
	Defaults          PromptOptionDefaults     `json:"defaults"`
}

type PromptOptionDefaults struct {
	StructureLevel  entity.StructureLevel  `json:"structureLevel"`
	Stakes          entity.Stakes          `json:"stakes"`
	DataSensitivity entity.DataSensitivity `json:"dataSensitivity"`
}

// NewPromptOptionsResponse 构建选项响应
func NewPromptOptionsResponse() *PromptOptionsResponse {
	return &PromptOptionsResponse{
		ToolTargets:       entity.ToolTargets,
		StructureLevels:   entity.StructureLevels,
		Stakes:            entity.StakesLevels,
		DataSensitivities: entity.DataSensitivities,
		Constraints:       []string{entity.ConstraintSelfCritique},
		Defaults: PromptOptionDefaults{
			StructureLevel:  DefaultStructureLevel,
			Stakes:          DefaultStakes,
			DataSensitivity: DefaultDataSensitivity,
		},
	}
}

func orDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}
