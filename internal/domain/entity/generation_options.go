// Package entity 定义领域实体
package entity

import (
	"fmt"
	"slices"
	"strings"
)

// ToolTarget 目标 AI 工具
type ToolTarget string

const (
	ToolChat       ToolTarget = "Chat"
	ToolNotebookLM ToolTarget = "NotebookLM"
	ToolResearch   ToolTarget = "Research"
	ToolWorkspace  ToolTarget = "Workspace"
)

// ToolTargets 按界面展示顺序列出全部目标工具
var ToolTargets = []ToolTarget{ToolChat, ToolNotebookLM, ToolResearch, ToolWorkspace}

// Valid 是否为已知工具
func (t ToolTarget) Valid() bool {
	return slices.Contains(ToolTargets, t)
}

// StructureLevel 结构化程度
type StructureLevel string

const (
	StructureLight  StructureLevel = "Light"
	StructureMedium StructureLevel = "Medium"
	StructureHigh   StructureLevel = "High"
)

var StructureLevels = []StructureLevel{StructureLight, StructureMedium, StructureHigh}

func (s StructureLevel) Valid() bool {
	return slices.Contains(StructureLevels, s)
}

// Complexity 结构化程度到复杂度的确定性映射
func (s StructureLevel) Complexity() ComplexityLevel {
	switch s {
	case StructureLight:
		return ComplexityBasic
	case StructureHigh:
		return ComplexityAdvanced
	default:
		return ComplexityIntermediate
	}
}

// Stakes 任务风险等级
type Stakes string

const (
	StakesStandard Stakes = "standard"
	StakesHigh     Stakes = "high"
)

var StakesLevels = []Stakes{StakesStandard, StakesHigh}

func (s Stakes) Valid() bool {
	return slices.Contains(StakesLevels, s)
}

// Mode 风险等级到模式建议的确定性映射
func (s Stakes) Mode() ModeRecommendation {
	if s == StakesHigh {
		return ModePro
	}
	return ModeFast
}

// Reasoning 请求内容中使用的推理方式标签
func (s Stakes) Reasoning() ReasoningMode {
	if s == StakesHigh {
		return ReasoningStepByStep
	}
	return ReasoningDirect
}

// DataSensitivity 数据敏感度
type DataSensitivity string

const (
	SensitivityNormal    DataSensitivity = "normal"
	SensitivitySensitive DataSensitivity = "sensitive"
)

var DataSensitivities = []DataSensitivity{SensitivityNormal, SensitivitySensitive}

func (d DataSensitivity) Valid() bool {
	return slices.Contains(DataSensitivities, d)
}

// ComplexityLevel 模板复杂度
type ComplexityLevel string

const (
	ComplexityBasic        ComplexityLevel = "Basic"
	ComplexityIntermediate ComplexityLevel = "Intermediate"
	ComplexityAdvanced     ComplexityLevel = "Advanced"
)

// ModeRecommendation 模型模式建议
type ModeRecommendation string

const (
	ModeFast ModeRecommendation = "Fast"
	ModePro  ModeRecommendation = "Pro"
)

// ReasoningMode 推理方式
type ReasoningMode string

const (
	ReasoningDirect     ReasoningMode = "direct"
	ReasoningStepByStep ReasoningMode = "step-by-step"
)

// ConstraintSelfCritique 要求模型在输出前自我审查
const ConstraintSelfCritique = "self-critique"

// GenerationOptions 模板生成的用户选项
type GenerationOptions struct {
	TaskDescription string          `json:"taskDescription"`
	ToolTarget      ToolTarget      `json:"toolTarget"`
	StructureLevel  StructureLevel  `json:"structureLevel"`
	Stakes          Stakes          `json:"stakes"`
	DataSensitivity DataSensitivity `json:"dataSensitivity"`
	Constraints     []string        `json:"constraints"`
}

// HasConstraint 约束集合中是否包含指定标记
func (o GenerationOptions) HasConstraint(flag string) bool {
	for _, c := range o.Constraints {
		if strings.EqualFold(strings.TrimSpace(c), flag) {
			return true
		}
	}
	return false
}

// SelfCritique 是否要求自我审查
func (o GenerationOptions) SelfCritique() bool {
	return o.HasConstraint(ConstraintSelfCritique)
}

// Sensitive 是否涉及敏感数据
func (o GenerationOptions) Sensitive() bool {
	return o.DataSensitivity == SensitivitySensitive
}

// Validate 返回全部校验问题，为空表示通过
func (o GenerationOptions) Validate() []string {
	var issues []string
	if strings.TrimSpace(o.TaskDescription) == "" {
		issues = append(issues, "taskDescription is required")
	}
	if !o.ToolTarget.Valid() {
		issues = append(issues, fmt.Sprintf("toolTarget invalid: %q", o.ToolTarget))
	}
	if !o.StructureLevel.Valid() {
		issues = append(issues, fmt.Sprintf("structureLevel invalid: %q", o.StructureLevel))
	}
	if !o.Stakes.Valid() {
		issues = append(issues, fmt.Sprintf("stakes invalid: %q", o.Stakes))
	}
	if !o.DataSensitivity.Valid() {
		issues = append(issues, fmt.Sprintf("dataSensitivity invalid: %q", o.DataSensitivity))
	}
	return issues
}
