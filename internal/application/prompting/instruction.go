package prompting

import (
	"context"
	"fmt"
	"strings"

	"ai-academy-api/internal/application/prompting/prompt"
	"ai-academy-api/internal/domain/entity"
)

var promptRegistry = prompt.NewRegistry()

// generationPrompt 生成请求的 system instruction 与请求内容
type generationPrompt struct {
	SystemInstruction string
	Contents          string
}

// composeGeneration 按规则确定性地组装生成请求，调用前 opts 必须已通过校验
func composeGeneration(ctx context.Context, opts entity.GenerationOptions) (*generationPrompt, error) {
	rule, ok := ruleFor(opts.ToolTarget)
	if !ok {
		return nil, fmt.Errorf("no rule for tool target %q", opts.ToolTarget)
	}

	vars := map[string]any{
		"tool_name":        rule.DisplayName,
		"tool_rules":       renderToolRules(rule, opts),
		"task_description": strings.TrimSpace(opts.TaskDescription),
		"tool":             string(opts.ToolTarget),
		"structure_level":  string(opts.StructureLevel),
		"reasoning_mode":   string(opts.Stakes.Reasoning()),
		"sensitive":        yesNo(opts.Sensitive()),
		"self_critique":    yesNo(opts.SelfCritique()),
	}
	system, user, err := promptRegistry.Messages(ctx, prompt.PromptTemplateGenV1, vars)
	if err != nil {
		return nil, err
	}
	return &generationPrompt{SystemInstruction: system, Contents: user}, nil
}

func renderToolRules(rule toolRule, opts entity.GenerationOptions) string {
	requirements := append([]string(nil), rule.Requirements...)
	if opts.Stakes == entity.StakesHigh {
		requirements = append(requirements, rule.HighStakes...)
	}
	if opts.SelfCritique() {
		requirements = append(requirements, rule.SelfCritique...)
	}
	if opts.Sensitive() {
		requirements = append(requirements, sensitiveDirective)
	}
	if d, ok := depthDirectives[opts.StructureLevel]; ok {
		requirements = append(requirements, d)
	}

	var b strings.Builder
	writeSection(&b, "Persona", []string{rule.Persona})
	writeSection(&b, "Context", rule.Context)
	writeSection(&b, "Task", rule.Task)
	writeSection(&b, "Requirements", requirements)
	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteString(":\n")
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
}

// evaluationPrompt 评估请求；无场景时请求内容为原始 Prompt
func evaluationPrompt(ctx context.Context, userPrompt, scenario string) (system string, contents string, err error) {
	vars := map[string]any{
		"scenario": strings.TrimSpace(scenario),
		"prompt":   userPrompt,
	}
	system, user, err := promptRegistry.Messages(ctx, prompt.PromptEvaluationV1, vars)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(scenario) == "" {
		return system, userPrompt, nil
	}
	return system, user, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
