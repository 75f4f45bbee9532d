package prompting

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-academy-api/internal/domain/entity"
)

// extractJSONObject 从模型输出中截取第一个完整 JSON 对象
// 模型可能会在 JSON 前后夹杂代码块标记或带花括号的说明文字，
// 因此逐个尝试 '{' 位置，只解码其后的第一个值，忽略剩余内容。
func extractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	for i := 0; i < len(raw); {
		j := strings.IndexByte(raw[i:], '{')
		if j < 0 {
			break
		}
		start := i + j

		var obj json.RawMessage
		if err := json.NewDecoder(strings.NewReader(raw[start:])).Decode(&obj); err == nil {
			return string(obj)
		}
		i = start + 1
	}
	// 找不到完整对象时原样返回，交给 Unmarshal 报错
	return raw
}

// decodeJSON 解码模型输出，任何失败都归为 ErrMalformedResponse
func decodeJSON(text string, v any) error {
	raw := extractJSONObject(text)
	if raw == "" {
		return fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// 指针字段用于区分缺失与零值

type pctrPayload struct {
	Persona      *string `json:"persona"`
	Context      *string `json:"context"`
	Task         *string `json:"task"`
	Requirements *string `json:"requirements"`
}

type generationPayload struct {
	Summary           *string      `json:"summary"`
	ToolType          *string      `json:"toolType"`
	TechniquesUsed    *[]string    `json:"techniquesUsed"`
	Prompt            *pctrPayload `json:"prompt"`
	FollowUpPrompts   *[]string    `json:"followUpPrompts"`
	ExtraInstructions *string      `json:"extraInstructions"`
}

type criterionPayload struct {
	Rating  *string `json:"rating"`
	Comment *string `json:"comment"`
}

type pctrAssessmentPayload struct {
	Persona      *criterionPayload `json:"persona"`
	Context      *criterionPayload `json:"context"`
	Task         *criterionPayload `json:"task"`
	Requirements *criterionPayload `json:"requirements"`
}

type evaluationPayload struct {
	Summary        *string                `json:"summary"`
	PCTR           *pctrAssessmentPayload `json:"pctr"`
	ImprovedPrompt *string                `json:"improvedPrompt"`
	Tip            *string                `json:"tip"`
}

type fieldChecker struct {
	missing []string
}

func (c *fieldChecker) present(name string, ok bool) bool {
	if !ok {
		c.missing = append(c.missing, name)
	}
	return ok
}

func (c *fieldChecker) err() error {
	if len(c.missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing or invalid fields: %s", ErrMalformedResponse, strings.Join(c.missing, ", "))
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// parseGeneration 解码并校验模板生成结果
func parseGeneration(text string) (*generationPayload, entity.PCTRBlock, error) {
	var p generationPayload
	if err := decodeJSON(text, &p); err != nil {
		return nil, entity.PCTRBlock{}, err
	}

	var c fieldChecker
	c.present("summary", p.Summary != nil)
	c.present("toolType", p.ToolType != nil)
	c.present("techniquesUsed", p.TechniquesUsed != nil)
	c.present("followUpPrompts", p.FollowUpPrompts != nil)
	if c.present("prompt", p.Prompt != nil) {
		c.present("prompt.persona", nonBlank(p.Prompt.Persona))
		c.present("prompt.context", nonBlank(p.Prompt.Context))
		c.present("prompt.task", nonBlank(p.Prompt.Task))
		c.present("prompt.requirements", nonBlank(p.Prompt.Requirements))
	}
	if err := c.err(); err != nil {
		return nil, entity.PCTRBlock{}, err
	}

	block := entity.PCTRBlock{
		Persona:      strings.TrimSpace(*p.Prompt.Persona),
		Context:      strings.TrimSpace(*p.Prompt.Context),
		Task:         strings.TrimSpace(*p.Prompt.Task),
		Requirements: strings.TrimSpace(*p.Prompt.Requirements),
	}
	return &p, block, nil
}

// parseEvaluation 解码并校验评估结果，四项评分必须齐全
func parseEvaluation(text string) (*entity.EvaluationResult, error) {
	var p evaluationPayload
	if err := decodeJSON(text, &p); err != nil {
		return nil, err
	}

	var c fieldChecker
	c.present("summary", p.Summary != nil)
	c.present("improvedPrompt", p.ImprovedPrompt != nil)
	c.present("tip", p.Tip != nil)
	var criteria [4]entity.CriterionAssessment
	if c.present("pctr", p.PCTR != nil) {
		for i, f := range []struct {
			name string
			v    *criterionPayload
		}{
			{"persona", p.PCTR.Persona},
			{"context", p.PCTR.Context},
			{"task", p.PCTR.Task},
			{"requirements", p.PCTR.Requirements},
		} {
			if !c.present("pctr."+f.name, f.v != nil) {
				continue
			}
			ok := c.present("pctr."+f.name+".rating", f.v.Rating != nil && entity.Rating(*f.v.Rating).Valid())
			c.present("pctr."+f.name+".comment", f.v.Comment != nil)
			if ok && f.v.Comment != nil {
				criteria[i] = entity.CriterionAssessment{Rating: entity.Rating(*f.v.Rating), Comment: *f.v.Comment}
			}
		}
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	res := &entity.EvaluationResult{
		Summary: *p.Summary,
		PCTR: entity.PCTRAssessment{
			Persona:      criteria[0],
			Context:      criteria[1],
			Task:         criteria[2],
			Requirements: criteria[3],
		},
		ImprovedPrompt: *p.ImprovedPrompt,
		Tip:            *p.Tip,
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return res, nil
}
