package entity

import (
	"fmt"
	"slices"
	"strings"
)

// Rating 单项评分
type Rating string

const (
	RatingStrong  Rating = "Strong"
	RatingOkay    Rating = "Okay"
	RatingMissing Rating = "Missing"
)

var Ratings = []Rating{RatingStrong, RatingOkay, RatingMissing}

func (r Rating) Valid() bool {
	return slices.Contains(Ratings, r)
}

// CriterionAssessment 单项评估
type CriterionAssessment struct {
	Rating  Rating `json:"rating"`
	Comment string `json:"comment"`
}

// PCTRAssessment 四项评估，缺一不可
type PCTRAssessment struct {
	Persona      CriterionAssessment `json:"persona"`
	Context      CriterionAssessment `json:"context"`
	Task         CriterionAssessment `json:"task"`
	Requirements CriterionAssessment `json:"requirements"`
}

// EvaluationResult Prompt 评估结果
type EvaluationResult struct {
	Summary        string         `json:"summary"`
	PCTR           PCTRAssessment `json:"pctr"`
	ImprovedPrompt string         `json:"improvedPrompt"`
	Tip            string         `json:"tip"`
}

// Validate 校验四项评分均在取值范围内
func (r *EvaluationResult) Validate() error {
	if r == nil {
		return fmt.Errorf("evaluation result is nil")
	}
	var issues []string
	for name, c := range map[string]CriterionAssessment{
		"persona":      r.PCTR.Persona,
		"context":      r.PCTR.Context,
		"task":         r.PCTR.Task,
		"requirements": r.PCTR.Requirements,
	} {
		if !c.Rating.Valid() {
			issues = append(issues, fmt.Sprintf("pctr.%s.rating invalid: %q", name, c.Rating))
		}
	}
	if len(issues) > 0 {
		slices.Sort(issues)
		return fmt.Errorf("invalid evaluation result: %s", strings.Join(issues, "; "))
	}
	return nil
}

const (
	fallbackSummary = "Automated analysis is currently unavailable for this prompt."
	fallbackComment = "Unable to evaluate"
	fallbackTip     = "Please try again in a moment."
)

// FallbackEvaluation 评估失败时返回的固定降级结果，ImprovedPrompt 原样回显输入
func FallbackEvaluation(userPrompt string) *EvaluationResult {
	missing := CriterionAssessment{Rating: RatingMissing, Comment: fallbackComment}
	return &EvaluationResult{
		Summary: fallbackSummary,
		PCTR: PCTRAssessment{
			Persona:      missing,
			Context:      missing,
			Task:         missing,
			Requirements: missing,
		},
		ImprovedPrompt: userPrompt,
		Tip:            fallbackTip,
	}
}
