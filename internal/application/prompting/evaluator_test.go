package prompting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-academy-api/internal/domain/entity"
)

func newTestEvaluator(p *stubProvider) *PromptEvaluator {
	return NewPromptEvaluator(p, Config{Model: "test-model", EvaluationTemperature: 0.3})
}

func assertFallback(t *testing.T, res *entity.EvaluationResult, userPrompt string) {
	t.Helper()
	require.NotNil(t, res)
	assert.Equal(t, userPrompt, res.ImprovedPrompt)
	for _, c := range []entity.CriterionAssessment{res.PCTR.Persona, res.PCTR.Context, res.PCTR.Task, res.PCTR.Requirements} {
		assert.Equal(t, entity.RatingMissing, c.Rating)
		assert.Equal(t, "Unable to evaluate", c.Comment)
	}
	assert.Contains(t, res.Summary, "unavailable")
	assert.NotEmpty(t, res.Tip)
}

func TestEvaluate_ProviderFailureFallsBack(t *testing.T) {
	p := &stubProvider{err: errNetwork}
	res := newTestEvaluator(p).Evaluate(context.Background(), "Summarize this", "")

	assertFallback(t, res, "Summarize this")
	assert.Equal(t, 1, p.Calls())
}

func TestEvaluate_InvalidResponsesFallBack(t *testing.T) {
	cases := map[string]string{
		"not json":        "I think this prompt is fine.",
		"truncated":       `{"summary":"ok","pctr":{"persona":`,
		"missing key":     `{"summary":"s","pctr":{"persona":{"rating":"Strong","comment":"c"},"context":{"rating":"Okay","comment":"c"},"task":{"rating":"Okay","comment":"c"}},"improvedPrompt":"x","tip":"t"}`,
		"bad rating":      `{"summary":"s","pctr":{"persona":{"rating":"Great","comment":"c"},"context":{"rating":"Okay","comment":"c"},"task":{"rating":"Okay","comment":"c"},"requirements":{"rating":"Okay","comment":"c"}},"improvedPrompt":"x","tip":"t"}`,
		"missing improve": `{"summary":"s","pctr":{"persona":{"rating":"Strong","comment":"c"},"context":{"rating":"Okay","comment":"c"},"task":{"rating":"Okay","comment":"c"},"requirements":{"rating":"Okay","comment":"c"}},"tip":"t"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := &stubProvider{text: body}
			res := newTestEvaluator(p).Evaluate(context.Background(), "Write a poem", "")
			assertFallback(t, res, "Write a poem")
		})
	}
}

func TestEvaluate_PanicFallsBack(t *testing.T) {
	p := &stubProvider{panicMsg: "boom"}
	res := newTestEvaluator(p).Evaluate(context.Background(), "Summarize this", "")
	assertFallback(t, res, "Summarize this")
}

func TestEvaluate_PreambleWithBraces(t *testing.T) {
	p := &stubProvider{text: "Here is my review of {your prompt}:\n" + validEvaluationJSON}
	res := newTestEvaluator(p).Evaluate(context.Background(), "Write a poem", "")

	require.NotNil(t, res)
	assert.Equal(t, "Name the audience.", res.Tip)
	assert.Equal(t, "Clear task but little context.", res.Summary)
}

func TestEvaluate_NilProviderFallsBack(t *testing.T) {
	res := NewPromptEvaluator(nil, Config{}).Evaluate(context.Background(), "Summarize this", "")
	assertFallback(t, res, "Summarize this")
}

func TestEvaluate_EmptyPromptRoundTrip(t *testing.T) {
	p := &stubProvider{text: validEvaluationJSON}
	res := newTestEvaluator(p).Evaluate(context.Background(), "", "")
	require.NotNil(t, res)

	assert.Equal(t, entity.PCTRAssessment{
		Persona:      entity.CriterionAssessment{Rating: entity.RatingMissing, Comment: "No role given."},
		Context:      entity.CriterionAssessment{Rating: entity.RatingOkay, Comment: "Some background."},
		Task:         entity.CriterionAssessment{Rating: entity.RatingStrong, Comment: "Deliverable is explicit."},
		Requirements: entity.CriterionAssessment{Rating: entity.RatingOkay, Comment: "Length only."},
	}, res.PCTR)
	assert.Equal(t, "Clear task but little context.", res.Summary)
	assert.Equal(t, "Name the audience.", res.Tip)
	assert.Equal(t, 1, p.Calls())
}

func TestEvaluate_RequestContents(t *testing.T) {
	t.Run("prompt alone", func(t *testing.T) {
		p := &stubProvider{text: validEvaluationJSON}
		newTestEvaluator(p).Evaluate(context.Background(), "  Summarize this  ", "   ")

		req := p.Last()
		assert.Equal(t, "  Summarize this  ", req.Contents)
		assert.Same(t, evaluationSchema, req.ResponseSchema)
		assert.InDelta(t, 0.3, req.Temperature, 1e-6)
		assert.Contains(t, req.SystemInstruction, "Strong")
		assert.Contains(t, req.SystemInstruction, "Okay")
		assert.Contains(t, req.SystemInstruction, "Missing")
	})

	t.Run("scenario prepended", func(t *testing.T) {
		p := &stubProvider{text: validEvaluationJSON}
		newTestEvaluator(p).Evaluate(context.Background(), "Summarize this", "Quarterly board update")

		contents := p.Last().Contents
		si := strings.Index(contents, "Quarterly board update")
		pi := strings.Index(contents, "Summarize this")
		require.GreaterOrEqual(t, si, 0)
		require.GreaterOrEqual(t, pi, 0)
		assert.Less(t, si, pi)
	})
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	var seen error

	got := withFallback(ctx,
		func(context.Context) (int, error) { return 0, errors.New("nope") },
		func(err error) int { seen = err; return 42 },
	)
	assert.Equal(t, 42, got)
	assert.EqualError(t, seen, "nope")

	got = withFallback(ctx,
		func(context.Context) (int, error) { return 7, nil },
		func(error) int { return 42 },
	)
	assert.Equal(t, 7, got)
}
