package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"ai-academy-api/internal/domain/service"
)

type fakeGenerator struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

func TestGeminiProvider_Complete(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(`{"ok":true}`, genai.RoleModel)}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 45,
		},
	}}
	p := &GeminiProvider{models: gen, model: "gemini-2.5-flash"}

	resp, err := p.Complete(context.Background(), &service.CompletionRequest{
		Contents:          "Draft a client apology",
		SystemInstruction: "You are a prompt engineer.",
		ResponseSchema:    service.Object("", nil, service.Prop("ok", service.String(""))),
		Temperature:       0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, "gemini-2.5-flash", resp.Model)
	assert.Equal(t, service.Usage{PromptTokens: 120, CompletionTokens: 45}, resp.Usage)

	assert.Equal(t, "gemini-2.5-flash", gen.model)
	require.Len(t, gen.contents, 1)
	assert.Equal(t, "Draft a client apology", gen.contents[0].Parts[0].Text)
	require.NotNil(t, gen.config.Temperature)
	assert.InDelta(t, 0.2, *gen.config.Temperature, 1e-6)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)
	assert.Equal(t, genai.TypeObject, gen.config.ResponseSchema.Type)
	require.NotNil(t, gen.config.SystemInstruction)
	assert.Equal(t, "You are a prompt engineer.", gen.config.SystemInstruction.Parts[0].Text)
}

func TestGeminiProvider_NoSchemaNoMIMEType(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText("plain", genai.RoleModel)}},
	}}
	p := &GeminiProvider{models: gen, model: "m"}

	resp, err := p.Complete(context.Background(), &service.CompletionRequest{Model: "override", Contents: "x"})
	require.NoError(t, err)
	assert.Equal(t, "plain", resp.Text)
	assert.Equal(t, "override", gen.model)
	assert.Empty(t, gen.config.ResponseMIMEType)
	assert.Nil(t, gen.config.ResponseSchema)
	assert.Nil(t, gen.config.SystemInstruction)
}

func TestGeminiProvider_Errors(t *testing.T) {
	upstream := errors.New("quota exceeded")
	p := &GeminiProvider{models: &fakeGenerator{err: upstream}, model: "m"}
	_, err := p.Complete(context.Background(), &service.CompletionRequest{Contents: "x"})
	assert.ErrorIs(t, err, upstream)

	p = &GeminiProvider{models: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, model: "m"}
	_, err = p.Complete(context.Background(), &service.CompletionRequest{Contents: "x"})
	assert.Error(t, err)

	_, err = NewGeminiProvider(context.Background(), "", "m", 0)
	assert.Error(t, err)
}

type fakeChatModel struct {
	input []*schema.Message
	opts  *model.Options

	out *schema.Message
	err error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.input = input
	f.opts = model.GetCommonOptions(&model.Options{}, opts...)
	return f.out, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func TestEinoProvider_Complete(t *testing.T) {
	cm := &fakeChatModel{out: &schema.Message{
		Role:    schema.Assistant,
		Content: `{"ok":true}`,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
	}}
	p := &EinoProvider{chatModel: cm, model: "gpt-4o-mini"}

	resp, err := p.Complete(context.Background(), &service.CompletionRequest{
		Contents:          "evaluate me",
		SystemInstruction: "rubric",
		ResponseSchema:    service.Object("", nil),
		Temperature:       0.3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, service.Usage{PromptTokens: 10, CompletionTokens: 5}, resp.Usage)

	require.Len(t, cm.input, 2)
	assert.Equal(t, schema.System, cm.input[0].Role)
	assert.Equal(t, "rubric", cm.input[0].Content)
	assert.Equal(t, schema.User, cm.input[1].Role)
	assert.Equal(t, "evaluate me", cm.input[1].Content)

	require.NotNil(t, cm.opts.Temperature)
	assert.InDelta(t, 0.3, *cm.opts.Temperature, 1e-6)
	require.NotNil(t, cm.opts.Model)
	assert.Equal(t, "gpt-4o-mini", *cm.opts.Model)
}

func TestEinoProvider_Errors(t *testing.T) {
	upstream := errors.New("401 unauthorized")
	p := &EinoProvider{chatModel: &fakeChatModel{err: upstream}, model: "m"}
	_, err := p.Complete(context.Background(), &service.CompletionRequest{Contents: "x"})
	assert.ErrorIs(t, err, upstream)

	p = &EinoProvider{chatModel: &fakeChatModel{}, model: "m"}
	_, err = p.Complete(context.Background(), &service.CompletionRequest{Contents: "x"})
	assert.Error(t, err)
}
