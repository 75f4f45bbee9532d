package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-academy-api/internal/application/prompting"
	"ai-academy-api/internal/domain/entity"
	"ai-academy-api/internal/interfaces/http/dto"
	apperrors "ai-academy-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGenerator struct {
	got entity.GenerationOptions
	tpl *entity.GeneratedTemplate
	err error
}

func (s *stubGenerator) Generate(_ context.Context, opts entity.GenerationOptions) (*entity.GeneratedTemplate, error) {
	s.got = opts
	return s.tpl, s.err
}

type stubReviewer struct {
	prompt, scenario string
}

func (s *stubReviewer) Evaluate(_ context.Context, userPrompt, scenario string) *entity.EvaluationResult {
	s.prompt, s.scenario = userPrompt, scenario
	return entity.FallbackEvaluation(userPrompt)
}

func newPromptEngine(gen TemplateGenerator, rev PromptReviewer) *gin.Engine {
	h := &PromptHandler{composer: gen, evaluator: rev}
	r := gin.New()
	r.POST("/v1/prompts/templates", h.GenerateTemplate)
	r.POST("/v1/prompts/evaluations", h.EvaluatePrompt)
	r.GET("/v1/prompts/options", h.GetOptions)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateTemplate_AppliesDefaults(t *testing.T) {
	gen := &stubGenerator{tpl: &entity.GeneratedTemplate{ID: "tpl-1", Summary: "ok"}}
	r := newPromptEngine(gen, &stubReviewer{})

	w := doJSON(t, r, http.MethodPost, "/v1/prompts/templates",
		`{"taskDescription":"Summarize a report","toolTarget":"Chat","constraints":["Self-Critique","self-critique"," "]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.StructureMedium, gen.got.StructureLevel)
	assert.Equal(t, entity.StakesStandard, gen.got.Stakes)
	assert.Equal(t, entity.SensitivityNormal, gen.got.DataSensitivity)
	assert.Equal(t, []string{"self-critique"}, gen.got.Constraints)

	var resp dto.Response[entity.GeneratedTemplate]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tpl-1", resp.Data.ID)
}

func TestGenerateTemplate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperrors.ErrorCode
		wantMsg    string
	}{
		{
			name:       "invalid options",
			err:        &prompting.OptionsValidationError{Issues: []string{"taskDescription is required"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeInvalidParam,
			wantMsg:    "invalid generation options",
		},
		{
			name: "generation failure",
			err: &prompting.GenerationError{
				Message: "The template service is temporarily unavailable. Please try again.",
				Err:     prompting.ErrProviderFailure,
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   apperrors.CodeGenerationFailed,
			wantMsg:    "The template service is temporarily unavailable. Please try again.",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "failed to generate template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newPromptEngine(&stubGenerator{err: tt.err}, &stubReviewer{})
			w := doJSON(t, r, http.MethodPost, "/v1/prompts/templates", `{"taskDescription":"x","toolTarget":"Chat"}`)

			require.Equal(t, tt.wantStatus, w.Code)
			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Message)
			if tt.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, string(tt.wantCode), resp.Error.ErrorCode)
			}
		})
	}
}

func TestGenerateTemplate_GenerationFailureSuggestsRetry(t *testing.T) {
	gen := &stubGenerator{err: &prompting.GenerationError{Message: "try again", Err: prompting.ErrMalformedResponse}}
	w := doJSON(t, newPromptEngine(gen, &stubReviewer{}), http.MethodPost, "/v1/prompts/templates", `{"taskDescription":"x","toolTarget":"Chat"}`)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.Suggestions)
}

func TestGenerateTemplate_MalformedBody(t *testing.T) {
	gen := &stubGenerator{}
	w := doJSON(t, newPromptEngine(gen, &stubReviewer{}), http.MethodPost, "/v1/prompts/templates", `{"taskDescription":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, gen.got.TaskDescription)
}

func TestEvaluatePrompt_AlwaysOK(t *testing.T) {
	rev := &stubReviewer{}
	r := newPromptEngine(&stubGenerator{}, rev)

	w := doJSON(t, r, http.MethodPost, "/v1/prompts/evaluations", `{"prompt":"","scenario":"email"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", rev.prompt)
	assert.Equal(t, "email", rev.scenario)

	var resp dto.Response[entity.EvaluationResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entity.RatingMissing, resp.Data.PCTR.Persona.Rating)
}

func TestEvaluatePrompt_MalformedBody(t *testing.T) {
	w := doJSON(t, newPromptEngine(&stubGenerator{}, &stubReviewer{}), http.MethodPost, "/v1/prompts/evaluations", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOptions(t *testing.T) {
	w := doJSON(t, newPromptEngine(&stubGenerator{}, &stubReviewer{}), http.MethodGet, "/v1/prompts/options", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.PromptOptionsResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, entity.ToolTargets, resp.Data.ToolTargets)
	assert.Equal(t, entity.StructureMedium, resp.Data.Defaults.StructureLevel)
	assert.Contains(t, resp.Data.Constraints, entity.ConstraintSelfCritique)
}
