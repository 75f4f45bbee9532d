package prompting

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"ai-academy-api/internal/domain/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubProvider 记录调用次数与最后一次请求
type stubProvider struct {
	mu    sync.Mutex
	calls int
	last  *service.CompletionRequest

	text     string
	err      error
	panicMsg string
}

func (s *stubProvider) Complete(_ context.Context, req *service.CompletionRequest) (*service.CompletionResponse, error) {
	s.mu.Lock()
	s.calls++
	s.last = req
	s.mu.Unlock()

	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &service.CompletionResponse{Text: s.text}, nil
}

func (s *stubProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubProvider) Last() *service.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

var errNetwork = errors.New("dial tcp: connection refused")

const validGenerationJSON = `{
  "summary": "Drafts a sincere apology to a client.",
  "toolType": "Chat",
  "techniquesUsed": ["role prompting", "step-by-step reasoning"],
  "prompt": {
    "persona": "You are an account manager.",
    "context": "A delivery to [CLIENT] slipped by two weeks.",
    "task": "Draft an apology email.",
    "requirements": "Under 200 words, warm tone."
  },
  "followUpPrompts": ["Make it shorter", "Add a discount offer"]
}`

const validEvaluationJSON = `{
  "summary": "Clear task but little context.",
  "pctr": {
    "persona": {"rating": "Missing", "comment": "No role given."},
    "context": {"rating": "Okay", "comment": "Some background."},
    "task": {"rating": "Strong", "comment": "Deliverable is explicit."},
    "requirements": {"rating": "Okay", "comment": "Length only."}
  },
  "improvedPrompt": "You are an editor. Summarize the attached report in five bullets.",
  "tip": "Name the audience."
}`
