// Package prompt 管理内嵌的 Prompt 模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptTemplateGenV1 PromptID = "template_gen_v1"
	PromptEvaluationV1  PromptID = "evaluation_v1"
)

// Registry 按 ID 懒加载并缓存 FString 模板
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]einoprompt.ChatTemplate),
	}
}

func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	system, err := readEmbeddedText("templates/" + string(id) + ".system.txt")
	if err != nil {
		return nil, fmt.Errorf("unknown prompt id %s: %w", id, err)
	}
	user, err := readEmbeddedText("templates/" + string(id) + ".user.txt")
	if err != nil {
		return nil, fmt.Errorf("unknown prompt id %s: %w", id, err)
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.cache[id] = tpl
	return tpl, nil
}

// Messages 渲染模板，返回 system 与 user 两段文本
func (r *Registry) Messages(ctx context.Context, id PromptID, vars map[string]any) (system string, user string, err error) {
	tpl, err := r.ChatTemplate(id)
	if err != nil {
		return "", "", err
	}
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      string(id),
		Type:      "FString",
		Component: components.ComponentOfPrompt,
	})
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", "", fmt.Errorf("format prompt %s: %w", id, err)
	}
	if len(msgs) != 2 {
		return "", "", fmt.Errorf("format prompt %s: expected 2 messages, got %d", id, len(msgs))
	}
	return msgs[0].Content, msgs[1].Content, nil
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
