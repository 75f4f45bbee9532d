package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ai-academy-api/internal/domain/service"
)

const anonymousUser = "anonymous"

// UsageRecorder 按天、按用户累计 Token 用量
// key: usage:<yyyy-mm-dd>:<user>，字段按 workflow 拆分。
type UsageRecorder struct {
	client *Client
	ttl    time.Duration
	now    func() time.Time
}

// NewUsageRecorder 创建用量记录器
func NewUsageRecorder(client *Client, ttl time.Duration) *UsageRecorder {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &UsageRecorder{client: client, ttl: ttl, now: time.Now}
}

// Record 实现 service.LLMUsageRecorder
func (r *UsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	key := UsageKey(r.now(), in.UserID)
	ctx, span := tracer.Start(ctx, "usage.Record")
	span.SetAttributes(
		attribute.String("usage.key", key),
		attribute.String("llm.workflow", in.Workflow),
	)
	defer span.End()

	pipe := r.client.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, in.Workflow+":calls", 1)
	pipe.HIncrBy(ctx, key, in.Workflow+":prompt_tokens", int64(in.PromptTokens))
	pipe.HIncrBy(ctx, key, in.Workflow+":completion_tokens", int64(in.CompletionTokens))
	pipe.HIncrBy(ctx, key, "total_tokens", int64(in.PromptTokens+in.CompletionTokens))
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// UsageKey 构建用量键
func UsageKey(day time.Time, userID string) string {
	u := strings.TrimSpace(userID)
	if u == "" {
		u = anonymousUser
	}
	return fmt.Sprintf("usage:%s:%s", day.UTC().Format(time.DateOnly), u)
}

var _ service.LLMUsageRecorder = (*UsageRecorder)(nil)
