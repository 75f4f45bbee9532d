package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-academy-api/internal/config"
	"ai-academy-api/internal/domain/service"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientFromRDB(rdb, &config.RedisConfig{}), mr
}

func TestClient_HealthCheck(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, c.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, c.HealthCheck(context.Background()))
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	c, _ := newTestClient(t)
	l := NewRateLimiter(c)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	key := BuildRateLimitKey("ratelimit", "user-1", "/v1/prompts/templates")
	assert.Equal(t, "ratelimit:user-1:/v1/prompts/templates", key)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := l.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := l.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	// 窗口滑过后恢复
	now = now.Add(61 * time.Second)
	ok, err = l.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	remaining, err = l.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestUsageRecorder_Record(t *testing.T) {
	c, mr := newTestClient(t)
	r := NewUsageRecorder(c, 0)
	day := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return day }
	ctx := context.Background()

	in := service.LLMUsageInput{UserID: "u-42", Workflow: service.WorkflowPromptTemplate, PromptTokens: 100, CompletionTokens: 40}
	require.NoError(t, r.Record(ctx, in))
	require.NoError(t, r.Record(ctx, in))
	require.NoError(t, r.Record(ctx, service.LLMUsageInput{Workflow: service.WorkflowPromptEvaluation, PromptTokens: 5}))

	got, err := c.Redis().HGetAll(ctx, UsageKey(day, "u-42")).Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"prompt_template:calls":             "2",
		"prompt_template:prompt_tokens":     "200",
		"prompt_template:completion_tokens": "80",
		"total_tokens":                      "280",
	}, got)

	assert.True(t, mr.Exists("usage:2026-03-01:anonymous"))
	assert.Equal(t, 48*time.Hour, mr.TTL("usage:2026-03-01:u-42"))
}
