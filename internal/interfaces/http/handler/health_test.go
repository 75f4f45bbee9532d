package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-academy-api/internal/config"
	"ai-academy-api/internal/infrastructure/persistence/redis"
)

type probeFunc func(ctx context.Context) error

func (f probeFunc) Ready(ctx context.Context) error { return f(ctx) }

func newHealthEngine(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/live", h.Live)
	return r
}

func TestHealth_Version(t *testing.T) {
	w := doJSON(t, newHealthEngine(NewHealthHandler(nil, nil, "v1.2.3")), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v1.2.3", resp.Version)
}

func TestReady(t *testing.T) {
	ok := probeFunc(func(context.Context) error { return nil })
	broken := probeFunc(func(context.Context) error { return errors.New("missing api key") })

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	redisClient := redis.NewClientFromRDB(rdb, &config.RedisConfig{})

	tests := []struct {
		name       string
		redis      *redis.Client
		provider   ProviderProbe
		wantStatus int
		wantRedis  string
		wantLLM    string
	}{
		{"provider ok redis disabled", nil, ok, http.StatusOK, "disabled", "ok"},
		{"provider ok redis ok", redisClient, ok, http.StatusOK, "ok", "ok"},
		{"provider broken", nil, broken, http.StatusServiceUnavailable, "disabled", "error"},
		{"provider missing", nil, nil, http.StatusServiceUnavailable, "disabled", "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, newHealthEngine(NewHealthHandler(tt.redis, tt.provider, "")), http.MethodGet, "/ready", "")
			require.Equal(t, tt.wantStatus, w.Code)

			var resp readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantRedis, resp.Checks["redis"].Status)
			assert.Equal(t, tt.wantLLM, resp.Checks["llm"].Status)
		})
	}
}

func TestReady_RedisDownIsDegraded(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	h := NewHealthHandler(redis.NewClientFromRDB(rdb, &config.RedisConfig{}), probeFunc(func(context.Context) error { return nil }), "")
	w := doJSON(t, newHealthEngine(h), http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp readinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Checks["redis"].Status)
	assert.NotEmpty(t, resp.Checks["redis"].Error)
}
