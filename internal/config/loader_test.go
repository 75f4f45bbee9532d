package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("ACADEMY_TEST_KEY", "secret")

	tests := []struct {
		in   string
		want string
	}{
		{"key: ${ACADEMY_TEST_KEY}", "key: secret"},
		{"key: ${ACADEMY_TEST_KEY:fallback}", "key: secret"},
		{"key: ${ACADEMY_UNSET_KEY:fallback}", "key: fallback"},
		{"key: ${ACADEMY_UNSET_KEY:}", "key: "},
		{"key: ${ACADEMY_UNSET_KEY}", "key: ${ACADEMY_UNSET_KEY}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnv(tt.in), tt.in)
	}
}

func TestLoadFrom_DefaultsWithoutFiles(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ai-academy-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.HTTP.WriteTimeout)
	assert.Equal(t, "gemini", cfg.LLM.DefaultProvider)
	assert.Equal(t, ProviderTypeGemini, cfg.LLM.Providers["gemini"].Type)
	assert.InDelta(t, 0.2, cfg.Prompting.GenerationTemperature, 1e-6)
	assert.Equal(t, 30, cfg.Security.RateLimit.RequestsPerMinute)
	assert.False(t, cfg.Cache.Redis.Enabled)
}

func TestLoadFrom_EnvFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "staging")
	t.Setenv("ACADEMY_GEMINI_KEY", "k-123")

	writeConfig(t, dir, "config.yaml", `
server:
  http:
    port: 9000
llm:
  default_provider: gemini
  providers:
    gemini:
      type: gemini
      api_key: ${ACADEMY_GEMINI_KEY}
      model: gemini-2.5-flash
`)
	writeConfig(t, dir, "config.staging.yaml", `
server:
  http:
    port: 9100
prompting:
  generation_temperature: 0.5
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.HTTP.Port)
	assert.Equal(t, "k-123", cfg.LLM.Providers["gemini"].APIKey)
	assert.InDelta(t, 0.5, cfg.Prompting.GenerationTemperature, 1e-6)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LLM: LLMConfig{
				DefaultProvider: "gemini",
				Providers:       map[string]ProviderConfig{"gemini": {Type: ProviderTypeGemini}},
			},
			Prompting: PromptingConfig{GenerationTemperature: 0.2, EvaluationTemperature: 0.3},
		}
	}

	require.NoError(t, valid().Validate())

	atBound := valid()
	atBound.Prompting.GenerationTemperature = maxGenerationTemperature
	require.NoError(t, atBound.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown default provider", func(c *Config) { c.LLM.DefaultProvider = "claude" }, "not found in llm.providers"},
		{"bad provider type", func(c *Config) { c.LLM.Providers["gemini"] = ProviderConfig{Type: "vertex"} }, "type invalid"},
		{"temperature out of range", func(c *Config) { c.Prompting.EvaluationTemperature = 3 }, "evaluation_temperature"},
		{"generation temperature too high", func(c *Config) { c.Prompting.GenerationTemperature = 0.9 }, "generation_temperature out of range [0,0.5]"},
		{"jwt without secret", func(c *Config) { c.Security.JWT.Enabled = true }, "security.jwt.secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
