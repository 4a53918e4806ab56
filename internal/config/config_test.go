package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewManager("").Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Server.Port, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, want.Scoring, cfg.Scoring)
	assert.Equal(t, "https://openapi.naver.com", cfg.Naver.OpenAPIURL)
	assert.Equal(t, "sonar", cfg.LLM.Research.Model)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Address())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  port: 8080
cache:
  backend: redis
  redis_url: redis://localhost:6379/1
  ttl: 2m
scoring:
  fallback_months: 48
  weights:
    trend_weighted: 0.5
llm:
  gemini:
    model: gemini-1.5-flash
`)
	t.Setenv("PORT", "9090")
	t.Setenv("NAVER_CLIENT_ID", "client-id")
	t.Setenv("KSCOUT_NAVER_CLIENT_SECRET", "client-secret")
	t.Setenv("NAVER_CLIENT_SECRET", "ignored")
	t.Setenv("Perplexity_API_KEY", "pplx-key")
	t.Setenv("KSCOUT_LLM_BURST", "9")

	cfg, err := NewManager("").Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 48.0, cfg.Scoring.FallbackMonths)
	assert.Equal(t, 0.5, cfg.Scoring.Weights.TrendWeighted)
	assert.Equal(t, 0.3, cfg.Scoring.Weights.VolumeRatio)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, "client-id", cfg.Naver.ClientID)
	assert.Equal(t, "client-secret", cfg.Naver.ClientSecret)
	assert.Equal(t, "pplx-key", cfg.LLM.Research.APIKey)
	assert.Equal(t, 9, cfg.LLM.Burst)
}

func TestLoadEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "KSCOUT_CACHE_MAX_ENTRIES=42\n")
	t.Cleanup(func() { os.Unsetenv("KSCOUT_CACHE_MAX_ENTRIES") })

	cfg, err := NewManager(envFile).Load("")
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Cache.MaxEntries)

	_, err = NewManager(filepath.Join(t.TempDir(), "missing.env")).Load("")
	assert.NoError(t, err)
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("KSCOUT_CACHE_BACKEND", "memcached")
	_, err := NewManager("").Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache backend")
}

func TestLoadInvalidScoring(t *testing.T) {
	t.Setenv("KSCOUT_SCORING_FALLBACK_MONTHS", "0")
	_, err := NewManager("").Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback_months")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewManager("").Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReload(t *testing.T) {
	m := NewManager("")
	assert.Error(t, m.Reload())

	path := writeFile(t, "config.yaml", "server:\n  port: 7000\n")
	_, err := m.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, m.GetConfig().Server.Port)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7001\n"), 0o600))
	require.NoError(t, m.Reload())
	assert.Equal(t, 7001, m.GetConfig().Server.Port)
}
