package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0.1, cfg.Assistant.MatchThreshold)
	require.Equal(t, 0.3, cfg.Assistant.ConfidenceThreshold)
	require.Equal(t, 10*time.Second, cfg.Assistant.GenerationTimeout)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, 150, cfg.LLM.MaxTokens)
}

func TestLoadLayersFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
assistant:
  confidenceThreshold: 0.5
  corpus:
    source: file
    path: /srv/faq.yaml
llm:
  model: gpt-test
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LLM_MODEL", "gpt-env")
	t.Setenv("ASSISTANT_CACHE_ANSWERS", "true")
	t.Setenv("HTTP_CORS_ORIGINS", "https://portal.example, http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 0.5, cfg.Assistant.ConfidenceThreshold)
	require.Equal(t, 0.1, cfg.Assistant.MatchThreshold)
	require.Equal(t, "/srv/faq.yaml", cfg.Assistant.Corpus.Path)
	require.Equal(t, "gpt-env", cfg.LLM.Model)
	require.True(t, cfg.Assistant.CacheAnswers)
	require.Equal(t, []string{"https://portal.example", "http://localhost:3000"}, cfg.HTTP.CORSOrigins)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [broken"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }},
		{name: "threshold above one", mutate: func(c *Config) { c.Assistant.ConfidenceThreshold = 1.5 }},
		{name: "negative threshold", mutate: func(c *Config) { c.Assistant.MatchThreshold = -0.1 }},
		{name: "zero generation timeout", mutate: func(c *Config) { c.Assistant.GenerationTimeout = 0 }},
		{name: "unknown corpus source", mutate: func(c *Config) { c.Assistant.Corpus.Source = "ftp" }},
		{name: "postgres corpus without dsn", mutate: func(c *Config) { c.Assistant.Corpus.Source = CorpusSourcePostgres }},
		{name: "object corpus without bucket", mutate: func(c *Config) { c.Assistant.Corpus.Source = CorpusSourceObject }},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis.Enabled = true }},
		{name: "bad rate limit", mutate: func(c *Config) { c.HTTP.RateLimit.Burst = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestPortFallback(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("PORT", "5001")
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	require.Equal(t, ":5001", cfg.HTTP.Address)
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, hydrateFromFile(cfg, filepath.Join("..", "..", "..", "configs", "config.yaml")))
	require.NoError(t, cfg.Validate())

	defaults := defaultConfig()
	require.Equal(t, defaults.LLM.MaxTokens, cfg.LLM.MaxTokens)
	require.Equal(t, defaults.LLM.Model, cfg.LLM.Model)
	require.Equal(t, defaults.Assistant.MatchThreshold, cfg.Assistant.MatchThreshold)
	require.Equal(t, defaults.Assistant.ConfidenceThreshold, cfg.Assistant.ConfidenceThreshold)
	require.Equal(t, defaults.Assistant.GenerationTimeout, cfg.Assistant.GenerationTimeout)
}
