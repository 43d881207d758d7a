package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Corpus source kinds.
const (
	CorpusSourceFile     = "file"
	CorpusSourcePostgres = "postgres"
	CorpusSourceObject   = "object"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	LLM         LLMConfig         `yaml:"llm"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Redis       RedisConfig       `yaml:"redis"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
	Log         LogConfig         `yaml:"log"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings. An empty APIKey selects the
// static generator.
type LLMConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	MaxTokens      int           `yaml:"maxTokens"`
	MaxInputTokens int           `yaml:"maxInputTokens"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	BaseBackoff    time.Duration `yaml:"baseBackoff"`
}

// AssistantConfig tunes FAQ matching and the fallback path.
type AssistantConfig struct {
	MatchThreshold      float64       `yaml:"matchThreshold"`
	ConfidenceThreshold float64       `yaml:"confidenceThreshold"`
	GenerationTimeout   time.Duration `yaml:"generationTimeout"`
	CacheAnswers        bool          `yaml:"cacheAnswers"`
	CacheTTL            time.Duration `yaml:"cacheTtl"`
	TopRecommendations  int           `yaml:"topRecommendations"`
	Corpus              CorpusConfig  `yaml:"corpus"`
}

// CorpusConfig selects where FAQ entries are loaded from.
type CorpusConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	Key    string `yaml:"key"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ObjectStoreConfig points at an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// LogConfig controls the structured logger. File enables rotation.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from defaults, a YAML file, a .env file and
// environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	// Variables already present in the environment win over .env values.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}

	if v := firstEnv("LLM_API_KEY", "OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}

	if v := os.Getenv("ASSISTANT_MATCH_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Assistant.MatchThreshold = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_CONFIDENCE_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Assistant.ConfidenceThreshold = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_GENERATION_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assistant.GenerationTimeout = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_CACHE_ANSWERS"); v != "" {
		cfg.Assistant.CacheAnswers = parseBool(v)
	}
	if v := os.Getenv("ASSISTANT_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Assistant.CacheTTL = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Assistant.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("ASSISTANT_CORPUS_SOURCE"); v != "" {
		cfg.Assistant.Corpus.Source = strings.ToLower(v)
	}
	if v := os.Getenv("ASSISTANT_CORPUS_PATH"); v != "" {
		cfg.Assistant.Corpus.Path = v
	}
	if v := os.Getenv("ASSISTANT_CORPUS_KEY"); v != "" {
		cfg.Assistant.Corpus.Key = v
	}

	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("OBJECT_STORE_ENDPOINT"); v != "" {
		cfg.ObjectStore.Endpoint = v
	}
	if v := os.Getenv("OBJECT_STORE_ACCESS_KEY"); v != "" {
		cfg.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("OBJECT_STORE_SECRET_KEY"); v != "" {
		cfg.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("OBJECT_STORE_BUCKET"); v != "" {
		cfg.ObjectStore.Bucket = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			CORSOrigins: []string{"*"},
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			Temperature:    0.7,
			MaxTokens:      150,
			MaxInputTokens: 1000,
			Timeout:        30 * time.Second,
			MaxAttempts:    2,
			BaseBackoff:    200 * time.Millisecond,
		},
		Assistant: AssistantConfig{
			MatchThreshold:      0.1,
			ConfidenceThreshold: 0.3,
			GenerationTimeout:   10 * time.Second,
			CacheAnswers:        false,
			CacheTTL:            6 * time.Hour,
			TopRecommendations:  10,
			Corpus: CorpusConfig{
				Source: CorpusSourceFile,
				Path:   "data/faq_data.json",
			},
		},
		Redis: RedisConfig{
			Prefix: "assistant",
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.MaxAttempts <= 0 {
		return errors.New("llm.maxAttempts must be positive")
	}
	if !inUnitRange(c.Assistant.MatchThreshold) {
		return errors.New("assistant.matchThreshold must be within [0,1]")
	}
	if !inUnitRange(c.Assistant.ConfidenceThreshold) {
		return errors.New("assistant.confidenceThreshold must be within [0,1]")
	}
	if c.Assistant.GenerationTimeout <= 0 {
		return errors.New("assistant.generationTimeout must be positive")
	}
	if c.Assistant.CacheTTL < 0 {
		return errors.New("assistant.cacheTtl cannot be negative")
	}
	if c.Assistant.TopRecommendations < 0 {
		return errors.New("assistant.topRecommendations cannot be negative")
	}
	switch c.Assistant.Corpus.Source {
	case CorpusSourceFile:
		if strings.TrimSpace(c.Assistant.Corpus.Path) == "" {
			return errors.New("assistant.corpus.path cannot be empty for file source")
		}
	case CorpusSourcePostgres:
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("postgres.dsn cannot be empty for postgres corpus source")
		}
	case CorpusSourceObject:
		if c.ObjectStore.Endpoint == "" || c.ObjectStore.Bucket == "" || c.Assistant.Corpus.Key == "" {
			return errors.New("objectStore.endpoint, objectStore.bucket and assistant.corpus.key are required for object corpus source")
		}
	default:
		return fmt.Errorf("assistant.corpus.source %q is not supported", c.Assistant.Corpus.Source)
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr cannot be empty when redis cache is enabled")
	}
	return nil
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
