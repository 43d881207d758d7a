package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/config"
	"github.com/yanqian/portal-assistant/internal/infra/corpus"
	"github.com/yanqian/portal-assistant/internal/infra/faqstore"
	"github.com/yanqian/portal-assistant/internal/infra/generator"
	"github.com/yanqian/portal-assistant/pkg/metrics"
)

const corpusLoadTimeout = 30 * time.Second

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		MatchThreshold:      cfg.Assistant.MatchThreshold,
		ConfidenceThreshold: cfg.Assistant.ConfidenceThreshold,
		GenerationTimeout:   cfg.Assistant.GenerationTimeout,
		CacheAnswers:        cfg.Assistant.CacheAnswers,
		CacheTTL:            cfg.Assistant.CacheTTL,
		TopRecommendations:  cfg.Assistant.TopRecommendations,
	}
}

func provideCorpus(cfg *config.Config, logger *slog.Logger) *faq.Corpus {
	ctx, cancel := context.WithTimeout(context.Background(), corpusLoadTimeout)
	defer cancel()

	src, release, err := corpus.FromConfig(ctx, cfg)
	defer release()
	if err != nil {
		logger.Error("faq corpus source unavailable, continuing with empty corpus", "source", cfg.Assistant.Corpus.Source, "error", err)
		empty, _ := faq.NewCorpus(nil)
		return empty
	}
	return corpus.Load(ctx, src, logger)
}

func provideGenerator(cfg *config.Config, logger *slog.Logger) (faq.Generator, error) {
	return generator.FromConfig(cfg.LLM, logger)
}

func provideFAQStore(cfg *config.Config, logger *slog.Logger) faq.Store {
	if cfg.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return faqstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
		} else {
			logger.Info("assistant valkey store enabled", "addr", cfg.Redis.Addr)
			return faqstore.NewValkeyStore(client, cfg.Redis.Prefix)
		}
	}
	return faqstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Redis.Addr}}, nil
}

func provideMetricsProvider(cfg *config.Config) (*metrics.Provider, error) {
	return metrics.NewProvider(cfg.Metrics.Enabled)
}

func provideAssistantMetrics(provider *metrics.Provider) (*metrics.Assistant, error) {
	return metrics.NewAssistant(provider.MeterProvider)
}
