package generator

import (
	"log/slog"
	"strings"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/config"
	"github.com/yanqian/portal-assistant/internal/infra/llm/chatgpt"
)

// FromConfig returns the ChatGPT generator, or Static when no API key is set.
func FromConfig(cfg config.LLMConfig, logger *slog.Logger) (faq.Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("llm api key not set, using static generator")
		return Static{}, nil
	}
	client, err := chatgpt.NewClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	tokens, err := NewTokenCounter()
	if err != nil {
		logger.Warn("tokenizer unavailable, using approximate token counts", "error", err)
	}
	return NewChatGPT(client, Options{
		Model:          cfg.Model,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
		MaxInputTokens: cfg.MaxInputTokens,
		MaxAttempts:    cfg.MaxAttempts,
		BaseBackoff:    cfg.BaseBackoff,
	}, tokens, logger), nil
}
