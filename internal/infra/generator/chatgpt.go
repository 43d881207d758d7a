package generator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
	"github.com/yanqian/portal-assistant/pkg/metrics"
)

// DefaultPrompts are the per-language system prompts for the academic portal.
var DefaultPrompts = map[string]string{
	faq.LanguageEnglish: "You are a helpful assistant for an academic portal. Keep answers brief and focused.",
	faq.LanguageHebrew:  "אתה עוזר מועיל לפורטל אקדמי. שמור על תשובות קצרות וממוקדות.",
}

// ChatClient is the subset of the ChatGPT client used for generation.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Options tunes the ChatGPT generator.
type Options struct {
	Model          string
	Temperature    float32
	MaxTokens      int
	MaxInputTokens int
	MaxAttempts    int
	BaseBackoff    time.Duration
	Prompts        map[string]string
}

// ChatGPT answers through an OpenAI-compatible chat completion API.
type ChatGPT struct {
	client ChatClient
	opts   Options
	tokens *TokenCounter
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewChatGPT constructs the generator. tokens may be nil to skip input
// truncation and usage estimates.
func NewChatGPT(client ChatClient, opts Options, tokens *TokenCounter, logger *slog.Logger) *ChatGPT {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if len(opts.Prompts) == 0 {
		opts.Prompts = DefaultPrompts
	}
	return &ChatGPT{
		client: client,
		opts:   opts,
		tokens: tokens,
		logger: logger.With("component", "generator.chatgpt"),
		sleep:  sleepContext,
	}
}

// Generate implements faq.Generator.
func (g *ChatGPT) Generate(ctx context.Context, message, language string) (faq.Generation, error) {
	input := strings.TrimSpace(message)
	if input == "" {
		return faq.Generation{}, apperrors.Wrap(apperrors.CodeInvalidInput, "message cannot be empty", nil)
	}
	if g.tokens != nil && g.opts.MaxInputTokens > 0 {
		input = g.tokens.Truncate(input, g.opts.MaxInputTokens)
	}

	req := chatgpt.ChatCompletionRequest{
		Model:       g.opts.Model,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
		Messages: []chatgpt.Message{
			{Role: "system", Content: g.prompt(language)},
			{Role: "user", Content: input},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= g.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := g.opts.BaseBackoff * time.Duration(1<<(attempt-2))
			if err := g.sleep(ctx, delay); err != nil {
				return faq.Generation{}, apperrors.Wrap(apperrors.CodeLLM, "generation cancelled", err)
			}
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err == nil {
			gen, err := toGeneration(resp, g.opts.Model)
			if err == nil && gen.Usage.IsZero() {
				gen.Usage = g.estimateUsage(req.Messages, gen.Text)
			}
			return gen, err
		}
		lastErr = err
		if !retryable(ctx, err) {
			break
		}
		g.logger.Warn("transient generation failure, retrying", "attempt", attempt, "error", err)
	}
	return faq.Generation{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt request failed", lastErr)
}

func (g *ChatGPT) prompt(language string) string {
	if prompt, ok := g.opts.Prompts[language]; ok && strings.TrimSpace(prompt) != "" {
		return prompt
	}
	return g.opts.Prompts[faq.LanguageEnglish]
}

// estimateUsage counts tokens locally for servers that omit usage.
func (g *ChatGPT) estimateUsage(messages []chatgpt.Message, completion string) metrics.TokenUsage {
	if g.tokens == nil {
		return metrics.TokenUsage{}
	}
	var usage metrics.TokenUsage
	for _, m := range messages {
		usage.PromptTokens += g.tokens.Count(m.Content)
	}
	usage.CompletionTokens = g.tokens.Count(completion)
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return usage
}

func toGeneration(resp chatgpt.ChatCompletionResponse, requestedModel string) (faq.Generation, error) {
	if len(resp.Choices) == 0 {
		return faq.Generation{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt returned no choices", errors.New("empty choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return faq.Generation{}, apperrors.Wrap(apperrors.CodeLLM, "chatgpt response empty", nil)
	}
	model := resp.Model
	if model == "" {
		model = requestedModel
	}
	return faq.Generation{
		Text:  text,
		Model: model,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr *chatgpt.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ faq.Generator = (*ChatGPT)(nil)
