package generator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/config"
	"github.com/yanqian/portal-assistant/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
	"github.com/yanqian/portal-assistant/pkg/metrics"
)

type stubChatClient struct {
	responses []chatgpt.ChatCompletionResponse
	errs      []error
	requests  []chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	call := len(s.requests)
	s.requests = append(s.requests, req)
	if call < len(s.errs) && s.errs[call] != nil {
		return chatgpt.ChatCompletionResponse{}, s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return chatgpt.ChatCompletionResponse{}, errors.New("unexpected call")
}

func completion(model, content string) chatgpt.ChatCompletionResponse {
	resp := chatgpt.ChatCompletionResponse{Model: model}
	resp.Choices = append(resp.Choices, struct {
		Message chatgpt.Message `json:"message"`
	}{Message: chatgpt.Message{Role: "assistant", Content: content}})
	resp.Usage.TotalTokens = 12
	return resp
}

func newTestGenerator(client ChatClient, opts Options) *ChatGPT {
	g := NewChatGPT(client, opts, &TokenCounter{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	g.sleep = func(context.Context, time.Duration) error { return nil }
	return g
}

func TestChatGPTGenerateUsesLanguagePrompt(t *testing.T) {
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion("gpt-4o-mini-2024", "  תשובה  ")}}
	g := newTestGenerator(client, Options{Model: "gpt-4o-mini", MaxTokens: 150})

	gen, err := g.Generate(context.Background(), "מתי הבחינה?", faq.LanguageHebrew)
	require.NoError(t, err)
	require.Equal(t, "תשובה", gen.Text)
	require.Equal(t, "gpt-4o-mini-2024", gen.Model)
	require.Equal(t, 12, gen.Usage.TotalTokens)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Equal(t, 150, req.MaxTokens)
	require.Equal(t, DefaultPrompts[faq.LanguageHebrew], req.Messages[0].Content)
	require.Equal(t, "מתי הבחינה?", req.Messages[1].Content)
}

func TestChatGPTGenerateFallsBackToEnglishPrompt(t *testing.T) {
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion("", "ok")}}
	g := newTestGenerator(client, Options{Model: "gpt-4o-mini"})

	gen, err := g.Generate(context.Background(), "bonjour", "fr")
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", gen.Model)
	require.Equal(t, DefaultPrompts[faq.LanguageEnglish], client.requests[0].Messages[0].Content)
}

func TestChatGPTGenerateRetriesTransientFailures(t *testing.T) {
	client := &stubChatClient{
		errs: []error{
			&chatgpt.APIError{StatusCode: http.StatusServiceUnavailable},
			errors.New("connection reset"),
		},
		responses: []chatgpt.ChatCompletionResponse{{}, {}, completion("gpt", "done")},
	}
	g := newTestGenerator(client, Options{Model: "gpt", MaxAttempts: 3, BaseBackoff: time.Millisecond})

	gen, err := g.Generate(context.Background(), "hello", faq.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, "done", gen.Text)
	require.Len(t, client.requests, 3)
}

func TestChatGPTGenerateStopsOnClientError(t *testing.T) {
	client := &stubChatClient{errs: []error{&chatgpt.APIError{StatusCode: http.StatusUnauthorized}}}
	g := newTestGenerator(client, Options{Model: "gpt", MaxAttempts: 3})

	_, err := g.Generate(context.Background(), "hello", faq.LanguageEnglish)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLM))
	require.Len(t, client.requests, 1)
}

func TestChatGPTGenerateRejectsEmptyChoices(t *testing.T) {
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{{Model: "gpt"}}}
	g := newTestGenerator(client, Options{Model: "gpt"})

	_, err := g.Generate(context.Background(), "hello", faq.LanguageEnglish)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLM))
}

func TestChatGPTGenerateTruncatesInput(t *testing.T) {
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{completion("gpt", "ok")}}
	g := newTestGenerator(client, Options{Model: "gpt", MaxInputTokens: 2})

	_, err := g.Generate(context.Background(), strings.Repeat("a", 100), faq.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("a", 8), client.requests[0].Messages[1].Content)
}

func TestChatGPTGenerateEstimatesMissingUsage(t *testing.T) {
	resp := completion("gpt", "abcdefgh")
	resp.Usage = chatgpt.Usage{}
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{resp}}
	g := newTestGenerator(client, Options{Model: "gpt", Prompts: map[string]string{faq.LanguageEnglish: "abcd"}})

	gen, err := g.Generate(context.Background(), "abcdefghij", faq.LanguageEnglish)
	require.NoError(t, err)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6}, gen.Usage)
}

func TestStaticGenerate(t *testing.T) {
	gen, err := Static{}.Generate(context.Background(), "anything", faq.LanguageHebrew)
	require.NoError(t, err)
	require.Equal(t, staticReplies[faq.LanguageHebrew], gen.Text)
	require.Equal(t, StaticModel, gen.Model)

	gen, err = Static{}.Generate(context.Background(), "anything", "fr")
	require.NoError(t, err)
	require.Equal(t, staticReplies[faq.LanguageEnglish], gen.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Static{}.Generate(ctx, "anything", faq.LanguageEnglish)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTokenCounterFallback(t *testing.T) {
	tc := &TokenCounter{}
	require.Equal(t, 3, tc.Count("abcdefghij"))
	require.Equal(t, "short", tc.Truncate("short", 10))
}

func TestFromConfigWithoutKeyIsStatic(t *testing.T) {
	gen, err := FromConfig(config.LLMConfig{Model: "gpt-4o-mini"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.IsType(t, Static{}, gen)

	gen, err = FromConfig(config.LLMConfig{APIKey: "sk-test", Model: "gpt-4o-mini", MaxAttempts: 2}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.IsType(t, &ChatGPT{}, gen)
}
