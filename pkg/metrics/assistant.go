package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/yanqian/portal-assistant"

var generationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// TokenUsage is the token accounting reported by a generator call.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether the generator returned no usage.
func (u TokenUsage) IsZero() bool {
	return u == TokenUsage{}
}

// Assistant records dispatch outcomes. A nil *Assistant is a valid no-op.
type Assistant struct {
	responses          metric.Int64Counter
	generationDuration metric.Float64Histogram
	generationErrors   metric.Int64Counter
	tokens             metric.Int64Counter
}

// NewAssistant creates the instruments on the given meter provider.
func NewAssistant(mp metric.MeterProvider) (*Assistant, error) {
	m := mp.Meter(meterName)
	var (
		a   Assistant
		err error
	)
	if a.responses, err = m.Int64Counter("assistant.responses",
		metric.WithDescription("Responses by source, language and success."),
	); err != nil {
		return nil, err
	}
	if a.generationDuration, err = m.Float64Histogram("assistant.generation.duration",
		metric.WithDescription("Latency of fallback generation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(generationBuckets...),
	); err != nil {
		return nil, err
	}
	if a.generationErrors, err = m.Int64Counter("assistant.generation.errors",
		metric.WithDescription("Failed or timed out generations."),
	); err != nil {
		return nil, err
	}
	if a.tokens, err = m.Int64Counter("assistant.generation.tokens",
		metric.WithDescription("Tokens consumed by fallback generation."),
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// RecordResponse counts one dispatched response.
func (a *Assistant) RecordResponse(ctx context.Context, source, language string, success bool) {
	if a == nil {
		return
	}
	a.responses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("language", language),
		attribute.Bool("success", success),
	))
}

// RecordGeneration observes one call to the generator.
func (a *Assistant) RecordGeneration(ctx context.Context, elapsed time.Duration, usage TokenUsage, err error) {
	if a == nil {
		return
	}
	a.generationDuration.Record(ctx, elapsed.Seconds())
	if err != nil {
		a.generationErrors.Add(ctx, 1)
		return
	}
	if !usage.IsZero() {
		a.tokens.Add(ctx, int64(usage.TotalTokens))
	}
}
