package faq

import (
	"context"
	"time"
)

// Store keeps generated answers and popular-question counters. Failures are
// logged by the service and never change a response.
type Store interface {
	// GetAnswer looks up a cached generation by "language:normalized" key.
	GetAnswer(ctx context.Context, key string) (AnswerRecord, bool, error)
	// SaveAnswer caches a generation; ttl <= 0 keeps it until evicted.
	SaveAnswer(ctx context.Context, record AnswerRecord, ttl time.Duration) error
	// IncrementQuery counts one ask of the normalized message canonical.
	// display is the first raw wording and is kept only once.
	IncrementQuery(ctx context.Context, canonical, display string) error
	// TopQueries returns up to limit questions, most asked first.
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// TrendingQuery is one popular question and how often it was asked.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// AnswerRecord is a cached generation keyed by language and normalized message.
type AnswerRecord struct {
	Key       string    `json:"key"`
	Language  string    `json:"language"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
}
