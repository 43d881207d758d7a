package faq

import "time"

const (
	// DefaultMatchThreshold is the score a candidate must exceed to be returned at all.
	DefaultMatchThreshold = 0.1
	// DefaultConfidenceThreshold is the score a candidate needs to be answered from the corpus.
	DefaultConfidenceThreshold = 0.3
	// DefaultGenerationTimeout bounds a single fallback generation.
	DefaultGenerationTimeout = 10 * time.Second
)

// Config holds runtime knobs for the assistant service.
type Config struct {
	MatchThreshold      float64
	ConfidenceThreshold float64
	GenerationTimeout   time.Duration
	CacheAnswers        bool
	CacheTTL            time.Duration
	TopRecommendations  int
}

func (c Config) withDefaults() Config {
	if c.GenerationTimeout <= 0 {
		c.GenerationTimeout = DefaultGenerationTimeout
	}
	return c
}
