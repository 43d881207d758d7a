package faq

import "github.com/yanqian/portal-assistant/pkg/metrics"

// Source identifies which stage produced a response.
type Source string

const (
	// SourceFAQ marks answers taken from the curated corpus.
	SourceFAQ Source = "faq"
	// SourceOpenAI marks answers produced by the generative fallback.
	SourceOpenAI Source = "openai"
	// SourceSystem marks guard and degraded responses.
	SourceSystem Source = "system"
)

// Entry is a curated question/answer pair with per-language variants.
type Entry struct {
	ID        string              `json:"id" yaml:"id"`
	Patterns  map[string][]string `json:"patterns" yaml:"patterns"`
	Responses map[string]string   `json:"response" yaml:"response"`
}

// Candidate is the best corpus match for a single query.
type Candidate struct {
	FAQID      string
	Response   string
	Confidence float64
}

// Request is an inbound chat message.
type Request struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
}

// Response is the envelope returned for every message.
type Response struct {
	Text       string   `json:"text"`
	Source     Source   `json:"source"`
	Confidence *float64 `json:"confidence,omitempty"`
	Model      string   `json:"model,omitempty"`
	Language   string   `json:"language,omitempty"`
	FAQID      string   `json:"faqId,omitempty"`
	Success    bool     `json:"success"`
}

// Generation is the output of the generative fallback.
type Generation struct {
	Text  string
	Model string
	Usage metrics.TokenUsage
}
