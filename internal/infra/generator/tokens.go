package generator

import (
	tiktoken "github.com/pkoukk/tiktoken-go"
)

// approxRunesPerToken is used when no encoder is available.
const approxRunesPerToken = 4

// TokenCounter measures and trims prompt input.
type TokenCounter struct {
	encoder *tiktoken.Tiktoken
}

// NewTokenCounter loads the cl100k_base encoding. On failure the returned
// counter is still usable and falls back to a rune based approximation.
func NewTokenCounter() (*TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TokenCounter{}, err
	}
	return &TokenCounter{encoder: enc}, nil
}

// Count returns the number of tokens in text.
func (tc *TokenCounter) Count(text string) int {
	if tc.encoder == nil {
		return (len([]rune(text)) + approxRunesPerToken - 1) / approxRunesPerToken
	}
	return len(tc.encoder.Encode(text, nil, nil))
}

// Truncate keeps at most limit tokens of text.
func (tc *TokenCounter) Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	if tc.encoder == nil {
		runes := []rune(text)
		if len(runes) <= limit*approxRunesPerToken {
			return text
		}
		return string(runes[:limit*approxRunesPerToken])
	}
	tokens := tc.encoder.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return tc.encoder.Decode(tokens[:limit])
}
