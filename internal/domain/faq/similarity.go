package faq

import (
	"math"
	"strings"
)

const (
	exactMatchScore     = 1.0
	patternInQueryScore = 0.9
	queryInPatternScore = 0.8
	wordOverlapWeight   = 0.7
	sequenceWeight      = 0.9
)

// tokenized caches the token views of a normalized string.
type tokenized struct {
	text       string
	words      []string
	wordSet    map[string]struct{}
	keywords   []string
	keywordSet map[string]struct{}
}

func tokenize(normalized string) tokenized {
	words := splitWords(normalized)
	keywords := ExtractKeywords(normalized)
	return tokenized{
		text:       normalized,
		words:      words,
		wordSet:    toSet(words),
		keywords:   keywords,
		keywordSet: toSet(keywords),
	}
}

// Similarity scores two normalized strings in [0,1]. Exact and substring
// matches short-circuit; otherwise the better of word overlap and
// order-preserving overlap wins.
func Similarity(query, pattern string) float64 {
	return similarity(tokenize(query), tokenize(pattern))
}

func similarity(query, pattern tokenized) float64 {
	switch {
	case query.text == pattern.text:
		return exactMatchScore
	case strings.Contains(query.text, pattern.text):
		return patternInQueryScore
	case strings.Contains(pattern.text, query.text):
		return queryInPatternScore
	}

	if len(query.words) == 0 || len(pattern.words) == 0 {
		return 0
	}

	longest := float64(max(len(query.words), len(pattern.words)))
	wordMatch := float64(countPresent(query.words, pattern.wordSet)) / longest
	sequence := float64(LCSLength(query.words, pattern.words)) / longest

	return math.Max(wordMatch*wordOverlapWeight, sequence*sequenceWeight)
}
