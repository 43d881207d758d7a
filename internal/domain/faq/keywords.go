package faq

import (
	"strings"
	"unicode/utf8"
)

// minWordRunes is the length a token must exceed to count as a word.
const minWordRunes = 2

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"how": {}, "what": {}, "where": {}, "when": {}, "who": {}, "why": {},
	"can": {}, "do": {}, "does": {}, "did": {},
	"for": {}, "to": {}, "in": {}, "on": {}, "at": {}, "by": {}, "with": {},
	"about": {}, "as": {}, "of": {},
}

// ExtractKeywords returns the significant tokens of already normalized text.
// Order and duplicates are preserved.
func ExtractKeywords(text string) []string {
	words := splitWords(text)
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := stopwords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// splitWords splits on whitespace and drops tokens of two runes or fewer.
func splitWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) > minWordRunes {
			words = append(words, field)
		}
	}
	return words
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// countPresent counts the tokens (with repetition) found in set.
func countPresent(tokens []string, set map[string]struct{}) int {
	count := 0
	for _, token := range tokens {
		if _, ok := set[token]; ok {
			count++
		}
	}
	return count
}
