package faq

import (
	"strings"
	"unicode"
)

// punctuation lists the characters stripped from queries and patterns.
const punctuation = ".,/#!$%^&*;:{}=-_`~()"

// Normalize lowercases text, strips punctuation and collapses whitespace
// runs so that queries and FAQ patterns compare on equal terms.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	var builder strings.Builder
	builder.Grow(len(lowered))

	var (
		run      rune
		runCount int
	)
	flush := func() {
		switch {
		case runCount == 1:
			builder.WriteRune(run)
		case runCount > 1:
			builder.WriteRune(' ')
		}
		runCount = 0
	}

	for _, r := range lowered {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		if unicode.IsSpace(r) {
			run = r
			runCount++
			continue
		}
		flush()
		builder.WriteRune(r)
	}
	flush()
	return strings.TrimSpace(builder.String())
}
