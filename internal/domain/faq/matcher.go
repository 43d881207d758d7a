package faq

import "math"

// keywordWeight scales the directional keyword overlap against similarity.
const keywordWeight = 0.8

// Matcher finds the best corpus entry for a free-text query.
type Matcher struct {
	corpus    *Corpus
	threshold float64
}

// NewMatcher builds a matcher over an immutable corpus. A candidate is only
// returned when its confidence is strictly above threshold.
func NewMatcher(corpus *Corpus, threshold float64) *Matcher {
	return &Matcher{corpus: corpus, threshold: threshold}
}

// Match scans every pattern of every entry in load order and returns the
// first highest scoring candidate. Patterns of language are used, falling
// back to English when the entry has none.
func (m *Matcher) Match(query, language string) (Candidate, bool) {
	if query == "" || m.corpus.Len() == 0 {
		return Candidate{}, false
	}
	normalized := Normalize(query)
	if normalized == "" {
		return Candidate{}, false
	}
	if language == "" {
		language = LanguageEnglish
	}
	q := tokenize(normalized)

	var (
		best    Candidate
		highest float64
	)
	for _, entry := range m.corpus.entries {
		for _, pattern := range entry.patternsFor(language) {
			score := math.Max(similarity(q, pattern), keywordScore(q, pattern)*keywordWeight)
			if score > highest {
				highest = score
				best = Candidate{
					FAQID:      entry.entry.ID,
					Response:   entry.entry.ResponseFor(language),
					Confidence: score,
				}
			}
		}
	}

	if highest > m.threshold {
		return best, true
	}
	return Candidate{}, false
}

// keywordScore is the share of query keywords present in the pattern.
func keywordScore(query, pattern tokenized) float64 {
	if len(query.keywords) == 0 {
		return 0
	}
	return float64(countPresent(query.keywords, pattern.keywordSet)) / float64(len(query.keywords))
}
