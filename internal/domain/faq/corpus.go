package faq

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// EntryIssue describes a problem found while building a corpus. Fatal issues
// cause the entry to be skipped; the others only drop the offending pattern.
type EntryIssue struct {
	EntryID string
	Index   int
	Field   string
	Message string
	Fatal   bool
}

func (i EntryIssue) String() string {
	id := i.EntryID
	if id == "" {
		id = fmt.Sprintf("#%d", i.Index)
	}
	return fmt.Sprintf("%s %s: %s", id, i.Field, i.Message)
}

// Corpus is the immutable, load-ordered set of FAQ entries. It is safe for
// concurrent readers.
type Corpus struct {
	entries []compiledEntry
}

type compiledEntry struct {
	entry    Entry
	patterns map[string][]tokenized
}

// NewCorpus validates and compiles entries. Entries that break the corpus
// invariants are reported and skipped; order of the rest is preserved.
func NewCorpus(entries []Entry) (*Corpus, []EntryIssue) {
	var (
		issues   []EntryIssue
		compiled = make([]compiledEntry, 0, len(entries))
		seen     = make(map[string]struct{}, len(entries))
	)

	for i, raw := range entries {
		entry, entryIssues := sanitizeEntry(i, raw)
		issues = append(issues, entryIssues...)
		if hasFatal(entryIssues) {
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			issues = append(issues, EntryIssue{EntryID: entry.ID, Index: i, Field: "id", Message: "duplicate id", Fatal: true})
			continue
		}
		seen[entry.ID] = struct{}{}
		compiled = append(compiled, compileEntry(entry))
	}

	return &Corpus{entries: compiled}, issues
}

// Len reports the number of usable entries.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in load order.
func (c *Corpus) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, cloneEntry(e.entry))
	}
	return out
}

// ResponseFor returns the answer in language, falling back to English.
func (e Entry) ResponseFor(language string) string {
	if text := e.Responses[language]; text != "" {
		return text
	}
	return e.Responses[LanguageEnglish]
}

func (c compiledEntry) patternsFor(language string) []tokenized {
	if patterns := c.patterns[language]; len(patterns) > 0 {
		return patterns
	}
	return c.patterns[LanguageEnglish]
}

func sanitizeEntry(index int, raw Entry) (Entry, []EntryIssue) {
	var issues []EntryIssue
	entry := Entry{
		ID:        strings.TrimSpace(raw.ID),
		Patterns:  make(map[string][]string, len(raw.Patterns)),
		Responses: make(map[string]string, len(raw.Responses)),
	}
	issue := func(field, message string, fatal bool) {
		issues = append(issues, EntryIssue{EntryID: entry.ID, Index: index, Field: field, Message: message, Fatal: fatal})
	}

	if entry.ID == "" {
		issue("id", "missing id", true)
	}

	for _, language := range slices.Sorted(maps.Keys(raw.Patterns)) {
		patterns := raw.Patterns[language]
		kept := make([]string, 0, len(patterns))
		for j, pattern := range patterns {
			if Normalize(pattern) == "" {
				issue(fmt.Sprintf("patterns.%s[%d]", language, j), "pattern is blank after normalization", false)
				continue
			}
			kept = append(kept, pattern)
		}
		if len(kept) > 0 {
			entry.Patterns[language] = kept
		}
	}
	for language, response := range raw.Responses {
		if strings.TrimSpace(response) == "" {
			continue
		}
		entry.Responses[language] = response
	}

	if len(entry.Patterns[LanguageEnglish]) == 0 {
		issue("patterns.en", "at least one English pattern is required", true)
	}
	if entry.Responses[LanguageEnglish] == "" {
		issue("response.en", "an English response is required", true)
	}
	return entry, issues
}

func compileEntry(entry Entry) compiledEntry {
	patterns := make(map[string][]tokenized, len(entry.Patterns))
	for language, list := range entry.Patterns {
		compiled := make([]tokenized, 0, len(list))
		for _, pattern := range list {
			compiled = append(compiled, tokenize(Normalize(pattern)))
		}
		patterns[language] = compiled
	}
	return compiledEntry{entry: entry, patterns: patterns}
}

func cloneEntry(entry Entry) Entry {
	out := Entry{
		ID:        entry.ID,
		Patterns:  make(map[string][]string, len(entry.Patterns)),
		Responses: make(map[string]string, len(entry.Responses)),
	}
	for language, patterns := range entry.Patterns {
		out.Patterns[language] = append([]string(nil), patterns...)
	}
	for language, response := range entry.Responses {
		out.Responses[language] = response
	}
	return out
}

func hasFatal(issues []EntryIssue) bool {
	for _, issue := range issues {
		if issue.Fatal {
			return true
		}
	}
	return false
}
