package faq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
	}{
		{name: "empty", in: "", out: ""},
		{name: "trims and lowercases", in: "  Hello World  ", out: "hello world"},
		{name: "keeps apostrophe and question mark", in: "What's, the distance?", out: "what's the distance?"},
		{name: "strips punctuation", in: "(hello) -world_", out: "hello world"},
		{name: "collapses whitespace runs", in: "a \t b\n\nc", out: "a b c"},
		{name: "keeps single whitespace rune", in: "a\tb", out: "a\tb"},
		{name: "punctuation between spaces", in: "a - b", out: "a b"},
		{name: "only punctuation", in: "!!!...", out: ""},
		{name: "hebrew", in: "שלום, עולם!", out: "שלום עולם"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.out, Normalize(tc.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"  How do I   register, for courses?? ",
		"a\t \tb",
		"x -  - y",
		"מתי   הבחינה?",
		"(((",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestExtractKeywords(t *testing.T) {
	require.Equal(t, []string{"register", "courses"}, ExtractKeywords("how do i register for the courses"))
	require.Equal(t, []string{"exam", "exam"}, ExtractKeywords("exam is an exam"))
	require.Empty(t, ExtractKeywords("what is it"))
	require.Empty(t, ExtractKeywords(""))
}

func TestSplitWordsCountsRunes(t *testing.T) {
	require.Equal(t, []string{"מתי", "הבחינה"}, splitWords("מתי הבחינה אב"))
}
