package faq

const (
	// LanguageEnglish is the default language and the corpus fallback.
	LanguageEnglish = "en"
	// LanguageHebrew is selected whenever a message contains Hebrew script.
	LanguageHebrew = "he"
)

const (
	hebrewBlockStart = '\u0590'
	hebrewBlockEnd   = '\u05FF'
)

// DetectLanguage reports "he" when text contains any rune of the Hebrew
// block and "en" otherwise.
func DetectLanguage(text string) string {
	for _, r := range text {
		if r >= hebrewBlockStart && r <= hebrewBlockEnd {
			return LanguageHebrew
		}
	}
	return LanguageEnglish
}
