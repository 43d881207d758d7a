package generator

import (
	"context"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
)

// StaticModel is reported as the model of canned replies.
const StaticModel = "static-response"

var staticReplies = map[string]string{
	faq.LanguageEnglish: "I can help you with questions about the academic system. Please ask a more specific question.",
	faq.LanguageHebrew:  "אני יכול לעזור לך עם שאלות לגבי המערכת האקדמית. אנא שאל שאלה ספציפית יותר.",
}

// Static returns a fixed per-language reply without external calls.
type Static struct{}

// Generate implements faq.Generator.
func (Static) Generate(ctx context.Context, _ string, language string) (faq.Generation, error) {
	if err := ctx.Err(); err != nil {
		return faq.Generation{}, err
	}
	text, ok := staticReplies[language]
	if !ok {
		text = staticReplies[faq.LanguageEnglish]
	}
	return faq.Generation{Text: text, Model: StaticModel}, nil
}

var _ faq.Generator = Static{}
