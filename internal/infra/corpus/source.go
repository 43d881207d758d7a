package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	apperrors "github.com/yanqian/portal-assistant/pkg/errors"
)

// Source yields the raw FAQ entries in corpus order.
type Source interface {
	Load(ctx context.Context) ([]faq.Entry, error)
	Describe() string
}

// document is the on-disk layout: a top-level list of FAQ entries.
type document struct {
	FAQs []faq.Entry `json:"faqs" yaml:"faqs"`
}

// Decode parses a JSON or YAML corpus document.
func Decode(data []byte) ([]faq.Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorpus, "parse corpus document", err)
	}
	return doc.FAQs, nil
}

// Load reads entries from src and builds the corpus. Any load failure is
// logged and yields an empty corpus so the service can still answer via
// the generator.
func Load(ctx context.Context, src Source, logger *slog.Logger) *faq.Corpus {
	logger = logger.With("component", "corpus.loader", "source", src.Describe())

	entries, err := src.Load(ctx)
	if err != nil {
		logger.Error("faq corpus load failed, continuing with empty corpus", "error", err)
		empty, _ := faq.NewCorpus(nil)
		return empty
	}

	corpus, issues := faq.NewCorpus(entries)
	for _, issue := range issues {
		if issue.Fatal {
			logger.Warn("faq entry skipped", "issue", issue.String())
		} else {
			logger.Warn("faq pattern dropped", "issue", issue.String())
		}
	}
	logger.Info("faq corpus loaded", "entries", corpus.Len(), "skipped", len(entries)-corpus.Len())
	return corpus
}

func describe(kind, location string) string {
	return fmt.Sprintf("%s:%s", kind, location)
}
