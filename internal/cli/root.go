package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/corpus"
)

const defaultCorpusPath = "data/faq_data.json"

// options are the flags shared by every subcommand.
type options struct {
	corpusPath string
	format     string
	verbose    bool
}

// NewRootCommand builds the faqctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "faqctl",
		Short: "Inspect and exercise the portal assistant FAQ corpus",
		Long: `faqctl works against a local FAQ corpus file.

Examples:
  # Check a corpus for broken entries
  faqctl validate --corpus data/faq_data.json

  # Show the best FAQ match for a question
  faqctl match "how do I register for courses"

  # Run the full dispatch, including the generative fallback
  faqctl ask --lang he "מתי הבחינה?"`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.format != "json" && opts.format != "text" {
				return fmt.Errorf("unsupported format %q, use json or text", opts.format)
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVarP(&opts.corpusPath, "corpus", "c", defaultCorpusPath, "Path to the FAQ corpus (JSON or YAML)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "text", "Output format: json or text")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")

	root.AddCommand(
		newValidateCommand(opts),
		newMatchCommand(opts),
		newAskCommand(opts),
	)
	return root
}

// Execute runs faqctl against the process arguments.
func Execute() error {
	return NewRootCommand(os.Stdout).Execute()
}

func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (o *options) loadEntries(ctx context.Context) ([]faq.Entry, error) {
	return corpus.NewFileSource(o.corpusPath).Load(ctx)
}

func (o *options) loadCorpus(ctx context.Context) (*faq.Corpus, error) {
	entries, err := o.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	c, _ := faq.NewCorpus(entries)
	return c, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
