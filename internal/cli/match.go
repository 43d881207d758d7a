package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
)

type matchResult struct {
	Query      string  `json:"query"`
	Normalized string  `json:"normalized"`
	Matched    bool    `json:"matched"`
	FAQID      string  `json:"faqId,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Confident  bool    `json:"confident"`
	Response   string  `json:"response,omitempty"`
}

func newMatchCommand(opts *options) *cobra.Command {
	var (
		language   string
		threshold  float64
		confidence float64
	)
	cmd := &cobra.Command{
		Use:   "match <question>",
		Short: "Show the best corpus match for a question without calling the generator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCorpus(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			if language == "" {
				language = faq.DetectLanguage(query)
			}

			result := matchResult{Query: query, Normalized: faq.Normalize(query)}
			if candidate, ok := faq.NewMatcher(c, threshold).Match(query, language); ok {
				result.Matched = true
				result.FAQID = candidate.FAQID
				result.Confidence = candidate.Confidence
				result.Confident = candidate.Confidence >= confidence
				result.Response = candidate.Response
			}

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, result)
			}
			if !result.Matched {
				fmt.Fprintf(out, "no match for %q\n", result.Normalized)
				return nil
			}
			fmt.Fprintf(out, "%s (confidence %.3f, confident=%t)\n%s\n", result.FAQID, result.Confidence, result.Confident, result.Response)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Language code; detected from the question when empty")
	cmd.Flags().Float64Var(&threshold, "threshold", faq.DefaultMatchThreshold, "Minimum score for a candidate")
	cmd.Flags().Float64Var(&confidence, "confidence", faq.DefaultConfidenceThreshold, "Score required to answer from the corpus")
	return cmd
}
