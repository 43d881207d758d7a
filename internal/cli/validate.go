package cli

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
)

type validateReport struct {
	Entries  int      `json:"entries"`
	Usable    int            `json:"usable"`
	Languages map[string]int `json:"languages"`
	Errors    []string       `json:"errors"`
	Warnings  []string       `json:"warnings"`
}

// languageCoverage counts usable entries with at least one pattern per language.
func languageCoverage(c *faq.Corpus) map[string]int {
	coverage := make(map[string]int)
	for _, entry := range c.Entries() {
		for language, patterns := range entry.Patterns {
			if len(patterns) > 0 {
				coverage[language]++
			}
		}
	}
	return coverage
}

func formatCoverage(coverage map[string]int) string {
	parts := make([]string, 0, len(coverage))
	for _, language := range slices.Sorted(maps.Keys(coverage)) {
		parts = append(parts, fmt.Sprintf("%s=%d", language, coverage[language]))
	}
	return strings.Join(parts, " ")
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check corpus entries for missing ids, patterns and responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := opts.loadEntries(cmd.Context())
			if err != nil {
				return err
			}
			c, issues := faq.NewCorpus(entries)

			report := validateReport{
				Entries:   len(entries),
				Usable:    c.Len(),
				Languages: languageCoverage(c),
				Errors:    []string{},
				Warnings:  []string{},
			}
			for _, issue := range issues {
				if issue.Fatal {
					report.Errors = append(report.Errors, issue.String())
				} else {
					report.Warnings = append(report.Warnings, issue.String())
				}
			}

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				for _, msg := range report.Errors {
					fmt.Fprintf(out, "ERROR: %s\n", msg)
				}
				for _, msg := range report.Warnings {
					fmt.Fprintf(out, "WARNING: %s\n", msg)
				}
				fmt.Fprintf(out, "Validated %d entries: %d usable, %d error(s), %d warning(s)\n",
					report.Entries, report.Usable, len(report.Errors), len(report.Warnings))
				if len(report.Languages) > 0 {
					fmt.Fprintf(out, "Languages: %s\n", formatCoverage(report.Languages))
				}
			}

			if len(report.Errors) > 0 {
				return errors.New("corpus has invalid entries")
			}
			return nil
		},
	}
}
