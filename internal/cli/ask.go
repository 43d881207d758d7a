package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/portal-assistant/internal/domain/faq"
	"github.com/yanqian/portal-assistant/internal/infra/config"
	"github.com/yanqian/portal-assistant/internal/infra/faqstore"
	"github.com/yanqian/portal-assistant/internal/infra/generator"
)

func newAskCommand(opts *options) *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Run the full dispatch for one message",
		Long: `ask answers from the corpus when confident and otherwise calls the
configured generator. LLM settings come from the usual config file and
environment; without an API key a static reply is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := opts.logger()

			c, err := opts.loadCorpus(cmd.Context())
			if err != nil {
				return err
			}
			gen, err := generator.FromConfig(cfg.LLM, logger)
			if err != nil {
				return err
			}

			svc := faq.NewService(faq.Config{
				MatchThreshold:      cfg.Assistant.MatchThreshold,
				ConfidenceThreshold: cfg.Assistant.ConfidenceThreshold,
				GenerationTimeout:   cfg.Assistant.GenerationTimeout,
			}, c, gen, faqstore.NewMemoryStore(), nil, logger)

			resp := svc.ProcessMessage(cmd.Context(), faq.Request{
				Message:  strings.Join(args, " "),
				Language: language,
			})

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, resp)
			}
			fmt.Fprintf(out, "[%s", resp.Source)
			if resp.FAQID != "" {
				fmt.Fprintf(out, " %s", resp.FAQID)
			}
			if resp.Model != "" {
				fmt.Fprintf(out, " %s", resp.Model)
			}
			fmt.Fprintf(out, "] %s\n", resp.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "lang", "l", "", "Language code; detected from the message when empty")
	return cmd
}
