package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/pipeline"
)

func (a *App) askCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <file.pdf> <question>",
		Short: "Answer a question using only the text of a PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			log := a.logger(cmd)
			session, err := openDocument(cfg, args[0])
			if err != nil {
				return err
			}

			guard, err := a.newModel(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer guard.Close()

			runner := pipeline.NewRunner(guard, cfg.MaxConcurrentSummaries, cfg.QAMaxContextChars, log)
			answer, err := runner.Ask(cmd.Context(), session, args[1])
			if err != nil {
				return err
			}
			if answer.Truncated {
				cmd.PrintErrf("note: document text was cut to %d characters for this question\n", cfg.QAMaxContextChars)
			}
			cmd.Println(answer.Text)
			return nil
		},
	}
}
