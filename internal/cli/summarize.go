package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/export"
	"github.com/dgallion1/docsum/internal/pipeline"
	"github.com/dgallion1/docsum/internal/summarize"
)

func (a *App) summarizeCommand() *cobra.Command {
	var (
		style      string
		language   string
		out        string
		format     string
		showChunks bool
	)
	cmd := &cobra.Command{
		Use:   "summarize <file.pdf>",
		Short: "Summarize a PDF",
		Long: `Splits the document into chunks, summarizes each chunk and refines the
partial summaries into one. Failed chunks appear as [Error in chunk N] and do
not stop the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd.Flags(), map[string]string{
				"chunk-size":  "default_chunk_size",
				"overlap":     "default_chunk_overlap",
				"concurrency": "max_concurrent_summaries",
			})
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			settings := cfg.DefaultSettings()
			if settings.Style, err = summarize.ParseStyle(style); err != nil {
				return err
			}
			if settings.Language, err = summarize.ParseLanguage(language); err != nil {
				return err
			}

			var exp export.Format
			if out != "" {
				if format == "" {
					format = filepath.Ext(out)
				}
				if exp, err = export.ForFormat(format); err != nil {
					return err
				}
			}

			log := a.logger(cmd)
			session, err := openDocument(cfg, args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			guard, err := a.newModel(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer guard.Close()
			if err := guard.Err(); err != nil {
				return err
			}

			if err := session.BeginRun(settings); err != nil {
				return err
			}
			runner := pipeline.NewRunner(guard, cfg.MaxConcurrentSummaries, cfg.QAMaxContextChars, log)
			runner.Run(ctx, session)

			snap := session.Snapshot()
			if snap.Status != pipeline.StatusDone {
				return fmt.Errorf("summarization failed: %s", joinErrors(snap.Errors))
			}

			if showChunks {
				for _, c := range snap.Chunks {
					cmd.Printf("--- chunk %d ---\n%s\n\n", c.Chunk, c.Summary)
				}
			}
			cmd.Println(snap.FinalSummary)
			if snap.Progress.FailedChunks > 0 {
				cmd.PrintErrf("%d of %d chunks failed\n", snap.Progress.FailedChunks, snap.Progress.TotalChunks)
			}

			if out == "" {
				return nil
			}
			data, err := exp.Render(snap.FinalSummary)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("%w: write %s: %w", export.ErrExport, out, err)
			}
			cmd.PrintErrf("wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", string(summarize.StyleConcise), "summary style: Concise, Detailed or \"Bullet Points\"")
	cmd.Flags().StringVar(&language, "language", string(summarize.LanguageEnglish), "output language: English, Hindi or French")
	cmd.Flags().Int("chunk-size", summarize.DefaultChunkSize, "characters per chunk (500-2000)")
	cmd.Flags().Int("overlap", summarize.DefaultChunkOverlap, "characters shared by adjacent chunks (0-300)")
	cmd.Flags().Int("concurrency", 4, "chunk summaries requested at once")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the summary to this file")
	cmd.Flags().StringVar(&format, "format", "", "export format: txt, docx, pdf or html (default from --out extension)")
	cmd.Flags().BoolVar(&showChunks, "chunks", false, "print every chunk summary before the final summary")
	return cmd
}

func joinErrors(msgs []string) string {
	errs := make([]error, len(msgs))
	for i, m := range msgs {
		errs[i] = errors.New(m)
	}
	if err := errors.Join(errs...); err != nil {
		return err.Error()
	}
	return "unknown error"
}
