package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/pipeline"
)

// openDocument reads and extracts path into a fresh session.
func openDocument(cfg config.Config, path string) (*pipeline.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%s exceeds max size (%d bytes)", path, cfg.MaxUploadBytes)
	}
	session := pipeline.NewSession(filepath.Base(path))
	if _, err := pipeline.Extract(session, data, cfg.PDFFallbackPdftotext); err != nil {
		return nil, fmt.Errorf("could not extract text: %w", err)
	}
	return session, nil
}

func (a *App) extractCommand() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Print the extracted text of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			session, err := openDocument(cfg, args[0])
			if err != nil {
				return err
			}

			snap := session.Snapshot()
			cmd.Printf("%s: %d pages, %d characters\n\n", snap.Filename, snap.Pages, snap.Characters)
			if full {
				cmd.Print(session.Text())
			} else {
				cmd.Println(snap.Preview)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "print the whole text instead of a preview")
	return cmd
}
