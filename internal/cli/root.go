// Package cli implements the docsum command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/llm"
)

// ModelFactory builds the guarded model client for a command.
type ModelFactory func(ctx context.Context, cfg config.Config, log *slog.Logger) (*llm.Guard, error)

// App holds what every command shares: configuration sources, logging and
// the model factory.
type App struct {
	v        *viper.Viper
	newModel ModelFactory

	cfgFile string
	verbose bool
	logJSON bool
}

// NewApp returns an App reading configuration from the environment and
// building real model clients.
func NewApp() *App {
	return &App{
		v: config.NewViper(),
		newModel: func(ctx context.Context, cfg config.Config, log *slog.Logger) (*llm.Guard, error) {
			return llm.New(ctx, cfg.LLMOptions(), log)
		},
	}
}

// WithModelFactory replaces the model factory.
func (a *App) WithModelFactory(f ModelFactory) *App {
	a.newModel = f
	return a
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "docsum",
		Short: "Summarize PDF documents with a language model",
		Long: `docsum extracts the text of a PDF, splits it into overlapping chunks,
summarizes every chunk and refines the partial summaries into one.
It can also answer questions about a document and serve an HTTP API.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "YAML config file (environment variables take precedence)")
	root.PersistentFlags().String("provider", "", "model provider: gemini, anthropic or openai")
	root.PersistentFlags().String("model", "", "model name")
	root.PersistentFlags().Duration("timeout", 0, "per-call model timeout")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")
	root.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log as JSON")

	a.bind(root.PersistentFlags(), map[string]string{
		"provider": "llm_provider",
		"model":    "llm_model",
		"timeout":  "llm_timeout",
	})

	root.AddCommand(
		a.serveCommand(),
		a.extractCommand(),
		a.summarizeCommand(),
		a.askCommand(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewApp().RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// bind maps flag names onto config keys so that a flag, when set, overrides
// the environment and the config file.
func (a *App) bind(flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}
}

// loadConfig reads the optional config file and validates the result.
func (a *App) loadConfig() (config.Config, error) {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	cfg := config.FromViper(a.v)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *App) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if a.logJSON {
		return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), opts))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
}
