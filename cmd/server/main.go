package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dgallion1/docsum/internal/cli"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/llm"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not load .env", "error", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing key leaves the model client disabled; the API still serves
	// uploads and extraction.
	guard, err := llm.New(ctx, cfg.LLMOptions(), log)
	if err != nil {
		log.Error("model client setup failed", "error", err)
		os.Exit(1)
	}

	if err := cli.Serve(ctx, cfg, guard, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
