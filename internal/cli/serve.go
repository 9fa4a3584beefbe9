package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/api"
	"github.com/dgallion1/docsum/internal/config"
	"github.com/dgallion1/docsum/internal/llm"
	"github.com/dgallion1/docsum/internal/pipeline"
)

func (a *App) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd.Flags(), map[string]string{"port": "port"})
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			guard, err := a.newModel(ctx, cfg, log)
			if err != nil {
				return err
			}
			return Serve(ctx, cfg, guard, log)
		},
	}
	cmd.Flags().String("port", "", "listen port")
	return cmd
}

// Serve runs the HTTP API until ctx is cancelled, then drains the pipeline
// and shuts the server down. It takes ownership of guard.
func Serve(ctx context.Context, cfg config.Config, guard *llm.Guard, log *slog.Logger) error {
	defer guard.Close()

	// Initialize pipeline.
	runner := pipeline.NewRunner(guard, cfg.MaxConcurrentSummaries, cfg.QAMaxContextChars, log)
	orch := pipeline.NewOrchestrator(cfg, runner, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, guard, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting docsum", "port", cfg.Port, "model", guard.Model(), "model_available", guard.Available())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down...")
	case err, ok := <-errCh:
		orch.Stop()
		if ok {
			log.Error("server error", "error", err)
			return err
		}
		return nil
	}

	orch.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
