package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/giygas/openbnf/config"
	"github.com/giygas/openbnf/handlers"
	"github.com/giygas/openbnf/health"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/metrics"
	"github.com/giygas/openbnf/scheduler"
	"github.com/giygas/openbnf/search"
	"github.com/giygas/openbnf/server"
	"github.com/giygas/openbnf/validation"
)

const (
	logDir          = "logs"
	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Build the drug name index from the record store, then serve the web
pages and the JSON API until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closer := logging.InitLoggerWithOptions(logging.Options{
		Dir:            logDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logging.Error("Failed to close the record store", "error", err)
		}
	}()

	start := time.Now()
	index, err := search.BuildNameIndex(ctx, st)
	if err != nil {
		return err
	}
	metrics.NameIndexSize.Set(float64(index.Len()))
	logging.Info("Name index built", "names", index.Len(), "duration", time.Since(start).String())

	svc := search.NewService(st, index, search.Options{
		SuggestionLimit:  cfg.FuzzyLimit,
		SuggestionCutoff: cfg.FuzzyCutoff,
	})

	monitor := scheduler.NewScheduler(st, index, cfg.MonitorInterval)
	if err := monitor.Start(); err != nil {
		return err
	}
	defer monitor.Stop()

	handler := handlers.NewHTTPHandler(st, svc, validation.NewDataValidator(), health.NewHealthChecker(st, index))
	srv := server.NewServer(cfg, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
