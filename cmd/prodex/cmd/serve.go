package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/metrics"
	chiTransport "github.com/kailas-cloud/prodex/internal/transport/chi"
	"github.com/kailas-cloud/prodex/internal/version"
)

// warmStart ingests the catalog before accepting traffic.
var warmStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the retrieval HTTP API",
	Long: `Start the HTTP API. The document store is loaded from the configured
snapshot backend and kept in sync with the catalog on every retrieval.

Examples:
  prodex serve
  ENV=prod prodex serve --warm-start`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&warmStart, "warm-start", true, "Ingest the catalog before listening")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	logger.Info("Starting prodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", a.cfg.HTTP.Port),
		zap.String("db_driver", a.cfg.Database.Driver),
		zap.String("catalog", a.cfg.Catalog.Path),
	)

	if warmStart {
		res := a.ingestion.EnsureIngested(ctx)
		if !res.Success {
			// Retrievals retry ingestion lazily; the snapshot may still serve.
			logger.Warn("Warm start ingestion failed", zap.String("run_id", res.RunID), zap.Error(res.Err))
		}
	}

	metrics.RegisterHTTPMetrics()

	server := chiTransport.NewServer(a.retrieval, a.ingestion, a.health, logger)

	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(a.cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
