package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sebastiankruger/trajectory-simulator/internal/api"
	"github.com/sebastiankruger/trajectory-simulator/internal/config"
	"github.com/sebastiankruger/trajectory-simulator/internal/health"
)

// newServeCmd creates the 'serve' command: on-demand batch generation over
// HTTP, with health probes for container deployments.
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve batch generation over HTTP",
		Long: `Starts an HTTP server with on-demand generation endpoints:

  GET /api/status      simulator name and available generators
  GET /api/generators  available generators
  GET /api/generate    one batch (type, n, noise, freq, end, ...)
  GET /api/multi       combined table across noise levels (noises=...)
  GET /health          readiness (also /health/live, /health/ready)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}
	return cmd
}

func runServe(cfg *config.Config) error {
	log.Info().
		Str("name", cfg.SimulatorName).
		Int("http_port", cfg.HTTPPort).
		Int("workers", cfg.Workers).
		Msg("Starting trajectory simulator API")

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthHandler := health.NewHandler()
	apiHandler := api.NewHandler(cfg.SimulatorName, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler.HandleHealth)
	mux.HandleFunc("/health/live", healthHandler.HandleLive)
	mux.HandleFunc("/health/ready", healthHandler.HandleReady)

	mux.HandleFunc("/api/status", apiHandler.HandleStatus)
	mux.HandleFunc("/api/generators", apiHandler.HandleGenerators)
	mux.HandleFunc("/api/generate", apiHandler.HandleGenerate)
	mux.HandleFunc("/api/multi", apiHandler.HandleMulti)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()
	healthHandler.SetAPIReady(true)

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}

	log.Info().Msg("Simulator stopped")
	return nil
}
