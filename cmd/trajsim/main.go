package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sebastiankruger/trajectory-simulator/internal/config"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	rootCmd := &cobra.Command{
		Use:   "trajsim",
		Short: "Synthetic oscillating trajectory simulator",
		Long: `trajsim generates parametrized synthetic time-series trajectories
(phase-shifted, damped and trended sinusoids, amplitude-noise sinusoids,
and stimulus-triggered exponential decay) for exploring time-series
analysis methods on controllable data.

Defaults come from environment variables (GENERATOR_TYPE, TRAJECTORIES,
NOISE_LEVELS, FREQ, END, SEED, ...); flags override them per invocation.`,
	}

	rootCmd.AddCommand(
		newGenerateCmd(cfg),
		newMultiCmd(cfg),
		newPlotCmd(cfg),
		newServeCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
