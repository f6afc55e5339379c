package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sebastiankruger/trajectory-simulator/internal/api"
	"github.com/sebastiankruger/trajectory-simulator/internal/config"
	"github.com/sebastiankruger/trajectory-simulator/internal/core"
	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

// newGenerateCmd creates the 'generate' command: one batch of one archetype
// at a single noise level, written as CSV or JSON.
func newGenerateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one batch of synthetic trajectories",
		Long: `Generates n independent trajectories of one archetype on the shared
time grid 0, freq, 2*freq, ... < end and writes them as a long-format
table.

Examples:
  trajsim generate --type ps --n 10 --noise 0.5
  trajsim generate --type psd --damp 1,0.05 --seed 42 --format json
  trajsim generate --type edls --stim-interval 5 --lambda 0.2 --out decay.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, params, err := genArgs(cmd, cfg)
			if err != nil {
				return err
			}
			tbl, err := simulate.Generate(genSource(cmd), kind, params)
			if err != nil {
				return err
			}
			log.Info().
				Str("type", kind.String()).
				Int("rows", tbl.Len()).
				Msg("Batch generated")
			return writeTable(cmd, tbl)
		},
	}
	addGenFlags(cmd, cfg)
	addOutputFlags(cmd)
	return cmd
}

// newMultiCmd creates the 'multi' command: one batch per noise level plus
// the automatic noise-free batch, combined into a noise-tagged table.
func newMultiCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multi",
		Short: "Generate batches across multiple noise levels",
		Long: `Generates a noise-free batch plus one batch per requested noise level
and concatenates them into one table with a noise column. Trajectory ids
restart at V1 within each batch.

Examples:
  trajsim multi --type ps --noises 0.5,1,2 --n 10
  trajsim multi --type nad --damp 1,0.05 --noises 0.2 --seed 7 --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, params, err := genArgs(cmd, cfg)
			if err != nil {
				return err
			}
			noises, err := noiseLevels(cmd, cfg)
			if err != nil {
				return err
			}
			workers, _ := cmd.Flags().GetInt("workers")
			tbl, err := simulate.GenerateMultiParallel(genSource(cmd), kind, noises, params, workers)
			if err != nil {
				return err
			}
			log.Info().
				Str("type", kind.String()).
				Int("levels", len(noises)+1).
				Int("rows", tbl.Len()).
				Msg("Combined table generated")
			return writeTable(cmd, tbl)
		},
	}
	addGenFlags(cmd, cfg)
	addMultiFlags(cmd, cfg)
	addOutputFlags(cmd)
	return cmd
}

func addGenFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().String("type", cfg.GeneratorType, "Generator type: ps, pst, psd, na, nad, edls")
	cmd.Flags().Int("n", cfg.Trajectories, "Number of trajectories")
	cmd.Flags().Float64("noise", 0, "Perturbation standard deviation")
	cmd.Flags().Float64("freq", cfg.Freq, "Time grid step")
	cmd.Flags().Float64("end", cfg.End, "Time grid extent (exclusive)")
	cmd.Flags().Float64("slope", cfg.Slope, "Linear trend slope (pst)")
	cmd.Flags().String("damp", "", "Damping parameters A,L (psd, nad)")
	cmd.Flags().Float64("stim-interval", cfg.StimInterval, "Nominal stimulation interval (edls)")
	cmd.Flags().Float64("lambda", cfg.Lambda, "Decay rate (edls)")
	cmd.Flags().Int64("seed", cfg.Seed, "Random seed, 0 for time-based")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "csv", "Output format: csv, json")
	cmd.Flags().String("out", "", "Output file, empty for stdout")
}

func addMultiFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().String("noises", "", "Comma-separated noise levels (default from NOISE_LEVELS)")
	cmd.Flags().Int("workers", cfg.Workers, "Parallel batch workers")
}

// genArgs resolves the archetype and generation parameters from flags.
func genArgs(cmd *cobra.Command, cfg *config.Config) (simulate.Kind, simulate.Params, error) {
	tag, _ := cmd.Flags().GetString("type")
	kind, err := simulate.ParseKindList(tag)
	if err != nil {
		return 0, simulate.Params{}, err
	}

	p := simulate.Params{}
	p.N, _ = cmd.Flags().GetInt("n")
	p.Noise, _ = cmd.Flags().GetFloat64("noise")
	p.Freq, _ = cmd.Flags().GetFloat64("freq")
	p.End, _ = cmd.Flags().GetFloat64("end")
	p.Slope, _ = cmd.Flags().GetFloat64("slope")
	p.StimInterval, _ = cmd.Flags().GetFloat64("stim-interval")
	p.Lambda, _ = cmd.Flags().GetFloat64("lambda")

	if raw, _ := cmd.Flags().GetString("damp"); raw != "" {
		damp, err := parseDamp(raw)
		if err != nil {
			return 0, simulate.Params{}, err
		}
		p.Damp = damp
	}
	return kind, p, nil
}

func parseDamp(raw string) (*simulate.DampParams, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "damp %q, want A,L", raw)
	}
	amplitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "damp amplitude %q", parts[0])
	}
	decay, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "damp decay %q", parts[1])
	}
	return &simulate.DampParams{Amplitude: amplitude, Decay: decay}, nil
}

func noiseLevels(cmd *cobra.Command, cfg *config.Config) ([]float64, error) {
	raw, _ := cmd.Flags().GetString("noises")
	if raw == "" {
		return cfg.NoiseLevels, nil
	}
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errors.Wrapf(simulate.ErrInvalidArgument, "noise level %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

// genSource builds the random source for one invocation.
func genSource(cmd *cobra.Command) *core.NoiseGenerator {
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed != 0 {
		return core.NewSeededNoiseGenerator(seed)
	}
	return core.NewNoiseGenerator()
}

// writeTable writes the table to --out (or stdout) in the flagged format.
func writeTable(cmd *cobra.Command, tbl *table.Table) error {
	var w io.Writer = os.Stdout
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer f.Close()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "csv":
		return tbl.WriteCSV(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(api.NewTableResponse(tbl)), "encode json")
	default:
		return errors.Wrapf(simulate.ErrInvalidArgument, "format %q", format)
	}
}
