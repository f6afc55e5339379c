package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sebastiankruger/trajectory-simulator/internal/chart"
	"github.com/sebastiankruger/trajectory-simulator/internal/config"
	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

// newPlotCmd creates the 'plot' command: generate trajectories and render
// them as per-trajectory lines with a mean overlay. With --noises set the
// trajectories are generated across noise levels and faceted per level.
func newPlotCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Generate trajectories and render them as a PNG chart",
		Long: `Generates trajectories and renders one low-opacity line per trajectory
plus an emphasized mean line. When --noises is given, batches are
generated per noise level and drawn into one sub-panel each.

Examples:
  trajsim plot --type ps --n 20 --noise 0.5 --out ps.png
  trajsim plot --type edls --noises 0.2,0.5 --out decay.png --alpha 0.3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, params, err := genArgs(cmd, cfg)
			if err != nil {
				return err
			}

			var tbl *table.Table
			faceted, _ := cmd.Flags().GetString("noises")
			if faceted != "" {
				noises, err := noiseLevels(cmd, cfg)
				if err != nil {
					return err
				}
				workers, _ := cmd.Flags().GetInt("workers")
				tbl, err = simulate.GenerateMultiParallel(genSource(cmd), kind, noises, params, workers)
				if err != nil {
					return err
				}
			} else {
				tbl, err = simulate.Generate(genSource(cmd), kind, params)
				if err != nil {
					return err
				}
			}

			alpha, _ := cmd.Flags().GetFloat64("alpha")
			noFacet, _ := cmd.Flags().GetBool("no-facet")
			rendered, err := chart.NewLinePlotter().Plot(tbl, chart.Options{
				Title: kind.Description(),
				Alpha: alpha,
				Facet: !noFacet,
			})
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if err := rendered.SavePNG(out); err != nil {
				return err
			}
			log.Info().
				Str("type", kind.String()).
				Int("rows", tbl.Len()).
				Str("file", out).
				Msg("Chart written")
			return nil
		},
	}
	addGenFlags(cmd, cfg)
	addMultiFlags(cmd, cfg)
	cmd.Flags().Float64("alpha", cfg.PlotAlpha, "Per-trajectory line opacity")
	cmd.Flags().Bool("no-facet", false, "Draw all noise levels into a single panel")
	cmd.Flags().String("out", "trajectories.png", "Output PNG file")
	return cmd
}
