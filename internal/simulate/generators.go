package simulate

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/sebastiankruger/trajectory-simulator/internal/core"
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

// generatorFunc produces n trajectories of one archetype on the shared grid.
// Params are validated and defaulted before a generatorFunc runs.
type generatorFunc func(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table

// generators is the dispatch table from archetype to its implementation.
var generators = map[Kind]generatorFunc{
	KindPhaseShifted:         generatePhaseShifted,
	KindPhaseShiftedTrend:    generatePhaseShiftedTrend,
	KindPhaseShiftedDamped:   generatePhaseShiftedDamped,
	KindNoisyAmplitude:       generateNoisyAmplitude,
	KindNoisyAmplitudeDamped: generateNoisyAmplitudeDamped,
	KindExpoDecayLaggedStim:  generateExpoDecayLaggedStim,
}

// Generate produces a long-format batch of p.N trajectories of the given
// archetype on the grid 0, freq, ..., < end. Trajectories are independent;
// at noise 0 the random branches are skipped entirely so the batch is
// deterministic.
func Generate(ng *core.NoiseGenerator, kind Kind, p Params) (*table.Table, error) {
	p.applyDefaults()
	if err := p.validate(kind); err != nil {
		return nil, err
	}
	gen, ok := generators[kind]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidType, "kind %d", int(kind))
	}
	grid := table.TimeGrid(p.Freq, p.End)
	return gen(ng, p, grid), nil
}

// trajectoryID names the j-th trajectory of a batch, 0-based in, "V1"-based out.
func trajectoryID(j int) string {
	return fmt.Sprintf("V%d", j+1)
}

// generatePhaseShifted draws one phase shift per trajectory and emits
// sin(t + shift).
func generatePhaseShifted(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table {
	out := table.New(p.N * len(grid))
	shifts := ng.GaussianDraws(p.N, p.Noise)
	for j := 0; j < p.N; j++ {
		id := trajectoryID(j)
		for _, t := range grid {
			out.Append(t, id, math.Sin(t+shifts[j]))
		}
	}
	return out
}

// generatePhaseShiftedDamped applies the damping envelope to the shifted
// argument, not the raw time: sin(t+shift) * A * exp(-L*(t+shift)).
func generatePhaseShiftedDamped(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table {
	out := table.New(p.N * len(grid))
	shifts := ng.GaussianDraws(p.N, p.Noise)
	for j := 0; j < p.N; j++ {
		id := trajectoryID(j)
		for _, t := range grid {
			ts := t + shifts[j]
			out.Append(t, id, math.Sin(ts)*p.Damp.Amplitude*math.Exp(-p.Damp.Decay*ts))
		}
	}
	return out
}

// generatePhaseShiftedTrend adds a fixed linear trend on top of the
// phase-shifted sinusoid.
func generatePhaseShiftedTrend(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table {
	out := table.New(p.N * len(grid))
	shifts := ng.GaussianDraws(p.N, p.Noise)
	for j := 0; j < p.N; j++ {
		id := trajectoryID(j)
		for _, t := range grid {
			out.Append(t, id, math.Sin(t+shifts[j])+p.Slope*t)
		}
	}
	return out
}

// generateNoisyAmplitude draws additive noise independently per sample.
func generateNoisyAmplitude(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table {
	out := table.New(p.N * len(grid))
	for j := 0; j < p.N; j++ {
		id := trajectoryID(j)
		noise := ng.GaussianDraws(len(grid), p.Noise)
		for i, t := range grid {
			out.Append(t, id, math.Sin(t)+noise[i])
		}
	}
	return out
}

// generateNoisyAmplitudeDamped damps the sinusoid before adding the
// per-sample noise, so the noise floor is not damped away.
func generateNoisyAmplitudeDamped(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table {
	out := table.New(p.N * len(grid))
	for j := 0; j < p.N; j++ {
		id := trajectoryID(j)
		noise := ng.GaussianDraws(len(grid), p.Noise)
		for i, t := range grid {
			out.Append(t, id, math.Sin(t)*p.Damp.Amplitude*math.Exp(-p.Damp.Decay*t)+noise[i])
		}
	}
	return out
}

// generateExpoDecayLaggedStim models a process that jumps to 1 whenever a
// stimulation fires and decays exponentially in between. Nominal stimulation
// times sit at every StimInterval; each is delayed by an independent
// non-negative lag |N(0, noise)| and lands on the first grid point at or
// after the delayed time. A stimulation delayed past the end of the grid is
// dropped. Stimulations are applied in increasing nominal-time order, so
// when two collide on one grid index the later one wins.
func generateExpoDecayLaggedStim(ng *core.NoiseGenerator, p Params, grid []float64) *table.Table {
	out := table.New(p.N * len(grid))

	var nominal []float64
	for s := p.StimInterval; s < p.End; s += p.StimInterval {
		nominal = append(nominal, s)
	}
	decay := math.Exp(-p.Lambda * p.Freq)

	for j := 0; j < p.N; j++ {
		id := trajectoryID(j)
		lags := ng.AbsGaussianDraws(len(nominal), p.Noise)

		values := make([]float64, len(grid))
		stim := make([]bool, len(grid))
		for i, s := range nominal {
			idx := sort.SearchFloat64s(grid, s+lags[i])
			if idx < len(grid) {
				values[idx] = 1
				stim[idx] = true
			}
		}

		// Decay recurrence: every non-stimulation point follows from its
		// immediate predecessor.
		for i := 1; i < len(values); i++ {
			if !stim[i] {
				values[i] = values[i-1] * decay
			}
		}

		for i, t := range grid {
			out.Append(t, id, values[i])
		}
	}
	return out
}
