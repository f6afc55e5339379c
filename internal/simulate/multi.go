package simulate

import (
	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/sebastiankruger/trajectory-simulator/internal/core"
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

// GenerateMulti produces one batch per noise level and concatenates them
// into a single table carrying a noise column. A noise-free batch at level
// 0 is always generated first; requesting level 0 explicitly is therefore
// redundant and only logged, not rejected. Trajectory ids restart at V1 in
// every batch and are told apart by the noise column alone.
func GenerateMulti(ng *core.NoiseGenerator, kind Kind, noises []float64, p Params) (*table.Table, error) {
	return generateMulti(ng, kind, noises, p, 1)
}

// GenerateMultiParallel is GenerateMulti with the batches generated on a
// worker pool. Each batch gets its own noise generator derived from ng in
// level order, so the combined table is identical to the serial result for
// the same seed.
func GenerateMultiParallel(ng *core.NoiseGenerator, kind Kind, noises []float64, p Params, workers int) (*table.Table, error) {
	if workers < 1 {
		workers = 1
	}
	return generateMulti(ng, kind, noises, p, workers)
}

func generateMulti(ng *core.NoiseGenerator, kind Kind, noises []float64, p Params, workers int) (*table.Table, error) {
	p.applyDefaults()
	if err := p.validate(kind); err != nil {
		return nil, err
	}

	levels := make([]float64, 0, len(noises)+1)
	levels = append(levels, 0)
	for _, level := range noises {
		if level < 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "noise level must be non-negative, got %g", level)
		}
		if level == 0 {
			log.Warn().
				Str("type", kind.String()).
				Msg("Noise level 0 requested; the noise-free batch is generated automatically")
		}
		levels = append(levels, level)
	}

	// One derived generator per batch, in level order. Deriving before the
	// pool runs keeps the seed assignment independent of scheduling.
	children := make([]*core.NoiseGenerator, len(levels))
	for i := range levels {
		children[i] = ng.Derive()
	}

	batches := make([]*table.Table, len(levels))
	errs := make([]error, len(levels))

	wp := workerpool.New(workers)
	for i := range levels {
		i := i
		q := p
		q.Noise = levels[i]
		wp.Submit(func() {
			batches[i], errs[i] = Generate(children[i], kind, q)
		})
	}
	wp.StopWait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	rows := 0
	for _, b := range batches {
		rows += b.Len()
	}
	out := table.NewTagged(rows)
	for i, b := range batches {
		out.AppendBatch(b, levels[i])
	}
	return out, nil
}
