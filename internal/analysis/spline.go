package analysis

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"

	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
)

// SplineResample fits a natural cubic spline through the (x, y) samples and
// evaluates it at n points evenly spaced over [min(x), max(x)], endpoints
// included. The samples are sorted by x internally; duplicate x values are
// rejected.
func SplineResample(x, y []float64, n int) ([]float64, []float64, error) {
	if n <= 0 {
		return nil, nil, errors.Wrapf(simulate.ErrInvalidArgument, "n must be positive, got %d", n)
	}
	if len(x) != len(y) {
		return nil, nil, errors.Wrapf(simulate.ErrInvalidArgument,
			"x and y lengths differ: %d vs %d", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, nil, errors.Wrapf(simulate.ErrInvalidArgument,
			"need at least 2 samples, got %d", len(x))
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return nil, nil, errors.Wrapf(simulate.ErrInvalidArgument,
				"duplicate x value %g", xs[i])
		}
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		return nil, nil, errors.Wrap(err, "fit cubic spline")
	}

	xmin, xmax := xs[0], xs[len(xs)-1]
	rx := make([]float64, n)
	ry := make([]float64, n)
	for i := range rx {
		switch {
		case n == 1:
			rx[i] = xmin
		case i == n-1:
			rx[i] = xmax
		default:
			rx[i] = xmin + (xmax-xmin)*float64(i)/float64(n-1)
		}
		ry[i] = spline.Predict(rx[i])
	}
	return rx, ry, nil
}
