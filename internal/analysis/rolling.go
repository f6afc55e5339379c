package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
)

// RollingMeanExtended computes a centered rolling mean of width k over the
// interior of x and fills the positions near each edge, where no full
// window fits, by extending the line fitted to the nearest computed
// interior values. The output always has the same length as the input.
func RollingMeanExtended(x []float64, k int) ([]float64, error) {
	if k <= 0 {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "window must be positive, got %d", k)
	}
	if k > len(x) {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument,
			"window %d exceeds sequence length %d", k, len(x))
	}

	n := len(x)
	half := k / 2
	lo := half         // first interior index
	hi := n - k + half // last interior index

	out := make([]float64, n)
	// Running sum over the sliding window.
	sum := 0.0
	for i := 0; i < k; i++ {
		sum += x[i]
	}
	for i := lo; i <= hi; i++ {
		out[i] = sum / float64(k)
		if i < hi {
			sum += x[i-half+k] - x[i-half]
		}
	}

	extrapolateEdge(out, lo, hi, 0, lo)
	extrapolateEdge(out, lo, hi, hi+1, n)
	return out, nil
}

// extrapolateEdge fills out[from:to) by a line fitted to the interior means
// closest to that edge. With a single interior value the fill is constant.
func extrapolateEdge(out []float64, lo, hi, from, to int) {
	if from >= to {
		return
	}

	support := hi - lo + 1
	if support > to-from+1 {
		support = to - from + 1
	}

	xs := make([]float64, support)
	ys := make([]float64, support)
	if from < lo {
		for i := 0; i < support; i++ {
			xs[i] = float64(lo + i)
			ys[i] = out[lo+i]
		}
	} else {
		for i := 0; i < support; i++ {
			xs[i] = float64(hi - support + 1 + i)
			ys[i] = out[hi-support+1+i]
		}
	}

	if support < 2 {
		for i := from; i < to; i++ {
			out[i] = out[lo]
		}
		return
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	for i := from; i < to; i++ {
		out[i] = alpha + beta*float64(i)
	}
}
