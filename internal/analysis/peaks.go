// Package analysis holds small stateless numeric transforms used to
// preprocess or inspect a single trajectory: rolling-extrema peak
// detection, an edge-extrapolated rolling mean, and spline resampling.
package analysis

import (
	"github.com/pkg/errors"

	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
)

// PeakMode selects whether maxima or minima are flagged.
type PeakMode int

const (
	PeakMax PeakMode = iota
	PeakMin
)

func (m PeakMode) String() string {
	switch m {
	case PeakMax:
		return "max"
	case PeakMin:
		return "min"
	default:
		return "unknown"
	}
}

// ParsePeakMode resolves "max" or "min".
func ParsePeakMode(s string) (PeakMode, error) {
	switch s {
	case "max":
		return PeakMax, nil
	case "min":
		return PeakMin, nil
	default:
		return 0, errors.Wrapf(simulate.ErrInvalidArgument, "peak mode %q", s)
	}
}

// PeakFlag is the tri-state result of peak detection at one position.
// Positions within half a window of either edge have no full centered
// window and stay Undefined.
type PeakFlag int8

const (
	PeakUndefined PeakFlag = iota
	PeakFalse
	PeakTrue
)

// DetectPeaks flags each position of x as a local extremum iff it equals
// the max (or min, per mode) of the centered rolling window around it.
// The window is centered, so an even width behaves like the next odd one.
func DetectPeaks(x []float64, window int, mode PeakMode) ([]PeakFlag, error) {
	if window <= 0 {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "window must be positive, got %d", window)
	}
	if mode != PeakMax && mode != PeakMin {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "peak mode %d", int(mode))
	}

	half := window / 2
	flags := make([]PeakFlag, len(x))
	for i := half; i < len(x)-half; i++ {
		ext := x[i-half]
		for k := i - half + 1; k <= i+half; k++ {
			if mode == PeakMax {
				if x[k] > ext {
					ext = x[k]
				}
			} else if x[k] < ext {
				ext = x[k]
			}
		}
		if x[i] == ext {
			flags[i] = PeakTrue
		} else {
			flags[i] = PeakFalse
		}
	}
	return flags, nil
}
