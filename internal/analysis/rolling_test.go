package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
)

func TestRollingMeanExtended_ConstantInput(t *testing.T) {
	x := []float64{3, 3, 3, 3, 3, 3, 3, 3}

	out, err := RollingMeanExtended(x, 3)
	require.NoError(t, err)
	require.Len(t, out, len(x))
	for i, v := range out {
		assert.InDelta(t, 3.0, v, 1e-9, "position %d", i)
	}
}

func TestRollingMeanExtended_LinearInput(t *testing.T) {
	// The centered mean of a line is the line itself, so the edge
	// extrapolation must continue it exactly.
	n := 20
	x := make([]float64, n)
	for i := range x {
		x[i] = 2*float64(i) + 1
	}

	out, err := RollingMeanExtended(x, 5)
	require.NoError(t, err)
	require.Len(t, out, n)
	for i, v := range out {
		assert.InDelta(t, x[i], v, 1e-9, "position %d", i)
	}
}

func TestRollingMeanExtended_InteriorValues(t *testing.T) {
	x := []float64{0, 3, 0, 6, 0, 9, 0}

	out, err := RollingMeanExtended(x, 3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out[1], 1e-9)
	assert.InDelta(t, 3.0, out[2], 1e-9)
	assert.InDelta(t, 2.0, out[3], 1e-9)
	assert.InDelta(t, 5.0, out[4], 1e-9)
	assert.InDelta(t, 3.0, out[5], 1e-9)
}

func TestRollingMeanExtended_WindowEqualsLength(t *testing.T) {
	out, err := RollingMeanExtended([]float64{1, 2, 3}, 3)
	require.NoError(t, err)
	// A single interior mean leaves nothing to fit a line to, so both
	// edges are filled with that mean.
	assert.Equal(t, []float64{2, 2, 2}, out)
}

func TestRollingMeanExtended_InvalidWindow(t *testing.T) {
	_, err := RollingMeanExtended([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, simulate.ErrInvalidArgument)

	_, err = RollingMeanExtended([]float64{1, 2, 3}, 4)
	assert.ErrorIs(t, err, simulate.ErrInvalidArgument)
}
