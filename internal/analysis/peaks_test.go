package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
)

func TestDetectPeaks_SimpleMaximum(t *testing.T) {
	x := []float64{0, 1, 0}

	flags, err := DetectPeaks(x, 3, PeakMax)
	require.NoError(t, err)
	assert.Equal(t, []PeakFlag{PeakUndefined, PeakTrue, PeakUndefined}, flags)

	flags, err = DetectPeaks(x, 3, PeakMin)
	require.NoError(t, err)
	assert.Equal(t, []PeakFlag{PeakUndefined, PeakFalse, PeakUndefined}, flags)
}

func TestDetectPeaks_InteriorClassification(t *testing.T) {
	x := []float64{0, 1, 0, 2, 0}

	flags, err := DetectPeaks(x, 3, PeakMax)
	require.NoError(t, err)
	assert.Equal(t, []PeakFlag{
		PeakUndefined,
		PeakTrue,  // 1 is the max of [0 1 0]
		PeakFalse, // 0 is not the max of [1 0 2]
		PeakTrue,  // 2 is the max of [0 2 0]
		PeakUndefined,
	}, flags)

	flags, err = DetectPeaks(x, 3, PeakMin)
	require.NoError(t, err)
	assert.Equal(t, []PeakFlag{
		PeakUndefined,
		PeakFalse,
		PeakTrue, // 0 is the min of [1 0 2]
		PeakFalse,
		PeakUndefined,
	}, flags)
}

func TestDetectPeaks_WindowWiderThanInput(t *testing.T) {
	flags, err := DetectPeaks([]float64{0, 1, 0}, 9, PeakMax)
	require.NoError(t, err)
	assert.Equal(t, []PeakFlag{PeakUndefined, PeakUndefined, PeakUndefined}, flags)
}

func TestDetectPeaks_OutputLength(t *testing.T) {
	x := make([]float64, 100)
	flags, err := DetectPeaks(x, 7, PeakMax)
	require.NoError(t, err)
	assert.Len(t, flags, len(x))
}

func TestDetectPeaks_InvalidArguments(t *testing.T) {
	_, err := DetectPeaks([]float64{1, 2, 3}, 0, PeakMax)
	assert.ErrorIs(t, err, simulate.ErrInvalidArgument)

	_, err = DetectPeaks([]float64{1, 2, 3}, -3, PeakMax)
	assert.ErrorIs(t, err, simulate.ErrInvalidArgument)

	_, err = DetectPeaks([]float64{1, 2, 3}, 3, PeakMode(9))
	assert.ErrorIs(t, err, simulate.ErrInvalidArgument)
}

func TestParsePeakMode(t *testing.T) {
	mode, err := ParsePeakMode("max")
	require.NoError(t, err)
	assert.Equal(t, PeakMax, mode)

	mode, err = ParsePeakMode("min")
	require.NoError(t, err)
	assert.Equal(t, PeakMin, mode)

	_, err = ParsePeakMode("median")
	assert.ErrorIs(t, err, simulate.ErrInvalidArgument)
}
