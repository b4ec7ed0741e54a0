package ppg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetrendRemovesLinearTrend(t *testing.T) {
	tests := []struct {
		name      string
		intercept float64
		slope     float64
		length    int
	}{
		{"flat", 0.5, 0, 300},
		{"rising", 0.2, 0.001, 300},
		{"falling", 1.0, -0.01, 128},
		{"steep", -3.0, 2.5, 16},
		{"minimum length", 7.0, 1.0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signal := make([]float64, tt.length)
			for i := range signal {
				signal[i] = tt.intercept + tt.slope*float64(i)
			}

			detrended, err := Detrend(signal)
			require.NoError(t, err)
			require.Len(t, detrended, tt.length)

			for i, v := range detrended {
				assert.InDeltaf(t, 0, v, 1e-9, "residual at index %d", i)
			}
		})
	}
}

func TestDetrendPreservesOscillation(t *testing.T) {
	n := 256
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = 0.5 + 0.002*float64(i) + 0.01*math.Sin(2*math.Pi*float64(i)/20)
	}

	detrended, err := Detrend(signal)
	require.NoError(t, err)

	// The oscillatory component survives with its amplitude intact.
	var peak float64
	for _, v := range detrended {
		if math.Abs(v) > peak {
			peak = math.Abs(v)
		}
	}
	assert.InDelta(t, 0.01, peak, 0.003)
}

func TestDetrendRejectsShortInput(t *testing.T) {
	for _, signal := range [][]float64{nil, {}, {1.0}} {
		_, err := Detrend(signal)
		require.Error(t, err)
		assert.True(t, IsInvalidInputError(err))
	}
}
