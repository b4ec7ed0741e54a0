package ppg

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpectralAnalyzerValidatesConfig(t *testing.T) {
	tests := []struct {
		name       string
		fftSize    int
		sampleRate float64
		wantErr    bool
	}{
		{"valid small", 2, 60, false},
		{"valid default", 256, 60, false},
		{"zero", 0, 60, true},
		{"one", 1, 60, true},
		{"not power of two", 300, 60, true},
		{"negative", -8, 60, true},
		{"bad sample rate", 256, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpectralAnalyzer(tt.fftSize, tt.sampleRate)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigurationError(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestComputeSpectrumZeroInput(t *testing.T) {
	sa, err := NewSpectralAnalyzer(256, 60)
	require.NoError(t, err)

	result := sa.ComputeSpectrum(make([]float64, 300))

	require.Len(t, result.PSD, 128)
	assert.InDelta(t, 60.0/256.0, result.FreqResolution, 1e-12)
	for _, p := range result.PSD {
		assert.Zero(t, p)
	}

	band := sa.BandSNR(result.PSD, result.FreqResolution, 0.75, 4.0)
	assert.Zero(t, band.SNRdB)
	assert.Zero(t, band.SignalPower)
	assert.Zero(t, band.NoisePower)
}

func TestBandSNRPureSinusoid(t *testing.T) {
	const (
		fftSize    = 512
		sampleRate = 60.0
		freq       = 1.5
	)

	sa, err := NewSpectralAnalyzer(fftSize, sampleRate)
	require.NoError(t, err)

	signal := make([]float64, fftSize)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	result := sa.ComputeSpectrum(signal)
	band := sa.BandSNR(result.PSD, result.FreqResolution, 0.75, 4.0)

	assert.InDelta(t, freq, band.PeakFrequency, result.FreqResolution)
	assert.Greater(t, band.SNRdB, 10.0)
	assert.Greater(t, band.SignalPower, band.NoisePower)
}

func TestBandSNRExcludesDC(t *testing.T) {
	sa, err := NewSpectralAnalyzer(64, 60)
	require.NoError(t, err)

	// Large DC offset, no oscillation: all spectral energy lands in
	// bin 0 and must not count toward any power sum.
	signal := make([]float64, 64)
	for i := range signal {
		signal[i] = 100.0
	}

	result := sa.ComputeSpectrum(signal)
	assert.Greater(t, result.PSD[0], 0.0)

	band := sa.BandSNR(result.PSD, result.FreqResolution, 0.75, 4.0)
	assert.InDelta(t, 0, band.TotalPower, 1e-6)
	assert.InDelta(t, 0, band.SNRdB, 1e-3)
}

func TestBandSNRClampsBandIndices(t *testing.T) {
	sa, err := NewSpectralAnalyzer(64, 60)
	require.NoError(t, err)

	signal := make([]float64, 64)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * 1.5 * float64(i) / 60.0)
	}
	result := sa.ComputeSpectrum(signal)

	// A band entirely above Nyquist clamps to the last bin instead of
	// failing; the degraded SNR is the quality signal.
	band := sa.BandSNR(result.PSD, result.FreqResolution, 500, 600)
	assert.Equal(t, len(result.PSD)-1, band.PeakIndex)
	assert.Less(t, band.SNRdB, 0.0)

	// A band below the first non-DC bin clamps up to bin 1.
	band = sa.BandSNR(result.PSD, result.FreqResolution, 0, 0.0001)
	assert.Equal(t, 1, band.PeakIndex)
}

func TestComputeSpectrumTruncatesLongInput(t *testing.T) {
	sa, err := NewSpectralAnalyzer(64, 60)
	require.NoError(t, err)

	// Samples beyond fftSize are ignored: a long signal whose first 64
	// samples are zero transforms to an all-zero PSD.
	signal := make([]float64, 128)
	for i := 64; i < 128; i++ {
		signal[i] = 1.0
	}

	result := sa.ComputeSpectrum(signal)
	for _, p := range result.PSD {
		assert.Zero(t, p)
	}
}
