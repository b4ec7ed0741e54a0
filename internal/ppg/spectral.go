package ppg

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/pulseline/ppg-monitor/pkg/logging"
)

// epsilon guards divisions and logs under zero-signal conditions
const epsilon = 1e-10

// SpectralAnalyzer computes power spectral densities and band-limited
// SNR over a fixed FFT size
type SpectralAnalyzer struct {
	fftSize    int
	sampleRate float64
	logger     logging.Logger
}

// NewSpectralAnalyzer creates a spectral analyzer. fftSize must be a
// power of two >= 2.
func NewSpectralAnalyzer(fftSize int, sampleRate float64) (*SpectralAnalyzer, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, NewConfigurationError("spectral_analyzer", "fft size must be a power of two >= 2")
	}
	if sampleRate <= 0 {
		return nil, NewConfigurationError("spectral_analyzer", "sample rate must be positive")
	}

	return &SpectralAnalyzer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"fft_size":    fftSize,
			"sample_rate": sampleRate,
		}),
	}, nil
}

// ComputeSpectrum computes the one-sided PSD of a signal. The input is
// zero-padded or truncated to exactly fftSize samples before the
// transform; PSD bin i is re_i^2 + im_i^2 for i in [0, fftSize/2).
func (sa *SpectralAnalyzer) ComputeSpectrum(signal []float64) *SpectralResult {
	padded := make([]float64, sa.fftSize)
	copy(padded, signal)

	spectrum := fft.FFTReal(padded)

	bins := sa.fftSize / 2
	psd := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re := real(spectrum[i])
		im := imag(spectrum[i])
		psd[i] = re*re + im*im
	}

	sa.logger.Debug("Computed power spectrum", logging.Fields{
		"signal_length": len(signal),
		"freq_bins":     bins,
	})

	return &SpectralResult{
		PSD:            psd,
		FreqResolution: sa.sampleRate / float64(sa.fftSize),
		FFTSize:        sa.fftSize,
		SampleRate:     sa.sampleRate,
	}
}

// BandSNR computes the band-limited SNR of a PSD. Band edges are
// clamped into [1, len(psd)-1]; bin 0 (DC) never contributes to any
// power sum.
func (sa *SpectralAnalyzer) BandSNR(psd []float64, freqResolution, lowHz, highHz float64) *BandPower {
	maxIdx := len(psd) - 1

	lowIdx := clampIndex(int(math.Floor(lowHz/freqResolution)), 1, maxIdx)
	highIdx := clampIndex(int(math.Ceil(highHz/freqResolution)), 1, maxIdx)

	var totalPower, signalPower float64
	peakIdx := lowIdx
	for i := 1; i <= maxIdx; i++ {
		totalPower += psd[i]
		if i >= lowIdx && i <= highIdx {
			signalPower += psd[i]
			if psd[i] > psd[peakIdx] {
				peakIdx = i
			}
		}
	}

	noisePower := totalPower - signalPower
	if noisePower < 0 {
		noisePower = 0
	}

	return &BandPower{
		SNRdB:         10 * math.Log10((signalPower+epsilon)/(noisePower+epsilon)),
		PeakIndex:     peakIdx,
		PeakFrequency: float64(peakIdx) * freqResolution,
		SignalPower:   signalPower,
		NoisePower:    noisePower,
		TotalPower:    totalPower,
	}
}

// FFTSize returns the configured transform size
func (sa *SpectralAnalyzer) FFTSize() int {
	return sa.fftSize
}

func clampIndex(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
