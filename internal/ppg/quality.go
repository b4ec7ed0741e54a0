package ppg

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pulseline/ppg-monitor/pkg/logging"
)

// Guidance messages, ordered roughly from worst signal to best
const (
	guidanceCoverCamera    = "No pulse detected - cover the camera lens completely with your fingertip"
	guidanceAdjustFinger   = "Weak signal - adjust your finger placement on the camera"
	guidancePressFirmer    = "Low perfusion - press your finger more firmly against the camera"
	guidanceReducePressure = "Signal saturated - reduce finger pressure slightly"
	guidanceHoldStill      = "Signal unstable - hold your finger still"
	guidanceAdjusting      = "Adjusting to your signal - hold steady"
	guidanceGoodSignal     = "Good signal - hold steady"
	guidanceExcellent      = "Excellent signal quality"
	guidanceInsufficient   = "Insufficient signal - reposition your finger and try again"
)

// ProcessorState is the only cross-window state of the pipeline. It is
// owned by one QualityEvaluator and mutated once per processed window.
type ProcessorState struct {
	PreviousVariance  float64 `json:"previous_variance"`
	QualityFrameCount int64   `json:"quality_frame_count"`
}

// QualityEvaluator derives perfusion, stability, classification and
// guidance from one window's spectral analysis. Stateful across
// windows via ProcessorState; calls must occur in temporal window
// order.
type QualityEvaluator struct {
	windowLength int
	state        ProcessorState
	logger       logging.Logger
}

// NewQualityEvaluator creates an evaluator for windows of the given length
func NewQualityEvaluator(windowLength int) *QualityEvaluator {
	return &QualityEvaluator{
		windowLength: windowLength,
		logger: logging.WithFields(logging.Fields{
			"component": "quality_evaluator",
		}),
	}
}

// PerfusionIndex computes the AC/DC perfusion ratio as a percentage,
// returning the detrended window variance alongside it
func (qe *QualityEvaluator) PerfusionIndex(rawWindow, detrendedWindow []float64) (pi, variance float64) {
	dc := stat.Mean(rawWindow, nil)

	for _, v := range detrendedWindow {
		variance += v * v
	}
	variance /= float64(len(detrendedWindow))

	ac := math.Sqrt(variance)
	return (ac / (dc + epsilon)) * 100, variance
}

// Stability compares the current window variance against the previous
// window's. The first call seeds the stored variance and returns 1.0.
// Sequential, not commutative: callers must present windows in order.
func (qe *QualityEvaluator) Stability(currentVariance float64) float64 {
	prev := qe.state.PreviousVariance
	if prev == 0 {
		qe.state.PreviousVariance = currentVariance
		return 1.0
	}

	ratio := math.Min(currentVariance, prev) / (math.Max(currentVariance, prev) + epsilon)
	qe.state.PreviousVariance = currentVariance
	return ratio
}

// Classify maps band SNR to a quality status
func (qe *QualityEvaluator) Classify(snrDB float64) QualityStatus {
	switch {
	case snrDB >= 10:
		return StatusExcellent
	case snrDB >= 5:
		return StatusGood
	case snrDB >= 0:
		return StatusFair
	default:
		return StatusPoor
	}
}

// Guidance produces a human-readable acquisition hint
func (qe *QualityEvaluator) Guidance(snrDB, pi, stability float64) string {
	switch {
	case snrDB < 0:
		if pi < 0.3 {
			return guidanceCoverCamera
		}
		return guidanceAdjustFinger
	case snrDB < 5:
		if pi < 1.0 {
			return guidancePressFirmer
		}
		if pi > 15 {
			return guidanceReducePressure
		}
		if stability < 0.5 {
			return guidanceHoldStill
		}
		return guidanceAdjusting
	case snrDB < 10:
		return guidanceGoodSignal
	default:
		return guidanceExcellent
	}
}

// HeartRate converts the band peak frequency to beats per minute
func (qe *QualityEvaluator) HeartRate(peakFrequency float64) int {
	return int(math.Round(peakFrequency * 60))
}

// IBI derives the inter-beat interval in milliseconds. Rates outside
// (0, 300) are implausible and yield 0.
func (qe *QualityEvaluator) IBI(heartRate int) int {
	if heartRate <= 0 || heartRate >= 300 {
		return 0
	}
	return int(math.Round(60000 / float64(heartRate)))
}

// Evaluate runs the full per-window quality pass and advances
// ProcessorState. windowIndex is carried through to the emitted record.
func (qe *QualityEvaluator) Evaluate(rawWindow, detrendedWindow []float64, band *BandPower, windowIndex int64) *QualityMetrics {
	pi, variance := qe.PerfusionIndex(rawWindow, detrendedWindow)
	stability := qe.Stability(variance)

	heartRate := qe.HeartRate(band.PeakFrequency)

	metrics := &QualityMetrics{
		SNRdB:           band.SNRdB,
		PerfusionIndex:  pi,
		HeartRate:       heartRate,
		IBI:             qe.IBI(heartRate),
		SignalStability: stability,
		QualityStatus:   qe.Classify(band.SNRdB),
		GuidanceMessage: qe.Guidance(band.SNRdB, pi, stability),
		WindowIndex:     windowIndex,
		PeakFrequency:   band.PeakFrequency,
	}

	// Epsilon guards keep NaN out of the normal path; if one slips
	// through anyway the caller must never see it unclassified.
	if math.IsNaN(band.SNRdB) || math.IsNaN(pi) || math.IsNaN(stability) {
		metrics.QualityStatus = StatusPoor
		metrics.GuidanceMessage = guidanceInsufficient
	}

	if band.SNRdB >= 5 {
		qe.state.QualityFrameCount += int64(qe.windowLength)
	}
	metrics.QualityFrameCount = qe.state.QualityFrameCount

	qe.logger.Debug("Window evaluated", logging.Fields{
		"window_index": windowIndex,
		"snr_db":       metrics.SNRdB,
		"heart_rate":   metrics.HeartRate,
		"status":       metrics.QualityStatus,
	})

	return metrics
}

// State returns a copy of the current cross-window state
func (qe *QualityEvaluator) State() ProcessorState {
	return qe.state
}

// Reset clears both cross-window state fields
func (qe *QualityEvaluator) Reset() {
	qe.state = ProcessorState{}
}
