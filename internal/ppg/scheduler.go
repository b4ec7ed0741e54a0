package ppg

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pulseline/ppg-monitor/pkg/logging"
)

// dutyCycleWindows is the length of each Active/Hold run. Carried over
// from the reference behavior; the alternation period is not a tunable.
const dutyCycleWindows = 100

// neutralACSample is the per-sample output before the first window
// boundary, the midpoint of the normalized 0-1 intensity input range.
const neutralACSample = 0.5

// SchedulerConfig configures one WindowScheduler instance
type SchedulerConfig struct {
	WindowLength int
	SampleRate   float64
	FFTSize      int
	BandLowHz    float64
	BandHighHz   float64
}

// WindowScheduler drives the per-sample ingestion loop. It owns the
// sample buffer and the duty-cycle state machine, and runs the
// detrend -> spectrum -> quality pipeline synchronously at each active
// window boundary. Not safe for concurrent use; one in-flight Ingest
// per instance.
type WindowScheduler struct {
	cfg       SchedulerConfig
	buffer    *SampleBuffer
	analyzer  *SpectralAnalyzer
	evaluator *QualityEvaluator
	logger    logging.Logger

	phase       SchedulerPhase
	windowIndex int64
	acWindow    []float64
	hasACWindow bool
	lastACMean  float64
}

// NewWindowScheduler creates a scheduler and validates the full
// pipeline configuration. Validation happens once here, never per
// window.
func NewWindowScheduler(cfg SchedulerConfig) (*WindowScheduler, error) {
	buffer, err := NewSampleBuffer(cfg.WindowLength)
	if err != nil {
		return nil, err
	}

	analyzer, err := NewSpectralAnalyzer(cfg.FFTSize, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	if cfg.BandLowHz < 0 || cfg.BandHighHz <= cfg.BandLowHz {
		return nil, NewConfigurationError("window_scheduler", "cardiac band must satisfy 0 <= low < high")
	}

	logger := logging.WithFields(logging.Fields{
		"component":     "window_scheduler",
		"window_length": cfg.WindowLength,
		"fft_size":      cfg.FFTSize,
	})

	if cfg.FFTSize < cfg.WindowLength {
		logger.Warn("FFT size below window length, windows will be truncated", logging.Fields{
			"fft_size":      cfg.FFTSize,
			"window_length": cfg.WindowLength,
		})
	}

	return &WindowScheduler{
		cfg:       cfg,
		buffer:    buffer,
		analyzer:  analyzer,
		evaluator: NewQualityEvaluator(cfg.WindowLength),
		logger:    logger,
		phase:     PhaseActive,
	}, nil
}

// phaseFor is the duty-cycle transition function: runs of
// dutyCycleWindows active windows alternate with equal hold runs.
func phaseFor(windowIndex int64) SchedulerPhase {
	if (windowIndex/dutyCycleWindows)%2 == 0 {
		return PhaseActive
	}
	return PhaseHold
}

// Ingest consumes one sample. At each window boundary it evaluates the
// duty-cycle phase and, on an active boundary, runs the full pipeline
// and returns a new QualityMetrics record; every other call returns
// nil metrics. A window whose pipeline fails is skipped without
// touching cross-window state.
func (ws *WindowScheduler) Ingest(sample float64) (*QualityMetrics, error) {
	ws.buffer.Push(sample)

	if ws.buffer.Total()%int64(ws.cfg.WindowLength) != 0 {
		return nil, nil
	}

	// Zero-based index of the window that just completed.
	windowIndex := ws.buffer.Total()/int64(ws.cfg.WindowLength) - 1
	ws.windowIndex = windowIndex
	ws.phase = phaseFor(windowIndex)

	if ws.phase == PhaseHold {
		ws.holdBoundary()
		return nil, nil
	}

	return ws.activeBoundary(windowIndex)
}

func (ws *WindowScheduler) activeBoundary(windowIndex int64) (*QualityMetrics, error) {
	raw := ws.buffer.Snapshot()

	detrended, err := Detrend(raw)
	if err != nil {
		ws.logger.Error("Detrend failed, skipping window", logging.Fields{
			"window_index": windowIndex,
			"error":        err.Error(),
		})
		return nil, err
	}

	spectrum := ws.analyzer.ComputeSpectrum(detrended)
	band := ws.analyzer.BandSNR(spectrum.PSD, spectrum.FreqResolution, ws.cfg.BandLowHz, ws.cfg.BandHighHz)

	metrics := ws.evaluator.Evaluate(raw, detrended, band, windowIndex)

	ws.acWindow = detrended
	ws.hasACWindow = true
	ws.lastACMean = stat.Mean(detrended, nil)

	return metrics, nil
}

// holdBoundary freezes the per-sample output at the mean of the last
// active window's detrended output. No metrics are emitted; the caller
// keeps the last active record.
func (ws *WindowScheduler) holdBoundary() {
	flat := make([]float64, ws.cfg.WindowLength)
	level := neutralACSample
	if ws.hasACWindow {
		level = ws.lastACMean
	}
	for i := range flat {
		flat[i] = level
	}
	ws.acWindow = flat
	ws.hasACWindow = true
}

// ACSample returns the streaming per-sample output aligned with the
// most recently ingested sample. Before the first boundary this is a
// neutral midpoint value.
func (ws *WindowScheduler) ACSample() float64 {
	if !ws.hasACWindow || ws.buffer.Total() == 0 {
		return neutralACSample
	}
	idx := (ws.buffer.Total() - 1) % int64(ws.cfg.WindowLength)
	return ws.acWindow[idx]
}

// Phase returns the current duty-cycle phase
func (ws *WindowScheduler) Phase() SchedulerPhase {
	return ws.phase
}

// WindowIndex returns the index of the most recently completed window
func (ws *WindowScheduler) WindowIndex() int64 {
	return ws.windowIndex
}

// State returns the evaluator's cross-window state
func (ws *WindowScheduler) State() ProcessorState {
	return ws.evaluator.State()
}

// Reset clears the evaluator's cross-window state
func (ws *WindowScheduler) Reset() {
	ws.evaluator.Reset()
}
