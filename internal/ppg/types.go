package ppg

// QualityStatus classifies the overall signal quality of one window
type QualityStatus string

const (
	StatusExcellent QualityStatus = "excellent"
	StatusGood      QualityStatus = "good"
	StatusFair      QualityStatus = "fair"
	StatusPoor      QualityStatus = "poor"
)

// QualityMetrics is the immutable per-window result emitted at each
// active window boundary
type QualityMetrics struct {
	SNRdB             float64       `json:"snr_db"`
	PerfusionIndex    float64       `json:"perfusion_index"`
	HeartRate         int           `json:"heart_rate_bpm"`
	IBI               int           `json:"ibi_ms"`
	SignalStability   float64       `json:"signal_stability"`
	QualityStatus     QualityStatus `json:"quality_status"`
	GuidanceMessage   string        `json:"guidance_message"`
	QualityFrameCount int64         `json:"quality_frame_count"`
	WindowIndex       int64         `json:"window_index"`
	PeakFrequency     float64       `json:"peak_frequency_hz"`
}

// SpectralResult holds the one-sided power spectral density of a window
type SpectralResult struct {
	PSD            []float64 `json:"psd"`
	FreqResolution float64   `json:"freq_resolution"`
	FFTSize        int       `json:"fft_size"`
	SampleRate     float64   `json:"sample_rate"`
}

// BandPower holds band-limited SNR analysis of a power spectrum.
// Bin 0 (DC) is excluded from every power sum.
type BandPower struct {
	SNRdB         float64 `json:"snr_db"`
	PeakIndex     int     `json:"peak_index"`
	PeakFrequency float64 `json:"peak_frequency_hz"`
	SignalPower   float64 `json:"signal_power"`
	NoisePower    float64 `json:"noise_power"`
	TotalPower    float64 `json:"total_power"`
}

// SchedulerPhase is the duty-cycle phase of the window scheduler
type SchedulerPhase string

const (
	PhaseActive SchedulerPhase = "active"
	PhaseHold   SchedulerPhase = "hold"
)
