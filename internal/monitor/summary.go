package monitor

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pulseline/ppg-monitor/internal/ppg"
)

// MetricStats represents statistical measures of one metric over a
// session
type MetricStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// SessionSummary aggregates quality metrics over a monitoring session
type SessionSummary struct {
	SamplesIngested   int64                       `json:"samples_ingested"`
	WindowsEvaluated  int64                       `json:"windows_evaluated"`
	QualityFrameCount int64                       `json:"quality_frame_count"`
	StatusCounts      map[ppg.QualityStatus]int64 `json:"status_counts"`
	SNR               *MetricStats                `json:"snr_db"`
	HeartRate         *MetricStats                `json:"heart_rate_bpm"`
	PerfusionIndex    *MetricStats                `json:"perfusion_index"`
	LastMetrics       *ppg.QualityMetrics         `json:"last_metrics,omitempty"`
}

// summaryBuilder accumulates per-window values until Finalize
type summaryBuilder struct {
	samples      int64
	snrValues    []float64
	hrValues     []float64
	piValues     []float64
	statusCounts map[ppg.QualityStatus]int64
	last         *ppg.QualityMetrics
}

func newSummaryBuilder() *summaryBuilder {
	return &summaryBuilder{
		statusCounts: make(map[ppg.QualityStatus]int64),
	}
}

func (b *summaryBuilder) addSample() {
	b.samples++
}

func (b *summaryBuilder) addMetrics(m *ppg.QualityMetrics) {
	b.snrValues = append(b.snrValues, m.SNRdB)
	b.hrValues = append(b.hrValues, float64(m.HeartRate))
	b.piValues = append(b.piValues, m.PerfusionIndex)
	b.statusCounts[m.QualityStatus]++
	b.last = m
}

func (b *summaryBuilder) finalize() *SessionSummary {
	summary := &SessionSummary{
		SamplesIngested:  b.samples,
		WindowsEvaluated: int64(len(b.snrValues)),
		StatusCounts:     b.statusCounts,
		SNR:              calculateStats(b.snrValues),
		HeartRate:        calculateStats(b.hrValues),
		PerfusionIndex:   calculateStats(b.piValues),
		LastMetrics:      b.last,
	}
	if b.last != nil {
		summary.QualityFrameCount = b.last.QualityFrameCount
	}
	return summary
}

func calculateStats(values []float64) *MetricStats {
	if len(values) == 0 {
		return &MetricStats{}
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range values {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	stats := &MetricStats{
		Mean:  stat.Mean(values, nil),
		Min:   min,
		Max:   max,
		Count: len(values),
	}
	if len(values) > 1 {
		stats.StdDev = stat.StdDev(values, nil)
	}
	return stats
}
