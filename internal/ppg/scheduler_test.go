package ppg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func defaultTestConfig() SchedulerConfig {
	return SchedulerConfig{
		WindowLength: 300,
		SampleRate:   60,
		FFTSize:      512,
		BandLowHz:    0.75,
		BandHighHz:   4.0,
	}
}

func TestNewWindowSchedulerValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SchedulerConfig)
	}{
		{"short window", func(c *SchedulerConfig) { c.WindowLength = 1 }},
		{"bad fft size", func(c *SchedulerConfig) { c.FFTSize = 300 }},
		{"bad sample rate", func(c *SchedulerConfig) { c.SampleRate = 0 }},
		{"inverted band", func(c *SchedulerConfig) { c.BandLowHz = 4; c.BandHighHz = 0.75 }},
		{"negative band", func(c *SchedulerConfig) { c.BandLowHz = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultTestConfig()
			tt.mutate(&cfg)
			_, err := NewWindowScheduler(cfg)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
		})
	}

	_, err := NewWindowScheduler(defaultTestConfig())
	require.NoError(t, err)
}

func TestACSampleNeutralBeforeFirstBoundary(t *testing.T) {
	ws, err := NewWindowScheduler(defaultTestConfig())
	require.NoError(t, err)

	assert.Equal(t, 0.5, ws.ACSample())

	for n := 0; n < 299; n++ {
		m, err := ws.Ingest(0.7)
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, 0.5, ws.ACSample())
	}
}

func TestACSampleFollowsDetrendedWindow(t *testing.T) {
	ws, err := NewWindowScheduler(defaultTestConfig())
	require.NoError(t, err)

	// A pure ramp detrends to zero, so the streamed AC output drops
	// from the neutral default to ~0 after the boundary.
	var last *QualityMetrics
	for i := 0; i < 300; i++ {
		m, err := ws.Ingest(0.2 + 0.001*float64(i))
		require.NoError(t, err)
		if m != nil {
			last = m
		}
	}
	require.NotNil(t, last)
	assert.InDelta(t, 0, ws.ACSample(), 1e-9)
}

func TestDutyCycleAlternation(t *testing.T) {
	cfg := SchedulerConfig{
		WindowLength: 4,
		SampleRate:   60,
		FFTSize:      8,
		BandLowHz:    0.75,
		BandHighHz:   4.0,
	}
	ws, err := NewWindowScheduler(cfg)
	require.NoError(t, err)

	emitted := 0
	sample := func(i int) float64 {
		return 0.5 + 0.01*math.Sin(2*math.Pi*1.2*float64(i)/60)
	}

	// 250 windows: indices 0-99 active, 100-199 hold, 200-249 active.
	for i := 0; i < 250*cfg.WindowLength; i++ {
		m, err := ws.Ingest(sample(i))
		require.NoError(t, err)
		if m != nil {
			emitted++
		}

		boundary := (i+1)%cfg.WindowLength == 0
		if boundary {
			windowIndex := int64(i+1)/int64(cfg.WindowLength) - 1
			assert.Equal(t, windowIndex, ws.WindowIndex())
			switch {
			case windowIndex < 100:
				assert.Equal(t, PhaseActive, ws.Phase())
			case windowIndex < 200:
				assert.Equal(t, PhaseHold, ws.Phase())
			default:
				assert.Equal(t, PhaseActive, ws.Phase())
			}
		}
	}

	assert.Equal(t, 150, emitted)
}

func TestHoldPhaseFreezesACOutput(t *testing.T) {
	cfg := SchedulerConfig{
		WindowLength: 4,
		SampleRate:   60,
		FFTSize:      8,
		BandLowHz:    0.75,
		BandHighHz:   4.0,
	}
	ws, err := NewWindowScheduler(cfg)
	require.NoError(t, err)

	for i := 0; i < 101*cfg.WindowLength; i++ {
		_, err := ws.Ingest(0.5 + 0.01*math.Sin(2*math.Pi*1.2*float64(i)/60))
		require.NoError(t, err)
	}
	require.Equal(t, PhaseHold, ws.Phase())

	// During hold the per-sample output is the constant mean of the
	// last active detrended window, for every sample position.
	frozen := ws.ACSample()
	for i := 0; i < 2*cfg.WindowLength; i++ {
		_, err := ws.Ingest(float64(i))
		require.NoError(t, err)
		assert.Equal(t, frozen, ws.ACSample())
	}
}

// PipelineTestSuite runs the end-to-end scenarios over synthetic input
type PipelineTestSuite struct {
	suite.Suite
	scheduler *WindowScheduler
}

func (s *PipelineTestSuite) SetupTest() {
	ws, err := NewWindowScheduler(defaultTestConfig())
	s.Require().NoError(err)
	s.scheduler = ws
}

func (s *PipelineTestSuite) TestSyntheticPulseYieldsPlausibleHeartRate() {
	rng := rand.New(rand.NewSource(42))

	var metrics *QualityMetrics
	for i := 0; i < 300; i++ {
		t := float64(i) / 60.0
		sample := 0.5 + 0.01*math.Sin(2*math.Pi*1.2*t) + rng.NormFloat64()*0.001

		m, err := s.scheduler.Ingest(sample)
		s.Require().NoError(err)
		if m != nil {
			metrics = m
		}
	}

	s.Require().NotNil(metrics, "expected one metrics record at the window boundary")

	// 1.2 Hz pulse -> 72 BPM, within one frequency bin.
	s.InDelta(72, metrics.HeartRate, 2)
	s.Contains([]QualityStatus{StatusGood, StatusExcellent}, metrics.QualityStatus)
	s.Equal(int(math.Round(60000/float64(metrics.HeartRate))), metrics.IBI)
	s.Equal(1.0, metrics.SignalStability)
	s.Greater(metrics.PerfusionIndex, 0.5)
	s.Less(metrics.PerfusionIndex, 5.0)
	s.Equal(int64(300), metrics.QualityFrameCount)
	s.Equal(int64(0), metrics.WindowIndex)
}

func (s *PipelineTestSuite) TestConstantInputReportsInsufficientPerfusion() {
	var metrics *QualityMetrics
	for n := 0; n < 300; n++ {
		m, err := s.scheduler.Ingest(0.5)
		s.Require().NoError(err)
		if m != nil {
			metrics = m
		}
	}

	s.Require().NotNil(metrics)
	s.InDelta(0, metrics.SNRdB, 1e-9)
	s.InDelta(0, metrics.PerfusionIndex, 1e-6)
	s.Equal(StatusFair, metrics.QualityStatus)
	s.Equal(guidancePressFirmer, metrics.GuidanceMessage)
	s.Equal(int64(0), metrics.QualityFrameCount)
}

func (s *PipelineTestSuite) TestResetClearsCrossWindowState() {
	for i := 0; i < 300; i++ {
		_, err := s.scheduler.Ingest(0.5 + 0.01*math.Sin(2*math.Pi*1.2*float64(i)/60))
		s.Require().NoError(err)
	}
	s.NotZero(s.scheduler.State().PreviousVariance)

	s.scheduler.Reset()
	s.Equal(ProcessorState{}, s.scheduler.State())
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
