package monitor

import "math"

// PulseSim generates a synthetic camera-brightness pulse waveform (not
// physiologic) at fs Hz: baseline wander + gaussian systolic and
// dicrotic components + cheap deterministic noise.
type PulseSim struct {
	fs        float64
	hrBPM     float64
	amplitude float64
	noise     float64
	phase     float64
	elapsed   float64
}

// NewPulseSim creates a simulator. Typical values: fs=60, hrBPM 50-150,
// amplitude ~0.01, noise 0.0-0.01.
func NewPulseSim(fs, hrBPM, amplitude, noise float64) *PulseSim {
	return &PulseSim{fs: fs, hrBPM: hrBPM, amplitude: amplitude, noise: noise}
}

// Next returns the next normalized intensity sample and advances time
func (s *PulseSim) Next() float64 {
	cycleHz := s.hrBPM / 60.0
	s.phase += cycleHz / s.fs
	if s.phase >= 1.0 {
		s.phase -= 1.0
	}
	s.elapsed += 1.0 / s.fs

	t := s.phase

	// slow baseline wander (respiration-like)
	baseline := 0.005 * math.Sin(2*math.Pi*0.25*s.elapsed)

	// systolic upstroke and dicrotic bump as gaussians
	systolic := 1.0 * gauss(t, 0.25, 0.06)
	dicrotic := 0.3 * gauss(t, 0.55, 0.08)

	// deterministic noise, cheap and repeatable
	n := s.noise * (2*fract(math.Sin(12345.678*s.elapsed)*9876.543) - 1)

	return 0.5 + baseline + s.amplitude*(systolic+dicrotic) + n
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
