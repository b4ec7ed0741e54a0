package ppg

// SampleBuffer holds the most recent window of raw samples in a fixed
// arena addressed by an index cursor. Overwrite is positional, not
// rotated: storage order equals chronological order only at exact
// window-boundary reads, which is the only time the scheduler reads it.
type SampleBuffer struct {
	samples []float64
	total   int64
}

// NewSampleBuffer creates a buffer holding windowLength samples
func NewSampleBuffer(windowLength int) (*SampleBuffer, error) {
	if windowLength < 2 {
		return nil, NewConfigurationError("sample_buffer", "window length must be >= 2")
	}
	return &SampleBuffer{samples: make([]float64, windowLength)}, nil
}

// Push writes sample at position totalSamplesSeen mod windowLength
func (b *SampleBuffer) Push(sample float64) {
	b.samples[b.total%int64(len(b.samples))] = sample
	b.total++
}

// Snapshot returns a copy of the current buffer contents
func (b *SampleBuffer) Snapshot() []float64 {
	out := make([]float64, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len returns the fixed window length
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// Total returns the number of samples pushed since construction
func (b *SampleBuffer) Total() int64 {
	return b.total
}
