package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SampleSource supplies normalized intensity samples in strict temporal
// order. Next returns io.EOF when the source is exhausted.
type SampleSource interface {
	Next() (float64, error)
	Close() error
}

// SimulatorSource adapts PulseSim to a bounded SampleSource
type SimulatorSource struct {
	sim       *PulseSim
	remaining int64
}

// NewSimulatorSource wraps a simulator emitting at most maxSamples
// samples; maxSamples <= 0 means unbounded.
func NewSimulatorSource(sim *PulseSim, maxSamples int64) *SimulatorSource {
	return &SimulatorSource{sim: sim, remaining: maxSamples}
}

func (s *SimulatorSource) Next() (float64, error) {
	if s.remaining == 0 {
		return 0, io.EOF
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return s.sim.Next(), nil
}

func (s *SimulatorSource) Close() error { return nil }

// FileSource reads one sample per line from a recorded brightness
// trace. Lines may be bare floats or CSV rows whose first column is
// the sample; blank lines and #-comments are skipped.
type FileSource struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
}

// NewFileSource opens a trace file for replay
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample trace: %w", err)
	}
	return &FileSource{file: f, scanner: bufio.NewScanner(f)}, nil
}

func (s *FileSource) Next() (float64, error) {
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if i := strings.IndexByte(text, ','); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}

		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid sample at line %d: %w", s.line, err)
		}
		return value, nil
	}

	if err := s.scanner.Err(); err != nil {
		return 0, err
	}
	return 0, io.EOF
}

func (s *FileSource) Close() error {
	return s.file.Close()
}
