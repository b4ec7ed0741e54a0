package monitor

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileSourceReadsBareAndCSVLines(t *testing.T) {
	path := writeTrace(t, "# recorded brightness trace\n0.5\n0.51,1700000000\n\n0.49\n")

	src, err := NewFileSource(path)
	require.NoError(t, err)
	defer src.Close()

	var samples []float64
	for {
		v, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		samples = append(samples, v)
	}

	assert.Equal(t, []float64{0.5, 0.51, 0.49}, samples)
}

func TestFileSourceRejectsMalformedLine(t *testing.T) {
	path := writeTrace(t, "0.5\nnot-a-number\n")

	src, err := NewFileSource(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Next()
	require.NoError(t, err)

	_, err = src.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestSimulatorSourceBounded(t *testing.T) {
	sim := NewPulseSim(60, 72, 0.01, 0)
	src := NewSimulatorSource(sim, 5)

	for n := 0; n < 5; n++ {
		v, err := src.Next()
		require.NoError(t, err)
		// normalized intensity stays near the 0.5 baseline
		assert.Greater(t, v, 0.3)
		assert.Less(t, v, 0.7)
	}

	_, err := src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestPulseSimIsDeterministic(t *testing.T) {
	a := NewPulseSim(60, 72, 0.01, 0.005)
	b := NewPulseSim(60, 72, 0.01, 0.005)

	for n := 0; n < 200; n++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}
