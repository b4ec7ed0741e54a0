package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pulseline/ppg-monitor/configs"
	"github.com/pulseline/ppg-monitor/internal/ppg"
	"github.com/pulseline/ppg-monitor/pkg/logging"
	"github.com/pulseline/ppg-monitor/pkg/output"
)

// MetricsSink consumes quality metrics records as they are emitted.
// stream.MetricsPublisher satisfies this interface.
type MetricsSink interface {
	Publish(metrics *ppg.QualityMetrics) error
}

// FormatterSink writes each metrics record to a writer through an
// output formatter
type FormatterSink struct {
	formatter output.Formatter
	writer    io.Writer
}

// NewFormatterSink creates a sink rendering records with the given
// formatter
func NewFormatterSink(formatter output.Formatter, writer io.Writer) *FormatterSink {
	return &FormatterSink{formatter: formatter, writer: writer}
}

func (s *FormatterSink) Publish(metrics *ppg.QualityMetrics) error {
	data, err := s.formatter.Format(metrics, false)
	if err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	_, err = s.writer.Write([]byte("\n"))
	return err
}

// Session drives one monitoring run: it drains a sample source through
// a window scheduler and forwards every emitted metrics record to the
// configured sinks
type Session struct {
	scheduler *ppg.WindowScheduler
	source    SampleSource
	sinks     []MetricsSink
	logger    logging.Logger
}

// NewSession creates a session from the application configuration
func NewSession(cfg *configs.Config, source SampleSource, sinks ...MetricsSink) (*Session, error) {
	scheduler, err := ppg.NewWindowScheduler(ppg.SchedulerConfig{
		WindowLength: cfg.Signal.WindowLength,
		SampleRate:   cfg.Signal.SampleRate,
		FFTSize:      cfg.Spectral.FFTSize,
		BandLowHz:    cfg.Spectral.BandLowHz,
		BandHighHz:   cfg.Spectral.BandHighHz,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window scheduler: %w", err)
	}

	return &Session{
		scheduler: scheduler,
		source:    source,
		sinks:     sinks,
		logger: logging.WithFields(logging.Fields{
			"component":     "monitor_session",
			"window_length": cfg.Signal.WindowLength,
			"sample_rate":   cfg.Signal.SampleRate,
		}),
	}, nil
}

// Run ingests samples until the source is exhausted or the context is
// canceled, and returns the session summary. A window whose pipeline
// fails is logged and skipped; the session keeps running.
func (s *Session) Run(ctx context.Context) (*SessionSummary, error) {
	builder := newSummaryBuilder()

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("Session canceled", logging.Fields{
				"samples_ingested": builder.samples,
			})
			return builder.finalize(), err
		}

		sample, err := s.source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return builder.finalize(), fmt.Errorf("sample source failed: %w", err)
		}

		metrics, err := s.scheduler.Ingest(sample)
		builder.addSample()
		if err != nil {
			s.logger.Warn("Window pipeline failed, continuing", logging.Fields{
				"error": err.Error(),
			})
			continue
		}
		if metrics == nil {
			continue
		}

		builder.addMetrics(metrics)
		for _, sink := range s.sinks {
			if err := sink.Publish(metrics); err != nil {
				s.logger.Warn("Metrics sink failed", logging.Fields{
					"error": err.Error(),
				})
			}
		}
	}

	summary := builder.finalize()
	s.logger.Info("Session completed", logging.Fields{
		"samples_ingested":  summary.SamplesIngested,
		"windows_evaluated": summary.WindowsEvaluated,
	})
	return summary, nil
}

// Scheduler exposes the underlying scheduler for streaming consumers
func (s *Session) Scheduler() *ppg.WindowScheduler {
	return s.scheduler
}
