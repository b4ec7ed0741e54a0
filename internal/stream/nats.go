package stream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pulseline/ppg-monitor/internal/ppg"
	"github.com/pulseline/ppg-monitor/pkg/logging"
)

// Connect establishes a NATS connection with reconnect behavior suited
// to a long-running monitoring session
func Connect(url string, timeout time.Duration) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("ppg-monitor"),
		nats.Timeout(timeout),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// MetricsPublisher publishes quality metrics records to a NATS subject
type MetricsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  logging.Logger
}

// NewMetricsPublisher creates a publisher on an established connection
func NewMetricsPublisher(conn *nats.Conn, subject string) *MetricsPublisher {
	return &MetricsPublisher{
		conn:    conn,
		subject: subject,
		logger: logging.WithFields(logging.Fields{
			"component": "metrics_publisher",
			"subject":   subject,
		}),
	}
}

// Publish sends one metrics record as JSON
func (p *MetricsPublisher) Publish(metrics *ppg.QualityMetrics) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("failed to publish metrics: %w", err)
	}

	p.logger.Debug("Published metrics record", logging.Fields{
		"window_index": metrics.WindowIndex,
		"bytes":        len(payload),
	})

	return nil
}

// Close flushes and closes the underlying connection
func (p *MetricsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Flush()
		p.conn.Close()
	}
}
