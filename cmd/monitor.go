package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pulseline/ppg-monitor/configs"
	"github.com/pulseline/ppg-monitor/internal/monitor"
	"github.com/pulseline/ppg-monitor/internal/stream"
	"github.com/pulseline/ppg-monitor/pkg/output"
)

var (
	// Monitor command flags
	monitorTrace      string
	monitorDuration   time.Duration
	monitorHeartRate  float64
	monitorNATSUrl    string
	monitorQuiet      bool
	monitorSummaryOut string
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor [flags]",
	Short: "Run the signal-quality pipeline over a sample source",
	Long: `Run the windowed signal-quality pipeline over a recorded brightness
trace or a synthetic pulse source, emitting one quality metrics record per
active window.

Examples:
  # Replay a recorded brightness trace
  ppg-monitor monitor --trace session.csv

  # Run against the synthetic pulse simulator for 30 seconds
  ppg-monitor monitor --duration 30s --heart-rate 72

  # Stream metrics records to NATS while printing JSON locally
  ppg-monitor monitor --trace session.csv --nats-url nats://localhost:4222 -o json`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().StringVar(&monitorTrace, "trace", "",
		"brightness trace file to replay (one sample per line)")
	monitorCmd.Flags().DurationVar(&monitorDuration, "duration", 60*time.Second,
		"simulated capture duration when no trace is given")
	monitorCmd.Flags().Float64Var(&monitorHeartRate, "heart-rate", 72,
		"simulated heart rate in BPM when no trace is given")
	monitorCmd.Flags().StringVar(&monitorNATSUrl, "nats-url", "",
		"NATS server URL for metrics streaming (overrides config)")
	monitorCmd.Flags().BoolVar(&monitorQuiet, "quiet", false,
		"suppress per-window metrics output")
	monitorCmd.Flags().StringVar(&monitorSummaryOut, "summary-file", "",
		"write the session summary to a file instead of stdout")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	source, err := buildSource(cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	formatter := output.NewFormatter(viper.GetString("output_format"))

	var sinks []monitor.MetricsSink
	if !monitorQuiet {
		sinks = append(sinks, monitor.NewFormatterSink(formatter, os.Stdout))
	}

	natsURL := cfg.Stream.NATSUrl
	if monitorNATSUrl != "" {
		natsURL = monitorNATSUrl
	}
	if natsURL != "" {
		conn, err := stream.Connect(natsURL, time.Duration(cfg.Stream.TimeoutSeconds)*time.Second)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher := stream.NewMetricsPublisher(conn, cfg.Stream.Subject)
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	session, err := monitor.NewSession(cfg, source, sinks...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := session.Run(ctx)
	if err != nil && ctx.Err() == nil {
		return err
	}

	return writeSummary(summary, formatter)
}

func buildSource(cfg *configs.Config) (monitor.SampleSource, error) {
	if monitorTrace != "" {
		return monitor.NewFileSource(monitorTrace)
	}

	sim := monitor.NewPulseSim(cfg.Signal.SampleRate, monitorHeartRate, 0.01, 0.002)
	maxSamples := int64(monitorDuration.Seconds() * cfg.Signal.SampleRate)
	return monitor.NewSimulatorSource(sim, maxSamples), nil
}

func writeSummary(summary *monitor.SessionSummary, formatter output.Formatter) error {
	data, err := formatter.Format(summary, true)
	if err != nil {
		return fmt.Errorf("failed to format session summary: %w", err)
	}

	if monitorSummaryOut != "" {
		return os.WriteFile(monitorSummaryOut, data, 0644)
	}

	_, err = os.Stdout.Write(data)
	return err
}
