package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulseline/ppg-monitor/configs"
	"github.com/pulseline/ppg-monitor/internal/monitor"
)

var (
	// Simulate command flags
	simulateDuration  time.Duration
	simulateHeartRate float64
	simulateAmplitude float64
	simulateNoise     float64
	simulateOut       string
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate [flags]",
	Short: "Generate a synthetic brightness trace",
	Long: `Generate a synthetic camera-brightness pulse trace, one sample per
line, suitable for replay with the monitor command.

Examples:
  # 60 seconds of a 72 BPM pulse to stdout
  ppg-monitor simulate

  # A noisy 100 BPM trace written to a file
  ppg-monitor simulate --heart-rate 100 --noise 0.005 --out trace.csv`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().DurationVar(&simulateDuration, "duration", 60*time.Second,
		"capture duration to simulate")
	simulateCmd.Flags().Float64Var(&simulateHeartRate, "heart-rate", 72,
		"simulated heart rate in BPM")
	simulateCmd.Flags().Float64Var(&simulateAmplitude, "amplitude", 0.01,
		"pulsatile amplitude relative to the 0.5 baseline")
	simulateCmd.Flags().Float64Var(&simulateNoise, "noise", 0.002,
		"additive noise amplitude")
	simulateCmd.Flags().StringVar(&simulateOut, "out", "",
		"output file (default stdout)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}

	out := os.Stdout
	if simulateOut != "" {
		f, err := os.Create(simulateOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	sim := monitor.NewPulseSim(cfg.Signal.SampleRate, simulateHeartRate, simulateAmplitude, simulateNoise)
	total := int64(simulateDuration.Seconds() * cfg.Signal.SampleRate)

	w := bufio.NewWriter(out)
	defer w.Flush()

	fmt.Fprintf(w, "# synthetic pulse trace: %.0f BPM at %.0f Hz\n", simulateHeartRate, cfg.Signal.SampleRate)
	for i := int64(0); i < total; i++ {
		if _, err := fmt.Fprintf(w, "%.6f\n", sim.Next()); err != nil {
			return err
		}
	}

	return nil
}
