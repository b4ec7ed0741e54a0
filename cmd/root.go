package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pulseline/ppg-monitor/configs"
	"github.com/pulseline/ppg-monitor/pkg/logging"
)

var (
	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ppg-monitor",
	Short: "Camera PPG signal-quality monitor",
	Long: `Real-time cardiovascular signal-quality analysis for camera-derived
photoplethysmography (PPG) streams.

The monitor ingests one normalized brightness sample per captured frame and
derives per-window quality metrics: band-limited SNR, perfusion index, heart
rate, inter-beat interval, signal stability, a quality classification and
human-readable acquisition guidance.

Key features:
- Windowed spectral pipeline (linear detrend + FFT band power)
- Active/hold duty-cycle scheduling
- Trace replay from recorded brightness files
- Synthetic pulse simulation for development
- Optional metrics streaming over NATS`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, viper.GetViper()); err != nil {
			return err
		}
		level := viper.GetString("log_level")
		if viper.GetBool("verbose") {
			level = "debug"
		}
		logging.SetDefaultLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/ppg-monitor/ppg-monitor.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, table, csv, yaml)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "ppg-monitor"))
		viper.AddConfigPath("/etc/ppg-monitor")
		viper.AddConfigPath("./configs")
		viper.SetConfigName("ppg-monitor")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix("PPG_MONITOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// bindFlags binds each cobra flag to its associated viper configuration
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			lastErr = err
		}

		if err := v.BindEnv(f.Name, "PPG_MONITOR_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}
