package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Signal acquisition configuration
	Signal SignalConfig `mapstructure:"signal"`

	// Spectral analysis configuration
	Spectral SpectralConfig `mapstructure:"spectral"`

	// Metrics streaming configuration
	Stream StreamConfig `mapstructure:"stream"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// SignalConfig contains sample ingestion settings
type SignalConfig struct {
	WindowLength int     `mapstructure:"window_length"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// SpectralConfig contains spectral analysis settings
type SpectralConfig struct {
	FFTSize    int     `mapstructure:"fft_size"`
	BandLowHz  float64 `mapstructure:"band_low_hz"`
	BandHighHz float64 `mapstructure:"band_high_hz"`
}

// StreamConfig contains NATS metrics publishing settings
type StreamConfig struct {
	NATSUrl        string `mapstructure:"nats_url"`
	Subject        string `mapstructure:"subject"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision       int  `mapstructure:"precision"`
	IncludeMetadata bool `mapstructure:"include_metadata"`
	Timestamps      bool `mapstructure:"timestamps"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Signal.WindowLength < 2 {
		return fmt.Errorf("signal window length must be >= 2")
	}

	if config.Signal.SampleRate <= 0 {
		return fmt.Errorf("signal sample rate must be positive")
	}

	if config.Spectral.FFTSize < 2 || config.Spectral.FFTSize&(config.Spectral.FFTSize-1) != 0 {
		return fmt.Errorf("fft size must be a power of two >= 2")
	}

	if config.Spectral.BandLowHz < 0 || config.Spectral.BandHighHz <= config.Spectral.BandLowHz {
		return fmt.Errorf("cardiac band must satisfy 0 <= low < high")
	}

	return nil
}
