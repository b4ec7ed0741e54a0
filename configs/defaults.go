package configs

import (
	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components
func SetDefaults(v *viper.Viper) {
	// Signal acquisition defaults: one brightness sample per captured
	// frame at display refresh rate, five-second analysis windows.
	if !v.IsSet("signal.window_length") {
		v.Set("signal.window_length", 300)
	}
	if !v.IsSet("signal.sample_rate") {
		v.Set("signal.sample_rate", 60.0)
	}

	// Spectral analysis defaults. The cardiac band covers 45-240 BPM.
	if !v.IsSet("spectral.fft_size") {
		v.Set("spectral.fft_size", 256)
	}
	if !v.IsSet("spectral.band_low_hz") {
		v.Set("spectral.band_low_hz", 0.75)
	}
	if !v.IsSet("spectral.band_high_hz") {
		v.Set("spectral.band_high_hz", 4.0)
	}

	// Metrics streaming defaults
	if !v.IsSet("stream.nats_url") {
		v.Set("stream.nats_url", "")
	}
	if !v.IsSet("stream.subject") {
		v.Set("stream.subject", "ppg.metrics")
	}
	if !v.IsSet("stream.timeout_seconds") {
		v.Set("stream.timeout_seconds", 3)
	}

	// Output defaults
	if !v.IsSet("output.precision") {
		v.Set("output.precision", 3)
	}
	if !v.IsSet("output.include_metadata") {
		v.Set("output.include_metadata", true)
	}
	if !v.IsSet("output.timestamps") {
		v.Set("output.timestamps", true)
	}

	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",
		Signal:       GetDefaultSignalConfig(),
		Spectral:     GetDefaultSpectralConfig(),
		Stream:       GetDefaultStreamConfig(),
		Output:       GetDefaultOutputConfig(),
	}
}

// GetDefaultSignalConfig returns default sample ingestion settings
func GetDefaultSignalConfig() SignalConfig {
	return SignalConfig{
		WindowLength: 300,
		SampleRate:   60,
	}
}

// GetDefaultSpectralConfig returns default spectral analysis settings
func GetDefaultSpectralConfig() SpectralConfig {
	return SpectralConfig{
		FFTSize:    256,
		BandLowHz:  0.75,
		BandHighHz: 4.0,
	}
}

// GetDefaultStreamConfig returns default metrics streaming settings
func GetDefaultStreamConfig() StreamConfig {
	return StreamConfig{
		NATSUrl:        "",
		Subject:        "ppg.metrics",
		TimeoutSeconds: 3,
	}
}

// GetDefaultOutputConfig returns default output formatting settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision:       3,
		IncludeMetadata: true,
		Timestamps:      true,
	}
}
