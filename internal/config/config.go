package config

import (
	"fmt"

	"github.com/barsweep/barsweep/internal/detector"
)

// DefaultConfig returns the application configuration defaults.
func DefaultConfig() *Config {
	det := detector.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Verbose:  false,
		Detector: DetectorConfig{
			PortraitCellsPerRow:     det.PortraitCellsPerRow,
			LandscapeCellsPerRow:    det.LandscapeCellsPerRow,
			StripHeight:             det.StripHeight,
			BinarizeThreshold:       int(det.BinarizeThreshold),
			MagnitudeThreshold:      det.MagnitudeThreshold,
			ConsecutiveRunThreshold: det.ConsecutiveRunThreshold,
			MaxUniformRunWidth:      det.MaxUniformRunWidth,
			EnableUniformityFilter:  det.EnableUniformityFilter,
			MaxWorkers:              det.MaxWorkers,
		},
		Output: OutputConfig{
			Format:          "json",
			OverlayBoxColor: "#ff0000",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if c.Detector.BinarizeThreshold < 0 || c.Detector.BinarizeThreshold > 255 {
		return fmt.Errorf("binarize threshold must be 0..255, got %d", c.Detector.BinarizeThreshold)
	}
	if _, err := detector.New(c.ToDetectorConfig()); err != nil {
		return fmt.Errorf("invalid detector settings: %w", err)
	}

	switch c.Output.Format {
	case "json", "text", "csv":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("max upload size must be >= 1 MB, got %d", c.Server.MaxUploadMB)
	}
	return nil
}

// ToDetectorConfig converts the application settings into a detector.Config.
func (c *Config) ToDetectorConfig() detector.Config {
	return detector.Config{
		PortraitCellsPerRow:     c.Detector.PortraitCellsPerRow,
		LandscapeCellsPerRow:    c.Detector.LandscapeCellsPerRow,
		StripHeight:             c.Detector.StripHeight,
		BinarizeThreshold:       uint8(c.Detector.BinarizeThreshold), //nolint:gosec // validated to 0..255
		MagnitudeThreshold:      c.Detector.MagnitudeThreshold,
		ConsecutiveRunThreshold: c.Detector.ConsecutiveRunThreshold,
		MaxUniformRunWidth:      c.Detector.MaxUniformRunWidth,
		EnableUniformityFilter:  c.Detector.EnableUniformityFilter,
		MaxWorkers:              c.Detector.MaxWorkers,
	}
}
