package config

// Config represents the complete configuration for the barsweep application.
// It includes settings for all commands (detect, serve) and supports loading
// from configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection pipeline configuration
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// DetectorConfig contains barcode region detection settings. All values are
// empirically tuned heuristics; see the detector package for their meaning.
type DetectorConfig struct {
	PortraitCellsPerRow     int     `mapstructure:"portrait_cells_per_row" yaml:"portrait_cells_per_row" json:"portrait_cells_per_row"`
	LandscapeCellsPerRow    int     `mapstructure:"landscape_cells_per_row" yaml:"landscape_cells_per_row" json:"landscape_cells_per_row"`
	StripHeight             int     `mapstructure:"strip_height" yaml:"strip_height" json:"strip_height"`
	BinarizeThreshold       int     `mapstructure:"binarize_threshold" yaml:"binarize_threshold" json:"binarize_threshold"`
	MagnitudeThreshold      float64 `mapstructure:"magnitude_threshold" yaml:"magnitude_threshold" json:"magnitude_threshold"`
	ConsecutiveRunThreshold int     `mapstructure:"consecutive_run_threshold" yaml:"consecutive_run_threshold" json:"consecutive_run_threshold"`
	MaxUniformRunWidth      int     `mapstructure:"max_uniform_run_width" yaml:"max_uniform_run_width" json:"max_uniform_run_width"`
	EnableUniformityFilter  bool    `mapstructure:"enable_uniformity_filter" yaml:"enable_uniformity_filter" json:"enable_uniformity_filter"`
	MaxWorkers              int     `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format          string `mapstructure:"format" yaml:"format" json:"format"`
	File            string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir      string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
	OverlayBoxColor string `mapstructure:"overlay_box_color" yaml:"overlay_box_color" json:"overlay_box_color"`
	DumpStripsDir   string `mapstructure:"dump_strips_dir" yaml:"dump_strips_dir" json:"dump_strips_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}
