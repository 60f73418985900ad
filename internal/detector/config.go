package detector

import "fmt"

// Config holds configuration for the barcode region detector.
//
// The cells-per-row and strip-height values are empirically tuned for
// printed labels; they are configuration rather than constants so that
// deployments can adjust them without code changes.
type Config struct {
	PortraitCellsPerRow     int     // Cells per strip when width <= height (default: 60)
	LandscapeCellsPerRow    int     // Cells per strip when width > height (default: 100)
	StripHeight             int     // Height in pixels of each scan strip (default: 50)
	BinarizeThreshold       uint8   // Intensity above which a sample counts as white (default: 128)
	MagnitudeThreshold      float64 // Minimum non-DC spectral energy to keep a cell (default: 50.0)
	ConsecutiveRunThreshold int     // Non-zero cells in a row needed to emit a candidate (default: 5)
	MaxUniformRunWidth      int     // Longest uniform run tolerated by the uniformity filter (default: 10)
	EnableUniformityFilter  bool    // Reject cells with long uniform runs before the transform
	MaxWorkers              int     // Parallel strip workers (0 = runtime.NumCPU())

	// ProgressCallback, when non-nil, is invoked after each strip finishes.
	// It may be called concurrently from worker goroutines.
	ProgressCallback func(stripsDone, stripTotal int)
}

// DefaultConfig returns a default detector configuration for barcode mode.
func DefaultConfig() Config {
	return Config{
		PortraitCellsPerRow:     60,
		LandscapeCellsPerRow:    100,
		StripHeight:             50,
		BinarizeThreshold:       128,
		MagnitudeThreshold:      50.0,
		ConsecutiveRunThreshold: 5,
		MaxUniformRunWidth:      10,
		EnableUniformityFilter:  false,
		MaxWorkers:              0,
	}
}

// DefaultCharacterConfig returns defaults for character-region mode, which
// additionally filters out cells whose black/white runs are too wide to be
// barcode-like.
func DefaultCharacterConfig() Config {
	cfg := DefaultConfig()
	cfg.EnableUniformityFilter = true
	return cfg
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.PortraitCellsPerRow < 1 {
		return fmt.Errorf("portrait cells per row must be >= 1, got %d", c.PortraitCellsPerRow)
	}
	if c.LandscapeCellsPerRow < 1 {
		return fmt.Errorf("landscape cells per row must be >= 1, got %d", c.LandscapeCellsPerRow)
	}
	if c.StripHeight < 1 {
		return fmt.Errorf("strip height must be >= 1, got %d", c.StripHeight)
	}
	if c.MagnitudeThreshold < 0 {
		return fmt.Errorf("magnitude threshold must be >= 0, got %f", c.MagnitudeThreshold)
	}
	if c.ConsecutiveRunThreshold < 1 {
		return fmt.Errorf("consecutive run threshold must be >= 1, got %d", c.ConsecutiveRunThreshold)
	}
	if c.MaxUniformRunWidth < 1 {
		return fmt.Errorf("max uniform run width must be >= 1, got %d", c.MaxUniformRunWidth)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("max workers must be >= 0, got %d", c.MaxWorkers)
	}
	return nil
}

// cellsPerRow picks the horizontal cell count for the image's aspect ratio.
// Portrait frames use fewer, wider cells since barcodes fill more of the row.
func (c Config) cellsPerRow(width, height int) int {
	if width <= height {
		return c.PortraitCellsPerRow
	}
	return c.LandscapeCellsPerRow
}
