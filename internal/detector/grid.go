package detector

import "fmt"

// Grid describes how an image is partitioned into horizontal strips and
// per-strip cells. Integer division truncates on both axes; remainder
// pixels at the right and bottom edges are not sampled.
type Grid struct {
	CellsPerRow int // Horizontal cells per strip
	CellWidth   int // Width of each cell in pixels
	StripHeight int // Height of each strip in pixels
	StripCount  int // Number of full strips in the image
}

// PlanGrid computes the strip/cell geometry for an image. It returns
// ErrDegenerateGeometry when the image cannot hold a single cell or strip,
// so downstream stages never divide by zero or iterate an empty grid.
func PlanGrid(cfg Config, width, height int) (Grid, error) {
	cells := cfg.cellsPerRow(width, height)
	g := Grid{
		CellsPerRow: cells,
		CellWidth:   width / cells,
		StripHeight: cfg.StripHeight,
		StripCount:  height / cfg.StripHeight,
	}
	if g.CellWidth == 0 || g.StripCount == 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d with %d cells per row and strip height %d",
			ErrDegenerateGeometry, width, height, cells, cfg.StripHeight)
	}
	return g, nil
}

// StripYStart returns the top pixel row of the given strip.
func (g Grid) StripYStart(strip int) int { return strip * g.StripHeight }

// ScanRow returns the pixel row sampled for the given strip (its center line).
func (g Grid) ScanRow(strip int) int { return g.StripYStart(strip) + g.StripHeight/2 }
