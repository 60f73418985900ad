// Package detector locates rectangular regions of a grayscale image that
// exhibit the periodic black/white pattern of a printed barcode. It is a
// detection heuristic, not a decoder: the output is bounding boxes.
//
// The pipeline partitions the image into fixed-height strips subdivided
// into cells, computes a per-cell spectral magnitude from the binarized
// center scanline, groups consecutive high-magnitude cells into candidate
// regions, and merges the candidates within and across strips.
package detector

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/barsweep/barsweep/internal/mempool"
)

// Detector runs the barcode region detection pipeline. It holds no state
// between calls and is safe for concurrent use.
type Detector struct {
	config Config
}

// New creates a detector with the given configuration.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Initializing detector",
		"portrait_cells_per_row", cfg.PortraitCellsPerRow,
		"landscape_cells_per_row", cfg.LandscapeCellsPerRow,
		"strip_height", cfg.StripHeight,
		"magnitude_threshold", cfg.MagnitudeThreshold,
		"uniformity_filter", cfg.EnableUniformityFilter)

	return &Detector{config: cfg}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config { return d.config }

// DetectBarcodeRegions scans a row-major 8-bit grayscale buffer and returns
// the merged barcode-like regions found in it.
func (d *Detector) DetectBarcodeRegions(pixels []byte, width, height int) ([]Region, error) {
	return d.DetectBarcodeRegionsContext(context.Background(), pixels, width, height)
}

// DetectBarcodeRegionsContext is DetectBarcodeRegions with cancellation
// between strips. The region list's content is independent of the parallel
// schedule: candidates are gathered per strip and sorted before merging.
func (d *Detector) DetectBarcodeRegionsContext(ctx context.Context, pixels []byte, width, height int) ([]Region, error) {
	if width < 1 || height < 1 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidBuffer, len(pixels), width, height)
	}

	grid, err := PlanGrid(d.config, width, height)
	if err != nil {
		return nil, err
	}

	candidates, err := d.scanStrips(ctx, pixels, width, grid)
	if err != nil {
		return nil, err
	}

	regions := MergeRegions(candidates)
	slog.Debug("Detection complete",
		"strips", grid.StripCount,
		"candidates", len(candidates),
		"regions", len(regions))
	return regions, nil
}

// DetectCharacterRegions runs barcode detection and then repositions every
// merged region onto the text band expected immediately below the barcode.
func (d *Detector) DetectCharacterRegions(pixels []byte, width, height int) ([]Region, error) {
	return d.DetectCharacterRegionsContext(context.Background(), pixels, width, height)
}

// DetectCharacterRegionsContext is DetectCharacterRegions with cancellation.
func (d *Detector) DetectCharacterRegionsContext(ctx context.Context, pixels []byte, width, height int) ([]Region, error) {
	regions, err := d.DetectBarcodeRegionsContext(ctx, pixels, width, height)
	if err != nil {
		return nil, err
	}
	return adjustCharacterRegions(regions, height), nil
}

// scanStrips fans the grid's strips out over a bounded worker pool. Each
// strip's candidates land in their own slot, so concatenation order never
// depends on scheduling.
func (d *Detector) scanStrips(ctx context.Context, pix []byte, width int, grid Grid) ([]Region, error) {
	workers := d.config.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > grid.StripCount {
		workers = grid.StripCount
	}

	perStrip := make([][]Region, grid.StripCount)

	if workers == 1 {
		for strip := range perStrip {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			perStrip[strip] = d.scanStrip(pix, width, grid, strip)
			if cb := d.config.ProgressCallback; cb != nil {
				cb(strip+1, grid.StripCount)
			}
		}
	} else {
		var done atomic.Int64
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(workers)
		for strip := range grid.StripCount {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				perStrip[strip] = d.scanStrip(pix, width, grid, strip)
				if cb := d.config.ProgressCallback; cb != nil {
					cb(int(done.Add(1)), grid.StripCount)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	var candidates []Region
	for _, rs := range perStrip {
		candidates = append(candidates, rs...)
	}
	return candidates, nil
}

// scanStrip computes the magnitude sequence for one strip and returns its
// candidate regions. Scratch buffers come from the pool so parallel strips
// never share transform workspace.
func (d *Detector) scanStrip(pix []byte, width int, grid Grid, strip int) []Region {
	line := mempool.GetFloat64(grid.CellWidth)
	defer mempool.PutFloat64(line)
	mags := mempool.GetFloat64(grid.CellsPerRow)
	defer mempool.PutFloat64(mags)

	row := grid.ScanRow(strip)
	for cell := range grid.CellsPerRow {
		sampleLine(pix, width, cell*grid.CellWidth, row, d.config.BinarizeThreshold, line)
		if d.config.EnableUniformityFilter && exceedsUniformRun(line, d.config.MaxUniformRunWidth) {
			mags[cell] = 0
			continue
		}
		mags[cell] = thresholdMagnitude(lineMagnitude(line), d.config.MagnitudeThreshold)
	}
	return detectRuns(mags, grid.StripYStart(strip), grid, d.config.ConsecutiveRunThreshold, nil)
}

// DetectBarcodeRegions is a convenience wrapper that builds a one-shot
// detector from cfg and scans a single buffer.
func DetectBarcodeRegions(pixels []byte, width, height int, cfg Config) ([]Region, error) {
	d, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return d.DetectBarcodeRegions(pixels, width, height)
}

// DetectCharacterRegions is a convenience wrapper for character-region mode.
func DetectCharacterRegions(pixels []byte, width, height int, cfg Config) ([]Region, error) {
	d, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return d.DetectCharacterRegions(pixels, width, height)
}
