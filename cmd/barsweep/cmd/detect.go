package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/barsweep/barsweep/internal/detector"
	"github.com/barsweep/barsweep/internal/output"
	"github.com/barsweep/barsweep/internal/overlay"
	"github.com/barsweep/barsweep/internal/utils"
)

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect barcode regions in image files",
	Long: `Scan one or more image files for barcode-like regions.

Supported formats: JPEG, PNG, BMP

Examples:
  barsweep detect photo.jpg
  barsweep detect *.png --format csv
  barsweep detect label.jpg --chars --output results.json
  barsweep detect label.jpg --overlay-dir ./overlays`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		if format != output.FormatJSON && format != output.FormatText && format != output.FormatCSV {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, csv)", format)
		}

		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}

		overlayDir := cfg.Output.OverlayDir
		if cmd.Flags().Changed("overlay-dir") {
			overlayDir, _ = cmd.Flags().GetString("overlay-dir")
		}

		overlayBox := cfg.Output.OverlayBoxColor
		if cmd.Flags().Changed("overlay-box-color") {
			overlayBox, _ = cmd.Flags().GetString("overlay-box-color")
		}

		dumpStripsDir := cfg.Output.DumpStripsDir
		if cmd.Flags().Changed("dump-strips") {
			dumpStripsDir, _ = cmd.Flags().GetString("dump-strips")
		}

		chars, _ := cmd.Flags().GetBool("chars")

		detCfg, err := detectorConfigFromFlags(cmd, cfg.ToDetectorConfig())
		if err != nil {
			return err
		}
		// Character mode filters out low-contrast scanlines unless the
		// flag was set explicitly.
		if chars && !cmd.Flags().Changed("uniformity-filter") {
			detCfg.EnableUniformityFilter = true
		}

		d, err := detector.New(detCfg)
		if err != nil {
			return fmt.Errorf("configuring detector: %w", err)
		}

		var combined strings.Builder
		for _, path := range args {
			body, err := processFile(d, path, chars, format, overlayDir, overlayBox, dumpStripsDir)
			if err != nil {
				return fmt.Errorf("processing %s: %w", path, err)
			}
			if len(args) > 1 {
				combined.WriteString("# " + path + "\n")
			}
			combined.WriteString(body)
			if !strings.HasSuffix(body, "\n") {
				combined.WriteString("\n")
			}
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(combined.String()), 0o600); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
			return nil
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), combined.String())
		return nil
	},
}

// processFile runs detection on a single image and renders the result.
func processFile(d *detector.Detector, path string, chars bool, format, overlayDir, overlayBox, dumpStripsDir string) (string, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		return "", err
	}
	slog.Debug("loaded image", "path", path, "width", meta.Width, "height", meta.Height)

	pix, width, height := utils.ToGray(img)

	if dumpStripsDir != "" {
		if err := dumpStrips(d.Config(), pix, width, height, path, dumpStripsDir); err != nil {
			return "", err
		}
	}

	start := time.Now()
	var regions []detector.Region
	if chars {
		regions, err = d.DetectCharacterRegions(pix, width, height)
	} else {
		regions, err = d.DetectBarcodeRegions(pix, width, height)
	}
	if err != nil {
		return "", err
	}

	res := &detector.Result{
		Width:          width,
		Height:         height,
		Regions:        regions,
		ProcessingTime: time.Since(start).Nanoseconds(),
	}

	if overlayDir != "" {
		boxCol := utils.ParseHexColor(overlayBox, overlay.DefaultBoxColor)
		ov := overlay.Render(img, regions, boxCol)
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "_overlay.png"
		if err := utils.SavePNG(filepath.Join(overlayDir, name), ov); err != nil {
			return "", err
		}
	}

	return output.Render(res, format)
}

// dumpStrips writes each grid strip as a separate PNG for inspection.
func dumpStrips(cfg detector.Config, pix []byte, width, height int, path, dir string) error {
	grid, err := detector.PlanGrid(cfg, width, height)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for strip := range grid.StripCount {
		y0 := grid.StripYStart(strip)
		crop := utils.CropGray(pix, width, y0, y0+grid.StripHeight)
		name := fmt.Sprintf("%s_strip_%02d.png", base, strip)
		if err := utils.SavePNG(filepath.Join(dir, name), crop); err != nil {
			return err
		}
	}
	return nil
}

// detectorConfigFromFlags applies CLI flag overrides to a base detector config.
func detectorConfigFromFlags(cmd *cobra.Command, base detector.Config) (detector.Config, error) {
	if cmd.Flags().Changed("cells-portrait") {
		base.PortraitCellsPerRow, _ = cmd.Flags().GetInt("cells-portrait")
	}
	if cmd.Flags().Changed("cells-landscape") {
		base.LandscapeCellsPerRow, _ = cmd.Flags().GetInt("cells-landscape")
	}
	if cmd.Flags().Changed("strip-height") {
		base.StripHeight, _ = cmd.Flags().GetInt("strip-height")
	}
	if cmd.Flags().Changed("binarize-threshold") {
		v, _ := cmd.Flags().GetInt("binarize-threshold")
		if v < 0 || v > 255 {
			return base, fmt.Errorf("invalid binarize threshold: %d (must be between 0 and 255)", v)
		}
		base.BinarizeThreshold = uint8(v)
	}
	if cmd.Flags().Changed("magnitude-threshold") {
		base.MagnitudeThreshold, _ = cmd.Flags().GetFloat64("magnitude-threshold")
	}
	if cmd.Flags().Changed("run-threshold") {
		base.ConsecutiveRunThreshold, _ = cmd.Flags().GetInt("run-threshold")
	}
	if cmd.Flags().Changed("uniformity-filter") {
		base.EnableUniformityFilter, _ = cmd.Flags().GetBool("uniformity-filter")
	}
	if cmd.Flags().Changed("max-uniform-run") {
		base.MaxUniformRunWidth, _ = cmd.Flags().GetInt("max-uniform-run")
	}
	if cmd.Flags().Changed("workers") {
		base.MaxWorkers, _ = cmd.Flags().GetInt("workers")
	}
	return base, nil
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringP("format", "f", "json", "output format (json, text, csv)")
	detectCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	detectCmd.Flags().Bool("chars", false, "estimate character bands below detected barcodes")
	detectCmd.Flags().String("overlay-dir", "", "directory to save overlay images with detected regions outlined")
	detectCmd.Flags().String("overlay-box-color", "#FF0000", "overlay box color (hex)")
	detectCmd.Flags().String("dump-strips", "", "directory to save per-strip crops for inspection")

	detectCmd.Flags().Int("cells-portrait", 60, "cells per scan row for portrait images")
	detectCmd.Flags().Int("cells-landscape", 100, "cells per scan row for landscape images")
	detectCmd.Flags().Int("strip-height", 50, "strip height in pixels")
	detectCmd.Flags().Int("binarize-threshold", 128, "grayscale binarization threshold (0-255)")
	detectCmd.Flags().Float64("magnitude-threshold", 50.0, "non-DC spectral magnitude threshold per cell")
	detectCmd.Flags().Int("run-threshold", 5, "consecutive cells required to form a region")
	detectCmd.Flags().Bool("uniformity-filter", false, "reject scanlines with long uniform runs")
	detectCmd.Flags().Int("max-uniform-run", 10, "maximum uniform run length before a scanline is rejected")
	detectCmd.Flags().Int("workers", 0, "worker goroutines for strip scanning (0 = number of CPUs)")
}
