// Package overlay renders detected regions onto the source image for
// visual inspection of detection quality.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/barsweep/barsweep/internal/detector"
	"github.com/barsweep/barsweep/internal/utils"
)

// DefaultBoxColor is the outline color used when none is configured.
var DefaultBoxColor = color.RGBA{R: 0xff, A: 0xff}

// Render draws region outlines over the image and returns an RGBA copy.
// Invalid regions (possible in character mode on narrow inputs) are skipped.
func Render(img image.Image, regions []detector.Region, boxColor color.Color) *image.RGBA {
	if img == nil {
		return nil
	}
	if boxColor == nil {
		boxColor = DefaultBoxColor
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	for _, r := range regions {
		if !r.Valid() {
			continue
		}
		utils.DrawRect(dst, image.Rect(r.XStart, r.YStart, r.XEnd, r.YEnd), boxColor, 2)
	}
	return dst
}
