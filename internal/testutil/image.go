package testutil

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// Synthetic grayscale fixtures in the row-major 8-bit layout the detector
// consumes.

// UniformGray returns a width*height buffer filled with value.
func UniformGray(width, height int, value uint8) []byte {
	pix := make([]byte, width*height)
	for i := range pix {
		pix[i] = value
	}
	return pix
}

// VerticalStripes returns a buffer of alternating black and white vertical
// stripes, each stripeWidth columns wide, starting with black.
func VerticalStripes(width, height, stripeWidth int) []byte {
	pix := make([]byte, width*height)
	for y := range height {
		for x := range width {
			if (x/stripeWidth)%2 == 1 {
				pix[y*width+x] = 255
			}
		}
	}
	return pix
}

// StripePatch returns a white buffer with alternating vertical stripes
// confined to patch, emulating a printed barcode on a blank page.
func StripePatch(width, height int, patch image.Rectangle, stripeWidth int) []byte {
	pix := UniformGray(width, height, 255)
	for y := patch.Min.Y; y < patch.Max.Y && y < height; y++ {
		for x := patch.Min.X; x < patch.Max.X && x < width; x++ {
			if ((x-patch.Min.X)/stripeWidth)%2 == 0 {
				pix[y*width+x] = 0
			}
		}
	}
	return pix
}

// GrayImage wraps a raw buffer in an *image.Gray sharing the same pixels.
func GrayImage(pix []byte, width, height int) *image.Gray {
	return &image.Gray{Pix: pix, Stride: width, Rect: image.Rect(0, 0, width, height)}
}

// EncodePNG encodes an image to PNG bytes, failing the test on error.
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
