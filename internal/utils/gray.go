package utils

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts any decoded image into the row-major 8-bit intensity
// buffer the detector consumes, returning the buffer and its dimensions.
// Fast path for images that are already grayscale with no offset.
func ToGray(img image.Image) ([]byte, int, int) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	if g, ok := img.(*image.Gray); ok && g.Stride == width && b.Min == (image.Point{}) {
		pix := make([]byte, width*height)
		copy(pix, g.Pix)
		return pix, width, height
	}

	gray := imaging.Grayscale(img)
	pix := make([]byte, width*height)
	for y := range height {
		row := gray.Pix[y*gray.Stride:]
		for x := range width {
			// Grayscale output has R == G == B; take the red channel.
			pix[y*width+x] = row[x*4]
		}
	}
	return pix, width, height
}

// CropGray extracts a horizontal band [y0, y1) of a row-major gray buffer
// as an *image.Gray sharing no memory with the source.
func CropGray(pix []byte, width, y0, y1 int) *image.Gray {
	h := y1 - y0
	out := image.NewGray(image.Rect(0, 0, width, h))
	copy(out.Pix, pix[y0*width:y1*width])
	return out
}
