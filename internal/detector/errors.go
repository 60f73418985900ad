package detector

import "errors"

var (
	// ErrInvalidBuffer indicates the pixel buffer length does not match the
	// declared width*height.
	ErrInvalidBuffer = errors.New("pixel buffer does not match declared dimensions")

	// ErrDegenerateGeometry indicates the image is too small for the
	// configured grid (zero cell width or zero strips), so the pipeline
	// cannot run at all. Callers can use this to distinguish "no barcode
	// found" from "image too small to analyze".
	ErrDegenerateGeometry = errors.New("image too small for configured grid")
)
