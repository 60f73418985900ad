package detector

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// lineMagnitude computes the "barcode-ness" feature of a binarized line:
// the summed magnitude of all forward-DFT coefficients except the DC term.
// The DC term reflects average brightness, not alternation, so it is
// excluded. fft handles arbitrary (non power-of-two) lengths.
func lineMagnitude(line []float64) float64 {
	coeffs := fft.FFTReal(line)
	var sum float64
	for _, c := range coeffs[1:] {
		sum += cmplx.Abs(c)
	}
	return sum
}

// thresholdMagnitude clamps magnitudes at or below the configured threshold
// to zero. Downstream only the zero/non-zero distinction matters.
func thresholdMagnitude(m, threshold float64) float64 {
	if m > threshold {
		return m
	}
	return 0
}
