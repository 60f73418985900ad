package detector

import (
	"math"
	"testing"
)

func TestLineMagnitudeConstantLine(t *testing.T) {
	// A constant line has all its energy in the DC term, which is excluded.
	for _, line := range [][]float64{
		{0, 0, 0, 0},
		{1, 1, 1, 1, 1, 1, 1, 1},
	} {
		if m := lineMagnitude(line); m > 1e-9 {
			t.Errorf("constant line %v: expected ~0 magnitude, got %v", line, m)
		}
	}
}

func TestLineMagnitudeAlternating(t *testing.T) {
	// [0,1,0,1]: coefficients are 2, 0, -2, 0; non-DC magnitudes sum to 2.
	m := lineMagnitude([]float64{0, 1, 0, 1})
	if math.Abs(m-2) > 1e-9 {
		t.Errorf("expected magnitude 2, got %v", m)
	}
}

func TestLineMagnitudeOddLength(t *testing.T) {
	// Lengths are not required to be powers of two. For [1,0,1] the two
	// non-DC coefficients each have magnitude 1.
	m := lineMagnitude([]float64{1, 0, 1})
	if math.Abs(m-2) > 1e-9 {
		t.Errorf("expected magnitude 2 for odd-length line, got %v", m)
	}
}

func TestLineMagnitudeSingleSample(t *testing.T) {
	// One sample has only the DC coefficient.
	if m := lineMagnitude([]float64{1}); m != 0 {
		t.Errorf("expected 0 for single-sample line, got %v", m)
	}
}

func TestThresholdMagnitude(t *testing.T) {
	if got := thresholdMagnitude(51, 50); got != 51 {
		t.Errorf("above threshold should pass through, got %v", got)
	}
	if got := thresholdMagnitude(50, 50); got != 0 {
		t.Errorf("at threshold should clamp to zero, got %v", got)
	}
	if got := thresholdMagnitude(3, 50); got != 0 {
		t.Errorf("below threshold should clamp to zero, got %v", got)
	}
}
