package detector

import "testing"

func TestSampleLineBinarizes(t *testing.T) {
	// 6x2 buffer; sample the second row starting at column 1.
	pix := []byte{
		0, 0, 0, 0, 0, 0,
		10, 128, 129, 255, 0, 200,
	}
	dst := make([]float64, 4)
	sampleLine(pix, 6, 1, 1, 128, dst)

	// 128 is not strictly greater than the threshold.
	want := []float64{0, 1, 1, 0}
	for i, w := range want {
		if dst[i] != w {
			t.Errorf("sample %d = %v, want %v", i, dst[i], w)
		}
	}
}

func TestSampleLineCustomThreshold(t *testing.T) {
	pix := []byte{10, 60, 110, 160}
	dst := make([]float64, 4)
	sampleLine(pix, 4, 0, 0, 100, dst)
	want := []float64{0, 0, 1, 1}
	for i, w := range want {
		if dst[i] != w {
			t.Errorf("sample %d = %v, want %v", i, dst[i], w)
		}
	}
}

func TestExceedsUniformRun(t *testing.T) {
	cases := []struct {
		name   string
		line   []float64
		maxRun int
		want   bool
	}{
		{"alternating", []float64{0, 1, 0, 1, 0, 1}, 2, false},
		{"long run", []float64{1, 1, 1, 1, 0, 1}, 3, true},
		{"run at max", []float64{1, 1, 1, 0, 1, 1}, 3, false},
		{"run at end", []float64{0, 1, 0, 0, 0, 0}, 3, true},
		{"single element", []float64{1}, 1, false},
		{"empty", nil, 1, false},
		{"all uniform", []float64{0, 0, 0, 0}, 10, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := exceedsUniformRun(c.line, c.maxRun); got != c.want {
				t.Errorf("exceedsUniformRun(%v, %d) = %v, want %v", c.line, c.maxRun, got, c.want)
			}
		})
	}
}
