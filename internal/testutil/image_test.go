package testutil

import (
	"image"
	"testing"
)

func TestUniformGray(t *testing.T) {
	pix := UniformGray(10, 5, 128)
	if len(pix) != 50 {
		t.Fatalf("expected 50 bytes, got %d", len(pix))
	}
	for i, v := range pix {
		if v != 128 {
			t.Fatalf("pixel %d = %d, want 128", i, v)
		}
	}
}

func TestVerticalStripes(t *testing.T) {
	pix := VerticalStripes(8, 2, 2)
	// Columns 0-1 black, 2-3 white, 4-5 black, 6-7 white; both rows equal.
	want := []byte{0, 0, 255, 255, 0, 0, 255, 255}
	for y := range 2 {
		for x, w := range want {
			if pix[y*8+x] != w {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, pix[y*8+x], w)
			}
		}
	}
}

func TestStripePatch(t *testing.T) {
	patch := image.Rect(4, 1, 8, 3)
	pix := StripePatch(12, 4, patch, 1)

	// Outside the patch everything stays white.
	if pix[0] != 255 || pix[3*12+11] != 255 {
		t.Fatal("background should be white")
	}
	// Inside the patch stripes start black at the patch origin.
	if pix[1*12+4] != 0 {
		t.Fatal("patch origin should be black")
	}
	if pix[1*12+5] != 255 {
		t.Fatal("second patch column should be white")
	}
}

func TestGrayImage(t *testing.T) {
	pix := UniformGray(6, 4, 9)
	img := GrayImage(pix, 6, 4)
	if img.Bounds() != image.Rect(0, 0, 6, 4) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.GrayAt(3, 2).Y != 9 {
		t.Fatalf("expected intensity 9, got %d", img.GrayAt(3, 2).Y)
	}
}
