package utils

import (
	"image"
	"image/color"
	"testing"
)

func TestDrawRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{R: 255, A: 255}
	DrawRect(dst, image.Rect(5, 5, 15, 15), red, 1)

	if dst.RGBAAt(5, 5) != red {
		t.Error("expected corner to be painted")
	}
	if dst.RGBAAt(10, 5) != red {
		t.Error("expected top edge to be painted")
	}
	if dst.RGBAAt(5, 10) != red {
		t.Error("expected left edge to be painted")
	}
	if dst.RGBAAt(10, 10) == red {
		t.Error("interior should not be painted")
	}
}

func TestDrawRectClipped(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// Must not panic when the rectangle extends past the image.
	DrawRect(dst, image.Rect(-5, -5, 30, 30), color.RGBA{B: 255, A: 255}, 2)
	DrawRect(dst, image.Rect(50, 50, 60, 60), color.RGBA{B: 255, A: 255}, 1)
}

func TestParseHexColor(t *testing.T) {
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 255}

	got := ParseHexColor("#ff8000", fallback)
	want := color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}
	if got != want {
		t.Errorf("ParseHexColor(#ff8000) = %v, want %v", got, want)
	}

	if got := ParseHexColor("00FF00", fallback); got.G != 0xff {
		t.Errorf("expected uppercase hex to parse, got %v", got)
	}

	for _, bad := range []string{"", "zzz", "#12345", "#gggggg"} {
		if got := ParseHexColor(bad, fallback); got != fallback {
			t.Errorf("ParseHexColor(%q) = %v, want fallback", bad, got)
		}
	}
}
