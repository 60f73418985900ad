package detector

// Character-band placement relative to a detected barcode: the horizontal
// margin strips quiet-zone padding, and the vertical offsets reposition the
// box onto the text band printed immediately below the bars.
const (
	charMarginX    = 25
	charGapY       = 4
	charBandHeight = 50
)

// adjustCharacterRegions rewrites each merged barcode region into the text
// band expected beneath it: the horizontal span shrinks inward by the
// quiet-zone margin and the vertical span moves to a fixed-height band below
// the barcode, capped at the image height. Regions narrower than twice the
// margin would invert after shrinking and are dropped, as are bands that
// fall entirely past the bottom edge.
func adjustCharacterRegions(regions []Region, height int) []Region {
	adjusted := make([]Region, 0, len(regions))
	for _, r := range regions {
		band := Region{
			XStart: r.XStart + charMarginX,
			XEnd:   r.XEnd - charMarginX,
			YStart: r.YEnd + charGapY,
			YEnd:   min(r.YEnd+charBandHeight, height),
		}
		if !band.Valid() {
			continue
		}
		adjusted = append(adjusted, band)
	}
	return adjusted
}
