package detector

// sampleLine extracts one cell's scanline from a row-major grayscale buffer
// and binarizes it into dst: 1 for samples brighter than thresh, 0 otherwise.
// The caller guarantees x0+len(dst) <= width and row < height.
func sampleLine(pix []byte, width, x0, row int, thresh uint8, dst []float64) {
	base := row*width + x0
	for i := range dst {
		if pix[base+i] > thresh {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
}

// exceedsUniformRun reports whether the binarized line contains a run of
// identical values strictly longer than maxRun. A true barcode line
// alternates frequently; a long uniform stretch indicates background or a
// quiet zone, so the caller can skip the transform for that cell.
func exceedsUniformRun(line []float64, maxRun int) bool {
	if len(line) == 0 {
		return false
	}
	run := 1
	for i := 1; i < len(line); i++ {
		if line[i] == line[i-1] {
			run++
			if run > maxRun {
				return true
			}
		} else {
			run = 1
		}
	}
	return false
}
