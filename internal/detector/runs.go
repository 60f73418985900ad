package detector

// detectRuns scans one strip's magnitude sequence left to right and appends
// a candidate region to dst every time the consecutive-run counter reaches
// the threshold. A run longer than the threshold therefore emits one
// overlapping candidate per additional cell; the merge stage absorbs the
// duplicates, so the detector emits one box per threshold-crossing event,
// not one per run.
func detectRuns(magnitudes []float64, yStart int, g Grid, threshold int, dst []Region) []Region {
	consecutive := 0
	start := 0
	for i, m := range magnitudes {
		if m <= 0 {
			consecutive = 0
			continue
		}
		if consecutive == 0 {
			start = i
		}
		consecutive++
		if consecutive >= threshold {
			dst = append(dst, Region{
				XStart: start * g.CellWidth,
				XEnd:   (i + 1) * g.CellWidth,
				YStart: yStart,
				YEnd:   yStart + g.StripHeight,
			})
		}
	}
	return dst
}
