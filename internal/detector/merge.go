package detector

import "sort"

// MergeRegions consolidates candidate regions from all strips: first
// collapsing candidates that share the exact same vertical span, then
// merging vertically contiguous spans into single bounding boxes.
func MergeRegions(regions []Region) []Region {
	return mergeVertical(mergeSameRow(regions))
}

// sortByRow orders regions by (YStart, YEnd), keeping the x/insertion order
// within equal keys. Sorting before merging makes the output independent of
// the schedule that produced the candidates.
func sortByRow(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].YStart != regions[j].YStart {
			return regions[i].YStart < regions[j].YStart
		}
		return regions[i].YEnd < regions[j].YEnd
	})
}

// mergeSameRow collapses all candidates with identical (YStart, YEnd) into
// one region spanning their combined horizontal extent.
func mergeSameRow(regions []Region) []Region {
	if len(regions) == 0 {
		return nil
	}

	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sortByRow(sorted)

	merged := make([]Region, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.YStart == cur.YStart && r.YEnd == cur.YEnd {
			if r.XStart < cur.XStart {
				cur.XStart = r.XStart
			}
			if r.XEnd > cur.XEnd {
				cur.XEnd = r.XEnd
			}
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	return append(merged, cur)
}

// mergeVertical walks regions sorted by vertical span and merges each run
// of regions where the next region starts exactly where the accumulated one
// ends. Horizontal overlap is deliberately not required: two vertically
// stacked regions with disjoint x-ranges still collapse into one bounding
// box spanning both.
func mergeVertical(regions []Region) []Region {
	if len(regions) == 0 {
		return nil
	}

	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sortByRow(sorted)

	merged := make([]Region, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.YStart == cur.YEnd {
			if r.XStart < cur.XStart {
				cur.XStart = r.XStart
			}
			if r.XEnd > cur.XEnd {
				cur.XEnd = r.XEnd
			}
			cur.YEnd = r.YEnd
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	return append(merged, cur)
}
