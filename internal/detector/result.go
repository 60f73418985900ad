package detector

import "encoding/json"

// Region is a rectangular pixel-coordinate bounding box produced by the
// pipeline. Every region returned by the detector satisfies
// XStart <= XEnd <= width and YStart <= YEnd <= height.
type Region struct {
	XStart int `json:"x_start"`
	XEnd   int `json:"x_end"`
	YStart int `json:"y_start"`
	YEnd   int `json:"y_end"`
}

// Width returns the horizontal extent of the region in pixels.
func (r Region) Width() int { return r.XEnd - r.XStart }

// Height returns the vertical extent of the region in pixels.
func (r Region) Height() int { return r.YEnd - r.YStart }

// Valid reports whether the region's coordinates are properly ordered.
func (r Region) Valid() bool {
	return r.XStart <= r.XEnd && r.YStart <= r.YEnd
}

// Result bundles detected regions with image dimensions and timing for
// serialization by CLI and server callers.
type Result struct {
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Regions        []Region `json:"regions"`
	ProcessingTime int64    `json:"processing_time_ns"`
}

// RegionsToJSON converts regions to indented JSON with the given image
// dimensions.
func RegionsToJSON(regions []Region, width, height int) ([]byte, error) {
	out := Result{Width: width, Height: height, Regions: regions}
	if out.Regions == nil {
		out.Regions = []Region{}
	}
	return json.MarshalIndent(out, "", "  ")
}

// RegionsFromJSON parses a serialized detection result.
func RegionsFromJSON(data []byte) (*Result, error) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
