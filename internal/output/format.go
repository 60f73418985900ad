// Package output renders detection results in the formats accepted by
// the CLI and the HTTP server.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/barsweep/barsweep/internal/detector"
)

// Format identifiers shared between the CLI and the server.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatCSV  = "csv"
)

// ToJSON renders a result as indented JSON.
func ToJSON(res *detector.Result) (string, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(data), nil
}

// ToText renders a result as a human-readable report, one region per line.
func ToText(res *detector.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "image %dx%d: %d region(s)\n", res.Width, res.Height, len(res.Regions))
	for i, r := range res.Regions {
		fmt.Fprintf(&b, "  #%d x=[%d,%d) y=[%d,%d) %dx%d\n",
			i+1, r.XStart, r.XEnd, r.YStart, r.YEnd, r.Width(), r.Height())
	}
	return b.String()
}

// ToCSV renders regions as CSV with a header row.
func ToCSV(res *detector.Result) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write([]string{"x_start", "x_end", "y_start", "y_end"}); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range res.Regions {
		rec := []string{
			strconv.Itoa(r.XStart),
			strconv.Itoa(r.XEnd),
			strconv.Itoa(r.YStart),
			strconv.Itoa(r.YEnd),
		}
		if err := w.Write(rec); err != nil {
			return "", fmt.Errorf("writing csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return b.String(), nil
}

// Render dispatches on the format identifier.
func Render(res *detector.Result, format string) (string, error) {
	switch format {
	case "", FormatJSON:
		return ToJSON(res)
	case FormatText:
		return ToText(res), nil
	case FormatCSV:
		return ToCSV(res)
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}
