package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/barsweep/barsweep/internal/detector"
	"github.com/barsweep/barsweep/internal/output"
	"github.com/barsweep/barsweep/internal/overlay"
	"github.com/barsweep/barsweep/internal/utils"
	"github.com/barsweep/barsweep/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.String(),
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("encoding health response", "error", err)
	}
}

// detectHandler processes image detection requests.
func (s *Server) detectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}
	uploadSizeBytes.Observe(float64(len(imageData)))

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = ModeBarcodes
	}
	if mode != ModeBarcodes && mode != ModeCharacters {
		s.writeErrorResponse(w, "Unsupported mode: "+mode, http.StatusBadRequest)
		return
	}

	res, err := s.detect(r.Context(), img, mode)
	if err != nil {
		detectRequestsTotal.WithLabelValues(mode, "error").Inc()
		if errors.Is(err, detector.ErrInvalidBuffer) || errors.Is(err, detector.ErrDegenerateGeometry) {
			s.writeErrorResponse(w, fmt.Sprintf("Detection failed: %v", err), http.StatusBadRequest)
			return
		}
		s.writeErrorResponse(w, fmt.Sprintf("Detection failed: %v", err), http.StatusInternalServerError)
		return
	}
	detectRequestsTotal.WithLabelValues(mode, "success").Inc()
	detectDuration.WithLabelValues(mode).Observe(time.Duration(res.ProcessingTime).Seconds())
	regionsDetected.WithLabelValues(mode).Observe(float64(len(res.Regions)))

	// Output format: default json; allow 'format' in query or form.
	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	if ov := r.FormValue("overlay"); format == "overlay" || ov == "1" || ov == "true" {
		s.handleOverlayOutput(w, r, img, res.Regions)
		return
	}

	switch format {
	case output.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(output.ToText(res)))
	case output.FormatCSV:
		body, err := output.ToCSV(res)
		if err != nil {
			http.Error(w, fmt.Sprintf("formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	default:
		w.Header().Set("Content-Type", "application/json")
		response := DetectResponse{Success: true, Mode: mode, Result: res}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("encoding detect response", "error", err)
		}
	}
}

// detect runs the configured detector on a decoded image.
func (s *Server) detect(ctx context.Context, img image.Image, mode string) (*detector.Result, error) {
	if s.timeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.timeoutSec)*time.Second)
		defer cancel()
	}

	pix, width, height := utils.ToGray(img)

	start := time.Now()
	var regions []detector.Region
	var err error
	if mode == ModeCharacters {
		regions, err = s.detector.DetectCharacterRegionsContext(ctx, pix, width, height)
	} else {
		regions, err = s.detector.DetectBarcodeRegionsContext(ctx, pix, width, height)
	}
	if err != nil {
		return nil, err
	}

	return &detector.Result{
		Width:          width,
		Height:         height,
		Regions:        regions,
		ProcessingTime: time.Since(start).Nanoseconds(),
	}, nil
}

// handleOverlayOutput renders the input image with detected regions outlined.
func (s *Server) handleOverlayOutput(w http.ResponseWriter, r *http.Request, img image.Image, regions []detector.Region) {
	if !s.overlayEnabled {
		http.Error(w, "overlay output disabled", http.StatusForbidden)
		return
	}

	boxCol := utils.ParseHexColor(r.FormValue("box"),
		utils.ParseHexColor(s.overlayBoxColor, overlay.DefaultBoxColor))

	ov := overlay.Render(img, regions, boxCol)
	if ov == nil {
		http.Error(w, "overlay failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, ov)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := DetectResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("writing error response", "error", err)
	}
}
