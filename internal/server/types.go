// Package server exposes barcode region detection over HTTP and WebSocket.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barsweep/barsweep/internal/detector"
)

// regionDetector defines the detection methods the server needs.
type regionDetector interface {
	Config() detector.Config
	DetectBarcodeRegionsContext(ctx context.Context, pixels []byte, width, height int) ([]detector.Region, error)
	DetectCharacterRegionsContext(ctx context.Context, pixels []byte, width, height int) ([]detector.Region, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	detector        regionDetector
	corsOrigin      string
	maxUploadMB     int64
	timeoutSec      int
	overlayEnabled  bool
	overlayBoxColor string
	rateLimiter     *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host            string
	Port            int
	CORSOrigin      string
	MaxUploadMB     int64
	TimeoutSec      int
	DetectorConfig  detector.Config
	OverlayEnabled  bool
	OverlayBoxColor string

	// Rate limiting; zero values disable the corresponding limit.
	RequestsPerMinute int
	MaxDataPerDayMB   int64
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// DetectResponse is the JSON body of POST /detect.
type DetectResponse struct {
	Success bool             `json:"success"`
	Mode    string           `json:"mode,omitempty"`
	Result  *detector.Result `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Detection modes accepted by /detect and /detect/ws.
const (
	ModeBarcodes   = "barcodes"
	ModeCharacters = "chars"
)

// NewServer creates a server around a detector built from config.
func NewServer(config Config) (*Server, error) {
	d, err := detector.New(config.DetectorConfig)
	if err != nil {
		return nil, err
	}

	var rl *RateLimiter
	if config.RequestsPerMinute > 0 || config.MaxDataPerDayMB > 0 {
		rl = NewRateLimiter(config.RequestsPerMinute, config.MaxDataPerDayMB*1024*1024)
	}

	return &Server{
		detector:        d,
		corsOrigin:      config.CORSOrigin,
		maxUploadMB:     config.MaxUploadMB,
		timeoutSec:      config.TimeoutSec,
		overlayEnabled:  config.OverlayEnabled,
		overlayBoxColor: config.OverlayBoxColor,
		rateLimiter:     rl,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/detect", s.corsMiddleware(s.rateLimitMiddleware(s.detectHandler)))
	mux.HandleFunc("/detect/ws", s.detectWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
