package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/barsweep/barsweep/internal/detector"
	"github.com/barsweep/barsweep/internal/utils"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketDetectRequest is a detection request sent over WebSocket.
// Image bytes are base64-encoded by encoding/json.
type WebSocketDetectRequest struct {
	Mode  string `json:"mode,omitempty"` // "barcodes" (default) or "chars"
	Image []byte `json:"image"`
}

// WebSocketDetectResponse is a detection response or progress update.
type WebSocketDetectResponse struct {
	Type      string           `json:"type"`
	Status    string           `json:"status"` // "processing", "completed", "error"
	Progress  float64          `json:"progress,omitempty"`
	Result    *detector.Result `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	ErrorType string           `json:"error_type,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}

// wsConn serializes writes to a WebSocket connection so progress callbacks
// running on worker goroutines cannot interleave with response writes.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

// WebSocketConnWriter is the write side needed to send responses.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// detectWebSocketHandler handles WebSocket connections for streaming detection.
func (s *Server) detectWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrading connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Ping to keep the connection alive; the goroutine exits once the
	// connection closes and WriteControl fails.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	wc := &wsConn{conn: conn}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(wc, data)
		}
	}
}

// handleWebSocketMessage processes a single detection request.
func (s *Server) handleWebSocketMessage(conn WebSocketConnWriter, data []byte) {
	var req WebSocketDetectRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = ModeBarcodes
	}
	if mode != ModeBarcodes && mode != ModeCharacters {
		s.sendWebSocketError(conn, "invalid_request", "Unsupported mode: "+mode)
		return
	}
	if len(req.Image) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No image data provided")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, WebSocketDetectResponse{
		Type:      "detect_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	img, _, err := image.Decode(bytes.NewReader(req.Image))
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to decode image: %v", err))
		return
	}

	pix, width, height := utils.ToGray(img)

	// Per-request detector whose progress callback streams strip completion.
	cfg := s.detector.Config()
	cfg.ProgressCallback = func(done, total int) {
		if total <= 0 {
			return
		}
		s.sendWebSocketResponse(conn, WebSocketDetectResponse{
			Type:      "detect_response",
			Status:    "processing",
			Progress:  float64(done) / float64(total),
			RequestID: requestID,
		})
	}
	d, err := detector.New(cfg)
	if err != nil {
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Failed to configure detector: %v", err))
		return
	}

	start := time.Now()
	var regions []detector.Region
	if mode == ModeCharacters {
		regions, err = d.DetectCharacterRegions(pix, width, height)
	} else {
		regions, err = d.DetectBarcodeRegions(pix, width, height)
	}
	duration := time.Since(start)

	if err != nil {
		detectRequestsTotal.WithLabelValues(mode, "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Detection failed: %v", err))
		return
	}

	detectRequestsTotal.WithLabelValues(mode, "success").Inc()
	detectDuration.WithLabelValues(mode).Observe(duration.Seconds())
	regionsDetected.WithLabelValues(mode).Observe(float64(len(regions)))

	s.sendWebSocketResponse(conn, WebSocketDetectResponse{
		Type:     "detect_response",
		Status:   "completed",
		Progress: 1.0,
		Result: &detector.Result{
			Width:          width,
			Height:         height,
			Regions:        regions,
			ProcessingTime: duration.Nanoseconds(),
		},
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketDetectResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("marshaling WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("sending WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	s.sendWebSocketResponse(conn, WebSocketDetectResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	})
}
