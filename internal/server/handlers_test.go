package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barsweep/barsweep/internal/detector"
	"github.com/barsweep/barsweep/internal/testutil"
)

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandlerRejectsPost(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDetectHandlerBarcodes(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 150), nil)
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, ModeBarcodes, resp.Mode)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 1200, resp.Result.Width)
	assert.Equal(t, 150, resp.Result.Height)
	require.Len(t, resp.Result.Regions, 1)
	assert.Equal(t, detector.Region{XStart: 0, XEnd: 1200, YStart: 0, YEnd: 150}, resp.Result.Regions[0])
}

func TestDetectHandlerUniformImageFindsNothing(t *testing.T) {
	s := newTestServer(t)

	pix := testutil.UniformGray(1200, 150, 200)
	data := testutil.EncodePNG(t, testutil.GrayImage(pix, 1200, 150))

	req := multipartImageRequest(t, "/detect", data, nil)
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Result.Regions)
}

func TestDetectHandlerCharacterMode(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 300), map[string]string{"mode": ModeCharacters})
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, ModeCharacters, resp.Mode)
	// Character bands sit below the barcode region, shrunk on both sides.
	for _, r := range resp.Result.Regions {
		assert.True(t, r.Valid())
	}
}

func TestDetectHandlerRejectsUnknownMode(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 150), map[string]string{"mode": "qrcodes"})
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectHandlerTextFormat(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 150), map[string]string{"format": "text"})
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "image 1200x150: 1 region(s)")
}

func TestDetectHandlerCSVFormat(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 150), map[string]string{"format": "csv"})
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "x_start,x_end,y_start,y_end", lines[0])
	assert.Equal(t, "0,1200,0,150", lines[1])
}

func TestDetectHandlerOverlayFormat(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 150), map[string]string{"format": "overlay"})
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestDetectHandlerOverlayDisabled(t *testing.T) {
	s, err := NewServer(Config{
		CORSOrigin:     "*",
		MaxUploadMB:    10,
		TimeoutSec:     10,
		DetectorConfig: testDetectorConfig(),
	})
	require.NoError(t, err)

	req := multipartImageRequest(t, "/detect", stripePNG(t, 1200, 150), map[string]string{"overlay": "1"})
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDetectHandlerRejectsGet(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/detect", nil)
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDetectHandlerMissingFile(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	req := httptest.NewRequest(http.MethodPost, "/detect", &body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestDetectHandlerInvalidImage(t *testing.T) {
	s := newTestServer(t)

	req := multipartImageRequest(t, "/detect", []byte("not an image"), nil)
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectHandlerTooNarrowImage(t *testing.T) {
	s := newTestServer(t)

	// 5px wide: the grid degenerates to zero-width cells.
	pix := testutil.UniformGray(5, 100, 128)
	data := testutil.EncodePNG(t, testutil.GrayImage(pix, 5, 100))

	req := multipartImageRequest(t, "/detect", data, nil)
	rec := httptest.NewRecorder()
	s.detectHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetupRoutes(t *testing.T) {
	s := newTestServer(t)

	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = metrics.Body.Close() }()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}
