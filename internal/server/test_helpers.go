package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/barsweep/barsweep/internal/detector"
	"github.com/barsweep/barsweep/internal/testutil"
)

// testDetectorConfig uses a coarse grid so small synthetic images produce
// cells wide enough for alternating stripes to clear the magnitude threshold.
func testDetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.PortraitCellsPerRow = 10
	cfg.LandscapeCellsPerRow = 10
	return cfg
}

// newTestServer builds a server with the coarse test grid and overlay enabled.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(Config{
		CORSOrigin:     "*",
		MaxUploadMB:    10,
		TimeoutSec:     10,
		DetectorConfig: testDetectorConfig(),
		OverlayEnabled: true,
	})
	require.NoError(t, err)
	return s
}

// stripePNG encodes a full-frame alternating stripe image as PNG.
func stripePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	pix := testutil.VerticalStripes(width, height, 1)
	return testutil.EncodePNG(t, testutil.GrayImage(pix, width, height))
}

// multipartImageRequest builds a POST request uploading data as the "image"
// form file, plus any extra form fields.
func multipartImageRequest(t *testing.T, target string, data []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "test.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
