package server

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWSConn records responses written during a test.
type fakeWSConn struct {
	mu       sync.Mutex
	messages []WebSocketDetectResponse
}

func (c *fakeWSConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if messageType != websocket.TextMessage {
		return nil
	}
	var resp WebSocketDetectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}
	c.messages = append(c.messages, resp)
	return nil
}

func (c *fakeWSConn) recorded() []WebSocketDetectResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]WebSocketDetectResponse(nil), c.messages...)
}

func wsRequest(t *testing.T, req WebSocketDetectRequest) []byte {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return data
}

func TestWebSocketDetectCompletes(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	s.handleWebSocketMessage(conn, wsRequest(t, WebSocketDetectRequest{
		Image: stripePNG(t, 1200, 150),
	}))

	msgs := conn.recorded()
	require.NotEmpty(t, msgs)

	first := msgs[0]
	assert.Equal(t, "processing", first.Status)
	assert.Zero(t, first.Progress)
	assert.NotEmpty(t, first.RequestID)

	last := msgs[len(msgs)-1]
	assert.Equal(t, "completed", last.Status)
	assert.InDelta(t, 1.0, last.Progress, 1e-9)
	assert.Equal(t, first.RequestID, last.RequestID)
	require.NotNil(t, last.Result)
	assert.Equal(t, 1200, last.Result.Width)
	require.Len(t, last.Result.Regions, 1)
}

func TestWebSocketDetectStreamsProgress(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	// 150px tall with 50px strips gives three progress steps.
	s.handleWebSocketMessage(conn, wsRequest(t, WebSocketDetectRequest{
		Image: stripePNG(t, 1200, 150),
	}))

	msgs := conn.recorded()
	var progress []float64
	for _, m := range msgs {
		if m.Status == "processing" && m.Progress > 0 {
			progress = append(progress, m.Progress)
		}
	}
	require.Len(t, progress, 3)
	assert.Contains(t, progress, 1.0)
}

func TestWebSocketDetectCharacterMode(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	s.handleWebSocketMessage(conn, wsRequest(t, WebSocketDetectRequest{
		Mode:  ModeCharacters,
		Image: stripePNG(t, 1200, 300),
	}))

	msgs := conn.recorded()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "completed", last.Status)
	require.NotNil(t, last.Result)
}

func TestWebSocketDetectInvalidJSON(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	s.handleWebSocketMessage(conn, []byte("{not json"))

	msgs := conn.recorded()
	require.Len(t, msgs, 1)
	assert.Equal(t, "error", msgs[0].Status)
	assert.Equal(t, "invalid_request", msgs[0].ErrorType)
}

func TestWebSocketDetectMissingImage(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	s.handleWebSocketMessage(conn, wsRequest(t, WebSocketDetectRequest{}))

	msgs := conn.recorded()
	require.Len(t, msgs, 1)
	assert.Equal(t, "invalid_request", msgs[0].ErrorType)
}

func TestWebSocketDetectUnknownMode(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	s.handleWebSocketMessage(conn, wsRequest(t, WebSocketDetectRequest{
		Mode:  "qrcodes",
		Image: stripePNG(t, 1200, 150),
	}))

	msgs := conn.recorded()
	require.Len(t, msgs, 1)
	assert.Equal(t, "invalid_request", msgs[0].ErrorType)
}

func TestWebSocketDetectBadImage(t *testing.T) {
	s := newTestServer(t)
	conn := &fakeWSConn{}

	s.handleWebSocketMessage(conn, wsRequest(t, WebSocketDetectRequest{
		Image: []byte("not an image"),
	}))

	msgs := conn.recorded()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "error", last.Status)
	assert.Equal(t, "processing_error", last.ErrorType)
}
