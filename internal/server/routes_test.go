package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
)

func setupTestServer() (*Server, string, func()) {
	s := &Server{
		registry:          NewSessionRegistry(),
		connectionManager: NewConnectionManager(),
		rateLimiter:       NewRateLimiter(100, time.Second),
		coinFlip:          func() bool { return true },
	}

	httpServer := httptest.NewServer(s.RegisterRoutes())
	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"

	return s, url, httpServer.Close
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]any {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to parse message: %v", err)
	}
	return msg
}

func TestIndexHandler(t *testing.T) {
	assert := assert.New(t)

	s := &Server{
		registry:          NewSessionRegistry(),
		connectionManager: NewConnectionManager(),
		rateLimiter:       NewRateLimiter(100, time.Second),
	}

	httpServer := httptest.NewServer(s.RegisterRoutes())
	defer httpServer.Close()

	resp, err := http.Get(httpServer.URL + "/")
	assert.NoError(err)
	defer resp.Body.Close()

	assert.Equal(http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(err)
	assert.JSONEq(`{"name":"End of Line API"}`, string(body))
}

func TestHealthHandler(t *testing.T) {
	assert := assert.New(t)

	s := &Server{
		registry:          NewSessionRegistry(),
		connectionManager: NewConnectionManager(),
		rateLimiter:       NewRateLimiter(100, time.Second),
	}
	s.registry.CreateSession("p1", &fakeConn{})

	httpServer := httptest.NewServer(s.RegisterRoutes())
	defer httpServer.Close()

	resp, err := http.Get(httpServer.URL + "/health")
	assert.NoError(err)
	defer resp.Body.Close()

	var health map[string]any
	assert.NoError(json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal("ok", health["status"])
	assert.Equal(1.0, health["sessions"])
	assert.Equal(0.0, health["connections"])
}

func TestCORSPreflight(t *testing.T) {
	assert := assert.New(t)

	s := &Server{
		registry:          NewSessionRegistry(),
		connectionManager: NewConnectionManager(),
		rateLimiter:       NewRateLimiter(100, time.Second),
	}

	httpServer := httptest.NewServer(s.RegisterRoutes())
	defer httpServer.Close()

	req, err := http.NewRequest(http.MethodOptions, httpServer.URL+"/health", nil)
	assert.NoError(err)

	resp, err := http.DefaultClient.Do(req)
	assert.NoError(err)
	defer resp.Body.Close()

	assert.Equal(http.StatusNoContent, resp.StatusCode)
	assert.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebSocketJoinGame(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	_, url, cleanup := setupTestServer()
	defer cleanup()

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	data, err := json.Marshal(ClientMessage{Type: MsgJoinGame})
	assert.NoError(err)
	assert.NoError(conn.Write(ctx, websocket.MessageText, data))

	delta := readMessage(t, ctx, conn)
	assert.Equal(MsgStateDelta, delta["type"])

	created := readMessage(t, ctx, conn)
	assert.Equal(MsgGameCreated, created["type"])
	gameID, _ := created["gameId"].(string)
	assert.Len(gameID, 6)
}

func TestWebSocketTwoPlayerExchange(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	_, url, cleanup := setupTestServer()
	defer cleanup()

	corp, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer corp.Close(websocket.StatusNormalClosure, "")

	data, _ := json.Marshal(ClientMessage{Type: MsgJoinGame})
	assert.NoError(corp.Write(ctx, websocket.MessageText, data))
	readMessage(t, ctx, corp) // STATE_DELTA
	created := readMessage(t, ctx, corp)
	gameID, _ := created["gameId"].(string)

	runner, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer runner.Close(websocket.StatusNormalClosure, "")

	data, _ = json.Marshal(ClientMessage{Type: MsgJoinGame, GameID: gameID})
	assert.NoError(runner.Write(ctx, websocket.MessageText, data))

	// Both sides receive the refreshed state with two players.
	for _, conn := range []*websocket.Conn{corp, runner} {
		msg := readMessage(t, ctx, conn)
		assert.Equal(MsgStateDelta, msg["type"])
		delta, _ := msg["delta"].(map[string]any)
		assert.Len(delta["players"], 2)
	}
}

func TestWebSocketInvalidJSON(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	_, url, cleanup := setupTestServer()
	defer cleanup()

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	assert.NoError(conn.Write(ctx, websocket.MessageText, []byte("junk")))

	rejected := readMessage(t, ctx, conn)
	assert.Equal(MsgActionRejected, rejected["type"])
	assert.Equal("Invalid message format", rejected["reason"])

	// The connection stays open; a valid message still goes through.
	data, _ := json.Marshal(ClientMessage{Type: MsgJoinGame})
	assert.NoError(conn.Write(ctx, websocket.MessageText, data))
	delta := readMessage(t, ctx, conn)
	assert.Equal(MsgStateDelta, delta["type"])
}

func TestWebSocketRateLimiting(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	s, url, cleanup := setupTestServer()
	defer cleanup()

	s.rateLimiter = NewRateLimiter(2, time.Second)

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// LEAVE_GAME while not in a game is silently ignored, so the first
	// response we read belongs to the rate-limited third message.
	data, _ := json.Marshal(ClientMessage{Type: MsgLeaveGame})
	for i := 0; i < 3; i++ {
		assert.NoError(conn.Write(ctx, websocket.MessageText, data))
	}

	rejected := readMessage(t, ctx, conn)
	assert.Equal(MsgActionRejected, rejected["type"])
	assert.Equal("Too many requests", rejected["reason"])
}

func TestWebSocketConnectionRegistration(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	s, url, cleanup := setupTestServer()
	defer cleanup()

	assert.Equal(0, s.connectionManager.Count())

	conn, _, err := websocket.Dial(ctx, url, nil)
	assert.NoError(err)

	// Exchange a message so the handler has definitely registered the
	// connection; Dial returns before AddConnection runs.
	data, _ := json.Marshal(ClientMessage{Type: MsgJoinGame})
	assert.NoError(conn.Write(ctx, websocket.MessageText, data))
	readMessage(t, ctx, conn)
	readMessage(t, ctx, conn)

	assert.Equal(1, s.connectionManager.Count())
	assert.Equal(1, s.registry.SessionCount())

	conn.Close(websocket.StatusNormalClosure, "")

	// The handler's deferred cleanup runs after Close returns.
	time.Sleep(50 * time.Millisecond)

	assert.Equal(0, s.connectionManager.Count())
	assert.Equal(0, s.registry.SessionCount())
}
