package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeConn records every serialized message pushed at it. failSend makes
// every Send return an error, for broadcast-isolation tests.
type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	failSend bool
}

func (c *fakeConn) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend {
		return errors.New("connection closed")
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	c.messages = append(c.messages, copied)
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// message decodes the i-th recorded message into a generic map.
func (c *fakeConn) message(t *testing.T, i int) map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if i >= len(c.messages) {
		t.Fatalf("no message at index %d (have %d)", i, len(c.messages))
	}
	var decoded map[string]any
	if err := json.Unmarshal(c.messages[i], &decoded); err != nil {
		t.Fatalf("failed to decode message %d: %v", i, err)
	}
	return decoded
}

func (c *fakeConn) lastMessage(t *testing.T) map[string]any {
	t.Helper()
	return c.message(t, c.count()-1)
}

// messageTypes lists the type field of every recorded message in order.
func (c *fakeConn) messageTypes(t *testing.T) []string {
	t.Helper()
	types := make([]string, c.count())
	for i := range types {
		msg := c.message(t, i)
		types[i], _ = msg["type"].(string)
	}
	return types
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}

// newTestServer builds a Server with no transport or archive attached.
// The coin flip defaults to always-heads; tests override as needed.
func newTestServer() *Server {
	return &Server{
		registry:          NewSessionRegistry(),
		connectionManager: NewConnectionManager(),
		rateLimiter:       NewRateLimiter(1000, time.Second),
		coinFlip:          func() bool { return true },
	}
}

// setupTwoPlayerGame creates a session with a Corp creator ("p1") and a
// joined Runner ("p2") and returns the session plus both fake sockets
// with their join traffic cleared.
func setupTwoPlayerGame(t *testing.T, s *Server) (*GameSession, *fakeConn, *fakeConn) {
	t.Helper()

	corpConn := &fakeConn{}
	runnerConn := &fakeConn{}

	s.routeMessage(handlerContext{playerID: "p1", conn: corpConn}, ClientMessage{Type: MsgJoinGame})

	created := corpConn.lastMessage(t)
	if created["type"] != MsgGameCreated {
		t.Fatalf("expected GAME_CREATED, got %v", created["type"])
	}
	gameID, _ := created["gameId"].(string)

	s.routeMessage(handlerContext{playerID: "p2", conn: runnerConn}, ClientMessage{Type: MsgJoinGame, GameID: gameID})

	session, ok := s.registry.GetSession(gameID)
	if !ok {
		t.Fatalf("session %s not found after join", gameID)
	}

	corpConn.reset()
	runnerConn.reset()
	return session, corpConn, runnerConn
}

// rejectionReason asserts the connection's last message is an
// ACTION_REJECTED and returns its reason.
func rejectionReason(t *testing.T, conn *fakeConn) string {
	t.Helper()
	msg := conn.lastMessage(t)
	if msg["type"] != MsgActionRejected {
		t.Fatalf("expected ACTION_REJECTED, got %v", msg["type"])
	}
	reason, _ := msg["reason"].(string)
	return reason
}
