package server

import (
	"context"
	"sync"

	"github.com/coder/websocket"
)

// Conn is the narrow handle the core needs from the transport: a way to
// push one serialized message. Broadcast failures on a Conn are isolated
// per recipient and never propagate to handlers.
type Conn interface {
	Send(ctx context.Context, data []byte) error
}

// wsConn adapts *websocket.Conn to Conn.
type wsConn struct {
	sock *websocket.Conn
}

func (c wsConn) Send(ctx context.Context, data []byte) error {
	return c.sock.Write(ctx, websocket.MessageText, data)
}

// ConnectionManager tracks live sockets by player id so shutdown can close
// them gracefully. Game membership lives in the SessionRegistry, not here.
type ConnectionManager struct {
	connections map[string]*websocket.Conn
	mu          sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
	}
}

func (cm *ConnectionManager) AddConnection(playerID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.connections[playerID] = conn
}

func (cm *ConnectionManager) RemoveConnection(playerID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.connections, playerID)
}

// Count returns the number of live connections.
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll closes every tracked socket with the given status. Used during
// shutdown; read loops observe the close and run their disconnect path.
func (cm *ConnectionManager) CloseAll(code websocket.StatusCode, reason string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id, conn := range cm.connections {
		conn.Close(code, reason)
		delete(cm.connections, id)
	}
}
