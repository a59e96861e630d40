package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ws", s.websocketHandler)

	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"name": "End of Line API"}
	data, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":      "ok",
		"sessions":    s.registry.SessionCount(),
		"connections": s.connectionManager.Count(),
	}
	data, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Failed to marshal health response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// websocketHandler owns one connection's lifetime: assign a player id,
// loop over inbound frames, and forward a disconnect signal when the
// socket drops for any reason.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	socket, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"}, // TODO: restrict to the deployed client origin
	})
	if err != nil {
		http.Error(w, "Failed to open websocket", http.StatusInternalServerError)
		return
	}
	defer socket.Close(websocket.StatusGoingAway, "Server closing")

	ctx := r.Context()

	playerID := uuid.New().String()
	log.Printf("Player connected: %s", playerID)
	s.connectionManager.AddConnection(playerID, socket)

	hctx := handlerContext{playerID: playerID, conn: wsConn{sock: socket}}

	defer func() {
		s.connectionManager.RemoveConnection(playerID)
		s.rateLimiter.RemoveConnection(playerID)
		log.Printf("Player disconnected: %s", playerID)
		s.handleDisconnect(playerID)
	}()

	for {
		msgType, data, err := socket.Read(ctx)
		if err != nil {
			log.Printf("Connection %s read error: %v", playerID, err)
			return
		}

		if msgType != websocket.MessageText {
			log.Printf("Non-text input from %s", playerID)
			continue
		}

		if !s.rateLimiter.Allow(playerID) {
			s.sendRejection(hctx, "Too many requests")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid JSON from %s: %v", playerID, err)
			s.sendRejection(hctx, "Invalid message format")
			continue
		}

		s.routeMessage(hctx, msg)
	}
}
