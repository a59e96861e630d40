package server

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	_ "github.com/joho/godotenv/autoload"
)

// Server wires the session registry, transport bookkeeping, and optional
// match archive together. One mutex serializes message dispatch so
// handlers run to completion against session state.
type Server struct {
	port              int
	registry          *SessionRegistry
	connectionManager *ConnectionManager
	rateLimiter       *RateLimiter
	archive           *MatchArchive

	// coinFlip resolves run contests; injectable for deterministic tests.
	coinFlip func() bool

	mu sync.Mutex
}

func NewServer() (*Server, *http.Server) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	var archive *MatchArchive
	if url := os.Getenv("DATABASE_URL"); url != "" {
		var err error
		archive, err = NewMatchArchive(context.Background(), url)
		if err != nil {
			log.Printf("Warning: match archive disabled: %v", err)
			archive = nil
		}
	}

	srv := &Server{
		port:              port,
		registry:          NewSessionRegistry(),
		connectionManager: NewConnectionManager(),
		rateLimiter:       NewRateLimiter(20, time.Second),
		archive:           archive,
		coinFlip:          func() bool { return rand.Intn(2) == 0 },
	}

	if archive != nil {
		go srv.archiveCleanupTask()
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return srv, httpServer
}

// Shutdown closes every live socket so read loops unwind and run their
// disconnect paths, then releases the archive pool.
func (s *Server) Shutdown(ctx context.Context) error {
	s.connectionManager.CloseAll(websocket.StatusGoingAway, "Server shutting down")

	if s.archive != nil {
		s.archive.Close()
	}
	return nil
}

// archiveSession records a finished match. Runs off the hot path; the
// session is already out of the registry when this fires.
func (s *Server) archiveSession(session *GameSession) {
	if s.archive == nil {
		return
	}

	record := MatchRecord{
		SessionID:   session.ID,
		CreatedAt:   session.CreatedAt,
		EndedAt:     time.Now(),
		PeakPlayers: session.PeakPlayers,
		Territories: session.State.Territories,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.archive.RecordMatch(ctx, record); err != nil {
			log.Printf("Failed to archive session %s: %v", record.SessionID, err)
		}
	}()
}

// archiveCleanupTask prunes archived matches older than 30 days once an
// hour so the table doesn't grow without bound.
func (s *Server) archiveCleanupTask() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := s.archive.CleanupOldMatches(ctx, 30*24*time.Hour)
		cancel()
		if err != nil {
			log.Printf("Archive cleanup failed: %v", err)
			continue
		}
		if deleted > 0 {
			log.Printf("Archive cleanup: deleted %d old matches", deleted)
		}
	}
}
