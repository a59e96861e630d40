package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"endofline-server/internal/game"
	"endofline-server/internal/hexgrid"
)

// Reasons surfaced to the joining connection. The messages are the wire
// contract, so they stay human-readable.
var (
	ErrGameNotFound = errors.New("Game not found")
	ErrGameFull     = errors.New("Game full")
)

const (
	maxPlayersPerSession = 2

	startingCredits = 5
	startingActions = 3
	startingHealth  = 40

	startingFactionResources = 5

	actionsPerTurn = 3
)

// PlayerConnection ties a participant to its transport handle and role.
type PlayerConnection struct {
	PlayerID string
	Conn     Conn
	Role     game.FactionType
}

// GameSession is the root aggregate for one match. The registry is the
// only long-lived owner; handlers borrow it per request by lookup.
type GameSession struct {
	ID          string
	Players     []PlayerConnection
	State       *game.State
	CreatedAt   time.Time
	PeakPlayers int
}

// PlayerRole returns the participant's assigned role.
func (s *GameSession) PlayerRole(playerID string) (game.FactionType, bool) {
	for _, p := range s.Players {
		if p.PlayerID == playerID {
			return p.Role, true
		}
	}
	return "", false
}

// IsPlayerTurn reports whether playerID holds the current turn.
func (s *GameSession) IsPlayerTurn(playerID string) bool {
	return s.State.CurrentTurn.PlayerID == playerID
}

// SessionRegistry is the in-memory directory of active matches. Both maps
// are mutated together under one mutex so every live player mapping
// references a session still present in the primary map.
type SessionRegistry struct {
	sessions        map[string]*GameSession
	playerToSession map[string]string
	usedIDs         map[string]bool
	mu              sync.RWMutex
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions:        make(map[string]*GameSession),
		playerToSession: make(map[string]string),
		usedIDs:         make(map[string]bool),
	}
}

func newPlayer(playerID, factionID string) game.Player {
	short := playerID
	if len(short) > 4 {
		short = short[:4]
	}
	return game.Player{
		ID:        playerID,
		Name:      "Player " + short,
		FactionID: factionID,
		Credits:   startingCredits,
		Actions:   startingActions,
		Health:    startingHealth,
	}
}

func newInitialState() *game.State {
	return &game.State{
		Territories: hexgrid.NewGrid(),
		Factions: []game.Faction{
			{ID: "corp", Type: game.FactionCorp, Resources: startingFactionResources},
			{ID: "runner", Type: game.FactionRunner, Resources: startingFactionResources},
		},
		Players: []game.Player{},
		Cards:   []game.Card{},
		CurrentTurn: game.TurnState{
			Phase:            game.PhaseAction,
			ActionsRemaining: actionsPerTurn,
		},
	}
}

// CreateSession seeds a fresh match with the creator as Corp and hands
// them the first turn.
func (r *SessionRegistry) CreateSession(playerID string, conn Conn) *GameSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID := GenerateSessionID(r.usedIDs)
	r.usedIDs[sessionID] = true

	state := newInitialState()
	state.Players = append(state.Players, newPlayer(playerID, "corp"))
	state.CurrentTurn.PlayerID = playerID

	session := &GameSession{
		ID:          sessionID,
		Players:     []PlayerConnection{{PlayerID: playerID, Conn: conn, Role: game.FactionCorp}},
		State:       state,
		CreatedAt:   time.Now(),
		PeakPlayers: 1,
	}

	r.sessions[sessionID] = session
	r.playerToSession[playerID] = sessionID

	return session
}

// JoinSession adds a second player as Runner. The session id must exist
// and the match must not already be full.
func (r *SessionRegistry) JoinSession(sessionID, playerID string, conn Conn) (*GameSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[sessionID]
	if !exists {
		return nil, ErrGameNotFound
	}

	if len(session.Players) >= maxPlayersPerSession {
		return nil, ErrGameFull
	}

	session.Players = append(session.Players, PlayerConnection{
		PlayerID: playerID,
		Conn:     conn,
		Role:     game.FactionRunner,
	})
	session.State.Players = append(session.State.Players, newPlayer(playerID, "runner"))
	r.playerToSession[playerID] = sessionID

	if len(session.Players) > session.PeakPlayers {
		session.PeakPlayers = len(session.Players)
	}

	return session, nil
}

// GetSession looks a session up by id.
func (r *SessionRegistry) GetSession(sessionID string) (*GameSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[sessionID]
	return session, exists
}

// GetSessionByPlayer returns the session the player belongs to.
func (r *SessionRegistry) GetSessionByPlayer(playerID string) (*GameSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, exists := r.playerToSession[playerID]
	if !exists {
		return nil, false
	}
	session, exists := r.sessions[sessionID]
	return session, exists
}

// RemovePlayer drops the player's connection entry and state record. An
// emptied session is discarded and its id freed. The (possibly empty)
// session is returned so the caller can decide what to broadcast.
func (r *SessionRegistry) RemovePlayer(playerID string) (*GameSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, exists := r.playerToSession[playerID]
	if !exists {
		return nil, false
	}
	session, exists := r.sessions[sessionID]
	if !exists {
		return nil, false
	}

	for i, p := range session.Players {
		if p.PlayerID == playerID {
			session.Players = append(session.Players[:i], session.Players[i+1:]...)
			break
		}
	}
	for i, p := range session.State.Players {
		if p.ID == playerID {
			session.State.Players = append(session.State.Players[:i], session.State.Players[i+1:]...)
			break
		}
	}
	delete(r.playerToSession, playerID)

	if len(session.Players) == 0 {
		delete(r.sessions, sessionID)
		delete(r.usedIDs, sessionID)
	}

	return session, true
}

// SessionCount returns the number of live sessions.
func (r *SessionRegistry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Broadcast serializes message once and delivers it to every participant
// except excludePlayerID (pass "" to reach everyone). Delivery is
// fire-and-forget: one dead connection never blocks the rest.
func (r *SessionRegistry) Broadcast(session *GameSession, message any, excludePlayerID string) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Broadcast marshal error for session %s: %v", session.ID, err)
		return
	}

	for _, p := range session.Players {
		if p.PlayerID == excludePlayerID {
			continue
		}
		if err := p.Conn.Send(context.Background(), data); err != nil {
			log.Printf("Failed to send to player %s in session %s: %v", p.PlayerID, session.ID, err)
		}
	}
}
