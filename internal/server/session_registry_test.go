package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"endofline-server/internal/game"
)

func TestCreateSession_SeedsCorpCreator(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	conn := &fakeConn{}

	session := registry.CreateSession("player-one", conn)

	assert.Len(session.ID, 6)
	assert.Len(session.Players, 1)
	assert.Equal(game.FactionCorp, session.Players[0].Role)
	assert.Equal(1, session.PeakPlayers)

	state := session.State
	assert.Len(state.Territories, 9)
	assert.Len(state.Factions, 2)
	assert.Len(state.Players, 1)
	assert.Empty(state.Cards)

	player := state.Players[0]
	assert.Equal("player-one", player.ID)
	assert.Equal("Player play", player.Name)
	assert.Equal("corp", player.FactionID)
	assert.Equal(5, player.Credits)
	assert.Equal(3, player.Actions)
	assert.Equal(40, player.Health)

	// The creator holds the first turn.
	assert.Equal("player-one", state.CurrentTurn.PlayerID)
	assert.Equal(game.PhaseAction, state.CurrentTurn.Phase)
	assert.Equal(3, state.CurrentTurn.ActionsRemaining)
	assert.True(session.IsPlayerTurn("player-one"))
}

func TestJoinSession_AddsRunner(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	session := registry.CreateSession("p1", &fakeConn{})

	joined, err := registry.JoinSession(session.ID, "p2", &fakeConn{})
	assert.NoError(err)
	assert.Same(session, joined)
	assert.Len(joined.Players, 2)
	assert.Equal(2, joined.PeakPlayers)

	role, ok := joined.PlayerRole("p2")
	assert.True(ok)
	assert.Equal(game.FactionRunner, role)

	assert.Equal("runner", joined.State.Players[1].FactionID)

	// Joining does not steal the turn.
	assert.True(joined.IsPlayerTurn("p1"))
	assert.False(joined.IsPlayerTurn("p2"))
}

func TestJoinSession_UnknownID(t *testing.T) {
	registry := NewSessionRegistry()

	_, err := registry.JoinSession("ZZZZZZ", "p1", &fakeConn{})
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, "Game not found", err.Error())
}

func TestJoinSession_Full(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	session := registry.CreateSession("p1", &fakeConn{})
	_, err := registry.JoinSession(session.ID, "p2", &fakeConn{})
	assert.NoError(err)

	_, err = registry.JoinSession(session.ID, "p3", &fakeConn{})
	assert.ErrorIs(err, ErrGameFull)
	assert.Equal("Game full", err.Error())

	// The failed join leaves no trace.
	assert.Len(session.Players, 2)
	_, found := registry.GetSessionByPlayer("p3")
	assert.False(found)
}

func TestGetSessionByPlayer(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	session := registry.CreateSession("p1", &fakeConn{})

	found, ok := registry.GetSessionByPlayer("p1")
	assert.True(ok)
	assert.Same(session, found)

	_, ok = registry.GetSessionByPlayer("stranger")
	assert.False(ok)
}

func TestRemovePlayer_PartialSessionSurvives(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	session := registry.CreateSession("p1", &fakeConn{})
	_, err := registry.JoinSession(session.ID, "p2", &fakeConn{})
	assert.NoError(err)

	removed, ok := registry.RemovePlayer("p2")
	assert.True(ok)
	assert.Len(removed.Players, 1)
	assert.Len(removed.State.Players, 1)
	assert.Equal("p1", removed.Players[0].PlayerID)

	// The session stays registered for the remaining player.
	assert.Equal(1, registry.SessionCount())
	_, ok = registry.GetSessionByPlayer("p2")
	assert.False(ok)
	_, ok = registry.GetSessionByPlayer("p1")
	assert.True(ok)
}

func TestRemovePlayer_LastPlayerDiscardsSession(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	session := registry.CreateSession("p1", &fakeConn{})
	sessionID := session.ID

	removed, ok := registry.RemovePlayer("p1")
	assert.True(ok)
	assert.Empty(removed.Players)

	assert.Equal(0, registry.SessionCount())
	_, ok = registry.GetSession(sessionID)
	assert.False(ok)

	// The id is freed for reuse.
	registry.mu.RLock()
	used := registry.usedIDs[sessionID]
	registry.mu.RUnlock()
	assert.False(used)
}

func TestRemovePlayer_Unknown(t *testing.T) {
	registry := NewSessionRegistry()

	_, ok := registry.RemovePlayer("ghost")
	assert.False(t, ok)
}

func TestBroadcast_ReachesAllPlayers(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	corpConn := &fakeConn{}
	runnerConn := &fakeConn{}
	session := registry.CreateSession("p1", corpConn)
	_, err := registry.JoinSession(session.ID, "p2", runnerConn)
	assert.NoError(err)

	registry.Broadcast(session, stateDelta(game.StateDelta{Players: session.State.Players}), "")

	assert.Equal(1, corpConn.count())
	assert.Equal(1, runnerConn.count())
	assert.Equal("STATE_DELTA", corpConn.message(t, 0)["type"])
}

func TestBroadcast_ExcludesPlayer(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	corpConn := &fakeConn{}
	runnerConn := &fakeConn{}
	session := registry.CreateSession("p1", corpConn)
	_, err := registry.JoinSession(session.ID, "p2", runnerConn)
	assert.NoError(err)

	registry.Broadcast(session, stateDelta(game.StateDelta{}), "p1")

	assert.Equal(0, corpConn.count())
	assert.Equal(1, runnerConn.count())
}

func TestBroadcast_DeadConnectionDoesNotBlockOthers(t *testing.T) {
	assert := assert.New(t)

	registry := NewSessionRegistry()
	deadConn := &fakeConn{failSend: true}
	liveConn := &fakeConn{}
	session := registry.CreateSession("p1", deadConn)
	_, err := registry.JoinSession(session.ID, "p2", liveConn)
	assert.NoError(err)

	registry.Broadcast(session, stateDelta(game.StateDelta{}), "")

	assert.Equal(1, liveConn.count())
}
