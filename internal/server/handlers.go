package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"endofline-server/internal/cards"
	"endofline-server/internal/game"
)

// handlerContext identifies the acting player and its transport handle
// for the duration of one message.
type handlerContext struct {
	playerID string
	conn     Conn
}

func (s *Server) sendMessage(ctx context.Context, conn Conn, message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return conn.Send(ctx, data)
}

// sendRejection reports a validation failure to the acting connection
// only. Rejections are never broadcast.
func (s *Server) sendRejection(hctx handlerContext, reason string) {
	msg := ActionRejectedMessage{Type: MsgActionRejected, Reason: reason}
	if err := s.sendMessage(context.Background(), hctx.conn, msg); err != nil {
		log.Printf("Failed to send rejection to %s: %v", hctx.playerID, err)
	}
}

// routeMessage dispatches one inbound message to its handler. The server
// mutex serializes dispatch so every handler runs to completion against
// session state before the next message is processed.
func (s *Server) routeMessage(hctx handlerContext, msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case MsgJoinGame:
		s.handleJoinGame(hctx, msg.GameID)
	case MsgPlayCard:
		s.handlePlayCard(hctx, msg.CardID, msg.TargetID)
	case MsgEndTurn:
		s.handleEndTurn(hctx)
	case MsgPlaceInfluence:
		s.handlePlaceInfluence(hctx, msg.TerritoryID, msg.Amount)
	case MsgRunTerritory:
		s.handleRunTerritory(hctx, msg.TerritoryID)
	case MsgTriggerScenario:
		s.handleTriggerScenario(hctx, msg.TerritoryID)
	case MsgLeaveGame:
		s.handleLeaveGame(hctx)
	default:
		log.Printf("Unknown message type '%s' from %s", msg.Type, hctx.playerID)
		s.sendRejection(hctx, "Invalid message format")
	}
}

// handleJoinGame joins an existing session when a game id is given,
// otherwise creates a new one with the caller as Corp.
func (s *Server) handleJoinGame(hctx handlerContext, gameID string) {
	if gameID != "" {
		session, err := s.registry.JoinSession(NormalizeSessionID(gameID), hctx.playerID, hctx.conn)
		if err != nil {
			s.sendRejection(hctx, err.Error())
			return
		}

		s.registry.Broadcast(session, stateDelta(game.StateDelta{
			Players:     session.State.Players,
			Factions:    session.State.Factions,
			Territories: session.State.Territories,
		}), "")
		return
	}

	session := s.registry.CreateSession(hctx.playerID, hctx.conn)
	log.Printf("Session %s created by %s", session.ID, hctx.playerID)

	ctx := context.Background()
	if err := s.sendMessage(ctx, hctx.conn, stateDelta(game.StateDelta{
		Players:     session.State.Players,
		Factions:    session.State.Factions,
		Territories: session.State.Territories,
	})); err != nil {
		log.Printf("Failed to send initial state to %s: %v", hctx.playerID, err)
	}

	if err := s.sendMessage(ctx, hctx.conn, GameCreatedMessage{
		Type:   MsgGameCreated,
		GameID: session.ID,
	}); err != nil {
		log.Printf("Failed to send game id to %s: %v", hctx.playerID, err)
	}
}

// handlePlaceInfluence shifts a territory's corporate influence toward
// the acting player's faction and spends one action.
func (s *Server) handlePlaceInfluence(hctx handlerContext, territoryID string, amount int) {
	session, ok := s.registry.GetSessionByPlayer(hctx.playerID)
	if !ok {
		s.sendRejection(hctx, "Not in a game")
		return
	}

	if !session.IsPlayerTurn(hctx.playerID) {
		s.sendRejection(hctx, "Not your turn")
		return
	}

	territory := session.State.FindTerritory(territoryID)
	if territory == nil {
		s.sendRejection(hctx, "Territory not found")
		return
	}

	player := session.State.FindPlayer(hctx.playerID)
	if player == nil || player.Actions <= 0 {
		s.sendRejection(hctx, "No actions remaining")
		return
	}

	role, _ := session.PlayerRole(hctx.playerID)
	delta := amount
	if role == game.FactionRunner {
		delta = -amount
	}

	influence := territory.CorporateInfluence + delta
	*territory = game.ModifyTerritory(*territory, game.TerritoryChanges{CorporateInfluence: &influence})
	player.Actions--

	s.registry.Broadcast(session, stateDelta(game.StateDelta{
		Territories: []game.Territory{*territory},
		Players:     session.State.Players,
	}), "")
}

// handleRunTerritory resolves a Runner's contest of a Corp-controlled
// territory with a fair coin flip.
func (s *Server) handleRunTerritory(hctx handlerContext, territoryID string) {
	session, ok := s.registry.GetSessionByPlayer(hctx.playerID)
	if !ok {
		s.sendRejection(hctx, "Not in a game")
		return
	}

	if !session.IsPlayerTurn(hctx.playerID) {
		s.sendRejection(hctx, "Not your turn")
		return
	}

	role, _ := session.PlayerRole(hctx.playerID)
	if role != game.FactionRunner {
		s.sendRejection(hctx, "Only Runner can run territories")
		return
	}

	territory := session.State.FindTerritory(territoryID)
	if territory == nil {
		s.sendRejection(hctx, "Territory not found")
		return
	}

	if !game.IsCorpControlled(*territory) {
		s.sendRejection(hctx, "Can only run Corp-controlled territories")
		return
	}

	player := session.State.FindPlayer(hctx.playerID)
	if player == nil || player.Actions <= 0 {
		s.sendRejection(hctx, "No actions remaining")
		return
	}

	scenarioID := fmt.Sprintf("run-%s-%d", territoryID, time.Now().UnixMilli())
	player.Actions--

	if s.coinFlip() {
		influence := territory.CorporateInfluence - 20
		*territory = game.ModifyTerritory(*territory, game.TerritoryChanges{CorporateInfluence: &influence})
		player.Credits += 2

		s.registry.Broadcast(session, ScenarioEndedMessage{
			Type:       MsgScenarioEnded,
			ScenarioID: scenarioID,
			Outcome:    OutcomeRunnerWin,
			Rewards:    ScenarioRewards{Credits: 2},
		}, "")
	} else {
		influence := territory.CorporateInfluence + 10
		*territory = game.ModifyTerritory(*territory, game.TerritoryChanges{CorporateInfluence: &influence})

		s.registry.Broadcast(session, ScenarioEndedMessage{
			Type:       MsgScenarioEnded,
			ScenarioID: scenarioID,
			Outcome:    OutcomeCorpWin,
			Rewards:    ScenarioRewards{},
		}, "")
	}

	s.registry.Broadcast(session, stateDelta(game.StateDelta{
		Territories: []game.Territory{*territory},
		Players:     session.State.Players,
	}), "")
}

// handleEndTurn hands the turn to the next player round-robin and resets
// their action budget.
func (s *Server) handleEndTurn(hctx handlerContext) {
	session, ok := s.registry.GetSessionByPlayer(hctx.playerID)
	if !ok {
		s.sendRejection(hctx, "Not in a game")
		return
	}

	if !session.IsPlayerTurn(hctx.playerID) {
		s.sendRejection(hctx, "Not your turn")
		return
	}

	players := session.State.Players
	currentIdx := 0
	for i, p := range players {
		if p.ID == hctx.playerID {
			currentIdx = i
			break
		}
	}
	next := &players[(currentIdx+1)%len(players)]

	session.State.CurrentTurn = game.TurnState{
		PlayerID:         next.ID,
		Phase:            game.PhaseAction,
		ActionsRemaining: actionsPerTurn,
	}
	next.Actions = actionsPerTurn

	s.registry.Broadcast(session, stateDelta(game.StateDelta{
		Players: session.State.Players,
	}), "")
}

// handlePlayCard resolves a card through the component pipeline and
// applies the returned state changes.
func (s *Server) handlePlayCard(hctx handlerContext, cardID, targetID string) {
	session, ok := s.registry.GetSessionByPlayer(hctx.playerID)
	if !ok {
		s.sendRejection(hctx, "Not in a game")
		return
	}

	if !session.IsPlayerTurn(hctx.playerID) {
		s.sendRejection(hctx, "Not your turn")
		return
	}

	player := session.State.FindPlayer(hctx.playerID)
	if player == nil || player.Actions <= 0 {
		s.sendRejection(hctx, "No actions remaining")
		return
	}

	card, found := cards.ByID(cardID)
	if !found {
		s.sendRejection(hctx, "Card not found")
		return
	}

	var targets []string
	if targetID != "" {
		targets = []string{targetID}
	}

	result := cards.Execute(cards.Context{
		State:          session.State,
		SourceCard:     card,
		SourcePlayerID: hctx.playerID,
		Targets:        targets,
	})
	if !result.Success {
		s.sendRejection(hctx, result.Reason)
		return
	}

	installed := s.applyStateChanges(session.State, result.StateChanges)

	// A card with no ACTION_COST component still consumes the single
	// action that playing any card costs.
	if !hasActionCost(card) {
		player.Actions--
	}

	delta := game.StateDelta{Players: session.State.Players}
	if installed {
		delta.Cards = session.State.Cards
	}
	s.registry.Broadcast(session, stateDelta(delta), "")
}

func hasActionCost(card game.Card) bool {
	for _, c := range card.Components {
		if c.Type == game.ActionCost {
			return true
		}
	}
	return false
}

// applyStateChanges mutates session state from the pipeline's declarative
// change records. Reports whether any card was installed.
func (s *Server) applyStateChanges(state *game.State, changes []cards.StateChange) bool {
	installed := false
	for _, change := range changes {
		switch change.Type {
		case cards.ChangeModifyCredits:
			if p := state.FindPlayer(change.TargetID); p != nil {
				p.Credits += change.Amount
			}
		case cards.ChangeModifyActions:
			if p := state.FindPlayer(change.TargetID); p != nil {
				p.Actions += change.Amount
			}
		case cards.ChangeDealDamage:
			if p := state.FindPlayer(change.TargetID); p != nil {
				p.Health -= change.Amount
			}
		case cards.ChangeInstallCard:
			if card, ok := cards.ByID(change.CardID); ok {
				state.Cards = append(state.Cards, card)
				installed = true
			}
		default:
			log.Printf("Unapplied state change type %s", change.Type)
		}
	}
	return installed
}

// handleTriggerScenario announces a scenario on a territory. No state is
// mutated; the scenario layer itself is not built yet.
func (s *Server) handleTriggerScenario(hctx handlerContext, territoryID string) {
	session, ok := s.registry.GetSessionByPlayer(hctx.playerID)
	if !ok {
		s.sendRejection(hctx, "Not in a game")
		return
	}

	scenarioID := fmt.Sprintf("scenario-%d", time.Now().UnixMilli())

	s.registry.Broadcast(session, ScenarioStartedMessage{
		Type:        MsgScenarioStarted,
		ScenarioID:  scenarioID,
		TerritoryID: territoryID,
	}, "")
}

// handleLeaveGame removes the player; remaining participants get a
// players delta.
func (s *Server) handleLeaveGame(hctx handlerContext) {
	s.removeFromSession(hctx.playerID)
}

// handleDisconnect is the transport's signal that a connection dropped.
func (s *Server) handleDisconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFromSession(playerID)
}

func (s *Server) removeFromSession(playerID string) {
	session, ok := s.registry.RemovePlayer(playerID)
	if !ok {
		return
	}

	if len(session.Players) > 0 {
		s.registry.Broadcast(session, stateDelta(game.StateDelta{
			Players: session.State.Players,
		}), "")
		return
	}

	log.Printf("Session %s ended", session.ID)
	s.archiveSession(session)
}
