package server

import "endofline-server/internal/game"

// Inbound message types, discriminated by the "type" field. Fields ride
// inline on the envelope rather than in a nested payload.
const (
	MsgJoinGame        = "JOIN_GAME"
	MsgPlayCard        = "PLAY_CARD"
	MsgEndTurn         = "END_TURN"
	MsgPlaceInfluence  = "PLACE_INFLUENCE"
	MsgRunTerritory    = "RUN_TERRITORY"
	MsgTriggerScenario = "TRIGGER_SCENARIO"
	MsgLeaveGame       = "LEAVE_GAME"
)

// ClientMessage is the inbound envelope. Only the fields relevant to the
// given Type are populated.
type ClientMessage struct {
	Type        string `json:"type"`
	GameID      string `json:"gameId,omitempty"`
	CardID      string `json:"cardId,omitempty"`
	TargetID    string `json:"targetId,omitempty"`
	TerritoryID string `json:"territoryId,omitempty"`
	Amount      int    `json:"amount,omitempty"`
}

// clientMessageTypes lists every inbound variant the router must handle.
// The dispatch test walks this list so a new message kind cannot be added
// without a handler.
var clientMessageTypes = []string{
	MsgJoinGame,
	MsgPlayCard,
	MsgEndTurn,
	MsgPlaceInfluence,
	MsgRunTerritory,
	MsgTriggerScenario,
	MsgLeaveGame,
}

// Outbound message types.
const (
	MsgStateDelta      = "STATE_DELTA"
	MsgActionRejected  = "ACTION_REJECTED"
	MsgGameCreated     = "GAME_CREATED"
	MsgScenarioStarted = "SCENARIO_STARTED"
	MsgScenarioEnded   = "SCENARIO_ENDED"
	MsgGameOver        = "GAME_OVER"
)

// StateDeltaMessage carries a partial merge-by-id state update.
type StateDeltaMessage struct {
	Type  string          `json:"type"`
	Delta game.StateDelta `json:"delta"`
}

func stateDelta(delta game.StateDelta) StateDeltaMessage {
	return StateDeltaMessage{Type: MsgStateDelta, Delta: delta}
}

// ActionRejectedMessage is sent to the acting connection only, never
// broadcast.
type ActionRejectedMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// GameCreatedMessage tells the creator the id a second player can join.
type GameCreatedMessage struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
}

// ScenarioStartedMessage announces a scenario opening on a territory.
type ScenarioStartedMessage struct {
	Type        string `json:"type"`
	ScenarioID  string `json:"scenarioId"`
	TerritoryID string `json:"territoryId"`
}

// ScenarioOutcome is the result of a resolved scenario.
type ScenarioOutcome string

const (
	OutcomeCorpWin   ScenarioOutcome = "CORP_WIN"
	OutcomeRunnerWin ScenarioOutcome = "RUNNER_WIN"
	OutcomeDraw      ScenarioOutcome = "DRAW"
)

// ScenarioRewards lists what the winner collects.
type ScenarioRewards struct {
	Credits       int      `json:"credits,omitempty"`
	VictoryPoints int      `json:"victoryPoints,omitempty"`
	Cards         []string `json:"cards,omitempty"`
}

// ScenarioEndedMessage announces a resolved scenario. Rewards is always
// present, empty on a Corp win.
type ScenarioEndedMessage struct {
	Type       string          `json:"type"`
	ScenarioID string          `json:"scenarioId"`
	Outcome    ScenarioOutcome `json:"outcome"`
	Rewards    ScenarioRewards `json:"rewards"`
}

// GameOverMessage is part of the protocol but not yet emitted by any
// handler; win-condition detection is still to come.
type GameOverMessage struct {
	Type     string `json:"type"`
	WinnerID string `json:"winnerId"`
	Reason   string `json:"reason"`
}
