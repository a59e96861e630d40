package game

// TerritoryType classifies an area of the overworld grid.
type TerritoryType string

const (
	TerritoryCorporate   TerritoryType = "CORPORATE"
	TerritoryFringe      TerritoryType = "FRINGE"
	TerritoryUnderground TerritoryType = "UNDERGROUND"
)

// Territory is a node of the overworld board. Bounded fields are kept in
// range by ModifyTerritory; adjacency is fixed at grid construction.
type Territory struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Type                 TerritoryType `json:"type"`
	SecurityLevel        int           `json:"securityLevel"`  // 1-5
	ResourceValue        int           `json:"resourceValue"`  // 1-5
	StabilityIndex       int           `json:"stabilityIndex"` // 0-100
	CorporateInfluence   int           `json:"corporateInfluence"` // 0-100
	AdjacentTerritoryIDs []string      `json:"adjacentTerritoryIds"`
}

// FactionType is one of the two fixed roles.
type FactionType string

const (
	FactionCorp   FactionType = "CORP"
	FactionRunner FactionType = "RUNNER"
)

// Faction holds aggregate resources and victory points for one role.
type Faction struct {
	ID            string      `json:"id"`
	Type          FactionType `json:"type"`
	Resources     int         `json:"resources"`
	VictoryPoints int         `json:"victoryPoints"`
}

// Player is a connected participant's in-game record.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FactionID string `json:"factionId"`
	Credits   int    `json:"credits"`
	Actions   int    `json:"actions"`
	Health    int    `json:"health"`
}

// CardType indicates where a card can be played.
type CardType string

const (
	CardOverworld CardType = "OVERWORLD"
	CardScenario  CardType = "SCENARIO"
)

// ComponentType tags a card component. The cards package interprets these
// in a fixed priority order regardless of declaration order.
type ComponentType string

const (
	CreditCost   ComponentType = "CREDIT_COST"
	ActionCost   ComponentType = "ACTION_COST"
	TrashCost    ComponentType = "TRASH_COST"
	SelfTarget   ComponentType = "SELF_TARGET"
	SingleTarget ComponentType = "SINGLE_TARGET"
	MultiTarget  ComponentType = "MULTI_TARGET"
	DealDamage   ComponentType = "DEAL_DAMAGE"
	GainCredits  ComponentType = "GAIN_CREDITS"
	DrawCards    ComponentType = "DRAW_CARDS"
	InstallCard  ComponentType = "INSTALL_CARD"
)

// DamageType is the flavor of damage a DEAL_DAMAGE component carries.
type DamageType string

const (
	DamageNet   DamageType = "NET"
	DamageMeat  DamageType = "MEAT"
	DamageBrain DamageType = "BRAIN"
)

// Component is a data-only unit of cost or effect behavior. It carries no
// behavior itself; interpretation lives in the cards package so component
// records stay serializable and inspectable.
type Component struct {
	Type       ComponentType `json:"type"`
	Amount     int           `json:"amount,omitempty"`
	DamageType DamageType    `json:"damageType,omitempty"`
}

// Card is an immutable definition from a static catalog.
type Card struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Type       CardType    `json:"type"`
	Faction    FactionType `json:"faction"`
	Cost       int         `json:"cost"`
	Components []Component `json:"components"`
}

// TurnPhase indicates the current phase of a turn. Only ACTION is
// exercised in the implemented slice.
type TurnPhase string

const (
	PhaseAction  TurnPhase = "ACTION"
	PhaseDiscard TurnPhase = "DISCARD"
	PhaseDraw    TurnPhase = "DRAW"
)

// TurnState tracks whose turn it is and the remaining action budget.
type TurnState struct {
	PlayerID         string    `json:"playerId"`
	Phase            TurnPhase `json:"phase"`
	ActionsRemaining int       `json:"actionsRemaining"`
}

// State is the full mutable state of one game session.
type State struct {
	Territories []Territory `json:"territories"`
	Factions    []Faction   `json:"factions"`
	Players     []Player    `json:"players"`
	Cards       []Card      `json:"cards"`
	CurrentTurn TurnState   `json:"currentTurn"`
}

// FindPlayer returns the player record with the given id, or nil.
func (s *State) FindPlayer(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// FindTerritory returns the territory with the given id, or nil.
func (s *State) FindTerritory(id string) *Territory {
	for i := range s.Territories {
		if s.Territories[i].ID == id {
			return &s.Territories[i]
		}
	}
	return nil
}

// StateDelta is a partial, merge-by-id update broadcast to clients.
// Receivers merge each entry by id, upserting (update-if-present else
// append) and never deleting.
type StateDelta struct {
	Territories []Territory `json:"territories,omitempty"`
	Factions    []Faction   `json:"factions,omitempty"`
	Players     []Player    `json:"players,omitempty"`
	Cards       []Card      `json:"cards,omitempty"`
}
