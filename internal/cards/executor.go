// Package cards holds the static card catalogs and the component
// execution pipeline. Components are plain data records; this package
// interprets them and returns declarative state changes. Applying those
// changes to authoritative session state is the caller's job, so the
// pipeline can be tested with no shared-state setup.
package cards

import (
	"sort"

	"endofline-server/internal/game"
)

// StateChangeType names a kind of state change emitted by a component.
type StateChangeType string

const (
	ChangeModifyCredits StateChangeType = "MODIFY_CREDITS"
	ChangeModifyActions StateChangeType = "MODIFY_ACTIONS"
	ChangeDealDamage    StateChangeType = "DEAL_DAMAGE"
	ChangeDrawCard      StateChangeType = "DRAW_CARD"
	ChangeInstallCard   StateChangeType = "INSTALL_CARD"
	ChangeTrashCard     StateChangeType = "TRASH_CARD"
)

// StateChange is one declarative change produced by component execution.
type StateChange struct {
	Type       StateChangeType `json:"type"`
	TargetID   string          `json:"targetId"`
	Amount     int             `json:"amount,omitempty"`
	DamageType game.DamageType `json:"damageType,omitempty"`
	CardID     string          `json:"cardId,omitempty"`
}

// PauseReason marks a component that needs outside input before the
// pipeline can continue.
type PauseReason string

const (
	PauseAwaitingTarget   PauseReason = "AWAITING_TARGET_SELECTION"
	PauseAwaitingInput    PauseReason = "AWAITING_USER_INPUT"
	PauseAwaitingResponse PauseReason = "AWAITING_RESPONSE"
)

// Context carries everything a component may read during execution.
type Context struct {
	State          *game.State
	SourceCard     game.Card
	SourcePlayerID string
	Targets        []string
	UserInput      map[string]any
}

// componentResult is the outcome of evaluating a single component.
type componentResult struct {
	failed       bool
	reason       string
	stateChanges []StateChange
	pauseReason  PauseReason
}

// Result is the outcome of executing a full card.
type Result struct {
	Success      bool
	Reason       string
	StateChanges []StateChange
}

// componentOrder fixes the execution priority: costs, then targeting,
// then effects. Lower runs first; unknown types sink to the end.
var componentOrder = map[game.ComponentType]int{
	game.CreditCost:   0,
	game.ActionCost:   1,
	game.TrashCost:    2,
	game.SelfTarget:   10,
	game.SingleTarget: 11,
	game.MultiTarget:  12,
	game.DealDamage:   20,
	game.GainCredits:  21,
	game.DrawCards:    22,
	game.InstallCard:  23,
}

func orderOf(t game.ComponentType) int {
	if o, ok := componentOrder[t]; ok {
		return o
	}
	return 999
}

// sortComponents returns the card's components in execution order. The
// sort is stable so ties keep their declaration order.
func sortComponents(components []game.Component) []game.Component {
	sorted := make([]game.Component, len(components))
	copy(sorted, components)
	sort.SliceStable(sorted, func(i, j int) bool {
		return orderOf(sorted[i].Type) < orderOf(sorted[j].Type)
	})
	return sorted
}

// Execute runs the source card's components in priority order. The first
// failure aborts with that reason and no state changes; a pause stops
// iteration but keeps the changes accumulated so far.
func Execute(ctx Context) Result {
	accumulated := []StateChange{}

	for _, component := range sortComponents(ctx.SourceCard.Components) {
		result := evaluate(component, ctx)

		if result.failed {
			return Result{
				Success:      false,
				Reason:       result.reason,
				StateChanges: []StateChange{},
			}
		}

		accumulated = append(accumulated, result.stateChanges...)

		if result.pauseReason != "" {
			return Result{Success: true, StateChanges: accumulated}
		}
	}

	return Result{Success: true, StateChanges: accumulated}
}

// evaluate interprets one component record against the context.
func evaluate(c game.Component, ctx Context) componentResult {
	switch c.Type {
	case game.CreditCost:
		player := ctx.State.FindPlayer(ctx.SourcePlayerID)
		if player == nil {
			return fail("Player not found")
		}
		if player.Credits < c.Amount {
			return fail("Insufficient credits")
		}
		return emit(StateChange{
			Type:     ChangeModifyCredits,
			TargetID: ctx.SourcePlayerID,
			Amount:   -c.Amount,
		})

	case game.ActionCost:
		player := ctx.State.FindPlayer(ctx.SourcePlayerID)
		if player == nil {
			return fail("Player not found")
		}
		if player.Actions < c.Amount {
			return fail("Insufficient actions")
		}
		return emit(StateChange{
			Type:     ChangeModifyActions,
			TargetID: ctx.SourcePlayerID,
			Amount:   -c.Amount,
		})

	case game.GainCredits:
		return emit(StateChange{
			Type:     ChangeModifyCredits,
			TargetID: ctx.SourcePlayerID,
			Amount:   c.Amount,
		})

	case game.DealDamage:
		if len(ctx.Targets) == 0 {
			return fail("No target specified")
		}
		return emit(StateChange{
			Type:       ChangeDealDamage,
			TargetID:   ctx.Targets[0],
			Amount:     c.Amount,
			DamageType: c.DamageType,
		})

	case game.InstallCard:
		return emit(StateChange{
			Type:     ChangeInstallCard,
			TargetID: ctx.SourcePlayerID,
			CardID:   ctx.SourceCard.ID,
		})

	default:
		// Targeting and not-yet-implemented effect components are inert:
		// they succeed with no changes so cards that carry them still run.
		return componentResult{}
	}
}

func fail(reason string) componentResult {
	return componentResult{failed: true, reason: reason, stateChanges: []StateChange{}}
}

func emit(changes ...StateChange) componentResult {
	return componentResult{stateChanges: changes}
}
