package cards

import "endofline-server/internal/game"

func creditCost(amount int) game.Component {
	return game.Component{Type: game.CreditCost, Amount: amount}
}

func actionCost(amount int) game.Component {
	return game.Component{Type: game.ActionCost, Amount: amount}
}

func gainCredits(amount int) game.Component {
	return game.Component{Type: game.GainCredits, Amount: amount}
}

func dealDamage(amount int, damageType game.DamageType) game.Component {
	return game.Component{Type: game.DealDamage, Amount: amount, DamageType: damageType}
}

func installCard() game.Component {
	return game.Component{Type: game.InstallCard}
}

// AnarchDeck is the 12-card Runner starter catalog: viruses, damage, and
// risk/reward economy.
var AnarchDeck = []game.Card{
	{
		ID: "anarch-001", Name: "Sure Gamble", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 5,
		Components: []game.Component{creditCost(5), gainCredits(9)},
	},
	{
		ID: "anarch-002", Name: "Day Job", Type: game.CardOverworld,
		Faction: game.FactionRunner, Cost: 0,
		Components: []game.Component{actionCost(4), gainCredits(10)},
	},
	{
		ID: "anarch-003", Name: "Liberated Account", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 2,
		Components: []game.Component{creditCost(2), gainCredits(4)},
	},
	{
		ID: "anarch-004", Name: "Corroder", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 2,
		Components: []game.Component{creditCost(2), installCard()},
	},
	{
		ID: "anarch-005", Name: "Yog.0", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 0,
		Components: []game.Component{installCard()},
	},
	{
		ID: "anarch-006", Name: "Mimic", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 3,
		Components: []game.Component{creditCost(3), installCard()},
	},
	{
		ID: "anarch-007", Name: "Datasucker", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 1,
		Components: []game.Component{creditCost(1), installCard()},
	},
	{
		ID: "anarch-008", Name: "Imp", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 3,
		Components: []game.Component{creditCost(3), installCard()},
	},
	{
		ID: "anarch-009", Name: "Demolition Run", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 2,
		Components: []game.Component{creditCost(2), actionCost(1), dealDamage(3, game.DamageNet)},
	},
	{
		ID: "anarch-010", Name: "Inject", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 0,
		Components: []game.Component{dealDamage(1, game.DamageBrain), gainCredits(1)},
	},
	{
		ID: "anarch-011", Name: "Stimhack", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 0,
		Components: []game.Component{gainCredits(9), dealDamage(1, game.DamageBrain)},
	},
	{
		ID: "anarch-012", Name: "Amped Up", Type: game.CardScenario,
		Faction: game.FactionRunner, Cost: 2,
		Components: []game.Component{creditCost(2), actionCost(3), dealDamage(1, game.DamageBrain)},
	},
}

// WeylandDeck is the 15-card Corp starter catalog: heavy industry,
// defensive installs, and meat damage.
var WeylandDeck = []game.Card{
	{
		ID: "weyland-001", Name: "Corporate Investment", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 1,
		Components: []game.Component{actionCost(1), gainCredits(4)},
	},
	{
		ID: "weyland-002", Name: "Mineral Rights", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 2,
		Components: []game.Component{creditCost(2), actionCost(1), gainCredits(6)},
	},
	{
		ID: "weyland-003", Name: "Government Contract", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 0,
		Components: []game.Component{actionCost(2), gainCredits(8)},
	},
	{
		ID: "weyland-004", Name: "Hostile Takeover", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 3,
		Components: []game.Component{creditCost(3), actionCost(1), gainCredits(7), dealDamage(1, game.DamageMeat)},
	},
	{
		ID: "weyland-005", Name: "Priority Construction", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 0,
		Components: []game.Component{actionCost(1), installCard()},
	},
	{
		ID: "weyland-006", Name: "Wall of Steel", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 5,
		Components: []game.Component{creditCost(5), actionCost(1), installCard()},
	},
	{
		ID: "weyland-007", Name: "Hadrian's Wall", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 8,
		Components: []game.Component{creditCost(8), actionCost(2), installCard()},
	},
	{
		ID: "weyland-008", Name: "Ice Wall", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 3,
		Components: []game.Component{creditCost(3), actionCost(1), installCard()},
	},
	{
		ID: "weyland-009", Name: "Scorched Earth", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 5,
		Components: []game.Component{creditCost(5), actionCost(1), dealDamage(4, game.DamageMeat)},
	},
	{
		ID: "weyland-010", Name: "Armed Response", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 3,
		Components: []game.Component{creditCost(3), actionCost(1), dealDamage(2, game.DamageMeat)},
	},
	{
		ID: "weyland-011", Name: "Security Breach Response", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 2,
		Components: []game.Component{creditCost(2), actionCost(1), dealDamage(1, game.DamageMeat), gainCredits(3)},
	},
	{
		ID: "weyland-012", Name: "Intimidation Tactics", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 4,
		Components: []game.Component{creditCost(4), actionCost(1), dealDamage(3, game.DamageMeat)},
	},
	{
		ID: "weyland-013", Name: "Tollbooth Barrier", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 4,
		Components: []game.Component{creditCost(4), actionCost(1), installCard(), gainCredits(2)},
	},
	{
		ID: "weyland-014", Name: "Corporate War Chest", Type: game.CardOverworld,
		Faction: game.FactionCorp, Cost: 5,
		Components: []game.Component{creditCost(5), actionCost(2), gainCredits(12)},
	},
	{
		ID: "weyland-015", Name: "Heavy Artillery", Type: game.CardScenario,
		Faction: game.FactionCorp, Cost: 6,
		Components: []game.Component{creditCost(6), actionCost(2), dealDamage(5, game.DamageMeat)},
	},
}

var catalog = buildCatalog()

func buildCatalog() map[string]game.Card {
	m := make(map[string]game.Card, len(AnarchDeck)+len(WeylandDeck))
	for _, c := range AnarchDeck {
		m[c.ID] = c
	}
	for _, c := range WeylandDeck {
		m[c.ID] = c
	}
	return m
}

// ByID looks a card up across both starter catalogs.
func ByID(id string) (game.Card, bool) {
	c, ok := catalog[id]
	return c, ok
}
