package game

// Corp controls a territory at 60+ influence; the Runner at 40 or below.
const (
	CorpControlThreshold   = 60
	RunnerControlThreshold = 40
)

// Clamp bounds value to [min, max].
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// TerritoryChanges is a partial update to a territory's bounded fields.
// Nil fields are left untouched.
type TerritoryChanges struct {
	SecurityLevel      *int
	ResourceValue      *int
	StabilityIndex     *int
	CorporateInfluence *int
}

// ModifyTerritory returns a copy of t with changes applied. Every bounded
// field is clamped to its range, whatever the caller feeds in.
func ModifyTerritory(t Territory, changes TerritoryChanges) Territory {
	if changes.SecurityLevel != nil {
		t.SecurityLevel = Clamp(*changes.SecurityLevel, 1, 5)
	}
	if changes.ResourceValue != nil {
		t.ResourceValue = Clamp(*changes.ResourceValue, 1, 5)
	}
	if changes.StabilityIndex != nil {
		t.StabilityIndex = Clamp(*changes.StabilityIndex, 0, 100)
	}
	if changes.CorporateInfluence != nil {
		t.CorporateInfluence = Clamp(*changes.CorporateInfluence, 0, 100)
	}
	return t
}

// IsCorpControlled reports whether the Corp controls the territory.
func IsCorpControlled(t Territory) bool {
	return t.CorporateInfluence >= CorpControlThreshold
}

// IsRunnerControlled reports whether the Runner controls the territory.
func IsRunnerControlled(t Territory) bool {
	return t.CorporateInfluence <= RunnerControlThreshold
}
