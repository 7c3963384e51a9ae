package contracts

// Archetype is one of the five investor profiles evaluated by independent
// rule sets.
type Archetype string

const (
	ArchetypeValue    Archetype = "value"
	ArchetypeGrowth   Archetype = "growth"
	ArchetypeMomentum Archetype = "momentum"
	ArchetypeQuality  Archetype = "quality"
	ArchetypeDividend Archetype = "dividend"
)

// Archetypes lists all profiles in evaluation order.
var Archetypes = []Archetype{
	ArchetypeValue,
	ArchetypeGrowth,
	ArchetypeMomentum,
	ArchetypeQuality,
	ArchetypeDividend,
}

// SuitabilityResult is the outcome of evaluating one archetype's rule set
// against a symbol's technical and fundamental snapshots. CanEnter is true
// only when every named condition holds: the gate is an AND of all
// conditions, not a threshold count. Results are recomputed on every call
// and never persisted by this subsystem.
type SuitabilityResult struct {
	Archetype        Archetype       `json:"archetype"`
	CanEnter         bool            `json:"can_enter"`
	Conditions       map[string]bool `json:"conditions"`
	Met              int             `json:"met"`
	Total            int             `json:"total"`
	FailedConditions []string        `json:"failed_conditions"`

	// Internal sub-scores behind composite conditions, e.g. momentumScore.
	Scores map[string]int `json:"scores,omitempty"`
}
