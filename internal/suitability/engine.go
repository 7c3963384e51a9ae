package suitability

import (
	"sort"

	"github.com/stockpilot/quant/internal/contracts"
	"github.com/stockpilot/quant/pkg/logger"
)

// Engine evaluates an instrument's technical and fundamental snapshots
// against the five archetype rule sets. It is stateless and safe for
// concurrent use; every call takes all inputs as arguments and mutates
// nothing.
type Engine struct {
	cfg    *Thresholds
	logger *logger.Logger
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(cfg *Thresholds, log *logger.Logger) *Engine {
	if cfg == nil {
		cfg = Defaults()
	}
	return &Engine{cfg: cfg, logger: log}
}

// EvaluateAll returns one result per archetype, in contracts.Archetypes
// order.
func (e *Engine) EvaluateAll(snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) []*contracts.SuitabilityResult {
	results := make([]*contracts.SuitabilityResult, 0, len(contracts.Archetypes))
	for _, a := range contracts.Archetypes {
		results = append(results, e.Evaluate(a, snap, fund))
	}
	return results
}

// Evaluate runs one archetype's rule set. CanEnter requires every condition
// to hold.
func (e *Engine) Evaluate(archetype contracts.Archetype, snap *contracts.IndicatorSnapshot, fund *contracts.FundamentalSnapshot) *contracts.SuitabilityResult {
	if fund == nil {
		// Missing fundamentals fail their conditions field by field rather
		// than erroring the whole evaluation.
		fund = &contracts.FundamentalSnapshot{}
	}

	var res *contracts.SuitabilityResult

	switch archetype {
	case contracts.ArchetypeValue:
		res = e.evaluateValue(snap, fund)
	case contracts.ArchetypeGrowth:
		res = e.evaluateGrowth(snap, fund)
	case contracts.ArchetypeMomentum:
		res = e.evaluateMomentum(snap, fund)
	case contracts.ArchetypeQuality:
		res = e.evaluateQuality(snap, fund)
	case contracts.ArchetypeDividend:
		res = e.evaluateDividend(snap, fund)
	default:
		res = &contracts.SuitabilityResult{Archetype: archetype, Conditions: map[string]bool{}}
	}

	e.logger.WithFields(map[string]interface{}{
		"symbol":    snap.Symbol,
		"archetype": archetype,
		"can_enter": res.CanEnter,
		"met":       res.Met,
		"total":     res.Total,
	}).Debug("Evaluated suitability")

	return res
}

// finalize derives CanEnter, the met/total counts and the sorted failure
// list from a condition map.
func finalize(archetype contracts.Archetype, conditions map[string]bool, scores map[string]int) *contracts.SuitabilityResult {
	res := &contracts.SuitabilityResult{
		Archetype:  archetype,
		Conditions: conditions,
		Total:      len(conditions),
		CanEnter:   true,
		Scores:     scores,
	}

	for name, ok := range conditions {
		if ok {
			res.Met++
			continue
		}
		res.CanEnter = false
		res.FailedConditions = append(res.FailedConditions, name)
	}
	sort.Strings(res.FailedConditions)

	return res
}

// Null handling: a nil fundamental field fails its condition. The only
// exception is the forward-PE plausibility guard, which auto-passes when the
// value is missing or outside (0, 100).

func geq(p *float64, min float64) bool {
	return p != nil && *p >= min
}

func gt(p *float64, min float64) bool {
	return p != nil && *p > min
}

func lt(p *float64, max float64) bool {
	return p != nil && *p < max
}

// inOpen reports p in the open interval (lo, hi).
func inOpen(p *float64, lo, hi float64) bool {
	return p != nil && *p > lo && *p < hi
}

// forwardPEUnder enforces forwardPE < max only when the reported value is
// plausible, i.e. inside (0, 100). Missing or implausible values auto-pass:
// the provider emits garbage forward estimates for many small caps and a
// hard fail here would empty the screen.
func forwardPEUnder(forwardPE *float64, max float64) bool {
	if forwardPE == nil || *forwardPE <= 0 || *forwardPE >= 100 {
		return true
	}
	return *forwardPE < max
}

func countTrue(checks ...bool) int {
	n := 0
	for _, c := range checks {
		if c {
			n++
		}
	}
	return n
}

// volumeRatio returns volume relative to the 20-day average, 0 when the
// average is unknown.
func volumeRatio(snap *contracts.IndicatorSnapshot) float64 {
	if snap.AvgVolume20 <= 0 {
		return 0
	}
	return float64(snap.Volume) / snap.AvgVolume20
}
