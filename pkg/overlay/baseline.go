package overlay

import (
	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// Mode selects which FIPS baseline the overlay traces.
type Mode string

const (
	// ModePQC requires a validated module whose boundary includes
	// post-quantum algorithms.
	ModePQC Mode = "pqc"
	// ModeClassical requires a validated module only.
	ModeClassical Mode = "classical"
)

// Modes lists the supported baseline modes.
var Modes = []Mode{ModePQC, ModeClassical}

// ParseMode validates a mode name. The empty string selects ModePQC.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModePQC:
		return ModePQC, nil
	case ModeClassical:
		return ModeClassical, nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "unknown baseline mode %q (want pqc or classical)", s)
}

// Label returns a human-readable name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModePQC:
		return "FIPS 140-3 with PQC"
	case ModeClassical:
		return "FIPS 140-3"
	}
	return string(m)
}

// Satisfies reports whether an entity's own metadata meets the mode's
// baseline, without looking at its relations.
func (m Mode) Satisfies(e *graph.Entity) bool {
	f := e.FIPS()
	if !f.Validated() {
		return false
	}
	switch m {
	case ModePQC:
		return f.IncludesPQC
	case ModeClassical:
		return true
	}
	return false
}

// NeutralMaxLayer is the highest layer whose entities are neutral:
// specifications and protocols carry no validation of their own.
const NeutralMaxLayer = 1

// Result is the outcome of a baseline propagation. Its sets are only
// meaningful for membership tests.
type Result struct {
	Mode      Mode
	Seeds     []string        // entities validated in their own right, in graph order
	Reachable map[string]bool // seeds plus everything that inherits the baseline
	Neutral   map[string]bool // entities at layers 0 and 1

	// Passes counts the propagation passes that added at least one entity.
	// The final pass that confirms the fixpoint is not counted.
	Passes int
	// Growth records the size of Reachable before the first pass and after
	// each counted pass.
	Growth []int
}

// IsReachable reports whether id carries the baseline.
func (r *Result) IsReachable(id string) bool { return r != nil && r.Reachable[id] }

// IsNeutral reports whether id is in the neutral set.
func (r *Result) IsNeutral(id string) bool { return r != nil && r.Neutral[id] }

// Baseline traces which entities sit on a validated security baseline.
//
// Every entity whose own FIPS record satisfies the mode seeds the reachable
// set. The baseline then flows backward along depends_on and ships
// relations: when the target of such a relation is reachable, so is its
// source. Full passes over the relations repeat until one adds nothing.
// Each counted pass adds at least one entity, so there are at most |V| of
// them, cycles included.
//
// Layer 0 and 1 entities may seed and join the reachable set, but they are
// also neutral, and neutral takes precedence when styling.
func Baseline(g *graph.Graph, mode Mode) *Result {
	res := &Result{
		Mode:      mode,
		Reachable: make(map[string]bool),
		Neutral:   make(map[string]bool),
	}

	for _, e := range g.Entities() {
		if e.HasLayer() && e.Layer <= NeutralMaxLayer {
			res.Neutral[e.ID] = true
		}
		if mode.Satisfies(e) {
			res.Seeds = append(res.Seeds, e.ID)
			res.Reachable[e.ID] = true
		}
	}
	res.Growth = append(res.Growth, len(res.Reachable))

	relations := g.Relations()
	for {
		changed := false
		for _, r := range relations {
			if !r.Type.Propagates() {
				continue
			}
			if res.Reachable[r.To] && !res.Reachable[r.From] {
				res.Reachable[r.From] = true
				changed = true
			}
		}
		if !changed {
			break
		}
		res.Passes++
		res.Growth = append(res.Growth, len(res.Reachable))
	}
	return res
}
