package salience

import (
	"fmt"

	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
)

// Tier is a node salience level. Higher values are more prominent.
type Tier int

const (
	Suppressed Tier = iota // hidden by an active overlay
	Minimal                // beyond the revealed depth
	Low                    // baseline for everything else
	Anchor                 // layer-0 entry points while idle
	Neutral                // validation-agnostic under the baseline overlay
	Neighbor               // connected to some chain entry
	Frontier               // connected to the tail within the next layer
	Full                   // in-stack or on the baseline
	Chain                  // explored
)

var tierNames = [...]string{
	Suppressed: "suppressed",
	Minimal:    "minimal",
	Low:        "low",
	Anchor:     "anchor",
	Neutral:    "neutral",
	Neighbor:   "neighbor",
	Frontier:   "frontier",
	Full:       "full",
	Chain:      "chain",
}

func (t Tier) String() string {
	if t >= 0 && int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(text []byte) error {
	for i, name := range tierNames {
		if name == string(text) {
			*t = Tier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", text)
}

// EdgeTier is an edge emphasis level. Higher values are more prominent.
type EdgeTier int

const (
	Faint        EdgeTier = iota // near-zero opacity
	EdgeNeighbor                 // chain entry to one of its neighbors
	EdgeFrontier                 // tail to a frontier candidate
	Primary                      // inside the chain, the stack or the baseline
)

var edgeTierNames = [...]string{
	Faint:        "faint",
	EdgeNeighbor: "neighbor",
	EdgeFrontier: "frontier",
	Primary:      "primary",
}

func (t EdgeTier) String() string {
	if t >= 0 && int(t) < len(edgeTierNames) {
		return edgeTierNames[t]
	}
	return "unknown"
}

// MarshalText encodes the edge tier by name.
func (t EdgeTier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText decodes an edge tier name.
func (t *EdgeTier) UnmarshalText(text []byte) error {
	for i, name := range edgeTierNames {
		if name == string(text) {
			*t = EdgeTier(i)
			return nil
		}
	}
	return fmt.Errorf("unknown edge tier %q", text)
}

// Context is everything salience depends on. Baseline is nil unless the
// baseline overlay is active; Stack is nil or empty unless a stack
// assessment is active.
type Context struct {
	Graph    *graph.Graph
	State    explore.State
	Baseline *overlay.Result
	Stack    map[string]bool
}

// Resolver assigns tiers for one Context. Build it with New; it
// precomputes the chain's neighborhoods once.
type Resolver struct {
	ctx       Context
	chain     map[string]bool
	neighbors map[string]bool // neighbors of any chain entry
	frontier  map[string]bool // tail neighbors in the revealed-depth layer
}

// New prepares a resolver for ctx.
func New(ctx Context) *Resolver {
	r := &Resolver{
		ctx:       ctx,
		chain:     make(map[string]bool),
		neighbors: make(map[string]bool),
		frontier:  make(map[string]bool),
	}
	for _, e := range ctx.State.Chain {
		r.chain[e.ID] = true
	}
	if ctx.Graph == nil {
		return r
	}
	for _, e := range ctx.State.Chain {
		for _, n := range ctx.Graph.Neighbors(e.ID) {
			r.neighbors[n] = true
		}
	}
	if tail := ctx.State.Tail(); tail != nil {
		for _, n := range ctx.Graph.NeighborsInLayer(tail.ID, ctx.State.RevealedDepth) {
			r.frontier[n] = true
		}
	}
	return r
}

func (r *Resolver) stackActive() bool { return len(r.ctx.Stack) > 0 }

// Node returns the tier of an entity. Rules apply in strict precedence:
// an active stack overlay decides alone, then an active baseline overlay,
// then the exploration state.
func (r *Resolver) Node(e *graph.Entity) Tier {
	if r.stackActive() {
		if r.ctx.Stack[e.ID] {
			return Full
		}
		return Suppressed
	}
	if b := r.ctx.Baseline; b != nil {
		switch {
		case b.IsNeutral(e.ID):
			return Neutral
		case b.IsReachable(e.ID):
			return Full
		}
		return Suppressed
	}

	s := r.ctx.State
	switch {
	case e.Layer > s.RevealedDepth:
		return Minimal
	case r.chain[e.ID]:
		return Chain
	case r.frontier[e.ID]:
		return Frontier
	case r.neighbors[e.ID]:
		return Neighbor
	case e.Layer == 0 && s.IsIdle():
		return Anchor
	}
	return Low
}

// Edge returns the tier of a relation. An edge is emphasized only when both
// endpoints were promoted by the same rule, so an edge to a neighbor beyond
// the revealed depth stays faint.
//
// Under the baseline overlay an edge is primary when both endpoints are
// reachable.
func (r *Resolver) Edge(rel graph.Relation) EdgeTier {
	if r.stackActive() {
		if r.ctx.Stack[rel.From] && r.ctx.Stack[rel.To] {
			return Primary
		}
		return Faint
	}
	if b := r.ctx.Baseline; b != nil {
		if b.IsReachable(rel.From) && b.IsReachable(rel.To) {
			return Primary
		}
		return Faint
	}

	from, to := r.chain[rel.From], r.chain[rel.To]
	switch {
	case from && to:
		return Primary
	case r.touchesTail(rel) && r.tier(rel.Other(r.ctx.State.Tail().ID)) == Frontier:
		return EdgeFrontier
	case from && r.isNeighborTier(rel.To), to && r.isNeighborTier(rel.From):
		return EdgeNeighbor
	}
	return Faint
}

func (r *Resolver) touchesTail(rel graph.Relation) bool {
	tail := r.ctx.State.Tail()
	return tail != nil && rel.Touches(tail.ID)
}

// tier is the node tier of id, Minimal for ids missing from the graph.
func (r *Resolver) tier(id string) Tier {
	if r.ctx.Graph == nil {
		return Minimal
	}
	e, ok := r.ctx.Graph.Entity(id)
	if !ok {
		return Minimal
	}
	return r.Node(e)
}

// isNeighborTier reports whether id is drawn as a neighbor of the chain.
// Frontier candidates are neighbors of the tail and count too.
func (r *Resolver) isNeighborTier(id string) bool {
	t := r.tier(id)
	return t == Neighbor || t == Frontier
}

// Resolution is the tier of every entity and relation in a graph.
type Resolution struct {
	Nodes map[string]Tier     `json:"nodes"`
	Edges map[string]EdgeTier `json:"edges"`
}

// Resolve computes tiers for the whole graph.
func Resolve(ctx Context) Resolution {
	r := New(ctx)
	res := Resolution{
		Nodes: make(map[string]Tier, ctx.Graph.EntityCount()),
		Edges: make(map[string]EdgeTier, ctx.Graph.RelationCount()),
	}
	for _, e := range ctx.Graph.Entities() {
		res.Nodes[e.ID] = r.Node(e)
	}
	for _, rel := range ctx.Graph.Relations() {
		res.Edges[rel.ID] = r.Edge(rel)
	}
	return res
}
