package explore

import (
	"slices"

	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// MaxDepth bounds both the revealed depth and the chain length: one entry
// per layer at most.
const MaxDepth = graph.MaxLayer + 1

// State is an immutable snapshot of a drill-down session.
//
// Chain holds the explicitly explored entities with strictly increasing
// layers. RevealedDepth is the number of layers unlocked for full salience:
// layers with an index greater than RevealedDepth are never shown in full.
// Selected is the chain's tail, or nil when the chain is empty.
//
// Every transition returns a new State and leaves the receiver untouched,
// so a State may be shared across goroutines and kept for undo.
type State struct {
	Chain         []*graph.Entity
	RevealedDepth int
	Selected      *graph.Entity
}

// Idle returns the initial state: empty chain, nothing revealed.
func Idle() State { return State{} }

// IsIdle reports whether nothing is being explored.
func (s State) IsIdle() bool { return len(s.Chain) == 0 }

// Tail returns the last chain entry, or nil.
func (s State) Tail() *graph.Entity {
	if len(s.Chain) == 0 {
		return nil
	}
	return s.Chain[len(s.Chain)-1]
}

// InChain reports whether the entity with the given ID is in the chain.
func (s State) InChain(id string) bool {
	return slices.ContainsFunc(s.Chain, func(e *graph.Entity) bool { return e.ID == id })
}

// ChainIDs returns the IDs of the chain entries in order.
func (s State) ChainIDs() []string {
	ids := make([]string, len(s.Chain))
	for i, e := range s.Chain {
		ids[i] = e.ID
	}
	return ids
}

// EntryAt returns the chain entry sitting at the given layer, or nil.
func (s State) EntryAt(layer int) *graph.Entity {
	for _, e := range s.Chain {
		if e.Layer == layer {
			return e
		}
	}
	return nil
}

// Explore advances, redirects or collapses the drill-down.
//
// Exploring the current tail again collapses it: the tail is popped and the
// revealed depth drops back to one past the new tail's layer. Any other
// entity replaces everything at or beyond its own layer, is appended, and
// reveals one layer past itself. Intervening layers are not filled in: from
// an idle state, exploring a layer-2 entity yields a one-entry chain with
// revealed depth 3.
func (s State) Explore(node *graph.Entity) State {
	if node == nil {
		return s
	}
	if tail := s.Tail(); tail != nil && tail.ID == node.ID {
		chain := slices.Clone(s.Chain[:len(s.Chain)-1])
		next := State{Chain: chain}
		if t := next.Tail(); t != nil {
			next.RevealedDepth = clampDepth(t.Layer + 1)
			next.Selected = t
		}
		return next
	}

	chain := s.prefixBelow(node.Layer, MaxDepth-1)
	chain = append(chain, node)
	return State{
		Chain:         chain,
		RevealedDepth: clampDepth(node.Layer + 1),
		Selected:      node,
	}
}

// GoBack pops the tail and hides one layer. It is a no-op on an idle state.
func (s State) GoBack() State {
	if len(s.Chain) == 0 {
		return s
	}
	next := State{
		Chain:         slices.Clone(s.Chain[:len(s.Chain)-1]),
		RevealedDepth: clampDepth(s.RevealedDepth - 1),
	}
	next.Selected = next.Tail()
	return next
}

// Reset returns to the idle state.
func (s State) Reset() State { return Idle() }

// JumpToBreadcrumb rewinds to a breadcrumb position: the chain is truncated
// to its first layer entries and exactly that many layers stay revealed.
func (s State) JumpToBreadcrumb(layer int) State {
	n := min(max(layer, 0), len(s.Chain))
	next := State{
		Chain:         slices.Clone(s.Chain[:n]),
		RevealedDepth: clampDepth(layer),
	}
	next.Selected = next.Tail()
	return next
}

// JumpFromSearch discards the current chain and starts a fresh one at node.
func (s State) JumpFromSearch(node *graph.Entity) State {
	if node == nil {
		return s
	}
	return State{
		Chain:         []*graph.Entity{node},
		RevealedDepth: clampDepth(node.Layer + 1),
		Selected:      node,
	}
}

// prefixBelow copies the leading chain entries whose layer is below layer,
// keeping at most limit of them.
func (s State) prefixBelow(layer, limit int) []*graph.Entity {
	var out []*graph.Entity
	for _, e := range s.Chain {
		if e.Layer >= layer || len(out) >= limit {
			break
		}
		out = append(out, e)
	}
	return out
}

func clampDepth(d int) int {
	return min(max(d, 0), MaxDepth)
}
