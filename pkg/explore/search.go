package explore

import (
	"strings"

	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// MaxSearchResults caps the number of entities Search returns.
const MaxSearchResults = 8

// Search returns up to MaxSearchResults entities whose name or ID contains
// the query, case-insensitively, in graph order. A blank query matches
// nothing.
func Search(g *graph.Graph, query string) []*graph.Entity {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []*graph.Entity
	for _, e := range g.Entities() {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.ID), q) {
			out = append(out, e)
			if len(out) == MaxSearchResults {
				break
			}
		}
	}
	return out
}

// Filter selects entities for listing. A nil Layer or empty Status matches
// everything.
type Filter struct {
	Layer  *int
	Status graph.Status
}

// Match reports whether e passes the filter.
func (f Filter) Match(e *graph.Entity) bool {
	if f.Layer != nil && e.Layer != *f.Layer {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

// Apply returns the entities of g that pass the filter, in graph order.
func (f Filter) Apply(g *graph.Graph) []*graph.Entity {
	var out []*graph.Entity
	for _, e := range g.Entities() {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
