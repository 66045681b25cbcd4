package assess

import (
	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
)

// Unranked is the priority of statuses outside the ranking. They never
// count as the weakest link.
const Unranked = 99

var priority = map[graph.Status]int{
	graph.StatusNotAvailable: 0,
	graph.StatusExperimental: 1,
	graph.StatusPartial:      2,
	graph.StatusAvailable:    3,
	graph.StatusFinal:        3,
	graph.StatusRFC:          3,
}

// Priority ranks a status for weakest-link selection. Lower is weaker.
func Priority(s graph.Status) int {
	if p, ok := priority[s]; ok {
		return p
	}
	return Unranked
}

// Selection is one pick per stack category. Empty slots are omitted.
type Selection struct {
	Platform string   `json:"platform,omitempty" yaml:"platform,omitempty"`
	OS       string   `json:"os,omitempty" yaml:"os,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	Services []string `json:"services,omitempty" yaml:"services,omitempty"`
}

// IDs returns the selected entity IDs in category order.
func (s Selection) IDs() []string {
	var ids []string
	for _, id := range append([]string{s.Platform, s.OS, s.Language}, s.Services...) {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Row is the readiness of one selected entity.
type Row struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Layer    int            `json:"layer" yaml:"layer"`
	Status   graph.Status   `json:"status" yaml:"status"`
	Detail   string         `json:"detail" yaml:"detail"`
	Surfaces graph.Surfaces `json:"surfaces,omitempty" yaml:"surfaces,omitempty"`
}

// Assessment is the verdict on a composite stack.
type Assessment struct {
	Entities []*graph.Entity `json:"-" yaml:"-"`
	Rows     []Row           `json:"rows" yaml:"rows"`
	// Weakest is the lowest-ranked entity, or nil when every status is
	// unranked.
	Weakest *Row `json:"weakest,omitempty" yaml:"weakest,omitempty"`
	// Chain holds the selected entities and everything connected to them
	// through depends_on and ships relations, in graph order.
	Chain []string `json:"chain" yaml:"chain"`
	// Unknown lists selected IDs that are not in the graph.
	Unknown []string `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// Verdict is the weakest link's status, or available when nothing ranks.
func (a *Assessment) Verdict() graph.Status {
	if a.Weakest == nil {
		return graph.StatusAvailable
	}
	return a.Weakest.Status
}

// ChainSet returns the stack chain as a membership set.
func (a *Assessment) ChainSet() map[string]bool {
	set := make(map[string]bool, len(a.Chain))
	for _, id := range a.Chain {
		set[id] = true
	}
	return set
}

// Evaluate assesses the entities named by ids.
//
// Entities resolve in the order given; duplicates and unknown IDs are
// dropped. Each entity is rated by its aggregated readiness. The weakest
// link is the entity with the lowest priority; ties go to the one listed
// first in ids, not the one first in graph order. An empty selection, or one
// where no ID resolves, is an input error.
func Evaluate(g *graph.Graph, ids []string) (*Assessment, error) {
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "stack selection is empty")
	}

	a := &Assessment{}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		e, ok := g.Entity(id)
		if !ok {
			a.Unknown = append(a.Unknown, id)
			continue
		}
		a.Entities = append(a.Entities, e)
	}
	if len(a.Entities) == 0 {
		return nil, errors.New(errors.ErrCodeEntityNotFound, "no selected entity exists: %v", a.Unknown)
	}

	weakest := -1
	for i, e := range a.Entities {
		row := Row{
			ID:       e.ID,
			Name:     e.DisplayName(),
			Layer:    e.Layer,
			Status:   overlay.Readiness(e),
			Detail:   overlay.Describe(e),
			Surfaces: e.Surfaces(),
		}
		a.Rows = append(a.Rows, row)
		p := Priority(row.Status)
		if p == Unranked {
			continue
		}
		if weakest < 0 || p < Priority(a.Rows[weakest].Status) {
			weakest = i
		}
	}
	if weakest >= 0 {
		a.Weakest = &a.Rows[weakest]
	}

	a.Chain = StackChain(g, a.Entities)
	return a, nil
}
