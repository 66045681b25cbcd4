package explore

import "github.com/matzehuels/pqcgraph/pkg/graph"

// Application is an example application built on a runtime entity.
type Application struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Category    string `json:"category,omitempty" bson:"category,omitempty"`
}

// Applications maps a runtime entity ID to its example applications.
type Applications map[string][]Application

// Expansion is the derived view of a runtime entity's example applications.
type Expansion struct {
	Runtime      *graph.Entity
	Applications []Application
}

// ExpandedApplications projects the applications of the selected entity.
// Only runtime-kind entities expand, and only when the applications dataset
// has entries for them; otherwise it returns nil. A nil apps map (the
// optional dataset failed to load) never expands anything.
func ExpandedApplications(s State, apps Applications) *Expansion {
	sel := s.Selected
	if sel == nil || !sel.Kind.IsRuntime() {
		return nil
	}
	list := apps[sel.ID]
	if len(list) == 0 {
		return nil
	}
	return &Expansion{Runtime: sel, Applications: list}
}
