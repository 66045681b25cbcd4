package explore

import (
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
)

// Link is a relation seen from one of its endpoints.
type Link struct {
	RelationID string             `json:"relation_id"`
	Type       graph.RelationType `json:"type"`
	EntityID   string             `json:"entity_id"`
	EntityName string             `json:"entity_name"`
	Layer      int                `json:"layer"`
	Status     graph.Status       `json:"status,omitempty"`
	Approach   graph.Approach     `json:"approach,omitempty"`
}

// Details is the side-panel view of one entity.
type Details struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        graph.Kind     `json:"type"`
	KindLabel   string         `json:"type_label"`
	Layer       int            `json:"layer"`
	LayerLabel  string         `json:"layer_label"`
	Readiness   graph.Status   `json:"readiness"`
	Description string         `json:"readiness_text"`
	Version     string         `json:"version,omitempty"`
	Summary     string         `json:"description,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	FIPS        *graph.FIPS    `json:"fips,omitempty"`
	Surfaces    graph.Surfaces `json:"pqc_surfaces,omitempty"`
	Drafts      []graph.Draft  `json:"ietf_drafts,omitempty"`
	Sources     []graph.Source `json:"sources,omitempty"`
	Outgoing    []Link         `json:"outgoing"`
	Incoming    []Link         `json:"incoming"`
}

// EntityDetails collects what the detail panel shows for e: its readiness,
// metadata and both relation directions with the names of the other ends.
func EntityDetails(g *graph.Graph, e *graph.Entity) Details {
	d := Details{
		ID:          e.ID,
		Name:        e.DisplayName(),
		Kind:        e.Kind,
		KindLabel:   e.Kind.Label(),
		Layer:       e.Layer,
		LayerLabel:  LayerLabel(e.Layer),
		Readiness:   overlay.Readiness(e),
		Description: overlay.Describe(e),
		Version:     e.Version,
		Outgoing:    links(g, g.Outgoing(e.ID), e.ID),
		Incoming:    links(g, g.Incoming(e.ID), e.ID),
	}
	if m := e.Metadata; m != nil {
		d.Summary = m.Description
		d.Notes = m.Notes
		d.FIPS = m.FIPS
		d.Surfaces = m.Surfaces
		d.Drafts = m.IETFDrafts
		d.Sources = m.Sources
		if d.Version == "" {
			d.Version = m.Version
		}
	}
	return d
}

func links(g *graph.Graph, rels []graph.Relation, self string) []Link {
	out := make([]Link, 0, len(rels))
	for _, r := range rels {
		other := r.Other(self)
		l := Link{
			RelationID: r.ID,
			Type:       r.Type,
			EntityID:   other,
			EntityName: other,
			Layer:      graph.NoLayer,
			Status:     r.Status,
			Approach:   r.Approach,
		}
		if e, ok := g.Entity(other); ok {
			l.EntityName = e.DisplayName()
			l.Layer = e.Layer
		}
		out = append(out, l)
	}
	return out
}
