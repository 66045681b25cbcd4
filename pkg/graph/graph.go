package graph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidEntityID is returned by [Graph.AddEntity] when the entity ID
	// is empty. All entities must have non-empty identifiers.
	ErrInvalidEntityID = errors.New("entity ID must not be empty")

	// ErrDuplicateEntityID is returned by [Graph.AddEntity] when an entity
	// with the same ID already exists in the graph.
	ErrDuplicateEntityID = errors.New("duplicate entity ID")

	// ErrUnknownSource is returned by [Graph.AddRelation] when the From
	// entity does not exist.
	ErrUnknownSource = errors.New("unknown source entity")

	// ErrUnknownTarget is returned by [Graph.AddRelation] when the To entity
	// does not exist.
	ErrUnknownTarget = errors.New("unknown target entity")

	// ErrUnknownEntity is returned by lookups that require an existing entity.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Graph is the in-memory readiness graph: typed entities arranged in layers
// and the typed relations between them.
//
// Unlike a dependency DAG, relations may connect any two layers and cycles
// are allowed; the only structural rule is that both endpoints of every
// relation exist. Entities are kept in insertion order, which is the order
// the dataset listed them in and the order radial placement uses within a
// layer.
//
// The zero value is not usable - use New or Build. A Graph is not safe for
// concurrent mutation, but once built it is only read and may be shared
// freely across goroutines.
type Graph struct {
	entities    map[string]*Entity
	order       []*Entity
	relations   []Relation
	outgoing    map[string][]int // entity ID -> indexes into relations
	incoming    map[string][]int // entity ID -> indexes into relations
	layers      map[int][]*Entity
	lastUpdated string
}

// New creates an empty graph stamped with the dataset's last-updated date.
func New(lastUpdated string) *Graph {
	return &Graph{
		entities:    make(map[string]*Entity),
		outgoing:    make(map[string][]int),
		incoming:    make(map[string][]int),
		layers:      make(map[int][]*Entity),
		lastUpdated: lastUpdated,
	}
}

// LastUpdated returns the dataset date stamp the graph was built from.
func (g *Graph) LastUpdated() string { return g.lastUpdated }

// AddEntity adds an entity and indexes it by layer.
// Returns ErrInvalidEntityID if the ID is empty, or ErrDuplicateEntityID if
// an entity with the same ID already exists.
func (g *Graph) AddEntity(e Entity) error {
	if e.ID == "" {
		return ErrInvalidEntityID
	}
	if _, exists := g.entities[e.ID]; exists {
		return ErrDuplicateEntityID
	}
	ent := &e
	g.entities[ent.ID] = ent
	g.order = append(g.order, ent)
	g.layers[ent.Layer] = append(g.layers[ent.Layer], ent)
	return nil
}

// AddRelation adds a relation between two existing entities.
// Returns ErrUnknownSource or ErrUnknownTarget when an endpoint is missing.
// Parallel relations between the same pair are allowed.
func (g *Graph) AddRelation(r Relation) error {
	if _, ok := g.entities[r.From]; !ok {
		return ErrUnknownSource
	}
	if _, ok := g.entities[r.To]; !ok {
		return ErrUnknownTarget
	}
	idx := len(g.relations)
	g.relations = append(g.relations, r)
	g.outgoing[r.From] = append(g.outgoing[r.From], idx)
	g.incoming[r.To] = append(g.incoming[r.To], idx)
	return nil
}

// Entity returns the entity with the given ID.
func (g *Graph) Entity(id string) (*Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// Has reports whether an entity with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.entities[id]
	return ok
}

// Entities returns all entities in insertion order.
// The returned slice is a copy; the entities are shared.
func (g *Graph) Entities() []*Entity {
	return slices.Clone(g.order)
}

// Relations returns all relations in insertion order.
// The returned slice is a copy.
func (g *Graph) Relations() []Relation {
	return slices.Clone(g.relations)
}

// EntityCount returns the number of entities.
func (g *Graph) EntityCount() int { return len(g.order) }

// RelationCount returns the number of relations.
func (g *Graph) RelationCount() int { return len(g.relations) }

// Outgoing returns the relations whose source is id, in insertion order.
func (g *Graph) Outgoing(id string) []Relation {
	return g.pick(g.outgoing[id])
}

// Incoming returns the relations whose target is id, in insertion order.
func (g *Graph) Incoming(id string) []Relation {
	return g.pick(g.incoming[id])
}

// RelationsOf returns every relation touching id, in insertion order.
func (g *Graph) RelationsOf(id string) []Relation {
	idx := append(slices.Clone(g.outgoing[id]), g.incoming[id]...)
	slices.Sort(idx)
	return g.pick(slices.Compact(idx))
}

func (g *Graph) pick(idx []int) []Relation {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Relation, len(idx))
	for i, j := range idx {
		out[i] = g.relations[j]
	}
	return out
}

// Neighbors returns the IDs of entities connected to id by a relation in
// either direction, each listed once, in relation order.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	for _, r := range g.RelationsOf(id) {
		other := r.Other(id)
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// NeighborsInLayer returns the neighbors of id that sit in the given layer.
func (g *Graph) NeighborsInLayer(id string, layer int) []string {
	var out []string
	for _, n := range g.Neighbors(id) {
		if g.entities[n].Layer == layer {
			out = append(out, n)
		}
	}
	return out
}

// Adjacent reports whether a relation connects a and b in either direction.
func (g *Graph) Adjacent(a, b string) bool {
	for _, i := range g.outgoing[a] {
		if g.relations[i].To == b {
			return true
		}
	}
	for _, i := range g.incoming[a] {
		if g.relations[i].From == b {
			return true
		}
	}
	return false
}

// EntitiesInLayer returns the entities of a layer in insertion order.
func (g *Graph) EntitiesInLayer(layer int) []*Entity {
	return slices.Clone(g.layers[layer])
}

// Layers returns the populated layer indexes in ascending order. Entities
// without a layer are reported under NoLayer.
func (g *Graph) Layers() []int {
	return slices.Sorted(maps.Keys(g.layers))
}
