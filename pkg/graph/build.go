package graph

import "fmt"

// BuildStats summarizes what Build kept and dropped.
type BuildStats struct {
	Entities  int // entities in the graph
	Relations int // relations materialized
	Dangling  int // relations dropped because an endpoint is missing
	Invalid   int // entity records dropped for lacking an ID
}

// Build assembles a graph from decoded dataset records.
//
// Entities keep the order they are given in. A later record with an ID that
// was already seen replaces the earlier one in place. Relations whose
// endpoints are not both present are silently dropped; the survivors are
// numbered "edge-0", "edge-1", ... in their filtered order.
//
// Build never fails: every malformed record is skipped and counted in the
// returned stats.
func Build(lastUpdated string, entities []Entity, relations []Relation) (*Graph, BuildStats) {
	g := New(lastUpdated)
	var stats BuildStats

	for _, e := range entities {
		switch err := g.AddEntity(e); err {
		case nil:
		case ErrDuplicateEntityID:
			g.replace(e)
		default:
			stats.Invalid++
		}
	}

	for _, r := range relations {
		r.ID = fmt.Sprintf("edge-%d", len(g.relations))
		if err := g.AddRelation(r); err != nil {
			stats.Dangling++
		}
	}

	stats.Entities = len(g.order)
	stats.Relations = len(g.relations)
	return g, stats
}

// replace swaps the stored entity for e, keeping its insertion position.
func (g *Graph) replace(e Entity) {
	old := g.entities[e.ID]
	oldLayer := old.Layer
	*old = e
	if oldLayer == e.Layer {
		return
	}
	layer := g.layers[oldLayer][:0]
	for _, x := range g.layers[oldLayer] {
		if x != old {
			layer = append(layer, x)
		}
	}
	if len(layer) == 0 {
		delete(g.layers, oldLayer)
	} else {
		g.layers[oldLayer] = layer
	}
	g.layers[e.Layer] = g.insertOrdered(g.layers[e.Layer], old)
}

// insertOrdered inserts ent into a layer list so the list stays in the
// graph's insertion order.
func (g *Graph) insertOrdered(list []*Entity, ent *Entity) []*Entity {
	pos := make(map[*Entity]int, len(g.order))
	for i, x := range g.order {
		pos[x] = i
	}
	at := len(list)
	for i, x := range list {
		if pos[x] > pos[ent] {
			at = i
			break
		}
	}
	list = append(list, nil)
	copy(list[at+1:], list[at:])
	list[at] = ent
	return list
}
