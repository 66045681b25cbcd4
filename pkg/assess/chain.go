package assess

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// StackChain returns every entity connected to one of the seeds through
// depends_on or ships relations, followed in either direction. Seeds are
// included. The result is in graph order.
func StackChain(g *graph.Graph, seeds []*graph.Entity) []string {
	entities := g.Entities()
	index := make(map[string]int64, len(entities))
	u := simple.NewUndirectedGraph()
	for i, e := range entities {
		index[e.ID] = int64(i)
		u.AddNode(simple.Node(i))
	}
	for _, r := range g.Relations() {
		if !r.Type.Propagates() || r.From == r.To {
			continue
		}
		from, ok1 := index[r.From]
		to, ok2 := index[r.To]
		if !ok1 || !ok2 {
			continue
		}
		u.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	var bfs traverse.BreadthFirst
	for _, s := range seeds {
		id, ok := index[s.ID]
		if !ok || bfs.Visited(simple.Node(id)) {
			continue
		}
		bfs.Walk(u, simple.Node(id), nil)
	}

	var chain []string
	for i, e := range entities {
		if bfs.Visited(simple.Node(i)) {
			chain = append(chain, e.ID)
		}
	}
	return chain
}
