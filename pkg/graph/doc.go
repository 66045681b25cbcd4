// Package graph is the in-memory model of the PQC readiness graph.
//
// Entities (standards, protocols, crypto libraries, operating systems,
// languages, infrastructure, platforms and services) sit on ten concentric
// layers, and typed relations (specifies, implements, supports, ships,
// depends_on) connect them across any layers.
//
// # Core Types
//
//   - [Entity]: a vertex, with a kind-discriminated [Payload]
//   - [Relation]: a typed, directed edge
//   - [Graph]: the indexed collection, with neighbor and layer queries
//   - [Layout]: the positioned, serializable form of a graph
//
// # Building
//
// [Build] turns decoded dataset records into a Graph. Relations whose
// endpoints are missing are dropped and the survivors are numbered
// "edge-0", "edge-1", ... in filtered order:
//
//	g, stats := graph.Build(doc.LastUpdated, entities, relations)
//	log.Debug("built graph", "entities", stats.Entities, "dangling", stats.Dangling)
//
// # Placement
//
// [Place] assigns each entity a point on its layer's ring. The angle of an
// entity depends only on its index within its layer, the layer number and a
// hash of its ID, so identical input always produces identical coordinates:
//
//	pos := graph.Place(g, graph.DefaultRadii())
//
// # Entity Status
//
// The dataset's status field is either a plain status string or a
// capability matrix object. Standards always get a [SpecPayload]; other
// kinds get an [ImplementationPayload] from a matrix and keep a plain status
// in [Entity.Status]. Aggregating the matrix into a single readiness value is
// the job of package overlay.
//
// # Concurrency
//
// A built Graph is never mutated again and is safe for concurrent reads.
package graph
