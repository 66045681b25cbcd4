// Package pkg provides the core libraries for pqcgraph, a viewer for the
// post-quantum cryptography readiness of the software stack.
//
// # Overview
//
// The dataset describes entities (standards, protocols, crypto libraries,
// operating systems, languages, frameworks, services) placed on eleven
// layers, plus the typed relations between them. pqcgraph lays them out on
// concentric rings, drills down through the layers one step at a time,
// overlays which entities sit on a validated FIPS module, and assesses the
// readiness of a concrete stack.
//
// # Architecture
//
// The typical data flow:
//
//	nodes.json / edges.json / applications.json  (or MongoDB)
//	         ↓
//	    [dataset] package (load documents, applications in the background)
//	         ↓
//	    [graph] package (entities, relations, adjacency, ring layout)
//	         ↓
//	    [overlay] / [assess] / [explore] (baseline, stack verdict, drill-down)
//	         ↓
//	    [salience] package (how prominent every node and edge is)
//	         ↓
//	    [render/nodelink] (DOT / SVG) or the JSON layout
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	defer runner.Close()
//
//	store := dataset.NewDocumentStore(dataset.Locations{
//	    Nodes: "data/nodes.json",
//	    Edges: "data/edges.json",
//	}, httputil.NewClient())
//	res, _ := runner.Execute(ctx, store, "data/nodes.json", pipeline.Options{})
//
//	base := runner.Baseline(ctx, res.Graph, overlay.ModePQC)
//	verdict, _ := runner.Assess(ctx, res.Graph, []string{"rhel", "python"})
//
// # Main Packages
//
// [graph] - The entity and relation model, graph construction with dropped
// edge accounting, neighbor queries and the radial layout.
//
// [dataset] - Document parsing, the file/HTTP and MongoDB stores, and the
// loader that fetches applications without blocking the main load.
//
// [overlay] - Readiness rollups and the FIPS baseline fixpoint.
//
// [assess] - The stack assessment: per-entity rows, weakest link, verdict
// and the chain of supporting entities.
//
// [explore] - The drill-down state machine, breadcrumb, search, details and
// application expansion.
//
// [salience] - Node and edge prominence from exploration state, baseline
// and stack chain.
//
// [render/nodelink] - Graphviz DOT and SVG output.
//
// [pipeline] - Load → layout → render used by the CLI and the HTTP server,
// with layout caching.
//
// [server] - The read-only HTTP API.
//
// [cache], [config], [errors], [httputil], [observability], [buildinfo] -
// Shared infrastructure.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/overlay/...  # Specific package
//	go test -run Example       # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/graph
// [dataset]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/dataset
// [overlay]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/overlay
// [assess]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/assess
// [explore]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/explore
// [salience]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/salience
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pqcgraph/pkg/buildinfo
package pkg
