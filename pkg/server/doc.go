// Package server exposes the readiness graph over HTTP.
//
// The server holds one immutable snapshot (graph, layout, precomputed
// baselines) and shares it across requests without locks. Exploration is
// stateless: clients send their chain with every request and receive the
// next state with its breadcrumb and salience tiers.
//
// # Routes
//
//	GET  /healthz
//	GET  /api/graph                 positioned graph (layout JSON)
//	GET  /api/entities              listing, filtered by ?layer= and ?status=
//	GET  /api/entities/{id}         entity details and runtime applications
//	GET  /api/search?q=             name/ID substring search
//	GET  /api/baseline?mode=        baseline overlay (pqc or classical)
//	POST /api/explore               exploration transition
//	GET  /api/stack/options         stack assessment candidates
//	POST /api/assess                stack assessment
//
// Errors are JSON objects carrying the error code from package errors and
// the request ID. Input errors map to 400, unknown entities to 404 and
// dataset or network failures to 502.
package server
