// Package overlay derives graph-wide readiness information.
//
// Two analyses live here:
//
//   - [Readiness] and [Describe] aggregate an entity's declared status
//     fields into a single status and its display text. They are pure
//     functions of one entity.
//   - [Baseline] traces which entities sit on a validated FIPS baseline by
//     fixpoint propagation along depends_on and ships relations.
//
// Results are recomputed from scratch on demand; the graph is small enough
// that no incremental maintenance is needed.
package overlay
