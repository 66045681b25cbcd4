// Package salience decides how prominently each entity and relation is
// drawn.
//
// Salience is a pure function of the graph, the exploration state and the
// active overlays. The package only assigns ordered tiers; turning a tier
// into colour, opacity or line width is up to the renderer.
//
// Node precedence:
//
//  1. Stack overlay with a non-empty stack chain: [Full] or [Suppressed].
//  2. Baseline overlay: [Neutral] for layers 0-1, [Full] for reachable
//     entities, [Suppressed] otherwise.
//  3. Exploration: [Minimal] beyond the revealed depth, then [Chain],
//     [Frontier], [Neighbor], [Anchor] (layer 0 while idle) and [Low].
//
// Edges get [Primary], [EdgeFrontier], [EdgeNeighbor] or [Faint].
package salience
