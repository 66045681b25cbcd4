// Package explore implements the layered drill-down through the readiness
// graph.
//
// A [State] records the chain of explicitly explored entities (one per
// layer at most, layers strictly increasing) and how many layers are
// revealed. Transitions are pure methods returning a new State:
//
//	s := explore.Idle()
//	s = s.Explore(openssl)        // chain [openssl], revealed 3
//	s = s.Explore(rhel)           // chain [openssl rhel], revealed 4
//	s = s.Explore(rhel)           // collapse: back to [openssl], revealed 3
//	s = s.JumpToBreadcrumb(1)     // chain [], revealed 1
//	s = s.JumpFromSearch(python)  // chain [python], revealed 7
//
// Revealed depth and chain length never leave the range 0 to [MaxDepth].
//
// [Breadcrumb], [Search], [EntityDetails] and [ExpandedApplications] are
// view-models derived from a State and the graph. None of them mutate
// anything.
package explore
