// Package assess scores a hand-picked deployment stack.
//
// A [Selection] names at most one platform, operating system and language
// or runtime plus any number of services. [Evaluate] resolves the picks,
// rates each with [overlay.Readiness] and reports the weakest link: the
// first entity whose status ranks lowest in
//
//	not_available < experimental < partial < available = final = rfc
//
// It also computes the stack chain, the connected component of the picks
// over depends_on and ships relations, which the salience resolver uses to
// highlight the stack.
package assess
