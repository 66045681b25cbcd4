// Package httputil fetches remote dataset documents.
//
// # Client
//
// [Client] performs GET requests for dataset locations given as URLs.
// Responses are cached through a [cache.Cache] keyed by location, so a
// server restart or repeated CLI run does not refetch an unchanged dataset
// within the TTL:
//
//	c := httputil.NewClient(httputil.WithCache(fc, cache.NewDefaultKeyer(), cache.TTLDataset))
//	data, err := c.Fetch(ctx, "https://example.org/data/nodes.json")
//
// # Retry
//
// [Retry] repeats an operation while it fails with a [RetryableError].
// The client wraps network errors and 5xx responses that way; a 404 or
// other 4xx fails immediately.
//
// Every request reports to the HTTP hooks in package observability.
package httputil
