// Package dataset loads the readiness dataset.
//
// The dataset is three JSON documents: the entity map ([NodesDocument]),
// the relation list ([EdgesDocument]) and an optional map of example
// applications per runtime ([ApplicationsDocument]). A [Store] provides
// them; [DocumentStore] reads files or URLs and [MongoStore] reads a
// MongoDB database with the collections entities, relations, applications
// and meta.
//
// [Loader.Load] fetches nodes and edges concurrently and fails as a whole
// if either fails. The applications document loads on the side and never
// fails the load; consumers pick it up through [Pending].
package dataset
