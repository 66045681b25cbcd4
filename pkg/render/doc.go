// Package render holds the output renderers for the readiness graph.
//
// The [nodelink] subpackage produces Graphviz DOT and SVG. The JSON layout
// itself is produced by package graph.
//
// [nodelink]: github.com/matzehuels/pqcgraph/pkg/render/nodelink
package render
