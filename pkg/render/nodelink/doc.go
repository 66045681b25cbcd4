// Package nodelink draws the readiness graph as a node-link diagram.
//
// Nodes keep the positions computed by [graph.Place]: [ToDOT] pins each one
// with a neato "pos" attribute, so the output shows the concentric layer
// rings. Fill color follows the aggregated readiness of each entity and
// opacity follows its salience tier:
//
//	res := salience.Resolve(ctx)
//	dot := nodelink.ToDOT(g, layout, nodelink.Options{Salience: &res})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs in process through [github.com/goccy/go-graphviz].
package nodelink
