package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

// DefaultScale converts layout units to points.
const DefaultScale = 1.0

// Options configures diagram generation.
type Options struct {
	// Salience styles nodes and edges by tier. Nil draws every node at
	// full weight and every edge faint.
	Salience *salience.Resolution
	// Scale multiplies layout coordinates. Zero means DefaultScale.
	Scale float64
	// Detailed adds the layer and readiness to node labels.
	Detailed bool
}

// statusColor maps a readiness value to a fill color.
func statusColor(s graph.Status) string {
	switch s {
	case graph.StatusAvailable, graph.StatusFinal:
		return "#2e7d32"
	case graph.StatusPartial, graph.StatusRFC:
		return "#9e9d24"
	case graph.StatusExperimental, graph.StatusDraft, graph.StatusEvaluation:
		return "#ef6c00"
	case graph.StatusPlanned, graph.StatusProposed:
		return "#1565c0"
	case graph.StatusNotAvailable:
		return "#c62828"
	}
	return "#757575"
}

// nodeAlpha is the two-digit hex opacity appended to the fill color.
var nodeAlpha = map[salience.Tier]string{
	salience.Suppressed: "14",
	salience.Minimal:    "26",
	salience.Low:        "4d",
	salience.Anchor:     "99",
	salience.Neutral:    "80",
	salience.Neighbor:   "b3",
	salience.Frontier:   "e6",
	salience.Full:       "ff",
	salience.Chain:      "ff",
}

var edgeStyle = map[salience.EdgeTier]string{
	salience.Faint:        `color="#9e9e9e22", penwidth=0.5`,
	salience.EdgeNeighbor: `color="#9e9e9e99", penwidth=1`,
	salience.EdgeFrontier: `color="#1565c0cc", penwidth=2`,
	salience.Primary:      `color="#212121", penwidth=3`,
}

// ToDOT converts a positioned graph to Graphviz DOT for the neato engine.
// Every node is pinned to its layout position (X, Z), so the drawing
// reproduces the concentric rings instead of letting Graphviz place nodes.
func ToDOT(g *graph.Graph, l graph.Layout, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	pos := l.Positions()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=10, fixedsize=false, fontcolor=\"#212121\"];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, e := range g.Entities() {
		p := pos[e.ID]
		tier := nodeTier(opts.Salience, e.ID)
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(e, opts.Detailed)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", p.X*scale, -p.Z*scale),
			fmt.Sprintf("fillcolor=\"%s%s\"", statusColor(overlay.Readiness(e)), nodeAlpha[tier]),
		}
		switch {
		case tier == salience.Chain:
			attrs = append(attrs, "penwidth=3")
		case tier <= salience.Minimal:
			attrs = append(attrs, "color=\"#bdbdbd\"", "fontcolor=\"#bdbdbd\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range g.Relations() {
		fmt.Fprintf(&buf, "  %q -> %q [%s, tooltip=%q];\n", r.From, r.To,
			edgeStyle[edgeTier(opts.Salience, r.ID)], r.Type.Label())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeTier(res *salience.Resolution, id string) salience.Tier {
	if res == nil {
		return salience.Full
	}
	return res.Nodes[id]
}

func edgeTier(res *salience.Resolution, id string) salience.EdgeTier {
	if res == nil {
		return salience.Faint
	}
	return res.Edges[id]
}

func fmtLabel(e *graph.Entity, detailed bool) string {
	if !detailed {
		return e.DisplayName()
	}
	return fmt.Sprintf("%s\nlayer: %d\n%s", e.DisplayName(), e.Layer, overlay.Describe(e))
}

// RenderSVG renders DOT produced by [ToDOT] to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// responsive one that keeps the same viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
