package nodelink

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

func testGraph() (*graph.Graph, graph.Layout) {
	entities := []graph.Entity{
		{ID: "fips-203", Name: "FIPS 203", Kind: graph.KindStandard, Layer: 0,
			Payload: &graph.SpecPayload{Specification: graph.StatusFinal}},
		{ID: "openssl", Name: "OpenSSL", Kind: graph.KindCryptoLibrary, Layer: 2,
			Payload: &graph.ImplementationPayload{MLKEMAPI: graph.StatusAvailable}},
	}
	relations := []graph.Relation{{From: "openssl", To: "fips-203", Type: graph.RelImplements}}
	g, _ := graph.Build("2025-01-15", entities, relations)
	return g, graph.NewLayout(g, graph.DefaultRadii())
}

func TestToDOT_Basic(t *testing.T) {
	g, l := testGraph()
	dot := ToDOT(g, l, Options{})

	for _, want := range []string{
		"digraph G",
		"inputscale=72",
		`"fips-203" [label="FIPS 203"`,
		`"openssl" -> "fips-203"`,
		`tooltip="Implements"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Count(dot, "!\"") != 2 {
		t.Errorf("every node should be pinned:\n%s", dot)
	}
}

func TestToDOT_Positions(t *testing.T) {
	g, l := testGraph()
	p := l.Positions()["fips-203"]
	dot := ToDOT(g, l, Options{Scale: 2})
	want := fmt.Sprintf(`pos="%.2f,%.2f!"`, p.X*2, -p.Z*2)
	if !strings.Contains(dot, want) {
		t.Errorf("ToDOT() missing %s", want)
	}
}

func TestToDOT_Readiness(t *testing.T) {
	g, l := testGraph()
	dot := ToDOT(g, l, Options{})
	// Final standard is available; ML-KEM without ML-DSA is partial.
	if !strings.Contains(dot, `fillcolor="#2e7d32ff"`) {
		t.Error("fips-203 should be filled as available")
	}
	if !strings.Contains(dot, `fillcolor="#9e9d24ff"`) {
		t.Error("openssl should be filled as partial")
	}
}

func TestToDOT_Salience(t *testing.T) {
	g, l := testGraph()
	res := salience.Resolution{
		Nodes: map[string]salience.Tier{"fips-203": salience.Chain, "openssl": salience.Suppressed},
		Edges: map[string]salience.EdgeTier{"edge-0": salience.Primary},
	}
	dot := ToDOT(g, l, Options{Salience: &res})

	if !strings.Contains(dot, "penwidth=3") {
		t.Error("chain node should be outlined")
	}
	if !strings.Contains(dot, `fillcolor="#9e9d2414"`) {
		t.Error("suppressed node should be nearly transparent")
	}
	if !strings.Contains(dot, `color="#212121", penwidth=3`) {
		t.Error("primary edge should be emphasized")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g, l := testGraph()
	dot := ToDOT(g, l, Options{Detailed: true})
	if !strings.Contains(dot, `layer: 2`) {
		t.Error("detailed label missing layer")
	}
}

func TestRenderSVG(t *testing.T) {
	g, l := testGraph()
	svg, err := RenderSVG(context.Background(), ToDOT(g, l, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}
