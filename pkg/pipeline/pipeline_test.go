package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pqcgraph/pkg/cache"
	"github.com/matzehuels/pqcgraph/pkg/dataset"
	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/observability"
	"github.com/matzehuels/pqcgraph/pkg/overlay"
	"github.com/matzehuels/pqcgraph/pkg/salience"
)

const nodesJSON = `{"last_updated": "2025-01-15", "nodes": {
  "fips-203": {"name": "FIPS 203", "type": "standard", "layer": 0, "status": {"specification": "final"}},
  "openssl": {"name": "OpenSSL", "type": "crypto_library", "layer": 2,
              "status": {"ml_kem_api": "available", "ml_dsa_api": "available"},
              "metadata": {"fips": {"status": "validated", "includes_pqc": true}}},
  "rhel": {"name": "RHEL", "type": "os_distribution", "layer": 3, "status": {"ml_kem_api": "available"}},
  "python": {"name": "CPython", "type": "dynamic_language", "layer": 6, "status": {"ml_kem_api": "planned"}}
}}`

const edgesJSON = `{"edges": [
  {"from": "openssl", "to": "fips-203", "type": "implements"},
  {"from": "rhel", "to": "openssl", "type": "ships"},
  {"from": "python", "to": "openssl", "type": "depends_on"},
  {"from": "python", "to": "ghost", "type": "depends_on"}
]}`

type memStore struct{}

func (memStore) Nodes(context.Context) (*dataset.NodesDocument, error) {
	return dataset.ParseNodes([]byte(nodesJSON))
}

func (memStore) Edges(context.Context) (*dataset.EdgesDocument, error) {
	return dataset.ParseEdges([]byte(edgesJSON))
}

func (memStore) Applications(context.Context) (explore.Applications, error) { return nil, nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"json", "invalid"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format: err = %v, want INVALID_FORMAT", err)
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	var opts Options
	if err := opts.Validate(); err != nil {
		t.Fatal(err)
	}
	if opts.Radii.Radius(3) != graph.DefaultRadii().Radius(3) {
		t.Error("Validate() should default the radii")
	}
	if err := (&Options{Scale: -1}).Validate(); err == nil {
		t.Error("negative scale should fail")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), memStore{}, "mem", Options{Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Build.Entities != 4 || res.Stats.Build.Relations != 3 || res.Stats.Build.Dangling != 1 {
		t.Errorf("build stats = %+v", res.Stats.Build)
	}
	if res.Graph.LastUpdated() != "2025-01-15" {
		t.Errorf("LastUpdated = %q", res.Graph.LastUpdated())
	}
	if len(res.Layout.Nodes) != 4 {
		t.Errorf("layout has %d nodes", len(res.Layout.Nodes))
	}
	if res.CacheInfo.LayoutHit {
		t.Error("null cache cannot hit")
	}
	if _, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON]); err != nil {
		t.Errorf("json artifact: %v", err)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G") {
		t.Errorf("dot artifact = %.40s", res.Artifacts[FormatDOT])
	}
	if res.DatasetHash == "" {
		t.Error("missing dataset hash")
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), memStore{}, "mem", Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestLayoutCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	_, g, _, err := r.Load(ctx, memStore{}, "mem")
	if err != nil {
		t.Fatal(err)
	}

	first, hit, err := r.LayoutWithCacheInfo(ctx, g, "h1", Options{})
	if err != nil || hit {
		t.Fatalf("first layout: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.LayoutWithCacheInfo(ctx, g, "h1", Options{})
	if err != nil || !hit {
		t.Fatalf("second layout: hit=%v err=%v", hit, err)
	}
	if first.Positions()["openssl"] != second.Positions()["openssl"] {
		t.Error("cached layout differs")
	}

	// Different radii and refresh both recompute.
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, g, "h1", Options{Radii: graph.Radii{0: 10}}); hit {
		t.Error("different radii should miss")
	}
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, g, "h1", Options{Refresh: true}); hit {
		t.Error("refresh should miss")
	}
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, g, "h2", Options{}); hit {
		t.Error("different dataset should miss")
	}
}

func TestDatasetHashStable(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	a, _, _, _ := r.Load(ctx, memStore{}, "mem")
	b, _, _, _ := r.Load(ctx, memStore{}, "mem")
	ha, err := DatasetHash(a)
	if err != nil {
		t.Fatal(err)
	}
	if hb, _ := DatasetHash(b); ha != hb {
		t.Errorf("hash changed between identical loads: %s != %s", ha, hb)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	analyses []string
	renders  []string
}

func (h *recordingHooks) OnAnalysis(_ context.Context, kind string, _ time.Duration) {
	h.analyses = append(h.analyses, kind)
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, format string, _ time.Duration, _ error) {
	h.renders = append(h.renders, format)
}

func TestAnalysisHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	_, g, _, err := r.Load(ctx, memStore{}, "mem")
	if err != nil {
		t.Fatal(err)
	}

	base := r.Baseline(ctx, g, overlay.ModePQC)
	if !base.IsReachable("python") || !base.IsReachable("rhel") {
		t.Errorf("baseline reachable = %v", base.Reachable)
	}

	a, err := r.Assess(ctx, g, []string{"rhel", "python"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Weakest == nil || a.Weakest.ID != "python" {
		t.Errorf("weakest = %+v, want python", a.Weakest)
	}
	if _, err := r.Assess(ctx, g, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty selection: err = %v", err)
	}

	res := r.Salience(ctx, salience.Context{Graph: g, State: explore.Idle(), Stack: a.ChainSet()})
	if res.Nodes["openssl"] != salience.Full || res.Nodes["fips-203"] != salience.Suppressed {
		t.Errorf("salience = %v", res.Nodes)
	}

	if _, err := r.Render(ctx, g, graph.NewLayout(g, nil), Options{Formats: []string{FormatDOT}, Salience: &res}); err != nil {
		t.Fatal(err)
	}

	want := []string{AnalysisBaseline, AnalysisAssess, AnalysisSalience}
	if strings.Join(hooks.analyses, ",") != strings.Join(want, ",") {
		t.Errorf("analyses = %v, want %v", hooks.analyses, want)
	}
	if len(hooks.renders) != 1 || hooks.renders[0] != FormatDOT {
		t.Errorf("renders = %v", hooks.renders)
	}
}
