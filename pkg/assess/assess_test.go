package assess

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/graph"
)

func stackGraph() *graph.Graph {
	entities := []graph.Entity{
		{ID: "fips-203", Name: "FIPS 203", Layer: 0, Payload: &graph.SpecPayload{Specification: graph.StatusFinal}},
		{ID: "openssl", Name: "OpenSSL", Layer: 2, Status: graph.StatusAvailable},
		{ID: "gnutls", Name: "GnuTLS", Layer: 2, Status: graph.StatusExperimental},
		{ID: "rhel", Name: "RHEL", Layer: 3, Status: graph.StatusPartial},
		{ID: "alpine", Name: "alpine", Layer: 3, Status: graph.StatusNotAvailable},
		{ID: "debian", Name: "Debian", Layer: 3, Status: graph.StatusPartial},
		{ID: "go", Name: "Go", Layer: 4, Status: graph.StatusAvailable},
		{ID: "java", Name: "Java", Layer: 5, Status: graph.StatusPartial},
		{ID: "python", Name: "CPython", Layer: 6, Status: graph.StatusNotAvailable},
		{ID: "nginx", Name: "nginx", Layer: 7, Status: graph.StatusAvailable},
		{ID: "aws", Name: "AWS", Layer: 8, Status: graph.StatusPartial},
		{ID: "kms", Name: "KMS", Layer: 9, Status: graph.StatusPlanned},
		{ID: "cloudflare", Name: "Cloudflare", Layer: 9, Status: graph.StatusAvailable},
	}
	relations := []graph.Relation{
		{From: "openssl", To: "fips-203", Type: graph.RelImplements},
		{From: "rhel", To: "openssl", Type: graph.RelShips},
		{From: "python", To: "openssl", Type: graph.RelDependsOn},
		{From: "debian", To: "gnutls", Type: graph.RelShips},
		{From: "kms", To: "aws", Type: graph.RelDependsOn},
		{From: "nginx", To: "openssl", Type: graph.RelSupports},
	}
	g, _ := graph.Build("", entities, relations)
	return g
}

func rowIDs(rows []Row) []string {
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSelectionIDs(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"empty", Selection{}, nil},
		{"language only", Selection{Language: "python"}, []string{"python"}},
		{"full", Selection{Platform: "aws", OS: "rhel", Language: "go", Services: []string{"kms", "cloudflare"}},
			[]string{"aws", "rhel", "go", "kms", "cloudflare"}},
		{"gaps", Selection{OS: "rhel", Services: []string{"", "kms"}}, []string{"rhel", "kms"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.IDs(); !slices.Equal(got, tt.want) {
				t.Errorf("IDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	g := stackGraph()
	a, err := Evaluate(g, Selection{Platform: "aws", OS: "rhel", Language: "python", Services: []string{"kms"}}.IDs())
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if got, want := rowIDs(a.Rows), []string{"aws", "rhel", "python", "kms"}; !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if a.Weakest == nil || a.Weakest.ID != "python" {
		t.Fatalf("Weakest = %+v, want python", a.Weakest)
	}
	if a.Verdict() != graph.StatusNotAvailable {
		t.Errorf("Verdict() = %q, want not_available", a.Verdict())
	}
	wantChain := []string{"openssl", "rhel", "python", "aws", "kms"}
	if !slices.Equal(a.Chain, wantChain) {
		t.Errorf("Chain = %v, want %v", a.Chain, wantChain)
	}
	if set := a.ChainSet(); !set["openssl"] || set["fips-203"] || set["nginx"] {
		t.Errorf("ChainSet() = %v", set)
	}
}

func TestEvaluateDropsUnknownAndDuplicates(t *testing.T) {
	g := stackGraph()
	a, err := Evaluate(g, []string{"rhel", "ghost", "rhel", "go"})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := rowIDs(a.Rows), []string{"rhel", "go"}; !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if !slices.Equal(a.Unknown, []string{"ghost"}) {
		t.Errorf("Unknown = %v, want [ghost]", a.Unknown)
	}
}

func TestEvaluateErrors(t *testing.T) {
	g := stackGraph()
	if _, err := Evaluate(g, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty selection: error = %v, want INVALID_INPUT", err)
	}
	if _, err := Evaluate(g, []string{"ghost"}); !errors.Is(err, errors.ErrCodeEntityNotFound) {
		t.Errorf("unknown selection: error = %v, want ENTITY_NOT_FOUND", err)
	}
}

func TestWeakestTies(t *testing.T) {
	g := stackGraph()
	a, _ := Evaluate(g, []string{"go", "rhel", "java"})
	if a.Weakest.ID != "rhel" {
		t.Errorf("Weakest = %s, want rhel (first partial)", a.Weakest.ID)
	}
	// rhel precedes java in the graph; selection order decides.
	a, _ = Evaluate(g, []string{"java", "rhel"})
	if a.Weakest.ID != "java" {
		t.Errorf("Weakest = %s, want java (first partial)", a.Weakest.ID)
	}
}

func TestWeakestUnranked(t *testing.T) {
	g := stackGraph()
	a, _ := Evaluate(g, []string{"kms"})
	if a.Weakest != nil {
		t.Errorf("Weakest = %+v, want nil for unranked status", a.Weakest)
	}
	if a.Verdict() != graph.StatusAvailable {
		t.Errorf("Verdict() = %q, want available", a.Verdict())
	}

	a, _ = Evaluate(g, []string{"kms", "gnutls"})
	if a.Weakest == nil || a.Weakest.ID != "gnutls" {
		t.Errorf("Weakest = %+v, want gnutls", a.Weakest)
	}
}

func TestReadinessRows(t *testing.T) {
	g := stackGraph()
	a, _ := Evaluate(g, []string{"fips-203"})
	row := a.Rows[0]
	if row.Status != graph.StatusAvailable || row.Detail != "Final" {
		t.Errorf("row = %+v, want available / Final", row)
	}
}

func TestWeakestOrderIndependent(t *testing.T) {
	g := stackGraph()
	// go: available, rhel: partial, python: not_available
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.Permutation([]string{"go", "rhel", "python"}).Draw(t, "ids")
		a, err := Evaluate(g, ids)
		if err != nil {
			t.Fatal(err)
		}
		if a.Weakest == nil || a.Weakest.ID != "python" {
			t.Fatalf("Evaluate(%v).Weakest = %+v, want python", ids, a.Weakest)
		}
	})
}

func TestPriority(t *testing.T) {
	tests := []struct {
		status graph.Status
		want   int
	}{
		{graph.StatusNotAvailable, 0},
		{graph.StatusExperimental, 1},
		{graph.StatusPartial, 2},
		{graph.StatusAvailable, 3},
		{graph.StatusFinal, 3},
		{graph.StatusRFC, 3},
		{graph.StatusDraft, Unranked},
		{"", Unranked},
	}
	for _, tt := range tests {
		if got := Priority(tt.status); got != tt.want {
			t.Errorf("Priority(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}

func TestCandidateOptions(t *testing.T) {
	opts := CandidateOptions(stackGraph())
	names := func(list []Option) []string {
		var out []string
		for _, o := range list {
			out = append(out, o.Name)
		}
		return out
	}
	tests := []struct {
		name string
		got  []Option
		want []string
	}{
		{"platforms", opts.Platforms, []string{"AWS"}},
		{"os", opts.OS, []string{"alpine", "Debian", "RHEL"}},
		{"languages", opts.Languages, []string{"CPython", "Go", "Java"}},
		{"services", opts.Services, []string{"Cloudflare", "KMS"}},
	}
	for _, tt := range tests {
		if got := names(tt.got); !slices.Equal(got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStackChainSelfLoop(t *testing.T) {
	g, _ := graph.Build("", []graph.Entity{{ID: "a"}, {ID: "b"}}, []graph.Relation{
		{From: "a", To: "a", Type: graph.RelDependsOn},
		{From: "b", To: "a", Type: graph.RelShips},
	})
	a, _ := g.Entity("a")
	if got := StackChain(g, []*graph.Entity{a}); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("StackChain() = %v, want [a b]", got)
	}
}
