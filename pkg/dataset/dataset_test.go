package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"

	pqcerrors "github.com/matzehuels/pqcgraph/pkg/errors"
	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
	"github.com/matzehuels/pqcgraph/pkg/httputil"
)

const nodesJSON = `{
  "last_updated": "2025-01-15",
  "nodes": {
    "tls": {"id": "tls", "name": "TLS 1.3", "type": "protocol", "layer": 1, "status": "final"},
    "fips-203": {"name": "FIPS 203", "type": "standard", "layer": 0, "status": {"specification": "final"}},
    "openssl": {
      "id": "openssl", "name": "OpenSSL", "type": "crypto_library", "layer": 2,
      "status": {"ml_kem_api": "available", "ml_dsa_api": "available",
                 "ml_kem_protocols": {"tls": "available", "ssh": "partial"}},
      "metadata": {"fips": {"status": "validated", "includes_pqc": false}}
    },
    "python": {"id": "cpython", "name": "CPython", "type": "dynamic_language", "layer": 6, "status": "partial"}
  }
}`

const edgesJSON = `{"edges": [
  {"from": "openssl", "to": "fips-203", "type": "implements", "status": "available"},
  {"from": "openssl", "to": "tls", "type": "supports", "approach": "native"},
  {"from": "python", "to": "openssl", "type": "depends_on"},
  {"from": "python", "to": "ghost", "type": "depends_on"}
]}`

const appsJSON = `{"applications": {"python": [
  {"id": "django", "name": "Django", "category": "web"},
  {"id": "ansible", "name": "Ansible"}
]}}`

func entityIDs(doc *NodesDocument) []string {
	var ids []string
	for _, e := range doc.Entities {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestParseNodes(t *testing.T) {
	doc, err := ParseNodes([]byte(nodesJSON))
	if err != nil {
		t.Fatal(err)
	}
	if doc.LastUpdated != "2025-01-15" {
		t.Errorf("LastUpdated = %q", doc.LastUpdated)
	}
	// Document order is kept and the map key names the entity.
	if got, want := entityIDs(doc), []string{"tls", "fips-203", "openssl", "python"}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if _, ok := doc.Entities[1].Payload.(*graph.SpecPayload); !ok {
		t.Errorf("fips-203 payload = %T, want *SpecPayload", doc.Entities[1].Payload)
	}
	if _, ok := doc.Entities[2].Payload.(*graph.ImplementationPayload); !ok {
		t.Errorf("openssl payload = %T, want *ImplementationPayload", doc.Entities[2].Payload)
	}
}

func TestParseNodesErrors(t *testing.T) {
	for _, in := range []string{`[]`, `{"nodes": []}`, `{"nodes": {"a": 1}}`, `{`} {
		if _, err := ParseNodes([]byte(in)); err == nil {
			t.Errorf("ParseNodes(%s) should fail", in)
		}
	}
}

func TestNodesRoundTrip(t *testing.T) {
	doc, _ := ParseNodes([]byte(nodesJSON))
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseNodes(data)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(entityIDs(again), entityIDs(doc)) || again.LastUpdated != doc.LastUpdated {
		t.Errorf("round trip changed the document: %s", data)
	}
}

func TestParseEdgesAndApplications(t *testing.T) {
	edges, err := ParseEdges([]byte(edgesJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(edges.Edges) != 4 || edges.Edges[1].Approach != graph.ApproachNative {
		t.Errorf("edges = %+v", edges.Edges)
	}

	apps, err := ParseApplications([]byte(appsJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(apps["python"]) != 2 || apps["python"][0].Category != "web" {
		t.Errorf("apps = %+v", apps)
	}
}

func writeDataset(t *testing.T, withApps bool) Locations {
	t.Helper()
	dir := t.TempDir()
	loc := Locations{
		Nodes: filepath.Join(dir, "nodes.json"),
		Edges: filepath.Join(dir, "edges.json"),
	}
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(os.WriteFile(loc.Nodes, []byte(nodesJSON), 0o644))
	must(os.WriteFile(loc.Edges, []byte(edgesJSON), 0o644))
	if withApps {
		loc.Applications = filepath.Join(dir, "applications.json")
		must(os.WriteFile(loc.Applications, []byte(appsJSON), 0o644))
	}
	return loc
}

func TestDocumentStoreFiles(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore(writeDataset(t, false), nil)

	nodes, err := s.Nodes(ctx)
	if err != nil || len(nodes.Entities) != 4 {
		t.Fatalf("Nodes() = %v, %v", nodes, err)
	}
	edges, err := s.Edges(ctx)
	if err != nil || len(edges.Edges) != 4 {
		t.Fatalf("Edges() = %v, %v", edges, err)
	}
	apps, err := s.Applications(ctx)
	if err != nil || apps != nil {
		t.Errorf("Applications() without location = %v, %v; want nil, nil", apps, err)
	}

	missing := NewDocumentStore(Locations{Nodes: filepath.Join(t.TempDir(), "nope.json")}, nil)
	if _, err := missing.Nodes(ctx); !pqcerrors.Is(err, pqcerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := missing.Edges(ctx); !pqcerrors.Is(err, pqcerrors.ErrCodeInvalidPath) {
		t.Errorf("empty location: err = %v, want INVALID_PATH", err)
	}
}

func TestDocumentStoreHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/nodes.json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(nodesJSON)) })
	mux.HandleFunc("/edges.json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(edgesJSON)) })
	mux.HandleFunc("/applications.json", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(appsJSON)) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewDocumentStore(Locations{
		Nodes:        srv.URL + "/nodes.json",
		Edges:        srv.URL + "/edges.json",
		Applications: srv.URL + "/applications.json",
	}, httputil.NewClient(httputil.WithRetry(1, time.Millisecond)))

	ds, err := NewLoader(s, srv.URL, nil).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Nodes.Entities) != 4 || len(ds.Edges.Edges) != 4 {
		t.Errorf("loaded %d entities, %d edges", len(ds.Nodes.Entities), len(ds.Edges.Edges))
	}
	if apps := ds.Applications().Wait(context.Background()); len(apps["python"]) != 2 {
		t.Errorf("applications = %v", apps)
	}
}

func TestDocumentStoreHTTPFailureNotRetried(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewDocumentStore(Locations{
		Nodes: srv.URL + "/nodes.json",
		Edges: srv.URL + "/edges.json",
	}, nil)

	start := time.Now()
	_, err := NewLoader(s, srv.URL, nil).Load(context.Background())
	if !pqcerrors.Is(err, pqcerrors.ErrCodeDatasetLoad) {
		t.Fatalf("err = %v, want DATASET_LOAD", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("failed load took %v, want no backoff", elapsed)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(hits) == 0 {
		t.Fatal("no request reached the server")
	}
	for path, n := range hits {
		if n != 1 {
			t.Errorf("%s requested %d times, want 1", path, n)
		}
	}
}

type fakeStore struct {
	nodes, edges, apps error
	appsDelay          time.Duration
}

func (f fakeStore) Nodes(context.Context) (*NodesDocument, error) {
	if f.nodes != nil {
		return nil, f.nodes
	}
	return ParseNodes([]byte(nodesJSON))
}

func (f fakeStore) Edges(context.Context) (*EdgesDocument, error) {
	if f.edges != nil {
		return nil, f.edges
	}
	return ParseEdges([]byte(edgesJSON))
}

func (f fakeStore) Applications(ctx context.Context) (explore.Applications, error) {
	if f.appsDelay > 0 {
		select {
		case <-time.After(f.appsDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.apps != nil {
		return nil, f.apps
	}
	return ParseApplications([]byte(appsJSON))
}

func TestLoader(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	tests := []struct {
		name     string
		store    fakeStore
		wantErr  bool
		wantApps bool
	}{
		{"ok", fakeStore{}, false, true},
		{"nodes fail", fakeStore{nodes: boom}, true, false},
		{"edges fail", fakeStore{edges: boom}, true, false},
		{"applications fail", fakeStore{apps: boom}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewLoader(tt.store, "fake", nil).Load(ctx)
			if tt.wantErr {
				if !pqcerrors.Is(err, pqcerrors.ErrCodeDatasetLoad) {
					t.Fatalf("err = %v, want DATASET_LOAD", err)
				}
				if !errors.Is(err, boom) {
					t.Errorf("err = %v, should wrap the cause", err)
				}
				if ds != nil {
					t.Error("failed load returned a partial dataset")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			apps := ds.Applications().Wait(ctx)
			if got := len(apps) > 0; got != tt.wantApps {
				t.Errorf("applications present = %v, want %v", got, tt.wantApps)
			}
		})
	}
}

func TestLoaderDoesNotWaitForApplications(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	ds, err := NewLoader(fakeStore{appsDelay: time.Hour}, "slow", nil).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ds.Applications().Ready(); ok {
		t.Error("applications should still be pending")
	}

	wctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if apps := ds.Applications().Wait(wctx); apps != nil {
		t.Errorf("Wait() after timeout = %v, want nil", apps)
	}
}

func TestResolved(t *testing.T) {
	apps := explore.Applications{"go": {{ID: "k8s", Name: "Kubernetes"}}}
	got, ok := Resolved(apps).Ready()
	if !ok || len(got["go"]) != 1 {
		t.Errorf("Ready() = %v, %v", got, ok)
	}
}

func TestEntityBSONRoundTrip(t *testing.T) {
	doc, _ := ParseNodes([]byte(nodesJSON))
	for _, e := range doc.Entities {
		d, err := encodeEntity(e)
		if err != nil {
			t.Fatalf("encode %s: %v", e.ID, err)
		}
		raw, err := bson.Marshal(d)
		if err != nil {
			t.Fatalf("marshal %s: %v", e.ID, err)
		}
		back, err := decodeEntity(raw)
		if err != nil {
			t.Fatalf("decode %s: %v", e.ID, err)
		}
		if back.ID != e.ID || back.Layer != e.Layer || back.Kind != e.Kind {
			t.Errorf("round trip %s = %+v", e.ID, back)
		}
		if (back.Payload == nil) != (e.Payload == nil) {
			t.Errorf("round trip %s lost payload", e.ID)
		}
	}
}
