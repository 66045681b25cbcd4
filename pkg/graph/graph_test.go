package graph

import (
	"errors"
	"slices"
	"testing"
)

func testEntities() []Entity {
	return []Entity{
		{ID: "fips-203", Name: "FIPS 203", Kind: KindStandard, Layer: 0, Status: StatusFinal},
		{ID: "tls", Name: "TLS 1.3", Kind: KindProtocol, Layer: 1, Status: StatusDraft},
		{ID: "openssl", Name: "OpenSSL", Kind: KindCryptoLibrary, Layer: 2, Status: StatusAvailable},
		{ID: "boringssl", Name: "BoringSSL", Kind: KindCryptoLibrary, Layer: 2, Status: StatusPartial},
		{ID: "rhel", Name: "RHEL", Kind: KindOSDistribution, Layer: 3, Status: StatusPartial},
	}
}

func testRelations() []Relation {
	return []Relation{
		{From: "openssl", To: "fips-203", Type: RelImplements},
		{From: "openssl", To: "ghost", Type: RelImplements},
		{From: "rhel", To: "openssl", Type: RelShips},
		{From: "boringssl", To: "tls", Type: RelSupports},
		{From: "tls", To: "fips-203", Type: RelSpecifies},
	}
}

func TestBuild(t *testing.T) {
	g, stats := Build("2025-01-01", testEntities(), testRelations())

	if stats.Entities != 5 {
		t.Errorf("Entities = %d, want 5", stats.Entities)
	}
	if stats.Relations != 4 {
		t.Errorf("Relations = %d, want 4", stats.Relations)
	}
	if stats.Dangling != 1 {
		t.Errorf("Dangling = %d, want 1", stats.Dangling)
	}
	if g.LastUpdated() != "2025-01-01" {
		t.Errorf("LastUpdated = %q, want 2025-01-01", g.LastUpdated())
	}

	var ids []string
	for _, r := range g.Relations() {
		ids = append(ids, r.ID)
	}
	want := []string{"edge-0", "edge-1", "edge-2", "edge-3"}
	if !slices.Equal(ids, want) {
		t.Errorf("relation ids = %v, want %v", ids, want)
	}
	if r := g.Relations()[1]; r.From != "rhel" || r.To != "openssl" {
		t.Errorf("edge-1 = %s->%s, want rhel->openssl", r.From, r.To)
	}
}

func TestBuildSkipsInvalid(t *testing.T) {
	entities := append(testEntities(), Entity{Name: "nameless"})
	_, stats := Build("", entities, nil)
	if stats.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", stats.Invalid)
	}
	if stats.Entities != 5 {
		t.Errorf("Entities = %d, want 5", stats.Entities)
	}
}

func TestBuildDuplicateKeepsPosition(t *testing.T) {
	entities := []Entity{
		{ID: "a", Layer: 2, Name: "first"},
		{ID: "b", Layer: 2},
		{ID: "c", Layer: 3},
		{ID: "a", Layer: 3, Name: "second"},
	}
	g, _ := Build("", entities, nil)

	var order []string
	for _, e := range g.Entities() {
		order = append(order, e.ID)
	}
	if !slices.Equal(order, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want [a b c]", order)
	}

	a, _ := g.Entity("a")
	if a.Name != "second" {
		t.Errorf("a.Name = %q, want second", a.Name)
	}

	var layer2, layer3 []string
	for _, e := range g.EntitiesInLayer(2) {
		layer2 = append(layer2, e.ID)
	}
	for _, e := range g.EntitiesInLayer(3) {
		layer3 = append(layer3, e.ID)
	}
	if !slices.Equal(layer2, []string{"b"}) {
		t.Errorf("layer 2 = %v, want [b]", layer2)
	}
	if !slices.Equal(layer3, []string{"a", "c"}) {
		t.Errorf("layer 3 = %v, want [a c]", layer3)
	}
}

func TestAddErrors(t *testing.T) {
	g := New("")
	if err := g.AddEntity(Entity{}); !errors.Is(err, ErrInvalidEntityID) {
		t.Errorf("AddEntity(empty) = %v, want ErrInvalidEntityID", err)
	}
	_ = g.AddEntity(Entity{ID: "a"})
	if err := g.AddEntity(Entity{ID: "a"}); !errors.Is(err, ErrDuplicateEntityID) {
		t.Errorf("AddEntity(dup) = %v, want ErrDuplicateEntityID", err)
	}
	if err := g.AddRelation(Relation{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("AddRelation(unknown from) = %v, want ErrUnknownSource", err)
	}
	if err := g.AddRelation(Relation{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("AddRelation(unknown to) = %v, want ErrUnknownTarget", err)
	}
}

func TestQueries(t *testing.T) {
	g, _ := Build("", testEntities(), testRelations())

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"neighbors openssl", g.Neighbors("openssl"), []string{"fips-203", "rhel"}},
		{"neighbors fips-203", g.Neighbors("fips-203"), []string{"openssl", "tls"}},
		{"neighbors in layer", g.NeighborsInLayer("fips-203", 1), []string{"tls"}},
		{"neighbors unknown", g.Neighbors("ghost"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Equal(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if len(g.Outgoing("openssl")) != 1 {
		t.Errorf("Outgoing(openssl) = %d relations, want 1", len(g.Outgoing("openssl")))
	}
	if len(g.Incoming("openssl")) != 1 {
		t.Errorf("Incoming(openssl) = %d relations, want 1", len(g.Incoming("openssl")))
	}
	if len(g.RelationsOf("tls")) != 2 {
		t.Errorf("RelationsOf(tls) = %d relations, want 2", len(g.RelationsOf("tls")))
	}
	if !g.Adjacent("fips-203", "openssl") || !g.Adjacent("openssl", "fips-203") {
		t.Error("Adjacent(fips-203, openssl) = false, want true both ways")
	}
	if g.Adjacent("rhel", "tls") {
		t.Error("Adjacent(rhel, tls) = true, want false")
	}
	if got := g.Layers(); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("Layers() = %v, want [0 1 2 3]", got)
	}
}

func TestRelationOther(t *testing.T) {
	r := Relation{From: "a", To: "b"}
	if r.Other("a") != "b" || r.Other("b") != "a" || r.Other("c") != "" {
		t.Errorf("Other() returned unexpected endpoints")
	}
	if !r.Touches("a") || r.Touches("c") {
		t.Errorf("Touches() returned unexpected result")
	}
}
