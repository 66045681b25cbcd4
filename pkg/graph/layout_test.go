package graph

import (
	"math"
	"testing"
)

func TestSeedHash(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 3105},
		{"hello", 99162322},
		{"polygenelubricants", math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := seedHash(tt.in); got != tt.want {
				t.Errorf("seedHash(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeedHashUTF16(t *testing.T) {
	// U+1F512 is a surrogate pair in UTF-16: 0xD83D 0xDD12.
	want := int32(0xD83D)*31 + 0xDD12
	if got := seedHash("\U0001F512"); got != want {
		t.Errorf("seedHash(lock emoji) = %d, want %d", got, want)
	}
}

func TestSeededRandomRange(t *testing.T) {
	for _, seed := range []int32{0, 1, -1, 97, 99162322, math.MinInt32, math.MaxInt32} {
		v := seededRandom(seed)
		if v < 0 || v >= 1 {
			t.Errorf("seededRandom(%d) = %v, want [0, 1)", seed, v)
		}
	}
}

func TestPlace(t *testing.T) {
	entities := append(testEntities(), Entity{ID: "orphan", Layer: NoLayer}, Entity{ID: "far", Layer: 42})
	g, _ := Build("", entities, nil)
	radii := DefaultRadii()
	pos := Place(g, radii)

	if len(pos) != len(entities) {
		t.Fatalf("positions = %d, want %d", len(pos), len(entities))
	}

	for _, e := range g.Entities() {
		p := pos[e.ID]
		if p.Y != 0 {
			t.Errorf("%s: Y = %v, want 0", e.ID, p.Y)
		}
		r := math.Hypot(p.X, p.Z)
		want := radii.Radius(e.Layer)
		if math.Abs(r-want) > 1e-9 {
			t.Errorf("%s: radius = %v, want %v", e.ID, r, want)
		}
	}

	for _, id := range []string{"orphan", "far"} {
		p := pos[id]
		if r := math.Hypot(p.X, p.Z); math.Abs(r-DefaultRadius) > 1e-9 {
			t.Errorf("%s: radius = %v, want %v", id, r, DefaultRadius)
		}
	}
}

func TestPlaceIdempotent(t *testing.T) {
	g1, _ := Build("", testEntities(), testRelations())
	g2, _ := Build("", testEntities(), testRelations())

	a := Place(g1, nil)
	b := Place(g2, nil)
	for id, p := range a {
		if b[id] != p {
			t.Errorf("%s: %v != %v", id, p, b[id])
		}
	}
}

func TestPlaceAngle(t *testing.T) {
	g, _ := Build("", []Entity{{ID: "solo", Layer: 0}}, nil)
	p := Place(g, nil)["solo"]
	angle := math.Atan2(p.Z, p.X)

	// A single entity at layer 0 sits at angle 0 plus at most a third of
	// the 0.7 jitter span.
	if math.Abs(angle) > 0.7/3+1e-9 {
		t.Errorf("angle = %v, want |angle| <= %v", angle, 0.7/3)
	}
	want := (seededRandom(seedHash("solo")) - 0.5) * (1.4 / 3)
	if math.Abs(angle-want) > 1e-9 {
		t.Errorf("angle = %v, want %v", angle, want)
	}
}

func TestPlaceSpreadsLayer(t *testing.T) {
	var entities []Entity
	for _, id := range []string{"a", "b", "c", "d"} {
		entities = append(entities, Entity{ID: id, Layer: 5})
	}
	g, _ := Build("", entities, nil)
	pos := Place(g, nil)

	for i, e := range entities {
		p := pos[e.ID]
		base := float64(i)/4*2*math.Pi + 5*0.4
		want := base + (seededRandom(seedHash(e.ID))-0.5)*(1.4/4)
		if math.Abs(p.X-radiusOf(5)*math.Cos(want)) > 1e-9 || math.Abs(p.Z-radiusOf(5)*math.Sin(want)) > 1e-9 {
			t.Errorf("%s: position %v does not match angle %v", e.ID, p, want)
		}
	}
}

func radiusOf(layer int) float64 { return DefaultRadii().Radius(layer) }

func TestRadii(t *testing.T) {
	r := DefaultRadii()
	for layer := 1; layer <= MaxLayer; layer++ {
		if r.Radius(layer) <= r.Radius(layer-1) {
			t.Errorf("radius(%d) = %v, not greater than radius(%d) = %v",
				layer, r.Radius(layer), layer-1, r.Radius(layer-1))
		}
	}
	if got := (Radii{3: 0}).Radius(3); got != DefaultRadius {
		t.Errorf("zero radius = %v, want %v", got, DefaultRadius)
	}
	if got := (Radii{NoLayer: 123}).Radius(42); got != 123 {
		t.Errorf("fallback radius = %v, want 123", got)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g, _ := Build("2025-02-01", testEntities(), testRelations())
	l := NewLayout(g, nil)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	if got.LastUpdated != "2025-02-01" {
		t.Errorf("LastUpdated = %q", got.LastUpdated)
	}
	if len(got.Nodes) != 5 || len(got.Edges) != 4 {
		t.Fatalf("nodes/edges = %d/%d, want 5/4", len(got.Nodes), len(got.Edges))
	}
	if got.Nodes[0].ID != "fips-203" {
		t.Errorf("first node = %q, want fips-203", got.Nodes[0].ID)
	}
	want := Place(g, nil)
	for id, p := range got.Positions() {
		if math.Abs(p.X-want[id].X) > 1e-9 || math.Abs(p.Z-want[id].Z) > 1e-9 {
			t.Errorf("%s: position %v, want %v", id, p, want[id])
		}
	}
}
