package graph

import (
	"fmt"
	"math"
	"os"
	"unicode/utf16"

	json "github.com/goccy/go-json"
)

// =============================================================================
// Radial placement
// =============================================================================

// DefaultRadius is the ring radius used for layers missing from the radius
// table, including entities without a usable layer.
const DefaultRadius = 500.0

// Radii maps a layer index to its ring radius.
type Radii map[int]float64

// DefaultRadii returns the standard ring radii: the innermost ring holds
// standards and each following layer sits 70 units further out.
func DefaultRadii() Radii {
	r := make(Radii, MaxLayer+1)
	for layer := 0; layer <= MaxLayer; layer++ {
		r[layer] = 80 + float64(layer)*70
	}
	return r
}

// Radius returns the ring radius for a layer. Layers without a positive
// table entry fall back to the NoLayer entry, then to DefaultRadius.
func (r Radii) Radius(layer int) float64 {
	if v, ok := r[layer]; ok && v > 0 {
		return v
	}
	if v, ok := r[NoLayer]; ok && v > 0 {
		return v
	}
	return DefaultRadius
}

// Position is a point in layout space. Y is always zero: every ring lies in
// the same plane.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// angleOffsetPerLayer rotates each ring so entities of consecutive layers do
// not line up radially.
const angleOffsetPerLayer = 0.4

// Place computes a deterministic position for every entity.
//
// Entities are grouped by layer; the entity at index idx of a layer with
// count members sits at angle idx/count·2π + layer·0.4 + jitter on that
// layer's ring. The jitter is derived from a hash of the entity ID, so the
// same dataset always yields the same coordinates without storing them.
// Place never fails; unknown layers use DefaultRadius.
func Place(g *Graph, radii Radii) map[string]Position {
	if radii == nil {
		radii = DefaultRadii()
	}
	out := make(map[string]Position, g.EntityCount())
	for _, layer := range g.Layers() {
		members := g.layers[layer]
		count := len(members)
		for idx, e := range members {
			out[e.ID] = placeOne(e.ID, layer, idx, count, radii.Radius(layer))
		}
	}
	return out
}

func placeOne(id string, layer, idx, count int, radius float64) Position {
	jitter := (seededRandom(seedHash(id)) - 0.5) * (1.4 / float64(max(count, 3)))
	angle := float64(idx)/float64(count)*2*math.Pi + float64(layer)*angleOffsetPerLayer + jitter
	return Position{
		X: radius * math.Cos(angle),
		Y: 0,
		Z: radius * math.Sin(angle),
	}
}

// seedHash is the 32-bit string hash h = h*31 + c over UTF-16 code units,
// wrapping on overflow.
func seedHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// seededRandom maps a seed to a pseudo-random value in [0, 1).
func seededRandom(seed int32) float64 {
	x := math.Sin(float64(seed)*9301+49297) * 49311
	return x - math.Floor(x)
}

// =============================================================================
// Layout - positioned graph serialization
// =============================================================================

// Layout is the positioned graph: every entity with its coordinates plus the
// materialized relations. It is the format served to clients and cached
// between runs.
type Layout struct {
	LastUpdated string     `json:"last_updated,omitempty" bson:"last_updated,omitempty"`
	Nodes       []Node     `json:"nodes" bson:"nodes"`
	Edges       []Relation `json:"edges" bson:"edges"`
}

// Node is an entity summary with its layout position.
type Node struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Kind   Kind   `json:"type" bson:"type"`
	Layer  int    `json:"layer" bson:"layer"`
	Status Status `json:"status,omitempty" bson:"status,omitempty"`
	Position `bson:",inline"`
}

// NewLayout places g and returns its serializable layout. Nodes appear in
// the graph's insertion order.
func NewLayout(g *Graph, radii Radii) Layout {
	pos := Place(g, radii)
	out := Layout{
		LastUpdated: g.LastUpdated(),
		Nodes:       make([]Node, 0, g.EntityCount()),
		Edges:       g.Relations(),
	}
	for _, e := range g.order {
		out.Nodes = append(out.Nodes, Node{
			ID:       e.ID,
			Name:     e.DisplayName(),
			Kind:     e.Kind,
			Layer:    e.Layer,
			Status:   e.Status,
			Position: pos[e.ID],
		})
	}
	return out
}

// Positions indexes the layout's node positions by entity ID.
func (l Layout) Positions() map[string]Position {
	out := make(map[string]Position, len(l.Nodes))
	for _, n := range l.Nodes {
		out[n.ID] = n.Position
	}
	return out
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
