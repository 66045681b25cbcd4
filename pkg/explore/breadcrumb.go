package explore

import (
	"fmt"

	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// LayerLabels names the ten layers from the innermost ring outward.
var LayerLabels = [MaxDepth]string{
	"Standards",
	"Protocols",
	"Crypto Libraries",
	"OS Distributions",
	"Compiled Languages",
	"Managed Runtimes",
	"Dynamic Languages",
	"Infrastructure",
	"Platforms",
	"Services",
}

// LayerLabel returns the display name of a layer.
func LayerLabel(layer int) string {
	if layer >= 0 && layer < MaxDepth {
		return LayerLabels[layer]
	}
	return fmt.Sprintf("Layer %d", layer)
}

// CollapseThreshold is the largest number of breadcrumb entries shown
// without collapsing the middle.
const CollapseThreshold = 4

// Crumb is one breadcrumb entry. An ellipsis crumb stands in for Hidden
// collapsed entries and has no layer.
type Crumb struct {
	Layer    int           `json:"layer"`
	Label    string        `json:"label"`
	Revealed bool          `json:"revealed"`
	Frontier bool          `json:"frontier"`
	Entity   *graph.Entity `json:"-"`
	EntityID string        `json:"entity_id,omitempty"`
	Ellipsis bool          `json:"ellipsis,omitempty"`
	Hidden   int           `json:"hidden,omitempty"`
}

// Text renders the crumb the way a trail shows it, e.g. "Crypto
// Libraries: OpenSSL" or "+3 more".
func (c Crumb) Text() string {
	if c.Ellipsis {
		return fmt.Sprintf("+%d more", c.Hidden)
	}
	if c.Entity != nil {
		return c.Label + ": " + c.Entity.DisplayName()
	}
	return c.Label
}

// Breadcrumb returns the trail for a state: one crumb per layer from 0 up to
// the revealed depth, the last of which is the frontier. Layers with a chain
// entry carry it. When the trail is longer than CollapseThreshold and not
// expanded, it is shortened to the first crumb, an ellipsis and the last two
// crumbs. An idle state with nothing revealed has no trail.
func Breadcrumb(s State, expanded bool) []Crumb {
	if len(s.Chain) == 0 && s.RevealedDepth == 0 {
		return nil
	}

	var crumbs []Crumb
	for layer := 0; layer < MaxDepth && layer <= s.RevealedDepth; layer++ {
		c := Crumb{
			Layer:    layer,
			Label:    LayerLabels[layer],
			Revealed: true,
			Frontier: layer == s.RevealedDepth,
			Entity:   s.EntryAt(layer),
		}
		if c.Entity != nil {
			c.EntityID = c.Entity.ID
		}
		crumbs = append(crumbs, c)
	}

	if expanded || len(crumbs) <= CollapseThreshold {
		return crumbs
	}
	hidden := len(crumbs) - 3
	out := make([]Crumb, 0, 4)
	out = append(out, crumbs[0], Crumb{Layer: graph.NoLayer, Ellipsis: true, Hidden: hidden})
	return append(out, crumbs[len(crumbs)-2:]...)
}
