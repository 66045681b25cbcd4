package overlay

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// Readiness aggregates an entity's declared status fields into one status.
//
// Standards are available when their specification is final and partial
// otherwise. Implementations are judged on their capability
// matrix: ML-KEM and ML-DSA are both required, and each counts as available
// when its API is available or when it is available in at least one critical
// protocol. Both available gives available, any available capability gives
// partial, and nothing gives not_available.
//
// Entities that declare a plain status string and no capability matrix keep
// their declared status.
func Readiness(e *graph.Entity) graph.Status {
	switch p := e.Payload.(type) {
	case *graph.SpecPayload:
		if p.Specification == graph.StatusFinal {
			return graph.StatusAvailable
		}
		return graph.StatusPartial
	case *graph.ImplementationPayload:
		return implementationReadiness(p)
	}
	return e.Status
}

func implementationReadiness(p *graph.ImplementationPayload) graph.Status {
	kem := p.MLKEMAPI == graph.StatusAvailable || anyCritical(p.MLKEMProtocols)
	dsa := p.MLDSAAPI == graph.StatusAvailable || anyCritical(p.MLDSAProtocols)
	switch {
	case kem && dsa:
		return graph.StatusAvailable
	case kem || dsa || anyAvailable(p.MLKEMProtocols) || anyAvailable(p.MLDSAProtocols):
		return graph.StatusPartial
	}
	return graph.StatusNotAvailable
}

func anyCritical(protocols map[string]graph.Status) bool {
	for _, name := range graph.CriticalProtocols {
		if protocols[name] == graph.StatusAvailable {
			return true
		}
	}
	return false
}

func anyAvailable(protocols map[string]graph.Status) bool {
	for _, s := range protocols {
		if s == graph.StatusAvailable {
			return true
		}
	}
	return false
}

// Describe returns the display text for an entity's readiness, for example
// "Final", "Available" or "Partial (ML-KEM (TLS, SSH), ML-DSA API)".
func Describe(e *graph.Entity) string {
	switch p := e.Payload.(type) {
	case *graph.SpecPayload:
		if p.Specification == graph.StatusFinal {
			return graph.StatusFinal.Label()
		}
		return graph.StatusDraft.Label()
	case *graph.ImplementationPayload:
		overall := implementationReadiness(p)
		if overall != graph.StatusPartial {
			return overall.Label()
		}
		var parts []string
		if kem := availableIn(p.MLKEMProtocols, p.KEMOrder); len(kem) > 0 {
			parts = append(parts, "ML-KEM ("+strings.Join(kem, ", ")+")")
		} else if p.MLKEMAPI == graph.StatusAvailable {
			parts = append(parts, "ML-KEM API")
		}
		if dsa := availableIn(p.MLDSAProtocols, p.DSAOrder); len(dsa) > 0 {
			parts = append(parts, "ML-DSA ("+strings.Join(dsa, ", ")+")")
		} else if p.MLDSAAPI == graph.StatusAvailable {
			parts = append(parts, "ML-DSA API")
		}
		if len(parts) == 0 {
			return overall.Label()
		}
		return overall.Label() + " (" + strings.Join(parts, ", ") + ")"
	}
	return e.Status.Label()
}

// availableIn lists the protocols with available support, upper-cased, in
// dataset order. Without a recorded order the names are sorted.
func availableIn(protocols map[string]graph.Status, order []string) []string {
	if len(order) == 0 {
		order = slices.Sorted(maps.Keys(protocols))
	}
	var out []string
	for _, name := range order {
		if protocols[name] == graph.StatusAvailable {
			out = append(out, strings.ToUpper(name))
		}
	}
	return out
}
