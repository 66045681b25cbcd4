package dataset

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/pqcgraph/pkg/explore"
	"github.com/matzehuels/pqcgraph/pkg/graph"
)

// NodesDocument is the entity dataset:
//
//	{"last_updated": "2025-01-15", "nodes": {"openssl": {...}, ...}}
//
// Entities keep the order of the "nodes" object, which decides their
// position within a layer ring.
type NodesDocument struct {
	LastUpdated string
	Entities    []graph.Entity
}

// UnmarshalJSON decodes the document, preserving entity order. An entity
// whose record has no id takes its map key; when both are present the map
// key wins.
func (d *NodesDocument) UnmarshalJSON(data []byte) error {
	*d = NodesDocument{}
	return graph.EachField(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "last_updated":
			if err := json.Unmarshal(raw, &d.LastUpdated); err != nil {
				return fmt.Errorf("last_updated: %w", err)
			}
		case "nodes":
			return graph.EachField(raw, func(id string, raw json.RawMessage) error {
				var e graph.Entity
				if err := json.Unmarshal(raw, &e); err != nil {
					return fmt.Errorf("node %q: %w", id, err)
				}
				e.ID = id
				d.Entities = append(d.Entities, e)
				return nil
			})
		}
		return nil
	})
}

// MarshalJSON encodes the document with entities in order.
func (d NodesDocument) MarshalJSON() ([]byte, error) {
	buf := []byte(`{"last_updated":`)
	lu, err := json.Marshal(d.LastUpdated)
	if err != nil {
		return nil, err
	}
	buf = append(buf, lu...)
	buf = append(buf, `,"nodes":{`...)
	for i, e := range d.Entities {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, _ := json.Marshal(e.ID)
		val, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", e.ID, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, "}}"...), nil
}

// EdgesDocument is the relation dataset: {"edges": [...]}.
type EdgesDocument struct {
	Edges []graph.Relation `json:"edges"`
}

// ApplicationsDocument is the optional runtime applications dataset:
// {"applications": {"python": [...], ...}}.
type ApplicationsDocument struct {
	Applications explore.Applications `json:"applications"`
}

// ParseNodes decodes a nodes document.
func ParseNodes(data []byte) (*NodesDocument, error) {
	var d NodesDocument
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseEdges decodes an edges document.
func ParseEdges(data []byte) (*EdgesDocument, error) {
	var d EdgesDocument
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseApplications decodes an applications document.
func ParseApplications(data []byte) (explore.Applications, error) {
	var d ApplicationsDocument
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d.Applications, nil
}
