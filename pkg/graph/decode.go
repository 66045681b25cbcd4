package graph

import (
	"bytes"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// =============================================================================
// Ordered object decoding
// =============================================================================

// EachField walks the members of a JSON object in document order. Go maps do
// not keep key order, and several parts of the dataset (entity maps, surface
// maps, protocol maps) are order-significant.
func EachField(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// =============================================================================
// Entity
// =============================================================================

type entityJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Kind     Kind            `json:"type"`
	Layer    json.RawMessage `json:"layer"`
	Status   json.RawMessage `json:"status"`
	Version  string          `json:"version"`
	Metadata *Metadata       `json:"metadata"`
}

// statusMatrix is the object form of an entity's status field.
type statusMatrix struct {
	Specification  Status          `json:"specification"`
	MLKEMAPI       Status          `json:"ml_kem_api"`
	MLDSAAPI       Status          `json:"ml_dsa_api"`
	MLKEMProtocols json.RawMessage `json:"ml_kem_protocols"`
	MLDSAProtocols json.RawMessage `json:"ml_dsa_protocols"`
}

// UnmarshalJSON decodes an entity record. The status field may be a plain
// status string or a capability matrix object; either way the kind-specific
// part ends up in Payload. A missing or non-numeric layer becomes NoLayer.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw entityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entity{
		ID:       raw.ID,
		Name:     raw.Name,
		Kind:     raw.Kind,
		Layer:    decodeLayer(raw.Layer),
		Version:  raw.Version,
		Metadata: raw.Metadata,
	}
	return e.decodeStatus(raw.Status)
}

func decodeLayer(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return NoLayer
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return NoLayer
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return NoLayer
	}
	return int(f)
}

func (e *Entity) decodeStatus(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if e.Kind.IsSpecification() {
			e.Payload = &SpecPayload{}
		}
		return nil
	}

	if raw[0] == '"' {
		var s Status
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("entity %s: status: %w", e.ID, err)
		}
		e.Status = s
		if e.Kind.IsSpecification() {
			e.Payload = &SpecPayload{Specification: s}
		}
		return nil
	}

	var m statusMatrix
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("entity %s: status: %w", e.ID, err)
	}
	if e.Kind.IsSpecification() {
		e.Payload = &SpecPayload{Specification: m.Specification}
		return nil
	}

	p := &ImplementationPayload{MLKEMAPI: m.MLKEMAPI, MLDSAAPI: m.MLDSAAPI}
	var err error
	if p.MLKEMProtocols, p.KEMOrder, err = decodeProtocols(m.MLKEMProtocols); err != nil {
		return fmt.Errorf("entity %s: ml_kem_protocols: %w", e.ID, err)
	}
	if p.MLDSAProtocols, p.DSAOrder, err = decodeProtocols(m.MLDSAProtocols); err != nil {
		return fmt.Errorf("entity %s: ml_dsa_protocols: %w", e.ID, err)
	}
	e.Payload = p
	return nil
}

func decodeProtocols(raw json.RawMessage) (map[string]Status, []string, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}
	out := map[string]Status{}
	var order []string
	err := EachField(raw, func(key string, v json.RawMessage) error {
		var s Status
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		if _, seen := out[key]; !seen {
			order = append(order, key)
		}
		out[key] = s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, order, nil
}

// MarshalJSON encodes the entity in the dataset's shape. When the entity has
// no declared status string, the payload is written back as a status object.
func (e Entity) MarshalJSON() ([]byte, error) {
	out := struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Kind     Kind      `json:"type"`
		Layer    *int      `json:"layer,omitempty"`
		Status   any       `json:"status,omitempty"`
		Version  string    `json:"version,omitempty"`
		Metadata *Metadata `json:"metadata,omitempty"`
	}{
		ID:       e.ID,
		Name:     e.Name,
		Kind:     e.Kind,
		Version:  e.Version,
		Metadata: e.Metadata,
	}
	if e.Layer != NoLayer {
		layer := e.Layer
		out.Layer = &layer
	}
	switch {
	case e.Status != "":
		out.Status = e.Status
	case e.Payload != nil:
		out.Status = e.Payload
	}
	return json.Marshal(out)
}

// =============================================================================
// Surfaces
// =============================================================================

// UnmarshalJSON accepts either an object keyed by surface name or a list of
// surfaces.
func (s *Surfaces) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []Surface
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}

	var out Surfaces
	err := EachField(data, func(key string, raw json.RawMessage) error {
		var info struct {
			Status Status `json:"status"`
			Note   string `json:"note"`
		}
		if err := json.Unmarshal(raw, &info); err != nil {
			return fmt.Errorf("surface %q: %w", key, err)
		}
		out = append(out, Surface{Name: key, Status: info.Status, Note: info.Note})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// MarshalJSON writes the surfaces back as an object in their stored order.
func (s Surfaces) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sf := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sf.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(struct {
			Status Status `json:"status"`
			Note   string `json:"note,omitempty"`
		}{sf.Status, sf.Note})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
