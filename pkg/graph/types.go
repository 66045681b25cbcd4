package graph

// =============================================================================
// Enumerations
// =============================================================================

// Kind is the entity type. Unknown kinds read from a dataset are preserved
// verbatim so newer datasets still load.
type Kind string

// Entity kinds, in the order of the layers they usually occupy.
const (
	KindStandard         Kind = "standard"
	KindProtocol         Kind = "protocol"
	KindCryptoLibrary    Kind = "crypto_library"
	KindOSDistribution   Kind = "os_distribution"
	KindCompiledLanguage Kind = "compiled_language"
	KindManagedRuntime   Kind = "managed_runtime"
	KindDynamicLanguage  Kind = "dynamic_language"
	KindInfrastructure   Kind = "infrastructure"
	KindPlatform         Kind = "platform"
	KindService          Kind = "service"
)

// IsSpecification reports whether entities of this kind are judged on a
// specification status rather than a capability matrix. Only standards are;
// protocols carry either a plain status or a matrix like any implementation.
func (k Kind) IsSpecification() bool {
	return k == KindStandard
}

// IsRuntime reports whether the kind is a language or runtime that
// applications are built on.
func (k Kind) IsRuntime() bool {
	return k == KindCompiledLanguage || k == KindManagedRuntime || k == KindDynamicLanguage
}

// Label returns a human-readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindStandard:
		return "Standard"
	case KindProtocol:
		return "Protocol"
	case KindCryptoLibrary:
		return "Crypto Library"
	case KindOSDistribution:
		return "OS Distribution"
	case KindCompiledLanguage:
		return "Compiled Language"
	case KindManagedRuntime:
		return "Managed Runtime"
	case KindDynamicLanguage:
		return "Dynamic Language"
	case KindInfrastructure:
		return "Infrastructure"
	case KindPlatform:
		return "Platform"
	case KindService:
		return "Service"
	}
	return string(k)
}

// Status is a readiness or document status value.
type Status string

// Known status values.
const (
	StatusAvailable    Status = "available"
	StatusPartial      Status = "partial"
	StatusExperimental Status = "experimental"
	StatusNotAvailable Status = "not_available"
	StatusPlanned      Status = "planned"
	StatusFinal        Status = "final"
	StatusDraft        Status = "draft"
	StatusEvaluation   Status = "evaluation"
	StatusRFC          Status = "rfc"
	StatusProposed     Status = "proposed"
	StatusNA           Status = "n/a"
)

// Label returns a human-readable name for the status.
func (s Status) Label() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusPartial:
		return "Partial"
	case StatusExperimental:
		return "Experimental"
	case StatusNotAvailable:
		return "Not Available"
	case StatusPlanned:
		return "Planned"
	case StatusFinal:
		return "Final"
	case StatusDraft:
		return "Draft"
	case StatusEvaluation:
		return "Evaluation"
	case StatusRFC:
		return "RFC"
	case StatusProposed:
		return "Proposed"
	case StatusNA:
		return "N/A"
	case "":
		return "Unknown"
	}
	return string(s)
}

// RelationType names the semantic of a relation.
type RelationType string

// Relation types.
const (
	RelSpecifies  RelationType = "specifies"
	RelImplements RelationType = "implements"
	RelSupports   RelationType = "supports"
	RelShips      RelationType = "ships"
	RelDependsOn  RelationType = "depends_on"
)

// Propagates reports whether baseline validation and stack membership flow
// across relations of this type.
func (t RelationType) Propagates() bool {
	return t == RelDependsOn || t == RelShips
}

// Label returns a human-readable name for the relation type.
func (t RelationType) Label() string {
	switch t {
	case RelSpecifies:
		return "Specifies"
	case RelImplements:
		return "Implements"
	case RelSupports:
		return "Supports"
	case RelShips:
		return "Ships"
	case RelDependsOn:
		return "Depends On"
	}
	return string(t)
}

// Approach qualifies how an implementation relation is realized.
type Approach string

// Approaches.
const (
	ApproachNative     Approach = "native"
	ApproachBinding    Approach = "binding"
	ApproachDelegated  Approach = "delegated"
	ApproachThirdParty Approach = "third_party"
)

// Label returns a human-readable name for the approach.
func (a Approach) Label() string {
	switch a {
	case ApproachNative:
		return "Native"
	case ApproachBinding:
		return "Binding"
	case ApproachDelegated:
		return "Delegated"
	case ApproachThirdParty:
		return "Third Party"
	}
	return string(a)
}

// NoLayer marks an entity whose dataset record had no usable layer.
const NoLayer = -1

// MaxLayer is the highest layer index in the model.
const MaxLayer = 9

// =============================================================================
// Entity
// =============================================================================

// Entity is a vertex of the readiness graph.
//
// The fields common to every kind live directly on Entity; kind-specific
// detail lives in Payload, which is a [*SpecPayload] for standards and an
// [*ImplementationPayload] for any other entity with a capability matrix.
type Entity struct {
	ID       string    `json:"id" bson:"id"`
	Name     string    `json:"name" bson:"name"`
	Kind     Kind      `json:"type" bson:"type"`
	Layer    int       `json:"layer" bson:"layer"`
	Status   Status    `json:"status,omitempty" bson:"status,omitempty"`
	Version  string    `json:"version,omitempty" bson:"version,omitempty"`
	Metadata *Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Payload  Payload   `json:"-" bson:"-"`
}

// HasLayer reports whether the entity carries a layer inside the model's
// range.
func (e *Entity) HasLayer() bool {
	return e.Layer >= 0 && e.Layer <= MaxLayer
}

// DisplayName returns the name if set, otherwise the ID.
func (e *Entity) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// FIPS returns the FIPS validation record, or nil.
func (e *Entity) FIPS() *FIPS {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata.FIPS
}

// Surfaces returns the entity's named PQC surfaces in dataset order.
func (e *Entity) Surfaces() []Surface {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata.Surfaces
}

// Metadata is the envelope of optional descriptive fields shared by every
// entity kind.
type Metadata struct {
	Description   string   `json:"description,omitempty" bson:"description,omitempty"`
	Version       string   `json:"version,omitempty" bson:"version,omitempty"`
	Date          string   `json:"date,omitempty" bson:"date,omitempty"`
	LatestRelease string   `json:"latest_release,omitempty" bson:"latest_release,omitempty"`
	FIPS          *FIPS    `json:"fips,omitempty" bson:"fips,omitempty"`
	Surfaces      Surfaces `json:"pqc_surfaces,omitempty" bson:"pqc_surfaces,omitempty"`
	IETFDrafts    []Draft  `json:"ietf_drafts,omitempty" bson:"ietf_drafts,omitempty"`
	Notes         string   `json:"notes,omitempty" bson:"notes,omitempty"`
	Sources       []Source `json:"sources,omitempty" bson:"sources,omitempty"`
}

// FIPS describes a FIPS 140 validation record.
type FIPS struct {
	Status      string `json:"status" bson:"status"`
	Certificate string `json:"certificate,omitempty" bson:"certificate,omitempty"`
	IncludesPQC bool   `json:"includes_pqc,omitempty" bson:"includes_pqc,omitempty"`
	Notes       string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// FIPSValidated is the FIPS status that marks a completed validation.
const FIPSValidated = "validated"

// Validated reports whether the record is a completed validation.
func (f *FIPS) Validated() bool {
	return f != nil && f.Status == FIPSValidated
}

// Surface is one named PQC surface of an entity (for example "TLS" or
// "Code Signing") with its own status.
type Surface struct {
	Name   string `json:"name" bson:"name"`
	Status Status `json:"status" bson:"status"`
	Note   string `json:"note,omitempty" bson:"note,omitempty"`
}

// Surfaces is an ordered list of surfaces. It decodes from a JSON object
// keyed by surface name and keeps the object's key order.
type Surfaces []Surface

// Draft is a tracked IETF draft.
type Draft struct {
	Name   string `json:"name" bson:"name"`
	URL    string `json:"url,omitempty" bson:"url,omitempty"`
	Status string `json:"status,omitempty" bson:"status,omitempty"`
}

// Source is an external reference link.
type Source struct {
	Label string `json:"label" bson:"label"`
	URL   string `json:"url" bson:"url"`
}

// =============================================================================
// Payload - kind-discriminated detail
// =============================================================================

// Payload is the kind-specific part of an entity.
type Payload interface {
	payload()
}

// SpecPayload carries the document status of a standard.
type SpecPayload struct {
	Specification Status `json:"specification" bson:"specification"`
}

func (*SpecPayload) payload() {}

// CriticalProtocols are the protocols whose support counts toward a
// capability being usable in practice.
var CriticalProtocols = []string{"tls", "ssh", "quic"}

// ImplementationPayload carries the capability matrix of an implementation.
// Protocol maps are keyed by lower-case protocol name and keep dataset order
// in ProtocolOrder.
type ImplementationPayload struct {
	MLKEMAPI       Status            `json:"ml_kem_api,omitempty" bson:"ml_kem_api,omitempty"`
	MLDSAAPI       Status            `json:"ml_dsa_api,omitempty" bson:"ml_dsa_api,omitempty"`
	MLKEMProtocols map[string]Status `json:"ml_kem_protocols,omitempty" bson:"ml_kem_protocols,omitempty"`
	MLDSAProtocols map[string]Status `json:"ml_dsa_protocols,omitempty" bson:"ml_dsa_protocols,omitempty"`
	KEMOrder       []string          `json:"-" bson:"-"`
	DSAOrder       []string          `json:"-" bson:"-"`
}

func (*ImplementationPayload) payload() {}

// =============================================================================
// Relation
// =============================================================================

// Relation is a typed, directed edge between two entities.
type Relation struct {
	ID       string         `json:"id,omitempty" bson:"id,omitempty"`
	From     string         `json:"from" bson:"from"`
	To       string         `json:"to" bson:"to"`
	Type     RelationType   `json:"type" bson:"type"`
	Status   Status         `json:"status,omitempty" bson:"status,omitempty"`
	Approach Approach       `json:"approach,omitempty" bson:"approach,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Other returns the endpoint of r opposite to id, or "" when id is not an
// endpoint.
func (r *Relation) Other(id string) string {
	switch id {
	case r.From:
		return r.To
	case r.To:
		return r.From
	}
	return ""
}

// Touches reports whether id is an endpoint of r.
func (r *Relation) Touches(id string) bool {
	return r.From == id || r.To == id
}
