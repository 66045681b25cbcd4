package cache

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey identifies a fetched dataset document by its location.
	DocumentKey(location string) string

	// LayoutKey identifies a layout computed from a dataset.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds the layout inputs that change positions.
type LayoutKeyOpts struct {
	DefaultRadius float64         `json:"default_radius"`
	Radii         map[int]float64 `json:"radii"`
}

// DefaultKeyer produces hashed, prefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey returns "doc:<hash(location)>".
func (DefaultKeyer) DocumentKey(location string) string {
	return hashKey("doc", location)
}

// LayoutKey returns "layout:<hash(datasetHash, opts)>".
func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}
