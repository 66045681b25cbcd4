package cache

// ScopedKeyer prefixes every key of an inner Keyer. A Redis instance shared
// between deployments uses one scope per deployment.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocumentKey returns the prefixed document key.
func (k *ScopedKeyer) DocumentKey(location string) string {
	return k.prefix + k.inner.DocumentKey(location)
}

// LayoutKey returns the prefixed layout key.
func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}
