package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Servers sharing one Redis use it to keep their namespaces apart.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "zonesmith:team-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for stored layouts.
func (k *ScopedKeyer) LayoutKey(name string) string {
	return k.prefix + k.inner.LayoutKey(name)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
