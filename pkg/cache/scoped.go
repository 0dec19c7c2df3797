package cache

// ScopedKeyer wraps a Keyer with a prefix so that several writers, such as
// the HTTP API and the CLI, can share one backend without mixing entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "srv:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(sheetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(sheetHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
