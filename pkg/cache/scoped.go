package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that builds sharing
// one backend (a Redis or MongoDB instance) do not see each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:app:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DependenciesKey(module, sourceHash string) string {
	return k.prefix + k.inner.DependenciesKey(module, sourceHash)
}
