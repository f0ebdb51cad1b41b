package cache

// formatVersion is part of every dependency key. Bump it when the record
// layout of an existing kind changes, so old entries stop matching.
const formatVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// DependenciesKey is the key of the dependency stream extracted from
	// module when its source hashed to sourceHash.
	DependenciesKey(module, sourceHash string) string
}

// DefaultKeyer produces unscoped keys of the form "deps:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) DependenciesKey(module, sourceHash string) string {
	return hashKey("deps", formatVersion, module, sourceHash)
}
