package cache

// ScopedKeyer wraps a Keyer with a prefix so several serving contexts can
// share one cache backend without stepping on each other's entries. The
// server scopes keys by environment, tests scope by test name.
//
// Example usage:
//
//	// Keys for the staging catalog on a shared Redis
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//
//	// Production keys, unprefixed
//	prodKeyer := NewDefaultKeyer()
//
// ProjectionPrefix carries the scope too, so invalidating one scope's
// projections leaves the others warm.
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

// ProjectionPrefix returns the scoped invalidation prefix.
func (k *ScopedKeyer) ProjectionPrefix() string {
	return k.prefix + k.inner.ProjectionPrefix()
}

// GraphKey generates a prefixed key for the node-link payload.
func (k *ScopedKeyer) GraphKey() string {
	return k.prefix + k.inner.GraphKey()
}

// TreeKey generates a prefixed key for a tree projection.
func (k *ScopedKeyer) TreeKey(opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(opts)
}

// PathKey generates a prefixed key for a shortest path query.
func (k *ScopedKeyer) PathKey(opts PathKeyOpts) string {
	return k.prefix + k.inner.PathKey(opts)
}

// AnalysisKey generates a prefixed key for a parameterless analysis.
func (k *ScopedKeyer) AnalysisKey(kind string) string {
	return k.prefix + k.inner.AnalysisKey(kind)
}

// ExportKey generates a prefixed key for a rendered export.
func (k *ScopedKeyer) ExportKey(opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
