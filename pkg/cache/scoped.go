package cache

import "strings"

// ScopedKeyer namespaces another Keyer, so several deployments can share a
// Redis or MongoDB backend:
//
//	keyer := NewScopedKeyer(nil, "staging")  // keys look like "staging:layout:v1:..."
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes every key of inner (the default keyer when nil).
// A ':' separator is appended to prefix unless it already ends with one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(freqHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(freqHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
