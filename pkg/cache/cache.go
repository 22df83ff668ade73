// Package cache provides the storage layer that lets tag clouds skip
// recomputation.
//
// A pipeline run hashes the extracted word frequencies, derives a layout key
// from that hash and the layout options, and an artifact key from the layout hash and the
// render options. Any [Cache] backend can hold both:
//
//   - [NewNullCache]: never stores anything (caching disabled)
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: shared cache for API servers
//   - [MongoCache]: shared cache with a TTL index
//
// Keys are produced by a [Keyer]. [ScopedKeyer] prefixes every key so several
// tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLLayout is how long a computed layout stays cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts holds every option that changes a layout of a given word
// frequency list.
type LayoutKeyOpts struct {
	Layouter    string  `json:"layouter"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Font        string  `json:"font"`
	MinFontSize float64 `json:"min_font_size"`
	MaxFontSize float64 `json:"max_font_size"`
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string   `json:"format"`
	Background string   `json:"background"`
	Palette    []string `json:"palette,omitempty"`
	Boxes      bool     `json:"boxes,omitempty"`
	Scale      int      `json:"scale,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey generates a key for a layout of the frequency list with the given hash.
	LayoutKey(freqHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for an artifact rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(freqHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", freqHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

type nullCache struct{}

// NewNullCache returns a Cache that stores nothing; every Get misses. It
// backs --no-cache runs and runners built without a cache.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error { return nil }
func (nullCache) Close() error { return nil }
