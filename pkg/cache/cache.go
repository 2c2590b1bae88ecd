// Package cache stores rendered artifacts and exported graphs by key.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: stores nothing (caching disabled)
//   - [RedisCache]: a Redis server via go-redis
//   - [MongoCache]: a MongoDB collection via the official driver
//
// # Keys
//
// A [Keyer] derives keys from a graph's content hash plus the options that
// affect the output, so identical inputs share cache entries:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(graphJSON), cache.ArtifactKeyOpts{Format: "svg"})
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A missing or expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey identifies a normalized plain graph by content hash.
	GraphKey(graphHash string) string

	// ArtifactKey identifies a rendered artifact of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	FontSize float64 `json:"font_size,omitempty"`
	MarginX  float64 `json:"margin_x,omitempty"`
	MarginY  float64 `json:"margin_y,omitempty"`
	Padding  float64 `json:"padding,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer produces keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(graphHash string) string {
	return "graph:" + graphHash
}

// ArtifactKey hashes the graph hash together with the options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
