// Package cache provides the byte caches and cache keys used for wiki API
// responses and built lists.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for the preview server
//   - [NullCache]: caching disabled
//
// All backends implement [Cache]. Backends that can drop every entry they
// own also implement [Clearer].
//
// # Keys
//
// A [Keyer] derives cache keys. [DefaultKeyer] produces readable keys for
// HTTP responses and hashed keys for built lists; [ScopedKeyer] adds a
// prefix for isolating environments that share one backend.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss or when
	// the entry expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can remove all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey returns the key of a cached HTTP response.
	HTTPKey(namespace, key string) string

	// ListKey returns the key of a built list.
	ListKey(name string, opts ListKeyOpts) string
}

// ListKeyOpts holds everything besides the list name that changes the
// aggregated tree of a list.
type ListKeyOpts struct {
	Definition   string `json:"definition"` // hash of the list definition
	Source       string `json:"source"`     // wiki API URL
	DropUnmapped bool   `json:"drop_unmapped"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ListKey returns "list:<hash>" where the hash covers name and opts.
func (DefaultKeyer) ListKey(name string, opts ListKeyOpts) string {
	return hashKey("list", name, opts)
}
