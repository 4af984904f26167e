// Package cache provides byte-level caching for graph projections.
//
// The [Cache] interface is backend-agnostic: the server runs it against
// Redis or an in-process LRU, the CLI against the filesystem, and tests
// against [NullCache]. Keys are built by a [Keyer] so every projection of
// the dependency graph lives under one shared prefix and a single
// [Cache.DeletePrefix] call invalidates all of them after a catalog write.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached artifact classes. Projections are invalidated on
// every write anyway, so their TTL only bounds staleness across processes
// that miss an invalidation (for example a CLI talking to the same Redis).
const (
	// TTLGraph applies to graph projections: payload, trees, paths,
	// cycles, critical lists, and stats.
	TTLGraph = 5 * time.Minute

	// TTLExport applies to rendered artifacts (DOT, SVG, JSON exports),
	// which are more expensive to produce than to verify stale.
	TTLExport = time.Hour
)

// Cache is a byte-level cache with per-entry TTLs.
//
// Get reports a miss with (nil, false, nil); errors are reserved for
// backend failures. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the entry stored under key, if any.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no per-entry expiry;
	// backends may still evict under pressure.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a single entry. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every entry whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Close releases backend resources.
	Close() error
}

// ======================================================================
// Key construction
// ======================================================================

// TreeKeyOpts parameterizes dependency tree projection keys.
type TreeKeyOpts struct {
	RootID   int64 `json:"root_id"`
	MaxDepth int   `json:"max_depth"`
}

// PathKeyOpts parameterizes shortest path query keys.
type PathKeyOpts struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
}

// ExportKeyOpts parameterizes rendered export keys.
type ExportKeyOpts struct {
	Format        string `json:"format"`
	Detailed      bool   `json:"detailed"`
	ExternalNodes bool   `json:"external_nodes"`
}

// Keyer builds the cache keys for graph projections. All keys share
// [Keyer.ProjectionPrefix], which is what write paths pass to
// [Cache.DeletePrefix].
type Keyer interface {
	// ProjectionPrefix returns the prefix every generated key starts with.
	ProjectionPrefix() string

	// GraphKey returns the key for the full node-link payload.
	GraphKey() string

	// TreeKey returns the key for a tree projection.
	TreeKey(opts TreeKeyOpts) string

	// PathKey returns the key for a shortest path query.
	PathKey(opts PathKeyOpts) string

	// AnalysisKey returns the key for a parameterless analysis
	// ("cycles", "critical", "stats").
	AnalysisKey(kind string) string

	// ExportKey returns the key for a rendered export.
	ExportKey(opts ExportKeyOpts) string
}

// projectionPrefix is the namespace shared by every DefaultKeyer key.
const projectionPrefix = "graph:"

// DefaultKeyer is the standard key scheme. Parameterless projections use
// readable fixed keys; parameterized ones hash their options so key length
// stays bounded and encoding details never leak into key syntax.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ProjectionPrefix returns the shared "graph:" namespace.
func (k *DefaultKeyer) ProjectionPrefix() string { return projectionPrefix }

// GraphKey returns the key for the full node-link payload.
func (k *DefaultKeyer) GraphKey() string { return projectionPrefix + "payload" }

// TreeKey returns the key for a tree projection rooted at opts.RootID.
func (k *DefaultKeyer) TreeKey(opts TreeKeyOpts) string {
	return hashKey(projectionPrefix+"tree", opts)
}

// PathKey returns the key for a shortest path query.
func (k *DefaultKeyer) PathKey(opts PathKeyOpts) string {
	return hashKey(projectionPrefix+"path", opts)
}

// AnalysisKey returns the key for a parameterless analysis kind.
func (k *DefaultKeyer) AnalysisKey(kind string) string {
	return projectionPrefix + "analysis:" + kind
}

// ExportKey returns the key for a rendered export.
func (k *DefaultKeyer) ExportKey(opts ExportKeyOpts) string {
	return hashKey(projectionPrefix+"export", opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
