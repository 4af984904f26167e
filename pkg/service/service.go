// Package service orchestrates graph builds and cached projections.
//
// The Service sits between the HTTP/CLI surfaces and the leaf packages:
// it pulls an immutable catalog snapshot from the store, builds the
// dependency graph, runs the requested projection, and caches the
// serialized result. Every catalog write goes through the Service too,
// so the projection cache is invalidated synchronously before the write
// returns - a stale cycle report or path could mask a real operational
// misconfiguration.
//
// The Service is stateless apart from the cache and logger; concurrent
// requests each build from their own snapshot and need no coordination.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sysmap/sam/pkg/cache"
	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/depgraph"
	"github.com/sysmap/sam/pkg/errors"
	"github.com/sysmap/sam/pkg/observability"
	"github.com/sysmap/sam/pkg/store"
)

// Export formats accepted by [Service.Export].
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Service runs graph projections over the catalog with caching.
type Service struct {
	Store  store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// New creates a Service. A nil cache disables caching via [cache.NullCache];
// a nil keyer falls back to the default key scheme.
func New(st store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Service {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Store: st, Cache: c, Keyer: keyer, Logger: logger}
}

// build pulls a catalog snapshot and constructs the graph from it.
func (s *Service) build(ctx context.Context) (*depgraph.Graph, error) {
	apps, deps, err := s.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot catalog: %w", err)
	}

	observability.Graph().OnBuildStart(ctx, len(apps), len(deps))
	start := time.Now()

	g, err := depgraph.Build(apps, deps)
	duration := time.Since(start)
	if err != nil {
		observability.Graph().OnBuildComplete(ctx, 0, 0, duration, err)
		return nil, errors.Wrap(errors.ErrCodeIntegrity, err, "build dependency graph")
	}

	observability.Graph().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), duration, nil)
	s.Logger.Debug("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", duration.Round(time.Millisecond))
	return g, nil
}

// Graph returns the full node-link payload. The boolean reports whether
// the result came from the cache.
func (s *Service) Graph(ctx context.Context) (*depgraph.Payload, bool, error) {
	key := s.Keyer.GraphKey()
	if p, ok := cachedJSON[depgraph.Payload](ctx, s, key, "graph"); ok {
		return p, true, nil
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}
	routeCounts, err := s.Store.RouteCounts(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("count routes: %w", err)
	}

	payload := g.Payload(routeCounts)
	s.storeJSON(ctx, key, "graph", &payload)
	return &payload, false, nil
}

// Tree returns the dependency tree rooted at rootID, expanded maxDepth
// levels. maxDepth <= 0 falls back to [depgraph.DefaultTreeDepth].
func (s *Service) Tree(ctx context.Context, rootID int64, maxDepth int) (*depgraph.TreeNode, bool, error) {
	if maxDepth <= 0 {
		maxDepth = depgraph.DefaultTreeDepth
	}

	key := s.Keyer.TreeKey(cache.TreeKeyOpts{RootID: rootID, MaxDepth: maxDepth})
	if t, ok := cachedJSON[depgraph.TreeNode](ctx, s, key, "tree"); ok {
		return t, true, nil
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	tree, err := s.projectTree(ctx, g, rootID, maxDepth)
	if err != nil {
		return nil, false, err
	}
	s.storeJSON(ctx, key, "tree", tree)
	return tree, false, nil
}

func (s *Service) projectTree(ctx context.Context, g *depgraph.Graph, rootID int64, maxDepth int) (*depgraph.TreeNode, error) {
	observability.Graph().OnProjectionStart(ctx, "tree")
	start := time.Now()
	tree, err := g.BuildTree(rootID, maxDepth)
	observability.Graph().OnProjectionComplete(ctx, "tree", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "application %d not found", rootID)
	}
	return tree, nil
}

// PathResult is the outcome of a shortest-path query. Found false means
// the target is unreachable - a valid result, not an error.
type PathResult struct {
	Found bool           `json:"found"`
	Path  *depgraph.Path `json:"path,omitempty"`
}

// Path returns the shortest dependency chain between two applications.
// Unknown endpoints yield a not-found error; an unreachable target yields
// Found false.
func (s *Service) Path(ctx context.Context, fromID, toID int64) (*PathResult, bool, error) {
	key := s.Keyer.PathKey(cache.PathKeyOpts{FromID: fromID, ToID: toID})
	if r, ok := cachedJSON[PathResult](ctx, s, key, "path"); ok {
		return r, true, nil
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	observability.Graph().OnProjectionStart(ctx, "path")
	start := time.Now()
	path, err := g.FindPath(fromID, toID)
	observability.Graph().OnProjectionComplete(ctx, "path", time.Since(start), err)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeNotFound, err, "path endpoints must be cataloged applications")
	}

	result := &PathResult{Found: path != nil, Path: path}
	s.storeJSON(ctx, key, "path", result)
	return result, false, nil
}

// CyclesResult is the circular-dependency report.
type CyclesResult struct {
	Cycles      [][]int64 `json:"cycles"`
	Count       int       `json:"count"`
	HasCircular bool      `json:"has_circular"`
}

// Cycles returns every distinct circular dependency chain. An empty
// report is the expected healthy outcome.
func (s *Service) Cycles(ctx context.Context) (*CyclesResult, bool, error) {
	key := s.Keyer.AnalysisKey("cycles")
	if r, ok := cachedJSON[CyclesResult](ctx, s, key, "cycles"); ok {
		return r, true, nil
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	observability.Graph().OnProjectionStart(ctx, "cycles")
	start := time.Now()
	cycles := g.Cycles()
	observability.Graph().OnProjectionComplete(ctx, "cycles", time.Since(start), nil)

	if cycles == nil {
		cycles = [][]int64{}
	}
	result := &CyclesResult{Cycles: cycles, Count: len(cycles), HasCircular: len(cycles) > 0}
	s.storeJSON(ctx, key, "cycles", result)
	return result, false, nil
}

// DependencyView is a dependency record with its endpoint names resolved,
// the shape the REST API returns for dependency listings.
type DependencyView struct {
	catalog.Dependency
	ConsumerName string `json:"consumer_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
}

// CriticalResult lists the dependencies that warrant operator attention.
type CriticalResult struct {
	Dependencies []DependencyView `json:"dependencies"`
	Count        int              `json:"count"`
}

// Critical returns the dependencies with critical or high criticality,
// endpoint names resolved, in record order.
func (s *Service) Critical(ctx context.Context) (*CriticalResult, bool, error) {
	key := s.Keyer.AnalysisKey("critical")
	if r, ok := cachedJSON[CriticalResult](ctx, s, key, "critical"); ok {
		return r, true, nil
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	observability.Graph().OnProjectionStart(ctx, "critical")
	start := time.Now()
	severe := g.CriticalDependencies()
	observability.Graph().OnProjectionComplete(ctx, "critical", time.Since(start), nil)

	views := make([]DependencyView, 0, len(severe))
	for _, dep := range severe {
		views = append(views, resolveView(g, dep))
	}
	result := &CriticalResult{Dependencies: views, Count: len(views)}
	s.storeJSON(ctx, key, "critical", result)
	return result, false, nil
}

// Stats returns the global aggregates of the current snapshot.
func (s *Service) Stats(ctx context.Context) (*depgraph.Stats, bool, error) {
	key := s.Keyer.AnalysisKey("stats")
	if st, ok := cachedJSON[depgraph.Stats](ctx, s, key, "stats"); ok {
		return st, true, nil
	}

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	observability.Graph().OnProjectionStart(ctx, "stats")
	start := time.Now()
	stats := g.Stats()
	observability.Graph().OnProjectionComplete(ctx, "stats", time.Since(start), nil)

	s.storeJSON(ctx, key, "stats", &stats)
	return &stats, false, nil
}

// ExportOptions configures [Service.Export].
type ExportOptions struct {
	// Format is one of FormatDOT, FormatSVG, or FormatJSON.
	Format string

	// Detailed adds type, status, and counts to DOT/SVG node labels.
	Detailed bool

	// ExternalNodes draws external dependencies as dashed leaves.
	ExternalNodes bool
}

// Export renders the graph as a DOT document, an SVG image, or an
// indented JSON payload.
func (s *Service) Export(ctx context.Context, opts ExportOptions) ([]byte, bool, error) {
	switch opts.Format {
	case FormatDOT, FormatSVG, FormatJSON:
	default:
		return nil, false, errors.New(errors.ErrCodeUnsupported, "unknown export format %q", opts.Format)
	}

	key := s.Keyer.ExportKey(cache.ExportKeyOpts{
		Format:        opts.Format,
		Detailed:      opts.Detailed,
		ExternalNodes: opts.ExternalNodes,
	})
	if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "export")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "export")

	g, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	observability.Graph().OnProjectionStart(ctx, opts.Format)
	start := time.Now()
	data, err := s.render(ctx, g, opts)
	observability.Graph().OnProjectionComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := s.Cache.Set(ctx, key, data, cache.TTLExport); err == nil {
		observability.Cache().OnCacheSet(ctx, "export", len(data))
	}
	return data, false, nil
}

func (s *Service) render(ctx context.Context, g *depgraph.Graph, opts ExportOptions) ([]byte, error) {
	dotOpts := depgraph.DOTOptions{Detailed: opts.Detailed, ExternalNodes: opts.ExternalNodes}
	switch opts.Format {
	case FormatDOT:
		return []byte(g.ToDOT(dotOpts)), nil
	case FormatSVG:
		svg, err := depgraph.RenderSVG(ctx, g.ToDOT(dotOpts))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return svg, nil
	default: // FormatJSON, validated by the caller
		routeCounts, err := s.Store.RouteCounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("count routes: %w", err)
		}
		payload := g.Payload(routeCounts)
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode payload")
		}
		return data, nil
	}
}

// ResolveDependencies attaches consumer and provider names to dependency
// records for API responses. Names resolve against the current catalog;
// a dangling endpoint (deleted after the record was read) leaves the name
// empty rather than failing the listing.
func (s *Service) ResolveDependencies(ctx context.Context, deps []catalog.Dependency) ([]DependencyView, error) {
	apps, _, err := s.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot catalog: %w", err)
	}
	names := make(map[int64]string, len(apps))
	for _, app := range apps {
		names[app.ID] = app.DisplayName
	}

	views := make([]DependencyView, 0, len(deps))
	for i := range deps {
		view := DependencyView{Dependency: deps[i]}
		view.ConsumerName = names[deps[i].ConsumerID]
		if deps[i].ProviderID != nil {
			view.ProviderName = names[*deps[i].ProviderID]
		}
		views = append(views, view)
	}
	return views, nil
}

func resolveView(g *depgraph.Graph, dep *catalog.Dependency) DependencyView {
	view := DependencyView{Dependency: *dep}
	if app, ok := g.Application(dep.ConsumerID); ok {
		view.ConsumerName = app.DisplayName
	}
	if dep.ProviderID != nil {
		if app, ok := g.Application(*dep.ProviderID); ok {
			view.ProviderName = app.DisplayName
		}
	}
	return view
}

// cachedJSON fetches and decodes a cached projection. Decode failures are
// treated as misses so a stale or corrupt entry is recomputed, never served.
func cachedJSON[T any](ctx context.Context, s *Service, key, keyType string) (*T, bool) {
	data, hit, err := s.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return &v, true
}

// storeJSON caches a projection result. Cache write failures are logged
// and swallowed; serving the fresh result matters more.
func (s *Service) storeJSON(ctx context.Context, key, keyType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.Logger.Warn("encode projection for cache", "key", keyType, "err", err)
		return
	}
	if err := s.Cache.Set(ctx, key, data, cache.TTLGraph); err != nil {
		s.Logger.Warn("cache projection", "key", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache backend.
func (s *Service) Close() error {
	return s.Cache.Close()
}
