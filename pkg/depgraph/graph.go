package depgraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sysmap/sam/pkg/catalog"
)

var (
	// ErrInvalidApplicationID is returned by [Graph.AddApplication] when the
	// application id is not positive. All vertices need real identifiers.
	ErrInvalidApplicationID = errors.New("application id must be positive")

	// ErrDuplicateApplication is returned by [Graph.AddApplication] when an
	// application with the same id already exists in the graph.
	ErrDuplicateApplication = errors.New("duplicate application id")

	// ErrDuplicateCode is returned by [Graph.AddApplication] when another
	// application already carries the same code. Codes are the human-facing
	// vertex keys and must be unique.
	ErrDuplicateCode = errors.New("duplicate application code")

	// ErrUnknownConsumer is returned by [Graph.AddDependency] when the
	// consumer_id does not reference a known application. This is a
	// data-integrity error, never silently dropped.
	ErrUnknownConsumer = errors.New("dependency consumer not in catalog")

	// ErrUnknownProvider is returned by [Graph.AddDependency] when a non-nil
	// provider_id does not reference a known application. A nil provider_id
	// is a valid external dependency; a dangling one is corruption.
	ErrUnknownProvider = errors.New("dependency provider not in catalog")

	// ErrNotFound is returned by lookup and traversal operations when an
	// application id does not exist in the graph.
	ErrNotFound = errors.New("application not found")
)

// Graph is a directed dependency graph over one immutable snapshot of
// catalog records. Vertices are applications keyed by id; edges are
// dependencies in consumer→provider direction. Adjacency lists preserve
// record insertion order.
//
// The zero value is not usable - use New or Build.
type Graph struct {
	apps   map[int64]*catalog.Application
	byCode map[string]int64
	order  []int64 // application ids in insertion order

	deps     []*catalog.Dependency           // every dependency record, insertion order
	outgoing map[int64][]*catalog.Dependency // consumer id -> internal edges
	incoming map[int64][]*catalog.Dependency // provider id -> internal edges
	external map[int64][]*catalog.Dependency // consumer id -> external edges (nil provider)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		apps:     make(map[int64]*catalog.Application),
		byCode:   make(map[string]int64),
		outgoing: make(map[int64][]*catalog.Dependency),
		incoming: make(map[int64][]*catalog.Dependency),
		external: make(map[int64][]*catalog.Dependency),
	}
}

// Build constructs a graph from a full snapshot of catalog records.
// Applications are added first, then dependencies, both in slice order.
// Returns the first integrity error encountered, naming the offending
// record; a partially valid snapshot never yields a partially built graph
// for the caller to use.
func Build(apps []catalog.Application, deps []catalog.Dependency) (*Graph, error) {
	g := New()
	for i := range apps {
		if err := g.AddApplication(&apps[i]); err != nil {
			return nil, fmt.Errorf("application %d (%s): %w", apps[i].ID, apps[i].Code, err)
		}
	}
	for i := range deps {
		if err := g.AddDependency(&deps[i]); err != nil {
			return nil, fmt.Errorf("dependency %d (%s): %w", deps[i].ID, deps[i].Name, err)
		}
	}
	return g, nil
}

// AddApplication adds a vertex to the graph.
// Returns ErrInvalidApplicationID, ErrDuplicateApplication, or
// ErrDuplicateCode when the record cannot be a valid vertex.
// The application is referenced, not copied; callers hand the graph an
// immutable snapshot and must not mutate records afterwards.
func (g *Graph) AddApplication(app *catalog.Application) error {
	if app.ID <= 0 {
		return ErrInvalidApplicationID
	}
	if _, exists := g.apps[app.ID]; exists {
		return ErrDuplicateApplication
	}
	if app.Code != "" {
		if _, exists := g.byCode[app.Code]; exists {
			return ErrDuplicateCode
		}
		g.byCode[app.Code] = app.ID
	}
	g.apps[app.ID] = app
	g.order = append(g.order, app.ID)
	return nil
}

// AddDependency adds an edge to the graph.
// Edges with both endpoints resolved enter the adjacency lists; edges with
// a nil provider are recorded as external and excluded from traversal.
// Returns ErrUnknownConsumer or ErrUnknownProvider when an endpoint does
// not resolve; endpoints are checked here, at insertion time, never lazily
// during traversal.
func (g *Graph) AddDependency(dep *catalog.Dependency) error {
	if _, ok := g.apps[dep.ConsumerID]; !ok {
		return fmt.Errorf("%w: consumer_id=%d", ErrUnknownConsumer, dep.ConsumerID)
	}
	if dep.ProviderID != nil {
		if _, ok := g.apps[*dep.ProviderID]; !ok {
			return fmt.Errorf("%w: provider_id=%d", ErrUnknownProvider, *dep.ProviderID)
		}
	}

	g.deps = append(g.deps, dep)
	if dep.ProviderID == nil {
		g.external[dep.ConsumerID] = append(g.external[dep.ConsumerID], dep)
		return nil
	}
	g.outgoing[dep.ConsumerID] = append(g.outgoing[dep.ConsumerID], dep)
	g.incoming[*dep.ProviderID] = append(g.incoming[*dep.ProviderID], dep)
	return nil
}

// Application returns the application with the given id and true, or nil
// and false if the id is not a vertex.
func (g *Graph) Application(id int64) (*catalog.Application, bool) {
	app, ok := g.apps[id]
	return app, ok
}

// ApplicationByCode returns the application with the given code and true,
// or nil and false if no vertex carries that code.
func (g *Graph) ApplicationByCode(code string) (*catalog.Application, bool) {
	id, ok := g.byCode[code]
	if !ok {
		return nil, false
	}
	return g.apps[id], true
}

// Applications returns all vertices in insertion order.
func (g *Graph) Applications() []*catalog.Application {
	apps := make([]*catalog.Application, len(g.order))
	for i, id := range g.order {
		apps[i] = g.apps[id]
	}
	return apps
}

// Dependencies returns every dependency record in insertion order,
// internal and external alike.
func (g *Graph) Dependencies() []*catalog.Dependency {
	return slices.Clone(g.deps)
}

// Providers returns the internal edges leaving the application: what it
// requires. Order is record insertion order. The returned slice should not
// be modified - use it as a read-only view.
func (g *Graph) Providers(id int64) []*catalog.Dependency { return g.outgoing[id] }

// Consumers returns the internal edges entering the application: who
// requires it. Order is record insertion order. The returned slice should
// not be modified - use it as a read-only view.
func (g *Graph) Consumers(id int64) []*catalog.Dependency { return g.incoming[id] }

// ExternalDependencies returns the application's edges to external
// resources (nil provider). The returned slice should not be modified.
func (g *Graph) ExternalDependencies(id int64) []*catalog.Dependency { return g.external[id] }

// DependenciesCount returns the number of outgoing edges from the
// application, external edges included. Returns 0 for unknown ids.
func (g *Graph) DependenciesCount(id int64) int {
	return len(g.outgoing[id]) + len(g.external[id])
}

// DependentsCount returns the number of incoming edges to the application.
// Returns 0 for unknown ids.
func (g *Graph) DependentsCount(id int64) int { return len(g.incoming[id]) }

// NodeCount returns the number of applications in the graph.
func (g *Graph) NodeCount() int { return len(g.apps) }

// EdgeCount returns the number of internal edges (both endpoints resolved).
func (g *Graph) EdgeCount() int { return len(g.deps) - g.externalCount() }

// TotalDependencies returns the number of dependency records, external
// edges included.
func (g *Graph) TotalDependencies() int { return len(g.deps) }

func (g *Graph) externalCount() int {
	n := 0
	for _, edges := range g.external {
		n += len(edges)
	}
	return n
}

// CriticalDependencies returns every dependency whose criticality warrants
// operator attention (critical or high), in record insertion order.
// External edges are included: a critical managed database is exactly the
// kind of edge this view exists to surface.
func (g *Graph) CriticalDependencies() []*catalog.Dependency {
	var out []*catalog.Dependency
	for _, dep := range g.deps {
		if dep.Criticality.Severe() {
			out = append(out, dep)
		}
	}
	return out
}
