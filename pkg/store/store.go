// Package store provides persistence for the application catalog.
//
// This package defines the storage interface for catalog records
// (applications, dependencies, routes, deployments), with implementations
// for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
//
// # Architecture
//
// The catalog is flat relational data: applications are vertices,
// dependencies are edges referencing applications by integer id. The graph
// itself is never stored; serving contexts call [Store.Snapshot] and build
// it fresh. The Store therefore guards the only invariants that must hold
// at rest:
//   - application codes are unique
//   - dependency consumers exist
//   - non-external dependency providers exist
//
// Integer ids are allocated by the store (memory: counter, mongo: a
// counters collection), so records created in sequence get sequential ids.
//
// # Usage
//
// Create a store:
//
//	// Development
//	st := store.NewMemoryStore()
//
//	// Production
//	st, err := store.NewMongoStore(ctx, "mongodb://localhost:27017", "sam")
//
// Manage records:
//
//	app := &catalog.Application{Code: "ULM", Name: "User Login Manager", ...}
//	if err := st.CreateApplication(ctx, app); err != nil {
//	    return err
//	}
//	// app.ID is now assigned
//
//	apps, deps, err := st.Snapshot(ctx)
//	g, err := depgraph.Build(apps, deps)
package store

import (
	"context"
	"sort"
	"strings"

	"github.com/sysmap/sam/pkg/catalog"
)

// Default pagination bounds, applied when a filter leaves them unset.
const (
	// DefaultListLimit caps unpaginated list queries.
	DefaultListLimit = 100

	// DefaultSearchLimit caps search results.
	DefaultSearchLimit = 10
)

// ApplicationFilter narrows and pages ListApplications. Zero values mean
// "no constraint"; Limit 0 falls back to DefaultListLimit.
type ApplicationFilter struct {
	Type     catalog.AppType
	Status   catalog.AppStatus
	Category string
	Skip     int
	Limit    int
}

// DependencyFilter narrows and pages ListDependencies. ConsumerID and
// ProviderID of 0 mean "no constraint".
type DependencyFilter struct {
	ConsumerID int64
	ProviderID int64
	Skip       int
	Limit      int
}

// Store is the interface for catalog storage backends.
//
// Get methods return nil, nil when the record doesn't exist; Update and
// Delete return a not-found coded error instead, since the caller named a
// record it expected to be there. Creates assign the record's ID and
// timestamps. Duplicate application codes and dangling dependency
// endpoints surface as conflict and integrity coded errors.
type Store interface {
	// Applications
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]catalog.Application, error)
	SearchApplications(ctx context.Context, query string, limit int) ([]catalog.Application, error)
	GetApplication(ctx context.Context, id int64) (*catalog.Application, error)
	GetApplicationByCode(ctx context.Context, code string) (*catalog.Application, error)
	CreateApplication(ctx context.Context, app *catalog.Application) error
	UpdateApplication(ctx context.Context, app *catalog.Application) error

	// DeleteApplication removes the application and cascades: its
	// dependencies (both directions), routes, and deployments go with it.
	DeleteApplication(ctx context.Context, id int64) error

	// Dependencies
	ListDependencies(ctx context.Context, filter DependencyFilter) ([]catalog.Dependency, error)
	GetDependency(ctx context.Context, id int64) (*catalog.Dependency, error)
	CreateDependency(ctx context.Context, dep *catalog.Dependency) error
	UpdateDependency(ctx context.Context, dep *catalog.Dependency) error
	DeleteDependency(ctx context.Context, id int64) error

	// Routes
	ListRoutes(ctx context.Context, appID int64) ([]catalog.Route, error)
	CreateRoute(ctx context.Context, route *catalog.Route) error

	// RouteCounts returns the number of routes per application id, for
	// the graph payload's per-node counts.
	RouteCounts(ctx context.Context) (map[int64]int, error)

	// Deployments
	ListDeployments(ctx context.Context, appID int64) ([]catalog.Deployment, error)
	CreateDeployment(ctx context.Context, deployment *catalog.Deployment) error

	// Snapshot returns every application and dependency in insertion
	// order, for graph builds.
	Snapshot(ctx context.Context) ([]catalog.Application, []catalog.Dependency, error)

	// CountApplications returns the total number of applications.
	CountApplications(ctx context.Context) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// normalizeApplicationFilter applies pagination defaults.
func normalizeApplicationFilter(f ApplicationFilter) ApplicationFilter {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	return f
}

// normalizeDependencyFilter applies pagination defaults.
func normalizeDependencyFilter(f DependencyFilter) DependencyFilter {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	return f
}

// normalizeSearchLimit applies the search result cap.
func normalizeSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	return limit
}

// SortApplications orders applications for listing: display order
// ascending with unset orders last, then name. The sort is stable so
// equal entries keep their relative insertion order.
func SortApplications(apps []catalog.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		oi, oj := apps[i].DisplayOrder, apps[j].DisplayOrder
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		}
		return apps[i].Name < apps[j].Name
	})
}

// matchesSearch reports whether the application matches a case-insensitive
// substring query over name, code, display name, and description.
func matchesSearch(app *catalog.Application, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{app.Name, app.Code, app.DisplayName, app.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
