package store

import (
	"context"
	"sync"
	"time"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/errors"
)

// MemoryStore is an in-memory catalog store for development and tests.
// Records live in insertion-order slices so snapshots reproduce creation
// order exactly, which keeps graph builds deterministic.
type MemoryStore struct {
	mu sync.RWMutex

	apps        []catalog.Application
	deps        []catalog.Dependency
	routes      []catalog.Route
	deployments []catalog.Deployment

	nextApp        int64
	nextDep        int64
	nextRoute      int64
	nextDeployment int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ======================================================================
// Applications
// ======================================================================

func (s *MemoryStore) ListApplications(ctx context.Context, filter ApplicationFilter) ([]catalog.Application, error) {
	filter = normalizeApplicationFilter(filter)

	s.mu.RLock()
	var matched []catalog.Application
	for i := range s.apps {
		app := &s.apps[i]
		if filter.Type != "" && app.Type != filter.Type {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.Category != "" && app.Category != filter.Category {
			continue
		}
		matched = append(matched, app.Clone())
	}
	s.mu.RUnlock()

	SortApplications(matched)
	return page(matched, filter.Skip, filter.Limit), nil
}

func (s *MemoryStore) SearchApplications(ctx context.Context, query string, limit int) ([]catalog.Application, error) {
	limit = normalizeSearchLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []catalog.Application
	for i := range s.apps {
		if !matchesSearch(&s.apps[i], query) {
			continue
		}
		matched = append(matched, s.apps[i].Clone())
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (s *MemoryStore) GetApplication(ctx context.Context, id int64) (*catalog.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.apps {
		if s.apps[i].ID == id {
			app := s.apps[i].Clone()
			return &app, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetApplicationByCode(ctx context.Context, code string) (*catalog.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.apps {
		if s.apps[i].Code == code {
			app := s.apps[i].Clone()
			return &app, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateApplication(ctx context.Context, app *catalog.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.apps {
		if s.apps[i].Code == app.Code {
			return errors.New(errors.ErrCodeConflict, "application code %q already exists", app.Code)
		}
	}

	s.nextApp++
	app.ID = s.nextApp
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	s.apps = append(s.apps, app.Clone())
	return nil
}

func (s *MemoryStore) UpdateApplication(ctx context.Context, app *catalog.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.apps {
		if s.apps[i].Code == app.Code && s.apps[i].ID != app.ID {
			return errors.New(errors.ErrCodeConflict, "application code %q already exists", app.Code)
		}
	}

	for i := range s.apps {
		if s.apps[i].ID == app.ID {
			app.CreatedAt = s.apps[i].CreatedAt
			app.UpdatedAt = time.Now().UTC()
			s.apps[i] = app.Clone()
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "application %d not found", app.ID)
}

func (s *MemoryStore) DeleteApplication(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.apps {
		if s.apps[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New(errors.ErrCodeNotFound, "application %d not found", id)
	}

	s.apps = append(s.apps[:idx], s.apps[idx+1:]...)

	// Cascade: dependencies touching the application, its routes, and
	// its deployments.
	deps := s.deps[:0]
	for i := range s.deps {
		d := &s.deps[i]
		if d.ConsumerID == id || (d.ProviderID != nil && *d.ProviderID == id) {
			continue
		}
		deps = append(deps, *d)
	}
	s.deps = deps

	routes := s.routes[:0]
	for i := range s.routes {
		if s.routes[i].ApplicationID != id {
			routes = append(routes, s.routes[i])
		}
	}
	s.routes = routes

	deployments := s.deployments[:0]
	for i := range s.deployments {
		if s.deployments[i].ApplicationID != id {
			deployments = append(deployments, s.deployments[i])
		}
	}
	s.deployments = deployments

	return nil
}

// ======================================================================
// Dependencies
// ======================================================================

func (s *MemoryStore) ListDependencies(ctx context.Context, filter DependencyFilter) ([]catalog.Dependency, error) {
	filter = normalizeDependencyFilter(filter)

	s.mu.RLock()
	var matched []catalog.Dependency
	for i := range s.deps {
		d := &s.deps[i]
		if filter.ConsumerID != 0 && d.ConsumerID != filter.ConsumerID {
			continue
		}
		if filter.ProviderID != 0 && (d.ProviderID == nil || *d.ProviderID != filter.ProviderID) {
			continue
		}
		matched = append(matched, d.Clone())
	}
	s.mu.RUnlock()

	return page(matched, filter.Skip, filter.Limit), nil
}

func (s *MemoryStore) GetDependency(ctx context.Context, id int64) (*catalog.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.deps {
		if s.deps[i].ID == id {
			dep := s.deps[i].Clone()
			return &dep, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateDependency(ctx context.Context, dep *catalog.Dependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEndpoints(dep); err != nil {
		return err
	}

	s.nextDep++
	dep.ID = s.nextDep
	now := time.Now().UTC()
	dep.CreatedAt = now
	dep.UpdatedAt = now

	s.deps = append(s.deps, dep.Clone())
	return nil
}

func (s *MemoryStore) UpdateDependency(ctx context.Context, dep *catalog.Dependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEndpoints(dep); err != nil {
		return err
	}

	for i := range s.deps {
		if s.deps[i].ID == dep.ID {
			dep.CreatedAt = s.deps[i].CreatedAt
			dep.UpdatedAt = time.Now().UTC()
			s.deps[i] = dep.Clone()
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "dependency %d not found", dep.ID)
}

func (s *MemoryStore) DeleteDependency(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.deps {
		if s.deps[i].ID == id {
			s.deps = append(s.deps[:i], s.deps[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "dependency %d not found", id)
}

// checkEndpoints enforces referential integrity for a dependency record.
// Callers must hold the lock.
func (s *MemoryStore) checkEndpoints(dep *catalog.Dependency) error {
	if !s.appExists(dep.ConsumerID) {
		return errors.New(errors.ErrCodeIntegrity, "consumer application %d not found", dep.ConsumerID)
	}
	if dep.ProviderID != nil && !s.appExists(*dep.ProviderID) {
		return errors.New(errors.ErrCodeIntegrity, "provider application %d not found", *dep.ProviderID)
	}
	return nil
}

func (s *MemoryStore) appExists(id int64) bool {
	for i := range s.apps {
		if s.apps[i].ID == id {
			return true
		}
	}
	return false
}

// ======================================================================
// Routes and deployments
// ======================================================================

func (s *MemoryStore) ListRoutes(ctx context.Context, appID int64) ([]catalog.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []catalog.Route
	for i := range s.routes {
		if s.routes[i].ApplicationID == appID {
			matched = append(matched, s.routes[i].Clone())
		}
	}
	return matched, nil
}

func (s *MemoryStore) CreateRoute(ctx context.Context, route *catalog.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.appExists(route.ApplicationID) {
		return errors.New(errors.ErrCodeIntegrity, "application %d not found", route.ApplicationID)
	}

	s.nextRoute++
	route.ID = s.nextRoute
	now := time.Now().UTC()
	route.CreatedAt = now
	route.UpdatedAt = now

	s.routes = append(s.routes, route.Clone())
	return nil
}

func (s *MemoryStore) RouteCounts(ctx context.Context) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int)
	for i := range s.routes {
		counts[s.routes[i].ApplicationID]++
	}
	return counts, nil
}

func (s *MemoryStore) ListDeployments(ctx context.Context, appID int64) ([]catalog.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []catalog.Deployment
	for i := range s.deployments {
		if s.deployments[i].ApplicationID == appID {
			matched = append(matched, s.deployments[i].Clone())
		}
	}
	return matched, nil
}

func (s *MemoryStore) CreateDeployment(ctx context.Context, deployment *catalog.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.appExists(deployment.ApplicationID) {
		return errors.New(errors.ErrCodeIntegrity, "application %d not found", deployment.ApplicationID)
	}

	s.nextDeployment++
	deployment.ID = s.nextDeployment
	now := time.Now().UTC()
	deployment.CreatedAt = now
	deployment.UpdatedAt = now

	s.deployments = append(s.deployments, deployment.Clone())
	return nil
}

// ======================================================================
// Snapshot and lifecycle
// ======================================================================

func (s *MemoryStore) Snapshot(ctx context.Context) ([]catalog.Application, []catalog.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	apps := make([]catalog.Application, 0, len(s.apps))
	for i := range s.apps {
		apps = append(apps, s.apps[i].Clone())
	}
	deps := make([]catalog.Dependency, 0, len(s.deps))
	for i := range s.deps {
		deps = append(deps, s.deps[i].Clone())
	}
	return apps, deps, nil
}

func (s *MemoryStore) CountApplications(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.apps)), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// page applies skip/limit to an already sorted slice.
func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
