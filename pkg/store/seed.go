package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/errors"
)

// Catalog is the JSON snapshot format accepted by Import. Record ids are
// only used to tie dependencies and routes to their applications; they are
// reassigned on insert.
type Catalog struct {
	Applications []catalog.Application `json:"applications"`
	Dependencies []catalog.Dependency  `json:"dependencies,omitempty"`
	Routes       []catalog.Route       `json:"routes,omitempty"`
}

// Load reads and parses a catalog snapshot from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse catalog %s", path)
	}
	return &cat, nil
}

// Seed populates an empty store with the bootstrap catalog: the three core
// applications (ULM, AAM, SAM), their dependency edges, and a handful of
// documented routes each. When the store already holds applications, Seed
// is a no-op unless force is set, in which case the existing catalog is
// deleted first. Returns whether anything was written.
func Seed(ctx context.Context, st Store, force bool) (bool, error) {
	proceed, err := prepare(ctx, st, force)
	if err != nil || !proceed {
		return false, err
	}

	ulm := catalog.Application{
		Code:        "ULM",
		Name:        "User Login Manager",
		DisplayName: "User Login Manager",
		Description: "Central authentication and user management service",
		Purpose:     "Provides centralized authentication, user management, and role-based access control for all platform applications",
		Type:        catalog.AppTypeCore,
		Status:      catalog.AppStatusActive,
		Category:    "Authentication",
		OwnerTeam:   "Core Team",
		OwnerEmail:  "core-team@example.io",
		Version:     "2.0.0",
		FrontendURL: "https://ulm.example.io",
		BackendURL:  "https://ulm.example.io/api/v1",
		DocsURL:     "https://ulm.example.io/docs",
		RepoURL:     "https://github.com/sysmap/ulm",
		TechStack:   []string{"React 18", "TypeScript", "FastAPI", "PostgreSQL 15", "Redis 7"},
		Tags:        []string{"auth", "users", "core"},
		Icon:        "🔐",
		Color:       "#3b82f6",
	}
	aam := catalog.Application{
		Code:        "AAM",
		Name:        "Admin Area Manager",
		DisplayName: "Admin Area Manager",
		Description: "Three-tier admin management system with base, role, and installer components",
		Purpose:     "Provides administrative capabilities and role-based access management across the platform",
		Type:        catalog.AppTypeCore,
		Status:      catalog.AppStatusActive,
		Category:    "Administration",
		OwnerTeam:   "Core Team",
		OwnerEmail:  "core-team@example.io",
		Version:     "1.0.0",
		FrontendURL: "https://aam.example.io",
		BackendURL:  "https://base.aam.example.io/api/v1",
		DocsURL:     "https://aam.example.io/docs",
		RepoURL:     "https://github.com/sysmap/aam",
		TechStack:   []string{"React 18", "TypeScript", "FastAPI", "PostgreSQL 15", "Redis 7"},
		Tags:        []string{"admin", "management", "core"},
		Icon:        "👑",
		Color:       "#8b5cf6",
	}
	sam := catalog.Application{
		Code:        "SAM",
		Name:        "System Application Mapping",
		DisplayName: "System Mapping Manager",
		Description: "Central registry and documentation system for all platform applications and their dependencies",
		Purpose:     "Provides a comprehensive map of the ecosystem, tracking applications, dependencies, routes, and deployments",
		Type:        catalog.AppTypeCore,
		Status:      catalog.AppStatusActive,
		Category:    "Mapping",
		OwnerTeam:   "Core Team",
		OwnerEmail:  "core-team@example.io",
		Version:     "1.0.0",
		FrontendURL: "https://sam.example.io",
		BackendURL:  "https://sam.example.io/api/v1",
		DocsURL:     "https://sam.example.io/docs",
		RepoURL:     "https://github.com/sysmap/sam",
		TechStack:   []string{"React 18", "TypeScript", "Go", "MongoDB", "Redis 7"},
		Tags:        []string{"mapping", "documentation", "core"},
		Icon:        "🗺️",
		Color:       "#10b981",
	}

	for _, app := range []*catalog.Application{&ulm, &aam, &sam} {
		if err := st.CreateApplication(ctx, app); err != nil {
			return false, fmt.Errorf("seed application %s: %w", app.Code, err)
		}
	}

	deps := []catalog.Dependency{
		{
			ConsumerID:  aam.ID,
			ProviderID:  &ulm.ID,
			Name:        "Authentication Service",
			Type:        catalog.DependencyTypeService,
			Criticality: catalog.CriticalityCritical,
			Description: "AAM uses ULM for user authentication and authorization",
			Reason:      "Required for all user authentication flows",
		},
		{
			ConsumerID:  sam.ID,
			ProviderID:  &ulm.ID,
			Name:        "Authentication Service",
			Type:        catalog.DependencyTypeService,
			Criticality: catalog.CriticalityCritical,
			Description: "SAM uses ULM for user authentication",
			Reason:      "Required for all user authentication flows",
		},
		{
			ConsumerID:  ulm.ID,
			Name:        "PostgreSQL Database",
			Type:        catalog.DependencyTypeDatabase,
			Criticality: catalog.CriticalityCritical,
			Description: "Primary database for user data",
			ExternalURL: "postgresql://localhost:5432/ulm_db",
		},
		{
			ConsumerID:  ulm.ID,
			Name:        "Redis Cache",
			Type:        catalog.DependencyTypeCache,
			Criticality: catalog.CriticalityHigh,
			Description: "Session storage and caching",
			ExternalURL: "redis://localhost:6379/0",
		},
	}
	for i := range deps {
		if err := st.CreateDependency(ctx, &deps[i]); err != nil {
			return false, fmt.Errorf("seed dependency %s: %w", deps[i].Name, err)
		}
	}

	routes := []catalog.Route{
		{ApplicationID: ulm.ID, Method: "POST", Path: "/api/v1/auth/login", Summary: "Authenticate and obtain a token", Category: "auth"},
		{ApplicationID: ulm.ID, Method: "POST", Path: "/api/v1/auth/logout", Summary: "Invalidate the current token", RequiresAuth: true, Category: "auth"},
		{ApplicationID: ulm.ID, Method: "GET", Path: "/api/v1/users/me", Summary: "Current user profile", RequiresAuth: true, Category: "users"},
		{ApplicationID: ulm.ID, Method: "GET", Path: "/api/v1/users", Summary: "List users", RequiresAuth: true, RequiredRoles: []string{"admin"}, Category: "users"},
		{ApplicationID: aam.ID, Method: "GET", Path: "/api/v1/admin/dashboard", Summary: "Admin dashboard data", RequiresAuth: true, RequiredRoles: []string{"admin"}, Category: "admin"},
		{ApplicationID: aam.ID, Method: "POST", Path: "/api/v1/admin/roles", Summary: "Create a role", RequiresAuth: true, RequiredRoles: []string{"admin"}, Category: "admin"},
		{ApplicationID: sam.ID, Method: "GET", Path: "/api/v1/applications", Summary: "List cataloged applications", Category: "catalog"},
		{ApplicationID: sam.ID, Method: "POST", Path: "/api/v1/applications", Summary: "Register an application", RequiresAuth: true, Category: "catalog"},
		{ApplicationID: sam.ID, Method: "GET", Path: "/api/v1/graph", Summary: "Full dependency graph", Category: "graph"},
	}
	for i := range routes {
		if err := st.CreateRoute(ctx, &routes[i]); err != nil {
			return false, fmt.Errorf("seed route %s %s: %w", routes[i].Method, routes[i].Path, err)
		}
	}

	return true, nil
}

// Import inserts a catalog snapshot. Application ids are reassigned by the
// store; dependency and route references are rewritten through the old-id
// to new-id mapping. Like Seed, Import refuses to write into a non-empty
// store unless force is set. Returns whether anything was written.
func Import(ctx context.Context, st Store, cat *Catalog, force bool) (bool, error) {
	proceed, err := prepare(ctx, st, force)
	if err != nil || !proceed {
		return false, err
	}

	ids := make(map[int64]int64, len(cat.Applications))
	for _, app := range cat.Applications {
		oldID := app.ID
		if err := app.Validate(); err != nil {
			return false, fmt.Errorf("import application %q: %w", app.Code, err)
		}
		if err := st.CreateApplication(ctx, &app); err != nil {
			return false, fmt.Errorf("import application %q: %w", app.Code, err)
		}
		if oldID != 0 {
			ids[oldID] = app.ID
		}
	}

	for _, dep := range cat.Dependencies {
		consumer, ok := ids[dep.ConsumerID]
		if !ok {
			return false, errors.New(errors.ErrCodeIntegrity,
				"dependency %q references unknown consumer %d", dep.Name, dep.ConsumerID)
		}
		dep.ConsumerID = consumer
		if dep.ProviderID != nil {
			provider, ok := ids[*dep.ProviderID]
			if !ok {
				return false, errors.New(errors.ErrCodeIntegrity,
					"dependency %q references unknown provider %d", dep.Name, *dep.ProviderID)
			}
			dep.ProviderID = &provider
		}
		if err := dep.Validate(); err != nil {
			return false, fmt.Errorf("import dependency %q: %w", dep.Name, err)
		}
		if err := st.CreateDependency(ctx, &dep); err != nil {
			return false, fmt.Errorf("import dependency %q: %w", dep.Name, err)
		}
	}

	for _, route := range cat.Routes {
		appID, ok := ids[route.ApplicationID]
		if !ok {
			return false, errors.New(errors.ErrCodeIntegrity,
				"route %s %s references unknown application %d", route.Method, route.Path, route.ApplicationID)
		}
		route.ApplicationID = appID
		if err := st.CreateRoute(ctx, &route); err != nil {
			return false, fmt.Errorf("import route %s %s: %w", route.Method, route.Path, err)
		}
	}

	return true, nil
}

// prepare decides whether seeding may proceed, wiping the existing catalog
// first when force is set.
func prepare(ctx context.Context, st Store, force bool) (bool, error) {
	count, err := st.CountApplications(ctx)
	if err != nil {
		return false, fmt.Errorf("count applications: %w", err)
	}
	if count == 0 {
		return true, nil
	}
	if !force {
		return false, nil
	}

	apps, _, err := st.Snapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("snapshot before reseed: %w", err)
	}
	for _, app := range apps {
		if err := st.DeleteApplication(ctx, app.ID); err != nil {
			return false, fmt.Errorf("delete application %d: %w", app.ID, err)
		}
	}
	return true, nil
}
