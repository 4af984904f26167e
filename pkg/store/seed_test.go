package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/errors"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seeded, err := Seed(ctx, s, false)
	if err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if !seeded {
		t.Fatal("Seed() = false on empty store, want true")
	}

	count, _ := s.CountApplications(ctx)
	if count != 3 {
		t.Errorf("applications after seed = %d, want 3", count)
	}
	deps, _ := s.ListDependencies(ctx, DependencyFilter{})
	if len(deps) != 4 {
		t.Errorf("dependencies after seed = %d, want 4", len(deps))
	}

	ulm, err := s.GetApplicationByCode(ctx, "ULM")
	if err != nil || ulm == nil {
		t.Fatalf("GetApplicationByCode(ULM) = %v, %v", ulm, err)
	}
	if ulm.Icon != "🔐" || ulm.Color != "#3b82f6" {
		t.Errorf("ULM presentation = %q %q, want 🔐 #3b82f6", ulm.Icon, ulm.Color)
	}
	if ulm.Category != "Authentication" {
		t.Errorf("ULM category = %q, want Authentication", ulm.Category)
	}

	// Both internal edges point at ULM; the two external edges have no
	// provider.
	internal, external := 0, 0
	for _, dep := range deps {
		if dep.IsExternal() {
			external++
			continue
		}
		internal++
		if *dep.ProviderID != ulm.ID {
			t.Errorf("internal dependency %q provider = %d, want ULM (%d)", dep.Name, *dep.ProviderID, ulm.ID)
		}
	}
	if internal != 2 || external != 2 {
		t.Errorf("seeded edges = %d internal, %d external, want 2 and 2", internal, external)
	}

	routes, _ := s.ListRoutes(ctx, ulm.ID)
	if len(routes) == 0 {
		t.Error("ULM has no seeded routes")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := Seed(ctx, s, false); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	seeded, err := Seed(ctx, s, false)
	if err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	if seeded {
		t.Error("second Seed() = true, want false on populated store")
	}
	count, _ := s.CountApplications(ctx)
	if count != 3 {
		t.Errorf("applications after double seed = %d, want 3", count)
	}
}

func TestSeed_Force(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := Seed(ctx, s, false); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	mustCreateApp(t, s, testApp("EXTRA"))

	seeded, err := Seed(ctx, s, true)
	if err != nil {
		t.Fatalf("Seed(force) error: %v", err)
	}
	if !seeded {
		t.Fatal("Seed(force) = false, want true")
	}

	count, _ := s.CountApplications(ctx)
	if count != 3 {
		t.Errorf("applications after forced reseed = %d, want 3", count)
	}
	extra, _ := s.GetApplicationByCode(ctx, "EXTRA")
	if extra != nil {
		t.Error("forced reseed kept the extra application")
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	provider := int64(10)
	cat := &Catalog{
		Applications: []catalog.Application{
			{ID: 10, Code: "ULM", Name: "User Login Manager", DisplayName: "User Login Manager",
				Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
			{ID: 20, Code: "AAM", Name: "Admin Area Manager", DisplayName: "Admin Area Manager",
				Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
		},
		Dependencies: []catalog.Dependency{
			{ConsumerID: 20, ProviderID: &provider, Name: "Authentication Service",
				Type: catalog.DependencyTypeService, Criticality: catalog.CriticalityCritical},
		},
		Routes: []catalog.Route{
			{ApplicationID: 10, Method: "POST", Path: "/api/v1/auth/login"},
		},
	}

	imported, err := Import(ctx, s, cat, false)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if !imported {
		t.Fatal("Import() = false on empty store, want true")
	}

	// Snapshot ids are reassigned; references must follow.
	ulm, _ := s.GetApplicationByCode(ctx, "ULM")
	aam, _ := s.GetApplicationByCode(ctx, "AAM")
	if ulm == nil || aam == nil {
		t.Fatal("imported applications missing")
	}
	deps, _ := s.ListDependencies(ctx, DependencyFilter{})
	if len(deps) != 1 {
		t.Fatalf("imported dependencies = %d, want 1", len(deps))
	}
	if deps[0].ConsumerID != aam.ID || deps[0].ProviderID == nil || *deps[0].ProviderID != ulm.ID {
		t.Errorf("imported edge = %d -> %v, want %d -> %d", deps[0].ConsumerID, deps[0].ProviderID, aam.ID, ulm.ID)
	}
	routes, _ := s.ListRoutes(ctx, ulm.ID)
	if len(routes) != 1 {
		t.Errorf("imported routes for ULM = %d, want 1", len(routes))
	}
}

func TestImport_UnknownReference(t *testing.T) {
	ctx := context.Background()

	missing := int64(99)
	tests := []struct {
		name string
		cat  *Catalog
	}{
		{"dependency consumer", &Catalog{
			Applications: []catalog.Application{
				{ID: 10, Code: "ULM", Name: "User Login Manager", DisplayName: "ULM",
					Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
			},
			Dependencies: []catalog.Dependency{
				{ConsumerID: 99, ProviderID: nil, Name: "Redis Cache",
					Type: catalog.DependencyTypeCache, Criticality: catalog.CriticalityHigh},
			},
		}},
		{"dependency provider", &Catalog{
			Applications: []catalog.Application{
				{ID: 10, Code: "ULM", Name: "User Login Manager", DisplayName: "ULM",
					Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
			},
			Dependencies: []catalog.Dependency{
				{ConsumerID: 10, ProviderID: &missing, Name: "Ghost Service",
					Type: catalog.DependencyTypeService, Criticality: catalog.CriticalityLow},
			},
		}},
		{"route application", &Catalog{
			Applications: []catalog.Application{
				{ID: 10, Code: "ULM", Name: "User Login Manager", DisplayName: "ULM",
					Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
			},
			Routes: []catalog.Route{
				{ApplicationID: 99, Method: "GET", Path: "/ghost"},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			if _, err := Import(ctx, s, tt.cat, false); !errors.Is(err, errors.ErrCodeIntegrity) {
				t.Errorf("Import() code = %v, want %v", errors.GetCode(err), errors.ErrCodeIntegrity)
			}
		})
	}
}

func TestImport_RefusesPopulatedStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	mustCreateApp(t, s, testApp("ULM"))

	cat := &Catalog{Applications: []catalog.Application{
		{ID: 1, Code: "AAM", Name: "Admin Area Manager", DisplayName: "AAM",
			Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
	}}
	imported, err := Import(ctx, s, cat, false)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if imported {
		t.Error("Import() = true on populated store without force, want false")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "catalog.json")
	payload := `{
		"applications": [
			{"id": 1, "code": "ULM", "name": "User Login Manager", "display_name": "ULM",
			 "type": "core", "status": "active"}
		],
		"dependencies": [
			{"consumer_id": 1, "name": "Redis Cache", "type": "cache", "criticality": "high"}
		]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cat.Applications) != 1 || cat.Applications[0].Code != "ULM" {
		t.Errorf("Load() applications = %+v, want one ULM record", cat.Applications)
	}
	if len(cat.Dependencies) != 1 || !cat.Dependencies[0].IsExternal() {
		t.Errorf("Load() dependencies = %+v, want one external edge", cat.Dependencies)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load(missing file) succeeded, want error")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(bad json) code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}
