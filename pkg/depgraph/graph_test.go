package depgraph

import (
	"errors"
	"testing"

	"github.com/sysmap/sam/pkg/catalog"
)

// app builds a minimal application record for graph tests.
func app(id int64, code string) catalog.Application {
	return catalog.Application{
		ID:          id,
		Code:        code,
		Name:        code,
		DisplayName: code,
		Type:        catalog.AppTypeCore,
		Status:      catalog.AppStatusActive,
	}
}

// dep builds an internal dependency edge consumer→provider.
func dep(id, consumer, provider int64) catalog.Dependency {
	return catalog.Dependency{
		ID:          id,
		ConsumerID:  consumer,
		ProviderID:  &provider,
		Name:        "edge",
		Type:        catalog.DependencyTypeService,
		Criticality: catalog.CriticalityMedium,
	}
}

// extDep builds an external dependency edge (no provider).
func extDep(id, consumer int64) catalog.Dependency {
	return catalog.Dependency{
		ID:          id,
		ConsumerID:  consumer,
		Name:        "external resource",
		Type:        catalog.DependencyTypeDatabase,
		Criticality: catalog.CriticalityHigh,
	}
}

// mustBuild fails the test on any build error.
func mustBuild(t *testing.T, apps []catalog.Application, deps []catalog.Dependency) *Graph {
	t.Helper()
	g, err := Build(apps, deps)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestBuild_Empty(t *testing.T) {
	g := mustBuild(t, nil, nil)

	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestBuild_DanglingConsumer(t *testing.T) {
	apps := []catalog.Application{app(1, "ULM")}
	deps := []catalog.Dependency{dep(1, 99, 1)}

	_, err := Build(apps, deps)
	if !errors.Is(err, ErrUnknownConsumer) {
		t.Errorf("Build() error = %v, want ErrUnknownConsumer", err)
	}
}

func TestBuild_DanglingProvider(t *testing.T) {
	apps := []catalog.Application{app(1, "ULM")}
	deps := []catalog.Dependency{dep(1, 1, 99)}

	_, err := Build(apps, deps)
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Build() error = %v, want ErrUnknownProvider", err)
	}
}

func TestBuild_NilProviderIsNotAnError(t *testing.T) {
	apps := []catalog.Application{app(1, "ULM")}
	deps := []catalog.Dependency{extDep(1, 1)}

	g := mustBuild(t, apps, deps)

	// External edges stay out of the traversable graph but count as
	// dependencies of their consumer.
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
	if g.TotalDependencies() != 1 {
		t.Errorf("TotalDependencies() = %d, want 1", g.TotalDependencies())
	}
	if g.DependenciesCount(1) != 1 {
		t.Errorf("DependenciesCount(1) = %d, want 1", g.DependenciesCount(1))
	}
}

func TestBuild_DuplicateApplicationID(t *testing.T) {
	_, err := Build([]catalog.Application{app(1, "ULM"), app(1, "AAM")}, nil)
	if !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("Build() error = %v, want ErrDuplicateApplication", err)
	}
}

func TestBuild_DuplicateCode(t *testing.T) {
	_, err := Build([]catalog.Application{app(1, "ULM"), app(2, "ULM")}, nil)
	if !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("Build() error = %v, want ErrDuplicateCode", err)
	}
}

func TestAddApplication_InvalidID(t *testing.T) {
	g := New()
	a := app(0, "ULM")

	if err := g.AddApplication(&a); !errors.Is(err, ErrInvalidApplicationID) {
		t.Errorf("AddApplication() error = %v, want ErrInvalidApplicationID", err)
	}
}

func TestGraph_Counts(t *testing.T) {
	// ULM ← AAM, ULM ← SAM, plus two external edges off ULM:
	//
	//   AAM   SAM
	//     \   /
	//      ULM → (postgres) → (redis)
	apps := []catalog.Application{app(1, "ULM"), app(2, "AAM"), app(3, "SAM")}
	deps := []catalog.Dependency{
		dep(1, 2, 1),
		dep(2, 3, 1),
		extDep(3, 1),
		extDep(4, 1),
	}

	g := mustBuild(t, apps, deps)

	if got := g.DependentsCount(1); got != 2 {
		t.Errorf("DependentsCount(ULM) = %d, want 2", got)
	}
	if got := g.DependenciesCount(1); got != 2 {
		t.Errorf("DependenciesCount(ULM) = %d, want 2", got)
	}
	if got := g.DependenciesCount(2); got != 1 {
		t.Errorf("DependenciesCount(AAM) = %d, want 1", got)
	}
	if got := g.DependentsCount(3); got != 0 {
		t.Errorf("DependentsCount(SAM) = %d, want 0", got)
	}
	if got := g.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}
	if got := g.TotalDependencies(); got != 4 {
		t.Errorf("TotalDependencies() = %d, want 4", got)
	}
}

func TestGraph_AdjacencyPreservesInsertionOrder(t *testing.T) {
	apps := []catalog.Application{app(1, "A"), app(2, "B"), app(3, "C"), app(4, "D")}
	deps := []catalog.Dependency{
		dep(10, 1, 3),
		dep(11, 1, 2),
		dep(12, 1, 4),
	}

	g := mustBuild(t, apps, deps)

	got := g.Providers(1)
	want := []int64{3, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("Providers(1) returned %d edges, want %d", len(got), len(want))
	}
	for i, d := range got {
		if *d.ProviderID != want[i] {
			t.Errorf("Providers(1)[%d] = %d, want %d", i, *d.ProviderID, want[i])
		}
	}
}

func TestGraph_Lookups(t *testing.T) {
	g := mustBuild(t, []catalog.Application{app(1, "ULM"), app(2, "AAM")}, nil)

	if a, ok := g.Application(2); !ok || a.Code != "AAM" {
		t.Errorf("Application(2) = %v, %v, want AAM, true", a, ok)
	}
	if _, ok := g.Application(99); ok {
		t.Error("Application(99) found, want not found")
	}
	if a, ok := g.ApplicationByCode("ULM"); !ok || a.ID != 1 {
		t.Errorf("ApplicationByCode(ULM) = %v, %v, want id 1, true", a, ok)
	}
	if _, ok := g.ApplicationByCode("XXX"); ok {
		t.Error("ApplicationByCode(XXX) found, want not found")
	}
}

func TestGraph_CriticalDependencies(t *testing.T) {
	apps := []catalog.Application{app(1, "A"), app(2, "B")}

	critical := dep(1, 1, 2)
	critical.Criticality = catalog.CriticalityCritical
	high := extDep(2, 1)
	high.Criticality = catalog.CriticalityHigh
	medium := dep(3, 2, 1)
	medium.Criticality = catalog.CriticalityMedium

	g := mustBuild(t, apps, []catalog.Dependency{critical, high, medium})

	got := g.CriticalDependencies()
	if len(got) != 2 {
		t.Fatalf("CriticalDependencies() returned %d, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("CriticalDependencies() ids = [%d %d], want [1 2]", got[0].ID, got[1].ID)
	}
}

func TestGraph_Payload(t *testing.T) {
	apps := []catalog.Application{app(1, "ULM"), app(2, "AAM")}
	deps := []catalog.Dependency{dep(1, 2, 1), extDep(2, 1)}

	g := mustBuild(t, apps, deps)
	p := g.Payload(map[int64]int{1: 4})

	if p.TotalApps != 2 {
		t.Errorf("TotalApps = %d, want 2", p.TotalApps)
	}
	if p.TotalDependencies != 2 {
		t.Errorf("TotalDependencies = %d, want 2", p.TotalDependencies)
	}

	// External edges never appear in the drawable edge list.
	if len(p.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(p.Edges))
	}
	if p.Edges[0].Source != 2 || p.Edges[0].Target != 1 {
		t.Errorf("Edges[0] = %d→%d, want 2→1", p.Edges[0].Source, p.Edges[0].Target)
	}

	if len(p.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(p.Nodes))
	}
	ulm := p.Nodes[0]
	if ulm.Code != "ULM" {
		t.Fatalf("Nodes[0].Code = %q, want ULM (insertion order)", ulm.Code)
	}
	if ulm.DependentsCount != 1 || ulm.DependenciesCount != 1 || ulm.RoutesCount != 4 {
		t.Errorf("ULM counts = (deps %d, dependents %d, routes %d), want (1, 1, 4)",
			ulm.DependenciesCount, ulm.DependentsCount, ulm.RoutesCount)
	}
}

func TestGraph_CatalogQueries(t *testing.T) {
	// The three-service catalog exercised end to end:
	//
	//   AAM ──┐
	//         ├──→ ULM
	//   SAM ──┘
	apps := []catalog.Application{app(1, "ULM"), app(2, "AAM"), app(3, "SAM")}
	deps := []catalog.Dependency{dep(1, 2, 1), dep(2, 3, 1)}
	g := mustBuild(t, apps, deps)

	s := g.Stats()
	if s.TotalApplications != 3 {
		t.Errorf("TotalApplications = %d, want 3", s.TotalApplications)
	}
	if s.TotalDependencies != 2 {
		t.Errorf("TotalDependencies = %d, want 2", s.TotalDependencies)
	}

	if got := g.DependentsCount(1); got != 2 {
		t.Errorf("DependentsCount(ULM) = %d, want 2", got)
	}
	if got := g.DependenciesCount(1); got != 0 {
		t.Errorf("DependenciesCount(ULM) = %d, want 0", got)
	}

	path, err := g.FindPath(3, 1)
	if err != nil {
		t.Fatalf("FindPath(SAM, ULM) error = %v", err)
	}
	if path == nil || len(path.Path) != 2 || path.Path[0] != "SAM" || path.Path[1] != "ULM" {
		t.Errorf("FindPath(SAM, ULM) = %v, want [SAM ULM]", path)
	}

	// Edges point consumer→provider, so nothing leads from AAM to SAM.
	reverse, err := g.FindPath(2, 3)
	if err != nil {
		t.Fatalf("FindPath(AAM, SAM) error = %v", err)
	}
	if reverse != nil {
		t.Errorf("FindPath(AAM, SAM) = %v, want nil (unreachable)", reverse)
	}

	if cycles := g.Cycles(); len(cycles) != 0 {
		t.Errorf("Cycles() = %v, want empty", cycles)
	}
}
