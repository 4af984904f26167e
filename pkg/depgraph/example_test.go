package depgraph_test

import (
	"fmt"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/depgraph"
)

func ExampleBuild() {
	// Catalog with an auth service and two consumers
	apps := []catalog.Application{
		{ID: 1, Code: "ULM", Name: "User Login Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
		{ID: 2, Code: "AAM", Name: "Admin Area Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
		{ID: 3, Code: "SAM", Name: "System Mapping Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
	}
	ulm := int64(1)
	deps := []catalog.Dependency{
		{ID: 1, ConsumerID: 2, ProviderID: &ulm, Name: "Authentication Service", Type: catalog.DependencyTypeService, Criticality: catalog.CriticalityCritical},
		{ID: 2, ConsumerID: 3, ProviderID: &ulm, Name: "Authentication Service", Type: catalog.DependencyTypeService, Criticality: catalog.CriticalityCritical},
	}

	g, _ := depgraph.Build(apps, deps)
	fmt.Println("Applications:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Dependents of ULM:", g.DependentsCount(1))
	// Output:
	// Applications: 3
	// Edges: 2
	// Dependents of ULM: 2
}

func ExampleGraph_FindPath() {
	// Chain SAM → ULM, queried by id, reported by code
	apps := []catalog.Application{
		{ID: 1, Code: "ULM", Name: "User Login Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
		{ID: 3, Code: "SAM", Name: "System Mapping Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
	}
	ulm := int64(1)
	deps := []catalog.Dependency{
		{ID: 1, ConsumerID: 3, ProviderID: &ulm, Name: "Authentication Service", Type: catalog.DependencyTypeService, Criticality: catalog.CriticalityCritical},
	}

	g, _ := depgraph.Build(apps, deps)
	path, _ := g.FindPath(3, 1)
	fmt.Println("Path:", path.Path)
	fmt.Println("Hops:", path.Length)
	// Output:
	// Path: [SAM ULM]
	// Hops: 1
}

func ExampleGraph_Cycles() {
	// Mutual dependency between two services
	apps := []catalog.Application{
		{ID: 1, Code: "A", Name: "A", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
		{ID: 2, Code: "B", Name: "B", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
	}
	a, b := int64(1), int64(2)
	deps := []catalog.Dependency{
		{ID: 1, ConsumerID: 1, ProviderID: &b, Name: "api", Type: catalog.DependencyTypeAPI, Criticality: catalog.CriticalityMedium},
		{ID: 2, ConsumerID: 2, ProviderID: &a, Name: "api", Type: catalog.DependencyTypeAPI, Criticality: catalog.CriticalityMedium},
	}

	g, _ := depgraph.Build(apps, deps)
	fmt.Println("Cycles:", g.Cycles())
	// Output:
	// Cycles: [[1 2]]
}

func ExampleGraph_BuildTree() {
	// Depth-bounded expansion of ULM's consumers is empty; SAM's view
	// reaches ULM one level down.
	apps := []catalog.Application{
		{ID: 1, Code: "ULM", Name: "User Login Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
		{ID: 3, Code: "SAM", Name: "System Mapping Manager", Type: catalog.AppTypeCore, Status: catalog.AppStatusActive},
	}
	ulm := int64(1)
	deps := []catalog.Dependency{
		{ID: 1, ConsumerID: 3, ProviderID: &ulm, Name: "Authentication Service", Type: catalog.DependencyTypeService, Criticality: catalog.CriticalityCritical},
	}

	g, _ := depgraph.Build(apps, deps)
	tree, _ := g.BuildTree(3, depgraph.DefaultTreeDepth)
	fmt.Println("Root:", tree.Application.Code)
	fmt.Println("Nodes:", tree.Count())
	fmt.Println("Depth:", tree.Depth())
	// Output:
	// Root: SAM
	// Nodes: 2
	// Depth: 1
}
