package depgraph

import "github.com/sysmap/sam/pkg/catalog"

// Payload is the canonical serialization of a graph snapshot, the shape
// returned by the graph API and cached between requests. Nodes carry the
// full application record plus derived counts; Edges carry internal
// dependencies only, since external edges have no target vertex to draw.
type Payload struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	TotalApps         int   `json:"total_apps" bson:"total_apps"`
	TotalDependencies int   `json:"total_dependencies" bson:"total_dependencies"`
	Stats             Stats `json:"stats" bson:"stats"`
}

// Node is an application enriched with its derived counts.
type Node struct {
	catalog.Application `bson:",inline"`

	DependenciesCount int `json:"dependencies_count" bson:"dependencies_count"`
	DependentsCount   int `json:"dependents_count" bson:"dependents_count"`
	RoutesCount       int `json:"routes_count" bson:"routes_count"`
}

// Edge is an internal dependency in graph-drawing shape: source is the
// consumer, target the provider.
type Edge struct {
	ID          int64                  `json:"id" bson:"id"`
	Source      int64                  `json:"source" bson:"source"`
	Target      int64                  `json:"target" bson:"target"`
	Name        string                 `json:"name" bson:"name"`
	Type        catalog.DependencyType `json:"type" bson:"type"`
	Criticality catalog.Criticality    `json:"criticality" bson:"criticality"`
	Description string                 `json:"description,omitempty" bson:"description,omitempty"`
}

// Payload assembles the serialized view of the graph. Node order follows
// application insertion order, edge order dependency insertion order.
//
// routeCounts maps application id to its number of cataloged routes; pass
// nil when route metadata is not loaded and every node reports zero.
func (g *Graph) Payload(routeCounts map[int64]int) Payload {
	p := Payload{
		Nodes:             make([]Node, 0, g.NodeCount()),
		Edges:             make([]Edge, 0, g.EdgeCount()),
		TotalApps:         g.NodeCount(),
		TotalDependencies: g.TotalDependencies(),
		Stats:             g.Stats(),
	}

	for _, id := range g.order {
		app := g.apps[id]
		p.Nodes = append(p.Nodes, Node{
			Application:       *app,
			DependenciesCount: g.DependenciesCount(id),
			DependentsCount:   g.DependentsCount(id),
			RoutesCount:       routeCounts[id],
		})
	}

	for _, dep := range g.deps {
		if dep.ProviderID == nil {
			continue
		}
		p.Edges = append(p.Edges, Edge{
			ID:          dep.ID,
			Source:      dep.ConsumerID,
			Target:      *dep.ProviderID,
			Name:        dep.Name,
			Type:        dep.Type,
			Criticality: dep.Criticality,
			Description: dep.Description,
		})
	}

	return p
}
