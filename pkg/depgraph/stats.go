package depgraph

// Stats holds the global aggregates of one graph snapshot.
//
// TotalApplications counts vertices and TotalDependencies counts every
// dependency record, external edges included; TotalNodes and TotalEdges
// describe the traversable graph (internal edges only). The by-X maps
// bucket applications, so each map's values sum to TotalApplications -
// applications without a category land in the "uncategorized" bucket
// rather than being dropped.
type Stats struct {
	TotalApplications int `json:"total_applications" bson:"total_applications"`
	TotalDependencies int `json:"total_dependencies" bson:"total_dependencies"`
	TotalNodes        int `json:"total_nodes" bson:"total_nodes"`
	TotalEdges        int `json:"total_edges" bson:"total_edges"`

	ByType     map[string]int `json:"by_type" bson:"by_type"`
	ByStatus   map[string]int `json:"by_status" bson:"by_status"`
	ByCategory map[string]int `json:"by_category" bson:"by_category"`
}

// Stats computes the global aggregates for the graph.
func (g *Graph) Stats() Stats {
	s := Stats{
		TotalApplications: g.NodeCount(),
		TotalDependencies: g.TotalDependencies(),
		TotalNodes:        g.NodeCount(),
		TotalEdges:        g.EdgeCount(),
		ByType:            make(map[string]int),
		ByStatus:          make(map[string]int),
		ByCategory:        make(map[string]int),
	}

	for _, id := range g.order {
		app := g.apps[id]
		s.ByType[app.Type.String()]++
		s.ByStatus[app.Status.String()]++
		s.ByCategory[app.CategoryOrUncategorized()]++
	}

	return s
}
