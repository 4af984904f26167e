package depgraph

import "fmt"

// Path is the result of a successful shortest-path search. The path is
// expressed in application codes, consumer first; Length counts edges, so
// a self-path has Length 0.
type Path struct {
	FromApp string   `json:"from_app" bson:"from_app"`
	ToApp   string   `json:"to_app" bson:"to_app"`
	Path    []string `json:"path" bson:"path"`
	Length  int      `json:"length" bson:"length"`
}

// FindPath returns the shortest dependency chain from one application to
// another, following edges in consumer→provider direction only.
//
// Shortest means fewest edges. The search is breadth-first over the
// adjacency lists, so among equal-length paths the first one discovered in
// insertion order wins; for a given snapshot the result is deterministic.
//
// Returns nil, nil when the target is unreachable - no path is a valid
// outcome, not a failure. Returns ErrNotFound when either endpoint id is
// not a vertex. A search from an application to itself returns the
// one-element path with Length 0.
func (g *Graph) FindPath(fromID, toID int64) (*Path, error) {
	from, ok := g.apps[fromID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrNotFound, fromID)
	}
	to, ok := g.apps[toID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrNotFound, toID)
	}

	if fromID == toID {
		return g.newPath(from.Code, to.Code, []int64{fromID}), nil
	}

	// Parent links double as the visited set: a vertex is discovered at
	// most once, at its minimum hop distance.
	parent := map[int64]int64{fromID: fromID}
	queue := []int64{fromID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dep := range g.outgoing[current] {
			next := *dep.ProviderID
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = current
			if next == toID {
				return g.newPath(from.Code, to.Code, unwind(parent, fromID, toID)), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, nil
}

// unwind walks parent links back from the target and reverses the result.
func unwind(parent map[int64]int64, fromID, toID int64) []int64 {
	var rev []int64
	for id := toID; ; id = parent[id] {
		rev = append(rev, id)
		if id == fromID {
			break
		}
	}
	ids := make([]int64, len(rev))
	for i, id := range rev {
		ids[len(rev)-1-i] = id
	}
	return ids
}

func (g *Graph) newPath(fromCode, toCode string, ids []int64) *Path {
	codes := make([]string, len(ids))
	for i, id := range ids {
		codes[i] = g.apps[id].Code
	}
	return &Path{
		FromApp: fromCode,
		ToApp:   toCode,
		Path:    codes,
		Length:  len(codes) - 1,
	}
}
