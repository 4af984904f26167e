package depgraph

import (
	"fmt"

	"github.com/sysmap/sam/pkg/catalog"
)

// DefaultTreeDepth is the expansion depth used when a caller does not ask
// for a specific one.
const DefaultTreeDepth = 5

// EdgeInfo is the dependency metadata connecting a tree node to its parent.
type EdgeInfo struct {
	Name        string                 `json:"name" bson:"name"`
	Type        catalog.DependencyType `json:"type" bson:"type"`
	Criticality catalog.Criticality    `json:"criticality" bson:"criticality"`
}

// TreeNode is one node of a rooted dependency tree projection. Children
// are the node's internal outgoing edges expanded recursively; Edge is nil
// on the root. A node whose application already appears on the path back
// to the root carries CycleTruncated and no children.
type TreeNode struct {
	Application    *catalog.Application `json:"application" bson:"application"`
	Edge           *EdgeInfo            `json:"edge,omitempty" bson:"edge,omitempty"`
	Children       []*TreeNode          `json:"children" bson:"children"`
	CycleTruncated bool                 `json:"cycle_truncated,omitempty" bson:"cycle_truncated,omitempty"`
}

// BuildTree expands the application's dependencies into a tree, at most
// maxDepth levels deep. maxDepth 0 returns just the root; negative depths
// are treated as 0. Children preserve adjacency insertion order.
//
// The projection is cycle-safe: expansion tracks the ids on the current
// root-to-node path, and a child that would revisit one becomes a leaf
// flagged CycleTruncated instead of recursing forever. The same
// application may still appear in several sibling branches - only
// ancestors count, matching what a human expects from an unfolded tree.
//
// Returns ErrNotFound if rootID is not a vertex.
func (g *Graph) BuildTree(rootID int64, maxDepth int) (*TreeNode, error) {
	root, ok := g.apps[rootID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", ErrNotFound, rootID)
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	onPath := map[int64]bool{rootID: true}
	node := &TreeNode{
		Application: root,
		Children:    g.expand(rootID, maxDepth, onPath),
	}
	return node, nil
}

// expand builds the child list for one node. onPath holds the ids of the
// node and all its ancestors; entries are added before recursing and
// removed after, keeping the set path-local.
func (g *Graph) expand(id int64, depth int, onPath map[int64]bool) []*TreeNode {
	if depth <= 0 {
		return nil
	}

	children := make([]*TreeNode, 0, len(g.outgoing[id]))
	for _, dep := range g.outgoing[id] {
		childID := *dep.ProviderID
		child := &TreeNode{
			Application: g.apps[childID],
			Edge: &EdgeInfo{
				Name:        dep.Name,
				Type:        dep.Type,
				Criticality: dep.Criticality,
			},
		}

		if onPath[childID] {
			child.CycleTruncated = true
			children = append(children, child)
			continue
		}

		onPath[childID] = true
		child.Children = g.expand(childID, depth-1, onPath)
		delete(onPath, childID)

		children = append(children, child)
	}
	return children
}

// Depth returns the number of edge levels in the tree: 0 for a lone root,
// 1 when the root has only leaf children, and so on.
func (t *TreeNode) Depth() int {
	max := 0
	for _, c := range t.Children {
		if d := c.Depth() + 1; d > max {
			max = d
		}
	}
	return max
}

// Count returns the number of nodes in the tree, root included.
func (t *TreeNode) Count() int {
	n := 1
	for _, c := range t.Children {
		n += c.Count()
	}
	return n
}
