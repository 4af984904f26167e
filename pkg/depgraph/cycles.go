package depgraph

import (
	"fmt"
	"strings"
)

// Cycles returns all distinct circular dependency chains in the graph.
//
// Each cycle is an ordered list of application ids without the duplicated
// closing id, rotated so it starts at its minimum id. Rotation makes the
// representation canonical: the loop A→B→C→A is reported once no matter
// which of its members the search entered through. A self-dependency is a
// one-element cycle. An acyclic graph returns an empty result - the
// expected common case, not an error.
//
// Detection is depth-first with a recursion-stack membership set: a
// back-edge to a vertex currently on the stack closes the cycle formed by
// the stack segment from that vertex to the current one. The search runs
// from every vertex in insertion order with fresh state, so cycles hidden
// behind earlier traversals are still discovered and the result order is
// deterministic across runs.
func (g *Graph) Cycles() [][]int64 {
	var cycles [][]int64
	seen := make(map[string]bool)

	for _, startID := range g.order {
		onStack := make(map[int64]bool)
		visited := make(map[int64]bool)
		var stack []int64

		var dfs func(id int64)
		dfs = func(id int64) {
			visited[id] = true
			onStack[id] = true
			stack = append(stack, id)

			for _, dep := range g.outgoing[id] {
				next := *dep.ProviderID
				if onStack[next] {
					cycle := normalizeCycle(extractCycle(stack, next))
					if key := cycleKey(cycle); !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
					continue
				}
				if !visited[next] {
					dfs(next)
				}
			}

			stack = stack[:len(stack)-1]
			onStack[id] = false
		}

		dfs(startID)
	}

	return cycles
}

// HasCycles reports whether the graph contains at least one circular
// dependency chain.
func (g *Graph) HasCycles() bool { return len(g.Cycles()) > 0 }

// extractCycle returns the stack segment from the first occurrence of
// closing to the top of the stack.
func extractCycle(stack []int64, closing int64) []int64 {
	for i, id := range stack {
		if id == closing {
			cycle := make([]int64, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return nil
}

// normalizeCycle rotates the cycle so it starts at its minimum id.
// The edge sequence is preserved; only the starting point moves.
func normalizeCycle(cycle []int64) []int64 {
	if len(cycle) == 0 {
		return cycle
	}
	minIdx := 0
	for i, id := range cycle {
		if id < cycle[minIdx] {
			minIdx = i
		}
	}
	if minIdx == 0 {
		return cycle
	}
	rotated := make([]int64, 0, len(cycle))
	rotated = append(rotated, cycle[minIdx:]...)
	rotated = append(rotated, cycle[:minIdx]...)
	return rotated
}

// cycleKey builds the dedup key for a normalized cycle.
func cycleKey(cycle []int64) string {
	var b strings.Builder
	for i, id := range cycle {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String()
}
