// Package depgraph derives a directed dependency graph from flat catalog
// records and answers questions about it: shortest paths, circular
// dependencies, rooted tree projections, and aggregate statistics.
//
// # Overview
//
// SAM stores applications and their dependency edges as flat records. This
// package turns one immutable snapshot of those records into an
// adjacency-indexed graph keyed by application id. Edges point in dependency
// direction, from the consumer to the provider it requires. Dependencies
// without a provider describe external resources (a managed database, a
// third-party API); they are kept out of traversal but still count toward
// the consumer's dependency totals.
//
// # Basic Usage
//
// Build a graph with [Build], or incrementally with [New], [Graph.AddApplication],
// and [Graph.AddDependency]. Insertion validates referential integrity:
//
//	g, err := depgraph.Build(apps, deps)
//	if err != nil {
//	    return err // a dependency referenced an application that does not exist
//	}
//
//	path, err := g.FindPath(samID, ulmID)
//	cycles := g.Cycles()
//	tree, err := g.BuildTree(samID, 5)
//	stats := g.Stats()
//
// # Integrity
//
// A dependency whose consumer is not in the snapshot, or whose non-nil
// provider is not in the snapshot, fails the build with an error naming the
// offending record. Silently dropping such edges would corrupt dependency
// counts and cycle analysis, so it is never done.
//
// # Determinism
//
// Adjacency lists preserve record insertion order. Path finding breaks
// equal-length ties by first-discovered BFS order; cycle detection visits
// vertices in insertion order and reports each cycle rotated to start at its
// minimum id. Two runs over the same snapshot produce identical results.
//
// # Concurrency
//
// A Graph is immutable after building and safe for concurrent readers.
// Building is not synchronized; construct the graph fully before sharing it.
package depgraph
