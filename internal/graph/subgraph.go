package graph

// Star returns the subgraph centered on target: the target node, every node
// sharing an edge with it, and every edge of g incident to the target. Edges
// between two neighbors are not carried over, so the result is a star rather
// than an induced subgraph. An unknown target yields an empty graph.
func Star(g *Graph, target string) *Graph {
	sub := New()
	center, ok := g.Index(target)
	if !ok {
		return sub
	}
	sub.AddNode(g.labels[center])

	for _, e := range g.edges {
		neighbor, ok := e.Other(center)
		if !ok {
			continue
		}
		sub.AddNode(g.labels[neighbor])
		// Both endpoints were just registered, so AddEdge cannot fail.
		_ = sub.AddEdge(g.labels[e.A], g.labels[e.B])
	}
	return sub
}
