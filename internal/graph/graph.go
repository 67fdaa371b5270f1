// Package graph provides the undirected, unweighted graph store that the
// centrality engine operates on. Nodes are identified by their position in
// an insertion-ordered sequence of unique labels; edges are unordered pairs
// of node indices.
package graph

import (
	"errors"
	"fmt"
)

// ErrUnknownNodeLabel is returned when an edge references a label that was
// never registered with AddNode.
var ErrUnknownNodeLabel = errors.New("unknown node label")

// Edge is an unordered pair of node indices. A and B keep the order in
// which the endpoints were passed to AddEdge.
type Edge struct {
	A int
	B int
}

// Other returns the endpoint of e opposite to v. The second result is false
// when v is not an endpoint of e.
func (e Edge) Other(v int) (int, bool) {
	switch v {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return 0, false
}

// Graph holds nodes and edges. Nodes are never removed once created.
//
// The edge sequence keeps every AddEdge call verbatim, duplicates and
// self-loops included. Traversals use the adjacency lists instead, which
// hold each distinct neighbor once and never the node itself.
type Graph struct {
	labels []string
	index  map[string]int
	edges  []Edge
	// adjacency maps node index → distinct neighbors in first-link order.
	adjacency [][]int
	// linked records unordered pairs already present in adjacency.
	linked map[Edge]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:  make(map[string]int),
		linked: make(map[Edge]bool),
	}
}

// AddNode registers label and returns its index. Adding a label that is
// already present is a no-op that returns the existing index.
func (g *Graph) AddNode(label string) int {
	if i, ok := g.index[label]; ok {
		return i
	}
	i := len(g.labels)
	g.labels = append(g.labels, label)
	g.index[label] = i
	g.adjacency = append(g.adjacency, nil)
	return i
}

// AddEdge appends an edge between the nodes labelled a and b. Both labels
// must already exist; otherwise an error wrapping ErrUnknownNodeLabel is
// returned and the graph is left unchanged.
func (g *Graph) AddEdge(a, b string) error {
	ia, ok := g.index[a]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNodeLabel, a)
	}
	ib, ok := g.index[b]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNodeLabel, b)
	}
	g.edges = append(g.edges, Edge{A: ia, B: ib})
	g.link(ia, ib)
	return nil
}

// link records ia–ib in the adjacency lists unless it is a self-loop or the
// pair is already linked.
func (g *Graph) link(ia, ib int) {
	if ia == ib {
		return
	}
	key := Edge{A: min(ia, ib), B: max(ia, ib)}
	if g.linked[key] {
		return
	}
	g.linked[key] = true
	g.adjacency[ia] = append(g.adjacency[ia], ib)
	g.adjacency[ib] = append(g.adjacency[ib], ia)
}

// Nodes returns the node labels in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Edges returns the edge sequence in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.labels)
}

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Index returns the index of label and whether it exists.
func (g *Graph) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Label returns the label of node i. It panics if i is out of range, like
// a slice index.
func (g *Graph) Label(i int) string {
	return g.labels[i]
}

// Neighbors returns the distinct neighbors of node i. The returned slice is
// shared with the graph and must not be modified.
func (g *Graph) Neighbors(i int) []int {
	return g.adjacency[i]
}

// Degree returns the number of distinct neighbors of node i.
func (g *Graph) Degree(i int) int {
	return len(g.adjacency[i])
}

// String renders the graph in a compact debug form.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph{nodes: %q, edges: %v}", g.labels, g.edges)
}
