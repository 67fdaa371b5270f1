package centrality

import "github.com/papapumpkin/pivot/internal/graph"

// Betweenness computes betweenness centrality for every node using Brandes'
// algorithm: one path-counting BFS per source followed by a reverse-order
// dependency pass.
//
// Every node is used as a source, so each unordered pair is counted from
// both ends; scores are divided by (n-1)*(n-2) with no extra factor of two.
// Graphs with fewer than two nodes return an all-zero vector, and for n == 2
// the raw (zero) scores are returned unnormalized.
func Betweenness(g *graph.Graph) []float64 {
	n := g.Len()
	cb := make([]float64, n)
	if n < 2 {
		return cb
	}

	b := newBrandes(n)
	for s := 0; s < n; s++ {
		b.accumulate(g, s, cb)
	}
	normalizeBetweenness(cb)
	return cb
}

// normalizeBetweenness divides by the maximum number of ordered pairs that
// can route through a node, skipping graphs where that is zero.
func normalizeBetweenness(cb []float64) {
	n := len(cb)
	maxPossible := float64((n - 1) * (n - 2))
	if maxPossible <= 0 {
		return
	}
	for i := range cb {
		cb[i] /= maxPossible
	}
}
