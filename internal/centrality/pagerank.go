package centrality

import (
	"math"

	"github.com/papapumpkin/pivot/internal/graph"
)

// PageRankOptions configures the iterative PageRank algorithm.
type PageRankOptions struct {
	Damping       float64 // damping factor; typically 0.85
	Epsilon       float64 // convergence threshold
	MaxIterations int     // upper bound on iterations
}

// DefaultPageRankOptions returns damping 0.85, epsilon 1e-6 and at most
// 100 iterations.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       0.85,
		Epsilon:       1e-6,
		MaxIterations: 100,
	}
}

// PageRank computes PageRank over the undirected graph, treating every edge
// as a link in both directions. Isolated nodes redistribute their rank
// uniformly. Scores sum to approximately 1.
func PageRank(g *graph.Graph, opts PageRankOptions) []float64 {
	n := g.Len()
	if n == 0 {
		return []float64{}
	}

	nf := float64(n)
	base := (1.0 - opts.Damping) / nf

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1.0 / nf
	}
	next := make([]float64, n)

	for iter := 0; iter < opts.MaxIterations; iter++ {
		var danglingSum float64
		for v := range rank {
			if g.Degree(v) == 0 {
				danglingSum += rank[v]
			}
		}
		danglingShare := opts.Damping * danglingSum / nf

		for v := range next {
			var sum float64
			for _, u := range g.Neighbors(v) {
				sum += rank[u] / float64(g.Degree(u))
			}
			next[v] = base + opts.Damping*sum + danglingShare
		}

		maxDelta := 0.0
		for v := range rank {
			maxDelta = math.Max(maxDelta, math.Abs(next[v]-rank[v]))
		}

		rank, next = next, rank
		if maxDelta < opts.Epsilon {
			break
		}
	}
	return rank
}
