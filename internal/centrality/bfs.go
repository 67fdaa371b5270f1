// Package centrality computes closeness and betweenness centrality over an
// undirected, unweighted graph.Graph. Every metric is a dense []float64
// aligned with node insertion order.
package centrality

import "github.com/papapumpkin/pivot/internal/graph"

// Unreachable marks a node with no path from the traversal source.
const Unreachable = -1

// Distances returns the hop distance from s to every node, with Unreachable
// for nodes in other components. s must be a valid node index.
func Distances(g *graph.Graph, s int) []int {
	var b bfs
	b.run(g, s)
	return b.dist
}

// bfs holds reusable buffers for single-source breadth-first search.
type bfs struct {
	dist  []int
	queue []int
}

// run fills b.dist with hop distances from s. Buffers are reused across
// calls when the graph size is unchanged.
func (b *bfs) run(g *graph.Graph, s int) {
	n := g.Len()
	if cap(b.dist) < n {
		b.dist = make([]int, n)
		b.queue = make([]int, 0, n)
	}
	b.dist = b.dist[:n]
	for i := range b.dist {
		b.dist[i] = Unreachable
	}
	b.dist[s] = 0

	queue := append(b.queue[:0], s)
	for head := 0; head < len(queue); head++ {
		v := queue[head]
		for _, w := range g.Neighbors(v) {
			if b.dist[w] == Unreachable {
				b.dist[w] = b.dist[v] + 1
				queue = append(queue, w)
			}
		}
	}
	b.queue = queue
}

// brandes holds per-source state for the augmented traversal used by
// betweenness: path counts, shortest-path predecessors, the pop order and
// the dependency accumulator. One instance serves a single goroutine.
type brandes struct {
	dist  []int
	sigma []float64
	delta []float64
	pred  [][]int
	order []int
}

func newBrandes(n int) *brandes {
	return &brandes{
		dist:  make([]int, n),
		sigma: make([]float64, n),
		delta: make([]float64, n),
		pred:  make([][]int, n),
		order: make([]int, 0, n),
	}
}

// traverse runs the BFS phase from s. On return b.order holds nodes in the
// order they were dequeued, which is non-decreasing in distance from s and
// therefore a topological order of the shortest-path DAG.
func (b *brandes) traverse(g *graph.Graph, s int) {
	for i := range b.dist {
		b.dist[i] = Unreachable
		b.sigma[i] = 0
		b.delta[i] = 0
		b.pred[i] = b.pred[i][:0]
	}
	b.dist[s] = 0
	b.sigma[s] = 1

	// order doubles as the FIFO queue: everything before head was popped.
	b.order = append(b.order[:0], s)
	for head := 0; head < len(b.order); head++ {
		v := b.order[head]
		for _, w := range g.Neighbors(v) {
			if b.dist[w] == Unreachable {
				b.dist[w] = b.dist[v] + 1
				b.order = append(b.order, w)
			}
			if b.dist[w] == b.dist[v]+1 {
				b.sigma[w] += b.sigma[v]
				b.pred[w] = append(b.pred[w], v)
			}
		}
	}
}

// accumulate runs both Brandes phases from source s and adds each node's
// dependency into cb. The source itself receives nothing.
func (b *brandes) accumulate(g *graph.Graph, s int, cb []float64) {
	b.traverse(g, s)
	for i := len(b.order) - 1; i >= 0; i-- {
		w := b.order[i]
		for _, v := range b.pred[w] {
			b.delta[v] += (b.sigma[v] / b.sigma[w]) * (1 + b.delta[w])
		}
		if w != s {
			cb[w] += b.delta[w]
		}
	}
}
