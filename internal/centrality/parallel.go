package centrality

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/pivot/internal/graph"
)

// ClosenessParallel computes the same vector as Closeness, spreading the
// per-source searches over workers goroutines. Each worker writes only the
// entries for its own sources. workers <= 1 runs sequentially.
func ClosenessParallel(ctx context.Context, g *graph.Graph, workers int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := g.Len()
	workers = clampWorkers(workers, n)
	if workers <= 1 {
		return Closeness(g), nil
	}

	scores := make([]float64, n)
	err := forEachWorker(ctx, workers, func(ctx context.Context, w int) error {
		var b bfs
		for s := w; s < n; s += workers {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.run(g, s)
			scores[s] = closenessOf(b.dist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	normalizeByMax(scores)
	return scores, nil
}

// BetweennessParallel computes the same vector as Betweenness with the
// sources split across workers goroutines. Every worker owns its traversal
// state and a private partial vector; the partials are summed in worker
// order once all workers finish, so repeated runs with the same worker
// count produce identical results. workers <= 1 runs sequentially.
func BetweennessParallel(ctx context.Context, g *graph.Graph, workers int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := g.Len()
	workers = clampWorkers(workers, n)
	if workers <= 1 || n < 2 {
		return Betweenness(g), nil
	}

	partials := make([][]float64, workers)
	err := forEachWorker(ctx, workers, func(ctx context.Context, w int) error {
		local := make([]float64, n)
		b := newBrandes(n)
		for s := w; s < n; s += workers {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.accumulate(g, s, local)
		}
		partials[w] = local
		return nil
	})
	if err != nil {
		return nil, err
	}

	cb := make([]float64, n)
	for _, p := range partials {
		for i, v := range p {
			cb[i] += v
		}
	}
	normalizeBetweenness(cb)
	return cb, nil
}

// forEachWorker runs fn once per worker index and waits for all of them.
// The first error cancels the context passed to the remaining workers.
func forEachWorker(ctx context.Context, workers int, fn func(ctx context.Context, w int) error) error {
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			return fn(ctx, w)
		})
	}
	return eg.Wait()
}

// clampWorkers bounds the worker count to the number of sources.
func clampWorkers(workers, n int) int {
	if workers > n {
		return n
	}
	return workers
}
