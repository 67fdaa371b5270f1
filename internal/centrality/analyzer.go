package centrality

import (
	"context"
	"fmt"

	"github.com/papapumpkin/pivot/internal/graph"
)

// Options configures an Analyzer.
type Options struct {
	// Workers is the number of goroutines used for per-source traversals.
	// Values below 2 run everything on the calling goroutine.
	Workers int

	// PageRank holds configuration for the PageRank pass.
	PageRank PageRankOptions
}

// DefaultOptions returns sequential execution with standard PageRank
// settings.
func DefaultOptions() Options {
	return Options{
		Workers:  1,
		PageRank: DefaultPageRankOptions(),
	}
}

// Result holds every metric for one graph. All vectors have one entry per
// node, aligned with insertion order.
type Result struct {
	Closeness   []float64
	Betweenness []float64
	PageRank    []float64
	Highest     Selection
}

// Analyzer runs the full centrality pipeline over a graph.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze computes closeness, betweenness and PageRank for g and selects
// the top node per primary metric. The only error source is cancellation
// of ctx while workers are running.
func (a *Analyzer) Analyze(ctx context.Context, g *graph.Graph) (Result, error) {
	closeness, err := ClosenessParallel(ctx, g, a.opts.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("closeness: %w", err)
	}
	betweenness, err := BetweennessParallel(ctx, g, a.opts.Workers)
	if err != nil {
		return Result{}, fmt.Errorf("betweenness: %w", err)
	}
	return Result{
		Closeness:   closeness,
		Betweenness: betweenness,
		PageRank:    PageRank(g, a.opts.PageRank),
		Highest:     HighestPair(closeness, betweenness),
	}, nil
}
