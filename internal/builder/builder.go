// Package builder turns tabular rows into a graph.Graph. Each Strategy is a
// construction heuristic; none of them derive edges from real relationships
// in the data except Similarity.
package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/pivot/internal/dataset"
	"github.com/papapumpkin/pivot/internal/graph"
)

// ErrUnknownStrategy is returned by ForName for an unrecognized name.
var ErrUnknownStrategy = errors.New("unknown graph strategy")

// ErrBadFeature is returned when a Similarity feature value is not numeric.
var ErrBadFeature = errors.New("non-numeric feature value")

// Strategy names accepted by ForName.
const (
	NameChain      = "chain"
	NameComplete   = "complete"
	NameRandom     = "random"
	NameSimilarity = "similarity"
)

// Names lists every strategy name accepted by ForName.
var Names = []string{NameChain, NameComplete, NameRandom, NameSimilarity}

// Strategy builds a graph from dataset rows.
type Strategy interface {
	Build(rows []dataset.Row) (*graph.Graph, error)
}

// Options carries the parameters any strategy might need.
type Options struct {
	Column      string  // grouping attribute for chain, complete, random
	Probability float64 // edge probability for random
	Seed        uint64  // PRNG seed for random
	FeatureX    string  // first numeric column for similarity
	FeatureY    string  // second numeric column for similarity
	Threshold   float64 // minimum similarity for an edge
}

// ForName returns the strategy registered under name, configured from opts.
func ForName(name string, opts Options) (Strategy, error) {
	switch strings.ToLower(name) {
	case NameChain:
		return Chain{Column: opts.Column}, nil
	case NameComplete:
		return Complete{Column: opts.Column}, nil
	case NameRandom:
		return Random{Column: opts.Column, Probability: opts.Probability, Seed: opts.Seed}, nil
	case NameSimilarity:
		return Similarity{X: opts.FeatureX, Y: opts.FeatureY, Threshold: opts.Threshold}, nil
	}
	return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, name, strings.Join(Names, ", "))
}

// groupNodes adds one node per distinct value of column, in order of first
// appearance, and returns the labels added.
func groupNodes(rows []dataset.Row, column string) (*graph.Graph, []string) {
	g := graph.New()
	for _, v := range dataset.Column(rows, column) {
		g.AddNode(v)
	}
	return g, g.Nodes()
}

// connect adds an edge between two labels known to be in g.
func connect(g *graph.Graph, a, b string) error {
	if err := g.AddEdge(a, b); err != nil {
		return fmt.Errorf("builder: %w", err)
	}
	return nil
}
