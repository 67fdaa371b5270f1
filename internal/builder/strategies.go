package builder

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/papapumpkin/pivot/internal/dataset"
	"github.com/papapumpkin/pivot/internal/graph"
)

// Chain links the distinct values of Column into a path in order of first
// appearance, producing a sparse tree.
type Chain struct {
	Column string
}

// Build implements Strategy.
func (s Chain) Build(rows []dataset.Row) (*graph.Graph, error) {
	g, labels := groupNodes(rows, s.Column)
	for i := 0; i+1 < len(labels); i++ {
		if err := connect(g, labels[i], labels[i+1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Complete links every pair of distinct values of Column.
type Complete struct {
	Column string
}

// Build implements Strategy.
func (s Complete) Build(rows []dataset.Row) (*graph.Graph, error) {
	g, labels := groupNodes(rows, s.Column)
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if err := connect(g, labels[i], labels[j]); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Random links each pair of distinct values of Column with the given
// probability. The same Seed always yields the same graph.
type Random struct {
	Column      string
	Probability float64
	Seed        uint64
}

// Build implements Strategy.
func (s Random) Build(rows []dataset.Row) (*graph.Graph, error) {
	g, labels := groupNodes(rows, s.Column)
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	for i := range labels {
		for j := i + 1; j < len(labels); j++ {
			if rng.Float64() < s.Probability {
				if err := connect(g, labels[i], labels[j]); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// Similarity adds one node per row, labelled "row-N" (1-based), and links
// two rows when 1/(1+d) exceeds Threshold, d being the Euclidean distance
// between their (X, Y) feature values.
type Similarity struct {
	X         string
	Y         string
	Threshold float64
}

// Build implements Strategy.
func (s Similarity) Build(rows []dataset.Row) (*graph.Graph, error) {
	type point struct{ x, y float64 }

	g := graph.New()
	points := make([]point, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		x, err := feature(row, s.X, i)
		if err != nil {
			return nil, err
		}
		y, err := feature(row, s.Y, i)
		if err != nil {
			return nil, err
		}
		points[i] = point{x, y}
		labels[i] = fmt.Sprintf("row-%d", i+1)
		g.AddNode(labels[i])
	}

	for i := range points {
		for j := i + 1; j < len(points); j++ {
			d := math.Hypot(points[i].x-points[j].x, points[i].y-points[j].y)
			if 1/(1+d) > s.Threshold {
				if err := connect(g, labels[i], labels[j]); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// feature parses a numeric column. Missing or empty values count as 0.
func feature(row dataset.Row, column string, idx int) (float64, error) {
	raw := row[column]
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: row %d column %s = %q", ErrBadFeature, idx+1, column, raw)
	}
	return v, nil
}
