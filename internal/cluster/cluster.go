// Package cluster assigns graph nodes to buckets. RoundRobin is a
// placeholder partitioner: it spreads nodes evenly by index without looking
// at distances or edges. Connected components are the only structural
// grouping offered.
package cluster

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/pivot/internal/graph"
)

// ErrInvalidClusterCount is returned when fewer than one bucket is requested.
var ErrInvalidClusterCount = errors.New("cluster count must be at least 1")

// Group is a labelled view of one bucket.
type Group struct {
	ID     int
	Nodes  []int
	Labels []string
}

// RoundRobin places node i into bucket i mod k. Buckets beyond the node
// count stay empty.
func RoundRobin(n, k int) ([][]int, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidClusterCount, k)
	}
	buckets := make([][]int, k)
	for i := range buckets {
		buckets[i] = []int{}
	}
	for i := 0; i < n; i++ {
		buckets[i%k] = append(buckets[i%k], i)
	}
	return buckets, nil
}

// Components groups g by connected component.
func Components(g *graph.Graph) []Group {
	return Summarize(g, graph.Components(g))
}

// Summarize attaches node labels to index buckets.
func Summarize(g *graph.Graph, buckets [][]int) []Group {
	groups := make([]Group, len(buckets))
	for id, members := range buckets {
		labels := make([]string, len(members))
		for i, idx := range members {
			labels[i] = g.Label(idx)
		}
		groups[id] = Group{ID: id, Nodes: members, Labels: labels}
	}
	return groups
}
