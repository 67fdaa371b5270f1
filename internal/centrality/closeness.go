package centrality

import "github.com/papapumpkin/pivot/internal/graph"

// Closeness computes closeness centrality for every node. A node's raw score
// is (reachable-1)/totalDistance over the nodes it can reach, itself
// included; isolated nodes score 0. Scores are then divided by the maximum
// so the best-connected node scores exactly 1. An all-zero vector is left
// as is.
func Closeness(g *graph.Graph) []float64 {
	scores := make([]float64, g.Len())
	var b bfs
	for i := range scores {
		b.run(g, i)
		scores[i] = closenessOf(b.dist)
	}
	normalizeByMax(scores)
	return scores
}

// closenessOf returns the raw closeness score for one distance vector.
func closenessOf(dist []int) float64 {
	count, total := 0, 0
	for _, d := range dist {
		if d == Unreachable {
			continue
		}
		count++
		total += d
	}
	if total > 0 && count > 1 {
		return float64(count-1) / float64(total)
	}
	return 0
}

// normalizeByMax divides every score by the largest one when it is positive.
func normalizeByMax(scores []float64) {
	maxScore := 0.0
	for _, v := range scores {
		if v > maxScore {
			maxScore = v
		}
	}
	if maxScore > 0 {
		for i := range scores {
			scores[i] /= maxScore
		}
	}
}
