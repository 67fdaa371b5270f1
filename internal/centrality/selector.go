package centrality

// Pick is the outcome of a highest-score search.
type Pick struct {
	Index int  // node index of the winner; -1 when Found is false
	Found bool // false only for an empty score vector
}

// Selection holds the highest-scoring node for each primary metric.
type Selection struct {
	Closeness   Pick
	Betweenness Pick
}

// Highest returns the index of the largest score. Ties resolve to the first
// occurrence, so the earliest inserted node wins. Scores must not contain
// NaN.
func Highest(scores []float64) Pick {
	if len(scores) == 0 {
		return Pick{Index: -1}
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return Pick{Index: best, Found: true}
}

// HighestPair selects the top node for closeness and betweenness.
func HighestPair(closeness, betweenness []float64) Selection {
	return Selection{
		Closeness:   Highest(closeness),
		Betweenness: Highest(betweenness),
	}
}
