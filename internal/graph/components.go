package graph

import "sort"

// UnionFind implements a disjoint-set structure over node indices with path
// compression and union by rank.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind creates a UnionFind with n singleton sets, one per index.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x int) int {
	if uf.parent[x] != x {
		uf.parent[x] = uf.Find(uf.parent[x]) // path compression
	}
	return uf.parent[x]
}

// Union merges the sets containing x and y.
func (uf *UnionFind) Union(x, y int) {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
}

// Connected reports whether x and y belong to the same set.
func (uf *UnionFind) Connected(x, y int) bool {
	return uf.Find(x) == uf.Find(y)
}

// Components partitions g into connected components. Each component lists
// its node indices in ascending order, and components are ordered by their
// smallest index. An empty graph has no components.
func Components(g *Graph) [][]int {
	uf := NewUnionFind(g.Len())
	for _, e := range g.edges {
		uf.Union(e.A, e.B)
	}

	byRoot := make(map[int][]int)
	for i := 0; i < g.Len(); i++ {
		root := uf.Find(i)
		byRoot[root] = append(byRoot[root], i)
	}

	comps := make([][]int, 0, len(byRoot))
	for _, members := range byRoot {
		comps = append(comps, members)
	}
	// Members were appended in ascending index order already.
	sort.Slice(comps, func(i, j int) bool {
		return comps[i][0] < comps[j][0]
	})
	return comps
}
