// Package report turns centrality results into documents and renders them
// in several output formats.
package report

import (
	"time"

	"github.com/papapumpkin/pivot/internal/centrality"
	"github.com/papapumpkin/pivot/internal/cluster"
	"github.com/papapumpkin/pivot/internal/graph"
)

// NodeScore holds every metric for one node.
type NodeScore struct {
	Index       int     `json:"index" toml:"index"`
	Label       string  `json:"label" toml:"label"`
	Closeness   float64 `json:"closeness" toml:"closeness"`
	Betweenness float64 `json:"betweenness" toml:"betweenness"`
	PageRank    float64 `json:"pagerank" toml:"pagerank"`
}

// Summary describes the centrality of one graph.
type Summary struct {
	NodeCount      int         `json:"node_count" toml:"node_count"`
	EdgeCount      int         `json:"edge_count" toml:"edge_count"`
	Components     int         `json:"components" toml:"components"`
	TopCloseness   *NodeScore  `json:"top_closeness,omitempty" toml:"top_closeness,omitempty"`
	TopBetweenness *NodeScore  `json:"top_betweenness,omitempty" toml:"top_betweenness,omitempty"`
	Nodes          []NodeScore `json:"nodes" toml:"nodes"`
}

// Group is a labelled node bucket.
type Group struct {
	ID     int      `json:"id" toml:"id"`
	Labels []string `json:"labels" toml:"labels"`
}

// Document is everything one run reports.
type Document struct {
	RunID       string    `json:"run_id" toml:"run_id"`
	Dataset     string    `json:"dataset" toml:"dataset"`
	Filter      string    `json:"filter,omitempty" toml:"filter,omitempty"`
	Strategy    string    `json:"strategy" toml:"strategy"`
	GeneratedAt time.Time `json:"generated_at" toml:"generated_at"`
	Graph       Summary   `json:"graph" toml:"graph"`
	// Target and Subgraph are set when a star subgraph was analyzed.
	Target   string   `json:"target,omitempty" toml:"target,omitempty"`
	Subgraph *Summary `json:"subgraph,omitempty" toml:"subgraph,omitempty"`
	Clusters []Group  `json:"clusters,omitempty" toml:"clusters,omitempty"`
}

// Summarize builds a Summary for g from an analysis result over the same
// graph.
func Summarize(g *graph.Graph, res centrality.Result) Summary {
	s := Summary{
		NodeCount:  g.Len(),
		EdgeCount:  g.EdgeCount(),
		Components: len(graph.Components(g)),
		Nodes:      make([]NodeScore, g.Len()),
	}
	for i := range s.Nodes {
		s.Nodes[i] = NodeScore{
			Index:       i,
			Label:       g.Label(i),
			Closeness:   at(res.Closeness, i),
			Betweenness: at(res.Betweenness, i),
			PageRank:    at(res.PageRank, i),
		}
	}
	if p := res.Highest.Closeness; p.Found {
		top := s.Nodes[p.Index]
		s.TopCloseness = &top
	}
	if p := res.Highest.Betweenness; p.Found {
		top := s.Nodes[p.Index]
		s.TopBetweenness = &top
	}
	return s
}

// Groups converts cluster buckets into report groups.
func Groups(groups []cluster.Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{ID: g.ID, Labels: g.Labels}
	}
	return out
}

func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return 0
}
