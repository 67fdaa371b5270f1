package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	toml "github.com/pelletier/go-toml/v2"
)

// ErrUnknownFormat is returned by ForFormat for an unrecognized name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by ForFormat.
const (
	FormatText = "text"
	FormatTSV  = "tsv"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Strategy defines how to present a Document. Each implementation produces
// a distinct view of the same underlying results.
type Strategy interface {
	Render(w io.Writer, doc Document) error
}

// ForFormat returns the strategy for a format name.
func ForFormat(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case FormatText, "":
		return TextStrategy{}, nil
	case FormatTSV:
		return TSVStrategy{}, nil
	case FormatJSON:
		return JSONStrategy{}, nil
	case FormatTOML:
		return TOMLStrategy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// TextStrategy renders a human-readable report. Headings are styled when w
// is a terminal.
type TextStrategy struct{}

// Render produces the score table, highest nodes and any clusters.
func (TextStrategy) Render(w io.Writer, doc Document) error {
	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF"))
	accent := r.NewStyle().Foreground(lipgloss.Color("#FFD700"))

	var b strings.Builder
	fmt.Fprintln(&b, heading.Render("# Centrality Report"))
	if doc.Dataset != "" {
		fmt.Fprintf(&b, "dataset: %s  strategy: %s", doc.Dataset, doc.Strategy)
		if doc.Filter != "" {
			fmt.Fprintf(&b, "  filter: %s", doc.Filter)
		}
		b.WriteByte('\n')
	}
	writeSummary(&b, "Graph", doc.Graph, heading, accent)

	if doc.Subgraph != nil {
		b.WriteByte('\n')
		writeSummary(&b, fmt.Sprintf("Subgraph around %s", doc.Target), *doc.Subgraph, heading, accent)
	}

	if len(doc.Clusters) > 0 {
		fmt.Fprintf(&b, "\n%s\n", heading.Render("## Clusters"))
		for _, c := range doc.Clusters {
			fmt.Fprintf(&b, "  %d: %s\n", c.ID, strings.Join(c.Labels, ", "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, title string, s Summary, heading, accent lipgloss.Style) {
	fmt.Fprintf(b, "\n%s\n", heading.Render("## "+title))
	fmt.Fprintf(b, "nodes: %d  edges: %d  components: %d\n\n", s.NodeCount, s.EdgeCount, s.Components)
	if s.NodeCount == 0 {
		b.WriteString("No nodes in graph.\n")
		return
	}

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tnode\tcloseness\tbetweenness\tpagerank")
	for _, n := range s.Nodes {
		fmt.Fprintf(tw, "%d\t%s\t%.4f\t%.4f\t%.4f\n", n.Index, n.Label, n.Closeness, n.Betweenness, n.PageRank)
	}
	tw.Flush()

	b.WriteByte('\n')
	if s.TopCloseness != nil {
		fmt.Fprintf(b, "Highest closeness:   %s (%s)\n",
			accent.Render(s.TopCloseness.Label), fmt.Sprintf("%.4f", s.TopCloseness.Closeness))
	}
	if s.TopBetweenness != nil {
		fmt.Fprintf(b, "Highest betweenness: %s (%s)\n",
			accent.Render(s.TopBetweenness.Label), fmt.Sprintf("%.4f", s.TopBetweenness.Betweenness))
	}
}

// TSVStrategy renders one tab-separated row per node and scope.
type TSVStrategy struct{}

// Render writes a header and the full graph rows, followed by subgraph rows
// when present.
func (TSVStrategy) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	b.WriteString("scope\tindex\tlabel\tcloseness\tbetweenness\tpagerank\n")
	writeRows(&b, "graph", doc.Graph.Nodes)
	if doc.Subgraph != nil {
		writeRows(&b, "subgraph", doc.Subgraph.Nodes)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRows(b *strings.Builder, scope string, nodes []NodeScore) {
	for _, n := range nodes {
		fmt.Fprintf(b, "%s\t%d\t%s\t%.6f\t%.6f\t%.6f\n",
			scope, n.Index, n.Label, n.Closeness, n.Betweenness, n.PageRank)
	}
}

// JSONStrategy renders the document as indented JSON.
type JSONStrategy struct{}

// Render implements Strategy.
func (JSONStrategy) Render(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}

// TOMLStrategy renders the document as TOML.
type TOMLStrategy struct{}

// Render implements Strategy.
func (TOMLStrategy) Render(w io.Writer, doc Document) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("report: marshal toml: %w", err)
	}
	_, err = w.Write(data)
	return err
}
