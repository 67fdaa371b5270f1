// Package ui prints human-facing status lines for pivot commands.
package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/pivot/internal/cluster"
	"github.com/papapumpkin/pivot/internal/store"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorAccent  = lipgloss.Color("#FFD700")
	colorSuccess = lipgloss.Color("#00E676")
	colorDanger  = lipgloss.Color("#FF5252")
	colorMuted   = lipgloss.Color("#636363")
)

// Printer writes styled status lines to w, normally os.Stderr. Styling is
// dropped automatically when w is not a terminal.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer

	title   lipgloss.Style
	muted   lipgloss.Style
	accent  lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
}

// New creates a Printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		r:       r,
		title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		muted:   r.NewStyle().Foreground(colorMuted),
		accent:  r.NewStyle().Foreground(colorAccent).Bold(true),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		danger:  r.NewStyle().Foreground(colorDanger).Bold(true),
	}
}

// Banner prints the boxed program title shown when a long-running command
// starts.
func (p *Printer) Banner() {
	box := p.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(0, 2)
	fmt.Fprintln(p.w, box.Render(p.title.Render("PIVOT")+"  "+p.muted.Render("graph centrality explorer")))
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.muted.Render(msg))
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.accent.Render("warning:"), msg)
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", p.danger.Render("error:"), msg)
}

// RunSummaryData holds the figures shown after a run completes.
type RunSummaryData struct {
	RunID          string
	Rows           int
	Skipped        int
	Nodes          int
	Edges          int
	Components     int
	TopCloseness   string
	TopBetweenness string
	Elapsed        time.Duration
}

// RunSummary prints a short block describing a finished run.
func (p *Printer) RunSummary(d RunSummaryData) {
	fmt.Fprintf(p.w, "%s %s\n", p.success.Render("✓ run complete"), p.muted.Render(d.RunID))
	rows := fmt.Sprintf("%d", d.Rows)
	if d.Skipped > 0 {
		rows += fmt.Sprintf(" (%d skipped)", d.Skipped)
	}
	fmt.Fprintf(p.w, "  rows:        %s\n", rows)
	fmt.Fprintf(p.w, "  graph:       %d nodes, %d edges, %d component(s)\n", d.Nodes, d.Edges, d.Components)
	if d.TopCloseness != "" {
		fmt.Fprintf(p.w, "  closeness:   %s\n", p.accent.Render(d.TopCloseness))
	}
	if d.TopBetweenness != "" {
		fmt.Fprintf(p.w, "  betweenness: %s\n", p.accent.Render(d.TopBetweenness))
	}
	fmt.Fprintf(p.w, "  elapsed:     %.1fs\n", d.Elapsed.Seconds())
}

// Groups prints labelled node groups under a heading.
func (p *Printer) Groups(heading string, groups []cluster.Group) {
	fmt.Fprintln(p.w, p.title.Render(heading))
	if len(groups) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("  (none)"))
		return
	}
	for _, g := range groups {
		labels := strings.Join(g.Labels, ", ")
		if labels == "" {
			labels = p.muted.Render("(empty)")
		}
		fmt.Fprintf(p.w, "  %d: %s\n", g.ID, labels)
	}
}

// History prints stored runs as a table, newest first.
func (p *Printer) History(runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("no runs recorded"))
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tWHEN\tDATASET\tSTRATEGY\tNODES\tEDGES\tCLOSENESS\tBETWEENNESS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			shortID(r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Dataset, r.Strategy,
			r.Nodes, r.Edges, orDash(r.TopCloseness), orDash(r.TopBetweenness))
	}
	tw.Flush()
}

// Scores prints the header of one stored run followed by its per-node
// scores grouped by scope.
func (p *Printer) Scores(run store.Run, scores []store.Score) {
	fmt.Fprintf(p.w, "%s %s\n", p.title.Render("run"), run.ID)
	fmt.Fprintf(p.w, "  dataset: %s  strategy: %s  target: %s\n", run.Dataset, run.Strategy, orDash(run.Target))
	if len(scores) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("  no scores stored"))
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCOPE\t#\tNODE\tCLOSENESS\tBETWEENNESS\tPAGERANK")
	for _, sc := range scores {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.4f\t%.4f\t%.4f\n",
			sc.Scope, sc.Index, sc.Label, sc.Closeness, sc.Betweenness, sc.PageRank)
	}
	tw.Flush()
}

func (p *Printer) Watching(path string) {
	fmt.Fprintf(p.w, "%s %s %s\n", p.title.Render("◆ watching"), path, p.muted.Render("(ctrl-c to stop)"))
}

func (p *Printer) FileChanged(kind, path string) {
	fmt.Fprintf(p.w, "%s %s\n", p.accent.Render("↻ "+kind), path)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
