// Package pipeline runs one end-to-end analysis: load and filter a dataset,
// build a graph, compute centrality for it and for the star subgraph around a
// target, bucket nodes into clusters, then record the run.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/papapumpkin/pivot/internal/builder"
	"github.com/papapumpkin/pivot/internal/centrality"
	"github.com/papapumpkin/pivot/internal/cluster"
	"github.com/papapumpkin/pivot/internal/config"
	"github.com/papapumpkin/pivot/internal/dataset"
	"github.com/papapumpkin/pivot/internal/graph"
	"github.com/papapumpkin/pivot/internal/report"
	"github.com/papapumpkin/pivot/internal/store"
	"github.com/papapumpkin/pivot/internal/telemetry"
)

// Options selects what a run does.
type Options struct {
	Dataset string
	// Filter, in the form column=value, restricts the rows fed to the
	// builder. Empty keeps every row.
	Filter   string
	Strategy string
	Builder  builder.Options
	// Target names the node whose star subgraph is analyzed. Empty skips
	// the subgraph stage.
	Target   string
	Clusters int
	Analysis centrality.Options
}

// OptionsFromConfig maps loaded configuration onto run options.
func OptionsFromConfig(cfg config.Config) Options {
	analysis := centrality.DefaultOptions()
	analysis.Workers = cfg.Workers
	return Options{
		Dataset:  cfg.Dataset,
		Filter:   cfg.Filter,
		Strategy: cfg.Strategy,
		Builder: builder.Options{
			Column:      cfg.Column,
			Probability: cfg.Probability,
			Seed:        cfg.Seed,
			FeatureX:    cfg.FeatureX,
			FeatureY:    cfg.FeatureY,
			Threshold:   cfg.Threshold,
		},
		Target:   cfg.Target,
		Clusters: cfg.Clusters,
		Analysis: analysis,
	}
}

// Outcome is everything a run produced.
type Outcome struct {
	RunID   string
	Rows    int
	Skipped int
	// Matched is the number of rows left after the filter; equal to Rows
	// without one.
	Matched int
	Graph   *graph.Graph
	Result  centrality.Result
	// Subgraph and SubResult are nil/zero when no target was requested.
	Subgraph   *graph.Graph
	SubResult  centrality.Result
	Clusters   []cluster.Group
	Components []cluster.Group
	Document   report.Document
	Elapsed    time.Duration
}

// Runner executes runs. Log is required; Emitter and Store may be nil.
type Runner struct {
	Log     *logrus.Logger
	Emitter *telemetry.Emitter
	Store   *store.Store

	newID func() string
	now   func() time.Time
}

// NewRunner creates a Runner with the given collaborators.
func NewRunner(log *logrus.Logger, em *telemetry.Emitter, st *store.Store) *Runner {
	return &Runner{
		Log:     log,
		Emitter: em,
		Store:   st,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Run performs one analysis. A failed run is reported to telemetry before
// the error is returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*Outcome, error) {
	out := &Outcome{RunID: r.newID()}
	start := r.now()
	log := r.Log.WithField("run", out.RunID)

	r.record(log, out.RunID, telemetry.KindRunStart, map[string]any{
		"dataset":  opts.Dataset,
		"strategy": opts.Strategy,
		"target":   opts.Target,
	})

	if err := r.run(ctx, log, opts, out); err != nil {
		r.record(log, out.RunID, telemetry.KindRunFailed, map[string]string{"error": err.Error()})
		return nil, err
	}

	out.Elapsed = r.now().Sub(start)
	r.record(log, out.RunID, telemetry.KindRunDone, map[string]any{"elapsed_ms": out.Elapsed.Milliseconds()})
	log.WithField("elapsed", out.Elapsed).Info("run complete")
	return out, nil
}

func (r *Runner) run(ctx context.Context, log *logrus.Entry, opts Options, out *Outcome) error {
	strategy, err := builder.ForName(opts.Strategy, opts.Builder)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	var cond *dataset.Condition
	if opts.Filter != "" {
		c, err := dataset.ParseCondition(opts.Filter)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		cond = &c
	}

	ds, err := dataset.Load(opts.Dataset)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	rows := ds.Rows
	if cond != nil {
		rows = cond.Apply(rows)
		if len(rows) == 0 {
			log.WithFields(logrus.Fields{
				"filter": cond.String(),
				"values": dataset.UniqueValues(ds.Rows, cond.Attribute),
			}).Warn("filter matches no rows")
		}
	}
	out.Rows, out.Skipped, out.Matched = len(ds.Rows), ds.Skipped, len(rows)
	log.WithFields(logrus.Fields{"rows": out.Rows, "skipped": out.Skipped, "matched": out.Matched}).Debug("dataset loaded")
	r.record(log, out.RunID, telemetry.KindDatasetLoaded, map[string]int{
		"rows":    out.Rows,
		"skipped": out.Skipped,
		"matched": out.Matched,
	})

	g, err := strategy.Build(rows)
	if err != nil {
		return fmt.Errorf("pipeline: build graph: %w", err)
	}
	out.Graph = g
	log.WithFields(logrus.Fields{"nodes": g.Len(), "edges": g.EdgeCount()}).Debug("graph built")
	r.record(log, out.RunID, telemetry.KindGraphBuilt, map[string]int{"nodes": g.Len(), "edges": g.EdgeCount()})

	analyzer := centrality.NewAnalyzer(opts.Analysis)
	if out.Result, err = analyzer.Analyze(ctx, g); err != nil {
		return fmt.Errorf("pipeline: analyze graph: %w", err)
	}
	r.record(log, out.RunID, telemetry.KindCentralityDone, map[string]any{
		"scope":           store.ScopeGraph,
		"top_closeness":   topLabel(g, out.Result.Highest.Closeness),
		"top_betweenness": topLabel(g, out.Result.Highest.Betweenness),
	})

	if opts.Target != "" {
		if _, ok := g.Index(opts.Target); !ok {
			log.WithField("target", opts.Target).Warn("target not in graph; subgraph is empty")
		}
		out.Subgraph = graph.Star(g, opts.Target)
		r.record(log, out.RunID, telemetry.KindSubgraphBuilt, map[string]any{
			"target": opts.Target,
			"nodes":  out.Subgraph.Len(),
			"edges":  out.Subgraph.EdgeCount(),
		})
		if out.SubResult, err = analyzer.Analyze(ctx, out.Subgraph); err != nil {
			return fmt.Errorf("pipeline: analyze subgraph: %w", err)
		}
	}

	if opts.Clusters > 0 {
		buckets, err := cluster.RoundRobin(g.Len(), opts.Clusters)
		if err != nil {
			return fmt.Errorf("pipeline: %w", err)
		}
		out.Clusters = cluster.Summarize(g, buckets)
	}
	out.Components = cluster.Components(g)

	out.Document = r.document(opts, out)
	return r.save(ctx, opts, out)
}

func (r *Runner) document(opts Options, out *Outcome) report.Document {
	doc := report.Document{
		RunID:       out.RunID,
		Dataset:     opts.Dataset,
		Filter:      opts.Filter,
		Strategy:    opts.Strategy,
		GeneratedAt: r.now().UTC(),
		Graph:       report.Summarize(out.Graph, out.Result),
		Clusters:    report.Groups(out.Clusters),
	}
	if out.Subgraph != nil {
		sub := report.Summarize(out.Subgraph, out.SubResult)
		doc.Target = opts.Target
		doc.Subgraph = &sub
	}
	return doc
}

func (r *Runner) save(ctx context.Context, opts Options, out *Outcome) error {
	if r.Store == nil {
		return nil
	}
	doc := out.Document
	run := store.Run{
		ID:         out.RunID,
		Dataset:    opts.Dataset,
		Strategy:   opts.Strategy,
		Target:     opts.Target,
		Nodes:      doc.Graph.NodeCount,
		Edges:      doc.Graph.EdgeCount,
		Components: doc.Graph.Components,
		CreatedAt:  doc.GeneratedAt,
	}
	if doc.Graph.TopCloseness != nil {
		run.TopCloseness = doc.Graph.TopCloseness.Label
	}
	if doc.Graph.TopBetweenness != nil {
		run.TopBetweenness = doc.Graph.TopBetweenness.Label
	}

	scores := scoresFor(store.ScopeGraph, doc.Graph.Nodes)
	if doc.Subgraph != nil {
		scores = append(scores, scoresFor(store.ScopeSubgraph, doc.Subgraph.Nodes)...)
	}
	if err := r.Store.SaveRun(ctx, run, scores); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

func scoresFor(scope string, nodes []report.NodeScore) []store.Score {
	out := make([]store.Score, len(nodes))
	for i, n := range nodes {
		out[i] = store.Score{
			Scope:       scope,
			Index:       n.Index,
			Label:       n.Label,
			Closeness:   n.Closeness,
			Betweenness: n.Betweenness,
			PageRank:    n.PageRank,
		}
	}
	return out
}

// record emits a telemetry event. Telemetry failures are logged and never
// fail the run.
func (r *Runner) record(log *logrus.Entry, runID, kind string, data any) {
	if err := r.Emitter.Record(runID, kind, data); err != nil {
		log.WithError(err).WithField("kind", kind).Warn("telemetry write failed")
	}
}

func topLabel(g *graph.Graph, p centrality.Pick) string {
	if !p.Found {
		return ""
	}
	return g.Label(p.Index)
}
