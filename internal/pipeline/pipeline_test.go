package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/pivot/internal/builder"
	"github.com/papapumpkin/pivot/internal/centrality"
	"github.com/papapumpkin/pivot/internal/config"
	"github.com/papapumpkin/pivot/internal/dataset"
	"github.com/papapumpkin/pivot/internal/logging"
	"github.com/papapumpkin/pivot/internal/store"
	"github.com/papapumpkin/pivot/internal/telemetry"
)

const carsCSV = `Brand,Price,Mileage
Chevrolet,1000,50
Ford,2000,60
Jeep,3000,70
Ford,2500,65
`

// writeDataset writes content to a temp CSV and returns its path.
func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func chainOptions(path string) Options {
	return Options{
		Dataset:  path,
		Strategy: builder.NameChain,
		Builder:  builder.Options{Column: "Brand"},
		Target:   "Chevrolet",
		Clusters: 2,
		Analysis: centrality.DefaultOptions(),
	}
}

// newTestRunner returns a runner with fixed IDs and clock and a buffer that
// collects telemetry.
func newTestRunner(st *store.Store) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewRunner(logging.Discard(), telemetry.NewWriterEmitter(&buf), st)
	r.newID = func() string { return "run-1" }
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return r, &buf
}

func eventKinds(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	var kinds []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var evt telemetry.Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("bad telemetry line %q: %v", line, err)
		}
		if evt.RunID != "run-1" {
			t.Errorf("event %s has run %q", evt.Kind, evt.RunID)
		}
		kinds = append(kinds, evt.Kind)
	}
	return kinds
}

func TestRun_ChainGraph(t *testing.T) {
	t.Parallel()
	r, events := newTestRunner(nil)

	out, err := r.Run(context.Background(), chainOptions(writeDataset(t, carsCSV)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.RunID != "run-1" || out.Rows != 4 {
		t.Errorf("RunID=%q Rows=%d", out.RunID, out.Rows)
	}
	if got := out.Graph.Nodes(); strings.Join(got, ",") != "Chevrolet,Ford,Jeep" {
		t.Errorf("nodes = %v", got)
	}
	if p := out.Result.Highest.Betweenness; !p.Found || p.Index != 1 {
		t.Errorf("highest betweenness = %+v, want Ford (1)", p)
	}

	if out.Subgraph == nil || out.Subgraph.Len() != 2 || out.Subgraph.EdgeCount() != 1 {
		t.Fatalf("subgraph = %v", out.Subgraph)
	}
	if len(out.SubResult.Closeness) != 2 {
		t.Errorf("subgraph closeness = %v", out.SubResult.Closeness)
	}

	if len(out.Clusters) != 2 || strings.Join(out.Clusters[0].Labels, ",") != "Chevrolet,Jeep" {
		t.Errorf("clusters = %+v", out.Clusters)
	}
	if len(out.Components) != 1 {
		t.Errorf("components = %+v", out.Components)
	}

	doc := out.Document
	if doc.Target != "Chevrolet" || doc.Subgraph == nil || doc.Graph.TopCloseness.Label != "Ford" {
		t.Errorf("document = %+v", doc)
	}

	want := []string{
		telemetry.KindRunStart,
		telemetry.KindDatasetLoaded,
		telemetry.KindGraphBuilt,
		telemetry.KindCentralityDone,
		telemetry.KindSubgraphBuilt,
		telemetry.KindRunDone,
	}
	if got := eventKinds(t, events); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("telemetry kinds = %v, want %v", got, want)
	}
}

func TestRun_NoTargetNoClusters(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner(nil)
	opts := chainOptions(writeDataset(t, carsCSV))
	opts.Target = ""
	opts.Clusters = 0

	out, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Subgraph != nil || out.Document.Subgraph != nil {
		t.Error("subgraph should be skipped without a target")
	}
	if out.Clusters != nil {
		t.Errorf("clusters should be skipped, got %+v", out.Clusters)
	}
}

func TestRun_UnknownTargetYieldsEmptySubgraph(t *testing.T) {
	t.Parallel()
	r, _ := newTestRunner(nil)
	opts := chainOptions(writeDataset(t, carsCSV))
	opts.Target = "Tesla"

	out, err := r.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Subgraph.Len() != 0 || out.Document.Subgraph.NodeCount != 0 {
		t.Errorf("expected empty subgraph, got %v", out.Subgraph)
	}
	if out.SubResult.Highest.Closeness.Found {
		t.Error("empty subgraph should have no highest node")
	}
}

const regionsCSV = `Brand,Region
Chevrolet,US
Ford,US
Toyota,JP
Jeep,US
Honda,JP
`

func TestRun_Filter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		filter    string
		wantNodes string
		wantMatch int
		wantWarn  bool
	}{
		{name: "no filter", wantNodes: "Chevrolet,Ford,Toyota,Jeep,Honda", wantMatch: 5},
		{name: "matching", filter: "Region=US", wantNodes: "Chevrolet,Ford,Jeep", wantMatch: 3},
		{name: "no match", filter: "Region=EU", wantNodes: "", wantMatch: 0, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, events := newTestRunner(nil)
			var logs bytes.Buffer
			r.Log = logging.New(&logs, false)
			opts := chainOptions(writeDataset(t, regionsCSV))
			opts.Target = ""
			opts.Filter = tt.filter

			out, err := r.Run(context.Background(), opts)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out.Rows != 5 || out.Matched != tt.wantMatch {
				t.Errorf("Rows=%d Matched=%d, want 5 and %d", out.Rows, out.Matched, tt.wantMatch)
			}
			if got := strings.Join(out.Graph.Nodes(), ","); got != tt.wantNodes {
				t.Errorf("nodes = %q, want %q", got, tt.wantNodes)
			}
			if out.Document.Filter != tt.filter {
				t.Errorf("document filter = %q, want %q", out.Document.Filter, tt.filter)
			}
			warned := strings.Contains(logs.String(), "filter matches no rows")
			if warned != tt.wantWarn {
				t.Errorf("warned = %v, want %v; logs:\n%s", warned, tt.wantWarn, logs.String())
			}
			if tt.wantWarn && !strings.Contains(logs.String(), "JP US") {
				t.Errorf("warning should list available values, got:\n%s", logs.String())
			}
			if !strings.Contains(events.String(), fmt.Sprintf(`"matched":%d`, tt.wantMatch)) {
				t.Errorf("dataset_loaded event missing matched count:\n%s", events.String())
			}
		})
	}
}

func TestRun_SavesToStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "pivot.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	r, _ := newTestRunner(st)
	if _, err := r.Run(ctx, chainOptions(writeDataset(t, carsCSV))); err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := st.Runs(ctx, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "run-1" || runs[0].TopBetweenness != "Ford" || runs[0].Target != "Chevrolet" {
		t.Fatalf("runs = %+v", runs)
	}
	scores, err := st.Scores(ctx, "run-1")
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	// 3 graph nodes + 2 subgraph nodes.
	if len(scores) != 5 {
		t.Errorf("got %d scores, want 5", len(scores))
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown strategy", func(t *testing.T) {
		t.Parallel()
		r, events := newTestRunner(nil)
		opts := chainOptions(writeDataset(t, carsCSV))
		opts.Strategy = "spiral"

		_, err := r.Run(context.Background(), opts)
		if !errors.Is(err, builder.ErrUnknownStrategy) {
			t.Fatalf("err = %v, want ErrUnknownStrategy", err)
		}
		kinds := eventKinds(t, events)
		if kinds[len(kinds)-1] != telemetry.KindRunFailed {
			t.Errorf("last event = %s, want run_failed", kinds[len(kinds)-1])
		}
	})

	t.Run("malformed filter", func(t *testing.T) {
		t.Parallel()
		r, _ := newTestRunner(nil)
		opts := chainOptions(writeDataset(t, carsCSV))
		opts.Filter = "Brand"
		_, err := r.Run(context.Background(), opts)
		if !errors.Is(err, dataset.ErrBadCondition) {
			t.Errorf("err = %v, want ErrBadCondition", err)
		}
	})

	t.Run("missing dataset", func(t *testing.T) {
		t.Parallel()
		r, _ := newTestRunner(nil)
		_, err := r.Run(context.Background(), chainOptions(filepath.Join(t.TempDir(), "none.csv")))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("err = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		r, _ := newTestRunner(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := r.Run(ctx, chainOptions(writeDataset(t, carsCSV)))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Config{
		Dataset:     "cars.csv",
		Column:      "Model",
		Strategy:    "random",
		Probability: 0.3,
		Seed:        9,
		FeatureX:    "Price",
		FeatureY:    "Mileage",
		Threshold:   0.2,
		Target:      "Jeep",
		Filter:      "Region=US",
		Clusters:    4,
		Workers:     6,
	}
	opts := OptionsFromConfig(cfg)

	if opts.Dataset != "cars.csv" || opts.Strategy != "random" || opts.Target != "Jeep" || opts.Clusters != 4 || opts.Filter != "Region=US" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Builder.Column != "Model" || opts.Builder.Seed != 9 || opts.Builder.Probability != 0.3 {
		t.Errorf("builder opts = %+v", opts.Builder)
	}
	if opts.Analysis.Workers != 6 || opts.Analysis.PageRank.Damping == 0 {
		t.Errorf("analysis opts = %+v", opts.Analysis)
	}
}
