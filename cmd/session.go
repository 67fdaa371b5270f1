package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/config"
	"github.com/papapumpkin/pivot/internal/logging"
	"github.com/papapumpkin/pivot/internal/pipeline"
	"github.com/papapumpkin/pivot/internal/report"
	"github.com/papapumpkin/pivot/internal/store"
	"github.com/papapumpkin/pivot/internal/telemetry"
	"github.com/papapumpkin/pivot/internal/ui"
)

var errNoDataset = errors.New("no dataset given; pass a CSV path or set dataset in .pivot.toml")

// session bundles the collaborators shared by the analysis commands.
type session struct {
	cfg     config.Config
	printer *ui.Printer
	runner  *pipeline.Runner
	emitter *telemetry.Emitter
	store   *store.Store
}

// openSession loads configuration, applies flag overrides and the optional
// dataset argument, and opens telemetry and the run store when configured.
func openSession(cmd *cobra.Command, args []string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, &cfg)
	if len(args) > 0 {
		cfg.Dataset = args[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Dataset == "" {
		return nil, errNoDataset
	}

	s := &session{
		cfg:     cfg,
		printer: ui.New(cmd.ErrOrStderr()),
	}
	if cfg.TelemetryPath != "" {
		if s.emitter, err = telemetry.NewEmitter(cfg.TelemetryPath); err != nil {
			return nil, err
		}
	}
	if cfg.DBPath != "" {
		if s.store, err = store.Open(commandContext(cmd), cfg.DBPath); err != nil {
			s.emitter.Close()
			return nil, err
		}
	}
	s.runner = pipeline.NewRunner(logging.New(cmd.ErrOrStderr(), cfg.Verbose), s.emitter, s.store)
	return s, nil
}

func (s *session) Close() {
	if err := s.emitter.Close(); err != nil {
		s.printer.Warn(err.Error())
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.printer.Warn(err.Error())
		}
	}
}

// run executes the pipeline once and prints the run summary. Errors are
// returned unprinted.
func (s *session) run(ctx context.Context, opts pipeline.Options) (*pipeline.Outcome, error) {
	out, err := s.runner.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	doc := out.Document
	d := ui.RunSummaryData{
		RunID:      out.RunID,
		Rows:       out.Rows,
		Skipped:    out.Skipped,
		Nodes:      doc.Graph.NodeCount,
		Edges:      doc.Graph.EdgeCount,
		Components: doc.Graph.Components,
		Elapsed:    out.Elapsed,
	}
	if doc.Graph.TopCloseness != nil {
		d.TopCloseness = doc.Graph.TopCloseness.Label
	}
	if doc.Graph.TopBetweenness != nil {
		d.TopBetweenness = doc.Graph.TopBetweenness.Label
	}
	s.printer.RunSummary(d)
	return out, nil
}

// render writes doc to w in the configured format.
func (s *session) render(w io.Writer, doc report.Document) error {
	strategy, err := report.ForFormat(s.cfg.Format)
	if err != nil {
		return err
	}
	return strategy.Render(w, doc)
}

// applyFlagOverrides applies explicitly set CLI flag values to the loaded
// config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, ok := flagString(cmd, "strategy"); ok {
		cfg.Strategy = v
	}
	if v, ok := flagString(cmd, "column"); ok {
		cfg.Column = v
	}
	if v, ok := flagString(cmd, "filter"); ok {
		cfg.Filter = v
	}
	if v, ok := flagString(cmd, "format"); ok {
		cfg.Format = v
	}
	if v, ok := flagString(cmd, "db"); ok {
		cfg.DBPath = v
	}
	if v, ok := flagString(cmd, "telemetry"); ok {
		cfg.TelemetryPath = v
	}
	if v, ok := flagString(cmd, "target"); ok {
		cfg.Target = v
	}
	if v, ok := flagInt(cmd, "workers"); ok {
		cfg.Workers = v
	}
	if v, ok := flagInt(cmd, "clusters"); ok {
		cfg.Clusters = v
	}
	if f := cmd.Flag("verbose"); f != nil && f.Changed && f.Value.String() == "true" {
		cfg.Verbose = true
	}
}

// flagString returns the value of a local or inherited flag when it was
// set on the command line.
func flagString(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flag(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

func flagInt(cmd *cobra.Command, name string) (int, bool) {
	s, ok := flagString(cmd, name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// commandContext returns the command's context, or Background when the
// command was invoked without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM.
func setupSignalContext(cmd *cobra.Command, printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// debounce returns the configured watcher debounce interval.
func debounce(cfg config.Config) time.Duration {
	return time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
}
