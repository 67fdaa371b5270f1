package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/pivot/internal/config"
	"github.com/papapumpkin/pivot/internal/telemetry"
	"github.com/papapumpkin/pivot/internal/ui"
)

var errNoTelemetry = errors.New("no telemetry file; pass a path or set telemetry_path in .pivot.toml")

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [events.jsonl]",
	Short: "View JSONL telemetry events recorded by pivot runs",
	Long: `Reads and formats the JSONL telemetry file written by analysis runs.

With --run only events of that run are shown.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("run", "", "only show events of this run ID")
	telemetryCmd.Flags().Bool("follow", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)
	path := cfg.TelemetryPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errNoTelemetry
	}
	runID, _ := cmd.Flags().GetString("run")
	follow, _ := cmd.Flags().GetBool("follow")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	lines := newLineReader(f)
	if err := lines.printAvailable(cmd.OutOrStdout(), runID); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}
	if !follow {
		lines.flush(cmd.OutOrStdout(), runID)
		return nil
	}

	ctx, cancel := setupSignalContext(cmd, ui.New(cmd.ErrOrStderr()))
	defer cancel()
	return tailFollow(ctx, cmd.OutOrStdout(), lines, path, runID)
}

// lineReader reads newline-terminated events. A trailing line without its
// newline is held back until the writer finishes it.
type lineReader struct {
	r       *bufio.Reader
	partial string
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// printAvailable prints every complete line currently readable.
func (lr *lineReader) printAvailable(w io.Writer, runID string) error {
	for {
		chunk, err := lr.r.ReadString('\n')
		if errors.Is(err, io.EOF) {
			lr.partial += chunk
			return nil
		}
		if err != nil {
			return err
		}
		line := strings.TrimSpace(lr.partial + chunk)
		lr.partial = ""
		if line != "" {
			printEvent(w, line, runID)
		}
	}
}

// flush prints a held-back final line, for files not ending in a newline.
func (lr *lineReader) flush(w io.Writer, runID string) {
	if line := strings.TrimSpace(lr.partial); line != "" {
		printEvent(w, line, runID)
	}
	lr.partial = ""
}

// tailFollow watches the file for new data using fsnotify and prints new
// events until ctx is cancelled.
func tailFollow(ctx context.Context, w io.Writer, lines *lineReader, path, runID string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := lines.printAvailable(w, runID); err != nil {
				return fmt.Errorf("telemetry: read %s: %w", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("telemetry: watch %s: %w", path, err)
		}
	}
}

// printEvent decodes a JSONL line and prints a human-readable
// representation. Events of other runs are skipped when runID is set.
func printEvent(w io.Writer, line, runID string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if runID != "" && evt.RunID != runID {
		return
	}

	parts := []string{
		fmt.Sprintf("[%s]", evt.Timestamp.Format(time.TimeOnly)),
		evt.Kind,
	}
	if evt.RunID != "" {
		parts = append(parts, "run="+evt.RunID)
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
