// Package telemetry records a JSONL event stream for pivot runs. Each stage
// of a run (dataset load, graph construction, centrality, subgraph) emits
// one structured event tagged with the run ID, so runs can be audited and
// compared after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindRunStart       = "run_start"
	KindDatasetLoaded  = "dataset_loaded"
	KindGraphBuilt     = "graph_built"
	KindCentralityDone = "centrality_done"
	KindSubgraphBuilt  = "subgraph_built"
	KindRunDone        = "run_done"
	KindRunFailed      = "run_failed"
)

// Event is a single telemetry record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events as JSON lines. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	w   io.Writer
	enc *json.Encoder
	mu  sync.Mutex
	now func() time.Time
}

// NewEmitter creates an Emitter appending to the file at path, creating it
// if needed.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return NewWriterEmitter(f), nil
}

// NewWriterEmitter creates an Emitter on top of w. If w is an io.Closer it
// is closed by Close.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:   w,
		enc: json.NewEncoder(w),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Emit writes evt as one line. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record stamps and emits an event of the given kind for runID.
func (e *Emitter) Record(runID, kind string, data any) error {
	if e == nil {
		return nil
	}
	return e.Emit(Event{Timestamp: e.now(), Kind: kind, RunID: runID, Data: data})
}

// Close closes the underlying writer when it supports closing. Calling
// Close on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.w.(io.Closer)
	if !ok {
		return nil
	}
	if err := c.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
