package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// decodeLines parses every JSONL line in data, failing on malformed input.
func decodeLines(t *testing.T, data []byte) []Event {
	t.Helper()
	var out []Event
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var evt Event
		if err := json.Unmarshal([]byte(line), &evt); err != nil {
			t.Fatalf("invalid JSON line: %v\nline: %s", err, line)
		}
		out = append(out, evt)
	}
	return out
}

func TestNewEmitter_ErrorOnBadPath(t *testing.T) {
	t.Parallel()
	_, err := NewEmitter("/nonexistent/dir/events.jsonl")
	if err == nil {
		t.Fatal("expected error for bad path, got nil")
	}
	if !strings.Contains(err.Error(), "telemetry: open") {
		t.Errorf("expected wrapped error, got: %v", err)
	}
}

func TestRecord_WritesRunEvents(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	em := NewWriterEmitter(&buf)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	em.now = func() time.Time { return fixed }

	kinds := []string{KindRunStart, KindGraphBuilt, KindRunDone}
	for _, k := range kinds {
		if err := em.Record("r1", k, map[string]int{"nodes": 3}); err != nil {
			t.Fatalf("Record(%s): %v", k, err)
		}
	}

	got := decodeLines(t, buf.Bytes())
	if len(got) != len(kinds) {
		t.Fatalf("expected %d events, got %d", len(kinds), len(got))
	}
	for i, evt := range got {
		if evt.Kind != kinds[i] {
			t.Errorf("event %d: kind=%q, want %q", i, evt.Kind, kinds[i])
		}
		if evt.RunID != "r1" {
			t.Errorf("event %d: run=%q, want r1", i, evt.RunID)
		}
		if !evt.Timestamp.Equal(fixed) {
			t.Errorf("event %d: ts=%v, want %v", i, evt.Timestamp, fixed)
		}
	}
}

func TestEmit_ConcurrentSafety(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")

	em, err := NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func(idx int) {
			defer wg.Done()
			if err := em.Record("concurrent", KindCentralityDone, map[string]int{"idx": idx}); err != nil {
				t.Errorf("Record from goroutine %d: %v", idx, err)
			}
		}(i)
	}
	wg.Wait()

	if err := em.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := decodeLines(t, data); len(got) != n {
		t.Fatalf("expected %d lines, got %d", n, len(got))
	}
}

func TestNilEmitter_NoOp(t *testing.T) {
	t.Parallel()
	var em *Emitter

	if err := em.Emit(Event{Kind: KindRunStart}); err != nil {
		t.Errorf("nil Emit: %v", err)
	}
	if err := em.Record("r", KindRunDone, nil); err != nil {
		t.Errorf("nil Record: %v", err)
	}
	if err := em.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestClose_NonCloserWriter(t *testing.T) {
	t.Parallel()
	em := NewWriterEmitter(&bytes.Buffer{})
	if err := em.Close(); err != nil {
		t.Errorf("Close on buffer-backed emitter: %v", err)
	}
}

func TestEmit_AppendsToExistingFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "append.jsonl")

	for _, kind := range []string{KindRunStart, KindRunDone} {
		em, err := NewEmitter(path)
		if err != nil {
			t.Fatalf("NewEmitter: %v", err)
		}
		if err := em.Record("r1", kind, nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
		em.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := decodeLines(t, data); len(got) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(got))
	}
}

func TestEventKinds_AreDistinct(t *testing.T) {
	t.Parallel()
	kinds := []string{
		KindRunStart,
		KindDatasetLoaded,
		KindGraphBuilt,
		KindCentralityDone,
		KindSubgraphBuilt,
		KindRunDone,
		KindRunFailed,
	}
	seen := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		if k == "" {
			t.Errorf("empty kind constant found")
		}
		if seen[k] {
			t.Errorf("duplicate kind: %q", k)
		}
		seen[k] = true
	}
}

func TestEvent_OmitsEmptyFields(t *testing.T) {
	t.Parallel()
	data, err := json.Marshal(Event{Kind: KindRunStart})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(data)
	for _, key := range []string{`"run"`, `"data"`} {
		if strings.Contains(s, key) {
			t.Errorf("expected %s to be omitted, got: %s", key, s)
		}
	}
}
