// Package store persists analysis runs and their per-node scores in a local
// SQLite database so earlier results can be listed and compared.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrRunNotFound is returned by Run when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Score scopes.
const (
	ScopeGraph    = "graph"
	ScopeSubgraph = "subgraph"
)

// schema is executed on every open; IF NOT EXISTS keeps it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    dataset         TEXT NOT NULL DEFAULT '',
    strategy        TEXT NOT NULL DEFAULT '',
    target          TEXT NOT NULL DEFAULT '',
    nodes           INTEGER NOT NULL,
    edges           INTEGER NOT NULL,
    components      INTEGER NOT NULL,
    top_closeness   TEXT NOT NULL DEFAULT '',
    top_betweenness TEXT NOT NULL DEFAULT '',
    created_at      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    scope       TEXT NOT NULL,
    node_index  INTEGER NOT NULL,
    label       TEXT NOT NULL,
    closeness   REAL NOT NULL,
    betweenness REAL NOT NULL,
    pagerank    REAL NOT NULL,
    PRIMARY KEY (run_id, scope, node_index)
);
`

// Run is one stored analysis.
type Run struct {
	ID             string
	Dataset        string
	Strategy       string
	Target         string
	Nodes          int
	Edges          int
	Components     int
	TopCloseness   string
	TopBetweenness string
	CreatedAt      time.Time
}

// Score is one node's metrics within a run.
type Score struct {
	Scope       string
	Index       int
	Label       string
	Closeness   float64
	Betweenness float64
	PageRank    float64
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, enables WAL mode and a busy
// timeout, and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// SQLite has a single writer; one pooled connection keeps PRAGMAs in effect.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes run and its scores in one transaction. A zero CreatedAt is
// replaced with the current time.
func (s *Store) SaveRun(ctx context.Context, run Run, scores []Score) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for run %s: %w", run.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insertRun = `
		INSERT INTO runs (id, dataset, strategy, target, nodes, edges, components,
			top_closeness, top_betweenness, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertRun,
		run.ID, run.Dataset, run.Strategy, run.Target, run.Nodes, run.Edges, run.Components,
		run.TopCloseness, run.TopBetweenness, run.CreatedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("store: insert run %s: %w", run.ID, err)
	}

	if len(scores) > 0 {
		const insertScore = `
			INSERT INTO scores (run_id, scope, node_index, label, closeness, betweenness, pagerank)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		stmt, err := tx.PrepareContext(ctx, insertScore)
		if err != nil {
			return fmt.Errorf("store: prepare score insert: %w", err)
		}
		defer stmt.Close()

		for _, sc := range scores {
			if _, err := stmt.ExecContext(ctx,
				run.ID, sc.Scope, sc.Index, sc.Label, sc.Closeness, sc.Betweenness, sc.PageRank,
			); err != nil {
				return fmt.Errorf("store: insert score %s/%s: %w", sc.Scope, sc.Label, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run %s: %w", run.ID, err)
	}
	return nil
}

const runColumns = `id, dataset, strategy, target, nodes, edges, components,
	top_closeness, top_betweenness, created_at`

// Runs returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns the run with the given ID.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// Scores returns the stored scores of a run ordered by scope then node
// index. An unknown run yields an empty slice.
func (s *Store) Scores(ctx context.Context, runID string) ([]Score, error) {
	const q = `
		SELECT scope, node_index, label, closeness, betweenness, pagerank
		FROM scores WHERE run_id = ? ORDER BY scope, node_index`
	rows, err := s.db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query scores for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var sc Score
		if err := rows.Scan(&sc.Scope, &sc.Index, &sc.Label, &sc.Closeness, &sc.Betweenness, &sc.PageRank); err != nil {
			return nil, fmt.Errorf("store: scan score: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate scores: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		created int64
	)
	err := row.Scan(&r.ID, &r.Dataset, &r.Strategy, &r.Target, &r.Nodes, &r.Edges, &r.Components,
		&r.TopCloseness, &r.TopBetweenness, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}
	r.CreatedAt = time.Unix(0, created)
	return r, nil
}
