// Package store persists sweep results to a SQLite database so runs can be
// compared across seeds and configurations.
package store

import (
	"database/sql"
	"fmt"
	"time"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"

	"github.com/inference-sim/qtree-sim/sim/sweep"
)

const schema = `
CREATE TABLE IF NOT EXISTS sweep_runs (
	run_id          TEXT PRIMARY KEY,
	created_at      INTEGER NOT NULL,
	seed            INTEGER NOT NULL,
	bits            INTEGER NOT NULL,
	min_tags        INTEGER NOT NULL,
	max_tags        INTEGER NOT NULL,
	step            INTEGER NOT NULL,
	trials          INTEGER NOT NULL,
	mean_efficiency REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS sweep_points (
	run_id         TEXT NOT NULL REFERENCES sweep_runs(run_id),
	tags           INTEGER NOT NULL,
	trials         INTEGER NOT NULL,
	mean_queries   REAL NOT NULL,
	stddev_queries REAL NOT NULL,
	min_queries    REAL NOT NULL,
	max_queries    REAL NOT NULL,
	efficiency     REAL NOT NULL,
	PRIMARY KEY (run_id, tags)
);`

// Store is a SQLite-backed archive of sweep results.
type Store struct {
	db *sql.DB
}

// Run is a stored sweep header.
type Run struct {
	ID             string
	CreatedAt      time.Time
	Config         sweep.Config
	MeanEfficiency float64
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening result store: %w", err)
	}
	// One writer; SQLite serializes anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating result schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSweep stores res in one transaction and returns its new run ID.
func (s *Store) SaveSweep(res *sweep.Result) (string, error) {
	id := xid.New().String()
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	cfg := res.Config
	if _, err := tx.Exec(
		`INSERT INTO sweep_runs (run_id, created_at, seed, bits, min_tags, max_tags, step, trials, mean_efficiency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().Unix(), cfg.Seed, cfg.Bits, cfg.MinTags, cfg.MaxTags, cfg.Step, cfg.Trials, res.MeanEfficiency,
	); err != nil {
		return "", fmt.Errorf("inserting sweep run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO sweep_points (run_id, tags, trials, mean_queries, stddev_queries, min_queries, max_queries, efficiency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing point insert: %w", err)
	}
	defer stmt.Close()
	for _, p := range res.Points {
		if _, err := stmt.Exec(id, p.Tags, p.Trials, p.MeanQueries, p.StdDevQueries, p.MinQueries, p.MaxQueries, p.Efficiency); err != nil {
			return "", fmt.Errorf("inserting point tags=%d: %w", p.Tags, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing sweep run: %w", err)
	}
	return id, nil
}

// LoadRun returns the stored header for runID.
func (s *Store) LoadRun(runID string) (*Run, error) {
	var r Run
	var created int64
	err := s.db.QueryRow(
		`SELECT run_id, created_at, seed, bits, min_tags, max_tags, step, trials, mean_efficiency
		 FROM sweep_runs WHERE run_id = ?`, runID,
	).Scan(&r.ID, &created, &r.Config.Seed, &r.Config.Bits, &r.Config.MinTags, &r.Config.MaxTags,
		&r.Config.Step, &r.Config.Trials, &r.MeanEfficiency)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	r.CreatedAt = time.Unix(created, 0)
	return &r, nil
}

// LoadPoints returns the points of runID ordered by population size.
func (s *Store) LoadPoints(runID string) ([]sweep.Point, error) {
	rows, err := s.db.Query(
		`SELECT tags, trials, mean_queries, stddev_queries, min_queries, max_queries, efficiency
		 FROM sweep_points WHERE run_id = ? ORDER BY tags`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying points of %s: %w", runID, err)
	}
	defer rows.Close()

	var points []sweep.Point
	for rows.Next() {
		var p sweep.Point
		if err := rows.Scan(&p.Tags, &p.Trials, &p.MeanQueries, &p.StdDevQueries, &p.MinQueries, &p.MaxQueries, &p.Efficiency); err != nil {
			return nil, fmt.Errorf("scanning point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ListRuns returns every stored run ID, oldest first.
func (s *Store) ListRuns() ([]string, error) {
	rows, err := s.db.Query(`SELECT run_id FROM sweep_runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
