package runlog

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/baldhumanity/neatlite/neat"
)

// SQLiteStore persists statistics in a generations table of a SQLite file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store for the database at path. Nothing is
// opened until Init.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the table if needed. Calling it on
// an open store is a no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Record upserts the row for (runID, stats.Generation).
func (s *SQLiteStore) Record(ctx context.Context, runID string, stats neat.GenerationStats) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best, mean, stdev, species, nodes, innovations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best = excluded.best,
			mean = excluded.mean,
			stdev = excluded.stdev,
			species = excluded.species,
			nodes = excluded.nodes,
			innovations = excluded.innovations
	`, runID, stats.Generation, stats.Best, stats.Mean, stats.Stdev, stats.Species, stats.Nodes, stats.Innovations)
	return err
}

// List returns the rows of runID ordered by generation.
func (s *SQLiteStore) List(ctx context.Context, runID string) ([]neat.GenerationStats, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT generation, best, mean, stdev, species, nodes, innovations
		FROM generations
		WHERE run_id = ?
		ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []neat.GenerationStats{}
	for rows.Next() {
		var st neat.GenerationStats
		if err := rows.Scan(&st.Generation, &st.Best, &st.Mean, &st.Stdev, &st.Species, &st.Nodes, &st.Innovations); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best REAL NOT NULL,
			mean REAL NOT NULL,
			stdev REAL NOT NULL,
			species INTEGER NOT NULL,
			nodes INTEGER NOT NULL,
			innovations INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
