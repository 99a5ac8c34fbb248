// Package runlog records per-generation statistics of evolutionary runs.
package runlog

import (
	"context"

	"github.com/baldhumanity/neatlite/neat"
)

// Store persists generation statistics keyed by run id and generation.
// Recording the same generation twice replaces the earlier entry.
type Store interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, runID string, stats neat.GenerationStats) error
	List(ctx context.Context, runID string) ([]neat.GenerationStats, error)
	Close() error
}

// Open returns a SQLiteStore for a non-empty path and a MemoryStore otherwise.
// The store is initialized before it is returned.
func Open(ctx context.Context, path string) (Store, error) {
	var s Store
	if path == "" {
		s = NewMemoryStore()
	} else {
		s = NewSQLiteStore(path)
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
