package runlog

import (
	"cmp"
	"context"
	"errors"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/baldhumanity/neatlite/neat"
)

var errNotInitialized = errors.New("store is not initialized")

// MemoryStore keeps statistics in process memory. It is the default when
// no database path is given.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]map[int]neat.GenerationStats
}

// NewMemoryStore returns an uninitialized MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init clears any recorded runs and makes the store usable.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]map[int]neat.GenerationStats)
	return nil
}

// Record stores stats for runID, replacing an entry for the same generation.
func (s *MemoryStore) Record(_ context.Context, runID string, stats neat.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	run, ok := s.runs[runID]
	if !ok {
		run = make(map[int]neat.GenerationStats)
		s.runs[runID] = run
	}
	run[stats.Generation] = stats
	return nil
}

// List returns the statistics of runID in generation order.
func (s *MemoryStore) List(_ context.Context, runID string) ([]neat.GenerationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	out := make([]neat.GenerationStats, 0, len(s.runs[runID]))
	for _, st := range s.runs[runID] {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b neat.GenerationStats) int {
		return cmp.Compare(a.Generation, b.Generation)
	})
	return out, nil
}

// Close drops all data. The store must be initialized again before reuse.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = false
	s.runs = nil
	return nil
}
