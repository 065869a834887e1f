// Package repository holds ventures in memory and indexes them for ranking.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/pkg/metrics"
)

// Store provides read/write access to the tracked ventures.
type Store interface {
	// Add stores a new venture. Returns ErrDuplicateID if the id is taken.
	Add(ctx context.Context, v model.Venture) error

	// Get returns a copy of the venture. Returns ErrNotFound if unknown.
	Get(ctx context.Context, id string) (model.Venture, error)

	// List returns copies of all ventures in submission order.
	List(ctx context.Context) []model.Venture

	// SetOutcome labels a venture with an observed outcome and records the
	// prediction the label was scored against.
	SetOutcome(ctx context.Context, id string, outcome model.Outcome, predicted float64) error

	// Count returns the number of tracked ventures.
	Count(ctx context.Context) int
}

// MemoryStore implements Store with a map plus an insertion-order slice.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*model.Venture
	order []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*model.Venture)}
}

// Add implements Store.Add.
func (s *MemoryStore) Add(_ context.Context, v model.Venture) error {
	s.mu.Lock()
	if _, ok := s.byID[v.ID]; ok {
		s.mu.Unlock()
		metrics.RecordErrorByComponent("repository", "duplicate_id")
		return fmt.Errorf("%w: %s", ErrDuplicateID, v.ID)
	}
	c := v.Clone()
	s.byID[v.ID] = &c
	s.order = append(s.order, v.ID)
	count := len(s.order)
	s.mu.Unlock()

	metrics.UpdateVenturesTotal(count)
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Venture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Venture{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v.Clone(), nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context) []model.Venture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Venture, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out
}

// SetOutcome implements Store.SetOutcome. A resolved venture can be
// relabeled with another terminal outcome, but never reopened.
func (s *MemoryStore) SetOutcome(_ context.Context, id string, outcome model.Outcome, predicted float64) error {
	if !outcome.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, outcome)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	v.ActualOutcome = outcome
	v.PredictedProbability = &predicted
	return nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
