package realtime

import (
	"context"
	"sync"

	"market-pos/monitoring"
)

type Loader[T any] func(ctx context.Context) ([]T, error)

// Snapshot caches a full copy of one collection. Any change event for the
// collection marks it stale and the next Get reloads everything.
type Snapshot[T any] struct {
	collection string
	load       Loader[T]

	mu    sync.Mutex
	items []T
	stale bool
}

func NewSnapshot[T any](collection string, load Loader[T]) *Snapshot[T] {
	return &Snapshot[T]{collection: collection, load: load, stale: true}
}

func (s *Snapshot[T]) Get(ctx context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stale {
		items, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		s.items = items
		s.stale = false
		monitoring.TrackSnapshotReload(s.collection)
	}

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *Snapshot[T]) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

func (s *Snapshot[T]) Attach(h *Hub) {
	h.Subscribe(func(ev ChangeEvent) {
		if ev.Collection == s.collection {
			s.Invalidate()
		}
	})
}
