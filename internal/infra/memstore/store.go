package memstore

import (
	"context"
	"sync"
	"time"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/clock"
)

// QueryStore keeps the last query per key in process memory. Entries older
// than ttl read as absent; a zero ttl keeps them for the process lifetime.
type QueryStore struct {
	clock clock.Clock
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	query   offer.Query
	savedAt time.Time
}

func NewQueryStore(clk clock.Clock, ttl time.Duration) *QueryStore {
	return &QueryStore{clock: clk, ttl: ttl, entries: make(map[string]entry)}
}

func (s *QueryStore) Save(ctx context.Context, key string, q offer.Query) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{query: q, savedAt: s.clock.Now()}
	return nil
}

func (s *QueryStore) Load(ctx context.Context, key string) (offer.Query, bool, error) {
	if err := ctx.Err(); err != nil {
		return offer.Query{}, false, err
	}
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return offer.Query{}, false, nil
	}
	if s.ttl > 0 && s.clock.Now().Sub(e.savedAt) > s.ttl {
		s.mu.Lock()
		if cur, still := s.entries[key]; still && cur.savedAt.Equal(e.savedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return offer.Query{}, false, nil
	}
	return e.query, true, nil
}

func (s *QueryStore) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
