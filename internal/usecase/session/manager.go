package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"offer-compare/internal/domain/comparison"
	"offer-compare/internal/pkg/clock"
	"offer-compare/internal/pkg/errs"
	"offer-compare/internal/pkg/metrics"
	"offer-compare/internal/usecase/queries"
	"offer-compare/internal/usecase/search"
	"offer-compare/internal/usecase/share"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errs.New("session not found")

// Manager keeps sessions in memory. Each session owns its own orchestrator so
// one user's new search never supersedes another's.
type Manager struct {
	client  search.SourceClient
	codec   *share.Codec
	store   QueryStore
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager(
	client search.SourceClient,
	codec *share.Codec,
	store QueryStore,
	clk clock.Clock,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:   client,
		codec:    codec,
		store:    store,
		clock:    clk,
		logger:   logger,
		metrics:  m,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create opens a session. clientKey scopes the remembered last query; when it is
// empty the session id is used.
func (m *Manager) Create(_ context.Context, clientKey string) *Session {
	id := uuid.New()
	key := strings.TrimSpace(clientKey)
	if key == "" {
		key = id.String()
	}
	logger := m.logger.With("session_id", id)
	s := &Session{
		id:           id,
		storeKey:     key,
		orchestrator: search.NewOrchestrator(m.client, m.clock, logger, m.metrics),
		codec:        m.codec,
		store:        m.store,
		logger:       logger,
		ranges:       queries.NewRangeController(),
		compare:      comparison.NewSet(),
		watchers:     make(map[int]chan search.Snapshot),
		lastSeen:     m.clock.Now(),
		done:         make(chan struct{}),
	}
	s.release = func() { m.forget(id) }

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	logger.Info("session created")
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errs.Wrapf(ErrSessionNotFound, "%s", id)
	}
	s.touch(m.clock.Now())
	return s, nil
}

// Remove closes the session and drops it.
func (m *Manager) Remove(id uuid.UUID) error {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return errs.Wrapf(ErrSessionNotFound, "%s", id)
	}
	s.Close()
	return nil
}

func (m *Manager) forget(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// EvictIdle closes every session unused for at least maxIdle and returns how
// many were closed. Sessions with an open watcher are kept.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	now := m.clock.Now()

	m.mu.RLock()
	var idle []*Session
	for _, s := range m.sessions {
		if s.idleAt(now, maxIdle) {
			idle = append(idle, s)
		}
	}
	m.mu.RUnlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		m.logger.Info("idle sessions evicted", "count", len(idle), "max_idle", maxIdle)
	}
	return len(idle)
}

// Sweep runs EvictIdle every interval until ctx is done. A non-positive
// maxIdle or interval disables eviction.
func (m *Manager) Sweep(ctx context.Context, interval, maxIdle time.Duration) {
	if interval <= 0 || maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle(maxIdle)
		}
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close ends every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[uuid.UUID]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
