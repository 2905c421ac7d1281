package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"offer-compare/internal/domain/comparison"
	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/errs"
	"offer-compare/internal/usecase/queries"
	"offer-compare/internal/usecase/search"
	"offer-compare/internal/usecase/share"

	"github.com/google/uuid"
)

// watchBuffer is how many snapshots a slow watcher may lag behind before older ones are dropped.
const watchBuffer = 8

var (
	ErrOfferNotFound  = errs.New("offer not found in current results")
	ErrNothingToShare = errs.New("no search results to share")
	ErrSessionClosed  = errs.New("session closed")
)

// Session is one user's view over the engine: the current results, the filters
// and sort applied to them, and the comparison selection.
// A new search clears the comparison set and returns the price range to auto;
// the other filters are kept.
type Session struct {
	id           uuid.UUID
	storeKey     string
	orchestrator *search.Orchestrator
	codec        *share.Codec
	store        QueryStore
	logger       *slog.Logger
	release      func()

	// opMu serializes Search and LoadShared so the session follows the newest run.
	opMu sync.Mutex

	mu       sync.Mutex
	epoch    uint64
	snapshot search.Snapshot
	shared   bool
	filters  queries.FilterCriteria
	ranges   *queries.RangeController
	compare  *comparison.Set
	watchers map[int]chan search.Snapshot
	nextID   int
	closed   bool
	lastSeen time.Time
	done     chan struct{}
}

type View struct {
	Query     offer.Query
	Offers    []offer.NormalizedOffer
	Total     int
	Criteria  queries.FilterCriteria
	RangeMode queries.RangeMode
	AutoRange queries.PriceRange
	Sort      queries.SortKey
	Statuses  offer.StatusMap
	Complete  bool
	Shared    bool
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Search starts a new aggregation for addr and supersedes the running one.
func (s *Session) Search(ctx context.Context, addr offer.Address) (offer.Query, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.isClosed() {
		return offer.Query{}, ErrSessionClosed
	}
	run, err := s.orchestrator.Start(ctx, addr)
	if err != nil {
		return offer.Query{}, err
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.shared = false
	s.compare.Clear()
	s.ranges.NewQuery()
	s.install(run.Latest())
	s.mu.Unlock()

	go s.pump(run, epoch)

	if err := s.store.Save(ctx, s.storeKey, run.Query()); err != nil {
		s.logger.Warn("failed to save last query", "session_id", s.id, "error", err)
	}
	return run.Query(), nil
}

// pump follows one run until it ends or the session moves on.
func (s *Session) pump(run *search.Run, epoch uint64) {
	for snap := range run.Updates() {
		s.mu.Lock()
		if s.epoch == epoch {
			s.install(snap)
		}
		s.mu.Unlock()
	}
}

// install must be called with mu held.
func (s *Session) install(snap search.Snapshot) {
	s.snapshot = snap
	s.ranges.Observe(snap.Offers.Offers())
	for _, ch := range s.watchers {
		offerLatest(ch, snap)
	}
}

// offerLatest never blocks: a full buffer loses its oldest snapshot.
func offerLatest(ch chan search.Snapshot, snap search.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Watch streams snapshots until ctx is done or the session closes. The current
// snapshot, if any, is delivered first.
func (s *Session) Watch(ctx context.Context) <-chan search.Snapshot {
	ch := make(chan search.Snapshot, watchBuffer)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	if !s.snapshot.IsZero() {
		ch <- s.snapshot
	}
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
	}()
	return ch
}

func (s *Session) Snapshot() search.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// View filters and sorts the current results.
func (s *Session) View(key queries.SortKey) View {
	s.mu.Lock()
	snap := s.snapshot
	criteria := s.ranges.Apply(s.filters)
	mode := s.ranges.Mode()
	auto := s.ranges.AutoBounds()
	shared := s.shared
	s.mu.Unlock()

	if _, err := queries.ParseSortKey(string(key)); err != nil || key == "" {
		key = queries.DefaultSortKey
	}
	all := snap.Offers.Offers()
	return View{
		Query:     snap.Query,
		Offers:    queries.Apply(all, criteria, key),
		Total:     len(all),
		Criteria:  criteria,
		RangeMode: mode,
		AutoRange: auto,
		Sort:      key,
		Statuses:  snap.Statuses,
		Complete:  snap.Complete,
		Shared:    shared,
	}
}

// Criteria returns the effective filter criteria including the price range.
func (s *Session) Criteria() queries.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ranges.Apply(s.filters)
}

func (s *Session) UpdateFilters(u FilterUpdate) (queries.FilterCriteria, error) {
	if err := u.validate(); err != nil {
		return queries.FilterCriteria{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u.apply(&s.filters)
	return s.ranges.Apply(s.filters), nil
}

// AdjustPriceRange switches the price range to manual with the given bounds.
func (s *Session) AdjustPriceRange(min, max int64) (queries.FilterCriteria, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ranges.Adjust(min, max); err != nil {
		return queries.FilterCriteria{}, err
	}
	return s.ranges.Apply(s.filters), nil
}

// ResetFilters clears every user filter and returns the price range to auto.
func (s *Session) ResetFilters() queries.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = queries.FilterCriteria{}
	s.ranges.Reset()
	return s.ranges.Apply(s.filters)
}

// AddToComparison selects an offer from the current results.
func (s *Session) AddToComparison(key offer.Key) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.snapshot.Offers.Get(key)
	if !ok {
		return false, errs.Wrapf(ErrOfferNotFound, "%s", key)
	}
	return s.compare.Add(o)
}

func (s *Session) RemoveFromComparison(key offer.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compare.Remove(key.Provider, key.OfferID)
}

func (s *Session) Comparison() []offer.NormalizedOffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compare.Items()
}

// CanCompare reports whether key could be added to the comparison right now.
func (s *Session) CanCompare(key offer.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Offers.Contains(key) && s.compare.CanAdd(key)
}

// ShareLink encodes the current query and results and returns the token and link.
func (s *Session) ShareLink(origin string) (token, link string, err error) {
	snap := s.Snapshot()
	if snap.IsZero() {
		return "", "", ErrNothingToShare
	}
	token, err = s.codec.Encode(snap.Query, snap.Offers)
	if err != nil {
		return "", "", err
	}
	link, err = share.BuildShareLink(origin, token)
	if err != nil {
		return "", "", err
	}
	return token, link, nil
}

// LoadShared replaces the session state with a decoded share token. Any running
// search is stopped. Every provider is reported settled since the shared
// results are final.
func (s *Session) LoadShared(token string) (*share.State, error) {
	st, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.orchestrator.Stop()

	statuses := offer.NewStatusMap()
	for _, p := range offer.AllProviders() {
		statuses, _ = statuses.Settle(p, offer.StatusSucceeded)
	}

	s.mu.Lock()
	s.epoch++
	s.shared = true
	s.compare.Clear()
	s.ranges.NewQuery()
	s.install(search.Snapshot{
		Query:    st.Query,
		Offers:   st.Offers,
		Statuses: statuses,
		Complete: true,
	})
	s.mu.Unlock()

	s.logger.Info("shared results loaded",
		"session_id", s.id,
		"query_id", st.Query.ID(),
		"offers", st.Offers.Len())
	return st, nil
}

// LastQuery returns the query last submitted under this session's client key.
func (s *Session) LastQuery(ctx context.Context) (offer.Query, bool, error) {
	return s.store.Load(ctx, s.storeKey)
}

func (s *Session) ForgetLastQuery(ctx context.Context) error {
	return s.store.Clear(ctx, s.storeKey)
}

// Close stops the running search, ends every watcher and releases the session
// from its manager.
func (s *Session) Close() {
	s.orchestrator.Stop()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.epoch++
	close(s.done)
	for id, ch := range s.watchers {
		delete(s.watchers, id)
		close(ch)
	}
	release := s.release
	s.mu.Unlock()

	if release != nil {
		release()
	}
	s.logger.Info("session closed")
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// idleAt reports whether the session has gone unused for maxIdle at now. A
// session with an open watcher is never idle.
func (s *Session) idleAt(now time.Time, maxIdle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.watchers) > 0 {
		return false
	}
	return now.Sub(s.lastSeen) >= maxIdle
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
