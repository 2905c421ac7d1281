package search

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/clock"
	"offer-compare/internal/pkg/metrics"
)

// Orchestrator fans one query out to every provider and folds the settlements
// into progressive snapshots. Starting a query supersedes the previous one.
type Orchestrator struct {
	client    SourceClient
	clock     clock.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics
	providers []offer.Provider

	mu         sync.Mutex
	generation uint64
	current    *Run
}

func NewOrchestrator(client SourceClient, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		client:    client,
		clock:     clk,
		logger:    logger,
		metrics:   m,
		providers: offer.AllProviders(),
	}
}

type settlement struct {
	provider offer.Provider
	offers   []offer.NormalizedOffer
	err      error
	took     time.Duration
}

// Run is one aggregation over all providers for one query.
type Run struct {
	generation uint64
	query      offer.Query
	ctx        context.Context
	cancel     context.CancelFunc
	mailbox    chan settlement
	updates    chan Snapshot
	done       chan struct{}

	mu     sync.RWMutex
	latest Snapshot
}

func (r *Run) Query() offer.Query { return r.query }

func (r *Run) Generation() uint64 { return r.generation }

// Done is closed once the run stops publishing.
func (r *Run) Done() <-chan struct{} { return r.done }

// Updates delivers the initial all-pending snapshot and one snapshot per
// settlement. It is closed when the run completes or is superseded.
func (r *Run) Updates() <-chan Snapshot {
	return r.updates
}

func (r *Run) Latest() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Start validates addr and launches a new run. The run is detached from ctx
// cancellation; it ends when every provider settled, when a newer run starts,
// or on Stop.
func (o *Orchestrator) Start(ctx context.Context, addr offer.Address) (*Run, error) {
	q, err := offer.NewQuery(addr, o.clock.Now())
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	o.mu.Lock()
	o.generation++
	run := &Run{
		generation: o.generation,
		query:      q,
		ctx:        runCtx,
		cancel:     cancel,
		mailbox:    make(chan settlement, len(o.providers)),
		updates:    make(chan Snapshot, len(o.providers)+1),
		done:       make(chan struct{}),
	}
	prev := o.current
	o.current = run
	run.publish(newSnapshot(q, run.generation))
	o.mu.Unlock()

	if prev != nil {
		prev.cancel()
		o.logger.Info("search superseded",
			"query_id", prev.query.ID(),
			"generation", prev.generation,
			"by_generation", run.generation)
	}

	o.logger.Info("search started",
		"query_id", q.ID(),
		"generation", run.generation,
		"postal_code", addr.PostalCode())

	for _, p := range o.providers {
		go o.fetch(run, p)
	}
	go o.aggregate(run)

	return run, nil
}

// Latest returns the current run's snapshot, if a run was ever started.
func (o *Orchestrator) Latest() (Snapshot, bool) {
	o.mu.Lock()
	run := o.current
	o.mu.Unlock()
	if run == nil {
		return Snapshot{}, false
	}
	return run.Latest(), true
}

// Stop cancels the current run, if any. Its pending settlements are dropped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	run := o.current
	if run != nil {
		o.generation++
		o.current = nil
	}
	o.mu.Unlock()
	if run != nil {
		run.cancel()
	}
}

func (o *Orchestrator) fetch(run *Run, p offer.Provider) {
	start := time.Now()
	offers, err := o.client.FetchOffers(run.ctx, p, run.query.Address())
	run.mailbox <- settlement{provider: p, offers: offers, err: err, took: time.Since(start)}
}

// aggregate is the only writer of the run's collection and statuses.
func (o *Orchestrator) aggregate(run *Run) {
	remaining := len(o.providers)
	defer func() {
		close(run.updates)
		close(run.done)
		o.drainStale(run, remaining)
	}()

	for remaining > 0 {
		select {
		case <-run.ctx.Done():
			return
		case s := <-run.mailbox:
			remaining--
			if !o.settle(run, s) {
				return
			}
		}
	}

	sum := run.Latest().Summary()
	o.logger.Info("search completed",
		"query_id", run.query.ID(),
		"generation", run.generation,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"offers", run.Latest().Offers.Len())
}

// settle folds one settlement into the run. It reports false when the run was superseded.
func (o *Orchestrator) settle(run *Run, s settlement) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if run.generation != o.generation {
		o.dropStale(run, s)
		return false
	}

	prev := run.Latest()
	next := prev
	next.Duplicates = slices.Clone(prev.Duplicates)

	status := offer.StatusSucceeded
	if s.err != nil {
		status = offer.StatusFailed
		o.logger.Warn("provider fetch failed",
			"provider", s.provider,
			"query_id", run.query.ID(),
			"generation", run.generation,
			"took", s.took,
			"error", s.err)
	} else {
		accepted := o.accept(run, s)
		var dups []offer.Key
		next.Offers, dups = prev.Offers.Merge(accepted)
		if len(dups) > 0 {
			next.Duplicates = append(next.Duplicates, dups...)
			o.metrics.AddDuplicates(s.provider.String(), len(dups))
			o.logger.Warn("duplicate offers reported by provider",
				"provider", s.provider,
				"query_id", run.query.ID(),
				"keys", dups)
		}
		o.logger.Debug("provider settled",
			"provider", s.provider,
			"query_id", run.query.ID(),
			"offers", len(accepted),
			"took", s.took)
	}
	o.metrics.ObserveSettlement(s.provider.String(), s.err == nil, s.took)

	statuses, err := prev.Statuses.Settle(s.provider, status)
	if err != nil {
		o.logger.Error("ignoring settlement", "provider", s.provider, "error", err)
		return true
	}
	next.Statuses = statuses
	next.Complete = statuses.AllSettled()
	run.publish(next)
	return true
}

// accept stamps missing provider and fetch time and drops offers that fail validation.
func (o *Orchestrator) accept(run *Run, s settlement) []offer.NormalizedOffer {
	now := o.clock.Now()
	out := make([]offer.NormalizedOffer, 0, len(s.offers))
	for _, of := range s.offers {
		if of.Provider == "" {
			of.Provider = s.provider
		}
		if of.FetchedAt.IsZero() {
			of.FetchedAt = now
		}
		if of.Provider != s.provider {
			o.logger.Warn("dropping offer attributed to another provider",
				"provider", s.provider, "offer_provider", of.Provider, "offer_id", of.OfferID)
			continue
		}
		if err := of.Validate(); err != nil {
			o.logger.Warn("dropping invalid offer",
				"provider", s.provider, "query_id", run.query.ID(), "error", err)
			continue
		}
		out = append(out, of)
	}
	return out
}

func (o *Orchestrator) dropStale(run *Run, s settlement) {
	o.metrics.IncStale()
	o.logger.Debug("discarding stale settlement",
		"provider", s.provider,
		"query_id", run.query.ID(),
		"generation", run.generation)
}

// drainStale consumes the settlements still owed to a superseded run so they are
// accounted for. Calls that never return simply keep their goroutine parked.
func (o *Orchestrator) drainStale(run *Run, remaining int) {
	for ; remaining > 0; remaining-- {
		s := <-run.mailbox
		o.dropStale(run, s)
	}
}

func (r *Run) publish(s Snapshot) {
	r.mu.Lock()
	r.latest = s
	r.mu.Unlock()
	r.updates <- s
}
