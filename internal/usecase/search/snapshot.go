package search

import (
	"offer-compare/internal/domain/offer"
)

// Snapshot is one immutable view of a run: the offers merged so far and the
// status of every provider. A new snapshot is published per settlement.
// Duplicates accumulates every key skipped during the run.
type Snapshot struct {
	Query      offer.Query
	Generation uint64
	Offers     offer.Collection
	Statuses   offer.StatusMap
	Duplicates []offer.Key
	Complete   bool
}

func newSnapshot(q offer.Query, generation uint64) Snapshot {
	return Snapshot{
		Query:      q,
		Generation: generation,
		Statuses:   offer.NewStatusMap(),
	}
}

// Settled is the number of providers that left pending.
func (s Snapshot) Settled() int {
	sum := s.Statuses.Summary()
	return sum.Succeeded + sum.Failed
}

func (s Snapshot) Summary() offer.StatusSummary {
	return s.Statuses.Summary()
}

// IsZero reports whether no query has produced this snapshot.
func (s Snapshot) IsZero() bool {
	return s.Query.IsZero()
}
