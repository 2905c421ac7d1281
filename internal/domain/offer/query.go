package offer

import (
	"time"

	"github.com/google/uuid"
)

// Query identifies one aggregation run. It is never mutated; a new search creates a new Query.
type Query struct {
	id          uuid.UUID
	address     Address
	submittedAt time.Time
}

func NewQuery(address Address, now time.Time) (Query, error) {
	if err := address.Validate(); err != nil {
		return Query{}, err
	}
	return Query{id: uuid.New(), address: address, submittedAt: now}, nil
}

// ReconstructQuery rebuilds a Query that was serialized elsewhere (share links, session store).
func ReconstructQuery(id uuid.UUID, address Address, submittedAt time.Time) Query {
	return Query{id: id, address: address, submittedAt: submittedAt}
}

func (q Query) ID() uuid.UUID          { return q.id }
func (q Query) Address() Address       { return q.address }
func (q Query) SubmittedAt() time.Time { return q.submittedAt }
func (q Query) IsZero() bool           { return q.id == uuid.Nil }
