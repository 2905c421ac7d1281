package comparison

import (
	"errors"

	"offer-compare/internal/domain/offer"
)

// MaxSize is how many offers can be compared side by side.
const MaxSize = 4

var ErrCapacityExceeded = errors.New("comparison set is full")

// Set is an ordered, deduplicated selection of at most MaxSize offers.
// It is not safe for concurrent use; the owning session serializes access.
type Set struct {
	items []offer.NormalizedOffer
	keys  map[offer.Key]struct{}
}

func NewSet() *Set {
	return &Set{keys: make(map[offer.Key]struct{}, MaxSize)}
}

// Add appends o. It reports false without error when o is already present and
// returns ErrCapacityExceeded, leaving the set unchanged, when the set is full.
func (s *Set) Add(o offer.NormalizedOffer) (bool, error) {
	key := o.Key()
	if s.Contains(key) {
		return false, nil
	}
	if len(s.items) >= MaxSize {
		return false, ErrCapacityExceeded
	}
	if s.keys == nil {
		s.keys = make(map[offer.Key]struct{}, MaxSize)
	}
	s.items = append(s.items, o.Clone())
	s.keys[key] = struct{}{}
	return true, nil
}

func (s *Set) Remove(provider offer.Provider, offerID string) bool {
	key := offer.Key{Provider: provider, OfferID: offerID}
	if !s.Contains(key) {
		return false
	}
	delete(s.keys, key)
	for i, it := range s.items {
		if it.Key() == key {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Contains(key offer.Key) bool {
	_, ok := s.keys[key]
	return ok
}

// CanAdd is the predicate the UI uses to enable its add action.
func (s *Set) CanAdd(key offer.Key) bool {
	return !s.Contains(key) && len(s.items) < MaxSize
}

// Items returns the selection in insertion order.
func (s *Set) Items() []offer.NormalizedOffer {
	out := make([]offer.NormalizedOffer, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	return out
}

func (s *Set) Keys() []offer.Key {
	out := make([]offer.Key, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Key())
	}
	return out
}

func (s *Set) Clear() {
	s.items = nil
	clear(s.keys)
}

func (s *Set) Len() int {
	return len(s.items)
}

func (s *Set) IsFull() bool {
	return len(s.items) >= MaxSize
}
