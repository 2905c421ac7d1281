package queries

import (
	"errors"

	"offer-compare/internal/domain/offer"
)

var ErrInvalidPriceRange = errors.New("invalid price range")

type RangeMode string

const (
	RangeAuto   RangeMode = "auto"
	RangeManual RangeMode = "manual"
)

// AutoRange spans every priced offer: [floor(min), ceil(max)] in whole units
// of the effective monthly cost. No priced offers gives [0, 0].
func AutoRange(offers []offer.NormalizedOffer) PriceRange {
	var lo, hi int64
	seen := false
	for _, o := range offers {
		cents, ok := o.EffectiveMonthlyCents()
		if !ok {
			continue
		}
		if !seen || cents < lo {
			lo = cents
		}
		if !seen || cents > hi {
			hi = cents
		}
		seen = true
	}
	if !seen {
		return PriceRange{}
	}
	return PriceRange{Min: lo / 100, Max: (hi + 99) / 100}
}

// RangeController owns the price range bounds. In auto mode the bounds follow
// the observed offers; a user adjustment switches to manual and freezes them
// until Reset or a new query. It is not safe for concurrent use.
type RangeController struct {
	mode     RangeMode
	bounds   PriceRange
	observed PriceRange
}

func NewRangeController() *RangeController {
	return &RangeController{mode: RangeAuto}
}

func (r *RangeController) Mode() RangeMode {
	if r.mode == "" {
		return RangeAuto
	}
	return r.mode
}

func (r *RangeController) Bounds() PriceRange {
	return r.bounds
}

// AutoBounds is the range derived from the last observed offers, regardless of mode.
func (r *RangeController) AutoBounds() PriceRange {
	return r.observed
}

// Observe records the current offers and moves the bounds when in auto mode.
func (r *RangeController) Observe(offers []offer.NormalizedOffer) {
	r.observed = AutoRange(offers)
	if r.Mode() == RangeAuto {
		r.bounds = r.observed
	}
}

// Adjust applies a user chosen range and switches to manual.
func (r *RangeController) Adjust(min, max int64) error {
	if min < 0 || max < min {
		return ErrInvalidPriceRange
	}
	r.mode = RangeManual
	r.bounds = PriceRange{Min: min, Max: max}
	return nil
}

// Reset returns to auto mode with bounds from the last observed offers.
func (r *RangeController) Reset() {
	r.mode = RangeAuto
	r.bounds = r.observed
}

// NewQuery returns to auto mode with nothing observed yet.
func (r *RangeController) NewQuery() {
	r.mode = RangeAuto
	r.observed = PriceRange{}
	r.bounds = PriceRange{}
}

// Apply stamps the bounds and whether they are enforced onto c.
func (r *RangeController) Apply(c FilterCriteria) FilterCriteria {
	c.PriceRange = r.bounds
	c.PriceRangeUserModified = r.Mode() == RangeManual
	return c
}
