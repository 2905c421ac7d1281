package queries

import (
	"slices"

	"offer-compare/internal/domain/offer"
)

// PriceRange holds inclusive bounds in whole currency units.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// contains compares in whole units, floor against Min and ceil against Max, so
// no bound is ever scaled into cents.
func (r PriceRange) contains(cents int64) bool {
	whole, frac := cents/100, cents%100
	if frac < 0 {
		whole--
		frac += 100
	}
	if whole < r.Min {
		return false
	}
	if frac > 0 {
		whole++
	}
	return whole <= r.Max
}

// FilterCriteria narrows an offer collection. Empty sets allow everything.
type FilterCriteria struct {
	PriceRange             PriceRange                `json:"priceRange"`
	PriceRangeUserModified bool                      `json:"priceRangeUserModified"`
	MinSpeedMbps           int                       `json:"minSpeedMbps"`
	ContractMonths         []int                     `json:"contractMonths,omitempty"`
	Connections            []offer.ConnectionType    `json:"connections,omitempty"`
	Providers              []offer.Provider          `json:"providers,omitempty"`
	Installation           offer.InstallationService `json:"installation"`
}

// Matches reports whether o passes every filter. The price range is only
// enforced once the user adjusted it; an offer without price data fails it then.
func (c FilterCriteria) Matches(o offer.NormalizedOffer) bool {
	if c.PriceRangeUserModified {
		cents, ok := o.EffectiveMonthlyCents()
		if !ok || !c.PriceRange.contains(cents) {
			return false
		}
	}
	if o.SpeedMbps < c.MinSpeedMbps {
		return false
	}
	if len(c.Connections) > 0 && !slices.Contains(c.Connections, o.Connection) {
		return false
	}
	if len(c.ContractMonths) > 0 && !slices.Contains(c.ContractMonths, o.ContractMonths) {
		return false
	}
	if len(c.Providers) > 0 && !slices.Contains(c.Providers, o.Provider) {
		return false
	}
	if c.Installation != offer.InstallationUnspecified && c.Installation != o.Installation {
		return false
	}
	return true
}

// Filter returns the offers matching c in their original order.
func Filter(offers []offer.NormalizedOffer, c FilterCriteria) []offer.NormalizedOffer {
	out := make([]offer.NormalizedOffer, 0, len(offers))
	for _, o := range offers {
		if c.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Apply filters then sorts. The input slice is left untouched.
func Apply(offers []offer.NormalizedOffer, c FilterCriteria, key SortKey) []offer.NormalizedOffer {
	return Sort(Filter(offers, c), key)
}
