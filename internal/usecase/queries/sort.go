package queries

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"offer-compare/internal/domain/offer"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

type SortKey string

const (
	SortLowestPrice      SortKey = "lowest_price"
	SortFastestSpeed     SortKey = "fastest_speed"
	SortShortestContract SortKey = "shortest_contract"
	SortBestValue        SortKey = "best_value"

	DefaultSortKey = SortBestValue
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return DefaultSortKey, nil
	case SortLowestPrice, SortFastestSpeed, SortShortestContract, SortBestValue:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
}

// Sort returns a stably sorted copy of offers. Price based keys put offers
// without price data last. Unknown keys fall back to DefaultSortKey.
func Sort(offers []offer.NormalizedOffer, key SortKey) []offer.NormalizedOffer {
	out := slices.Clone(offers)
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key SortKey) func(a, b offer.NormalizedOffer) int {
	switch key {
	case SortLowestPrice:
		return byLowestPrice
	case SortFastestSpeed:
		return func(a, b offer.NormalizedOffer) int { return cmp.Compare(b.SpeedMbps, a.SpeedMbps) }
	case SortShortestContract:
		return func(a, b offer.NormalizedOffer) int { return cmp.Compare(a.ContractMonths, b.ContractMonths) }
	default:
		return byBestValue
	}
}

func byLowestPrice(a, b offer.NormalizedOffer) int {
	ca, okA := a.EffectiveMonthlyCents()
	cb, okB := b.EffectiveMonthlyCents()
	if c := pricedFirst(okA, okB); c != 0 || !okA {
		return c
	}
	return cmp.Compare(ca, cb)
}

// byBestValue orders by speed per cent descending, comparing the ratios by
// cross multiplication so equal ratios stay equal.
func byBestValue(a, b offer.NormalizedOffer) int {
	ca, okA := a.EffectiveMonthlyCents()
	cb, okB := b.EffectiveMonthlyCents()
	if c := pricedFirst(okA, okB); c != 0 || !okA {
		return c
	}
	sa, sb := int64(a.SpeedMbps), int64(b.SpeedMbps)

	// A free offer with any speed beats every paid one.
	freeA, freeB := ca == 0 && sa > 0, cb == 0 && sb > 0
	switch {
	case freeA && freeB:
		return cmp.Compare(sb, sa)
	case freeA:
		return -1
	case freeB:
		return 1
	}
	if ca == 0 {
		ca = 1
	}
	if cb == 0 {
		cb = 1
	}
	return cmp.Compare(sb*ca, sa*cb)
}

func pricedFirst(okA, okB bool) int {
	switch {
	case okA == okB:
		return 0
	case okA:
		return -1
	default:
		return 1
	}
}
