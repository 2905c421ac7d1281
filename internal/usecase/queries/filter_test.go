//go:build unit

package queries_test

import (
	"math"
	"testing"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/usecase/queries"
	"offer-compare/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCriteriaMatches(t *testing.T) {
	base := func() *builder.OfferBuilder {
		return builder.NewOfferBuilder().
			WithProvider(offer.ProviderByteMe).
			WithID("bm-1").
			WithSpeed(250).
			WithConnection(offer.ConnectionCable).
			WithContract(24).
			WithInstallation(offer.InstallationRequired).
			WithDiscountedCents(4999, 2999)
	}

	cases := []struct {
		name     string
		criteria queries.FilterCriteria
		offer    offer.NormalizedOffer
		want     bool
	}{
		{
			name:  "zero criteria pass everything",
			offer: base().Build(),
			want:  true,
		},
		{
			name:     "range ignored while not user modified",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 1, Max: 2}},
			offer:    base().Build(),
			want:     true,
		},
		{
			name:     "enforced range uses discounted cost",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 20, Max: 30}, PriceRangeUserModified: true},
			offer:    base().Build(),
			want:     true,
		},
		{
			name:     "enforced range excludes on discounted cost",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 40, Max: 50}, PriceRangeUserModified: true},
			offer:    base().Build(),
			want:     false,
		},
		{
			name:     "range bounds are inclusive",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 30, Max: 30}, PriceRangeUserModified: true},
			offer:    base().WithMonthlyCents(3000).Build(),
			want:     true,
		},
		{
			name:     "a cent above the max is excluded",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 0, Max: 30}, PriceRangeUserModified: true},
			offer:    base().WithMonthlyCents(3001).Build(),
			want:     false,
		},
		{
			name:     "a cent below the min is excluded",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 30, Max: 40}, PriceRangeUserModified: true},
			offer:    base().WithMonthlyCents(2999).Build(),
			want:     false,
		},
		{
			name:     "huge max does not wrap around",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 0, Max: math.MaxInt64}, PriceRangeUserModified: true},
			offer:    base().Build(),
			want:     true,
		},
		{
			name:     "huge min excludes everything",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: math.MaxInt64, Max: math.MaxInt64}, PriceRangeUserModified: true},
			offer:    base().WithMonthlyCents(math.MaxInt64).Build(),
			want:     false,
		},
		{
			name:     "enforced range excludes offers without price data",
			criteria: queries.FilterCriteria{PriceRange: queries.PriceRange{Min: 0, Max: 1000}, PriceRangeUserModified: true},
			offer:    base().WithoutPrice().Build(),
			want:     false,
		},
		{
			name:     "speed at minimum passes",
			criteria: queries.FilterCriteria{MinSpeedMbps: 250},
			offer:    base().Build(),
			want:     true,
		},
		{
			name:     "speed below minimum fails",
			criteria: queries.FilterCriteria{MinSpeedMbps: 251},
			offer:    base().Build(),
			want:     false,
		},
		{
			name:     "connection in set",
			criteria: queries.FilterCriteria{Connections: []offer.ConnectionType{offer.ConnectionDSL, offer.ConnectionCable}},
			offer:    base().Build(),
			want:     true,
		},
		{
			name:     "connection not in set",
			criteria: queries.FilterCriteria{Connections: []offer.ConnectionType{offer.ConnectionFiber}},
			offer:    base().Build(),
			want:     false,
		},
		{
			name:     "contract not in set",
			criteria: queries.FilterCriteria{ContractMonths: []int{12}},
			offer:    base().Build(),
			want:     false,
		},
		{
			name:     "provider in set",
			criteria: queries.FilterCriteria{Providers: []offer.Provider{offer.ProviderByteMe}},
			offer:    base().Build(),
			want:     true,
		},
		{
			name:     "provider not in set",
			criteria: queries.FilterCriteria{Providers: []offer.Provider{offer.ProviderWebWunder}},
			offer:    base().Build(),
			want:     false,
		},
		{
			name:     "installation must match when specified",
			criteria: queries.FilterCriteria{Installation: offer.InstallationNotRequired},
			offer:    base().Build(),
			want:     false,
		},
		{
			name:     "unspecified offer does not match a specified filter",
			criteria: queries.FilterCriteria{Installation: offer.InstallationRequired},
			offer:    base().WithInstallation(offer.InstallationUnspecified).Build(),
			want:     false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.criteria.Matches(c.offer))
		})
	}
}

func TestApplyIsPureAndIdempotent(t *testing.T) {
	offers := []offer.NormalizedOffer{
		builder.Offer(offer.ProviderWebWunder, "a", 50, 1000),
		builder.Offer(offer.ProviderByteMe, "b", 500, 6000),
		builder.Offer(offer.ProviderVerbynDich, "c", 100, 1500),
		builder.NewOfferBuilder().WithProvider(offer.ProviderServusSpeed).WithID("d").WithoutPrice().Build(),
	}
	snapshot := append([]offer.NormalizedOffer(nil), offers...)
	criteria := queries.FilterCriteria{
		PriceRange:             queries.PriceRange{Min: 10, Max: 20},
		PriceRangeUserModified: true,
		MinSpeedMbps:           60,
	}

	first := queries.Apply(offers, criteria, queries.SortBestValue)
	second := queries.Apply(offers, criteria, queries.SortBestValue)

	require.Equal(t, first, second)
	assert.Equal(t, snapshot, offers)
	require.Len(t, first, 1)
	assert.Equal(t, "c", first[0].OfferID)
}

func TestAutoRangeExample(t *testing.T) {
	offers := []offer.NormalizedOffer{
		builder.Offer(offer.ProviderWebWunder, "a", 100, 1000),
		builder.Offer(offer.ProviderWebWunder, "b", 100, 2000),
		builder.Offer(offer.ProviderWebWunder, "c", 100, 5000),
	}
	rc := queries.NewRangeController()
	rc.Observe(offers)
	criteria := rc.Apply(queries.FilterCriteria{})

	assert.Equal(t, queries.PriceRange{Min: 10, Max: 50}, criteria.PriceRange)
	assert.False(t, criteria.PriceRangeUserModified)
	assert.Len(t, queries.Filter(offers, criteria), 3)
}
