//go:build unit

package queries_test

import (
	"testing"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/usecase/queries"
	"offer-compare/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoRange(t *testing.T) {
	cases := []struct {
		name   string
		offers []offer.NormalizedOffer
		want   queries.PriceRange
	}{
		{name: "empty", want: queries.PriceRange{}},
		{
			name:   "only unpriced offers",
			offers: []offer.NormalizedOffer{builder.NewOfferBuilder().WithoutPrice().Build()},
			want:   queries.PriceRange{},
		},
		{
			name:   "single price between whole units widens to both neighbours",
			offers: []offer.NormalizedOffer{builder.Offer(offer.ProviderByteMe, "a", 1, 1999)},
			want:   queries.PriceRange{Min: 19, Max: 20},
		},
		{
			name:   "single whole price collapses",
			offers: []offer.NormalizedOffer{builder.Offer(offer.ProviderByteMe, "a", 1, 2000)},
			want:   queries.PriceRange{Min: 20, Max: 20},
		},
		{
			name: "discounted cost counts",
			offers: []offer.NormalizedOffer{
				builder.NewOfferBuilder().WithID("a").WithDiscountedCents(5000, 999).Build(),
				builder.Offer(offer.ProviderByteMe, "b", 1, 3001),
			},
			want: queries.PriceRange{Min: 9, Max: 31},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, queries.AutoRange(c.offers))
		})
	}
}

func TestRangeController(t *testing.T) {
	first := []offer.NormalizedOffer{builder.Offer(offer.ProviderWebWunder, "a", 100, 1000)}
	grown := append(first, builder.Offer(offer.ProviderByteMe, "b", 100, 5000))

	t.Run("auto follows the collection", func(t *testing.T) {
		rc := queries.NewRangeController()
		assert.Equal(t, queries.RangeAuto, rc.Mode())

		rc.Observe(first)
		assert.Equal(t, queries.PriceRange{Min: 10, Max: 10}, rc.Bounds())
		rc.Observe(grown)
		assert.Equal(t, queries.PriceRange{Min: 10, Max: 50}, rc.Bounds())
	})

	t.Run("adjust freezes bounds", func(t *testing.T) {
		rc := queries.NewRangeController()
		rc.Observe(first)
		require.NoError(t, rc.Adjust(5, 15))
		rc.Observe(grown)

		assert.Equal(t, queries.RangeManual, rc.Mode())
		assert.Equal(t, queries.PriceRange{Min: 5, Max: 15}, rc.Bounds())
		assert.Equal(t, queries.PriceRange{Min: 10, Max: 50}, rc.AutoBounds())

		c := rc.Apply(queries.FilterCriteria{MinSpeedMbps: 10})
		assert.True(t, c.PriceRangeUserModified)
		assert.Equal(t, 10, c.MinSpeedMbps)
		assert.Len(t, queries.Filter(grown, c), 1)
	})

	t.Run("reset returns to auto with current bounds", func(t *testing.T) {
		rc := queries.NewRangeController()
		rc.Observe(first)
		require.NoError(t, rc.Adjust(5, 15))
		rc.Observe(grown)
		rc.Reset()

		assert.Equal(t, queries.RangeAuto, rc.Mode())
		assert.Equal(t, queries.PriceRange{Min: 10, Max: 50}, rc.Bounds())
		assert.False(t, rc.Apply(queries.FilterCriteria{}).PriceRangeUserModified)
	})

	t.Run("new query returns to auto and forgets", func(t *testing.T) {
		rc := queries.NewRangeController()
		rc.Observe(grown)
		require.NoError(t, rc.Adjust(1, 2))
		rc.NewQuery()

		assert.Equal(t, queries.RangeAuto, rc.Mode())
		assert.Equal(t, queries.PriceRange{}, rc.Bounds())
		rc.Observe(first)
		assert.Equal(t, queries.PriceRange{Min: 10, Max: 10}, rc.Bounds())
	})

	t.Run("invalid adjustments keep the state", func(t *testing.T) {
		rc := queries.NewRangeController()
		rc.Observe(first)
		require.ErrorIs(t, rc.Adjust(20, 10), queries.ErrInvalidPriceRange)
		require.ErrorIs(t, rc.Adjust(-1, 10), queries.ErrInvalidPriceRange)
		assert.Equal(t, queries.RangeAuto, rc.Mode())
	})
}
