//go:build unit

package offer_test

import (
	"testing"

	"offer-compare/internal/domain/offer"
	"offer-compare/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionMerge(t *testing.T) {
	ww1 := builder.Offer(offer.ProviderWebWunder, "ww-1", 100, 2999)
	ww2 := builder.Offer(offer.ProviderWebWunder, "ww-2", 250, 3999)
	bm1 := builder.Offer(offer.ProviderByteMe, "ww-1", 50, 1999)

	t.Run("zero value is empty", func(t *testing.T) {
		var c offer.Collection
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.Offers())
		assert.False(t, c.Contains(ww1.Key()))
	})

	t.Run("same offer id under different providers are distinct", func(t *testing.T) {
		c, dups := offer.NewCollection([]offer.NormalizedOffer{ww1, bm1})
		assert.Empty(t, dups)
		assert.Equal(t, 2, c.Len())
		assert.True(t, c.Contains(ww1.Key()))
		assert.True(t, c.Contains(bm1.Key()))
	})

	t.Run("merge does not mutate the receiver", func(t *testing.T) {
		first, _ := offer.NewCollection([]offer.NormalizedOffer{ww1})
		second, _ := first.Merge([]offer.NormalizedOffer{ww2})

		assert.Equal(t, 1, first.Len())
		assert.False(t, first.Contains(ww2.Key()))
		assert.Equal(t, 2, second.Len())
	})

	t.Run("siblings merged from the same base stay independent", func(t *testing.T) {
		base, _ := offer.NewCollection([]offer.NormalizedOffer{ww1})
		a, _ := base.Merge([]offer.NormalizedOffer{ww2})
		b, _ := base.Merge([]offer.NormalizedOffer{builder.Offer(offer.ProviderWebWunder, "ww-3", 10, 999)})

		assert.Equal(t, []string{"ww-1", "ww-2"}, offerIDs(a.Offers()))
		assert.Equal(t, []string{"ww-1", "ww-3"}, offerIDs(b.Offers()))
	})

	t.Run("duplicates are reported and the first occurrence stays", func(t *testing.T) {
		changed := builder.NewOfferBuilder().WithProvider(offer.ProviderWebWunder).WithID("ww-1").WithSpeed(999).Build()
		c, dups := offer.NewCollection([]offer.NormalizedOffer{ww1, changed})

		require.Equal(t, []offer.Key{ww1.Key()}, dups)
		got, ok := c.Get(ww1.Key())
		require.True(t, ok)
		assert.Equal(t, 100, got.SpeedMbps)
	})

	t.Run("unknown provider is skipped and reported", func(t *testing.T) {
		stray := builder.NewOfferBuilder().WithProvider("Telekom").Build()
		c, dups := offer.NewCollection([]offer.NormalizedOffer{stray})
		assert.Equal(t, 0, c.Len())
		assert.Equal(t, []offer.Key{stray.Key()}, dups)
	})

	t.Run("listing order follows provider order not arrival order", func(t *testing.T) {
		a, _ := offer.Collection{}.Merge([]offer.NormalizedOffer{bm1})
		a, _ = a.Merge([]offer.NormalizedOffer{ww1, ww2})

		b, _ := offer.Collection{}.Merge([]offer.NormalizedOffer{ww1, ww2})
		b, _ = b.Merge([]offer.NormalizedOffer{bm1})

		assert.Equal(t, a.Offers(), b.Offers())
		assert.Equal(t, []offer.Provider{offer.ProviderWebWunder, offer.ProviderByteMe}, a.Providers())
		assert.Len(t, a.ByProvider(offer.ProviderWebWunder), 2)
		assert.Empty(t, a.ByProvider(offer.ProviderServusSpeed))
	})

	t.Run("callers cannot mutate stored offers", func(t *testing.T) {
		c, _ := offer.NewCollection([]offer.NormalizedOffer{ww1})
		listed := c.Offers()
		listed[0].Price.MonthlyCostCents = 1

		got, _ := c.Get(ww1.Key())
		assert.Equal(t, int64(2999), got.Price.MonthlyCostCents)
	})
}

func offerIDs(offers []offer.NormalizedOffer) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.OfferID)
	}
	return out
}
