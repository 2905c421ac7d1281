//go:build unit

package comparison_test

import (
	"fmt"
	"testing"

	"offer-compare/internal/domain/comparison"
	"offer-compare/internal/domain/offer"
	"offer-compare/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, s *comparison.Set, n int) []offer.NormalizedOffer {
	t.Helper()
	var added []offer.NormalizedOffer
	for i := 0; i < n; i++ {
		o := builder.Offer(offer.ProviderVerbynDich, fmt.Sprintf("vd-%d", i), 50*(i+1), int64(1000*(i+1)))
		ok, err := s.Add(o)
		require.NoError(t, err)
		require.True(t, ok)
		added = append(added, o)
	}
	return added
}

func TestSet(t *testing.T) {
	t.Run("add preserves insertion order", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, 3)

		assert.Equal(t, 3, s.Len())
		assert.Equal(t, added, s.Items())
	})

	t.Run("fifth distinct offer is rejected and set stays at four", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, comparison.MaxSize)
		fifth := builder.Offer(offer.ProviderServusSpeed, "ss-9", 500, 5999)

		assert.False(t, s.CanAdd(fifth.Key()))
		ok, err := s.Add(fifth)
		require.ErrorIs(t, err, comparison.ErrCapacityExceeded)
		assert.False(t, ok)
		assert.Equal(t, comparison.MaxSize, s.Len())
		assert.Equal(t, added, s.Items())
		assert.False(t, s.Contains(fifth.Key()))
		assert.True(t, s.IsFull())
	})

	t.Run("re-adding a present offer is a no-op", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, 2)

		ok, err := s.Add(added[0])
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 2, s.Len())
	})

	t.Run("re-adding a present offer into a full set is still a no-op", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, comparison.MaxSize)

		ok, err := s.Add(added[2])
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, 3)

		assert.True(t, s.Remove(added[1].Provider, added[1].OfferID))
		assert.Equal(t, []offer.Key{added[0].Key(), added[2].Key()}, s.Keys())
		assert.False(t, s.Contains(added[1].Key()))

		assert.False(t, s.Remove(added[1].Provider, added[1].OfferID))
		assert.False(t, s.Remove(offer.ProviderByteMe, added[0].OfferID))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("remove frees capacity", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, comparison.MaxSize)
		require.True(t, s.Remove(added[0].Provider, added[0].OfferID))

		next := builder.Offer(offer.ProviderByteMe, "bm-1", 100, 2000)
		assert.True(t, s.CanAdd(next.Key()))
		ok, err := s.Add(next)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, next.Key(), s.Keys()[comparison.MaxSize-1])
	})

	t.Run("clear", func(t *testing.T) {
		s := comparison.NewSet()
		added := fill(t, s, 4)
		s.Clear()

		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Items())
		assert.False(t, s.Contains(added[0].Key()))
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var s comparison.Set
		ok, err := s.Add(builder.Offer(offer.ProviderByteMe, "bm-1", 100, 2000))
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
