//go:build unit

package memstore_test

import (
	"context"
	"testing"
	"time"

	"offer-compare/internal/infra/memstore"
	"offer-compare/internal/pkg/clock"
	"offer-compare/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryStore(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	q := builder.NewAddressBuilder().BuildQuery()

	t.Run("save load clear", func(t *testing.T) {
		s := memstore.NewQueryStore(clk, 0)

		_, ok, err := s.Load(ctx, "client-a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Save(ctx, "client-a", q))
		got, ok, err := s.Load(ctx, "client-a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, q.ID(), got.ID())

		_, ok, err = s.Load(ctx, "client-b")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Clear(ctx, "client-a"))
		_, ok, err = s.Load(ctx, "client-a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("save replaces", func(t *testing.T) {
		s := memstore.NewQueryStore(clk, 0)
		other := builder.NewAddressBuilder().WithPostalCode("10115").BuildQuery()
		require.NoError(t, s.Save(ctx, "k", q))
		require.NoError(t, s.Save(ctx, "k", other))

		got, ok, err := s.Load(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, other.ID(), got.ID())
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		c := clock.NewMockClock(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
		s := memstore.NewQueryStore(c, time.Hour)
		require.NoError(t, s.Save(ctx, "k", q))

		c.Add(59 * time.Minute)
		_, ok, err := s.Load(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)

		c.Add(2 * time.Minute)
		_, ok, err = s.Load(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := memstore.NewQueryStore(clk, 0)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		require.ErrorIs(t, s.Save(cctx, "k", q), context.Canceled)
	})
}
