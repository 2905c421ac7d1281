//go:build unit

package offer_test

import (
	"testing"
	"time"

	"offer-compare/internal/domain/offer"
	"offer-compare/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addressCase struct {
	name   string
	mutate func(*builder.AddressBuilder)
	errIs  error
}

func TestAddress(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		addr, err := builder.NewAddressBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, "Musterstraße", addr.Street())
		assert.Equal(t, "5", addr.HouseNumber())
		assert.Equal(t, "80333", addr.PostalCode())
		assert.Equal(t, "München", addr.City())
		assert.Equal(t, "DE", addr.CountryCode())
	})

	t.Run("trims and upper-cases", func(t *testing.T) {
		addr, err := offer.NewAddress("  Hauptstr. ", " 12a ", " 10115 ", " Berlin ", " de ")
		require.NoError(t, err)

		assert.Equal(t, "Hauptstr.", addr.Street())
		assert.Equal(t, "12a", addr.HouseNumber())
		assert.Equal(t, "10115", addr.PostalCode())
		assert.Equal(t, "DE", addr.CountryCode())
	})

	t.Run("postal code validation", func(t *testing.T) {
		runAddressCases(t, []addressCase{
			{name: "lowest valid", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("10000") }},
			{name: "highest valid", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("99999") }},
			{name: "leading zero", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("01067") }, errIs: offer.ErrInvalidAddress},
			{name: "four digits", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("8033") }, errIs: offer.ErrInvalidAddress},
			{name: "six digits", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("803331") }, errIs: offer.ErrInvalidAddress},
			{name: "letters", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("8O333") }, errIs: offer.ErrInvalidAddress},
			{name: "empty", mutate: func(b *builder.AddressBuilder) { b.WithPostalCode("") }, errIs: offer.ErrInvalidAddress},
		})
	})

	t.Run("required fields", func(t *testing.T) {
		runAddressCases(t, []addressCase{
			{name: "missing street", mutate: func(b *builder.AddressBuilder) { b.WithStreet("   ") }, errIs: offer.ErrInvalidAddress},
			{name: "missing house number", mutate: func(b *builder.AddressBuilder) { b.HouseNumber = "" }, errIs: offer.ErrInvalidAddress},
			{name: "missing city", mutate: func(b *builder.AddressBuilder) { b.WithCity("") }, errIs: offer.ErrInvalidAddress},
			{name: "three letter country", mutate: func(b *builder.AddressBuilder) { b.WithCountryCode("DEU") }, errIs: offer.ErrInvalidAddress},
			{name: "numeric country", mutate: func(b *builder.AddressBuilder) { b.WithCountryCode("49") }, errIs: offer.ErrInvalidAddress},
		})
	})

	t.Run("zero address is invalid", func(t *testing.T) {
		require.ErrorIs(t, offer.Address{}.Validate(), offer.ErrInvalidAddress)
	})
}

func TestQuery(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("new query gets an id and timestamp", func(t *testing.T) {
		addr := builder.NewAddressBuilder().MustBuild()
		q1, err := offer.NewQuery(addr, now)
		require.NoError(t, err)
		q2, err := offer.NewQuery(addr, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, q1.ID())
		assert.NotEqual(t, q1.ID(), q2.ID())
		assert.Equal(t, now, q1.SubmittedAt())
		assert.Equal(t, addr, q1.Address())
		assert.False(t, q1.IsZero())
	})

	t.Run("invalid address is refused", func(t *testing.T) {
		_, err := offer.NewQuery(offer.Address{}, now)
		require.ErrorIs(t, err, offer.ErrInvalidAddress)
	})

	t.Run("reconstruct keeps identity", func(t *testing.T) {
		id := uuid.New()
		addr := builder.NewAddressBuilder().MustBuild()
		q := offer.ReconstructQuery(id, addr, now)

		assert.Equal(t, id, q.ID())
		assert.Equal(t, addr, q.Address())
		assert.True(t, offer.Query{}.IsZero())
	})
}

func runAddressCases(t *testing.T, cases []addressCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := builder.NewAddressBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
