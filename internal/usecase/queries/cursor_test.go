//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/usecase/queries"
	"offer-compare/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	in := queries.PageCursor{
		QueryID: uuid.New(),
		Sort:    queries.SortLowestPrice,
		After:   offer.Key{Provider: offer.ProviderPingPerfect, OfferID: "pp:2/x"},
	}
	out, err := queries.DecodeCursor(queries.EncodeCursor(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeCursorRejects(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	id := uuid.NewString()

	cases := map[string]string{
		"empty":            "",
		"not base64":       "!!!",
		"wrong version":    enc("v0:" + id + ":best_value:ByteMe/bm-1"),
		"missing fields":   enc("v1:" + id + ":best_value"),
		"bad query id":     enc("v1:nope:best_value:ByteMe/bm-1"),
		"unknown sort":     enc("v1:" + id + ":cheapest:ByteMe/bm-1"),
		"empty sort":       enc("v1:" + id + "::ByteMe/bm-1"),
		"unknown provider": enc("v1:" + id + ":best_value:Telekom/t-1"),
		"no offer id":      enc("v1:" + id + ":best_value:ByteMe/"),
	}
	for name, cursor := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := queries.DecodeCursor(cursor)
			assert.ErrorIs(t, err, queries.ErrInvalidCursor)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultPageLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultPageLimit, queries.ValidateLimit(-3))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxPageLimit, queries.ValidateLimit(queries.MaxPageLimit+1))
}

func TestPaginate(t *testing.T) {
	offers := []offer.NormalizedOffer{
		builder.Offer(offer.ProviderByteMe, "a", 10, 1000),
		builder.Offer(offer.ProviderByteMe, "b", 10, 2000),
		builder.Offer(offer.ProviderByteMe, "c", 10, 3000),
		builder.Offer(offer.ProviderByteMe, "d", 10, 4000),
		builder.Offer(offer.ProviderByteMe, "e", 10, 5000),
	}
	qid := uuid.New()
	key := queries.SortLowestPrice

	var seen []string
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		page, err := queries.Paginate(offers, qid, key, cursor, 2)
		require.NoError(t, err)
		seen = append(seen, ids(page.Offers)...)
		if page.Next == "" {
			break
		}
		cursor = page.Next
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, seen)

	t.Run("exact fit has no next page", func(t *testing.T) {
		page, err := queries.Paginate(offers, qid, key, "", 5)
		require.NoError(t, err)
		assert.Len(t, page.Offers, 5)
		assert.Empty(t, page.Next)
	})

	t.Run("cursor from another listing is refused", func(t *testing.T) {
		page, err := queries.Paginate(offers, qid, key, "", 2)
		require.NoError(t, err)

		_, err = queries.Paginate(offers, uuid.New(), key, page.Next, 2)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
		_, err = queries.Paginate(offers, qid, queries.SortBestValue, page.Next, 2)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
	})

	t.Run("cursor whose offer was filtered away is refused", func(t *testing.T) {
		page, err := queries.Paginate(offers, qid, key, "", 2)
		require.NoError(t, err)

		_, err = queries.Paginate(offers[2:], qid, key, page.Next, 2)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
	})
}
