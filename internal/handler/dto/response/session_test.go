//go:build unit

package response_test

import (
	"testing"

	"offer-compare/internal/domain/offer"
	resdto "offer-compare/internal/handler/dto/response"
	"offer-compare/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAddress(t *testing.T) {
	addr := builder.NewAddressBuilder().
		WithStreet("Leopoldstraße").
		WithPostalCode("80802").
		WithCity("München").
		MustBuild()

	want := resdto.AddressResponse{
		Street:      "Leopoldstraße",
		HouseNumber: "5",
		PostalCode:  "80802",
		City:        "München",
		CountryCode: "DE",
	}
	if diff := cmp.Diff(want, resdto.FromAddress(addr)); diff != "" {
		t.Errorf("FromAddress mismatch (-want +got):\n%s", diff)
	}
}

func TestFromQuery(t *testing.T) {
	b := builder.NewAddressBuilder()
	q := b.BuildQuery()

	res := resdto.FromQuery(q)
	require.NotNil(t, res)
	assert.Equal(t, q.ID().String(), res.ID)
	assert.Equal(t, b.SubmittedAt.Unix(), res.SubmittedAt)
	assert.Equal(t, "80333", res.Address.PostalCode)
	assert.Equal(t, "Musterstraße", res.Address.Street)

	assert.Nil(t, resdto.FromQuery(offer.Query{}))
}
