//go:build unit

package search_test

import (
	"context"
	"testing"

	"offer-compare/internal/domain/offer"
	"offer-compare/internal/usecase/queries"
	"offer-compare/tests/common/builder"
	searchmock "offer-compare/tests/mock/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestScenario_OneProviderWithOffersOneFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := searchmock.NewMockSourceClient(ctrl)
	addr := builder.NewAddressBuilder().MustBuild()

	basic := builder.NewOfferBuilder().WithID("ww-basic").WithSpeed(100).WithMonthlyCents(2999).Build()
	turbo := builder.NewOfferBuilder().WithID("ww-turbo").WithSpeed(250).WithDiscountedCents(5999, 3999).Build()

	client.EXPECT().FetchOffers(gomock.Any(), offer.ProviderWebWunder, addr).
		Return([]offer.NormalizedOffer{basic, turbo}, nil)
	for _, p := range []offer.Provider{offer.ProviderByteMe, offer.ProviderPingPerfect, offer.ProviderVerbynDich} {
		client.EXPECT().FetchOffers(gomock.Any(), p, addr).Return([]offer.NormalizedOffer{}, nil)
	}
	client.EXPECT().FetchOffers(gomock.Any(), offer.ProviderServusSpeed, addr).Return(nil, errUpstream)

	run, err := newOrchestrator(client).Start(context.Background(), addr)
	require.NoError(t, err)
	collect(t, run)
	final := run.Latest()

	require.True(t, final.Complete)
	require.Equal(t, 2, final.Offers.Len())
	for _, o := range final.Offers.Offers() {
		assert.Equal(t, offer.ProviderWebWunder, o.Provider)
	}
	assert.Equal(t, map[offer.Provider]offer.SourceStatus{
		offer.ProviderWebWunder:   offer.StatusSucceeded,
		offer.ProviderByteMe:      offer.StatusSucceeded,
		offer.ProviderPingPerfect: offer.StatusSucceeded,
		offer.ProviderVerbynDich:  offer.StatusSucceeded,
		offer.ProviderServusSpeed: offer.StatusFailed,
	}, final.Statuses.Map())

	// 250/39.99 > 100/29.99
	rc := queries.NewRangeController()
	rc.Observe(final.Offers.Offers())
	view := queries.Apply(final.Offers.Offers(), rc.Apply(queries.FilterCriteria{}), queries.DefaultSortKey)
	require.Len(t, view, 2)
	assert.Equal(t, "ww-turbo", view[0].OfferID)
	assert.Equal(t, "ww-basic", view[1].OfferID)
	assert.Equal(t, queries.PriceRange{Min: 29, Max: 40}, rc.Bounds())
}
