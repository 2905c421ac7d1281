package search

import (
	"context"

	"offer-compare/internal/domain/offer"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/search/mock_ports.go -package=searchmock

// SourceClient fetches the normalized offers of one provider for one address.
// A call either returns offers (possibly none) or fails; retries are not its concern.
type SourceClient interface {
	FetchOffers(ctx context.Context, provider offer.Provider, address offer.Address) ([]offer.NormalizedOffer, error)
}
