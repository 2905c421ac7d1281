package session

import (
	"context"

	"offer-compare/internal/domain/offer"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/session/mock_ports.go -package=sessionmock

// QueryStore keeps the last submitted query per client key.
type QueryStore interface {
	Save(ctx context.Context, key string, q offer.Query) error
	Load(ctx context.Context, key string) (offer.Query, bool, error)
	Clear(ctx context.Context, key string) error
}
