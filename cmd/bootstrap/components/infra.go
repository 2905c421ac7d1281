package components

import (
	"offer-compare/internal/infra/memstore"
	"offer-compare/internal/infra/source"
	"offer-compare/internal/pkg/clock"
	"offer-compare/internal/pkg/config"
	"offer-compare/internal/pkg/metrics"
	"offer-compare/internal/usecase/search"
	"offer-compare/internal/usecase/session"

	"go.uber.org/fx"
)

var InfraModule = fx.Module("infra",
	fx.Provide(
		clock.NewRealClock,
		metrics.New,
		fx.Annotate(
			source.NewHTTPClient,
			fx.As(new(search.SourceClient)),
		),
		fx.Annotate(
			NewQueryStore,
			fx.As(new(session.QueryStore)),
		),
	),
)

func NewQueryStore(clk clock.Clock, cfg config.Config) *memstore.QueryStore {
	return memstore.NewQueryStore(clk, cfg.Session.LastQueryTTL)
}
