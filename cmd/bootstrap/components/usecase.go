package components

import (
	"context"
	"log/slog"

	"offer-compare/internal/pkg/clock"
	"offer-compare/internal/pkg/config"
	"offer-compare/internal/pkg/metrics"
	"offer-compare/internal/usecase/search"
	"offer-compare/internal/usecase/session"
	"offer-compare/internal/usecase/share"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		share.NewCodec,
		NewSessionManager,
	),
)

// NewSessionManager sweeps idle sessions while the app runs and closes every
// session, and with it every running search, on shutdown.
func NewSessionManager(
	lc fx.Lifecycle,
	cfg config.SessionConfig,
	client search.SourceClient,
	codec *share.Codec,
	store session.QueryStore,
	clk clock.Clock,
	logger *slog.Logger,
	m *metrics.Metrics,
) *session.Manager {
	mgr := session.NewManager(client, codec, store, clk, logger, m)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go mgr.Sweep(sweepCtx, cfg.SweepInterval, cfg.IdleTTL)
			return nil
		},
		OnStop: func(_ context.Context) error {
			stopSweep()
			mgr.Close()
			return nil
		},
	})
	return mgr
}
