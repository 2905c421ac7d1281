package components

import (
	"offer-compare/internal/handler"
	"offer-compare/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSessionHandler,
		api.NewStreamHandler,
	),
	fx.Invoke(handler.NewRouter),
)
