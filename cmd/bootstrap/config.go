package bootstrap

import (
	"offer-compare/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	ConfigSections,
)

// ConfigSections exposes the parts of config.Config that constructors take directly.
var ConfigSections = fx.Provide(
	func(cfg config.Config) config.BackendConfig { return cfg.Backend },
	func(cfg config.Config) config.ShareConfig { return cfg.Share },
	func(cfg config.Config) config.CORSConfig { return cfg.CORS },
	func(cfg config.Config) config.SessionConfig { return cfg.Session },
)
