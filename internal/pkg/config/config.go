package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, backend URL, etc.)
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	Log     LogConfig
	Backend BackendConfig
	Share   ShareConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Client-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Berlin"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"3600"` // 1*60*60
}

// BackendConfig locates the collaborator that hosts the provider adapters.
// Endpoints maps a provider display name to a path (or absolute URL) on that backend.
type BackendConfig struct {
	BaseURL       string            `envconfig:"BACKEND_BASE_URL" required:"true"`
	Timeout       time.Duration     `envconfig:"BACKEND_TIMEOUT" default:"30s"`
	ProvidersFile string            `envconfig:"BACKEND_PROVIDERS_FILE"`
	Endpoints     map[string]string `envconfig:"BACKEND_ENDPOINTS"`
}

type ShareConfig struct {
	Origin string `envconfig:"SHARE_ORIGIN" default:"http://localhost:3000"`
}

// SessionConfig bounds how long a remembered last query is offered back and how
// long an unused session is kept. Zero keeps it forever.
type SessionConfig struct {
	LastQueryTTL  time.Duration `envconfig:"SESSION_LAST_QUERY_TTL" default:"24h"`
	IdleTTL       time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`
}

// providersFile is the YAML layout of BACKEND_PROVIDERS_FILE.
type providersFile struct {
	Endpoints map[string]string `yaml:"endpoints"`
}

var defaultEndpoints = map[string]string{
	"WebWunder":    "/providers/webwunder/offers",
	"ByteMe":       "/providers/byteme/offers",
	"Ping Perfect": "/providers/pingperfect/offers",
	"VerbynDich":   "/providers/verbyndich/offers",
	"Servus Speed": "/providers/servusspeed/offers",
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file, using process environment only", "error", err)
	}

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}

	endpoints, err := resolveEndpoints(cfg.Backend)
	if err != nil {
		return Config{}, err
	}
	cfg.Backend.Endpoints = endpoints
	return cfg, nil
}

// resolveEndpoints layers defaults < providers file < BACKEND_ENDPOINTS.
func resolveEndpoints(cfg BackendConfig) (map[string]string, error) {
	out := make(map[string]string, len(defaultEndpoints))
	for k, v := range defaultEndpoints {
		out[k] = v
	}

	if cfg.ProvidersFile != "" {
		fromFile, err := LoadEndpointsFile(cfg.ProvidersFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			out[k] = v
		}
	}

	for k, v := range cfg.Endpoints {
		out[k] = v
	}
	return out, nil
}

func LoadEndpointsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var pf providersFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse providers file %s: %w", path, err)
	}
	return pf.Endpoints, nil
}

func DefaultEndpoints() map[string]string {
	out := make(map[string]string, len(defaultEndpoints))
	for k, v := range defaultEndpoints {
		out[k] = v
	}
	return out
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Client-Key"},
			ExposeHeaders:    []string{"Content-Length", "Location"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Europe/Berlin",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 3600,
		},
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   2 * time.Second,
			Endpoints: DefaultEndpoints(),
		},
		Share: ShareConfig{
			Origin: "http://localhost:3000",
		},
		Session: SessionConfig{
			LastQueryTTL:  time.Hour,
			IdleTTL:       30 * time.Minute,
			SweepInterval: time.Minute,
		},
	}
}
