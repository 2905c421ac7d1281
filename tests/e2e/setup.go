//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"offer-compare/cmd/bootstrap"
	"offer-compare/cmd/bootstrap/components"
	"offer-compare/internal/domain/offer"
	"offer-compare/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

// ------------------------------------------------------------
// Fake provider backend
// ------------------------------------------------------------

// Backend serves the provider endpoints of config.DefaultEndpoints. A provider
// without offers set answers 503.
type Backend struct {
	mu       sync.Mutex
	offers   map[offer.Provider][]offer.NormalizedOffer
	requests map[offer.Provider]int
	server   *httptest.Server
}

func NewBackend() *Backend {
	b := &Backend{
		offers:   make(map[offer.Provider][]offer.NormalizedOffer),
		requests: make(map[offer.Provider]int),
	}
	mux := http.NewServeMux()
	for name, path := range config.DefaultEndpoints() {
		p := offer.Provider(name)
		mux.HandleFunc("POST "+path, func(w http.ResponseWriter, _ *http.Request) {
			b.serve(w, p)
		})
	}
	b.server = httptest.NewServer(mux)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, p offer.Provider) {
	b.mu.Lock()
	b.requests[p]++
	offers, ok := b.offers[p]
	b.mu.Unlock()

	if !ok {
		http.Error(w, `{"detail":"provider unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(offers)
}

func (b *Backend) SetOffers(p offer.Provider, offers ...offer.NormalizedOffer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offers == nil {
		offers = []offer.NormalizedOffer{}
	}
	b.offers[p] = offers
}

func (b *Backend) Fail(p offer.Provider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.offers, p)
}

func (b *Backend) Requests(p offer.Provider) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[p]
}

func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) Close() {
	b.server.Close()
}

// ------------------------------------------------------------
// Application wiring
// ------------------------------------------------------------

// buildE2EApp starts the production fx graph with the config pointed at backend.
func buildE2EApp(backend *Backend) (*gin.Engine, config.Config, *fx.App) {
	var router *gin.Engine
	var cfg config.Config

	testConfigModule := fx.Module("testconfig",
		fx.Provide(func() config.Config {
			c := config.NewTestConfig()
			c.Backend.BaseURL = backend.URL()
			return c
		}),
		bootstrap.ConfigSections,
	)

	app := fx.New(
		testConfigModule,
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		components.InfraModule,
		components.UseCaseModule,
		components.HandlerModule,

		fx.Populate(&router, &cfg),

		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		panic(fmt.Sprintf("failed to start fx app: %v", err))
	}
	if router == nil {
		panic("fx app started without a router")
	}
	return router, cfg, app
}

// ------------------------------------------------------------
// Shared suite for e2e tests
// ------------------------------------------------------------
type SharedSuite struct {
	suite.Suite
	Router  *gin.Engine
	Config  config.Config
	Backend *Backend
	app     *fx.App
}

func (s *SharedSuite) SetupSharedSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s.Backend = NewBackend()
	s.Router, s.Config, s.app = buildE2EApp(s.Backend)
	require.NotNil(t, s.Router, "router setup failed")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
		s.Backend.Close()
	})
}

func (s *SharedSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
}
