package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"offer-compare/internal/handler/api"
	"offer-compare/internal/handler/middleware"
	"offer-compare/internal/pkg/config"
	"offer-compare/internal/pkg/metrics"
	"offer-compare/internal/usecase/share"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics, sessionHandler *api.SessionHandler, streamHandler *api.StreamHandler) {
	setupMiddleware(engine, cfg, logger, m)
	setupRoutes(engine, m, sessionHandler, streamHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, m *metrics.Metrics, sessionHandler *api.SessionHandler, streamHandler *api.StreamHandler) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/sessions", Handler: sessionHandler.Create},
			{Method: http.MethodGet, Path: "/shared", Handler: sessionHandler.GetShared},
		})

		sessions := apiGroup.Group("/sessions/:id")
		{
			addRoutes(sessions, []route{
				{Method: http.MethodDelete, Path: "", Handler: sessionHandler.Close},
				{Method: http.MethodPost, Path: "/searches", Handler: sessionHandler.Search},
				{Method: http.MethodGet, Path: "/snapshot", Handler: sessionHandler.Snapshot},
				{Method: http.MethodGet, Path: "/stream", Handler: streamHandler.Stream},
				{Method: http.MethodGet, Path: "/offers", Handler: sessionHandler.Offers},
				{Method: http.MethodPatch, Path: "/filters", Handler: sessionHandler.UpdateFilters},
				{Method: http.MethodDelete, Path: "/filters", Handler: sessionHandler.ResetFilters},
				{Method: http.MethodPut, Path: "/filters/price-range", Handler: sessionHandler.AdjustPriceRange},
				{Method: http.MethodGet, Path: "/comparison", Handler: sessionHandler.Comparison},
				{Method: http.MethodPost, Path: "/comparison", Handler: sessionHandler.AddToComparison},
				{Method: http.MethodDelete, Path: "/comparison/:provider/:offerId", Handler: sessionHandler.RemoveFromComparison},
				{Method: http.MethodPost, Path: "/share", Handler: sessionHandler.Share},
				{Method: http.MethodPost, Path: "/shared", Handler: sessionHandler.LoadShared, Mw: []gin.HandlerFunc{
					middleware.BodyLimit(share.MaxTokenLength + 1024),
				}},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
