// Package server assembles the gin engine: middleware, API routes and probes.
package server

import (
	"net/http"

	"github.com/diewo77/invoice-builder/httpx"
	"github.com/diewo77/invoice-builder/internal/handlers"
	"github.com/diewo77/invoice-builder/internal/logger"
	"github.com/diewo77/invoice-builder/internal/metrics"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CustomerHandler *handlers.CustomerHandler
	SenderHandler   *handlers.SenderHandler
	InvoiceHandler  *handlers.InvoiceHandler
	HealthHandler   *handlers.HealthHandler

	Metrics        *metrics.Collector
	Log            *logger.Logger
	AllowedOrigins []string
	Dev            bool
}

// NewRouter constructs the root handler with all routes and middlewares applied.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(Recover(cfg.Log), RequestLogger(cfg.Log), Metrics(cfg.Metrics))
	if mw := CORS(cfg.AllowedOrigins, cfg.Dev); mw != nil {
		r.Use(mw)
	}
	r.NoRoute(func(c *gin.Context) {
		httpx.WriteProblem(c.Writer, httpx.NewProblem(http.StatusNotFound, "NotFound", "No route for "+c.Request.Method+" "+c.Request.URL.Path))
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.Health)
		r.GET("/healthz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if h := cfg.CustomerHandler; h != nil {
		g := api.Group("/customers")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
	if h := cfg.SenderHandler; h != nil {
		g := api.Group("/senders")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}
	if h := cfg.InvoiceHandler; h != nil {
		g := api.Group("/invoices")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.GET("/:id/download", h.Download)
	}
	return r
}
