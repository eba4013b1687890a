package main

import (
	"context"
	"fmt"

	"github.com/diewo77/invoice-builder/internal/config"
	"github.com/diewo77/invoice-builder/internal/db"
	"github.com/diewo77/invoice-builder/internal/handlers"
	"github.com/diewo77/invoice-builder/internal/logger"
	"github.com/diewo77/invoice-builder/internal/metrics"
	"github.com/diewo77/invoice-builder/internal/pdf"
	"github.com/diewo77/invoice-builder/internal/server"
	"github.com/diewo77/invoice-builder/internal/services"
	"github.com/diewo77/invoice-builder/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// app holds everything built once at startup.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *gorm.DB
	metrics *metrics.Collector

	customers *services.CustomerService
	senders   *services.SenderService
	invoices  *services.InvoiceService
}

// newApp connects the store, applies migrations and wires the services.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*app, error) {
	conn, err := db.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return assemble(conn, cfg, log)
}

// assemble owns conn from here on and closes it when wiring fails.
func assemble(conn *gorm.DB, cfg *config.Config, log *logger.Logger) (_ *app, err error) {
	defer func() {
		if err != nil {
			closeDB(conn)
		}
	}()
	if err := db.Migrate(conn, cfg.App.Migrations, cfg.Database.URL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	m := metrics.NewCollector()
	pipeline, err := pdf.NewPipeline(pdf.OptionsFromConfig(cfg.PDF), m)
	if err != nil {
		return nil, err
	}
	st := store.New(conn)
	return &app{
		cfg:       cfg,
		log:       log,
		db:        conn,
		metrics:   m,
		customers: services.NewCustomerService(st, log),
		senders:   services.NewSenderService(st, log),
		invoices: services.NewInvoiceService(st, st, st, pipeline,
			services.WithLogger(log),
			services.WithStrictTotals(cfg.App.StrictTotals),
			services.WithRenderTimeout(cfg.PDF.Timeout),
		),
	}, nil
}

func (a *app) router() *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		CustomerHandler: handlers.NewCustomerHandler(a.customers),
		SenderHandler:   handlers.NewSenderHandler(a.senders),
		InvoiceHandler:  handlers.NewInvoiceHandler(a.invoices),
		HealthHandler:   handlers.NewHealthHandler(func(ctx context.Context) error { return db.Ping(ctx, a.db) }),
		Metrics:         a.metrics,
		Log:             a.log,
		AllowedOrigins:  a.cfg.CORS.AllowedOrigins,
		Dev:             a.cfg.App.Dev,
	})
}

func (a *app) close() { closeDB(a.db) }

func closeDB(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
