// Command server runs the stock estimates HTTP API.
//
// @title                       Stock Estimates API
// @version                     1.0
// @description                 Market data and per-user earnings, revenue and growth estimates.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/api"
	"github.com/finscope/estimates-api/internal/core/ports"
	"github.com/finscope/estimates-api/internal/core/service"
	"github.com/finscope/estimates-api/internal/infrastructure/backend"
	"github.com/finscope/estimates-api/internal/infrastructure/market"
	"github.com/finscope/estimates-api/internal/infrastructure/queue"
	"github.com/finscope/estimates-api/internal/pkg/config"
	"github.com/finscope/estimates-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "estimates-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("open store")
	}

	audit := queue.NewAuditDispatcher(cfg.AuditWorkers, store.Audit, log)
	audit.Start()

	e := newServer(cfg, store, audit, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Store.Backend).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := audit.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit drain")
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("close store")
	}
}

// newServer wires the services over store and returns the HTTP server.
func newServer(cfg *config.Config, store *backend.Backend, audit ports.AuditLog, log zerolog.Logger) *echo.Echo {
	authService := service.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL, log)
	return api.NewRouter(api.Dependencies{
		Auth:      authService,
		Estimates: service.NewEstimateService(store.Estimates, authService, audit, log),
		Market:    service.NewMarketService(market.NewMockProvider(), log),
		Probes:    store.Probes,
		StaticDir: cfg.StaticDir,
		Logger:    log,
	})
}
