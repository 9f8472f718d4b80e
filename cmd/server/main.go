package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/salestax/internal/api"
	v1 "github.com/flexprice/salestax/internal/api/v1"
	"github.com/flexprice/salestax/internal/cache"
	"github.com/flexprice/salestax/internal/config"
	"github.com/flexprice/salestax/internal/httpclient"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/postgres"
	"github.com/flexprice/salestax/internal/repository"
	"github.com/flexprice/salestax/internal/sentry"
	"github.com/flexprice/salestax/internal/service"
	"github.com/flexprice/salestax/internal/types"
	"github.com/flexprice/salestax/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// HTTP Client
			provideHTTPClient,

			// Tax service client
			avatax.NewClient,

			// Repositories
			repository.NewTaxTransactionRepository,
			repository.NewPreferenceRepository,
		),
		sentry.Module(),
		postgres.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewPreferenceService,
			service.NewTaxTransactionService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			initValidator,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func initValidator() {
	validator.NewValidator()
}

func provideHTTPClient(cfg *config.Configuration) httpclient.Client {
	return httpclient.NewClient(httpclient.ClientConfig{
		Timeout: cfg.Avatax.Timeout,
	})
}

func provideHandlers(
	logger *logger.Logger,
	taxService service.TaxTransactionService,
	preferenceService service.PreferenceService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(logger),
		Tax:        v1.NewTaxHandler(taxService, preferenceService, logger),
		Preference: v1.NewPreferenceHandler(preferenceService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
