package service

import (
	"github.com/flexprice/salestax/internal/cache"
	"github.com/flexprice/salestax/internal/config"
	"github.com/flexprice/salestax/internal/domain/preference"
	"github.com/flexprice/salestax/internal/domain/taxtransaction"
	"github.com/flexprice/salestax/internal/integration/avatax"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	TaxTransactionRepo taxtransaction.Repository
	PreferenceRepo     preference.Repository

	// Integrations
	AvataxClient avatax.Client
}

// NewServiceParams collects the dependencies provided by fx
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	sentry *sentry.Service,
	taxTransactionRepo taxtransaction.Repository,
	preferenceRepo preference.Repository,
	avataxClient avatax.Client,
) ServiceParams {
	return ServiceParams{
		Logger:             logger,
		Config:             config,
		Cache:              cache,
		Sentry:             sentry,
		TaxTransactionRepo: taxTransactionRepo,
		PreferenceRepo:     preferenceRepo,
		AvataxClient:       avataxClient,
	}
}
