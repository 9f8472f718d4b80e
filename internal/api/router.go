package api

import (
	v1 "github.com/flexprice/salestax/internal/api/v1"
	"github.com/flexprice/salestax/internal/config"
	"github.com/flexprice/salestax/internal/logger"
	"github.com/flexprice/salestax/internal/rest/middleware"
	"github.com/flexprice/salestax/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Tax        *v1.TaxHandler
	Preference *v1.PreferenceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.CORSMiddleware,
		middleware.ContextMiddleware,
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	tax := router.Group("/tax")
	{
		tax.POST("/transactions", handlers.Tax.CreateTransaction)
		tax.GET("/transactions/:id", handlers.Tax.GetTransaction)
		tax.GET("/orders/:order_id/transaction", handlers.Tax.GetOrderTransaction)

		tax.POST("/lookup", handlers.Tax.LookupTax)
		tax.POST("/commit", handlers.Tax.CommitTax)
		tax.POST("/commit/final", handlers.Tax.CommitTaxFinal)
		tax.POST("/cancel", handlers.Tax.CancelOrderTax)

		tax.POST("/addresses/validate", handlers.Tax.ValidateAddress)
		tax.GET("/estimate", handlers.Tax.EstimateTax)
		tax.GET("/ping", handlers.Tax.Ping)

		tax.GET("/preferences", handlers.Preference.ListPreferences)
		tax.PUT("/preferences/:key", handlers.Preference.UpdatePreference)
	}
}
