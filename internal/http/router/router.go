package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/parcel-ledger/internal/config"
	"github.com/ignatzorin/parcel-ledger/internal/http/handlers"
	"github.com/ignatzorin/parcel-ledger/internal/http/middleware"
	"github.com/ignatzorin/parcel-ledger/internal/metrics"
	"github.com/ignatzorin/parcel-ledger/internal/models"
)

func SetupRouter(
	cfg *config.Config,
	riderHandler *handlers.RiderCashoutHandler,
	adminHandler *handlers.AdminCashoutHandler,
	healthHandler *handlers.HealthHandler,
	tokenParser middleware.AccessTokenParser,
	ledgerMetrics *metrics.Ledger,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	if healthHandler != nil {
		r.GET("/health", healthHandler.Health)
	}
	if ledgerMetrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(ledgerMetrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	// Эндпоинты курьера
	rider := api.Group("/rider")
	rider.Use(middleware.AuthMiddleware(tokenParser), middleware.RequireRole(models.RoleRider))
	{
		rider.POST("/cashouts", middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod), riderHandler.Submit)
		rider.GET("/cashouts", riderHandler.History)
		rider.GET("/balance", riderHandler.Balance)
		rider.GET("/earnings", riderHandler.Earnings)
	}

	// Эндпоинты администратора
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenParser), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/cashouts", adminHandler.List)
		admin.GET("/cashouts/:id", middleware.UUIDValidator("id"), adminHandler.Get)
		admin.PATCH("/cashouts/:id", middleware.UUIDValidator("id"), adminHandler.Resolve)
		admin.GET("/riders/:riderId/balance", adminHandler.RiderBalance)
	}

	return r
}
