package routes

import (
	"ledger-core/internal/api/handlers"
	"ledger-core/internal/api/middleware"
	"ledger-core/internal/config"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers every route against the container dependencies.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, container handlers.HandlerDependencies) {
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics())
	router.Use(middleware.PrometheusMiddleware())

	accounts := router.Group("/accounts")
	accounts.POST("", handlers.MakeCreateAccountHandler(container))
	accounts.POST("/:id/close", handlers.MakeCloseAccountHandler(container))
	accounts.GET("/:id/balance", handlers.MakeGetBalanceHandler(container))
	accounts.GET("/:id/closed", handlers.MakeIsClosedHandler(container))
	accounts.POST("/:id/deposit", handlers.MakeDepositHandler(container))
	accounts.POST("/:id/withdraw", handlers.MakeWithdrawHandler(container))

	router.POST("/transfers", handlers.MakeTransferHandler(container))

	pages := router.Group("/pages")
	pages.POST("", handlers.MakeCreatePageHandler(container))
	pages.GET("/:id", handlers.MakeGetPageHandler(container))
	pages.PUT("/:id", handlers.MakeUpdatePageHandler(container))
	pages.DELETE("/:id", handlers.MakeDeletePageHandler(container))
	pages.GET("/:id/children", handlers.MakeChildrenHandler(container))

	admin := router.Group("/admin")
	admin.POST("/reset", handlers.MakeResetHandler(container))
	admin.POST("/recovery/pending", handlers.MakeRecoverPendingHandler(container))
	admin.POST("/recovery/applied", handlers.MakeRecoverAppliedHandler(container))
	admin.POST("/recovery/cancel", handlers.MakeCancelPendingHandler(container))
	admin.GET("/recovery/age", handlers.MakeGetAgeThresholdHandler(container))
	admin.PUT("/recovery/age", handlers.MakeSetAgeThresholdHandler(container))

	router.GET("/metrics", handlers.GetMetrics)
	router.GET("/prometheus", handlers.PrometheusMetrics)
	router.GET("/events", handlers.MakeEventsHandler(container))
}
