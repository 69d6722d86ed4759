package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hardysdecor/antique-tracker/internal/api/handlers"
	"github.com/hardysdecor/antique-tracker/internal/auth"
	"github.com/hardysdecor/antique-tracker/internal/config"
	"github.com/hardysdecor/antique-tracker/internal/metrics"
	"github.com/hardysdecor/antique-tracker/internal/services"
)

// SetupRouter wires the HTTP surface: item/store CRUD, analytics reports,
// AI identification and auth.
func SetupRouter(
	cfg *config.Config,
	authService *auth.Service,
	analyticsService *services.AnalyticsService,
	snapshotService *services.SnapshotService,
	identifyService *services.IdentifyService,
	ebayService *services.EbayService,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	router.Use(metricsMiddleware())

	itemHandler := handlers.NewItemHandler()
	storeHandler := handlers.NewStoreHandler()
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, snapshotService)
	identifyHandler := handlers.NewIdentifyHandler(identifyService, ebayService)
	authHandler := handlers.NewAuthHandler(authService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Login stays open; everything else honors the auth middleware
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(authService.Middleware())
	{
		protected.GET("/auth/me", authHandler.Me)

		items := protected.Group("/items")
		{
			items.GET("", itemHandler.ListItems)
			items.POST("", itemHandler.CreateItem)
			items.GET("/categories", itemHandler.ListCategories)
			items.GET("/:id", itemHandler.GetItem)
			items.PATCH("/:id", itemHandler.UpdateItem)
			items.POST("/:id/sell", itemHandler.SellItem)
			items.DELETE("/:id", itemHandler.DeleteItem)
		}

		stores := protected.Group("/stores")
		{
			stores.GET("", storeHandler.ListStores)
			stores.POST("", storeHandler.CreateStore)
			stores.GET("/search", storeHandler.SearchStores)
			stores.POST("/seed", storeHandler.SeedStores)
			stores.GET("/:id", storeHandler.GetStore)
			stores.PATCH("/:id", storeHandler.UpdateStore)
			stores.DELETE("/:id", storeHandler.DeleteStore)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/summary", analyticsHandler.GetSummary)
			analytics.GET("/by-store", analyticsHandler.GetByStore)
			analytics.GET("/by-category", analyticsHandler.GetByCategory)
			analytics.GET("/best-shopping-days", analyticsHandler.GetBestShoppingDays)
			analytics.GET("/inventory-aging", analyticsHandler.GetInventoryAging)
			analytics.GET("/top-items", analyticsHandler.GetTopItems)
			analytics.GET("/value-history", analyticsHandler.GetValueHistory)
			analytics.POST("/snapshot", analyticsHandler.TakeSnapshot)
		}

		ai := protected.Group("/ai")
		{
			ai.GET("/status", identifyHandler.Status)
			ai.POST("/identify", identifyHandler.Identify)
			ai.POST("/quick-value", identifyHandler.QuickValue)
			ai.POST("/scan-shelf", identifyHandler.ScanShelf)
			ai.GET("/ebay-search", identifyHandler.EbaySearch)
		}
	}

	return router
}

// metricsMiddleware records request counts and latency per route template.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
