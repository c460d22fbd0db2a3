package handler

import (
	"log"
	"net/http"
	"sync"

	config "kirana-price-api/configs"
	"kirana-price-api/pkg/handlers"
	"kirana-price-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	app  *gin.Engine
	once sync.Once
)

// setupApp initializes the Gin application. In a serverless
// environment this must not run per request, so it is guarded by
// sync.Once.
func setupApp() *gin.Engine {
	once.Do(func() {
		// Environment variables come from the platform settings here,
		// so godotenv is not called.
		cfg := config.LoadConfig()

		r := gin.Default()

		monitoringService := services.NewMonitoringService()
		catalogService := services.NewCatalogService(cfg.DatasetPath)
		if err := catalogService.Build(); err != nil {
			log.Printf("ERROR: Failed to build reference catalog: %v", err)
		}

		priceHandler := handlers.NewPriceHandler(catalogService)
		adminHandler := handlers.NewAdminHandler(cfg, catalogService)
		monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

		r.Use(monitoringService.LoggingMiddleware())
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowAllOrigins = true
		r.Use(cors.New(corsConfig))

		authMiddleware := func(apiKey string) gin.HandlerFunc {
			return func(c *gin.Context) {
				if apiKey == "" || apiKey == "default_secret_key" {
					c.Next()
					return
				}
				providedKey := c.GetHeader("X-API-KEY")
				if providedKey != apiKey {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
					return
				}
				c.Next()
			}
		}

		r.GET("/health", handlers.HealthCheck)

		v1 := r.Group("/api/v1")
		v1.Use(authMiddleware(cfg.APIKey))
		{
			admin := v1.Group("/admin")
			{
				admin.GET("/health-status", adminHandler.GetHealthStatus)
				admin.POST("/maintenance/start", adminHandler.StartMaintenance)
				admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
				admin.POST("/reload", adminHandler.ReloadCatalog)
			}

			monitoring := v1.Group("/monitoring")
			{
				monitoring.GET("/logs", monitoringHandler.GetLogs)
			}

			price := v1.Group("/price")
			{
				price.POST("/predict", priceHandler.PredictPrice)
				price.POST("/predict/detail", priceHandler.PredictPriceDetail)
				price.GET("/dataset-info", priceHandler.GetDatasetInfo)
				price.GET("/category-stats", priceHandler.GetCategoryStats)
				price.GET("/brand-stats", priceHandler.GetBrandStats)
			}
		}

		app = r
	})
	return app
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	setupApp().ServeHTTP(w, r)
}
