package main

import (
	"log"
	"net/http"

	config "kirana-price-api/configs"
	"kirana-price-api/pkg/handlers"
	"kirana-price-api/pkg/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.LoadConfig()

	r := gin.Default()

	// Services
	monitoringService := services.NewMonitoringService()
	catalogService := services.NewCatalogService(cfg.DatasetPath)

	// Build the reference catalog in the background. Prediction
	// endpoints answer 503 until the build completes; the engine never
	// loads implicitly on first query.
	go func() {
		if err := catalogService.Build(); err != nil {
			log.Printf("ERROR: Failed to build reference catalog: %v", err)
		}
	}()

	// Handlers
	priceHandler := handlers.NewPriceHandler(catalogService)
	adminHandler := handlers.NewAdminHandler(cfg, catalogService)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Middleware
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.Default())

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

	log.Printf("Starting Kirana Price API server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
