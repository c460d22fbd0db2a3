package handlers

import (
	"errors"
	"net/http"

	"kirana-price-api/pkg/models"
	"kirana-price-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// PriceHandler exposes the price-recommendation engine over HTTP.
type PriceHandler struct {
	predictor *services.PricePredictorService
}

// NewPriceHandler creates a price handler over the given catalog.
func NewPriceHandler(catalog *services.CatalogService) *PriceHandler {
	return &PriceHandler{
		predictor: services.NewPricePredictorService(catalog),
	}
}

// GetPredictor returns the predictor service behind this handler.
func (h *PriceHandler) GetPredictor() *services.PricePredictorService {
	return h.predictor
}

// PredictPrice runs the full prediction-and-policy call and returns the
// recommended MRP and final selling price.
func (h *PriceHandler) PredictPrice(c *gin.Context) {
	var query models.PriceQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product name and category are required",
		})
		return
	}

	prediction, err := h.predictor.Predict(query)
	if err != nil {
		h.renderPredictError(c, err)
		return
	}

	finalPrice := h.predictor.ApplyPricingRule(prediction.PredictedSalePrice, prediction.PredictedMRP)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"mrp":          prediction.PredictedMRP,
		"sellingPrice": finalPrice,
	})
}

// PredictPriceDetail returns the raw predictor output before the
// pricing rule is applied, for diagnostics.
func (h *PriceHandler) PredictPriceDetail(c *gin.Context) {
	var query models.PriceQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product name and category are required",
		})
		return
	}

	prediction, err := h.predictor.Predict(query)
	if err != nil {
		h.renderPredictError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prediction,
	})
}

// renderPredictError maps engine errors onto HTTP statuses.
func (h *PriceHandler) renderPredictError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidQuery):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product name and category are required",
		})
	case errors.Is(err, services.ErrCatalogNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Reference catalog is not ready yet",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to predict price",
			"message": err.Error(),
		})
	}
}

// GetDatasetInfo returns totals and readiness for the loaded catalog.
func (h *PriceHandler) GetDatasetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataset": h.predictor.GetCatalog().Info(),
	})
}

// GetCategoryStats returns the full per-category stats map.
func (h *PriceHandler) GetCategoryStats(c *gin.Context) {
	catalog := h.predictor.GetCatalog()
	if !catalog.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Reference catalog is not ready yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"categoryStats": catalog.AllCategoryStats(),
	})
}

// GetBrandStats returns the full per-brand stats map.
func (h *PriceHandler) GetBrandStats(c *gin.Context) {
	catalog := h.predictor.GetCatalog()
	if !catalog.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Reference catalog is not ready yet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"brandStats": catalog.AllBrandStats(),
	})
}
