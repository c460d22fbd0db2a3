package handlers

import (
	"net/http"
	"sync/atomic"

	config "kirana-price-api/configs"
	"kirana-price-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// isMaintenanceMode indicates whether the server is in maintenance
// mode. atomic.Bool guarantees thread-safe reads and writes.
var isMaintenanceMode atomic.Bool

// AdminHandler handles administrator operations.
type AdminHandler struct {
	AdminUsername string
	AdminPassword string
	catalog       *services.CatalogService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cfg *config.Config, catalog *services.CatalogService) *AdminHandler {
	return &AdminHandler{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		catalog:       catalog,
	}
}

// AdminCredentials is the request body for administrator endpoints.
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authorize validates the credentials in the request body. It writes
// the error response itself and reports whether the caller may proceed.
func (h *AdminHandler) authorize(c *gin.Context) bool {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return false
	}

	if input.Username != h.AdminUsername || input.Password != h.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return false
	}
	return true
}

// StartMaintenance puts the server into maintenance mode.
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(true)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance takes the server out of maintenance mode.
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(false)
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// ReloadCatalog re-reads the reference dataset and swaps in a fresh
// catalog snapshot. The previous catalog stays live if the load fails.
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	if err := h.catalog.Reload(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload reference catalog",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataset": h.catalog.Info(),
	})
}

// GetHealthStatus returns the current server state.
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isMaintenanceMode": isMaintenanceMode.Load(),
		"catalogReady":      h.catalog.IsReady(),
	})
}

// HealthCheck responds to external health checkers (e.g. a load
// balancer).
func HealthCheck(c *gin.Context) {
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
