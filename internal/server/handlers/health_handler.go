package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/poultry-api/internal/domain/models"
)

// HealthHandler serves the liveness and landing endpoints.
type HealthHandler struct {
	version string
}

// NewHealthHandler builds a handler reporting the given application version.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health reports that the API is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Message: "Poultry Management API is running",
		Version: h.version,
	})
}

// Root points clients at the documentation and health endpoints.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Poultry Management API",
		"docs":    "/docs",
		"health":  "/health",
	})
}
