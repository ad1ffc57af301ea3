package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urbanmap/layerstore/cmd/layerstore/models"
)

// Version is the service version reported by the health check
const Version = "1.0.0"

// Health reports service status
// GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
