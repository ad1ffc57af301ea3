package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/urbanmap/layerstore/cmd/layerstore/handlers"
)

// RegisterLayerRoutes registers layer-related routes
func RegisterLayerRoutes(e *echo.Echo, handler *handlers.LayerHandler) {
	e.GET("/layers", handler.ListLayers)
	e.POST("/layers/upload", handler.UploadLayer)
	e.GET("/layers/:id", handler.GetLayer)
	e.GET("/layers/:id/geojson", handler.GetLayerData)
	e.DELETE("/layers/:id", handler.DeleteLayer)
}
