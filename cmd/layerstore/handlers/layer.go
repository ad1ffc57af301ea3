package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/urbanmap/layerstore/cmd/layerstore/models"
	"github.com/urbanmap/layerstore/cmd/layerstore/repository"
	"github.com/urbanmap/layerstore/cmd/layerstore/service"
	"github.com/urbanmap/layerstore/common/bootstrap"
	"github.com/urbanmap/layerstore/common/geojson"
)

// LayerHandler handles layer-related operations
type LayerHandler struct {
	components *bootstrap.Components
	layerSvc   *service.LayerService
}

// NewLayerHandler creates a new layer handler
func NewLayerHandler(components *bootstrap.Components, layerSvc *service.LayerService) *LayerHandler {
	return &LayerHandler{
		components: components,
		layerSvc:   layerSvc,
	}
}

// ListLayers lists every stored layer's metadata
// GET /layers
func (h *LayerHandler) ListLayers(c echo.Context) error {
	layers, err := h.layerSvc.List(c.Request().Context())
	if err != nil {
		h.components.Logger.Error("failed to list layers", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list layers")
	}

	return c.JSON(http.StatusOK, models.LayerListResponse{
		Layers: layers,
		Total:  len(layers),
	})
}

// GetLayer retrieves a layer's metadata by ID
// GET /layers/:id
func (h *LayerHandler) GetLayer(c echo.Context) error {
	layerID := c.Param("id")

	layer, err := h.layerSvc.Get(c.Request().Context(), layerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("layer %s not found", layerID))
		}
		h.components.Logger.Error("failed to get layer", "layer_id", layerID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get layer")
	}

	return c.JSON(http.StatusOK, layer)
}

// GetLayerData retrieves a layer's raw GeoJSON by ID
// GET /layers/:id/geojson
func (h *LayerHandler) GetLayerData(c echo.Context) error {
	layerID := c.Param("id")

	raw, err := h.layerSvc.GetData(c.Request().Context(), layerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("layer %s not found", layerID))
		}
		h.components.Logger.Error("failed to get layer data", "layer_id", layerID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get layer data")
	}

	return c.JSONBlob(http.StatusOK, raw)
}

// UploadLayer stores an uploaded GeoJSON file as a new layer
// POST /layers/upload
func (h *LayerHandler) UploadLayer(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.components.Logger.Error("failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		h.components.Logger.Error("failed to read uploaded file", "filename", fileHeader.Filename, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	layer, err := h.layerSvc.Upload(
		c.Request().Context(),
		fileHeader.Filename,
		c.FormValue("name"),
		c.FormValue("description"),
		content,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFile):
			return echo.NewHTTPError(http.StatusBadRequest, "file must be .geojson or .json")
		case errors.Is(err, geojson.ErrInvalidJSON):
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		case errors.Is(err, geojson.ErrInvalidShape):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid GeoJSON: must be FeatureCollection, Feature, or Geometry")
		}
		h.components.Logger.Error("upload failed", "filename", fileHeader.Filename, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "upload failed")
	}

	return c.JSON(http.StatusOK, models.UploadResponse{
		Success:      true,
		LayerID:      layer.ID,
		Name:         layer.Name,
		FeatureCount: layer.FeatureCount,
		Message:      fmt.Sprintf("Layer '%s' uploaded successfully", layer.Name),
	})
}

// DeleteLayer removes a layer's artifacts
// DELETE /layers/:id
func (h *LayerHandler) DeleteLayer(c echo.Context) error {
	layerID := c.Param("id")

	if err := h.layerSvc.Delete(c.Request().Context(), layerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("layer %s not found", layerID))
		}
		h.components.Logger.Error("failed to delete layer", "layer_id", layerID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete layer")
	}

	return c.JSON(http.StatusOK, models.DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Layer %s deleted", layerID),
	})
}
