package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanmap/layerstore/cmd/layerstore/container"
	"github.com/urbanmap/layerstore/cmd/layerstore/handlers"
	"github.com/urbanmap/layerstore/cmd/layerstore/models"
	"github.com/urbanmap/layerstore/cmd/layerstore/routes"
	"github.com/urbanmap/layerstore/common/bootstrap"
	"github.com/urbanmap/layerstore/common/config"
	"github.com/urbanmap/layerstore/common/logger"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Service: config.ServiceConfig{
			Name:      "layerstore-test",
			Port:      8080,
			LogLevel:  "error",
			LogFormat: "json",
		},
		Storage: config.StorageConfig{
			DataDir: "data/layers",
		},
	}

	components := &bootstrap.Components{
		Config: cfg,
		Logger: logger.New("error", "json"),
		FS:     afero.NewMemMapFs(),
	}

	c, err := container.NewContainer(components)
	require.NoError(t, err, "failed to build container")

	e := echo.New()
	e.HideBanner = true
	e.GET("/health", handlers.Health)
	routes.RegisterLayerRoutes(e, c.LayerHandler)
	return e
}

func uploadRequest(t *testing.T, filename, name, description, content string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fw, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)

	if name != "" {
		require.NoError(t, writer.WriteField("name", name))
	}
	if description != "" {
		require.NoError(t, writer.WriteField("description", description))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/layers/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return req
}

func listTotal(t *testing.T, e *echo.Echo) int {
	t.Helper()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LayerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Layers, resp.Total)
	return resp.Total
}

func TestUploadAndFetchLayer(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "stations.geojson", "", "",
		`{"type":"Point","coordinates":[10,20]}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	assert.True(t, uploaded.Success)
	assert.Equal(t, "stations", uploaded.Name)
	assert.Equal(t, 1, uploaded.FeatureCount)
	require.Len(t, uploaded.LayerID, 8)

	// Metadata endpoint
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers/"+uploaded.LayerID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var layer models.Layer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layer))
	assert.Equal(t, uploaded.LayerID, layer.ID)
	require.NotNil(t, layer.GeometryType)
	assert.Equal(t, "Point", *layer.GeometryType)
	assert.Equal(t, []float64{10, 20, 10, 20}, layer.Bounds)

	// Raw data endpoint returns the stored collection
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers/"+uploaded.LayerID+"/geojson", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var collection map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Equal(t, "FeatureCollection", collection["type"])

	assert.Equal(t, 1, listTotal(t, e))
}

func TestUploadRejectsBadExtension(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "parcels.shp", "", "", `{"type":"FeatureCollection","features":[]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, listTotal(t, e))
}

func TestUploadRejectsInvalidJSON(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "broken.geojson", "", "", `{not json at all`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No record was created
	assert.Equal(t, 0, listTotal(t, e))
}

func TestUploadRejectsUnrecognizableShape(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "table.json", "", "", `{"rows": [1, 2, 3]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, listTotal(t, e))
}

func TestUploadRequiresFile(t *testing.T) {
	e := newTestServer(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/layers/upload", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownLayer(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers/deadbeef", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers/deadbeef/geojson", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/layers/deadbeef", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteLayer(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, uploadRequest(t, "temp.geojson", "", "", `{"type":"Point","coordinates":[0,0]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/layers/"+uploaded.LayerID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted models.DeleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.True(t, deleted.Success)

	// Record is gone
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers/"+uploaded.LayerID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 0, listTotal(t, e))
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	e := newTestServer(t)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, uploadRequest(t, fmt.Sprintf("layer_%d.geojson", i), "", "",
			`{"type":"Point","coordinates":[1,1]}`))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LayerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Total)

	for i := 1; i < len(resp.Layers); i++ {
		assert.False(t, resp.Layers[i].CreatedAt.After(resp.Layers[i-1].CreatedAt),
			"layers must be ordered by created_at descending")
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, handlers.Version, health.Version)
	assert.NotEmpty(t, health.Timestamp)
}
