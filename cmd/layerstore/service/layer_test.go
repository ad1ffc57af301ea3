package service

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanmap/layerstore/cmd/layerstore/repository"
	"github.com/urbanmap/layerstore/common/geojson"
	"github.com/urbanmap/layerstore/common/logger"
)

func newTestService(t *testing.T) *LayerService {
	t.Helper()
	log := logger.New("error", "json")
	repo, err := repository.NewLayerRepository(afero.NewMemMapFs(), "data/layers", log)
	require.NoError(t, err)
	return NewLayerService(repo, log)
}

func TestUpload_BareGeometry(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	layer, err := svc.Upload(ctx, "point.geojson", "", "", []byte(`{"type":"Point","coordinates":[10,20]}`))
	require.NoError(t, err)

	assert.Equal(t, 1, layer.FeatureCount)
	require.NotNil(t, layer.GeometryType)
	assert.Equal(t, "Point", *layer.GeometryType)
	assert.Equal(t, []float64{10, 20, 10, 20}, layer.Bounds)
}

func TestUpload_NameFromFilename(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	layer, err := svc.Upload(ctx, "downtown_parcels.geojson", "", "", []byte(`{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "downtown_parcels", layer.Name)

	layer, err = svc.Upload(ctx, "parks.json", "City Parks", "green space", []byte(`{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "City Parks", layer.Name)
	require.NotNil(t, layer.Description)
	assert.Equal(t, "green space", *layer.Description)
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, filename := range []string{"layer.shp", "layer.kml", "layer", "layer.GEOJSON"} {
		_, err := svc.Upload(ctx, filename, "", "", []byte(`{"type":"FeatureCollection","features":[]}`))
		assert.ErrorIs(t, err, ErrUnsupportedFile, "filename %q", filename)
	}

	// Nothing was stored
	layers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestUpload_InvalidInputCreatesNothing(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Upload(ctx, "bad.geojson", "", "", []byte(`{not json`))
	assert.ErrorIs(t, err, geojson.ErrInvalidJSON)

	_, err = svc.Upload(ctx, "bad.geojson", "", "", []byte(`{"zone": "R1"}`))
	assert.ErrorIs(t, err, geojson.ErrInvalidShape)

	layers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestDelete_UnknownLayer(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	err := svc.Delete(ctx, "deadbeef")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUploadGetDeleteCycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	layer, err := svc.Upload(ctx, "ring.geojson", "", "", []byte(`{"type":"Polygon","coordinates":[[[0,0],[0,5],[5,5],[5,0],[0,0]]]}`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 5, 5}, layer.Bounds)

	fetched, err := svc.Get(ctx, layer.ID)
	require.NoError(t, err)
	assert.Equal(t, layer.ID, fetched.ID)

	require.NoError(t, svc.Delete(ctx, layer.ID))

	_, err = svc.Get(ctx, layer.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
