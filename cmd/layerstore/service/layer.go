package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urbanmap/layerstore/cmd/layerstore/models"
	"github.com/urbanmap/layerstore/cmd/layerstore/repository"
	"github.com/urbanmap/layerstore/common/geojson"
	"github.com/urbanmap/layerstore/common/logger"
)

// ErrUnsupportedFile means the uploaded filename lacks an accepted extension
var ErrUnsupportedFile = errors.New("file must be .geojson or .json")

// LayerService handles layer ingestion and retrieval
type LayerService struct {
	repo *repository.LayerRepository
	log  *logger.Logger
}

// NewLayerService creates a new layer service
func NewLayerService(repo *repository.LayerRepository, log *logger.Logger) *LayerService {
	return &LayerService{
		repo: repo,
		log:  log,
	}
}

// Upload normalizes uploaded bytes into a canonical FeatureCollection and
// stores it as a new layer. The layer name falls back to the filename minus
// its extension when none is supplied.
func (s *LayerService) Upload(ctx context.Context, filename, name, description string, content []byte) (*models.Layer, error) {
	if !strings.HasSuffix(filename, ".geojson") && !strings.HasSuffix(filename, ".json") {
		return nil, ErrUnsupportedFile
	}

	collection, err := geojson.Normalize(content)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = trimExtension(filename)
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	layer, err := s.repo.Create(ctx, name, desc, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to create layer: %w", err)
	}

	s.log.Info("layer uploaded",
		"layer_id", layer.ID,
		"name", layer.Name,
		"feature_count", layer.FeatureCount,
		"file_size", layer.FileSize,
	)

	return layer, nil
}

// Get retrieves a layer's metadata by ID
func (s *LayerService) Get(ctx context.Context, id string) (*models.Layer, error) {
	return s.repo.Get(ctx, id)
}

// GetData retrieves a layer's raw collection bytes by ID
func (s *LayerService) GetData(ctx context.Context, id string) ([]byte, error) {
	return s.repo.GetData(ctx, id)
}

// List retrieves every layer's metadata, most recent first
func (s *LayerService) List(ctx context.Context) ([]*models.Layer, error) {
	layers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list layers: %w", err)
	}

	return layers, nil
}

// Delete removes a layer. Returns ErrNotFound when nothing was stored
// under the ID.
func (s *LayerService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete layer: %w", err)
	}
	if !deleted {
		return repository.ErrNotFound
	}

	s.log.Info("layer deleted", "layer_id", id)
	return nil
}

// trimExtension strips the final extension from a filename
func trimExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}
