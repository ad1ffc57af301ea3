package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/urbanmap/layerstore/cmd/layerstore/models"
	"github.com/urbanmap/layerstore/common/geojson"
	"github.com/urbanmap/layerstore/common/logger"
)

// ErrNotFound means the identifier has no stored layer
var ErrNotFound = errors.New("layer not found")

// LayerRepository persists layers as two files per record in a single
// directory: <id>.geojson holds the raw collection bytes, <id>.meta.json
// holds the derived metadata. No in-memory index is kept; List and Get
// always hit the filesystem, so external changes to the directory are
// visible on the next call.
type LayerRepository struct {
	fs  afero.Fs
	dir string
	log *logger.Logger
}

// NewLayerRepository creates a layer repository rooted at dir,
// creating the directory if needed
func NewLayerRepository(fs afero.Fs, dir string, log *logger.Logger) (*LayerRepository, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create layers directory: %w", err)
	}

	return &LayerRepository{
		fs:  fs,
		dir: dir,
		log: log,
	}, nil
}

// Create writes the raw collection and its derived metadata, returning the
// full layer record. If the metadata write fails, any artifact already
// written is removed best-effort so no partial record stays visible.
func (r *LayerRepository) Create(ctx context.Context, name string, description *string, collection map[string]any) (*models.Layer, error) {
	id := generateID()

	raw, err := json.Marshal(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}

	if err := afero.WriteFile(r.fs, r.dataPath(id), raw, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write layer data: %w", err)
	}

	info, err := r.fs.Stat(r.dataPath(id))
	if err != nil {
		r.rollback(id)
		return nil, fmt.Errorf("failed to stat layer data: %w", err)
	}

	features := geojson.Features(collection)

	var geometryType *string
	if gt := geojson.GeometryType(features); gt != "" {
		geometryType = &gt
	}

	bounds, _ := geojson.Bounds(features)

	layer := &models.Layer{
		ID:           id,
		Name:         name,
		Description:  description,
		FeatureCount: len(features),
		GeometryType: geometryType,
		Bounds:       bounds,
		CreatedAt:    time.Now(),
		FileSize:     info.Size(),
	}

	meta, err := json.MarshalIndent(layer, "", "  ")
	if err != nil {
		r.rollback(id)
		return nil, fmt.Errorf("failed to encode layer metadata: %w", err)
	}

	if err := afero.WriteFile(r.fs, r.metaPath(id), meta, 0o644); err != nil {
		r.rollback(id)
		return nil, fmt.Errorf("failed to write layer metadata: %w", err)
	}

	return layer, nil
}

// Get reads the metadata artifact only
func (r *LayerRepository) Get(ctx context.Context, id string) (*models.Layer, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	exists, err := afero.Exists(r.fs, r.metaPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to check layer metadata: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	meta, err := afero.ReadFile(r.fs, r.metaPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read layer metadata: %w", err)
	}

	layer := &models.Layer{}
	if err := json.Unmarshal(meta, layer); err != nil {
		return nil, fmt.Errorf("failed to decode layer metadata: %w", err)
	}

	return layer, nil
}

// GetData reads the raw collection artifact only
func (r *LayerRepository) GetData(ctx context.Context, id string) ([]byte, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	exists, err := afero.Exists(r.fs, r.dataPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to check layer data: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	raw, err := afero.ReadFile(r.fs, r.dataPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read layer data: %w", err)
	}

	return raw, nil
}

// List enumerates every stored layer's metadata, most recent first.
// Entries that cannot be read or decoded are skipped with a warning.
func (r *LayerRepository) List(ctx context.Context) ([]*models.Layer, error) {
	matches, err := afero.Glob(r.fs, filepath.Join(r.dir, "*.meta.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list layers: %w", err)
	}

	layers := make([]*models.Layer, 0, len(matches))
	for _, path := range matches {
		meta, err := afero.ReadFile(r.fs, path)
		if err != nil {
			r.log.Warn("skipping unreadable layer metadata", "path", path, "error", err)
			continue
		}

		layer := &models.Layer{}
		if err := json.Unmarshal(meta, layer); err != nil {
			r.log.Warn("skipping malformed layer metadata", "path", path, "error", err)
			continue
		}

		layers = append(layers, layer)
	}

	// Most recent first; stable so equal timestamps keep glob order
	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].CreatedAt.After(layers[j].CreatedAt)
	})

	return layers, nil
}

// Delete removes both artifacts if present and reports whether anything was
// removed. Each file is removed independently; a missing data file does not
// block removal of the metadata file, and vice versa.
func (r *LayerRepository) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	deleted := false
	for _, path := range []string{r.dataPath(id), r.metaPath(id)} {
		exists, err := afero.Exists(r.fs, path)
		if err != nil {
			return deleted, fmt.Errorf("failed to check layer artifact: %w", err)
		}
		if !exists {
			continue
		}
		if err := r.fs.Remove(path); err != nil {
			return deleted, fmt.Errorf("failed to remove layer artifact: %w", err)
		}
		deleted = true
	}

	return deleted, nil
}

// rollback removes any artifact written for a failed create, best-effort.
// Failures here are logged, not escalated.
func (r *LayerRepository) rollback(id string) {
	for _, path := range []string{r.dataPath(id), r.metaPath(id)} {
		if exists, _ := afero.Exists(r.fs, path); exists {
			if err := r.fs.Remove(path); err != nil {
				r.log.Warn("failed to roll back layer artifact", "path", path, "error", err)
			}
		}
	}
}

func (r *LayerRepository) dataPath(id string) string {
	return filepath.Join(r.dir, id+".geojson")
}

func (r *LayerRepository) metaPath(id string) string {
	return filepath.Join(r.dir, id+".meta.json")
}

// generateID returns the first 8 characters of a random v4 UUID, which is
// collision-free enough for expected layer volumes
func generateID() string {
	return uuid.NewString()[:8]
}

// validID rejects identifiers that could escape the layers directory when
// joined into an artifact path
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, "./\\")
}
