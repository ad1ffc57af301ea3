package models

import "time"

// Layer is the stored metadata for one uploaded layer.
// Maps to: <id>.meta.json artifact
type Layer struct {
	// Opaque identifier, generated at creation, never reused
	ID string `json:"id"`

	// Display name, user-supplied or derived from the uploaded filename
	Name string `json:"name"`

	// Optional free-form description
	Description *string `json:"description"`

	// Count of features in the stored collection
	FeatureCount int `json:"feature_count"`

	// Geometry type of the first feature, null when the collection is empty
	GeometryType *string `json:"geometry_type"`

	// Bounding box [minX, minY, maxX, maxY], null when no coordinates exist
	Bounds []float64 `json:"bounds"`

	// Audit fields
	CreatedAt time.Time `json:"created_at"`
	FileSize  int64     `json:"file_size"`
}

// LayerListResponse is the response body for layer listing
type LayerListResponse struct {
	Layers []*Layer `json:"layers"`
	Total  int      `json:"total"`
}

// UploadResponse is the response body for a successful upload
type UploadResponse struct {
	Success      bool   `json:"success"`
	LayerID      string `json:"layer_id"`
	Name         string `json:"name"`
	FeatureCount int    `json:"feature_count"`
	Message      string `json:"message"`
}

// DeleteResponse acknowledges a layer deletion
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is the response body for the health check
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
