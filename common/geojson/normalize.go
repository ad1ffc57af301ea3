package geojson

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSON means the input bytes are not parseable JSON text
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidShape means the parsed value is not a recognizable
	// FeatureCollection, Feature, or geometry
	ErrInvalidShape = errors.New("not a FeatureCollection, Feature, or geometry")
)

// Normalize parses raw bytes and coerces them into a canonical
// FeatureCollection. Feature sources in the wild commonly hand back a bare
// geometry or a single feature rather than a collection, so:
//
//   - a FeatureCollection passes through unchanged (extra top-level keys
//     such as crs or bbox are preserved),
//   - a Feature is wrapped as a one-feature collection,
//   - anything carrying a "coordinates" key is treated as a bare geometry
//     and wrapped as a one-feature collection with empty properties.
//
// The "coordinates" check deliberately ignores the "type" field: sources
// that emit a wrong or missing geometry type are still accepted as long as
// the coordinates are there.
func Normalize(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	value, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrInvalidShape
	}

	switch value["type"] {
	case "FeatureCollection":
		return value, nil
	case "Feature":
		return map[string]any{
			"type":     "FeatureCollection",
			"features": []any{value},
		}, nil
	}

	if _, ok := value["coordinates"]; ok {
		return map[string]any{
			"type": "FeatureCollection",
			"features": []any{
				map[string]any{
					"type":       "Feature",
					"geometry":   value,
					"properties": map[string]any{},
				},
			},
		}, nil
	}

	return nil, ErrInvalidShape
}

// Features extracts the feature list from a canonical collection.
// A missing or malformed "features" entry yields an empty list.
func Features(collection map[string]any) []any {
	features, _ := collection["features"].([]any)
	return features
}

// GeometryType returns the geometry type of the first feature, or ""
// when the collection is empty or the first feature has no typed geometry.
func GeometryType(features []any) string {
	if len(features) == 0 {
		return ""
	}
	feature, ok := features[0].(map[string]any)
	if !ok {
		return ""
	}
	geom, ok := feature["geometry"].(map[string]any)
	if !ok {
		return ""
	}
	geomType, _ := geom["type"].(string)
	return geomType
}
