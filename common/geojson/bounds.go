package geojson

import "math"

// Bounds computes the bounding box [minX, minY, maxX, maxY] over every
// coordinate pair found in the given features. The second return value is
// false when no coordinate pair exists anywhere in the collection.
//
// Coordinate arrays nest to different depths depending on geometry type
// (Point = pair, Polygon = rings of pairs, MultiPolygon = polygons of rings
// of pairs), so the fold descends until it hits a node whose first element
// is a number and treats that node as an (x, y) pair. Extra elements beyond
// the first two (altitude etc.) are ignored.
func Bounds(features []any) ([]float64, bool) {
	acc := &bbox{
		minX: math.Inf(1),
		minY: math.Inf(1),
		maxX: math.Inf(-1),
		maxY: math.Inf(-1),
	}

	for _, f := range features {
		feature, ok := f.(map[string]any)
		if !ok {
			continue
		}
		geom, ok := feature["geometry"].(map[string]any)
		if !ok {
			continue
		}
		if coords, ok := geom["coordinates"]; ok {
			foldCoords(coords, acc)
		}
	}

	if math.IsInf(acc.minX, 1) {
		// Nothing folded in
		return nil, false
	}

	return []float64{acc.minX, acc.minY, acc.maxX, acc.maxY}, true
}

type bbox struct {
	minX, minY float64
	maxX, maxY float64
}

// foldCoords recursively descends a coordinate node. A node is a leaf pair
// when its first element is a number; otherwise every child is folded in
// turn. Empty arrays and non-numeric leaves contribute nothing.
func foldCoords(node any, acc *bbox) {
	arr, ok := node.([]any)
	if !ok || len(arr) == 0 {
		return
	}

	if x, ok := arr[0].(float64); ok {
		if len(arr) < 2 {
			return
		}
		y, ok := arr[1].(float64)
		if !ok {
			return
		}
		acc.minX = math.Min(acc.minX, x)
		acc.minY = math.Min(acc.minY, y)
		acc.maxX = math.Max(acc.maxX, x)
		acc.maxY = math.Max(acc.maxY, y)
		return
	}

	for _, child := range arr {
		foldCoords(child, acc)
	}
}
