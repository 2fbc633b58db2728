package utils

import (
	"encoding/json"
	"fmt"
)

// GeoJSON geometry validation for the registry features. The storage layer
// hands geometry to ST_GeomFromGeoJSON, which accepts some malformed inputs
// and fails obscurely on others, so structural rules are checked here first:
// known type, coordinate arity and ranges, minimum point counts, and polygon
// ring closure.

var geometryTypes = map[string]bool{
	"Point":      true,
	"LineString": true,
	"Polygon":    true,
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ValidateGeoJSON checks raw against the structural rules for Point,
// LineString and Polygon geometries. A nil/empty input is valid (geometry
// is optional on every registry entity).
func ValidateGeoJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}

	var g geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return fmt.Errorf("malformed geometry JSON: %v", err)
	}
	if !geometryTypes[g.Type] {
		return fmt.Errorf("unsupported geometry type: %q", g.Type)
	}
	if len(g.Coordinates) == 0 {
		return fmt.Errorf("geometry has no coordinates")
	}

	switch g.Type {
	case "Point":
		var pos []float64
		if err := json.Unmarshal(g.Coordinates, &pos); err != nil {
			return fmt.Errorf("malformed Point coordinates: %v", err)
		}
		return validatePosition(pos)
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(g.Coordinates, &line); err != nil {
			return fmt.Errorf("malformed LineString coordinates: %v", err)
		}
		return validateLine(line)
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return fmt.Errorf("malformed Polygon coordinates: %v", err)
		}
		if len(rings) == 0 {
			return fmt.Errorf("polygon has no rings")
		}
		for i, ring := range rings {
			if err := validateRing(ring); err != nil {
				return fmt.Errorf("polygon ring %d: %v", i, err)
			}
		}
	}
	return nil
}

func validatePosition(pos []float64) error {
	if len(pos) < 2 || len(pos) > 3 {
		return fmt.Errorf("position must have 2 or 3 elements, got %d", len(pos))
	}
	lng, lat := pos[0], pos[1]
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range", lng)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range", lat)
	}
	return nil
}

func validateLine(line [][]float64) error {
	if len(line) < 2 {
		return fmt.Errorf("linestring needs at least 2 positions, got %d", len(line))
	}
	for i, pos := range line {
		if err := validatePosition(pos); err != nil {
			return fmt.Errorf("position %d: %v", i, err)
		}
	}
	return nil
}

func validateRing(ring [][]float64) error {
	if len(ring) < 4 {
		return fmt.Errorf("ring needs at least 4 positions, got %d", len(ring))
	}
	for i, pos := range ring {
		if err := validatePosition(pos); err != nil {
			return fmt.Errorf("position %d: %v", i, err)
		}
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		return fmt.Errorf("ring is not closed")
	}
	return nil
}
