package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGeoJSON(t *testing.T) {
	valid := []struct {
		name string
		raw  string
	}{
		{"point", `{"type":"Point","coordinates":[85.3,27.7]}`},
		{"point with elevation", `{"type":"Point","coordinates":[85.3,27.7,1400]}`},
		{"linestring", `{"type":"LineString","coordinates":[[85.3,27.7],[85.31,27.71]]}`},
		{"polygon", `{"type":"Polygon","coordinates":[[[85.3,27.7],[85.31,27.7],[85.31,27.71],[85.3,27.7]]]}`},
	}
	for _, tc := range valid {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, ValidateGeoJSON(json.RawMessage(tc.raw)))
		})
	}

	invalid := []struct {
		name string
		raw  string
	}{
		{"not json", `{geometry}`},
		{"unsupported type", `{"type":"MultiPolygon","coordinates":[]}`},
		{"missing coordinates", `{"type":"Point"}`},
		{"point with one element", `{"type":"Point","coordinates":[85.3]}`},
		{"longitude out of range", `{"type":"Point","coordinates":[190,27.7]}`},
		{"latitude out of range", `{"type":"Point","coordinates":[85.3,95]}`},
		{"linestring with one position", `{"type":"LineString","coordinates":[[85.3,27.7]]}`},
		{"polygon ring too short", `{"type":"Polygon","coordinates":[[[85.3,27.7],[85.31,27.7],[85.3,27.7]]]}`},
		{"polygon ring not closed", `{"type":"Polygon","coordinates":[[[85.3,27.7],[85.31,27.7],[85.31,27.71],[85.32,27.72]]]}`},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, ValidateGeoJSON(json.RawMessage(tc.raw)))
		})
	}
}

func TestValidateGeoJSONEmptyIsValid(t *testing.T) {
	assert.NoError(t, ValidateGeoJSON(nil))
	assert.NoError(t, ValidateGeoJSON(json.RawMessage{}))
}
