package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The MongoDB-backed route CRUD is exercised against a live instance; the
// request validation below never reaches the repository.

func TestGetNearbyTransportStopsValidation(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"missing coordinates", ""},
		{"missing lng", "lat=27.7"},
		{"non-numeric lat", "lat=abc&lng=85.3"},
		{"lat out of range", "lat=95&lng=85.3"},
		{"lng out of range", "lat=27.7&lng=190"},
		{"bad radius", "lat=27.7&lng=85.3&radius_km=0"},
		{"negative radius", "lat=27.7&lng=85.3&radius_km=-2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/v1/public-transport/nearby-stops?"+tc.query, nil)
			GetNearbyTransportStops(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
