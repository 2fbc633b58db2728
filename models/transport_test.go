package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTransportRoute(t *testing.T) {
	route := TransportRoute{
		Name:        "Bazaar - Hospital",
		VehicleType: "BUS",
		WardNumbers: []int{1, 2, 3},
		Stops: []TransportStop{
			{StopName: "Bazaar", Lat: 27.7, Lng: 86.5},
			{StopName: "Hospital", Lat: 27.71, Lng: 86.52},
		},
	}
	assert.NoError(t, ValidateTransportRoute(route, 12))

	bad := route
	bad.Name = ""
	assert.Error(t, ValidateTransportRoute(bad, 12))

	bad = route
	bad.VehicleType = "TRAIN"
	assert.Error(t, ValidateTransportRoute(bad, 12))

	bad = route
	bad.WardNumbers = []int{1, 13}
	assert.Error(t, ValidateTransportRoute(bad, 12))

	bad = route
	bad.Stops = []TransportStop{{StopName: "Nowhere", Lat: 91, Lng: 0}}
	assert.Error(t, ValidateTransportRoute(bad, 12))
}
