package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryListParamsNormalize(t *testing.T) {
	p := RegistryListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, ViewTable, p.ViewType)

	p = RegistryListParams{Page: -3, PageSize: 500, ViewType: ViewMap}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, ViewMap, p.ViewType)
}

func TestNewListMeta(t *testing.T) {
	meta := NewListMeta(0, 1, 20)
	assert.Equal(t, 0, meta.TotalPages)

	meta = NewListMeta(20, 1, 20)
	assert.Equal(t, 1, meta.TotalPages)

	meta = NewListMeta(21, 2, 20)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, 21, meta.Total)
	assert.Equal(t, 2, meta.Page)
}

func TestValidateRoad(t *testing.T) {
	road := Road{Name: "Ring Road", WardNumber: 2, RoadType: "URBAN", PavementCondition: "BLACK_TOPPED", LengthKm: 1.2, WidthM: 8}
	assert.NoError(t, ValidateRoad(road, 12))

	bad := road
	bad.Name = ""
	assert.Error(t, ValidateRoad(bad, 12))

	bad = road
	bad.WardNumber = 0
	assert.Error(t, ValidateRoad(bad, 12))

	bad = road
	bad.RoadType = "FLYOVER"
	assert.Error(t, ValidateRoad(bad, 12))

	bad = road
	bad.PavementCondition = "MUDDY"
	assert.Error(t, ValidateRoad(bad, 12))

	bad = road
	bad.LengthKm = -1
	assert.Error(t, ValidateRoad(bad, 12))

	// Pavement condition is optional.
	ok := road
	ok.PavementCondition = ""
	assert.NoError(t, ValidateRoad(ok, 12))
}

func TestValidateParkingFacility(t *testing.T) {
	facility := ParkingFacility{Name: "Bus Park", WardNumber: 1, VehicleCapacity: 40}
	assert.NoError(t, ValidateParkingFacility(facility, 12))

	facility.VehicleCapacity = -1
	assert.Error(t, ValidateParkingFacility(facility, 12))
}

func TestValidatePetrolPump(t *testing.T) {
	pump := PetrolPump{Name: "Koshi Fuel Centre", WardNumber: 6}
	assert.NoError(t, ValidatePetrolPump(pump, 12))

	pump.WardNumber = 13
	assert.Error(t, ValidatePetrolPump(pump, 12))
}

func TestValidViewType(t *testing.T) {
	assert.True(t, ValidViewType(ViewTable))
	assert.True(t, ValidViewType(ViewGrid))
	assert.True(t, ValidViewType(ViewMap))
	assert.False(t, ValidViewType(""))
	assert.False(t, ValidViewType("list"))
}
