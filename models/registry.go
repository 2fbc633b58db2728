package models

import (
	"encoding/json"
	"fmt"
)

// The transportation registries (roads, parking facilities, petrol pumps,
// public transport) are open-ended entity catalogs, unlike the bounded
// categorical tallies: they carry slugs, free-text searchable fields,
// geometry and media, and their list endpoints paginate.

// ViewType controls how much data a list call projects. Map views include
// geometry; table views omit geometry and long text.
const (
	ViewTable = "table"
	ViewGrid  = "grid"
	ViewMap   = "map"
)

func ValidViewType(v string) bool {
	return v == ViewTable || v == ViewGrid || v == ViewMap
}

// Road types, pavement conditions and the other registry enumerations are
// closed sets like the statistic categories.
var RoadTypes = []string{"HIGHWAY", "URBAN", "RURAL", "AGRICULTURAL", "OTHER"}

var PavementConditions = []string{"BLACK_TOPPED", "GRAVELED", "EARTHEN", "UNDER_CONSTRUCTION"}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Road is a registered road segment.
type Road struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	Description       string          `json:"description,omitempty"`
	Address           string          `json:"address,omitempty"`
	WardNumber        int             `json:"ward_number"`
	RoadType          string          `json:"road_type"`
	PavementCondition string          `json:"pavement_condition,omitempty"`
	LengthKm          float64         `json:"length_km,omitempty"`
	WidthM            float64         `json:"width_m,omitempty"`
	HasStreetLights   bool            `json:"has_street_lights"`
	HasDrainage       bool            `json:"has_drainage"`
	Geometry          json.RawMessage `json:"geometry,omitempty"`
	Media             []Media         `json:"media,omitempty"`
}

// ParkingFacility is a registered parking area.
type ParkingFacility struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description,omitempty"`
	Address         string          `json:"address,omitempty"`
	WardNumber      int             `json:"ward_number"`
	VehicleCapacity int             `json:"vehicle_capacity,omitempty"`
	HasFee          bool            `json:"has_fee"`
	HasRoof         bool            `json:"has_roof"`
	HasSecurity     bool            `json:"has_security"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
	Media           []Media         `json:"media,omitempty"`
}

// PetrolPump is a registered fuel station.
type PetrolPump struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description,omitempty"`
	Address       string          `json:"address,omitempty"`
	WardNumber    int             `json:"ward_number"`
	HasPetrol     bool            `json:"has_petrol"`
	HasDiesel     bool            `json:"has_diesel"`
	HasEVCharging bool            `json:"has_ev_charging"`
	Geometry      json.RawMessage `json:"geometry,omitempty"`
	Media         []Media         `json:"media,omitempty"`
}

// RegistryListParams are the shared list-endpoint parameters: free-text
// search, ward filter, facility-flag filters, projection, pagination, sort.
type RegistryListParams struct {
	Search     string
	WardNumber *int
	Flags      map[string]bool
	ViewType   string
	Page       int
	PageSize   int
	SortBy     string
	SortDesc   bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps pagination and fills projection defaults.
func (p *RegistryListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.ViewType == "" {
		p.ViewType = ViewTable
	}
}

// ListMeta is the pagination envelope returned with registry lists.
type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

func NewListMeta(total, page, pageSize int) ListMeta {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return ListMeta{Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
}

// ValidateRoad checks registry-specific invariants beyond the shared ones.
func ValidateRoad(r Road, wardCount int) error {
	if err := validateRegistryCommon(r.Name, r.WardNumber, wardCount); err != nil {
		return err
	}
	if !contains(RoadTypes, r.RoadType) {
		return fmt.Errorf("unknown road type: %q", r.RoadType)
	}
	if r.PavementCondition != "" && !contains(PavementConditions, r.PavementCondition) {
		return fmt.Errorf("unknown pavement condition: %q", r.PavementCondition)
	}
	if r.LengthKm < 0 || r.WidthM < 0 {
		return fmt.Errorf("road dimensions must not be negative")
	}
	return nil
}

func ValidateParkingFacility(p ParkingFacility, wardCount int) error {
	if err := validateRegistryCommon(p.Name, p.WardNumber, wardCount); err != nil {
		return err
	}
	if p.VehicleCapacity < 0 {
		return fmt.Errorf("vehicle capacity must not be negative")
	}
	return nil
}

func ValidatePetrolPump(p PetrolPump, wardCount int) error {
	return validateRegistryCommon(p.Name, p.WardNumber, wardCount)
}

func validateRegistryCommon(name string, ward, wardCount int) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if ward <= 0 || ward > wardCount {
		return fmt.Errorf("ward number must be in [1, %d], got %d", wardCount, ward)
	}
	return nil
}
