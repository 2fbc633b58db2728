package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"palika_profile/config"
	"palika_profile/middleware"
	"palika_profile/models"
	"palika_profile/seo"
	"palika_profile/utils"
)

// Handlers for the Postgres-backed transportation registries: roads,
// parking facilities and petrol pumps. These are open-ended catalogs, so
// the list endpoints carry search, facility filters, projection selection,
// pagination and sorting; entities have slugs, geometry and media.

// parseRegistryListParams reads the shared list query parameters. flagKeys
// whitelists the boolean facility filters a registry understands.
func parseRegistryListParams(r *http.Request, flagKeys []string) (models.RegistryListParams, string) {
	q := r.URL.Query()
	params := models.RegistryListParams{
		Search:   q.Get("q"),
		ViewType: q.Get("view"),
		SortBy:   q.Get("sort"),
		SortDesc: q.Get("order") == "desc",
	}

	if params.ViewType != "" && !models.ValidViewType(params.ViewType) {
		return params, "view must be one of table, grid, map"
	}
	if v := q.Get("ward"); v != "" {
		ward, err := strconv.Atoi(v)
		if err != nil || ward <= 0 {
			return params, "ward must be a positive integer"
		}
		params.WardNumber = &ward
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page <= 0 {
			return params, "page must be a positive integer"
		}
		params.Page = page
	}
	if v := q.Get("page_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return params, "page_size must be a positive integer"
		}
		params.PageSize = size
	}

	for _, key := range flagKeys {
		if v := q.Get(key); v != "" {
			value, err := strconv.ParseBool(v)
			if err != nil {
				return params, key + " must be true or false"
			}
			if params.Flags == nil {
				params.Flags = make(map[string]bool)
			}
			params.Flags[key] = value
		}
	}
	return params, ""
}

// registryListCacheKey keys a cacheable list response, or returns "" when
// the response must not be cached: grid and map views embed signed media
// URLs that expire before the cache entry would.
func registryListCacheKey(section string, r *http.Request, params models.RegistryListParams) string {
	if params.ViewType != "" && params.ViewType != models.ViewTable {
		return ""
	}
	return config.GetCacheKey("list", section, r.URL.RawQuery)
}

func decodeGeometry(raw json.RawMessage, w http.ResponseWriter) bool {
	if err := utils.ValidateGeoJSON(raw); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return false
	}
	return true
}

// --- Roads ---

func ListRoads(w http.ResponseWriter, r *http.Request) {
	params, problem := parseRegistryListParams(r, []string{"has_street_lights", "has_drainage"})
	if problem != "" {
		respondError(w, CodeBadRequest, problem)
		return
	}

	cacheKey := registryListCacheKey("roads", r, params)
	if cacheKey != "" {
		if cached, found := config.RegistryCache.Get(cacheKey); found {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	roads, meta, err := roadsRepo.List(r.Context(), params)
	if err != nil {
		respondRepoError(w, "ListRoads", err)
		return
	}
	if roads == nil {
		roads = []models.Road{}
	}

	payload := map[string]interface{}{"success": true, "data": roads, "meta": meta}
	if cacheKey != "" {
		config.RegistryCache.SetDefault(cacheKey, payload)
	}
	respondJSON(w, http.StatusOK, payload)
}

func GetRoad(w http.ResponseWriter, r *http.Request) {
	road, err := roadsRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondRepoError(w, "GetRoad", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": road})
}

func GetRoadBySlug(w http.ResponseWriter, r *http.Request) {
	road, err := roadsRepo.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondRepoError(w, "GetRoadBySlug", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       road,
		"structured": seo.RegistryPlace(config.BaseURL(), "roads", road.Slug, road.Name, road.Description, road.Address, road.Media),
	})
}

func CreateRoad(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionCreate, "roads") {
		return
	}

	var road models.Road
	if err := json.NewDecoder(r.Body).Decode(&road); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	if err := models.ValidateRoad(road, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}
	if !decodeGeometry(road.Geometry, w) {
		return
	}

	created, err := roadsRepo.Create(r.Context(), road)
	if err != nil {
		respondRepoError(w, "CreateRoad", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": created.ID, "slug": created.Slug})
}

func UpdateRoad(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionUpdate, "roads") {
		return
	}

	var road models.Road
	if err := json.NewDecoder(r.Body).Decode(&road); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	road.ID = mux.Vars(r)["id"]
	if road.ID == "" {
		respondError(w, CodeBadRequest, "id is required")
		return
	}
	if err := models.ValidateRoad(road, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}
	if !decodeGeometry(road.Geometry, w) {
		return
	}

	updated, err := roadsRepo.Update(r.Context(), road)
	if err != nil {
		respondRepoError(w, "UpdateRoad", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "slug": updated.Slug})
}

func DeleteRoad(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionDelete, "roads") {
		return
	}

	if err := roadsRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondRepoError(w, "DeleteRoad", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func UploadRoadMedia(w http.ResponseWriter, r *http.Request) {
	uploadEntityMedia(w, r, "roads", func() error {
		_, err := roadsRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		return err
	}, roadsRepo.Media())
}

// --- Parking facilities ---

func ListParkingFacilities(w http.ResponseWriter, r *http.Request) {
	params, problem := parseRegistryListParams(r, []string{"has_fee", "has_roof", "has_security"})
	if problem != "" {
		respondError(w, CodeBadRequest, problem)
		return
	}

	cacheKey := registryListCacheKey("parking-facilities", r, params)
	if cacheKey != "" {
		if cached, found := config.RegistryCache.Get(cacheKey); found {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	facilities, meta, err := parkingRepo.List(r.Context(), params)
	if err != nil {
		respondRepoError(w, "ListParkingFacilities", err)
		return
	}
	if facilities == nil {
		facilities = []models.ParkingFacility{}
	}

	payload := map[string]interface{}{"success": true, "data": facilities, "meta": meta}
	if cacheKey != "" {
		config.RegistryCache.SetDefault(cacheKey, payload)
	}
	respondJSON(w, http.StatusOK, payload)
}

func GetParkingFacility(w http.ResponseWriter, r *http.Request) {
	facility, err := parkingRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondRepoError(w, "GetParkingFacility", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": facility})
}

func GetParkingFacilityBySlug(w http.ResponseWriter, r *http.Request) {
	facility, err := parkingRepo.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondRepoError(w, "GetParkingFacilityBySlug", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       facility,
		"structured": seo.RegistryPlace(config.BaseURL(), "parking-facilities", facility.Slug, facility.Name, facility.Description, facility.Address, facility.Media),
	})
}

func CreateParkingFacility(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionCreate, "parking-facilities") {
		return
	}

	var facility models.ParkingFacility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	if err := models.ValidateParkingFacility(facility, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}
	if !decodeGeometry(facility.Geometry, w) {
		return
	}

	created, err := parkingRepo.Create(r.Context(), facility)
	if err != nil {
		respondRepoError(w, "CreateParkingFacility", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": created.ID, "slug": created.Slug})
}

func UpdateParkingFacility(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionUpdate, "parking-facilities") {
		return
	}

	var facility models.ParkingFacility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	facility.ID = mux.Vars(r)["id"]
	if facility.ID == "" {
		respondError(w, CodeBadRequest, "id is required")
		return
	}
	if err := models.ValidateParkingFacility(facility, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}
	if !decodeGeometry(facility.Geometry, w) {
		return
	}

	updated, err := parkingRepo.Update(r.Context(), facility)
	if err != nil {
		respondRepoError(w, "UpdateParkingFacility", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "slug": updated.Slug})
}

func DeleteParkingFacility(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionDelete, "parking-facilities") {
		return
	}

	if err := parkingRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondRepoError(w, "DeleteParkingFacility", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func UploadParkingFacilityMedia(w http.ResponseWriter, r *http.Request) {
	uploadEntityMedia(w, r, "parking-facilities", func() error {
		_, err := parkingRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		return err
	}, parkingRepo.Media())
}

// --- Petrol pumps ---

func ListPetrolPumps(w http.ResponseWriter, r *http.Request) {
	params, problem := parseRegistryListParams(r, []string{"has_petrol", "has_diesel", "has_ev_charging"})
	if problem != "" {
		respondError(w, CodeBadRequest, problem)
		return
	}

	cacheKey := registryListCacheKey("petrol-pumps", r, params)
	if cacheKey != "" {
		if cached, found := config.RegistryCache.Get(cacheKey); found {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	pumps, meta, err := petrolPumpsRepo.List(r.Context(), params)
	if err != nil {
		respondRepoError(w, "ListPetrolPumps", err)
		return
	}
	if pumps == nil {
		pumps = []models.PetrolPump{}
	}

	payload := map[string]interface{}{"success": true, "data": pumps, "meta": meta}
	if cacheKey != "" {
		config.RegistryCache.SetDefault(cacheKey, payload)
	}
	respondJSON(w, http.StatusOK, payload)
}

func GetPetrolPump(w http.ResponseWriter, r *http.Request) {
	pump, err := petrolPumpsRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondRepoError(w, "GetPetrolPump", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": pump})
}

func GetPetrolPumpBySlug(w http.ResponseWriter, r *http.Request) {
	pump, err := petrolPumpsRepo.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondRepoError(w, "GetPetrolPumpBySlug", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       pump,
		"structured": seo.RegistryPlace(config.BaseURL(), "petrol-pumps", pump.Slug, pump.Name, pump.Description, pump.Address, pump.Media),
	})
}

func CreatePetrolPump(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionCreate, "petrol-pumps") {
		return
	}

	var pump models.PetrolPump
	if err := json.NewDecoder(r.Body).Decode(&pump); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	if err := models.ValidatePetrolPump(pump, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}
	if !decodeGeometry(pump.Geometry, w) {
		return
	}

	created, err := petrolPumpsRepo.Create(r.Context(), pump)
	if err != nil {
		respondRepoError(w, "CreatePetrolPump", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": created.ID, "slug": created.Slug})
}

func UpdatePetrolPump(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionUpdate, "petrol-pumps") {
		return
	}

	var pump models.PetrolPump
	if err := json.NewDecoder(r.Body).Decode(&pump); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	pump.ID = mux.Vars(r)["id"]
	if pump.ID == "" {
		respondError(w, CodeBadRequest, "id is required")
		return
	}
	if err := models.ValidatePetrolPump(pump, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}
	if !decodeGeometry(pump.Geometry, w) {
		return
	}

	updated, err := petrolPumpsRepo.Update(r.Context(), pump)
	if err != nil {
		respondRepoError(w, "UpdatePetrolPump", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "slug": updated.Slug})
}

func DeletePetrolPump(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionDelete, "petrol-pumps") {
		return
	}

	if err := petrolPumpsRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondRepoError(w, "DeletePetrolPump", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func UploadPetrolPumpMedia(w http.ResponseWriter, r *http.Request) {
	uploadEntityMedia(w, r, "petrol-pumps", func() error {
		_, err := petrolPumpsRepo.GetByID(r.Context(), mux.Vars(r)["id"])
		return err
	}, petrolPumpsRepo.Media())
}
