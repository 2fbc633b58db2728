package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"palika_profile/config"
	"palika_profile/middleware"
	"palika_profile/models"
	"palika_profile/repository"
	"palika_profile/seo"
)

// Handlers for the public transport route registry. Routes live in MongoDB
// as documents with embedded stops.

func ListTransportRoutes(w http.ResponseWriter, r *http.Request) {
	params, problem := parseRegistryListParams(r, nil)
	if problem != "" {
		respondError(w, CodeBadRequest, problem)
		return
	}

	cacheKey := registryListCacheKey("public-transport", r, params)
	if cacheKey != "" {
		if cached, found := config.RegistryCache.Get(cacheKey); found {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	routes, meta, err := transportRepo.List(r.Context(), params)
	if err != nil {
		respondRepoError(w, "ListTransportRoutes", err)
		return
	}
	if routes == nil {
		routes = []models.TransportRoute{}
	}

	payload := map[string]interface{}{"success": true, "data": routes, "meta": meta}
	if cacheKey != "" {
		config.RegistryCache.SetDefault(cacheKey, payload)
	}
	respondJSON(w, http.StatusOK, payload)
}

func GetTransportRoute(w http.ResponseWriter, r *http.Request) {
	route, err := transportRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondRepoError(w, "GetTransportRoute", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": route})
}

func GetTransportRouteBySlug(w http.ResponseWriter, r *http.Request) {
	route, err := transportRepo.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		respondRepoError(w, "GetTransportRouteBySlug", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       route,
		"structured": seo.RegistryPlace(config.BaseURL(), "public-transport", route.Slug, route.Name, route.Description, route.StartPoint+" - "+route.EndPoint, route.Media),
	})
}

func CreateTransportRoute(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionCreate, "public-transport") {
		return
	}

	var route models.TransportRoute
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	if err := models.ValidateTransportRoute(route, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}

	created, err := transportRepo.Create(r.Context(), route)
	if err != nil {
		respondRepoError(w, "CreateTransportRoute", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": created.ID, "slug": created.Slug})
}

func UpdateTransportRoute(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionUpdate, "public-transport") {
		return
	}

	var route models.TransportRoute
	if err := json.NewDecoder(r.Body).Decode(&route); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	route.ID = mux.Vars(r)["id"]
	if route.ID == "" {
		respondError(w, CodeBadRequest, "id is required")
		return
	}
	if err := models.ValidateTransportRoute(route, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}

	updated, err := transportRepo.Update(r.Context(), route)
	if err != nil {
		respondRepoError(w, "UpdateTransportRoute", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "slug": updated.Slug})
}

func DeleteTransportRoute(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionDelete, "public-transport") {
		return
	}

	if err := transportRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondRepoError(w, "DeleteTransportRoute", err)
		return
	}

	config.RegistryCache.Flush()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GetNearbyTransportStops returns stops within a radius of a point,
// nearest first. Defaults to a 2 km radius.
func GetNearbyTransportStops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondError(w, CodeBadRequest, "lat and lng are required")
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		respondError(w, CodeBadRequest, "lat or lng out of range")
		return
	}

	radius := 2.0
	if v := q.Get("radius_km"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			respondError(w, CodeBadRequest, "radius_km must be a positive number")
			return
		}
		radius = parsed
	}

	hits, err := transportRepo.NearbyStops(r.Context(), lat, lng, radius)
	if err != nil {
		respondRepoError(w, "GetNearbyTransportStops", err)
		return
	}
	if hits == nil {
		hits = []repository.StopHit{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": hits})
}
