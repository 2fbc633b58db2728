package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"palika_profile/analytics"
	"palika_profile/config"
	"palika_profile/middleware"
	"palika_profile/models"
	"palika_profile/seo"
)

// Handlers for the categorical ward statistics. One handler set serves
// every demographic feature; the {feature} path variable selects the
// descriptor from the static registry.

// GetFeatures returns the feature registry: keys, bilingual names and
// category metadata for the presentation layer.
func GetFeatures(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    models.Features(),
	})
}

func featureFromRequest(w http.ResponseWriter, r *http.Request) (models.Feature, bool) {
	key := mux.Vars(r)["feature"]
	f, ok := models.FeatureByKey(key)
	if !ok {
		respondError(w, CodeNotFound, "unknown feature: "+key)
		return models.Feature{}, false
	}
	return f, true
}

// GetWardStats handles getAll with optional ward and category filters.
func GetWardStats(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}

	var filter models.WardStatFilter
	if v := r.URL.Query().Get("ward"); v != "" {
		ward, err := strconv.Atoi(v)
		if err != nil || ward <= 0 {
			respondError(w, CodeBadRequest, "ward must be a positive integer")
			return
		}
		filter.WardNumber = &ward
	}
	if v := r.URL.Query().Get("category"); v != "" {
		if !f.HasCategory(v) {
			respondError(w, CodeBadRequest, "unknown "+f.Key+" category: "+v)
			return
		}
		filter.CategoryCode = &v
	}

	records, err := wardStatsRepo.GetAll(r.Context(), f, filter)
	if err != nil {
		respondRepoError(w, "GetWardStats["+f.Key+"]", err)
		return
	}
	if records == nil {
		records = []models.WardStat{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": records})
}

// GetWardStatsByWard handles getByWard.
func GetWardStatsByWard(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}

	ward, err := strconv.Atoi(mux.Vars(r)["ward"])
	if err != nil || ward <= 0 {
		respondError(w, CodeBadRequest, "ward must be a positive integer")
		return
	}

	records, err := wardStatsRepo.GetByWard(r.Context(), f, ward)
	if err != nil {
		respondRepoError(w, "GetWardStatsByWard["+f.Key+"]", err)
		return
	}
	if records == nil {
		records = []models.WardStat{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": records})
}

// GetWardStatsSummary handles summary: per-category totals across all
// wards, cached briefly since it is read on every page view.
func GetWardStatsSummary(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}

	cacheKey := config.GetCacheKey("summary", f.Key)
	if cached, found := config.SummaryCache.Get(cacheKey); found {
		respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": cached})
		return
	}

	totals, err := wardStatsRepo.Summary(r.Context(), f)
	if err != nil {
		respondRepoError(w, "GetWardStatsSummary["+f.Key+"]", err)
		return
	}
	if totals == nil {
		totals = []models.GroupedTotal{}
	}

	config.SummaryCache.SetDefault(cacheKey, totals)
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": totals})
}

// GetWardStatsAggregate handles the page-level read: ward rows, category
// shares, best/worst ward, banded index, and the JSON-LD block.
func GetWardStatsAggregate(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}

	records, err := wardStatsRepo.GetAll(r.Context(), f, models.WardStatFilter{})
	if err != nil {
		respondRepoError(w, "GetWardStatsAggregate["+f.Key+"]", err)
		return
	}

	agg := analytics.Aggregate(f, records)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       agg,
		"structured": seo.FeatureDataset(config.BaseURL(), f, agg),
	})
}

// CreateWardStat handles create. Admin only; duplicate (ward, category)
// pairs are rejected by the storage unique constraint.
func CreateWardStat(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}
	if !requireAuthz(w, r, middleware.ActionCreate, f.Key) {
		return
	}

	var rec models.WardStat
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	if err := models.ValidateWardStat(f, rec, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}

	id, err := wardStatsRepo.Create(r.Context(), f, rec)
	if err != nil {
		respondRepoError(w, "CreateWardStat["+f.Key+"]", err)
		return
	}

	config.SummaryCache.Delete(config.GetCacheKey("summary", f.Key))
	respondJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": id})
}

// UpdateWardStat handles update: overwrites only the provided fields.
func UpdateWardStat(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}
	if !requireAuthz(w, r, middleware.ActionUpdate, f.Key) {
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, CodeBadRequest, "id is required")
		return
	}

	var upd models.WardStatUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, CodeBadRequest, "malformed request body")
		return
	}
	if err := models.ValidateUpdate(f, upd, config.WardCount()); err != nil {
		respondError(w, CodeBadRequest, err.Error())
		return
	}

	if err := wardStatsRepo.Update(r.Context(), f, id, upd); err != nil {
		respondRepoError(w, "UpdateWardStat["+f.Key+"]", err)
		return
	}

	config.SummaryCache.Delete(config.GetCacheKey("summary", f.Key))
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteWardStat handles delete. Hard delete; a missing id is NOT_FOUND.
func DeleteWardStat(w http.ResponseWriter, r *http.Request) {
	f, ok := featureFromRequest(w, r)
	if !ok {
		return
	}
	if !requireAuthz(w, r, middleware.ActionDelete, f.Key) {
		return
	}

	id := mux.Vars(r)["id"]
	if err := wardStatsRepo.Delete(r.Context(), f, id); err != nil {
		respondRepoError(w, "DeleteWardStat["+f.Key+"]", err)
		return
	}

	config.SummaryCache.Delete(config.GetCacheKey("summary", f.Key))
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
