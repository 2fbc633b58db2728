package handlers

import (
	"net/http"

	"palika_profile/config"
	"palika_profile/middleware"
)

// FlushCaches empties every cache. Used after out-of-band data changes,
// such as bulk imports run directly against the database.
func FlushCaches(w http.ResponseWriter, r *http.Request) {
	if !requireAuthz(w, r, middleware.ActionDelete, "caches") {
		return
	}

	config.ClearAllCaches()
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
