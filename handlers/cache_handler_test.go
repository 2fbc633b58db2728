package handlers

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"palika_profile/config"
	"palika_profile/middleware"
)

func setupCacheRouter(t *testing.T) *mux.Router {
	t.Helper()
	t.Setenv("ADMIN_API_TOKEN", testAdminToken)
	config.InitCache()

	r := mux.NewRouter()
	r.Use(middleware.ActorMiddleware)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/cache/flush", FlushCaches).Methods("POST")
	return r
}

func TestFlushCachesUnauthorized(t *testing.T) {
	r := setupCacheRouter(t)

	rec := doRequest(r, "POST", "/api/v1/cache/flush", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFlushCachesEmptiesEveryCache(t *testing.T) {
	r := setupCacheRouter(t)
	config.SummaryCache.SetDefault("summary:delivery-place", 1)
	config.RegistryCache.SetDefault("list:roads:", 2)
	config.SitemapCache.SetDefault("sitemap:roads", 3)

	rec := doRequest(r, "POST", "/api/v1/cache/flush", "", testAdminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	if _, found := config.SummaryCache.Get("summary:delivery-place"); found {
		t.Error("summary cache entry survived the flush")
	}
	if _, found := config.RegistryCache.Get("list:roads:"); found {
		t.Error("registry cache entry survived the flush")
	}
	if _, found := config.SitemapCache.Get("sitemap:roads"); found {
		t.Error("sitemap cache entry survived the flush")
	}
}
