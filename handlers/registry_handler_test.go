package handlers

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palika_profile/config"
	"palika_profile/middleware"
	"palika_profile/models"
	"palika_profile/repository"
)

func setupRoadsRouter(t *testing.T) (sqlmock.Sqlmock, *mux.Router) {
	t.Helper()
	t.Setenv("ADMIN_API_TOKEN", testAdminToken)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	roadsRepo = repository.NewRoadsRepo(db, repository.NewMediaRepo(db, nil))

	config.InitCache()

	r := mux.NewRouter()
	r.Use(middleware.ActorMiddleware)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/roads", ListRoads).Methods("GET")
	api.HandleFunc("/roads", CreateRoad).Methods("POST")
	api.HandleFunc("/roads/slug/{slug}", GetRoadBySlug).Methods("GET")
	api.HandleFunc("/roads/{id}", GetRoad).Methods("GET")
	api.HandleFunc("/roads/{id}", UpdateRoad).Methods("PUT")
	api.HandleFunc("/roads/{id}", DeleteRoad).Methods("DELETE")
	return mock, r
}

func TestParseRegistryListParams(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/roads?q=highway&ward=3&view=grid&page=2&page_size=10&sort=ward&order=desc&has_drainage=true", nil)

	params, problem := parseRegistryListParams(req, []string{"has_street_lights", "has_drainage"})
	require.Empty(t, problem)
	assert.Equal(t, "highway", params.Search)
	require.NotNil(t, params.WardNumber)
	assert.Equal(t, 3, *params.WardNumber)
	assert.Equal(t, models.ViewGrid, params.ViewType)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 10, params.PageSize)
	assert.Equal(t, "ward", params.SortBy)
	assert.True(t, params.SortDesc)
	assert.Equal(t, map[string]bool{"has_drainage": true}, params.Flags)
}

func TestParseRegistryListParamsProblems(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"bad view", "view=carousel"},
		{"bad ward", "ward=abc"},
		{"negative ward", "ward=-1"},
		{"bad page", "page=0"},
		{"bad page size", "page_size=-5"},
		{"bad flag", "has_drainage=maybe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/roads?"+tc.query, nil)
			_, problem := parseRegistryListParams(req, []string{"has_drainage"})
			assert.NotEmpty(t, problem)
		})
	}
}

func TestListRoads(t *testing.T) {
	mock, r := setupRoadsRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM roads")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM roads")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "slug", "address", "ward_number", "road_type",
			"pavement_condition", "length_km", "width_m", "has_street_lights", "has_drainage",
		}).AddRow("r1", "Ring Road", "ring-road", "", 2, "URBAN", "BLACK_TOPPED", 3.2, 12, true, true))

	rec := doRequest(r, "GET", "/api/v1/roads", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"ring-road"`)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoadsCachesTableView(t *testing.T) {
	mock, r := setupRoadsRouter(t)

	// One round of queries serves both requests; the second hits the cache.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM roads")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM roads")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "slug", "address", "ward_number", "road_type",
			"pavement_condition", "length_km", "width_m", "has_street_lights", "has_drainage",
		}).AddRow("r1", "Ring Road", "ring-road", "", 2, "URBAN", "BLACK_TOPPED", 3.2, 12, true, true))

	for i := 0; i < 2; i++ {
		rec := doRequest(r, "GET", "/api/v1/roads?view=table", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"slug":"ring-road"`)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoadsGridViewBypassesCache(t *testing.T) {
	mock, r := setupRoadsRouter(t)

	// Grid and map responses embed signed media URLs that expire, so every
	// request must hit the database: both rounds of queries are consumed.
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM roads")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("FROM roads")).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "name", "slug", "address", "ward_number", "road_type",
				"pavement_condition", "length_km", "width_m", "has_street_lights", "has_drainage",
				"description",
			}).AddRow("r1", "Ring Road", "ring-road", "", 2, "URBAN", "BLACK_TOPPED", 3.2, 12, true, true, "outer ring"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM media")).
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "entity_id", "storage_path", "content_type", "caption", "is_primary",
			}))
	}

	for i := 0; i < 2; i++ {
		rec := doRequest(r, "GET", "/api/v1/roads?view=grid", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"slug":"ring-road"`)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoadsBadParams(t *testing.T) {
	_, r := setupRoadsRouter(t)

	rec := doRequest(r, "GET", "/api/v1/roads?view=carousel", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoadUnauthorized(t *testing.T) {
	_, r := setupRoadsRouter(t)

	body := `{"name":"Ring Road","ward_number":2,"road_type":"URBAN"}`
	rec := doRequest(r, "POST", "/api/v1/roads", body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRoad(t *testing.T) {
	mock, r := setupRoadsRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roads")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{"name":"Ring Road","ward_number":2,"road_type":"URBAN","geometry":{"type":"LineString","coordinates":[[85.3,27.7],[85.31,27.71]]}}`
	rec := doRequest(r, "POST", "/api/v1/roads", body, testAdminToken)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"ring-road"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoadValidation(t *testing.T) {
	_, r := setupRoadsRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"ward_number":2,"road_type":"URBAN"}`},
		{"bad road type", `{"name":"X","ward_number":2,"road_type":"FLYOVER"}`},
		{"bad ward", `{"name":"X","ward_number":0,"road_type":"URBAN"}`},
		{"bad geometry", `{"name":"X","ward_number":2,"road_type":"URBAN","geometry":{"type":"Point","coordinates":[200,0]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(r, "POST", "/api/v1/roads", tc.body, testAdminToken)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetRoadBySlugNotFound(t *testing.T) {
	mock, r := setupRoadsRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE slug = $1")).
		WithArgs("no-such-road").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "slug", "address", "ward_number", "road_type",
			"pavement_condition", "length_km", "width_m", "has_street_lights", "has_drainage",
			"description", "st_asgeojson",
		}))

	rec := doRequest(r, "GET", "/api/v1/roads/slug/no-such-road", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRoadUnauthorized(t *testing.T) {
	_, r := setupRoadsRouter(t)

	rec := doRequest(r, "DELETE", "/api/v1/roads/r1", "", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
