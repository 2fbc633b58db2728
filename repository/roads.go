package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"palika_profile/models"
)

// RoadsRepo stores the road registry. Geometry goes in and out of PostGIS
// as GeoJSON; the caller validates it structurally before it gets here.
type RoadsRepo struct {
	db    *sql.DB
	media *MediaRepo
}

func NewRoadsRepo(db *sql.DB, media *MediaRepo) *RoadsRepo {
	return &RoadsRepo{db: db, media: media}
}

var roadSortColumns = map[string]string{
	"name":    "name",
	"ward":    "ward_number",
	"created": "created_at",
}

var roadFlagColumns = map[string]string{
	"has_street_lights": "has_street_lights",
	"has_drainage":      "has_drainage",
}

// List applies search, ward and flag filters, sorts by a whitelisted key and
// paginates. The viewType decides the projection: table omits description
// and geometry, grid omits geometry, map includes GeoJSON geometry.
func (r *RoadsRepo) List(ctx context.Context, params models.RegistryListParams) ([]models.Road, models.ListMeta, error) {
	params.Normalize()

	where, args := registryListWhere(params, roadFlagColumns)

	var total int
	countQuery := "SELECT COUNT(*) FROM roads" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("counting roads: %v", err)
	}

	columns := "id, name, slug, address, ward_number, road_type, pavement_condition, length_km, width_m, has_street_lights, has_drainage"
	if params.ViewType != models.ViewTable {
		columns += ", description"
	}
	if params.ViewType == models.ViewMap {
		columns += ", ST_AsGeoJSON(geometry)"
	}

	orderBy := registryOrderBy(params, roadSortColumns)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query := fmt.Sprintf("SELECT %s FROM roads%s%s LIMIT $%d OFFSET $%d",
		columns, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("listing roads: %v", err)
	}
	defer rows.Close()

	var roads []models.Road
	for rows.Next() {
		road, err := scanRoad(rows, params.ViewType)
		if err != nil {
			return nil, models.ListMeta{}, err
		}
		roads = append(roads, road)
	}
	if err := rows.Err(); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("reading roads: %v", err)
	}

	if params.ViewType != models.ViewTable {
		for i := range roads {
			r.attachMedia(ctx, &roads[i])
		}
	}
	return roads, models.NewListMeta(total, params.Page, params.PageSize), nil
}

func (r *RoadsRepo) GetByID(ctx context.Context, id string) (models.Road, error) {
	return r.getOne(ctx, "id", id)
}

func (r *RoadsRepo) GetBySlug(ctx context.Context, slug string) (models.Road, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *RoadsRepo) getOne(ctx context.Context, column, value string) (models.Road, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, address, ward_number, road_type, pavement_condition,
		       length_km, width_m, has_street_lights, has_drainage, description,
		       ST_AsGeoJSON(geometry)
		FROM roads
		WHERE %s = $1`, column)

	row := r.db.QueryRowContext(ctx, query, value)
	road, err := scanRoad(row, models.ViewMap)
	if err == sql.ErrNoRows {
		return models.Road{}, ErrNotFound
	}
	if err != nil {
		return models.Road{}, err
	}
	r.attachMedia(ctx, &road)
	return road, nil
}

// Create assigns an id and a collision-free slug, then inserts. Slug
// uniqueness is also backed by a unique index; a concurrent insert of the
// same slug surfaces as ErrConflict.
func (r *RoadsRepo) Create(ctx context.Context, road models.Road) (models.Road, error) {
	if road.ID == "" {
		road.ID = uuid.NewString()
	}
	slug, err := ensureUniqueSlug(ctx, r.db, "roads", road.Name, road.ID)
	if err != nil {
		return models.Road{}, err
	}
	road.Slug = slug

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO roads (id, name, slug, description, address, ward_number, road_type,
		                   pavement_condition, length_km, width_m, has_street_lights, has_drainage, geometry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, ST_GeomFromGeoJSON(NULLIF($13, '')))`,
		road.ID, road.Name, road.Slug, road.Description, road.Address, road.WardNumber,
		road.RoadType, road.PavementCondition, road.LengthKm, road.WidthM,
		road.HasStreetLights, road.HasDrainage, string(road.Geometry))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return models.Road{}, ErrConflict
		}
		return models.Road{}, fmt.Errorf("inserting road: %v", err)
	}
	return road, nil
}

// Update overwrites the record. The slug is regenerated only when the name
// changed, so published URLs stay stable across attribute edits.
func (r *RoadsRepo) Update(ctx context.Context, road models.Road) (models.Road, error) {
	existing, err := r.GetByID(ctx, road.ID)
	if err != nil {
		return models.Road{}, err
	}

	road.Slug = existing.Slug
	if road.Name != existing.Name {
		slug, err := ensureUniqueSlug(ctx, r.db, "roads", road.Name, road.ID)
		if err != nil {
			return models.Road{}, err
		}
		road.Slug = slug
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE roads
		SET name = $2, slug = $3, description = $4, address = $5, ward_number = $6,
		    road_type = $7, pavement_condition = $8, length_km = $9, width_m = $10,
		    has_street_lights = $11, has_drainage = $12,
		    geometry = ST_GeomFromGeoJSON(NULLIF($13, ''))
		WHERE id = $1`,
		road.ID, road.Name, road.Slug, road.Description, road.Address, road.WardNumber,
		road.RoadType, road.PavementCondition, road.LengthKm, road.WidthM,
		road.HasStreetLights, road.HasDrainage, string(road.Geometry))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return models.Road{}, ErrConflict
		}
		return models.Road{}, fmt.Errorf("updating road: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.Road{}, fmt.Errorf("updating road: %v", err)
	}
	if affected == 0 {
		return models.Road{}, ErrNotFound
	}
	return road, nil
}

// Delete removes the road first, then cleans up its media. The row delete
// decides the outcome; a missing id must not strip the road of its media.
func (r *RoadsRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM roads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting road: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting road: %v", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if r.media != nil {
		if err := r.media.DeleteForEntity(ctx, id); err != nil {
			log.Printf("Roads: media cleanup failed for %s: %v", id, err)
		}
	}
	return nil
}

func (r *RoadsRepo) Media() *MediaRepo {
	return r.media
}

func (r *RoadsRepo) attachMedia(ctx context.Context, road *models.Road) {
	if r.media == nil {
		return
	}
	items, err := r.media.ListForEntity(ctx, road.ID)
	if err != nil {
		// Media is decoration on a read; a failure degrades to no images.
		return
	}
	road.Media = items
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRoad(row rowScanner, viewType string) (models.Road, error) {
	var road models.Road
	var pavement, address sql.NullString
	var length, width sql.NullFloat64

	dest := []interface{}{
		&road.ID, &road.Name, &road.Slug, &address, &road.WardNumber,
		&road.RoadType, &pavement, &length, &width,
		&road.HasStreetLights, &road.HasDrainage,
	}
	var description, geometry sql.NullString
	if viewType != models.ViewTable {
		dest = append(dest, &description)
	}
	if viewType == models.ViewMap {
		dest = append(dest, &geometry)
	}

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return models.Road{}, err
		}
		return models.Road{}, fmt.Errorf("scanning road row: %v", err)
	}

	road.Address = address.String
	road.PavementCondition = pavement.String
	road.LengthKm = length.Float64
	road.WidthM = width.Float64
	road.Description = description.String
	if geometry.Valid && geometry.String != "" {
		road.Geometry = json.RawMessage(geometry.String)
	}
	return road, nil
}

// registryListWhere builds the shared WHERE clause for registry lists:
// free-text search over name/description/address, ward filter, and
// whitelisted boolean facility flags.
func registryListWhere(params models.RegistryListParams, flagColumns map[string]string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d OR address ILIKE $%d)", n, n, n))
	}
	if params.WardNumber != nil {
		args = append(args, *params.WardNumber)
		conditions = append(conditions, fmt.Sprintf("ward_number = $%d", len(args)))
	}
	flags := make([]string, 0, len(params.Flags))
	for flag := range params.Flags {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	for _, flag := range flags {
		column, ok := flagColumns[flag]
		if !ok {
			continue
		}
		args = append(args, params.Flags[flag])
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func registryOrderBy(params models.RegistryListParams, sortColumns map[string]string) string {
	column, ok := sortColumns[params.SortBy]
	if !ok {
		column = "name"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// Slugs lists every road slug for the sitemap generator.
func (r *RoadsRepo) Slugs(ctx context.Context) ([]string, error) {
	return registrySlugs(ctx, r.db, "roads")
}
