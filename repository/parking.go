package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"palika_profile/models"
)

// ParkingRepo stores the parking facility registry.
type ParkingRepo struct {
	db    *sql.DB
	media *MediaRepo
}

func NewParkingRepo(db *sql.DB, media *MediaRepo) *ParkingRepo {
	return &ParkingRepo{db: db, media: media}
}

var parkingSortColumns = map[string]string{
	"name":    "name",
	"ward":    "ward_number",
	"created": "created_at",
}

var parkingFlagColumns = map[string]string{
	"has_fee":      "has_fee",
	"has_roof":     "has_roof",
	"has_security": "has_security",
}

func (r *ParkingRepo) List(ctx context.Context, params models.RegistryListParams) ([]models.ParkingFacility, models.ListMeta, error) {
	params.Normalize()

	where, args := registryListWhere(params, parkingFlagColumns)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM parking_facilities"+where, args...).Scan(&total); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("counting parking facilities: %v", err)
	}

	columns := "id, name, slug, address, ward_number, vehicle_capacity, has_fee, has_roof, has_security"
	if params.ViewType != models.ViewTable {
		columns += ", description"
	}
	if params.ViewType == models.ViewMap {
		columns += ", ST_AsGeoJSON(geometry)"
	}

	orderBy := registryOrderBy(params, parkingSortColumns)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query := fmt.Sprintf("SELECT %s FROM parking_facilities%s%s LIMIT $%d OFFSET $%d",
		columns, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("listing parking facilities: %v", err)
	}
	defer rows.Close()

	var facilities []models.ParkingFacility
	for rows.Next() {
		facility, err := scanParkingFacility(rows, params.ViewType)
		if err != nil {
			return nil, models.ListMeta{}, err
		}
		facilities = append(facilities, facility)
	}
	if err := rows.Err(); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("reading parking facilities: %v", err)
	}

	if params.ViewType != models.ViewTable {
		for i := range facilities {
			r.attachMedia(ctx, &facilities[i])
		}
	}
	return facilities, models.NewListMeta(total, params.Page, params.PageSize), nil
}

func (r *ParkingRepo) GetByID(ctx context.Context, id string) (models.ParkingFacility, error) {
	return r.getOne(ctx, "id", id)
}

func (r *ParkingRepo) GetBySlug(ctx context.Context, slug string) (models.ParkingFacility, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *ParkingRepo) getOne(ctx context.Context, column, value string) (models.ParkingFacility, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, address, ward_number, vehicle_capacity,
		       has_fee, has_roof, has_security, description, ST_AsGeoJSON(geometry)
		FROM parking_facilities
		WHERE %s = $1`, column)

	facility, err := scanParkingFacility(r.db.QueryRowContext(ctx, query, value), models.ViewMap)
	if err == sql.ErrNoRows {
		return models.ParkingFacility{}, ErrNotFound
	}
	if err != nil {
		return models.ParkingFacility{}, err
	}
	r.attachMedia(ctx, &facility)
	return facility, nil
}

func (r *ParkingRepo) Create(ctx context.Context, facility models.ParkingFacility) (models.ParkingFacility, error) {
	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	slug, err := ensureUniqueSlug(ctx, r.db, "parking_facilities", facility.Name, facility.ID)
	if err != nil {
		return models.ParkingFacility{}, err
	}
	facility.Slug = slug

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO parking_facilities (id, name, slug, description, address, ward_number,
		                                vehicle_capacity, has_fee, has_roof, has_security, geometry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, ST_GeomFromGeoJSON(NULLIF($11, '')))`,
		facility.ID, facility.Name, facility.Slug, facility.Description, facility.Address,
		facility.WardNumber, facility.VehicleCapacity, facility.HasFee, facility.HasRoof,
		facility.HasSecurity, string(facility.Geometry))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return models.ParkingFacility{}, ErrConflict
		}
		return models.ParkingFacility{}, fmt.Errorf("inserting parking facility: %v", err)
	}
	return facility, nil
}

func (r *ParkingRepo) Update(ctx context.Context, facility models.ParkingFacility) (models.ParkingFacility, error) {
	existing, err := r.GetByID(ctx, facility.ID)
	if err != nil {
		return models.ParkingFacility{}, err
	}

	facility.Slug = existing.Slug
	if facility.Name != existing.Name {
		slug, err := ensureUniqueSlug(ctx, r.db, "parking_facilities", facility.Name, facility.ID)
		if err != nil {
			return models.ParkingFacility{}, err
		}
		facility.Slug = slug
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE parking_facilities
		SET name = $2, slug = $3, description = $4, address = $5, ward_number = $6,
		    vehicle_capacity = $7, has_fee = $8, has_roof = $9, has_security = $10,
		    geometry = ST_GeomFromGeoJSON(NULLIF($11, ''))
		WHERE id = $1`,
		facility.ID, facility.Name, facility.Slug, facility.Description, facility.Address,
		facility.WardNumber, facility.VehicleCapacity, facility.HasFee, facility.HasRoof,
		facility.HasSecurity, string(facility.Geometry))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return models.ParkingFacility{}, ErrConflict
		}
		return models.ParkingFacility{}, fmt.Errorf("updating parking facility: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.ParkingFacility{}, fmt.Errorf("updating parking facility: %v", err)
	}
	if affected == 0 {
		return models.ParkingFacility{}, ErrNotFound
	}
	return facility, nil
}

func (r *ParkingRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_facilities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting parking facility: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting parking facility: %v", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if r.media != nil {
		if err := r.media.DeleteForEntity(ctx, id); err != nil {
			log.Printf("Parking: media cleanup failed for %s: %v", id, err)
		}
	}
	return nil
}

func (r *ParkingRepo) Media() *MediaRepo {
	return r.media
}

func (r *ParkingRepo) attachMedia(ctx context.Context, facility *models.ParkingFacility) {
	if r.media == nil {
		return
	}
	items, err := r.media.ListForEntity(ctx, facility.ID)
	if err != nil {
		return
	}
	facility.Media = items
}

func scanParkingFacility(row rowScanner, viewType string) (models.ParkingFacility, error) {
	var facility models.ParkingFacility
	var address sql.NullString
	var capacity sql.NullInt64

	dest := []interface{}{
		&facility.ID, &facility.Name, &facility.Slug, &address, &facility.WardNumber,
		&capacity, &facility.HasFee, &facility.HasRoof, &facility.HasSecurity,
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
			return models.ParkingFacility{}, err
		}
		return models.ParkingFacility{}, fmt.Errorf("scanning parking facility row: %v", err)
	}

	facility.Address = address.String
	facility.VehicleCapacity = int(capacity.Int64)
	facility.Description = description.String
	if geometry.Valid && geometry.String != "" {
		facility.Geometry = json.RawMessage(geometry.String)
	}
	return facility, nil
}

// Slugs lists every parking facility slug for the sitemap generator.
func (r *ParkingRepo) Slugs(ctx context.Context) ([]string, error) {
	return registrySlugs(ctx, r.db, "parking_facilities")
}
