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

// PetrolPumpsRepo stores the fuel station registry.
type PetrolPumpsRepo struct {
	db    *sql.DB
	media *MediaRepo
}

func NewPetrolPumpsRepo(db *sql.DB, media *MediaRepo) *PetrolPumpsRepo {
	return &PetrolPumpsRepo{db: db, media: media}
}

var petrolPumpSortColumns = map[string]string{
	"name":    "name",
	"ward":    "ward_number",
	"created": "created_at",
}

var petrolPumpFlagColumns = map[string]string{
	"has_petrol":      "has_petrol",
	"has_diesel":      "has_diesel",
	"has_ev_charging": "has_ev_charging",
}

func (r *PetrolPumpsRepo) List(ctx context.Context, params models.RegistryListParams) ([]models.PetrolPump, models.ListMeta, error) {
	params.Normalize()

	where, args := registryListWhere(params, petrolPumpFlagColumns)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM petrol_pumps"+where, args...).Scan(&total); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("counting petrol pumps: %v", err)
	}

	columns := "id, name, slug, address, ward_number, has_petrol, has_diesel, has_ev_charging"
	if params.ViewType != models.ViewTable {
		columns += ", description"
	}
	if params.ViewType == models.ViewMap {
		columns += ", ST_AsGeoJSON(geometry)"
	}

	orderBy := registryOrderBy(params, petrolPumpSortColumns)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query := fmt.Sprintf("SELECT %s FROM petrol_pumps%s%s LIMIT $%d OFFSET $%d",
		columns, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("listing petrol pumps: %v", err)
	}
	defer rows.Close()

	var pumps []models.PetrolPump
	for rows.Next() {
		pump, err := scanPetrolPump(rows, params.ViewType)
		if err != nil {
			return nil, models.ListMeta{}, err
		}
		pumps = append(pumps, pump)
	}
	if err := rows.Err(); err != nil {
		return nil, models.ListMeta{}, fmt.Errorf("reading petrol pumps: %v", err)
	}

	if params.ViewType != models.ViewTable {
		for i := range pumps {
			r.attachMedia(ctx, &pumps[i])
		}
	}
	return pumps, models.NewListMeta(total, params.Page, params.PageSize), nil
}

func (r *PetrolPumpsRepo) GetByID(ctx context.Context, id string) (models.PetrolPump, error) {
	return r.getOne(ctx, "id", id)
}

func (r *PetrolPumpsRepo) GetBySlug(ctx context.Context, slug string) (models.PetrolPump, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *PetrolPumpsRepo) getOne(ctx context.Context, column, value string) (models.PetrolPump, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, address, ward_number, has_petrol, has_diesel,
		       has_ev_charging, description, ST_AsGeoJSON(geometry)
		FROM petrol_pumps
		WHERE %s = $1`, column)

	pump, err := scanPetrolPump(r.db.QueryRowContext(ctx, query, value), models.ViewMap)
	if err == sql.ErrNoRows {
		return models.PetrolPump{}, ErrNotFound
	}
	if err != nil {
		return models.PetrolPump{}, err
	}
	r.attachMedia(ctx, &pump)
	return pump, nil
}

func (r *PetrolPumpsRepo) Create(ctx context.Context, pump models.PetrolPump) (models.PetrolPump, error) {
	if pump.ID == "" {
		pump.ID = uuid.NewString()
	}
	slug, err := ensureUniqueSlug(ctx, r.db, "petrol_pumps", pump.Name, pump.ID)
	if err != nil {
		return models.PetrolPump{}, err
	}
	pump.Slug = slug

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO petrol_pumps (id, name, slug, description, address, ward_number,
		                          has_petrol, has_diesel, has_ev_charging, geometry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, ST_GeomFromGeoJSON(NULLIF($10, '')))`,
		pump.ID, pump.Name, pump.Slug, pump.Description, pump.Address, pump.WardNumber,
		pump.HasPetrol, pump.HasDiesel, pump.HasEVCharging, string(pump.Geometry))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return models.PetrolPump{}, ErrConflict
		}
		return models.PetrolPump{}, fmt.Errorf("inserting petrol pump: %v", err)
	}
	return pump, nil
}

func (r *PetrolPumpsRepo) Update(ctx context.Context, pump models.PetrolPump) (models.PetrolPump, error) {
	existing, err := r.GetByID(ctx, pump.ID)
	if err != nil {
		return models.PetrolPump{}, err
	}

	pump.Slug = existing.Slug
	if pump.Name != existing.Name {
		slug, err := ensureUniqueSlug(ctx, r.db, "petrol_pumps", pump.Name, pump.ID)
		if err != nil {
			return models.PetrolPump{}, err
		}
		pump.Slug = slug
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE petrol_pumps
		SET name = $2, slug = $3, description = $4, address = $5, ward_number = $6,
		    has_petrol = $7, has_diesel = $8, has_ev_charging = $9,
		    geometry = ST_GeomFromGeoJSON(NULLIF($10, ''))
		WHERE id = $1`,
		pump.ID, pump.Name, pump.Slug, pump.Description, pump.Address, pump.WardNumber,
		pump.HasPetrol, pump.HasDiesel, pump.HasEVCharging, string(pump.Geometry))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return models.PetrolPump{}, ErrConflict
		}
		return models.PetrolPump{}, fmt.Errorf("updating petrol pump: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.PetrolPump{}, fmt.Errorf("updating petrol pump: %v", err)
	}
	if affected == 0 {
		return models.PetrolPump{}, ErrNotFound
	}
	return pump, nil
}

func (r *PetrolPumpsRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM petrol_pumps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting petrol pump: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting petrol pump: %v", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if r.media != nil {
		if err := r.media.DeleteForEntity(ctx, id); err != nil {
			log.Printf("Petrol pumps: media cleanup failed for %s: %v", id, err)
		}
	}
	return nil
}

func (r *PetrolPumpsRepo) Media() *MediaRepo {
	return r.media
}

func (r *PetrolPumpsRepo) attachMedia(ctx context.Context, pump *models.PetrolPump) {
	if r.media == nil {
		return
	}
	items, err := r.media.ListForEntity(ctx, pump.ID)
	if err != nil {
		return
	}
	pump.Media = items
}

func scanPetrolPump(row rowScanner, viewType string) (models.PetrolPump, error) {
	var pump models.PetrolPump
	var address sql.NullString

	dest := []interface{}{
		&pump.ID, &pump.Name, &pump.Slug, &address, &pump.WardNumber,
		&pump.HasPetrol, &pump.HasDiesel, &pump.HasEVCharging,
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
			return models.PetrolPump{}, err
		}
		return models.PetrolPump{}, fmt.Errorf("scanning petrol pump row: %v", err)
	}

	pump.Address = address.String
	pump.Description = description.String
	if geometry.Valid && geometry.String != "" {
		pump.Geometry = json.RawMessage(geometry.String)
	}
	return pump, nil
}

// Slugs lists every petrol pump slug for the sitemap generator.
func (r *PetrolPumpsRepo) Slugs(ctx context.Context) ([]string, error) {
	return registrySlugs(ctx, r.db, "petrol_pumps")
}
