package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"palika_profile/models"
)

// WardStatsRepo implements the generic categorical ward statistic store.
// Every operation takes the feature descriptor, so one repository serves
// all demographic features; table names come from the static feature
// registry, never from request input.
type WardStatsRepo struct {
	db *sql.DB
}

func NewWardStatsRepo(db *sql.DB) *WardStatsRepo {
	return &WardStatsRepo{db: db}
}

const uniqueViolation = "23505"

// GetAll returns matching records ordered by ward number then category
// code. When the primary table yields nothing (no rows, or the query itself
// fails, e.g. the table has not been migrated yet), the legacy table is
// consulted read-only and best-effort.
func (r *WardStatsRepo) GetAll(ctx context.Context, f models.Feature, filter models.WardStatFilter) ([]models.WardStat, error) {
	query := fmt.Sprintf(`
		SELECT id, ward_number, category_code, count
		FROM %s`, f.Table)

	var conditions []string
	var args []interface{}
	if filter.WardNumber != nil {
		args = append(args, *filter.WardNumber)
		conditions = append(conditions, fmt.Sprintf("ward_number = $%d", len(args)))
	}
	if filter.CategoryCode != nil {
		args = append(args, *filter.CategoryCode)
		conditions = append(conditions, fmt.Sprintf("category_code = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ward_number, category_code"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("WardStats[%s]: primary query failed, trying legacy table: %v", f.Key, err)
		return r.legacyFallback(ctx, f, filter), nil
	}
	defer rows.Close()

	var records []models.WardStat
	for rows.Next() {
		var rec models.WardStat
		if err := rows.Scan(&rec.ID, &rec.WardNumber, &rec.CategoryCode, &rec.Count); err != nil {
			return nil, fmt.Errorf("scanning %s row: %v", f.Table, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s rows: %v", f.Table, err)
	}

	if len(records) == 0 {
		return r.legacyFallback(ctx, f, filter), nil
	}
	return records, nil
}

// GetByWard returns one ward's records ordered by category code.
func (r *WardStatsRepo) GetByWard(ctx context.Context, f models.Feature, wardNumber int) ([]models.WardStat, error) {
	return r.GetAll(ctx, f, models.WardStatFilter{WardNumber: &wardNumber})
}

// Create persists a new record and returns its id. Uniqueness of
// (ward_number, category_code) is enforced by the table's unique
// constraint; the constraint violation is the conflict signal, so there is
// no racy check-then-insert.
func (r *WardStatsRepo) Create(ctx context.Context, f models.Feature, rec models.WardStat) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, ward_number, category_code, count)
		VALUES ($1, $2, $3, $4)`, f.Table)

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.WardNumber, rec.CategoryCode, rec.Count)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return "", ErrConflict
		}
		return "", fmt.Errorf("inserting into %s: %v", f.Table, err)
	}
	return rec.ID, nil
}

// Update overwrites only the provided fields. Missing id reports ErrNotFound.
func (r *WardStatsRepo) Update(ctx context.Context, f models.Feature, id string, upd models.WardStatUpdate) error {
	var sets []string
	var args []interface{}
	if upd.WardNumber != nil {
		args = append(args, *upd.WardNumber)
		sets = append(sets, fmt.Sprintf("ward_number = $%d", len(args)))
	}
	if upd.CategoryCode != nil {
		args = append(args, *upd.CategoryCode)
		sets = append(sets, fmt.Sprintf("category_code = $%d", len(args)))
	}
	if upd.Count != nil {
		args = append(args, *upd.Count)
		sets = append(sets, fmt.Sprintf("count = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		f.Table, strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("updating %s: %v", f.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s: %v", f.Table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes one record. Deleting a missing id reports ErrNotFound
// so the behavior is uniform across every feature.
func (r *WardStatsRepo) Delete(ctx context.Context, f models.Feature, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", f.Table)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %v", f.Table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %v", f.Table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary returns per-category totals across all wards, computed
// server-side so it matches getAll grouped by category.
func (r *WardStatsRepo) Summary(ctx context.Context, f models.Feature) ([]models.GroupedTotal, error) {
	query := fmt.Sprintf(`
		SELECT category_code, COALESCE(SUM(count), 0)
		FROM %s
		GROUP BY category_code
		ORDER BY category_code`, f.Table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		// Summary follows the same two-tier read contract as getAll.
		log.Printf("WardStats[%s]: summary query failed, trying legacy table: %v", f.Key, err)
		return summarize(r.legacyFallback(ctx, f, models.WardStatFilter{})), nil
	}
	defer rows.Close()

	var totals []models.GroupedTotal
	for rows.Next() {
		var t models.GroupedTotal
		if err := rows.Scan(&t.CategoryCode, &t.Total); err != nil {
			return nil, fmt.Errorf("scanning %s summary: %v", f.Table, err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s summary: %v", f.Table, err)
	}

	if len(totals) == 0 {
		return summarize(r.legacyFallback(ctx, f, models.WardStatFilter{})), nil
	}
	return totals, nil
}

// legacyFallback re-derives records from the pre-migration table. Legacy
// rows store numerics as text in snake_case columns; they are shape-mapped
// into the record form and the caller's filter is re-applied afterwards.
// Any failure here means "no data", never an error: the fallback is a
// read-only recovery shim, not a source of truth.
func (r *WardStatsRepo) legacyFallback(ctx context.Context, f models.Feature, filter models.WardStatFilter) []models.WardStat {
	if f.LegacyTable == "" {
		return nil
	}

	query := fmt.Sprintf(`
		SELECT id, ward_number, category, value
		FROM %s
		ORDER BY ward_number, category`, f.LegacyTable)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("WardStats[%s]: legacy table read failed: %v", f.Key, err)
		return nil
	}
	defer rows.Close()

	var records []models.WardStat
	for rows.Next() {
		var id, ward, category, value sql.NullString
		if err := rows.Scan(&id, &ward, &category, &value); err != nil {
			log.Printf("WardStats[%s]: skipping unreadable legacy row: %v", f.Key, err)
			continue
		}
		rec, ok := mapLegacyRow(id.String, ward.String, category.String, value.String)
		if !ok || !filter.Matches(rec) {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		log.Printf("WardStats[%s]: legacy table read failed: %v", f.Key, err)
		return nil
	}

	if len(records) > 0 {
		log.Printf("WardStats[%s]: served %d records from legacy table %s", f.Key, len(records), f.LegacyTable)
	}
	return records
}

// mapLegacyRow coerces one legacy row's textual numerics into the record
// shape. Rows with an unparseable ward number are dropped; an unparseable
// count maps to zero.
func mapLegacyRow(id, ward, category, value string) (models.WardStat, bool) {
	wardNumber, err := strconv.Atoi(strings.TrimSpace(ward))
	if err != nil || wardNumber <= 0 {
		return models.WardStat{}, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || count < 0 {
		count = 0
	}
	return models.WardStat{
		ID:           id,
		WardNumber:   wardNumber,
		CategoryCode: strings.ToUpper(strings.TrimSpace(category)),
		Count:        count,
	}, true
}

// summarize groups records by category in memory; used when the summary
// itself had to fall back to legacy rows.
func summarize(records []models.WardStat) []models.GroupedTotal {
	byCode := make(map[string]int)
	var order []string
	for _, rec := range records {
		if _, seen := byCode[rec.CategoryCode]; !seen {
			order = append(order, rec.CategoryCode)
		}
		byCode[rec.CategoryCode] += rec.Count
	}

	totals := make([]models.GroupedTotal, 0, len(order))
	for _, code := range order {
		totals = append(totals, models.GroupedTotal{CategoryCode: code, Total: byCode[code]})
	}
	// Keep output ordered the same way the SQL path orders.
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].CategoryCode < totals[j].CategoryCode
	})
	return totals
}
