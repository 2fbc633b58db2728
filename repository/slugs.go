package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gosimple/slug"
)

// ensureUniqueSlug generates a URL slug from name and resolves collisions
// with numeric suffixes (kathmandu-road, kathmandu-road-2, ...). excludeID
// lets an update keep its own slug without counting it as a collision.
// Table names come from the fixed registry set, never from request input.
func ensureUniqueSlug(ctx context.Context, db *sql.DB, table, name, excludeID string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "entry"
	}

	candidate := base
	for i := 2; ; i++ {
		var exists bool
		query := fmt.Sprintf(
			`SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)`, table)
		if err := db.QueryRowContext(ctx, query, candidate, excludeID).Scan(&exists); err != nil {
			return "", fmt.Errorf("checking slug uniqueness: %v", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// registrySlugs lists every slug in a registry table for the sitemap
// generator.
func registrySlugs(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	query := fmt.Sprintf("SELECT slug FROM %s ORDER BY slug", table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s slugs: %v", table, err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning %s slug: %v", table, err)
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}
