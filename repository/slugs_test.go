package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUniqueSlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("araniko-highway", "id1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	s, err := ensureUniqueSlug(context.Background(), db, "roads", "Araniko Highway", "id1")
	require.NoError(t, err)
	assert.Equal(t, "araniko-highway", s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUniqueSlugResolvesCollisions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ring-road", "id2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ring-road-2", "id2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("ring-road-3", "id2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	s, err := ensureUniqueSlug(context.Background(), db, "roads", "Ring Road", "id2")
	require.NoError(t, err)
	assert.Equal(t, "ring-road-3", s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUniqueSlugDevanagariName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Devanagari names either transliterate or fall back to a placeholder;
	// the result must never be empty.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(sqlmock.AnyArg(), "id3").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	s, err := ensureUniqueSlug(context.Background(), db, "roads", "मुख्य सडक", "id3")
	require.NoError(t, err)
	assert.NotEmpty(t, s)
}

func TestRegistrySlugs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT slug FROM roads ORDER BY slug")).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("a-road").AddRow("b-road"))

	slugs, err := registrySlugs(context.Background(), db, "roads")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-road", "b-road"}, slugs)
	assert.NoError(t, mock.ExpectationsWereMet())
}
