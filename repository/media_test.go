package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore records calls; presign and delete behavior is configurable.
type stubStore struct {
	puts       []string
	deletes    []string
	presignErr error
	deleteErr  error
}

func (s *stubStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	s.puts = append(s.puts, key)
	return nil
}

func (s *stubStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return fmt.Sprintf("https://signed.example/%s", key), nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return s.deleteErr
}

func mediaRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "entity_id", "storage_path", "content_type", "caption", "is_primary"})
}

func TestMediaListForEntitySignsURLs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMediaRepo(db, &stubStore{})

	mock.ExpectQuery(regexp.QuoteMeta("FROM media")).
		WithArgs("e1").
		WillReturnRows(mediaRows().
			AddRow("m1", "e1", "media/e1/m1", "image/jpeg", "front", true).
			AddRow("m2", "e1", "media/e1/m2", "image/png", "", false))

	items, err := repo.ListForEntity(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://signed.example/media/e1/m1", items[0].URL)
	assert.True(t, items[0].IsPrimary)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaListForEntityPresignFailureLeavesURLEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMediaRepo(db, &stubStore{presignErr: errors.New("s3 down")})

	mock.ExpectQuery(regexp.QuoteMeta("FROM media")).
		WithArgs("e1").
		WillReturnRows(mediaRows().AddRow("m1", "e1", "media/e1/m1", "image/jpeg", "", true))

	items, err := repo.ListForEntity(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].URL)
}

func TestMediaAddWithoutStoreFails(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMediaRepo(db, nil)

	_, err = repo.Add(context.Background(), "e1", nil, "image/jpeg", "", false)
	assert.Error(t, err)
}

func TestMediaAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := &stubStore{}
	repo := NewMediaRepo(db, store)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media")).
		WithArgs(sqlmock.AnyArg(), "e1", sqlmock.AnyArg(), "image/jpeg", "front gate", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	item, err := repo.Add(context.Background(), "e1", nil, "image/jpeg", "front gate", true)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "media/e1/"+item.ID, item.StoragePath)
	require.Len(t, store.puts, 1)
	assert.Equal(t, item.StoragePath, store.puts[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaDeleteForEntity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := &stubStore{deleteErr: errors.New("s3 down")}
	repo := NewMediaRepo(db, store)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT storage_path FROM media")).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).
			AddRow("media/e1/m1").
			AddRow("media/e1/m2"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM media")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	// Object-store failures are logged, not returned.
	err = repo.DeleteForEntity(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"media/e1/m1", "media/e1/m2"}, store.deletes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaDeleteForEntityScanErrorSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewMediaRepo(db, nil)

	// A NULL storage_path cannot be scanned; the error must surface so the
	// object is not silently leaked.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT storage_path FROM media")).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"storage_path"}).AddRow(nil))

	err = repo.DeleteForEntity(context.Background(), "e1")
	assert.Error(t, err)
}
