package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"palika_profile/models"
)

// ObjectStore is the object-storage contract the media layer needs: upload,
// time-limited signed read URLs, delete. S3 (or MinIO) in production.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3ObjectStore implements ObjectStore on an S3-compatible backend.
type S3ObjectStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. MinIO
	PathStyle bool
}

func NewS3ObjectStore(ctx context.Context, cfg S3Config) (*S3ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3ObjectStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

func (s *S3ObjectStore) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: body}
	if contentType != "" {
		input.ContentType = &contentType
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

func (s *S3ObjectStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	out, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: &s.bucket, Key: &key},
		func(po *s3.PresignOptions) { po.Expires = expiry })
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}

// MediaRepo manages the media rows shared by all registry entities and the
// underlying objects. Signed URLs are attached at read time, never stored.
type MediaRepo struct {
	db    *sql.DB
	store ObjectStore
}

const signedURLExpiry = 15 * time.Minute

func NewMediaRepo(db *sql.DB, store ObjectStore) *MediaRepo {
	return &MediaRepo{db: db, store: store}
}

// ListForEntity returns an entity's media with signed URLs, primary first.
// A failed presign leaves that item's URL empty rather than failing the read.
func (m *MediaRepo) ListForEntity(ctx context.Context, entityID string) ([]models.Media, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, entity_id, storage_path, content_type, caption, is_primary
		FROM media
		WHERE entity_id = $1
		ORDER BY is_primary DESC, id`, entityID)
	if err != nil {
		return nil, fmt.Errorf("reading media rows: %v", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var item models.Media
		if err := rows.Scan(&item.ID, &item.EntityID, &item.StoragePath, &item.ContentType, &item.Caption, &item.IsPrimary); err != nil {
			return nil, fmt.Errorf("scanning media row: %v", err)
		}
		if m.store != nil {
			url, err := m.store.PresignGet(ctx, item.StoragePath, signedURLExpiry)
			if err != nil {
				log.Printf("Media: presign failed for %s: %v", item.StoragePath, err)
			} else {
				item.URL = url
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Add uploads the object and records the media row.
func (m *MediaRepo) Add(ctx context.Context, entityID string, body io.Reader, contentType, caption string, isPrimary bool) (models.Media, error) {
	if m.store == nil {
		return models.Media{}, fmt.Errorf("media storage is not configured")
	}

	item := models.Media{
		ID:          uuid.NewString(),
		EntityID:    entityID,
		ContentType: contentType,
		Caption:     caption,
		IsPrimary:   isPrimary,
	}
	item.StoragePath = fmt.Sprintf("media/%s/%s", entityID, item.ID)

	if err := m.store.Put(ctx, item.StoragePath, body, contentType); err != nil {
		return models.Media{}, fmt.Errorf("uploading media object: %v", err)
	}

	_, err := m.db.ExecContext(ctx, `
		INSERT INTO media (id, entity_id, storage_path, content_type, caption, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.EntityID, item.StoragePath, item.ContentType, item.Caption, item.IsPrimary)
	if err != nil {
		return models.Media{}, fmt.Errorf("inserting media row: %v", err)
	}
	return item, nil
}

// DeleteForEntity removes an entity's media rows and best-effort deletes the
// objects. Object-store failures are logged and never abort the caller's
// entity deletion.
func (m *MediaRepo) DeleteForEntity(ctx context.Context, entityID string) error {
	rows, err := m.db.QueryContext(ctx,
		`SELECT storage_path FROM media WHERE entity_id = $1`, entityID)
	if err != nil {
		return fmt.Errorf("reading media rows: %v", err)
	}
	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return fmt.Errorf("scanning media row: %v", err)
		}
		paths = append(paths, path)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("reading media rows: %v", err)
	}
	rows.Close()

	if _, err := m.db.ExecContext(ctx, `DELETE FROM media WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("deleting media rows: %v", err)
	}

	if m.store != nil {
		for _, path := range paths {
			if err := m.store.Delete(ctx, path); err != nil {
				log.Printf("Media: best-effort object delete failed for %s: %v", path, err)
			}
		}
	}
	return nil
}
