package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"photobooth/internal/model"
	"photobooth/internal/repository"
)

// PhotoRepository implements repository.PhotoRepository for SQLite.
type PhotoRepository struct {
	db *DB
}

var _ repository.PhotoRepository = (*PhotoRepository)(nil)

// NewPhotoRepository creates a new SQLite photo repository.
func NewPhotoRepository(db *DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Insert adds a new photo record. CreatedAt is filled in when zero.
func (r *PhotoRepository) Insert(ctx context.Context, photo *model.Photo) (int64, error) {
	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO photos (filename, data_url, created_at)
		VALUES (?, ?, ?)
	`, photo.Filename, photo.DataURL, photo.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	photo.ID = id
	return id, nil
}

// GetByID retrieves a photo with its payload. Returns repository.ErrNotFound when absent.
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*model.Photo, error) {
	var (
		photo   model.Photo
		created timestamp
	)
	err := r.db.Conn().QueryRowContext(ctx, `
		SELECT id, filename, data_url, created_at
		FROM photos WHERE id = ?
	`, id).Scan(&photo.ID, &photo.Filename, &photo.DataURL, &created)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	photo.CreatedAt = created.Time
	return &photo, nil
}

// List returns the most recent photos, newest first.
func (r *PhotoRepository) List(ctx context.Context, limit int) ([]model.Photo, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, filename, data_url, created_at
		FROM photos
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	photos := make([]model.Photo, 0)
	for rows.Next() {
		var (
			photo   model.Photo
			created timestamp
		)
		if err := rows.Scan(&photo.ID, &photo.Filename, &photo.DataURL, &created); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photo.CreatedAt = created.Time
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}

	return photos, nil
}

// Delete removes a photo by its ID. Returns repository.ErrNotFound when nothing was deleted.
func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
