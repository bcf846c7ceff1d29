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

// CollageRepository implements repository.CollageRepository for SQLite.
type CollageRepository struct {
	db *DB
}

var _ repository.CollageRepository = (*CollageRepository)(nil)

// NewCollageRepository creates a new SQLite collage repository.
func NewCollageRepository(db *DB) *CollageRepository {
	return &CollageRepository{db: db}
}

// Insert adds a new collage record. CreatedAt is filled in when zero.
func (r *CollageRepository) Insert(ctx context.Context, collage *model.Collage) (int64, error) {
	if collage.CreatedAt.IsZero() {
		collage.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO collages (title, format, data_url, created_at)
		VALUES (?, ?, ?, ?)
	`, collage.Title, collage.Format, collage.DataURL, collage.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert collage: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	collage.ID = id
	return id, nil
}

// GetByID retrieves a collage with its payload. Returns repository.ErrNotFound when absent.
func (r *CollageRepository) GetByID(ctx context.Context, id int64) (*model.Collage, error) {
	var (
		collage model.Collage
		created timestamp
	)
	err := r.db.Conn().QueryRowContext(ctx, `
		SELECT id, title, format, data_url, created_at
		FROM collages WHERE id = ?
	`, id).Scan(&collage.ID, &collage.Title, &collage.Format, &collage.DataURL, &created)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collage: %w", err)
	}
	collage.CreatedAt = created.Time
	return &collage, nil
}

// List returns the most recent collages without their payload, newest first.
func (r *CollageRepository) List(ctx context.Context, limit int) ([]model.Collage, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, title, format, created_at
		FROM collages
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query collages: %w", err)
	}
	defer rows.Close()

	collages := make([]model.Collage, 0)
	for rows.Next() {
		var (
			collage model.Collage
			created timestamp
		)
		if err := rows.Scan(&collage.ID, &collage.Title, &collage.Format, &created); err != nil {
			return nil, fmt.Errorf("failed to scan collage: %w", err)
		}
		collage.CreatedAt = created.Time
		collages = append(collages, collage)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collages: %w", err)
	}

	return collages, nil
}

// Delete removes a collage by its ID. Returns repository.ErrNotFound when nothing was deleted.
func (r *CollageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM collages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collage: %w", err)
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
