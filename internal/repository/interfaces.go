package repository

import (
	"context"
	"errors"

	"photobooth/internal/model"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// PhotoRepository defines the interface for photo data operations.
type PhotoRepository interface {
	// Create operations
	Insert(ctx context.Context, photo *model.Photo) (int64, error)

	// Read operations
	GetByID(ctx context.Context, id int64) (*model.Photo, error)
	List(ctx context.Context, limit int) ([]model.Photo, error)

	// Delete operations
	Delete(ctx context.Context, id int64) error
}

// CollageRepository defines the interface for collage data operations.
type CollageRepository interface {
	// Create operations
	Insert(ctx context.Context, collage *model.Collage) (int64, error)

	// Read operations
	GetByID(ctx context.Context, id int64) (*model.Collage, error)
	// List omits the image payload.
	List(ctx context.Context, limit int) ([]model.Collage, error)

	// Delete operations
	Delete(ctx context.Context, id int64) error
}
