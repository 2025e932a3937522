package repository

import (
	"context"

	"memorybook/internal/model"
)

// MediaFilter narrows a listing. Nil fields match everything.
type MediaFilter struct {
	UserID   *int64
	MemoryID *int64
}

// MediaRepository defines data access for placed media files using SQL queries only.
// No business logic here, strictly persistence operations.
type MediaRepository interface {
	// Create inserts a new record and returns it as stored.
	Create(ctx context.Context, m *model.MediaFile) (*model.MediaFile, error)

	// FindByID returns a record by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.MediaFile, error)

	// List returns a page of records, newest first, and the total matching the filter.
	List(ctx context.Context, f MediaFilter, pq PageQuery) (*PageResult[model.MediaFile], error)

	// Delete removes a record by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
