package postgres

import (
	"context"
	"database/sql"

	"memorybook/internal/repository"
)

// MemoryPostgres reads the memories table.
type MemoryPostgres struct {
	db *sql.DB
}

func NewMemoryPostgres(db *sql.DB) *MemoryPostgres {
	return &MemoryPostgres{db: db}
}

var _ repository.MemoryRepository = (*MemoryPostgres)(nil)

// Owns reports whether memoryID exists and belongs to userID.
func (r *MemoryPostgres) Owns(ctx context.Context, memoryID, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM memories WHERE id = $1 AND user_id = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, memoryID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
