package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"memorybook/internal/model"
	"memorybook/internal/repository"
)

const mediaColumns = `id, filename, original_name, media_type, storage_key, public_path, user_id, memory_id, size, duration_sec, created_at`

// MediaPostgres is a PostgreSQL implementation of repository.MediaRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type MediaPostgres struct {
	db *sql.DB
}

// NewMediaPostgres creates a new MediaPostgres repository.
func NewMediaPostgres(db *sql.DB) *MediaPostgres {
	return &MediaPostgres{db: db}
}

var _ repository.MediaRepository = (*MediaPostgres)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanMedia(s scanner) (*model.MediaFile, error) {
	var (
		m        model.MediaFile
		kind     string
		userID   sql.NullInt64
		memoryID sql.NullInt64
		duration sql.NullFloat64
	)
	if err := s.Scan(
		&m.ID,
		&m.Filename,
		&m.OriginalName,
		&kind,
		&m.StorageKey,
		&m.PublicPath,
		&userID,
		&memoryID,
		&m.Size,
		&duration,
		&m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.MediaType = model.MediaType(kind)
	if userID.Valid {
		m.UserID = &userID.Int64
	}
	if memoryID.Valid {
		m.MemoryID = &memoryID.Int64
	}
	if duration.Valid {
		m.DurationSec = &duration.Float64
	}
	return &m, nil
}

// Create inserts a new media row and returns the stored record.
func (r *MediaPostgres) Create(ctx context.Context, m *model.MediaFile) (*model.MediaFile, error) {
	q := `
		INSERT INTO media_files (` + mediaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + mediaColumns
	row := r.db.QueryRowContext(ctx, q,
		m.ID,
		m.Filename,
		m.OriginalName,
		string(m.MediaType),
		m.StorageKey,
		m.PublicPath,
		m.UserID,
		m.MemoryID,
		m.Size,
		m.DurationSec,
		m.CreatedAt,
	)
	return scanMedia(row)
}

// FindByID fetches a single media record by its ID.
func (r *MediaPostgres) FindByID(ctx context.Context, id string) (*model.MediaFile, error) {
	q := `SELECT ` + mediaColumns + ` FROM media_files WHERE id = $1`
	m, err := scanMedia(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func whereClause(f repository.MediaFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.MemoryID != nil {
		args = append(args, *f.MemoryID)
		conds = append(conds, fmt.Sprintf("memory_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns media records using LIMIT/OFFSET pagination and a total count.
func (r *MediaPostgres) List(ctx context.Context, f repository.MediaFilter, pq repository.PageQuery) (*repository.PageResult[model.MediaFile], error) {
	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_files`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	n := len(args)
	qList := `SELECT ` + mediaColumns + ` FROM media_files` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MediaFile, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.MediaFile]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a media record by ID. It does not return an error if the row does not exist.
func (r *MediaPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	return err
}
