package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// steps run in order. Names are recorded in schema_migrations, so a step must never be
// renamed or edited once released; append new steps instead.
var steps = []migrationStep{
	{
		Name: "create_extension_pgcrypto",
		SQL:  `CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	},
	{
		Name: "create_table_memories",
		SQL: `CREATE TABLE IF NOT EXISTS memories (
  id          BIGSERIAL        PRIMARY KEY,
  user_id     BIGINT           NOT NULL,
  title       TEXT             NOT NULL,
  description TEXT,
  memory_date DATE,
  latitude    DOUBLE PRECISION,
  longitude   DOUBLE PRECISION,
  spotify_url TEXT,
  color       TEXT,
  created_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_memories_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_memories_user_id ON memories (user_id);`,
	},
	{
		Name: "create_table_media_files",
		SQL: `CREATE TABLE IF NOT EXISTS media_files (
  id            UUID             PRIMARY KEY DEFAULT gen_random_uuid(),
  filename      TEXT             NOT NULL,
  original_name TEXT             NOT NULL,
  media_type    TEXT             NOT NULL CHECK (media_type IN ('photo', 'video')),
  storage_key   TEXT             NOT NULL UNIQUE,
  public_path   TEXT             NOT NULL,
  user_id       BIGINT,
  memory_id     BIGINT           REFERENCES memories (id) ON DELETE CASCADE,
  size          BIGINT           NOT NULL CHECK (size >= 0),
  duration_sec  DOUBLE PRECISION,
  created_at    TIMESTAMPTZ      NOT NULL DEFAULT now(),
  CHECK ((user_id IS NULL) = (memory_id IS NULL))
);`,
	},
	{
		Name: "create_index_media_files_scope",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_media_files_scope ON media_files (user_id, memory_id);`,
	},
	{
		Name: "create_index_media_files_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_media_files_created_at ON media_files (created_at);`,
	},
}

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
  name       TEXT        PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureMigrated applies every step not yet recorded in schema_migrations. Each step
// runs in its own transaction together with its ledger row.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Error("db_migration_failed", "status", "error",
			"error_message", fmt.Sprintf("failed to create ledger: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to create ledger: %w", err)
	}

	applied, err := appliedSteps(ctx, db)
	if err != nil {
		log.Error("db_migration_failed", "status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	pending := make([]migrationStep, 0, len(steps))
	for _, s := range steps {
		if _, ok := applied[s.Name]; !ok {
			pending = append(pending, s)
		}
	}
	if len(pending) == 0 {
		log.Info("db_migration_skip", "status", "success",
			"detail", "schema up to date",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress", "pending", len(pending))

	for _, step := range pending {
		stepStart := time.Now()
		if err := applyStep(ctx, db, step); err != nil {
			log.Error("db_migration_failed", "status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step", "status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success", "status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func appliedSteps(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read ledger: %w", err)
		}
		out[name] = struct{}{}
	}
	return out, rows.Err()
}

func applyStep(ctx context.Context, db *sql.DB, step migrationStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, step.Name); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
