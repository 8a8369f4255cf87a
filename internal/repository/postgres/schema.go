package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the folder and file tables and their indexes if they do not exist.
// Sibling names are not unique.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name        TEXT NOT NULL CHECK (char_length(name) BETWEEN 1 AND 255),
				parent_id   UUID REFERENCES %[1]s(id) ON DELETE CASCADE,
				owner_id    TEXT NOT NULL,
				is_starred  BOOLEAN NOT NULL DEFAULT FALSE,
				is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
				deleted_at  TIMESTAMPTZ,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				CHECK (parent_id IS NULL OR parent_id <> id),
				CHECK (is_deleted = (deleted_at IS NOT NULL))
			)`, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_owner_parent_idx ON %[1]s (owner_id, parent_id)`, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_owner_deleted_idx ON %[1]s (owner_id) WHERE is_deleted`, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				name        TEXT NOT NULL CHECK (char_length(name) BETWEEN 1 AND 255),
				folder_id   UUID REFERENCES %s(id) ON DELETE CASCADE,
				size        BIGINT NOT NULL CHECK (size >= 0),
				mime_type   TEXT NOT NULL,
				owner_id    TEXT NOT NULL,
				storage_key TEXT NOT NULL,
				is_starred  BOOLEAN NOT NULL DEFAULT FALSE,
				is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
				deleted_at  TIMESTAMPTZ,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
				CHECK (is_deleted = (deleted_at IS NOT NULL))
			)`, tables.Files, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_owner_folder_idx ON %[1]s (owner_id, folder_id)`, tables.Files),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_owner_deleted_idx ON %[1]s (owner_id) WHERE is_deleted`, tables.Files),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// DropSchema removes the tables created by EnsureSchema
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s CASCADE`, tables.Files, tables.Folders)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}
