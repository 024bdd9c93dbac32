package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

//go:embed migrations/002_roles_verification.up.sql
var rolesVerificationSQL string

var requiredTables = []string{
	"accounts",
	"listings",
	"equipment_requests",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after migration: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	// ── Incremental migrations ───────────────────────────────────
	// 002: role and verification columns (add if missing).
	if err := db.applyRolesVerification(ctx); err != nil {
		return fmt.Errorf("apply roles/verification migration: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

// applyRolesVerification runs migration 002 idempotently.
// The SQL uses IF NOT EXISTS so it is safe to re-run.
func (db *DB) applyRolesVerification(ctx context.Context) error {
	var hasColumn bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = 'public'
			  AND table_name = 'accounts'
			  AND column_name = 'role'
		)
	`).Scan(&hasColumn)
	if err != nil {
		return fmt.Errorf("check role column: %w", err)
	}

	if !hasColumn {
		slog.Info("applying roles/verification migration (002)")
		if _, err := db.Pool.Exec(ctx, rolesVerificationSQL); err != nil {
			return fmt.Errorf("exec roles/verification SQL: %w", err)
		}
		slog.Info("roles/verification migration applied")
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
