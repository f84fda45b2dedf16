package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
)

// pageLimit converts a filter limit into a LIMIT argument. Zero or negative
// means the full collection; Postgres reads a NULL limit as LIMIT ALL. The
// duplicate guards and report scans depend on unbounded reads, so no cap is
// applied here; page sizes are bounded where requests are parsed.
func pageLimit(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// versionGuardError resolves why a version-guarded UPDATE touched no rows:
// a missing row means NOT_FOUND, an existing row means a stale version.
func versionGuardError(ctx context.Context, pool *pgxpool.Pool, table, entity, id string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id = $1)`
	if err := pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.NewNotFound(entity, id)
	}
	return domain.ErrConflict
}
