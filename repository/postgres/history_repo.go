package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository returns a Postgres-backed implementation of HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) repository.HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Append(ctx context.Context, entry *domain.TaskHistory) error {
	if entry == nil {
		return domain.ErrInvalidPayload
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO task_history (id, task_id, changed_by, field, old_value, new_value, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	RETURNING recorded_at
	`

	var recorded interface{}
	if !entry.Timestamp.IsZero() {
		recorded = entry.Timestamp
	}

	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.TaskID,
		entry.ChangedBy,
		entry.Field,
		entry.OldValue,
		entry.NewValue,
		recorded,
	).Scan(&entry.Timestamp)
}

func (r *historyRepository) ListByTask(ctx context.Context, taskID string) ([]domain.TaskHistory, error) {
	const query = `
	SELECT id, task_id, changed_by, field, old_value, new_value, recorded_at
	FROM task_history
	WHERE task_id = $1
	ORDER BY recorded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows)
}

func (r *historyRepository) ListByUser(ctx context.Context, userID string) ([]domain.TaskHistory, error) {
	const query = `
	SELECT id, task_id, changed_by, field, old_value, new_value, recorded_at
	FROM task_history
	WHERE changed_by = $1
	ORDER BY recorded_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows)
}

func (r *historyRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM task_history WHERE recorded_at < $1`
	tag, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectHistory(rows pgx.Rows) ([]domain.TaskHistory, error) {
	var entries []domain.TaskHistory
	for rows.Next() {
		var entry domain.TaskHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.ChangedBy,
			&entry.Field,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
