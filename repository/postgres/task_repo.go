package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

const taskColumns = `id, title, description, status, priority, due_date,
	project_id, COALESCE(assignee_id, ''), COALESCE(parent_task_id, ''),
	tag_ids, version, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row, id)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR project_id = $1)
	  AND ($2 = '' OR assignee_id = $2)
	  AND ($3 = '' OR status = $3)
	ORDER BY created_at
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.ProjectID, filter.AssigneeID, string(filter.Status),
		pageLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) ListByParent(ctx context.Context, parentTaskID string) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE parent_task_id = $1
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, parentTaskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) CountIncomplete(ctx context.Context, projectID string) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM tasks
	WHERE project_id = $1 AND status <> $2
	`
	var count int
	if err := r.pool.QueryRow(ctx, query, projectID, string(domain.StatusDone)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE due_date IS NOT NULL AND due_date >= $1 AND due_date <= $2
	ORDER BY due_date
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, status, priority, due_date, project_id, assignee_id, parent_task_id, tag_ids)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING version, created_at, updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = *task.DueDate
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		due,
		task.ProjectID,
		nullString(task.AssigneeID),
		nullString(task.ParentTaskID),
		task.TagIDs,
	).Scan(&task.Version, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		status = $5,
		priority = $6,
		due_date = $7,
		assignee_id = $8,
		parent_task_id = $9,
		tag_ids = $10,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND version = $2
	RETURNING version, updated_at
	`

	var due interface{}
	if task.DueDate != nil {
		due = *task.DueDate
	}

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Version,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		due,
		nullString(task.AssigneeID),
		nullString(task.ParentTaskID),
		task.TagIDs,
	).Scan(&task.Version, &task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return versionGuardError(ctx, r.pool, "tasks", "task", task.ID)
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("task", id)
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}, id string) (*domain.Task, error) {
	var task domain.Task
	var status, priority string

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.ProjectID,
		&task.AssigneeID,
		&task.ParentTaskID,
		&task.TagIDs,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("task", id)
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	return &task, nil
}

func collectTasks(rows pgx.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows, "")
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
