package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
	SELECT id, name, description, start_date, end_date, member_ids, version, created_at, updated_at
	FROM projects
	WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanProject(row, id)
}

func (r *projectRepository) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	const query = `
	SELECT id, name, description, start_date, end_date, member_ids, version, created_at, updated_at
	FROM projects
	WHERE ($1 = '' OR $1 = ANY(member_ids))
	ORDER BY created_at
	LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, filter.MemberID, pageLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		project, err := scanProject(rows, "")
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO projects (id, name, description, start_date, end_date, member_ids)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING version, created_at, updated_at
	`

	var end interface{}
	if project.EndDate != nil {
		end = *project.EndDate
	}

	if err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.StartDate,
		end,
		project.MemberIDs,
	).Scan(&project.Version, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return nil, err
	}

	return project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE projects
	SET name = $3,
		description = $4,
		start_date = $5,
		end_date = $6,
		member_ids = $7,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND version = $2
	RETURNING version, updated_at
	`

	var end interface{}
	if project.EndDate != nil {
		end = *project.EndDate
	}

	if err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Version,
		project.Name,
		project.Description,
		project.StartDate,
		end,
		project.MemberIDs,
	).Scan(&project.Version, &project.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return versionGuardError(ctx, r.pool, "projects", "project", project.ID)
		}
		return err
	}

	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("project", id)
	}
	return nil
}

func scanProject(row interface {
	Scan(dest ...interface{}) error
}, id string) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.StartDate,
		&project.EndDate,
		&project.MemberIDs,
		&project.Version,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("project", id)
		}
		return nil, err
	}
	return &project, nil
}
