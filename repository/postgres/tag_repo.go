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

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository returns a Postgres-backed implementation of TagRepository.
func NewTagRepository(pool *pgxpool.Pool) repository.TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	const query = `
	SELECT id, name, version, created_at, updated_at
	FROM tags
	WHERE id = $1
	`
	var tag domain.Tag
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tag.ID, &tag.Name, &tag.Version, &tag.CreatedAt, &tag.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("tag", id)
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	const query = `
	SELECT id, name, version, created_at, updated_at
	FROM tags
	ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Version, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	if tag == nil {
		return nil, domain.ErrInvalidPayload
	}
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tags (id, name)
	VALUES ($1, $2)
	RETURNING version, created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query, tag.ID, tag.Name).
		Scan(&tag.Version, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	if tag == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tags
	SET name = $3,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND version = $2
	RETURNING version, updated_at
	`
	if err := r.pool.QueryRow(ctx, query, tag.ID, tag.Version, tag.Name).
		Scan(&tag.Version, &tag.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return versionGuardError(ctx, r.pool, "tags", "tag", tag.ID)
		}
		return err
	}
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tags WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("tag", id)
	}
	return nil
}
