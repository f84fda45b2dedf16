package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

// ProjectFilter narrows project listings. A Limit of zero or less returns
// the full collection, which the duplicate-name guard depends on.
type ProjectFilter struct {
	MemberID string
	Limit    int
	Offset   int
}

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	// Update is version-guarded; a stale version yields domain.ErrConflict.
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id string) error
}
