package repository

import (
	"context"

	"github.com/taskforge/backend/domain"
)

type TagRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
	Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id string) error
}
