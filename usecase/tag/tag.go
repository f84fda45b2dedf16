// Package tag implements tag commands with the case-insensitive
// duplicate-name guard.
package tag

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase/rules"
)

type UseCase struct {
	tags   repository.TagRepository
	logger *zap.Logger
}

func New(tags repository.TagRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{tags: tags, logger: logger}
}

func (uc *UseCase) Create(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if err := uc.checkDuplicateName(ctx, name, ""); err != nil {
		return nil, err
	}

	created, err := uc.tags.Create(ctx, &domain.Tag{Name: name})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("tag created", zap.String("tag_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (uc *UseCase) Rename(ctx context.Context, id, name string) (*domain.Tag, error) {
	tag, err := uc.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if name == tag.Name {
		return tag, nil
	}
	if err := uc.checkDuplicateName(ctx, name, tag.ID); err != nil {
		return nil, err
	}

	tag.Name = name
	if err := uc.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.tags.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.tags.Delete(ctx, id)
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	return uc.tags.GetByID(ctx, id)
}

func (uc *UseCase) List(ctx context.Context) ([]domain.Tag, error) {
	return uc.tags.List(ctx)
}

func (uc *UseCase) checkDuplicateName(ctx context.Context, name, excludeID string) error {
	existing, err := uc.tags.List(ctx)
	if err != nil {
		return err
	}
	named := make([]rules.Named, len(existing))
	for i, t := range existing {
		named[i] = rules.Named{ID: t.ID, Value: t.Name}
	}
	if rules.IsDuplicate(name, excludeID, named) {
		return domain.NewDuplicate("tag", "name", name)
	}
	return nil
}
