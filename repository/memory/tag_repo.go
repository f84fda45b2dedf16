package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type TagRepo struct {
	store *Store
}

var _ repository.TagRepository = (*TagRepo)(nil)

func (r *TagRepo) GetByID(ctx context.Context, id string) (*domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.tags[id]
	if !ok {
		return nil, domain.NewNotFound("tag", id)
	}
	cp := t
	return &cp, nil
}

func (r *TagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Tag, 0, len(r.store.tags))
	for _, t := range r.store.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TagRepo) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	if tag == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}
	tag.Version = 1
	tag.CreatedAt = r.store.now()
	tag.UpdatedAt = tag.CreatedAt
	r.store.tags[tag.ID] = *tag
	return tag, nil
}

func (r *TagRepo) Update(ctx context.Context, tag *domain.Tag) error {
	if tag == nil {
		return domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.tags[tag.ID]
	if !ok {
		return domain.NewNotFound("tag", tag.ID)
	}
	if current.Version != tag.Version {
		return domain.ErrConflict
	}
	tag.Version++
	tag.UpdatedAt = r.store.now()
	tag.CreatedAt = current.CreatedAt
	r.store.tags[tag.ID] = *tag
	return nil
}

func (r *TagRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tags[id]; !ok {
		return domain.NewNotFound("tag", id)
	}
	delete(r.store.tags, id)
	return nil
}
