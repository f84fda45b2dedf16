package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type UserRepo struct {
	store *Store
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	cp := u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.NewNotFound("user", email)
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Version = 1
	user.CreatedAt = r.store.now()
	user.UpdatedAt = user.CreatedAt
	r.store.users[user.ID] = *user
	return user, nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.users[user.ID]
	if !ok {
		return domain.NewNotFound("user", user.ID)
	}
	if current.Version != user.Version {
		return domain.ErrConflict
	}
	user.Version++
	user.UpdatedAt = r.store.now()
	user.CreatedAt = current.CreatedAt
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[id]; !ok {
		return domain.NewNotFound("user", id)
	}
	delete(r.store.users, id)
	return nil
}
