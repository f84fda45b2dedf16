package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type ProjectRepo struct {
	store *Store
}

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.projects[id]
	if !ok {
		return nil, domain.NewNotFound("project", id)
	}
	cp := cloneProject(p)
	return &cp, nil
}

func (r *ProjectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Project, 0, len(r.store.projects))
	for _, p := range r.store.projects {
		if filter.MemberID != "" && !p.HasMember(filter.MemberID) {
			continue
		}
		out = append(out, cloneProject(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.Version = 1
	project.CreatedAt = r.store.now()
	project.UpdatedAt = project.CreatedAt
	r.store.projects[project.ID] = cloneProject(*project)
	return project, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.projects[project.ID]
	if !ok {
		return domain.NewNotFound("project", project.ID)
	}
	if current.Version != project.Version {
		return domain.ErrConflict
	}
	project.Version++
	project.UpdatedAt = r.store.now()
	project.CreatedAt = current.CreatedAt
	r.store.projects[project.ID] = cloneProject(*project)
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.projects[id]; !ok {
		return domain.NewNotFound("project", id)
	}
	delete(r.store.projects, id)
	return nil
}

func cloneProject(p domain.Project) domain.Project {
	p.MemberIDs = append([]string(nil), p.MemberIDs...)
	return p
}
