package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type TaskRepo struct {
	store *Store
}

var _ repository.TaskRepository = (*TaskRepo)(nil)

func (r *TaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	t, ok := r.store.tasks[id]
	if !ok {
		return nil, domain.NewNotFound("task", id)
	}
	cp := cloneTask(t)
	return &cp, nil
}

func (r *TaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]domain.Task, 0, len(r.store.tasks))
	for _, t := range r.store.tasks {
		if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
			continue
		}
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *TaskRepo) ListByParent(ctx context.Context, parentTaskID string) ([]domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Task
	for _, t := range r.store.tasks {
		if t.ParentTaskID == parentTaskID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TaskRepo) CountIncomplete(ctx context.Context, projectID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	count := 0
	for _, t := range r.store.tasks {
		if t.ProjectID == projectID && t.Status != domain.StatusDone {
			count++
		}
	}
	return count, nil
}

func (r *TaskRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.Task
	for _, t := range r.store.tasks {
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(from) || t.DueDate.After(to) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out, nil
}

func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 1
	task.CreatedAt = r.store.now()
	task.UpdatedAt = task.CreatedAt
	r.store.tasks[task.ID] = cloneTask(*task)
	return task, nil
}

func (r *TaskRepo) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.tasks[task.ID]
	if !ok {
		return domain.NewNotFound("task", task.ID)
	}
	if current.Version != task.Version {
		return domain.ErrConflict
	}
	task.Version++
	task.UpdatedAt = r.store.now()
	task.CreatedAt = current.CreatedAt
	r.store.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.tasks[id]; !ok {
		return domain.NewNotFound("task", id)
	}
	delete(r.store.tasks, id)
	return nil
}

func cloneTask(t domain.Task) domain.Task {
	t.TagIDs = append([]string(nil), t.TagIDs...)
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
