package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type HistoryRepo struct {
	store *Store
}

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

func (r *HistoryRepo) Append(ctx context.Context, entry *domain.TaskHistory) error {
	if entry == nil {
		return domain.ErrInvalidPayload
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.store.now()
	}
	r.store.history = append(r.store.history, *entry)
	return nil
}

func (r *HistoryRepo) ListByTask(ctx context.Context, taskID string) ([]domain.TaskHistory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.TaskHistory
	for _, h := range r.store.history {
		if h.TaskID == taskID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *HistoryRepo) ListByUser(ctx context.Context, userID string) ([]domain.TaskHistory, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []domain.TaskHistory
	for _, h := range r.store.history {
		if h.ChangedBy == userID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *HistoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.history[:0]
	var removed int64
	for _, h := range r.store.history {
		if h.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	r.store.history = kept
	return removed, nil
}
