// Package memory provides in-memory implementations of the repository
// interfaces for tests and ephemeral environments. They mirror the Postgres
// semantics, including the per-entity version guard.
package memory

import (
	"sync"
	"time"

	"github.com/taskforge/backend/domain"
)

// Store holds every entity kind behind one mutex and hands out per-entity
// repositories that share it. Commands run one logical transaction at a
// time, so coarse locking is enough here.
type Store struct {
	mu       sync.RWMutex
	projects map[string]domain.Project
	tasks    map[string]domain.Task
	tags     map[string]domain.Tag
	users    map[string]domain.User
	history  []domain.TaskHistory
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		projects: make(map[string]domain.Project),
		tasks:    make(map[string]domain.Task),
		tags:     make(map[string]domain.Tag),
		users:    make(map[string]domain.User),
		now:      time.Now,
	}
}

// WithClock overrides the store clock. Tests use it to pin timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Projects() *ProjectRepo { return &ProjectRepo{store: s} }
func (s *Store) Tasks() *TaskRepo       { return &TaskRepo{store: s} }
func (s *Store) Tags() *TagRepo         { return &TagRepo{store: s} }
func (s *Store) Users() *UserRepo       { return &UserRepo{store: s} }
func (s *Store) History() *HistoryRepo  { return &HistoryRepo{store: s} }

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
