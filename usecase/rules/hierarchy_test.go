package rules

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

func seedTask(t *testing.T, store *memory.Store, task domain.Task) domain.Task {
	t.Helper()
	created, err := store.Tasks().Create(context.Background(), &task)
	require.NoError(t, err)
	return *created
}

func TestWouldCreateCycle_SelfParent(t *testing.T) {
	v := NewHierarchyValidator(memory.NewStore().Tasks(), 0, nil)

	cycle, err := v.WouldCreateCycle(context.Background(), "task-1", "task-1")
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestWouldCreateCycle_DirectLoop(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	parent := seedTask(t, store, domain.Task{ID: "a", Title: "a", ProjectID: "p1"})
	child := seedTask(t, store, domain.Task{ID: "b", Title: "b", ProjectID: "p1", ParentTaskID: parent.ID})

	v := NewHierarchyValidator(store.Tasks(), 0, nil)

	// Re-parenting a under its own child closes the loop.
	cycle, err := v.WouldCreateCycle(ctx, parent.ID, child.ID)
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestWouldCreateCycle_DeepChain(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// a <- b <- c <- d
	seedTask(t, store, domain.Task{ID: "a", Title: "a", ProjectID: "p1"})
	seedTask(t, store, domain.Task{ID: "b", Title: "b", ProjectID: "p1", ParentTaskID: "a"})
	seedTask(t, store, domain.Task{ID: "c", Title: "c", ProjectID: "p1", ParentTaskID: "b"})
	seedTask(t, store, domain.Task{ID: "d", Title: "d", ProjectID: "p1", ParentTaskID: "c"})

	v := NewHierarchyValidator(store.Tasks(), 0, nil)

	cycle, err := v.WouldCreateCycle(ctx, "a", "d")
	require.NoError(t, err)
	assert.True(t, cycle)

	// An unrelated task can parent under d without closing anything.
	seedTask(t, store, domain.Task{ID: "e", Title: "e", ProjectID: "p1"})
	cycle, err = v.WouldCreateCycle(ctx, "e", "d")
	require.NoError(t, err)
	assert.False(t, cycle)
}

func TestWouldCreateCycle_BrokenChain(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// b points at a parent that no longer exists.
	seedTask(t, store, domain.Task{ID: "b", Title: "b", ProjectID: "p1", ParentTaskID: "missing"})

	v := NewHierarchyValidator(store.Tasks(), 0, nil)

	cycle, err := v.WouldCreateCycle(ctx, "x", "b")
	require.NoError(t, err)
	assert.False(t, cycle)
}

func TestWouldCreateCycle_DepthBoundExceeded(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// Chain of 15 tasks, walk bounded at 10: the check gives up and reports
	// no cycle even though the root would close one.
	prev := ""
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("t%d", i)
		seedTask(t, store, domain.Task{ID: id, Title: id, ProjectID: "p1", ParentTaskID: prev})
		prev = id
	}

	v := NewHierarchyValidator(store.Tasks(), 10, nil)

	cycle, err := v.WouldCreateCycle(ctx, "t0", "t14")
	require.NoError(t, err)
	assert.False(t, cycle)

	// A wider bound finds it.
	v = NewHierarchyValidator(store.Tasks(), 20, nil)
	cycle, err = v.WouldCreateCycle(ctx, "t0", "t14")
	require.NoError(t, err)
	assert.True(t, cycle)
}

func TestValidateParent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sameProject := seedTask(t, store, domain.Task{ID: "parent", Title: "parent", ProjectID: "p1"})
	otherProject := seedTask(t, store, domain.Task{ID: "foreign", Title: "foreign", ProjectID: "p2"})
	task := seedTask(t, store, domain.Task{ID: "child", Title: "child", ProjectID: "p1"})

	v := NewHierarchyValidator(store.Tasks(), 0, nil)

	tests := []struct {
		name     string
		parentID string
		wantCode domain.ErrorCode
		wantRule string
	}{
		{name: "valid parent", parentID: sameProject.ID},
		{name: "parent not found", parentID: "nope", wantCode: domain.ErrCodeNotFound},
		{name: "cross-project parent", parentID: otherProject.ID, wantCode: domain.ErrCodeRule, wantRule: domain.RuleSameProject},
		{name: "self parent", parentID: task.ID, wantCode: domain.ErrCodeCircular, wantRule: domain.RuleCircular},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateParent(ctx, &task, tt.parentID)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tt.wantCode))
			if tt.wantRule != "" {
				assert.Equal(t, tt.wantRule, domain.RuleCode(err))
			}
		})
	}
}
