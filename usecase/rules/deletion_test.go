package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

func TestProjectDeletionGuard(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	seedTask(t, store, domain.Task{ID: "done", Title: "done", ProjectID: "busy", Status: domain.StatusDone})
	seedTask(t, store, domain.Task{ID: "open", Title: "open", ProjectID: "busy", Status: domain.StatusTodo})
	seedTask(t, store, domain.Task{ID: "finished", Title: "finished", ProjectID: "calm", Status: domain.StatusDone})

	guard := NewProjectDeletionGuard(store.Tasks())

	ok, err := guard.CanDelete(ctx, "busy")
	require.NoError(t, err)
	assert.False(t, ok)

	err = guard.Validate(ctx, "busy")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeRule))
	assert.Equal(t, domain.RuleProjectDeletion, domain.RuleCode(err))

	// All tasks DONE: deletable.
	ok, err = guard.CanDelete(ctx, "calm")
	require.NoError(t, err)
	assert.True(t, ok)

	// No tasks at all: deletable.
	ok, err = guard.CanDelete(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTaskDeletionGuard(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	parent := seedTask(t, store, domain.Task{ID: "parent", Title: "parent", ProjectID: "p1"})
	// A DONE subtask still blocks deletion; only existence matters.
	seedTask(t, store, domain.Task{ID: "sub", Title: "sub", ProjectID: "p1", ParentTaskID: parent.ID, Status: domain.StatusDone})
	leaf := seedTask(t, store, domain.Task{ID: "leaf", Title: "leaf", ProjectID: "p1"})

	guard := NewTaskDeletionGuard(store.Tasks())

	err := guard.Validate(ctx, parent.ID)
	require.Error(t, err)
	assert.Equal(t, domain.RuleTaskDeletion, domain.RuleCode(err))

	assert.NoError(t, guard.Validate(ctx, leaf.ID))
}
