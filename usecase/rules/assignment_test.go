package rules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

func TestAssignmentValidator(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Projects().Create(ctx, &domain.Project{
		ID:        "p1",
		Name:      "Launch",
		StartDate: time.Now(),
		MemberIDs: []string{"alice", "bob"},
	})
	require.NoError(t, err)

	task := seedTask(t, store, domain.Task{ID: "t1", Title: "t1", ProjectID: "p1"})

	v := NewAssignmentValidator(store.Tasks(), store.Projects())

	ok, err := v.CanAssign(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.CanAssign(ctx, task.ID, "mallory")
	require.NoError(t, err)
	assert.False(t, ok)

	err = v.Validate(ctx, "p1", "mallory")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeAssignment))
	assert.Equal(t, domain.RuleAssignment, domain.RuleCode(err))

	// Unknown project surfaces NOT_FOUND, not an assignment violation.
	_, err = v.CanAssignToProject(ctx, "nope", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
