package project

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

func newUseCase(t *testing.T) (*UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, u := range []domain.User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com"},
		{ID: "bob", Name: "Bob", Email: "bob@example.com"},
	} {
		user := u
		_, err := store.Users().Create(context.Background(), &user)
		require.NoError(t, err)
	}
	return New(store.Projects(), store.Users(), store.Tasks(), nil), store
}

func start() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestCreate(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, CreateInput{
		Name:      "  Launch  ",
		StartDate: start(),
		MemberIDs: []string{"alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Launch", created.Name)
	assert.Equal(t, 1, created.Version)

	tests := []struct {
		name     string
		input    CreateInput
		wantCode domain.ErrorCode
	}{
		{"empty name", CreateInput{Name: " ", StartDate: start()}, domain.ErrCodeInvalid},
		{"missing start date", CreateInput{Name: "x"}, domain.ErrCodeInvalid},
		{"duplicate name", CreateInput{Name: "launch", StartDate: start()}, domain.ErrCodeDuplicate},
		{"unknown member", CreateInput{Name: "y", StartDate: start(), MemberIDs: []string{"ghost"}}, domain.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestCreate_DuplicateGuardScansFullCollection(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	// The guard must compare against every project, not a page of them.
	var last string
	for i := 0; i < 120; i++ {
		last = fmt.Sprintf("Project %03d", i)
		_, err := uc.Create(ctx, CreateInput{Name: last, StartDate: start()})
		require.NoError(t, err)
	}

	_, err := uc.Create(ctx, CreateInput{Name: last, StartDate: start()})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))
}

func TestUpdate_DuplicateNameExcludesSelf(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	first, err := uc.Create(ctx, CreateInput{Name: "Alpha", StartDate: start()})
	require.NoError(t, err)
	_, err = uc.Create(ctx, CreateInput{Name: "Beta", StartDate: start()})
	require.NoError(t, err)

	// Renaming to its own name is fine.
	same := "Alpha"
	updated, err := uc.Update(ctx, first.ID, UpdateInput{Name: &same})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", updated.Name)

	// Taking another project's name is not, case-insensitively.
	taken := "BETA"
	_, err = uc.Update(ctx, first.ID, UpdateInput{Name: &taken})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))
}

func TestDelete_BlockedByIncompleteTasks(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	project, err := uc.Create(ctx, CreateInput{Name: "Busy", StartDate: start()})
	require.NoError(t, err)

	task := domain.Task{Title: "open", ProjectID: project.ID, Status: domain.StatusTodo, Priority: domain.PriorityMedium}
	created, err := store.Tasks().Create(ctx, &task)
	require.NoError(t, err)

	ok, err := uc.CanDelete(ctx, project.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	err = uc.Delete(ctx, project.ID)
	require.Error(t, err)
	assert.Equal(t, domain.RuleProjectDeletion, domain.RuleCode(err))

	// Completing the task unblocks deletion.
	created.Status = domain.StatusDone
	require.NoError(t, store.Tasks().Update(ctx, created))

	ok, err = uc.CanDelete(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, uc.Delete(ctx, project.ID))

	_, err = uc.GetByID(ctx, project.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestMembers(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	project, err := uc.Create(ctx, CreateInput{Name: "Team", StartDate: start(), MemberIDs: []string{"alice"}})
	require.NoError(t, err)

	withBob, err := uc.AddMember(ctx, project.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, withBob.MemberIDs)

	_, err = uc.AddMember(ctx, project.ID, "bob")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))

	_, err = uc.AddMember(ctx, project.ID, "ghost")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	removed, err := uc.RemoveMember(ctx, project.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, removed.MemberIDs)

	_, err = uc.RemoveMember(ctx, project.ID, "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestListByMember(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, CreateInput{Name: "Mine", StartDate: start(), MemberIDs: []string{"alice"}})
	require.NoError(t, err)
	_, err = uc.Create(ctx, CreateInput{Name: "Theirs", StartDate: start(), MemberIDs: []string{"bob"}})
	require.NoError(t, err)

	mine, err := uc.ListByMember(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Name)

	_, err = uc.ListByMember(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
