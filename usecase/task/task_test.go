package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository/memory"
)

// recorder collects history entries in memory for assertions.
type recorder struct {
	entries []domain.TaskHistory
}

func (r *recorder) Record(ctx context.Context, entry domain.TaskHistory) error {
	r.entries = append(r.entries, entry)
	return nil
}

// invalidations records which projects had their cached statistics dropped.
type invalidations struct {
	projects []string
}

func (i *invalidations) Invalidate(ctx context.Context, projectID string) error {
	i.projects = append(i.projects, projectID)
	return nil
}

type fixture struct {
	store    *memory.Store
	recorder *recorder
	stats    *invalidations
	uc       *UseCase
	project  domain.Project
	tagBug   domain.Tag
	tagDocs  domain.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	rec := &recorder{}

	for _, u := range []domain.User{
		{ID: "alice", Name: "Alice", Email: "alice@example.com"},
		{ID: "bob", Name: "Bob", Email: "bob@example.com"},
		{ID: "eve", Name: "Eve", Email: "eve@example.com"},
	} {
		user := u
		_, err := store.Users().Create(ctx, &user)
		require.NoError(t, err)
	}

	project := domain.Project{
		ID:        "p1",
		Name:      "Launch",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MemberIDs: []string{"alice", "bob"},
	}
	_, err := store.Projects().Create(ctx, &project)
	require.NoError(t, err)

	tagBug := domain.Tag{ID: "bug", Name: "bug"}
	_, err = store.Tags().Create(ctx, &tagBug)
	require.NoError(t, err)
	tagDocs := domain.Tag{ID: "docs", Name: "docs"}
	_, err = store.Tags().Create(ctx, &tagDocs)
	require.NoError(t, err)

	stats := &invalidations{}
	uc := New(store.Tasks(), store.Projects(), store.Users(), store.Tags(), rec, stats, Config{}, nil)

	return &fixture{
		store:    store,
		recorder: rec,
		stats:    stats,
		uc:       uc,
		project:  project,
		tagBug:   tagBug,
		tagDocs:  tagDocs,
	}
}

func (f *fixture) createTask(t *testing.T, input CreateInput) *domain.Task {
	t.Helper()
	if input.ProjectID == "" {
		input.ProjectID = f.project.ID
	}
	task, err := f.uc.Create(context.Background(), input)
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)

	task := f.createTask(t, CreateInput{Title: "  Ship it  "})

	assert.Equal(t, "Ship it", task.Title)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, 1, task.Version)
	assert.NotEmpty(t, task.ID)

	// Creation writes no history.
	assert.Empty(t, f.recorder.entries)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createTask(t, CreateInput{Title: "parent"})

	otherProject := domain.Project{
		ID:        "p2",
		Name:      "Side",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := f.store.Projects().Create(ctx, &otherProject)
	require.NoError(t, err)

	beforeStart := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    CreateInput
		wantCode domain.ErrorCode
		wantRule string
	}{
		{
			name:     "empty title",
			input:    CreateInput{Title: "   ", ProjectID: "p1"},
			wantCode: domain.ErrCodeInvalid,
		},
		{
			name:     "unknown project",
			input:    CreateInput{Title: "x", ProjectID: "nope"},
			wantCode: domain.ErrCodeNotFound,
		},
		{
			name:     "due date before project start",
			input:    CreateInput{Title: "x", ProjectID: "p1", DueDate: &beforeStart},
			wantCode: domain.ErrCodeRule,
			wantRule: domain.RuleDueDate,
		},
		{
			name:     "unknown assignee",
			input:    CreateInput{Title: "x", ProjectID: "p1", AssigneeID: "ghost"},
			wantCode: domain.ErrCodeNotFound,
		},
		{
			name:     "assignee not a member",
			input:    CreateInput{Title: "x", ProjectID: "p1", AssigneeID: "eve"},
			wantCode: domain.ErrCodeAssignment,
			wantRule: domain.RuleAssignment,
		},
		{
			name:     "parent in another project",
			input:    CreateInput{Title: "x", ProjectID: "p2", ParentTaskID: parent.ID},
			wantCode: domain.ErrCodeRule,
			wantRule: domain.RuleSameProject,
		},
		{
			name:     "unknown tag",
			input:    CreateInput{Title: "x", ProjectID: "p1", TagIDs: []string{"nope"}},
			wantCode: domain.ErrCodeNotFound,
		},
		{
			name:     "unknown priority",
			input:    CreateInput{Title: "x", ProjectID: "p1", Priority: "URGENT"},
			wantCode: domain.ErrCodeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tt.wantCode), "got %v", err)
			if tt.wantRule != "" {
				assert.Equal(t, tt.wantRule, domain.RuleCode(err))
			}
		})
	}
}

func TestUpdate_RecordsOneHistoryRowPerChangedField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task := f.createTask(t, CreateInput{Title: "Draft", Description: "old"})

	high := domain.PriorityHigh
	updated, err := f.uc.Update(ctx, task.ID, UpdateInput{
		Title:       strPtr("Final"),
		Description: strPtr("new"),
		Priority:    &high,
	}, "alice")
	require.NoError(t, err)

	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, 2, updated.Version)

	require.Len(t, f.recorder.entries, 3)
	byField := map[string]domain.TaskHistory{}
	for _, e := range f.recorder.entries {
		byField[e.Field] = e
		assert.Equal(t, task.ID, e.TaskID)
		assert.Equal(t, "alice", e.ChangedBy)
	}
	assert.Equal(t, "Draft", byField[domain.FieldTitle].OldValue)
	assert.Equal(t, "Final", byField[domain.FieldTitle].NewValue)
	assert.Equal(t, "old", byField[domain.FieldDescription].OldValue)
	assert.Equal(t, string(domain.PriorityMedium), byField[domain.FieldPriority].OldValue)
	assert.Equal(t, string(domain.PriorityHigh), byField[domain.FieldPriority].NewValue)
}

func TestUpdate_NoopWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task := f.createTask(t, CreateInput{Title: "Stable"})

	updated, err := f.uc.Update(ctx, task.ID, UpdateInput{Title: strPtr("Stable")}, "alice")
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Version)
	assert.Empty(t, f.recorder.entries)
}

func TestUpdate_ParentCycleRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.createTask(t, CreateInput{Title: "a"})
	b := f.createTask(t, CreateInput{Title: "b", ParentTaskID: a.ID})

	// a under b closes a loop.
	_, err := f.uc.Update(ctx, a.ID, UpdateInput{ParentTaskID: strPtr(b.ID)}, "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeCircular))
	assert.Empty(t, f.recorder.entries)

	// The task is untouched.
	current, err := f.uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, current.ParentTaskID)
	assert.Equal(t, 1, current.Version)
}

func TestChangeStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createTask(t, CreateInput{Title: "parent"})
	f.createTask(t, CreateInput{Title: "sub", ParentTaskID: parent.ID})

	// Blocked while the subtask is open.
	_, err := f.uc.ChangeStatus(ctx, parent.ID, domain.StatusDone, "alice")
	require.Error(t, err)
	assert.Equal(t, domain.RuleCompletion, domain.RuleCode(err))
	assert.Empty(t, f.recorder.entries)

	// Free transition writes one status row.
	updated, err := f.uc.ChangeStatus(ctx, parent.ID, domain.StatusInProgress, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	require.Len(t, f.recorder.entries, 1)
	assert.Equal(t, domain.FieldStatus, f.recorder.entries[0].Field)
	assert.Equal(t, string(domain.StatusTodo), f.recorder.entries[0].OldValue)
	assert.Equal(t, string(domain.StatusInProgress), f.recorder.entries[0].NewValue)

	// Same-status change is a no-op.
	f.recorder.entries = nil
	_, err = f.uc.ChangeStatus(ctx, parent.ID, domain.StatusInProgress, "alice")
	require.NoError(t, err)
	assert.Empty(t, f.recorder.entries)
}

func TestAssignAndUnassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task := f.createTask(t, CreateInput{Title: "work"})

	// Non-member rejected.
	_, err := f.uc.Assign(ctx, task.ID, "eve", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeAssignment))

	assigned, err := f.uc.Assign(ctx, task.ID, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, "bob", assigned.AssigneeID)
	require.Len(t, f.recorder.entries, 1)
	assert.Equal(t, domain.FieldAssignee, f.recorder.entries[0].Field)
	assert.Equal(t, "", f.recorder.entries[0].OldValue)
	assert.Equal(t, "bob", f.recorder.entries[0].NewValue)

	unassigned, err := f.uc.Unassign(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.Empty(t, unassigned.AssigneeID)
	require.Len(t, f.recorder.entries, 2)
	assert.Equal(t, "bob", f.recorder.entries[1].OldValue)
	assert.Equal(t, "", f.recorder.entries[1].NewValue)
}

func TestDelete_BlockedBySubtasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	parent := f.createTask(t, CreateInput{Title: "parent"})
	sub := f.createTask(t, CreateInput{Title: "sub", ParentTaskID: parent.ID})

	err := f.uc.Delete(ctx, parent.ID)
	require.Error(t, err)
	assert.Equal(t, domain.RuleTaskDeletion, domain.RuleCode(err))

	// Delete the subtask first, then the parent.
	require.NoError(t, f.uc.Delete(ctx, sub.ID))
	require.NoError(t, f.uc.Delete(ctx, parent.ID))

	_, err = f.uc.GetByID(ctx, parent.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestAddAndRemoveTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task := f.createTask(t, CreateInput{Title: "tagged"})

	withTag, err := f.uc.AddTag(ctx, task.ID, "bug", "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bug"}, withTag.TagIDs)

	// Attaching twice is a duplicate.
	_, err = f.uc.AddTag(ctx, task.ID, "bug", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDuplicate))

	// Removing an absent tag is not found.
	_, err = f.uc.RemoveTag(ctx, task.ID, "docs", "alice")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	removed, err := f.uc.RemoveTag(ctx, task.ID, "bug", "alice")
	require.NoError(t, err)
	assert.Empty(t, removed.TagIDs)
}

func TestSearch_FiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	f.createTask(t, CreateInput{Title: "Fix crash", DueDate: &later, TagIDs: []string{"bug"}})
	f.createTask(t, CreateInput{Title: "Write guide", DueDate: &sooner, TagIDs: []string{"docs"}})
	f.createTask(t, CreateInput{Title: "Fix typo", TagIDs: []string{"bug", "docs"}})

	results, err := f.uc.Search(ctx, domain.TaskSearchCriteria{Keyword: "fix", TagIDs: []string{"bug"}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Due-dated task first, task without due date last.
	assert.Equal(t, "Fix crash", results[0].Title)
	assert.Equal(t, "Fix typo", results[1].Title)
}

func TestListByProject_UnknownProject(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ListByProject(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestWritesDropCachedStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task := f.createTask(t, CreateInput{Title: "cached"})
	assert.Equal(t, []string{"p1"}, f.stats.projects)

	_, err := f.uc.ChangeStatus(ctx, task.ID, domain.StatusInProgress, "alice")
	require.NoError(t, err)
	assert.Len(t, f.stats.projects, 2)

	_, err = f.uc.Update(ctx, task.ID, UpdateInput{Title: strPtr("renamed")}, "alice")
	require.NoError(t, err)
	assert.Len(t, f.stats.projects, 3)

	// Assignment and tag writes leave the cached counters untouched.
	_, err = f.uc.Assign(ctx, task.ID, "alice", "alice")
	require.NoError(t, err)
	_, err = f.uc.AddTag(ctx, task.ID, f.tagBug.ID, "alice")
	require.NoError(t, err)
	assert.Len(t, f.stats.projects, 3)

	require.NoError(t, f.uc.Delete(ctx, task.ID))
	assert.Equal(t, []string{"p1", "p1", "p1", "p1"}, f.stats.projects)
}
