package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskforge/backend/domain"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestCompiler() *Compiler {
	return &Compiler{Now: func() time.Time { return testNow }}
}

func datePtr(t time.Time) *time.Time { return &t }
func boolPtr(b bool) *bool           { return &b }

func fixtureTasks() []domain.Task {
	yesterday := testNow.AddDate(0, 0, -1)
	tomorrow := testNow.AddDate(0, 0, 1)
	nextWeek := testNow.AddDate(0, 0, 7)

	return []domain.Task{
		{
			ID: "write-docs", Title: "Write API docs", Description: "user guide",
			Status: domain.StatusTodo, Priority: domain.PriorityLow,
			ProjectID: "p1", AssigneeID: "alice", DueDate: &tomorrow,
			TagIDs: []string{"docs"}, CreatedAt: testNow.AddDate(0, 0, -10),
		},
		{
			ID: "fix-login", Title: "Fix login bug", Description: "session drops",
			Status: domain.StatusInProgress, Priority: domain.PriorityHigh,
			ProjectID: "p1", AssigneeID: "bob", DueDate: &yesterday,
			TagIDs: []string{"bug", "auth"}, CreatedAt: testNow.AddDate(0, 0, -5),
		},
		{
			ID: "ship-release", Title: "Ship release", Description: "",
			Status: domain.StatusTodo, Priority: domain.PriorityHigh,
			ProjectID: "p2", DueDate: &nextWeek,
			CreatedAt: testNow.AddDate(0, 0, -2),
		},
		{
			ID: "subtask", Title: "Polish docs intro", Description: "",
			Status: domain.StatusDone, Priority: domain.PriorityMedium,
			ProjectID: "p1", ParentTaskID: "write-docs", DueDate: &yesterday,
			CreatedAt: testNow.AddDate(0, 0, -1),
		},
		{
			ID: "no-due", Title: "Backlog grooming", Description: "",
			Status: domain.StatusTodo, Priority: domain.PriorityMedium,
			ProjectID: "p1", CreatedAt: testNow.AddDate(0, 0, -3),
		},
	}
}

func matchedIDs(tasks []domain.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestApply_Filters(t *testing.T) {
	status := domain.StatusTodo
	priority := domain.PriorityHigh

	tests := []struct {
		name     string
		criteria domain.TaskSearchCriteria
		want     []string
	}{
		{
			name:     "keyword over title and description, case-insensitive",
			criteria: domain.TaskSearchCriteria{Keyword: "DOCS"},
			want:     []string{"subtask", "write-docs"},
		},
		{
			name:     "keyword matches description",
			criteria: domain.TaskSearchCriteria{Keyword: "session"},
			want:     []string{"fix-login"},
		},
		{
			name:     "status filter",
			criteria: domain.TaskSearchCriteria{Status: &status, ProjectID: "p1"},
			want:     []string{"write-docs", "no-due"},
		},
		{
			name:     "priority and assignee ANDed",
			criteria: domain.TaskSearchCriteria{Priority: &priority, AssigneeID: "bob"},
			want:     []string{"fix-login"},
		},
		{
			name:     "tag intersection",
			criteria: domain.TaskSearchCriteria{TagIDs: []string{"auth", "infra"}},
			want:     []string{"fix-login"},
		},
		{
			name:     "parent filter",
			criteria: domain.TaskSearchCriteria{ParentTaskID: "write-docs"},
			want:     []string{"subtask"},
		},
		{
			name: "due range inclusive excludes tasks without due date",
			criteria: domain.TaskSearchCriteria{
				DueFrom: datePtr(testNow.AddDate(0, 0, -1)),
				DueTo:   datePtr(testNow.AddDate(0, 0, 1)),
			},
			want: []string{"fix-login", "subtask", "write-docs"},
		},
		{
			name:     "created range",
			criteria: domain.TaskSearchCriteria{CreatedFrom: datePtr(testNow.AddDate(0, 0, -3))},
			want:     []string{"subtask", "ship-release", "no-due"},
		},
		{
			name:     "has subtasks true",
			criteria: domain.TaskSearchCriteria{HasSubTasks: boolPtr(true)},
			want:     []string{"write-docs"},
		},
		{
			name:     "has subtasks false",
			criteria: domain.TaskSearchCriteria{HasSubTasks: boolPtr(false), ProjectID: "p2"},
			want:     []string{"ship-release"},
		},
		{
			name:     "overdue true skips done tasks",
			criteria: domain.TaskSearchCriteria{IsOverdue: boolPtr(true)},
			want:     []string{"fix-login"},
		},
		{
			name:     "overdue false includes done and no-due tasks",
			criteria: domain.TaskSearchCriteria{IsOverdue: boolPtr(false), ProjectID: "p1"},
			want:     []string{"subtask", "write-docs", "no-due"},
		},
		{
			name:     "empty criteria matches everything",
			criteria: domain.TaskSearchCriteria{},
			want:     []string{"fix-login", "subtask", "write-docs", "ship-release", "no-due"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestCompiler().Apply(fixtureTasks(), tt.criteria)
			assert.Equal(t, tt.want, matchedIDs(got))
		})
	}
}

func TestApply_SortsByDueDateNilLast(t *testing.T) {
	got := newTestCompiler().Apply(fixtureTasks(), domain.TaskSearchCriteria{})

	ids := matchedIDs(got)
	// Ascending due dates first, tasks without a due date at the end.
	assert.Equal(t, "no-due", ids[len(ids)-1])
	assert.Equal(t, []string{"fix-login", "subtask", "write-docs", "ship-release"}, ids[:4])
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	tasks := fixtureTasks()
	original := matchedIDs(tasks)

	_ = newTestCompiler().Apply(tasks, domain.TaskSearchCriteria{IsOverdue: boolPtr(true)})

	assert.Equal(t, original, matchedIDs(tasks))
}
