package domain

import "time"

// TaskStatus enumerates the task lifecycle states. DONE is not terminal;
// completed tasks may be reopened.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task represents a unit of work owned by exactly one project. ProjectID is
// immutable after creation. ParentTaskID, when set, references another task
// in the same project; the parent chain is kept acyclic by the hierarchy
// validator.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	ProjectID    string       `json:"project_id"`
	AssigneeID   string       `json:"assignee_id,omitempty"`
	ParentTaskID string       `json:"parent_task_id,omitempty"`
	TagIDs       []string     `json:"tag_ids,omitempty"`
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsDone reports whether the task has reached DONE.
func (t *Task) IsDone() bool {
	return t != nil && t.Status == StatusDone
}

// IsOverdue reports whether the task is past its due date and not done.
func (t *Task) IsOverdue(now time.Time) bool {
	if t == nil || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status != StatusDone
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tagID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}
