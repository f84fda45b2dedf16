package domain

import "time"

// TaskSearchCriteria collects the optional filters of a task search. Nil or
// zero-valued fields impose no constraint; set fields are ANDed together.
// HasSubTasks and IsOverdue are tri-state: nil means "don't care".
type TaskSearchCriteria struct {
	Keyword      string        `json:"keyword,omitempty"`
	Status       *TaskStatus   `json:"status,omitempty"`
	Priority     *TaskPriority `json:"priority,omitempty"`
	ProjectID    string        `json:"project_id,omitempty"`
	AssigneeID   string        `json:"assignee_id,omitempty"`
	ParentTaskID string        `json:"parent_task_id,omitempty"`
	TagIDs       []string      `json:"tag_ids,omitempty"`
	DueFrom      *time.Time    `json:"due_from,omitempty"`
	DueTo        *time.Time    `json:"due_to,omitempty"`
	CreatedFrom  *time.Time    `json:"created_from,omitempty"`
	CreatedTo    *time.Time    `json:"created_to,omitempty"`
	HasSubTasks  *bool         `json:"has_sub_tasks,omitempty"`
	IsOverdue    *bool         `json:"is_overdue,omitempty"`
}

// IsZero reports whether no filter is set.
func (c TaskSearchCriteria) IsZero() bool {
	return c.Keyword == "" &&
		c.Status == nil &&
		c.Priority == nil &&
		c.ProjectID == "" &&
		c.AssigneeID == "" &&
		c.ParentTaskID == "" &&
		len(c.TagIDs) == 0 &&
		c.DueFrom == nil &&
		c.DueTo == nil &&
		c.CreatedFrom == nil &&
		c.CreatedTo == nil &&
		c.HasSubTasks == nil &&
		c.IsOverdue == nil
}
