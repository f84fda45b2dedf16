package domain

import "time"

// Change history field names recorded by the task service.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "due_date"
	FieldAssignee    = "assignee_id"
	FieldParentTask  = "parent_task_id"
	FieldTags        = "tag_ids"
)

// TaskHistory is an append-only record of a single field change. Entries are
// never updated; the retention sweep is the only delete path.
type TaskHistory struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	ChangedBy string    `json:"changed_by"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Timestamp time.Time `json:"timestamp"`
}
