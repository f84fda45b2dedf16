package transport

// Pointer fields distinguish "absent" from "set to zero" in update payloads.

type ProjectCreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	MemberIDs   []string `json:"member_ids"`
}

type ProjectUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	MemberIDs   []string `json:"member_ids"`
}

type MemberRequest struct {
	UserID string `json:"user_id"`
}

type TaskCreateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Priority     string   `json:"priority"`
	DueDate      string   `json:"due_date"`
	ProjectID    string   `json:"project_id"`
	AssigneeID   string   `json:"assignee_id"`
	ParentTaskID string   `json:"parent_task_id"`
	TagIDs       []string `json:"tag_ids"`
}

type TaskUpdateRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Priority     *string  `json:"priority"`
	DueDate      *string  `json:"due_date"`
	AssigneeID   *string  `json:"assignee_id"`
	ParentTaskID *string  `json:"parent_task_id"`
	TagIDs       []string `json:"tag_ids"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AssignRequest struct {
	UserID string `json:"user_id"`
}

type TaskSearchRequest struct {
	Keyword      string   `json:"keyword"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	ProjectID    string   `json:"project_id"`
	AssigneeID   string   `json:"assignee_id"`
	ParentTaskID string   `json:"parent_task_id"`
	TagIDs       []string `json:"tag_ids"`
	DueFrom      string   `json:"due_from"`
	DueTo        string   `json:"due_to"`
	CreatedFrom  string   `json:"created_from"`
	CreatedTo    string   `json:"created_to"`
	HasSubTasks  *bool    `json:"has_subtasks"`
	IsOverdue    *bool    `json:"is_overdue"`
}

type TagRequest struct {
	Name string `json:"name"`
}

type UserCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}
