package domain

import "time"

// ProjectStatistics summarizes task progress within one project.
type ProjectStatistics struct {
	ProjectID       string    `json:"project_id"`
	TotalTasks      int       `json:"total_tasks"`
	CompletedTasks  int       `json:"completed_tasks"`
	InProgressTasks int       `json:"in_progress_tasks"`
	OverdueTasks    int       `json:"overdue_tasks"`
	CompletionRate  float64   `json:"completion_rate"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// RemainingTasks returns the number of tasks not yet done.
func (p ProjectStatistics) RemainingTasks() int {
	return p.TotalTasks - p.CompletedTasks
}

// UserProductivity aggregates one user's task counters.
type UserProductivity struct {
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	AssignedTasks   int     `json:"assigned_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	OverdueTasks    int     `json:"overdue_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

// TagUsage counts how many tasks reference a tag.
type TagUsage struct {
	TagID string `json:"tag_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProjectHealth augments the statistics with a coarse 0-100 score.
type ProjectHealth struct {
	Statistics   ProjectStatistics  `json:"statistics"`
	Distribution map[TaskStatus]int `json:"task_distribution"`
	HealthScore  float64            `json:"health_score"`
	HealthStatus string             `json:"health_status"`
}
