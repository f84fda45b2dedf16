// Package report derives read-only analytics from the task collection and
// the change history.
package report

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

// StatsCache caches computed project statistics. A nil cache or a cache
// failure degrades to an uncached computation.
type StatsCache interface {
	Get(ctx context.Context, projectID string) (*domain.ProjectStatistics, error)
	Set(ctx context.Context, stats domain.ProjectStatistics) error
}

type UseCase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	tags     repository.TagRepository
	history  repository.HistoryRepository
	cache    StatsCache
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	tasks repository.TaskRepository,
	projects repository.ProjectRepository,
	users repository.UserRepository,
	tags repository.TagRepository,
	history repository.HistoryRepository,
	cache StatsCache,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		users:    users,
		tags:     tags,
		history:  history,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// OverdueTasks returns the page of overdue tasks ordered ascending by due
// date. Pages are sliced, not cursor-based.
func (uc *UseCase) OverdueTasks(ctx context.Context, page, size int) ([]domain.Task, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}

	all, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	overdue := make([]domain.Task, 0)
	for _, t := range all {
		if t.IsOverdue(now) {
			overdue = append(overdue, t)
		}
	}
	sortByDueDate(overdue)

	start := page * size
	if start >= len(overdue) {
		return []domain.Task{}, nil
	}
	end := start + size
	if end > len(overdue) {
		end = len(overdue)
	}
	return overdue[start:end], nil
}

// TasksDueWithin returns incomplete tasks due in the next daysAhead days.
func (uc *UseCase) TasksDueWithin(ctx context.Context, daysAhead int) ([]domain.Task, error) {
	from := uc.now()
	to := from.AddDate(0, 0, daysAhead)

	tasks, err := uc.tasks.ListDueBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	due := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != domain.StatusDone {
			due = append(due, t)
		}
	}
	sortByDueDate(due)
	return due, nil
}

// StatusDistribution counts a project's tasks per status. Every status is
// represented, zero counts included.
func (uc *UseCase) StatusDistribution(ctx context.Context, projectID string) (map[domain.TaskStatus]int, error) {
	if _, err := uc.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	dist := map[domain.TaskStatus]int{
		domain.StatusTodo:       0,
		domain.StatusInProgress: 0,
		domain.StatusDone:       0,
	}
	for _, t := range tasks {
		dist[t.Status]++
	}
	return dist, nil
}

// ProjectStatistics computes progress counters for one project, reading
// through the cache when one is configured.
func (uc *UseCase) ProjectStatistics(ctx context.Context, projectID string) (*domain.ProjectStatistics, error) {
	if _, err := uc.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, projectID); err == nil && cached != nil {
			return cached, nil
		}
	}

	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	stats := domain.ProjectStatistics{
		ProjectID:   projectID,
		TotalTasks:  len(tasks),
		GeneratedAt: now,
	}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusDone:
			stats.CompletedTasks++
		case domain.StatusInProgress:
			stats.InProgressTasks++
		}
		if t.IsOverdue(now) {
			stats.OverdueTasks++
		}
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, stats); err != nil {
			uc.logger.Warn("failed to cache project statistics",
				zap.String("project_id", projectID), zap.Error(err))
		}
	}
	return &stats, nil
}

// ProjectHealth combines statistics and distribution into a 0-100 score:
// completion contributes 70 points, absence of overdue tasks the other 30.
func (uc *UseCase) ProjectHealth(ctx context.Context, projectID string) (*domain.ProjectHealth, error) {
	stats, err := uc.ProjectStatistics(ctx, projectID)
	if err != nil {
		return nil, err
	}
	dist, err := uc.StatusDistribution(ctx, projectID)
	if err != nil {
		return nil, err
	}

	score := 100.0
	if stats.TotalTasks > 0 {
		completion := float64(stats.CompletedTasks) / float64(stats.TotalTasks)
		overdue := float64(stats.OverdueTasks) / float64(stats.TotalTasks)
		score = completion*70 + (1-overdue)*30
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
	}

	return &domain.ProjectHealth{
		Statistics:   *stats,
		Distribution: dist,
		HealthScore:  score,
		HealthStatus: healthStatus(score),
	}, nil
}

// TeamProductivity aggregates per-member task counters for one project,
// most productive first. Every member appears, zero counters included, and
// so does any assignee who has since left the project.
func (uc *UseCase) TeamProductivity(ctx context.Context, projectID string) ([]domain.UserProductivity, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	byUser := make(map[string]*domain.UserProductivity, len(project.MemberIDs))
	for _, memberID := range project.MemberIDs {
		byUser[memberID] = &domain.UserProductivity{UserID: memberID}
	}
	for i := range tasks {
		t := &tasks[i]
		if t.AssigneeID == "" {
			continue
		}
		entry, ok := byUser[t.AssigneeID]
		if !ok {
			entry = &domain.UserProductivity{UserID: t.AssigneeID}
			byUser[t.AssigneeID] = entry
		}
		entry.AssignedTasks++
		switch t.Status {
		case domain.StatusDone:
			entry.CompletedTasks++
		case domain.StatusInProgress:
			entry.InProgressTasks++
		}
		if t.IsOverdue(now) {
			entry.OverdueTasks++
		}
	}

	report := make([]domain.UserProductivity, 0, len(byUser))
	for _, entry := range byUser {
		if entry.AssignedTasks > 0 {
			entry.CompletionRate = float64(entry.CompletedTasks) / float64(entry.AssignedTasks) * 100
		}
		entry.UserName = uc.userName(ctx, entry.UserID)
		report = append(report, *entry)
	}
	sortProductivity(report)
	return report, nil
}

// WeeklyProductivity counts tasks completed per assignee over the trailing
// seven days. The completion time is approximated by the task's last write.
func (uc *UseCase) WeeklyProductivity(ctx context.Context) ([]domain.UserProductivity, error) {
	done, err := uc.tasks.List(ctx, repository.TaskFilter{Status: domain.StatusDone})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	since := now.AddDate(0, 0, -7)
	byUser := make(map[string]*domain.UserProductivity)
	for i := range done {
		t := &done[i]
		if t.AssigneeID == "" || t.UpdatedAt.Before(since) || t.UpdatedAt.After(now) {
			continue
		}
		entry, ok := byUser[t.AssigneeID]
		if !ok {
			entry = &domain.UserProductivity{UserID: t.AssigneeID}
			byUser[t.AssigneeID] = entry
		}
		entry.CompletedTasks++
	}

	report := make([]domain.UserProductivity, 0, len(byUser))
	for _, entry := range byUser {
		entry.UserName = uc.userName(ctx, entry.UserID)
		report = append(report, *entry)
	}
	sortProductivity(report)
	return report, nil
}

// MostUsedTags returns the tags referenced by the most tasks, ties broken
// by name. Unreferenced tags are omitted.
func (uc *UseCase) MostUsedTags(ctx context.Context, limit int) ([]domain.TagUsage, error) {
	if limit <= 0 {
		limit = 10
	}

	tags, err := uc.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for i := range tasks {
		for _, tagID := range tasks[i].TagIDs {
			counts[tagID]++
		}
	}

	names := make(map[string]string, len(tags))
	for _, tag := range tags {
		names[tag.ID] = tag.Name
	}

	usage := make([]domain.TagUsage, 0, len(counts))
	for tagID, count := range counts {
		usage = append(usage, domain.TagUsage{TagID: tagID, Name: names[tagID], Count: count})
	}
	sort.SliceStable(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Name < usage[j].Name
	})
	if len(usage) > limit {
		usage = usage[:limit]
	}
	return usage, nil
}

// TaskChangeHistory returns the audit trail of one task, newest first.
func (uc *UseCase) TaskChangeHistory(ctx context.Context, taskID string) ([]domain.TaskHistory, error) {
	if _, err := uc.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return uc.history.ListByTask(ctx, taskID)
}

func healthStatus(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	case score >= 20:
		return "poor"
	default:
		return "critical"
	}
}

// userName resolves a user id for display. A deleted user keeps its id
// in the report with an empty name.
func (uc *UseCase) userName(ctx context.Context, userID string) string {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.Name
}

func sortProductivity(report []domain.UserProductivity) {
	sort.SliceStable(report, func(i, j int) bool {
		if report[i].CompletedTasks != report[j].CompletedTasks {
			return report[i].CompletedTasks > report[j].CompletedTasks
		}
		if report[i].AssignedTasks != report[j].AssignedTasks {
			return report[i].AssignedTasks > report[j].AssignedTasks
		}
		return report[i].UserID < report[j].UserID
	})
}

func sortByDueDate(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i].DueDate, tasks[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}
