// Package search compiles ad-hoc task search criteria into a composable
// predicate evaluated against a task collection.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/taskforge/backend/domain"
)

// Predicate is a single compiled filter over one task.
type Predicate func(t *domain.Task) bool

// Compiler turns a TaskSearchCriteria into the logical AND of one predicate
// per set field. Now is injectable so overdue checks are deterministic in
// tests; it defaults to time.Now.
type Compiler struct {
	Now func() time.Time
}

func NewCompiler() *Compiler {
	return &Compiler{Now: time.Now}
}

// Compile builds the predicate list for the criteria. Predicates that need
// knowledge of the candidate set (hasSubTasks) consult the parent index
// built by Apply.
func (c *Compiler) Compile(criteria domain.TaskSearchCriteria, childCount map[string]int) []Predicate {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	var preds []Predicate

	if kw := strings.TrimSpace(criteria.Keyword); kw != "" {
		needle := strings.ToLower(kw)
		preds = append(preds, func(t *domain.Task) bool {
			return strings.Contains(strings.ToLower(t.Title), needle) ||
				strings.Contains(strings.ToLower(t.Description), needle)
		})
	}
	if criteria.Status != nil {
		want := *criteria.Status
		preds = append(preds, func(t *domain.Task) bool { return t.Status == want })
	}
	if criteria.Priority != nil {
		want := *criteria.Priority
		preds = append(preds, func(t *domain.Task) bool { return t.Priority == want })
	}
	if criteria.ProjectID != "" {
		preds = append(preds, func(t *domain.Task) bool { return t.ProjectID == criteria.ProjectID })
	}
	if criteria.AssigneeID != "" {
		preds = append(preds, func(t *domain.Task) bool { return t.AssigneeID == criteria.AssigneeID })
	}
	if criteria.ParentTaskID != "" {
		preds = append(preds, func(t *domain.Task) bool { return t.ParentTaskID == criteria.ParentTaskID })
	}
	if len(criteria.TagIDs) > 0 {
		wanted := make(map[string]struct{}, len(criteria.TagIDs))
		for _, id := range criteria.TagIDs {
			wanted[id] = struct{}{}
		}
		preds = append(preds, func(t *domain.Task) bool {
			for _, id := range t.TagIDs {
				if _, ok := wanted[id]; ok {
					return true
				}
			}
			return false
		})
	}
	if criteria.DueFrom != nil {
		from := *criteria.DueFrom
		preds = append(preds, func(t *domain.Task) bool {
			return t.DueDate != nil && !t.DueDate.Before(from)
		})
	}
	if criteria.DueTo != nil {
		to := *criteria.DueTo
		preds = append(preds, func(t *domain.Task) bool {
			return t.DueDate != nil && !t.DueDate.After(to)
		})
	}
	if criteria.CreatedFrom != nil {
		from := *criteria.CreatedFrom
		preds = append(preds, func(t *domain.Task) bool { return !t.CreatedAt.Before(from) })
	}
	if criteria.CreatedTo != nil {
		to := *criteria.CreatedTo
		preds = append(preds, func(t *domain.Task) bool { return !t.CreatedAt.After(to) })
	}
	if criteria.HasSubTasks != nil {
		want := *criteria.HasSubTasks
		preds = append(preds, func(t *domain.Task) bool {
			return (childCount[t.ID] > 0) == want
		})
	}
	if criteria.IsOverdue != nil {
		want := *criteria.IsOverdue
		preds = append(preds, func(t *domain.Task) bool {
			overdue := t.DueDate != nil && t.DueDate.Before(now) && t.Status != domain.StatusDone
			return overdue == want
		})
	}

	return preds
}

// Apply filters the collection with the compiled criteria and returns the
// matches ordered ascending by due date, tasks without one last. The input
// slice is not modified.
func (c *Compiler) Apply(tasks []domain.Task, criteria domain.TaskSearchCriteria) []domain.Task {
	childCount := make(map[string]int, len(tasks))
	for i := range tasks {
		if tasks[i].ParentTaskID != "" {
			childCount[tasks[i].ParentTaskID]++
		}
	}

	preds := c.Compile(criteria, childCount)

	matched := make([]domain.Task, 0, len(tasks))
	for i := range tasks {
		if matchesAll(&tasks[i], preds) {
			matched = append(matched, tasks[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].DueDate, matched[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return matched
}

func matchesAll(t *domain.Task, preds []Predicate) bool {
	for _, p := range preds {
		if !p(t) {
			return false
		}
	}
	return true
}
