// Package query answers read-only questions about a task collection:
// criterion filtering, text search, and per-day calendar lookups.
//
// Every function preserves the relative order of the input collection and
// never mutates it.
package query

import (
	"fmt"
	"strings"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/status"
	"github.com/JamesPrial/taskflow/internal/task"
)

// CriterionKind selects what a Criterion matches on.
type CriterionKind int

const (
	KindAll CriterionKind = iota
	KindCompleted
	KindPending
	KindPriority
	KindCategory
)

// Criterion is a single filter. Only one criterion is active at a time.
type Criterion struct {
	Kind     CriterionKind
	Priority task.Priority
	Category task.Category
}

// Predefined criteria.
var (
	All       = Criterion{Kind: KindAll}
	Completed = Criterion{Kind: KindCompleted}
	Pending   = Criterion{Kind: KindPending}
)

// ByPriority matches tasks of one priority.
func ByPriority(p task.Priority) Criterion {
	return Criterion{Kind: KindPriority, Priority: p}
}

// ByCategory matches tasks of one category.
func ByCategory(c task.Category) Criterion {
	return Criterion{Kind: KindCategory, Category: c}
}

// ParseCriterion parses a filter name: "all" (or empty), "completed",
// "pending", a priority name or a category name.
func ParseCriterion(s string) (Criterion, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "all":
		return All, nil
	case "completed":
		return Completed, nil
	case "pending":
		return Pending, nil
	}
	if p, ok := task.ParsePriority(name); ok {
		return ByPriority(p), nil
	}
	if c, ok := task.ParseCategory(name); ok {
		return ByCategory(c), nil
	}
	return Criterion{}, fmt.Errorf("unknown filter %q", s)
}

func (c Criterion) String() string {
	switch c.Kind {
	case KindCompleted:
		return "completed"
	case KindPending:
		return "pending"
	case KindPriority:
		return string(c.Priority)
	case KindCategory:
		return string(c.Category)
	default:
		return "all"
	}
}

// Matches reports whether t satisfies c.
func (c Criterion) Matches(t task.Task) bool {
	switch c.Kind {
	case KindCompleted:
		return t.IsCompleted
	case KindPending:
		return !t.IsCompleted
	case KindPriority:
		return t.Priority == c.Priority
	case KindCategory:
		return t.Category == c.Category
	default:
		return true
	}
}

// Filter returns the tasks matching c.
func Filter(tasks []task.Task, c Criterion) []task.Task {
	return keep(tasks, c.Matches)
}

// Search returns the tasks whose title or description contains term,
// ignoring case. An empty term matches every task.
func Search(tasks []task.Task, term string) []task.Task {
	return keep(tasks, func(t task.Task) bool { return matchesTerm(t, term) })
}

// Query returns the tasks matching both c and term.
func Query(tasks []task.Task, c Criterion, term string) []task.Task {
	return Search(Filter(tasks, c), term)
}

// TasksOnDate returns the tasks due on day. Tasks without a due date are
// never included.
func TasksOnDate(tasks []task.Task, day dateops.Date) []task.Task {
	return keep(tasks, func(t task.Task) bool {
		return !t.DueDate.IsZero() && dateops.SameDay(t.DueDate, day)
	})
}

// Overdue returns the tasks whose status on today is Overdue.
func Overdue(tasks []task.Task, today dateops.Date) []task.Task {
	return keep(tasks, func(t task.Task) bool {
		return status.Classify(t, today).Kind == status.Overdue
	})
}

func matchesTerm(t task.Task, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func keep(tasks []task.Task, pred func(task.Task) bool) []task.Task {
	out := make([]task.Task, 0)
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
