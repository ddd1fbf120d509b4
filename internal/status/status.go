// Package status classifies a task relative to today and maps the result
// to its display colour.
package status

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/task"
)

// Kind is the precedence-ordered status tier of a task.
type Kind int

const (
	// Normal means the task is open and neither late nor due today.
	Normal Kind = iota
	// DueToday means the task is open and due today.
	DueToday
	// Overdue means the task is open and its due date has passed.
	Overdue
	// Completed overrides every other tier.
	Completed
)

func (k Kind) String() string {
	switch k {
	case Completed:
		return "completed"
	case Overdue:
		return "overdue"
	case DueToday:
		return "due-today"
	default:
		return "normal"
	}
}

// Status is the classification of one task. Priority is carried for the
// DueToday and Normal tiers, which display by priority.
type Status struct {
	Kind     Kind
	Priority task.Priority
}

func (s Status) String() string {
	if s.Kind == Normal || s.Kind == DueToday {
		return s.Kind.String() + "/" + string(s.Priority)
	}
	return s.Kind.String()
}

// Classify derives t's status on the given day. Completion wins over
// lateness, and lateness wins over priority.
func Classify(t task.Task, today dateops.Date) Status {
	switch {
	case t.IsCompleted:
		return Status{Kind: Completed}
	case dateops.IsPastStrict(t.DueDate, today):
		return Status{Kind: Overdue}
	case dateops.IsToday(t.DueDate, today):
		return Status{Kind: DueToday, Priority: t.Priority}
	default:
		return Status{Kind: Normal, Priority: t.Priority}
	}
}

// Display colours.
var (
	ColorCompleted = lipgloss.Color("#9ca3af")
	ColorOverdue   = lipgloss.Color("#dc2626")
	ColorHigh      = lipgloss.Color("#ef4444")
	ColorMedium    = lipgloss.Color("#eab308")
	ColorLow       = lipgloss.Color("#22c55e")
	ColorDefault   = lipgloss.Color("#3b82f6")
)

// ColorFor returns the display colour of s.
func ColorFor(s Status) lipgloss.Color {
	switch s.Kind {
	case Completed:
		return ColorCompleted
	case Overdue:
		return ColorOverdue
	}
	return PriorityColor(s.Priority)
}

// PriorityColor returns the colour of a priority tier. Unknown or empty
// priorities get the default tier colour.
func PriorityColor(p task.Priority) lipgloss.Color {
	switch p {
	case task.PriorityHigh:
		return ColorHigh
	case task.PriorityMedium:
		return ColorMedium
	case task.PriorityLow:
		return ColorLow
	default:
		return ColorDefault
	}
}
