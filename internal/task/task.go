// Package task defines the Task record shared by every taskflow component,
// its enumerations and defaults, and the validation applied to user input
// before a task enters the collection.
package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/JamesPrial/taskflow/internal/dateops"
)

// TimestampLayout is the ISO 8601 UTC layout with millisecond precision used
// for createdAt and updatedAt (e.g., "2025-11-14T10:30:45.123Z").
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Task is the sole entity of the tracker.
//
// The JSON tags are the persisted field names. A recurring declaration has
// IsRecurring set and its recurrence bounds filled in; the instances
// expanded from it share RecurringParentID and are numbered by
// RecurringIndex.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Category    Category `json:"category" yaml:"category"`

	// DueDate is the zero Date when the task has no due date.
	DueDate     dateops.Date `json:"dueDate" yaml:"dueDate"`
	IsCompleted bool         `json:"isCompleted" yaml:"isCompleted"`

	IsRecurring        bool         `json:"isRecurring" yaml:"isRecurring"`
	RecurringPattern   Pattern      `json:"recurringPattern" yaml:"recurringPattern"`
	RecurringStartDate dateops.Date `json:"recurringStartDate" yaml:"recurringStartDate"`
	RecurringEndDate   dateops.Date `json:"recurringEndDate" yaml:"recurringEndDate"`

	// RecurringParentID names the series this task belongs to. Empty for
	// standalone tasks.
	RecurringParentID string `json:"recurringParentId,omitempty" yaml:"recurringParentId,omitempty"`
	RecurringIndex    int    `json:"recurringIndex,omitempty" yaml:"recurringIndex,omitempty"`

	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string `json:"updatedAt" yaml:"updatedAt"`

	Tags []string `json:"tags" yaml:"tags"`
}

// InSeries reports whether t belongs to a recurring series.
func (t Task) InSeries() bool {
	return t.RecurringParentID != ""
}

// HasRecurrence reports whether t is a declaration that should be expanded:
// the recurring flag is set and both bounds are present.
func (t Task) HasRecurrence() bool {
	return t.IsRecurring && !t.RecurringStartDate.IsZero() && !t.RecurringEndDate.IsZero()
}

// Clone returns a copy of t that shares no slices with it.
func (t Task) Clone() Task {
	c := t
	c.Tags = make([]string, len(t.Tags))
	copy(c.Tags, t.Tags)
	return c
}

// Normalize fills the defaults of the optional-field schema: empty
// priority, category and pattern take their defaults and a nil tag set
// becomes empty so it serializes as [] rather than null.
func (t Task) Normalize() Task {
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	t.RecurringPattern = t.RecurringPattern.Normalize()
	if t.Tags == nil {
		t.Tags = make([]string, 0)
	}
	return t
}

// NewID returns a fresh declaration id.
func NewID() string {
	return uuid.NewString()
}

// Timestamp formats now as an ISO 8601 UTC timestamp with millisecond
// precision.
func Timestamp(now time.Time) string {
	return now.UTC().Format(TimestampLayout)
}

// Touch returns t with UpdatedAt set to now.
func (t Task) Touch(now time.Time) Task {
	t.UpdatedAt = Timestamp(now)
	return t
}
