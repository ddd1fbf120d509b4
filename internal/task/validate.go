package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JamesPrial/taskflow/internal/dateops"
)

// Validation failures. Each is wrapped in a *ValidationError whose Message
// is safe to show to the user.
var (
	ErrEmptyTitle             = errors.New("empty title")
	ErrMissingRecurrenceDates = errors.New("missing recurrence dates")
	ErrEndBeforeStart         = errors.New("recurrence end before start")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidPriority        = errors.New("invalid priority")
	ErrInvalidCategory        = errors.New("invalid category")
)

// ValidationError reports input that was rejected before any mutation.
type ValidationError struct {
	// Message is the user-facing explanation.
	Message string
	// Err is one of the Err* sentinels above.
	Err error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Err: err}
}

// Draft is a task as entered by the user, before validation. Dates are the
// raw "YYYY-MM-DD" strings of the input form and may be empty.
type Draft struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Priority           string   `json:"priority"`
	Category           string   `json:"category"`
	DueDate            string   `json:"dueDate"`
	IsRecurring        bool     `json:"isRecurring"`
	RecurringPattern   string   `json:"recurringPattern"`
	RecurringStartDate string   `json:"recurringStartDate"`
	RecurringEndDate   string   `json:"recurringEndDate"`
	Tags               []string `json:"tags"`
}

// DraftOf returns the draft that would reproduce t's editable fields.
func DraftOf(t Task) Draft {
	return Draft{
		Title:              t.Title,
		Description:        t.Description,
		Priority:           string(t.Priority),
		Category:           string(t.Category),
		DueDate:            t.DueDate.String(),
		IsRecurring:        t.IsRecurring,
		RecurringPattern:   string(t.RecurringPattern),
		RecurringStartDate: t.RecurringStartDate.String(),
		RecurringEndDate:   t.RecurringEndDate.String(),
		Tags:               t.Tags,
	}
}

// Build validates d and returns the task it describes, stamped with id and
// the creation moment. Checks run in the order the user would fix them:
// title, recurrence bounds, then field formats.
func (d Draft) Build(id string, now time.Time) (Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Task{}, invalid(ErrEmptyTitle, "Please enter a task title")
	}

	start, end, err := d.recurrenceBounds()
	if err != nil {
		return Task{}, err
	}

	due, err := dateops.Parse(d.DueDate)
	if err != nil {
		return Task{}, invalid(ErrInvalidDate, "Due date %q is not a valid YYYY-MM-DD date", d.DueDate)
	}

	priority := DefaultPriority
	if strings.TrimSpace(d.Priority) != "" {
		p, ok := ParsePriority(d.Priority)
		if !ok {
			return Task{}, invalid(ErrInvalidPriority, "Unknown priority %q (expected low, medium or high)", d.Priority)
		}
		priority = p
	}

	category := DefaultCategory
	if strings.TrimSpace(d.Category) != "" {
		c, ok := ParseCategory(d.Category)
		if !ok {
			return Task{}, invalid(ErrInvalidCategory, "Unknown category %q (expected personal, work, shopping or health)", d.Category)
		}
		category = c
	}

	stamp := Timestamp(now)
	t := Task{
		ID:                 id,
		Title:              title,
		Description:        d.Description,
		Priority:           priority,
		Category:           category,
		DueDate:            due,
		IsRecurring:        d.IsRecurring,
		RecurringPattern:   Pattern(d.RecurringPattern),
		RecurringStartDate: start,
		RecurringEndDate:   end,
		CreatedAt:          stamp,
		UpdatedAt:          stamp,
		Tags:               append([]string(nil), d.Tags...),
	}
	return t.Normalize(), nil
}

// recurrenceBounds parses the start and end dates. For a non-recurring
// draft the bounds are still parsed when present but never required.
func (d Draft) recurrenceBounds() (dateops.Date, dateops.Date, error) {
	startRaw := strings.TrimSpace(d.RecurringStartDate)
	endRaw := strings.TrimSpace(d.RecurringEndDate)

	if d.IsRecurring && (startRaw == "" || endRaw == "") {
		return dateops.Date{}, dateops.Date{}, invalid(ErrMissingRecurrenceDates,
			"Please specify start and end dates for recurring tasks")
	}

	start, err := dateops.Parse(startRaw)
	if err != nil {
		return dateops.Date{}, dateops.Date{}, invalid(ErrInvalidDate,
			"Start date %q is not a valid YYYY-MM-DD date", startRaw)
	}
	end, err := dateops.Parse(endRaw)
	if err != nil {
		return dateops.Date{}, dateops.Date{}, invalid(ErrInvalidDate,
			"End date %q is not a valid YYYY-MM-DD date", endRaw)
	}

	if d.IsRecurring {
		if err := CheckBounds(start, end); err != nil {
			return dateops.Date{}, dateops.Date{}, err
		}
	}
	return start, end, nil
}

// CheckBounds rejects a recurrence whose end date precedes its start date.
// Equal dates are allowed and produce a single occurrence.
func CheckBounds(start, end dateops.Date) error {
	if dateops.IsAfter(start, end) {
		return invalid(ErrEndBeforeStart, "End date must be after start date")
	}
	return nil
}

// Apply validates d and merges its editable fields into existing, keeping
// the identity, series membership, completion state and creation time.
// Editing never re-expands a series.
func (d Draft) Apply(existing Task, now time.Time) (Task, error) {
	edited, err := d.Build(existing.ID, now)
	if err != nil {
		return Task{}, err
	}
	edited.IsCompleted = existing.IsCompleted
	edited.RecurringParentID = existing.RecurringParentID
	edited.RecurringIndex = existing.RecurringIndex
	edited.CreatedAt = existing.CreatedAt
	if d.Tags == nil {
		edited.Tags = existing.Clone().Tags
	}
	return edited.Normalize(), nil
}
