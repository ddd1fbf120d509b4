package task

import "strings"

// Priority is the urgency tier of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a task carries no priority.
const DefaultPriority = PriorityMedium

// Priorities lists every priority, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

// Category groups tasks by area of life.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
	CategoryHealth   Category = "health"
)

// DefaultCategory is used when a task carries no category.
const DefaultCategory = CategoryPersonal

// Categories lists every category.
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping, CategoryHealth:
		return true
	}
	return false
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

// Pattern is the step between two occurrences of a recurring task.
type Pattern string

const (
	PatternDaily   Pattern = "daily"
	PatternWeekly  Pattern = "weekly"
	PatternMonthly Pattern = "monthly"
)

// DefaultPattern is used for an empty or unrecognized pattern.
const DefaultPattern = PatternDaily

// Patterns lists every recurrence pattern.
var Patterns = []Pattern{PatternDaily, PatternWeekly, PatternMonthly}

// Normalize maps p to a known pattern, falling back to daily.
func (p Pattern) Normalize() Pattern {
	switch Pattern(strings.ToLower(strings.TrimSpace(string(p)))) {
	case PatternWeekly:
		return PatternWeekly
	case PatternMonthly:
		return PatternMonthly
	default:
		return PatternDaily
	}
}
