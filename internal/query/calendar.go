package query

import (
	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/task"
)

// Stats are the headline counts of a collection.
type Stats struct {
	Total     int `json:"totalTasks"`
	Completed int `json:"completedTasks"`
	Pending   int `json:"pendingTasks"`
}

// Summarize counts the tasks of a collection.
func Summarize(tasks []task.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsCompleted {
			s.Completed++
		}
	}
	s.Pending = s.Total - s.Completed
	return s
}

// Day is one cell of a month calendar.
type Day struct {
	Date dateops.Date
	// InMonth is false for the leading and trailing days borrowed from the
	// neighbouring months to complete the first and last week.
	InMonth bool
	Tasks   []task.Task
}

// Calendar lays the collection out over the Sunday-first weeks covering
// the month that contains month.
func Calendar(tasks []task.Task, month dateops.Date) []Day {
	grid := dateops.MonthGrid(month)
	days := make([]Day, len(grid))
	for i, d := range grid {
		days[i] = Day{
			Date:    d,
			InMonth: dateops.SameMonth(d, month),
			Tasks:   TasksOnDate(tasks, d),
		}
	}
	return days
}
