package series

import (
	"github.com/JamesPrial/taskflow/internal/task"
)

// Index maps each series parent id to the ids of its members, in
// collection order.
type Index map[string][]string

// BuildIndex derives the parent → members relation of a collection.
// Standalone tasks are not indexed.
func BuildIndex(tasks []task.Task) Index {
	idx := make(Index)
	for _, t := range tasks {
		if !t.InSeries() {
			continue
		}
		idx[t.RecurringParentID] = append(idx[t.RecurringParentID], t.ID)
	}
	return idx
}

// Summary describes one series for display.
type Summary struct {
	ParentID string
	// Representative is the first member of the series in collection order.
	Representative task.Task
	Pattern        task.Pattern
	Count          int
	CompletedCount int
}

// List returns one Summary per distinct series, ordered by the position of
// each series' first member in the collection.
func List(tasks []task.Task) []Summary {
	pos := make(map[string]int)
	out := make([]Summary, 0)

	for _, t := range tasks {
		if !t.InSeries() {
			continue
		}
		i, ok := pos[t.RecurringParentID]
		if !ok {
			i = len(out)
			pos[t.RecurringParentID] = i
			out = append(out, Summary{
				ParentID:       t.RecurringParentID,
				Representative: t,
				Pattern:        t.RecurringPattern.Normalize(),
			})
		}
		out[i].Count++
		if t.IsCompleted {
			out[i].CompletedCount++
		}
	}
	return out
}
