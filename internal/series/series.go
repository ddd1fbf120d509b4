// Package series implements the operations that act on a recurring series
// as a whole: deleting one instance or the entire series, and listing the
// series present in a collection.
//
// Series membership is a relation carried by Task.RecurringParentID. No
// function here mutates its input; each returns a new collection.
package series

import (
	"github.com/JamesPrial/taskflow/internal/task"
)

// ConfirmFunc is asked whether deleting a series member should remove the
// whole series. It is only called for tasks that belong to a series.
type ConfirmFunc func(t task.Task) bool

// DeleteInstance removes the task with the given id. Unknown ids leave the
// collection unchanged.
func DeleteInstance(tasks []task.Task, id string) []task.Task {
	return without(tasks, func(t task.Task) bool { return t.ID == id })
}

// DeleteSeries removes every task whose RecurringParentID is parentID,
// including index 0. An empty parentID removes nothing.
func DeleteSeries(tasks []task.Task, parentID string) []task.Task {
	if parentID == "" {
		return without(tasks, func(task.Task) bool { return false })
	}
	return without(tasks, func(t task.Task) bool { return t.RecurringParentID == parentID })
}

// DisableFutureSeries stops a series. It currently removes every member of
// the series, past and completed instances included, which makes it
// equivalent to DeleteSeries.
// TODO: keep completed and past instances once the product decides whether
// "disable future" should preserve history.
func DisableFutureSeries(tasks []task.Task, parentID string) []task.Task {
	return DeleteSeries(tasks, parentID)
}

// Delete removes the task with the given id. When the task belongs to a
// series, confirm decides between removing the whole series (true) and the
// single instance (false); a nil confirm removes only the instance.
// The second return value reports whether the whole series was removed.
func Delete(tasks []task.Task, id string, confirm ConfirmFunc) ([]task.Task, bool) {
	for _, t := range tasks {
		if t.ID != id {
			continue
		}
		if t.InSeries() && confirm != nil && confirm(t) {
			return DeleteSeries(tasks, t.RecurringParentID), true
		}
		break
	}
	return DeleteInstance(tasks, id), false
}

// Members returns the tasks of one series in collection order.
func Members(tasks []task.Task, parentID string) []task.Task {
	out := make([]task.Task, 0)
	if parentID == "" {
		return out
	}
	for _, t := range tasks {
		if t.RecurringParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}

func without(tasks []task.Task, drop func(task.Task) bool) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !drop(t) {
			out = append(out, t)
		}
	}
	return out
}
