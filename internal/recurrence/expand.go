// Package recurrence expands a recurring task declaration into the concrete
// task instances of its series.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/task"
)

// MaxInstances bounds the number of instances a single declaration may
// produce.
const MaxInstances = 5000

// ErrNonTerminating is returned when expansion reaches its instance cap
// before passing the declaration's end date.
var ErrNonTerminating = errors.New("recurrence could not terminate")

// Next returns the occurrence date at position index of a series starting
// on start. Every occurrence is computed from start rather than from the
// previous occurrence, so monthly series anchored on the 31st come back to
// the 31st after a short month.
func Next(pattern task.Pattern, start dateops.Date, index int) dateops.Date {
	switch pattern.Normalize() {
	case task.PatternWeekly:
		return dateops.AddWeeks(start, index)
	case task.PatternMonthly:
		return dateops.AddMonths(start, index)
	default:
		return dateops.AddDays(start, index)
	}
}

// Expand turns decl into its series using MaxInstances as the cap.
//
// A declaration that is not recurring, or lacks either bound, is returned
// unchanged as a one-element slice.
func Expand(decl task.Task, now time.Time) ([]task.Task, error) {
	return ExpandLimit(decl, now, MaxInstances)
}

// ExpandLimit is Expand with an explicit instance cap. A limit of zero or
// less means MaxInstances.
//
// Instance i is due on Next(pattern, start, i); the end date is inclusive.
// The instance id is "<declarationId>-<i>" and every title after the first
// gets a " (#i+1)" suffix. If the declaration has no id one is generated and
// becomes the series' parent id.
func ExpandLimit(decl task.Task, now time.Time, limit int) ([]task.Task, error) {
	if !decl.HasRecurrence() {
		return []task.Task{decl}, nil
	}
	if err := task.CheckBounds(decl.RecurringStartDate, decl.RecurringEndDate); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = MaxInstances
	}

	declID := decl.ID
	if declID == "" {
		declID = task.NewID()
	}
	parentID := decl.RecurringParentID
	if parentID == "" {
		parentID = declID
	}
	stamp := task.Timestamp(now)

	instances := make([]task.Task, 0)
	for i := 0; ; i++ {
		due := Next(decl.RecurringPattern, decl.RecurringStartDate, i)
		if dateops.IsAfter(due, decl.RecurringEndDate) {
			break
		}
		if i >= limit {
			return nil, fmt.Errorf("%w: more than %d occurrences between %s and %s",
				ErrNonTerminating, limit, decl.RecurringStartDate, decl.RecurringEndDate)
		}

		inst := decl.Clone()
		inst.ID = fmt.Sprintf("%s-%d", declID, i)
		inst.DueDate = due
		if i > 0 {
			inst.Title = fmt.Sprintf("%s (#%d)", decl.Title, i+1)
		}
		inst.RecurringParentID = parentID
		inst.RecurringIndex = i
		inst.CreatedAt = stamp
		inst.UpdatedAt = stamp
		instances = append(instances, inst)
	}

	return instances, nil
}
