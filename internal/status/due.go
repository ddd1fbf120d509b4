package status

import (
	"github.com/JamesPrial/taskflow/internal/dateops"
)

// Tone is the emphasis given to a due date in list views.
type Tone int

const (
	ToneNone Tone = iota
	ToneNormal
	ToneToday
	ToneOverdue
)

// DueTone reports how a due date should be emphasised. Unlike Classify it
// looks only at the date, not at completion.
func DueTone(due, today dateops.Date) Tone {
	switch {
	case due.IsZero():
		return ToneNone
	case dateops.IsPastStrict(due, today):
		return ToneOverdue
	case dateops.IsToday(due, today):
		return ToneToday
	default:
		return ToneNormal
	}
}

// DueLabel renders a due date for humans: "Today", "Tomorrow", or a date
// such as "Jan 02, 2006". An absent date renders as "".
func DueLabel(due, today dateops.Date) string {
	switch {
	case due.IsZero():
		return ""
	case dateops.IsToday(due, today):
		return "Today"
	case dateops.IsTomorrow(due, today):
		return "Tomorrow"
	default:
		return due.Format("Jan 02, 2006")
	}
}
