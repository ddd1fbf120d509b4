package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/query"
	"github.com/JamesPrial/taskflow/internal/series"
	"github.com/JamesPrial/taskflow/internal/status"
	"github.com/JamesPrial/taskflow/internal/task"
)

var colorMuted = lipgloss.Color("#6b7280")

// printer renders tasks as coloured text. The colour profile follows the
// destination writer, so output captured in a buffer or piped to a file
// carries no escape sequences.
type printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	today dateops.Date
}

func newPrinter(w io.Writer, today dateops.Date) *printer {
	return &printer{w: w, r: lipgloss.NewRenderer(w), today: today}
}

func (p *printer) style() lipgloss.Style {
	return p.r.NewStyle()
}

func (p *printer) println(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

// taskLine renders one task:
//
//	[ ] Pay rent  high/work  due Tomorrow  monthly #2  #home  (id)
func (p *printer) taskLine(t task.Task) string {
	st := status.Classify(t, p.today)

	box := "[ ]"
	title := p.style().Foreground(status.ColorFor(st))
	if t.IsCompleted {
		box = "[x]"
		title = title.Strikethrough(true)
	}

	parts := []string{
		box + " " + title.Render(t.Title),
		p.style().Foreground(status.PriorityColor(t.Priority)).Render(string(t.Priority) + "/" + string(t.Category)),
	}

	if label := status.DueLabel(t.DueDate, p.today); label != "" {
		due := p.style()
		switch status.DueTone(t.DueDate, p.today) {
		case status.ToneOverdue:
			due = due.Foreground(status.ColorOverdue).Bold(true)
		case status.ToneToday:
			due = due.Bold(true)
		}
		parts = append(parts, due.Render("due "+label))
	}
	if t.InSeries() {
		parts = append(parts, fmt.Sprintf("%s #%d", t.RecurringPattern, t.RecurringIndex+1))
	}
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = "#" + tag
		}
		parts = append(parts, strings.Join(tags, " "))
	}
	parts = append(parts, p.style().Foreground(colorMuted).Render("("+t.ID+")"))

	return strings.Join(parts, "  ")
}

func (p *printer) tasks(tasks []task.Task, empty string) {
	if len(tasks) == 0 {
		p.println(empty)
		return
	}
	for _, t := range tasks {
		p.println(p.taskLine(t))
	}
}

// calendar renders a Sunday-first month grid. Days with tasks are marked
// with "*" and listed under the grid.
func (p *printer) calendar(month dateops.Date, days []query.Day) {
	p.println(p.style().Bold(true).Render(month.Format("January 2006")))
	p.println("Su  Mo  Tu  We  Th  Fr  Sa")

	var row strings.Builder
	for i, d := range days {
		mark := " "
		if len(d.Tasks) > 0 {
			mark = "*"
		}
		cell := p.style()
		if !d.InMonth {
			cell = cell.Faint(true)
		} else if dateops.SameDay(d.Date, p.today) {
			cell = cell.Reverse(true)
		}
		row.WriteString(cell.Render(fmt.Sprintf("%2d", d.Date.Time().Day())))
		row.WriteString(mark)
		if i%7 == 6 {
			p.println(strings.TrimRight(row.String(), " "))
			row.Reset()
		} else {
			row.WriteString(" ")
		}
	}

	for _, d := range days {
		if !d.InMonth || len(d.Tasks) == 0 {
			continue
		}
		p.println("")
		p.println(p.style().Bold(true).Render(d.Date.Format("Mon Jan 02")))
		for _, t := range d.Tasks {
			p.println("  " + p.taskLine(t))
		}
	}
}

func (p *printer) series(list []series.Summary) {
	if len(list) == 0 {
		p.println("No recurring series.")
		return
	}
	for _, s := range list {
		p.println(fmt.Sprintf("%s  %s  %d/%d done  %s",
			p.style().Foreground(status.PriorityColor(s.Representative.Priority)).Render(s.Representative.Title),
			s.Pattern, s.CompletedCount, s.Count,
			p.style().Foreground(colorMuted).Render("("+s.ParentID+")"),
		))
	}
}

// ---------------------------------------------------------------------------
// Structured output
// ---------------------------------------------------------------------------

type taskList struct {
	Tasks []task.Task `json:"tasks" yaml:"tasks"`
	Count int         `json:"count" yaml:"count"`
}

func newTaskList(tasks []task.Task) taskList {
	if tasks == nil {
		tasks = make([]task.Task, 0)
	}
	return taskList{Tasks: tasks, Count: len(tasks)}
}

type calendarDay struct {
	Date    dateops.Date `json:"date" yaml:"date"`
	InMonth bool         `json:"inMonth" yaml:"inMonth"`
	Tasks   []task.Task  `json:"tasks" yaml:"tasks"`
}

type calendarMonth struct {
	Month string        `json:"month" yaml:"month"`
	Days  []calendarDay `json:"days" yaml:"days"`
}

func newCalendarMonth(month dateops.Date, days []query.Day) calendarMonth {
	out := calendarMonth{Month: month.Format(dateops.MonthLayout), Days: make([]calendarDay, len(days))}
	for i, d := range days {
		out.Days[i] = calendarDay{Date: d.Date, InMonth: d.InMonth, Tasks: d.Tasks}
	}
	return out
}

type seriesSummary struct {
	ParentID       string       `json:"parentId" yaml:"parentId"`
	Title          string       `json:"title" yaml:"title"`
	Pattern        task.Pattern `json:"pattern" yaml:"pattern"`
	Count          int          `json:"count" yaml:"count"`
	CompletedCount int          `json:"completedCount" yaml:"completedCount"`
}

func newSeriesSummaries(list []series.Summary) []seriesSummary {
	out := make([]seriesSummary, len(list))
	for i, s := range list {
		out[i] = seriesSummary{
			ParentID:       s.ParentID,
			Title:          s.Representative.Title,
			Pattern:        s.Pattern,
			Count:          s.Count,
			CompletedCount: s.CompletedCount,
		}
	}
	return out
}

type stats struct {
	Total     int `json:"totalTasks" yaml:"totalTasks"`
	Completed int `json:"completedTasks" yaml:"completedTasks"`
	Pending   int `json:"pendingTasks" yaml:"pendingTasks"`
}

// encode writes v to w as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	return checkFormat(format)
}
