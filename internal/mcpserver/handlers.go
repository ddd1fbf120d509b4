package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/query"
	"github.com/JamesPrial/taskflow/internal/recurrence"
	"github.com/JamesPrial/taskflow/internal/status"
	"github.com/JamesPrial/taskflow/internal/task"
	"github.com/JamesPrial/taskflow/internal/tracker"
)

// TaskHandlers serves the task tools from a tracker.
type TaskHandlers struct {
	tr  *tracker.Tracker
	log logrus.FieldLogger
}

// NewTaskHandlers creates handlers backed by tr.
func NewTaskHandlers(tr *tracker.Tracker, log logrus.FieldLogger) *TaskHandlers {
	return &TaskHandlers{tr: tr, log: log}
}

// taskList is the payload of every tool that returns several tasks.
type taskList struct {
	Tasks []task.Task `json:"tasks"`
	Count int         `json:"count"`
}

func newTaskList(tasks []task.Task) taskList {
	return taskList{Tasks: tasks, Count: len(tasks)}
}

// HandleAddTask creates a task, expanding it when recurring.
func (h *TaskHandlers) HandleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := request.RequireString("title"); err != nil {
		return mcp.NewToolResultError("Missing required parameter: title"), nil
	}

	added, err := h.tr.Create(ctx, draftFromRequest(request, task.Draft{}))
	if err != nil {
		return h.toolError("add task", err), nil
	}
	return jsonResult(newTaskList(added))
}

// HandleUpdateTask edits the fields present in the request.
func (h *TaskHandlers) HandleUpdateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	existing, err := h.tr.Get(id)
	if err != nil {
		return h.toolError("update task", err), nil
	}

	edited, err := h.tr.Update(ctx, id, draftFromRequest(request, task.DraftOf(existing)))
	if err != nil {
		return h.toolError("update task", err), nil
	}
	return jsonResult(edited)
}

// HandleListTasks filters and searches the collection.
func (h *TaskHandlers) HandleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criterion, err := query.ParseCriterion(request.GetString("filter", "all"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	search := request.GetString("search", "")

	tasks := h.tr.Query(criterion, search)
	if request.GetBool("overdue", false) {
		tasks = query.Overdue(tasks, h.tr.Today())
	}
	return jsonResult(newTaskList(tasks))
}

// HandleTasksOnDate lists the tasks due on one day.
func (h *TaskHandlers) HandleTasksOnDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: date"), nil
	}
	day, err := dateops.Parse(raw)
	if err != nil || day.IsZero() {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid date %q: expected YYYY-MM-DD", raw)), nil
	}
	return jsonResult(newTaskList(h.tr.TasksOnDate(day)))
}

type calendarTask struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type calendarDay struct {
	Date    string         `json:"date"`
	InMonth bool           `json:"inMonth"`
	Tasks   []calendarTask `json:"tasks"`
}

type calendarMonth struct {
	Month string        `json:"month"`
	Days  []calendarDay `json:"days"`
}

// HandleCalendarMonth returns the month grid with the tasks of each day.
func (h *TaskHandlers) HandleCalendarMonth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	today := h.tr.Today()
	month := dateops.StartOfMonth(today)
	if raw := request.GetString("month", ""); raw != "" {
		m, err := dateops.ParseMonth(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		month = m
	}

	grid := h.tr.Calendar(month)
	out := calendarMonth{
		Month: month.Format(dateops.MonthLayout),
		Days:  make([]calendarDay, len(grid)),
	}
	for i, d := range grid {
		day := calendarDay{Date: d.Date.String(), InMonth: d.InMonth, Tasks: make([]calendarTask, len(d.Tasks))}
		for j, t := range d.Tasks {
			day.Tasks[j] = calendarTask{ID: t.ID, Title: t.Title, Status: status.Classify(t, today).String()}
		}
		out.Days[i] = day
	}
	return jsonResult(out)
}

// HandleToggleTask flips completion.
func (h *TaskHandlers) HandleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	toggled, err := h.tr.Toggle(ctx, id)
	if err != nil {
		return h.toolError("toggle task", err), nil
	}
	return jsonResult(toggled)
}

// HandleDeleteTask removes a task, or its whole series when whole_series is
// set and the task belongs to one.
func (h *TaskHandlers) HandleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}
	whole := request.GetBool("whole_series", false)

	res, err := h.tr.Delete(ctx, id, func(task.Task) bool { return whole })
	if err != nil {
		return h.toolError("delete task", err), nil
	}
	if res.Removed == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Task not found: %s", id)), nil
	}

	if res.WholeSeries {
		return mcp.NewToolResultText(fmt.Sprintf("Deleted series of task %s (%d tasks removed).", id, res.Removed)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted task %s.", id)), nil
}

// HandleDeleteSeries removes every instance of a series.
func (h *TaskHandlers) HandleDeleteSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.removeSeries(ctx, request, h.tr.DeleteSeries, "Deleted")
}

// HandleDisableFutureSeries stops a series.
func (h *TaskHandlers) HandleDisableFutureSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.removeSeries(ctx, request, h.tr.DisableFutureSeries, "Disabled")
}

func (h *TaskHandlers) removeSeries(ctx context.Context, request mcp.CallToolRequest, remove func(context.Context, string) (int, error), verb string) (*mcp.CallToolResult, error) {
	parentID, err := request.RequireString("parent_id")
	if err != nil || strings.TrimSpace(parentID) == "" {
		return mcp.NewToolResultError("Missing required parameter: parent_id"), nil
	}

	n, err := remove(ctx, parentID)
	if err != nil {
		return h.toolError("remove series", err), nil
	}
	if n == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Series not found: %s", parentID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s series %s (%d tasks removed).", verb, parentID, n)), nil
}

type seriesSummary struct {
	ParentID       string `json:"parentId"`
	Title          string `json:"title"`
	Pattern        string `json:"pattern"`
	Count          int    `json:"count"`
	CompletedCount int    `json:"completedCount"`
}

// HandleListSeries summarizes the recurring series.
func (h *TaskHandlers) HandleListSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries := h.tr.Series()
	out := make([]seriesSummary, len(summaries))
	for i, s := range summaries {
		out[i] = seriesSummary{
			ParentID:       s.ParentID,
			Title:          s.Representative.Title,
			Pattern:        string(s.Pattern),
			Count:          s.Count,
			CompletedCount: s.CompletedCount,
		}
	}
	return jsonResult(map[string]any{"series": out, "count": len(out)})
}

type taskStatus struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Kind     string `json:"kind"`
	Priority string `json:"priority,omitempty"`
	Color    string `json:"color"`
	Due      string `json:"due,omitempty"`
}

// HandleTaskStatus classifies one task relative to today.
func (h *TaskHandlers) HandleTaskStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("Missing required parameter: id"), nil
	}

	t, err := h.tr.Get(id)
	if err != nil {
		return h.toolError("classify task", err), nil
	}
	today := h.tr.Today()
	st := status.Classify(t, today)

	return jsonResult(taskStatus{
		ID:       t.ID,
		Status:   st.String(),
		Kind:     st.Kind.String(),
		Priority: string(st.Priority),
		Color:    string(status.ColorFor(st)),
		Due:      status.DueLabel(t.DueDate, today),
	})
}

// HandleTaskStats counts the collection.
func (h *TaskHandlers) HandleTaskStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.tr.Stats())
}

// HandleSetDarkMode reads or writes the dark mode preference.
func (h *TaskHandlers) HandleSetDarkMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := request.GetArguments()["enabled"]; ok {
		enabled, err := request.RequireBool("enabled")
		if err != nil {
			return mcp.NewToolResultError("Parameter 'enabled' must be a boolean"), nil
		}
		if err := h.tr.SetDarkMode(ctx, enabled); err != nil {
			return h.toolError("save dark mode", err), nil
		}
	}
	return jsonResult(map[string]bool{"darkMode": h.tr.DarkMode()})
}

// toolError turns a tracker error into a tool error result. Validation
// failures carry their user-facing message unchanged.
func (h *TaskHandlers) toolError(action string, err error) *mcp.CallToolResult {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Message)
	case errors.Is(err, tracker.ErrTaskNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("Task not found: %v", err))
	case errors.Is(err, recurrence.ErrNonTerminating):
		return mcp.NewToolResultError(err.Error())
	}

	h.log.WithError(err).WithField("action", action).Error("tool call failed")
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", action, err))
}

// draftFromRequest overlays the task fields present in the request onto
// base.
func draftFromRequest(request mcp.CallToolRequest, base task.Draft) task.Draft {
	args := request.GetArguments()
	has := func(key string) bool {
		_, ok := args[key]
		return ok
	}
	str := func(key string, dst *string) {
		if has(key) {
			*dst = request.GetString(key, "")
		}
	}

	d := base
	str("title", &d.Title)
	str("description", &d.Description)
	str("priority", &d.Priority)
	str("category", &d.Category)
	str("due_date", &d.DueDate)
	str("recurring_pattern", &d.RecurringPattern)
	str("recurring_start_date", &d.RecurringStartDate)
	str("recurring_end_date", &d.RecurringEndDate)
	if has("is_recurring") {
		d.IsRecurring = request.GetBool("is_recurring", false)
	}
	if has("tags") {
		d.Tags = request.GetStringSlice("tags", []string{})
	}
	return d
}

// jsonResult returns v as indented JSON text together with the structured
// value.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultStructured(v, string(data)), nil
}
