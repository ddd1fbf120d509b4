package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/taskflow/internal/logger"
	"github.com/JamesPrial/taskflow/internal/storage"
	"github.com/JamesPrial/taskflow/internal/task"
	"github.com/JamesPrial/taskflow/internal/tracker"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*tracker.Tracker, storage.Store) {
	t.Helper()
	store := storage.NewJSONBackend(filepath.Join(t.TempDir(), "store.json"))
	tr, err := tracker.New(context.Background(), store, logger.Discard(), tracker.Options{
		Now: func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return tr, store
}

func newTestHandlers(t *testing.T) *TaskHandlers {
	t.Helper()
	tr, _ := newTestTracker(t)
	return NewTaskHandlers(tr, logger.Discard())
}

func makeRequest(name string, args map[string]any) mcp.CallToolRequest {
	if args == nil {
		args = map[string]any{}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the text of the first content element.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "result.Content[0] is %T, want mcp.TextContent", result.Content[0])
	return tc.Text
}

// decodeResult parses the JSON text of a successful result into v.
func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", resultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), v))
}

type call func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func invoke(t *testing.T, fn call, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := fn(context.Background(), makeRequest(name, args))
	require.NoError(t, err, "handlers report failures as tool results, never as Go errors")
	return result
}

func addTasks(t *testing.T, h *TaskHandlers, args map[string]any) []task.Task {
	t.Helper()
	var out taskList
	decodeResult(t, invoke(t, h.HandleAddTask, "add_task", args), &out)
	return out.Tasks
}

// ---------------------------------------------------------------------------
// add_task
// ---------------------------------------------------------------------------

func Test_HandleAddTask_Standalone(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	got := addTasks(t, h, map[string]any{
		"title":    "Dentist",
		"category": "health",
		"due_date": "2024-03-12",
		"tags":     []any{"teeth", "q1"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Dentist", got[0].Title)
	assert.Equal(t, task.CategoryHealth, got[0].Category)
	assert.Equal(t, task.PriorityMedium, got[0].Priority)
	assert.Equal(t, "2024-03-12", got[0].DueDate.String())
	assert.Equal(t, []string{"teeth", "q1"}, got[0].Tags)
}

func Test_HandleAddTask_Recurring(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	got := addTasks(t, h, map[string]any{
		"title":                "Review",
		"is_recurring":         true,
		"recurring_pattern":    "weekly",
		"recurring_start_date": "2024-03-01",
		"recurring_end_date":   "2024-03-29",
	})

	require.Len(t, got, 5)
	assert.Equal(t, "2024-03-29", got[4].DueDate.String())
	assert.Equal(t, "Review (#5)", got[4].Title)
}

func Test_HandleAddTask_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing title", map[string]any{}, "Missing required parameter: title"},
		{"blank title", map[string]any{"title": "   "}, "Please enter a task title"},
		{"recurring without dates", map[string]any{"title": "x", "is_recurring": true}, "Please specify start and end dates for recurring tasks"},
		{"end before start", map[string]any{
			"title": "x", "is_recurring": true,
			"recurring_start_date": "2024-03-10", "recurring_end_date": "2024-03-01",
		}, "End date must be after start date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestHandlers(t)

			result := invoke(t, h.HandleAddTask, "add_task", tt.args)
			assert.True(t, result.IsError)
			assert.Equal(t, tt.want, resultText(t, result))
			assert.Empty(t, h.tr.Tasks())
		})
	}
}

// ---------------------------------------------------------------------------
// list_tasks / tasks_on_date / calendar_month
// ---------------------------------------------------------------------------

func Test_HandleListTasks(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	addTasks(t, h, map[string]any{"title": "Buy milk", "category": "shopping", "due_date": "2024-03-01"})
	addTasks(t, h, map[string]any{"title": "Quarterly report", "priority": "high", "category": "work"})
	addTasks(t, h, map[string]any{"title": "Call mom", "description": "about the MILK", "due_date": "2024-03-10"})

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"all", nil, []string{"Buy milk", "Quarterly report", "Call mom"}},
		{"priority", map[string]any{"filter": "high"}, []string{"Quarterly report"}},
		{"category", map[string]any{"filter": "shopping"}, []string{"Buy milk"}},
		{"search", map[string]any{"search": "milk"}, []string{"Buy milk", "Call mom"}},
		{"filter and search", map[string]any{"filter": "personal", "search": "milk"}, []string{"Call mom"}},
		{"overdue", map[string]any{"overdue": true}, []string{"Buy milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out taskList
			decodeResult(t, invoke(t, h.HandleListTasks, "list_tasks", tt.args), &out)

			titles := make([]string, len(out.Tasks))
			for i, tk := range out.Tasks {
				titles[i] = tk.Title
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, len(tt.want), out.Count)
		})
	}
}

func Test_HandleListTasks_UnknownFilter(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	result := invoke(t, h.HandleListTasks, "list_tasks", map[string]any{"filter": "urgent"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unknown filter")
}

func Test_HandleTasksOnDate(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	addTasks(t, h, map[string]any{"title": "a", "due_date": "2024-03-15"})
	addTasks(t, h, map[string]any{"title": "b"})

	var out taskList
	decodeResult(t, invoke(t, h.HandleTasksOnDate, "tasks_on_date", map[string]any{"date": "2024-03-15"}), &out)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "a", out.Tasks[0].Title)

	for _, bad := range []string{"", "15/03/2024"} {
		result := invoke(t, h.HandleTasksOnDate, "tasks_on_date", map[string]any{"date": bad})
		assert.True(t, result.IsError, bad)
	}
}

func Test_HandleCalendarMonth(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	addTasks(t, h, map[string]any{"title": "leap", "due_date": "2024-02-29", "priority": "high"})

	var out calendarMonth
	decodeResult(t, invoke(t, h.HandleCalendarMonth, "calendar_month", map[string]any{"month": "2024-02"}), &out)

	assert.Equal(t, "2024-02", out.Month)
	require.Len(t, out.Days, 35)
	assert.Equal(t, "2024-01-28", out.Days[0].Date)
	assert.False(t, out.Days[0].InMonth)

	var leap calendarDay
	for _, d := range out.Days {
		if d.Date == "2024-02-29" {
			leap = d
		}
	}
	require.Len(t, leap.Tasks, 1)
	assert.Equal(t, "overdue", leap.Tasks[0].Status)

	decodeResult(t, invoke(t, h.HandleCalendarMonth, "calendar_month", nil), &out)
	assert.Equal(t, "2024-03", out.Month, "defaults to the current month")

	result := invoke(t, h.HandleCalendarMonth, "calendar_month", map[string]any{"month": "March"})
	assert.True(t, result.IsError)
}

// ---------------------------------------------------------------------------
// toggle_task / update_task
// ---------------------------------------------------------------------------

func Test_HandleToggleTask(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	added := addTasks(t, h, map[string]any{"title": "flip"})

	var toggled task.Task
	decodeResult(t, invoke(t, h.HandleToggleTask, "toggle_task", map[string]any{"id": added[0].ID}), &toggled)
	assert.True(t, toggled.IsCompleted)

	result := invoke(t, h.HandleToggleTask, "toggle_task", map[string]any{"id": "nope"})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Task not found")
}

func Test_HandleUpdateTask_PartialEdit(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	added := addTasks(t, h, map[string]any{
		"title": "Draft", "description": "keep me", "priority": "low", "tags": []any{"x"},
	})

	var edited task.Task
	decodeResult(t, invoke(t, h.HandleUpdateTask, "update_task", map[string]any{
		"id":       added[0].ID,
		"title":    "Final",
		"due_date": "2024-04-01",
	}), &edited)

	assert.Equal(t, "Final", edited.Title)
	assert.Equal(t, "keep me", edited.Description)
	assert.Equal(t, task.PriorityLow, edited.Priority)
	assert.Equal(t, "2024-04-01", edited.DueDate.String())
	assert.Equal(t, []string{"x"}, edited.Tags)
	assert.Equal(t, added[0].CreatedAt, edited.CreatedAt)
}

func Test_HandleUpdateTask_Errors(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	added := addTasks(t, h, map[string]any{"title": "x"})

	result := invoke(t, h.HandleUpdateTask, "update_task", map[string]any{"id": "missing", "title": "y"})
	assert.True(t, result.IsError)

	result = invoke(t, h.HandleUpdateTask, "update_task", map[string]any{"id": added[0].ID, "title": ""})
	assert.True(t, result.IsError)
	assert.Equal(t, "Please enter a task title", resultText(t, result))

	result = invoke(t, h.HandleUpdateTask, "update_task", map[string]any{"id": added[0].ID, "priority": "urgent"})
	assert.True(t, result.IsError)
}

// ---------------------------------------------------------------------------
// Deletion and series
// ---------------------------------------------------------------------------

func seriesArgs() map[string]any {
	return map[string]any{
		"title":                "Standup",
		"is_recurring":         true,
		"recurring_start_date": "2024-03-11",
		"recurring_end_date":   "2024-03-13",
	}
}

func Test_HandleDeleteTask(t *testing.T) {
	t.Parallel()

	t.Run("instance only", func(t *testing.T) {
		t.Parallel()
		h := newTestHandlers(t)
		inst := addTasks(t, h, seriesArgs())

		result := invoke(t, h.HandleDeleteTask, "delete_task", map[string]any{"id": inst[1].ID})
		assert.False(t, result.IsError)
		assert.Len(t, h.tr.Tasks(), 2)
	})

	t.Run("whole series", func(t *testing.T) {
		t.Parallel()
		h := newTestHandlers(t)
		inst := addTasks(t, h, seriesArgs())
		addTasks(t, h, map[string]any{"title": "solo"})

		result := invoke(t, h.HandleDeleteTask, "delete_task", map[string]any{"id": inst[1].ID, "whole_series": true})
		assert.False(t, result.IsError)
		assert.Contains(t, resultText(t, result), "3 tasks removed")
		assert.Len(t, h.tr.Tasks(), 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		h := newTestHandlers(t)
		result := invoke(t, h.HandleDeleteTask, "delete_task", map[string]any{"id": "ghost"})
		assert.True(t, result.IsError)
	})
}

func Test_HandleSeriesTools(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	first := addTasks(t, h, seriesArgs())
	second := addTasks(t, h, seriesArgs())
	_, err := h.tr.Toggle(context.Background(), second[0].ID)
	require.NoError(t, err)

	var listed struct {
		Series []seriesSummary `json:"series"`
		Count  int             `json:"count"`
	}
	decodeResult(t, invoke(t, h.HandleListSeries, "list_series", nil), &listed)
	require.Equal(t, 2, listed.Count)
	assert.Equal(t, first[0].RecurringParentID, listed.Series[0].ParentID)
	assert.Equal(t, "Standup", listed.Series[0].Title)
	assert.Equal(t, "daily", listed.Series[0].Pattern)
	assert.Equal(t, 3, listed.Series[0].Count)
	assert.Equal(t, 1, listed.Series[1].CompletedCount)

	result := invoke(t, h.HandleDeleteSeries, "delete_series", map[string]any{"parent_id": first[0].RecurringParentID})
	assert.False(t, result.IsError)
	assert.Len(t, h.tr.Tasks(), 3)

	result = invoke(t, h.HandleDisableFutureSeries, "disable_future_series", map[string]any{"parent_id": second[0].RecurringParentID})
	assert.False(t, result.IsError)
	assert.Empty(t, h.tr.Tasks())

	result = invoke(t, h.HandleDeleteSeries, "delete_series", map[string]any{"parent_id": "gone"})
	assert.True(t, result.IsError)
}

// ---------------------------------------------------------------------------
// task_status / task_stats / set_dark_mode
// ---------------------------------------------------------------------------

func Test_HandleTaskStatus(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	today := addTasks(t, h, map[string]any{"title": "today", "due_date": "2024-03-10", "priority": "high"})
	late := addTasks(t, h, map[string]any{"title": "late", "due_date": "2024-03-01"})

	var st taskStatus
	decodeResult(t, invoke(t, h.HandleTaskStatus, "task_status", map[string]any{"id": today[0].ID}), &st)
	assert.Equal(t, "due-today", st.Kind)
	assert.Equal(t, "high", st.Priority)
	assert.Equal(t, "Today", st.Due)
	assert.Equal(t, "#ef4444", st.Color)

	decodeResult(t, invoke(t, h.HandleTaskStatus, "task_status", map[string]any{"id": late[0].ID}), &st)
	assert.Equal(t, "overdue", st.Kind)
	assert.Equal(t, "#dc2626", st.Color)

	result := invoke(t, h.HandleTaskStatus, "task_status", map[string]any{"id": "x"})
	assert.True(t, result.IsError)
}

func Test_HandleTaskStats(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	added := addTasks(t, h, seriesArgs())
	_, err := h.tr.Toggle(context.Background(), added[0].ID)
	require.NoError(t, err)

	var stats map[string]int
	decodeResult(t, invoke(t, h.HandleTaskStats, "task_stats", nil), &stats)
	assert.Equal(t, map[string]int{"totalTasks": 3, "completedTasks": 1, "pendingTasks": 2}, stats)
}

func Test_HandleSetDarkMode(t *testing.T) {
	t.Parallel()

	tr, store := newTestTracker(t)
	h := NewTaskHandlers(tr, logger.Discard())

	var out map[string]bool
	decodeResult(t, invoke(t, h.HandleSetDarkMode, "set_dark_mode", nil), &out)
	assert.False(t, out["darkMode"])

	decodeResult(t, invoke(t, h.HandleSetDarkMode, "set_dark_mode", map[string]any{"enabled": true}), &out)
	assert.True(t, out["darkMode"])

	on, err := storage.LoadDarkMode(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, on)

	result := invoke(t, h.HandleSetDarkMode, "set_dark_mode", map[string]any{"enabled": "maybe"})
	assert.True(t, result.IsError)
}
