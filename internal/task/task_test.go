package task_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/task"
)

var fixedNow = time.Date(2024, 1, 1, 9, 30, 0, 123_000_000, time.UTC)

// ---------------------------------------------------------------------------
// Draft.Build: validation
// ---------------------------------------------------------------------------

func Test_DraftBuild_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		draft   task.Draft
		wantErr error
	}{
		{
			name:    "empty title",
			draft:   task.Draft{Title: ""},
			wantErr: task.ErrEmptyTitle,
		},
		{
			name:    "whitespace title",
			draft:   task.Draft{Title: "   \t"},
			wantErr: task.ErrEmptyTitle,
		},
		{
			name:    "recurring without start",
			draft:   task.Draft{Title: "x", IsRecurring: true, RecurringEndDate: "2024-01-05"},
			wantErr: task.ErrMissingRecurrenceDates,
		},
		{
			name:    "recurring without end",
			draft:   task.Draft{Title: "x", IsRecurring: true, RecurringStartDate: "2024-01-05"},
			wantErr: task.ErrMissingRecurrenceDates,
		},
		{
			name: "end before start",
			draft: task.Draft{Title: "x", IsRecurring: true,
				RecurringStartDate: "2024-01-05", RecurringEndDate: "2024-01-04"},
			wantErr: task.ErrEndBeforeStart,
		},
		{
			name:    "malformed due date",
			draft:   task.Draft{Title: "x", DueDate: "next week"},
			wantErr: task.ErrInvalidDate,
		},
		{
			name: "malformed start date",
			draft: task.Draft{Title: "x", IsRecurring: true,
				RecurringStartDate: "2024/01/01", RecurringEndDate: "2024-01-04"},
			wantErr: task.ErrInvalidDate,
		},
		{
			name:    "unknown priority",
			draft:   task.Draft{Title: "x", Priority: "urgent"},
			wantErr: task.ErrInvalidPriority,
		},
		{
			name:    "unknown category",
			draft:   task.Draft{Title: "x", Category: "hobby"},
			wantErr: task.ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.draft.Build("id-1", fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *task.ValidationError
			require.True(t, errors.As(err, &verr), "error should be a *task.ValidationError")
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func Test_DraftBuild_TitleCheckedFirst(t *testing.T) {
	t.Parallel()

	_, err := task.Draft{IsRecurring: true, Priority: "bogus"}.Build("id", fixedNow)
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
}

// ---------------------------------------------------------------------------
// Draft.Build: success
// ---------------------------------------------------------------------------

func Test_DraftBuild_AppliesDefaults(t *testing.T) {
	t.Parallel()

	got, err := task.Draft{Title: "  Buy milk  "}.Build("id-1", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, task.PriorityMedium, got.Priority)
	assert.Equal(t, task.CategoryPersonal, got.Category)
	assert.Equal(t, task.PatternDaily, got.RecurringPattern)
	assert.True(t, got.DueDate.IsZero())
	assert.False(t, got.IsCompleted)
	assert.False(t, got.InSeries())
	assert.Equal(t, "2024-01-01T09:30:00.123Z", got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.NotNil(t, got.Tags)
	assert.Empty(t, got.Tags)
}

func Test_DraftBuild_Recurring(t *testing.T) {
	t.Parallel()

	got, err := task.Draft{
		Title:              "Stand-up",
		Priority:           "HIGH",
		Category:           "Work",
		IsRecurring:        true,
		RecurringPattern:   "weekly",
		RecurringStartDate: "2024-01-01",
		RecurringEndDate:   "2024-01-01",
	}.Build("decl", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, task.CategoryWork, got.Category)
	assert.Equal(t, task.PatternWeekly, got.RecurringPattern)
	assert.True(t, got.HasRecurrence())
	assert.Equal(t, dateops.MustParse("2024-01-01"), got.RecurringStartDate)
}

func Test_DraftApply_KeepsIdentity(t *testing.T) {
	t.Parallel()

	existing := task.Task{
		ID:                "p-2",
		Title:             "Water plants (#3)",
		Priority:          task.PriorityLow,
		Category:          task.CategoryPersonal,
		IsCompleted:       true,
		RecurringParentID: "p",
		RecurringIndex:    2,
		CreatedAt:         "2023-12-01T00:00:00.000Z",
		UpdatedAt:         "2023-12-01T00:00:00.000Z",
		Tags:              []string{"garden"},
	}

	d := task.DraftOf(existing)
	d.Title = "Water all plants"
	d.Tags = nil

	got, err := d.Apply(existing, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "p-2", got.ID)
	assert.Equal(t, "Water all plants", got.Title)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, "p", got.RecurringParentID)
	assert.Equal(t, 2, got.RecurringIndex)
	assert.Equal(t, existing.CreatedAt, got.CreatedAt)
	assert.Equal(t, task.Timestamp(fixedNow), got.UpdatedAt)
	assert.Equal(t, []string{"garden"}, got.Tags)
}

func Test_DraftApply_RejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := task.Draft{Title: ""}.Apply(task.Task{ID: "a"}, fixedNow)
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
}

// ---------------------------------------------------------------------------
// Enumerations
// ---------------------------------------------------------------------------

func Test_Pattern_Normalize(t *testing.T) {
	t.Parallel()

	tests := map[task.Pattern]task.Pattern{
		"daily":     task.PatternDaily,
		"weekly":    task.PatternWeekly,
		"Monthly":   task.PatternMonthly,
		"":          task.PatternDaily,
		"yearly":    task.PatternDaily,
		" weekly  ": task.PatternWeekly,
	}
	for in, want := range tests {
		assert.Equal(t, want, in.Normalize(), "Normalize(%q)", in)
	}
}

func Test_ParsePriorityAndCategory(t *testing.T) {
	t.Parallel()

	p, ok := task.ParsePriority(" Low ")
	assert.True(t, ok)
	assert.Equal(t, task.PriorityLow, p)

	_, ok = task.ParsePriority("critical")
	assert.False(t, ok)

	c, ok := task.ParseCategory("SHOPPING")
	assert.True(t, ok)
	assert.Equal(t, task.CategoryShopping, c)

	_, ok = task.ParseCategory("")
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// JSON shape
// ---------------------------------------------------------------------------

func Test_Task_JSONFieldNames(t *testing.T) {
	t.Parallel()

	tk := task.Task{
		ID:                 "1-0",
		Title:              "Run",
		Priority:           task.PriorityHigh,
		Category:           task.CategoryHealth,
		DueDate:            dateops.MustParse("2024-01-01"),
		IsRecurring:        true,
		RecurringPattern:   task.PatternDaily,
		RecurringStartDate: dateops.MustParse("2024-01-01"),
		RecurringEndDate:   dateops.MustParse("2024-01-05"),
		RecurringParentID:  "1",
		RecurringIndex:     3,
		CreatedAt:          "2024-01-01T00:00:00.000Z",
		UpdatedAt:          "2024-01-01T00:00:00.000Z",
	}.Normalize()

	data, err := json.Marshal(tk)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"id", "title", "description", "priority", "category", "dueDate",
		"isCompleted", "isRecurring", "recurringPattern", "recurringStartDate",
		"recurringEndDate", "recurringParentId", "recurringIndex",
		"createdAt", "updatedAt", "tags",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "2024-01-05", raw["recurringEndDate"])
	assert.Equal(t, []any{}, raw["tags"])
}

func Test_Task_StandaloneOmitsSeriesFields(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(task.Task{ID: "a", Title: "b"}.Normalize())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "recurringParentId")
	assert.NotContains(t, string(data), "recurringIndex")
	assert.Contains(t, string(data), `"dueDate":""`)
}

func Test_NewID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := task.NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
