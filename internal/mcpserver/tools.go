// Package mcpserver exposes a task tracker over the Model Context Protocol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	priorityNames = []string{"low", "medium", "high"}
	categoryNames = []string{"personal", "work", "shopping", "health"}
	patternNames  = []string{"daily", "weekly", "monthly"}
)

// taskFieldOptions are the editable task fields shared by add_task and
// update_task.
func taskFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("description",
			mcp.Description("Free-form notes")),
		mcp.WithString("priority",
			mcp.Enum(priorityNames...),
			mcp.Description("Priority tier (default: medium)")),
		mcp.WithString("category",
			mcp.Enum(categoryNames...),
			mcp.Description("Category (default: personal)")),
		mcp.WithString("due_date",
			mcp.Description("Due date as YYYY-MM-DD")),
		mcp.WithBoolean("is_recurring",
			mcp.Description("Expand the task into a series of instances between the recurrence dates")),
		mcp.WithString("recurring_pattern",
			mcp.Enum(patternNames...),
			mcp.Description("Recurrence step (default: daily)")),
		mcp.WithString("recurring_start_date",
			mcp.Description("First occurrence as YYYY-MM-DD; required when is_recurring is true")),
		mcp.WithString("recurring_end_date",
			mcp.Description("Last possible occurrence as YYYY-MM-DD (inclusive); required when is_recurring is true")),
		mcp.WithArray("tags",
			mcp.WithStringItems(),
			mcp.Description("Labels attached to the task")),
	}
}

func addTaskTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a task. A recurring task is expanded into one instance per occurrence and the instances are returned."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title")),
	}
	return mcp.NewTool("add_task", append(opts, taskFieldOptions()...)...)
}

func updateTaskTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Edit a task. Omitted fields keep their current value. Editing a series instance never re-expands the series."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the task to edit")),
		mcp.WithString("title",
			mcp.Description("New title")),
	}
	return mcp.NewTool("update_task", append(opts, taskFieldOptions()...)...)
}

func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks matching a filter and an optional case-insensitive search over title and description."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("filter",
			mcp.Description("all, completed, pending, a priority (low, medium, high) or a category (personal, work, shopping, health). Defaults to all.")),
		mcp.WithString("search",
			mcp.Description("Text to look for in title or description")),
		mcp.WithBoolean("overdue",
			mcp.Description("Only return tasks that are overdue today")),
	)
}

func tasksOnDateTool() mcp.Tool {
	return mcp.NewTool("tasks_on_date",
		mcp.WithDescription("List the tasks due on a given day."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day as YYYY-MM-DD")),
	)
}

func calendarMonthTool() mcp.Tool {
	return mcp.NewTool("calendar_month",
		mcp.WithDescription("Lay tasks out over the Sunday-first weeks of a month."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("month",
			mcp.Description("Month as YYYY-MM (defaults to the current month)")),
	)
}

func toggleTaskTool() mcp.Tool {
	return mcp.NewTool("toggle_task",
		mcp.WithDescription("Flip the completion state of a task."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the task to toggle")),
	)
}

func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task. For a series instance, whole_series decides whether every instance of the series is deleted too."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the task to delete")),
		mcp.WithBoolean("whole_series",
			mcp.Description("Delete all instances of the task's series (default: false, only this instance)")),
	)
}

func deleteSeriesTool() mcp.Tool {
	return mcp.NewTool("delete_series",
		mcp.WithDescription("Delete every instance of a recurring series."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("parent_id",
			mcp.Required(),
			mcp.Description("Series id (recurringParentId of its instances)")),
	)
}

func disableFutureSeriesTool() mcp.Tool {
	return mcp.NewTool("disable_future_series",
		mcp.WithDescription("Stop a recurring series. Currently removes every instance of the series."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("parent_id",
			mcp.Required(),
			mcp.Description("Series id (recurringParentId of its instances)")),
	)
}

func listSeriesTool() mcp.Tool {
	return mcp.NewTool("list_series",
		mcp.WithDescription("Summarize each recurring series: representative task, pattern, instance and completion counts."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func taskStatusTool() mcp.Tool {
	return mcp.NewTool("task_status",
		mcp.WithDescription("Classify a task relative to today: completed, overdue, due today or normal, with its display colour."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the task")),
	)
}

func taskStatsTool() mcp.Tool {
	return mcp.NewTool("task_stats",
		mcp.WithDescription("Count total, completed and pending tasks."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func setDarkModeTool() mcp.Tool {
	return mcp.NewTool("set_dark_mode",
		mcp.WithDescription("Read or change the stored dark mode preference. Without 'enabled' the current value is returned."),
		mcp.WithBoolean("enabled",
			mcp.Description("New dark mode value")),
	)
}

func startPostgresTool() mcp.Tool {
	return mcp.NewTool("start_postgres",
		mcp.WithDescription("Start a throwaway PostgreSQL container, copy the task collection into it and use it as the store until stop_postgres."),
		mcp.WithString("password",
			mcp.Description("PostgreSQL password for the postgres user")),
		mcp.WithString("database",
			mcp.Description("Name of the database to create")),
		mcp.WithString("image",
			mcp.Description("Docker image to use for PostgreSQL (e.g., postgres:16-alpine)")),
	)
}

func stopPostgresTool() mcp.Tool {
	return mcp.NewTool("stop_postgres",
		mcp.WithDescription("Copy the task collection back into the configured store and remove the PostgreSQL container."),
	)
}

func postgresStatusTool() mcp.Tool {
	return mcp.NewTool("postgres_status",
		mcp.WithDescription("Report whether the sandbox PostgreSQL container is running, with connection details."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
