package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/JamesPrial/taskflow/internal/tracker"
)

const (
	serverName    = "taskflow"
	serverVersion = "1.0.0"
)

// Server is an MCP server with every taskflow tool registered.
type Server struct {
	*server.MCPServer

	Tasks      *TaskHandlers
	Containers *ContainerManager
}

// NewServer registers the task and sandbox tools against tr. No container is
// started until start_postgres is called.
func NewServer(tr *tracker.Tracker, log logrus.FieldLogger) (*Server, error) {
	th := NewTaskHandlers(tr, log)
	cm := NewContainerManager(tr, log)

	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	// Task tools
	s.AddTool(addTaskTool(), th.HandleAddTask)
	s.AddTool(listTasksTool(), th.HandleListTasks)
	s.AddTool(tasksOnDateTool(), th.HandleTasksOnDate)
	s.AddTool(calendarMonthTool(), th.HandleCalendarMonth)
	s.AddTool(toggleTaskTool(), th.HandleToggleTask)
	s.AddTool(updateTaskTool(), th.HandleUpdateTask)
	s.AddTool(deleteTaskTool(), th.HandleDeleteTask)
	s.AddTool(taskStatusTool(), th.HandleTaskStatus)
	s.AddTool(taskStatsTool(), th.HandleTaskStats)
	s.AddTool(setDarkModeTool(), th.HandleSetDarkMode)

	// Series tools
	s.AddTool(listSeriesTool(), th.HandleListSeries)
	s.AddTool(deleteSeriesTool(), th.HandleDeleteSeries)
	s.AddTool(disableFutureSeriesTool(), th.HandleDisableFutureSeries)

	// Sandbox container tools
	s.AddTool(startPostgresTool(), cm.HandleStartPostgres)
	s.AddTool(stopPostgresTool(), cm.HandleStopPostgres)
	s.AddTool(postgresStatusTool(), cm.HandlePostgresStatus)

	return &Server{MCPServer: s, Tasks: th, Containers: cm}, nil
}

// Close stops the sandbox container if one is running.
func (s *Server) Close(ctx context.Context) error {
	return s.Containers.Shutdown(ctx)
}
