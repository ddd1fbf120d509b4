package mcpserver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/JamesPrial/taskflow/internal/storage"
	"github.com/JamesPrial/taskflow/internal/tracker"
)

// ContainerManager runs a sandbox PostgreSQL container and switches the
// tracker's store to it while it is up. The store that was active before
// start_postgres is restored by stop_postgres.
type ContainerManager struct {
	tr  *tracker.Tracker
	log logrus.FieldLogger

	mu        sync.Mutex
	container *postgres.PostgresContainer
	connStr   string
	startedAt time.Time
	home      storage.Store
}

// NewContainerManager creates a ContainerManager with no running container.
func NewContainerManager(tr *tracker.Tracker, log logrus.FieldLogger) *ContainerManager {
	return &ContainerManager{tr: tr, log: log}
}

// ConnStr returns the sandbox connection string, or "" when no container is
// running.
func (m *ContainerManager) ConnStr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connStr
}

const (
	defaultPassword = "taskflow"
	defaultDatabase = "taskflow"
	defaultImage    = "postgres:16-alpine"
	defaultUsername = "postgres"
	containerLabel  = "taskflow-postgres"
)

// HandleStartPostgres starts the container and moves the collection into it.
// Parameters:
//   - password: PostgreSQL password (default: "taskflow")
//   - database: Database name (default: "taskflow")
//   - image: Docker image (default: "postgres:16-alpine")
func (m *ContainerManager) HandleStartPostgres(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PostgreSQL container already running.\nConnection string: %s", m.connStr)), nil
	}

	password := request.GetString("password", defaultPassword)
	database := request.GetString("database", defaultDatabase)
	image := request.GetString("image", defaultImage)

	pgContainer, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase(database),
		postgres.WithUsername(defaultUsername),
		postgres.WithPassword(password),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"managed-by": containerLabel,
		}),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to start PostgreSQL container: %v", err)), nil
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get connection string: %v", err)), nil
	}

	sandbox, err := storage.NewPostgresBackend(ctx, connStr)
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to prepare sandbox store: %v", err)), nil
	}

	home, err := m.tr.SwapStore(ctx, sandbox)
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to move tasks into sandbox: %v", err)), nil
	}

	m.container = pgContainer
	m.connStr = connStr
	m.startedAt = time.Now()
	m.home = home

	m.log.WithField("container_id", shortID(pgContainer.GetContainerID())).Info("sandbox postgres started")
	return mcp.NewToolResultText(fmt.Sprintf("PostgreSQL container started; tasks are now stored in it.\nConnection string: %s", connStr)), nil
}

// HandleStopPostgres moves the collection back to the home store and
// removes the container.
func (m *ContainerManager) HandleStopPostgres(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container == nil {
		return mcp.NewToolResultError("No PostgreSQL container is running."), nil
	}

	if err := m.stopLocked(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Tasks copied back to the configured store. PostgreSQL container stopped and removed."), nil
}

// HandlePostgresStatus reports the sandbox container state.
func (m *ContainerManager) HandlePostgresStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container == nil {
		return mcp.NewToolResultText("Status: No container managed.\nTasks are stored in the configured store."), nil
	}

	state, err := m.container.State(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get container state: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Status: Container running\nContainer ID: %s\nConnection string: %s\nUptime: %s\nRunning: %t",
		shortID(m.container.GetContainerID()),
		m.connStr,
		time.Since(m.startedAt).Round(time.Second),
		state.Running,
	)), nil
}

// Shutdown stops a running sandbox, restoring the home store. It is a
// no-op when no container is running.
func (m *ContainerManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.container == nil {
		return nil
	}
	return m.stopLocked(ctx)
}

// stopLocked restores the home store and terminates the container.
// Callers hold mu.
func (m *ContainerManager) stopLocked(ctx context.Context) error {
	if _, err := m.tr.SwapStore(ctx, m.home); err != nil {
		return fmt.Errorf("failed to copy tasks back to the configured store: %w", err)
	}
	if err := testcontainers.TerminateContainer(m.container); err != nil {
		m.log.WithError(err).Warn("failed to terminate sandbox container")
	}

	m.container = nil
	m.connStr = ""
	m.startedAt = time.Time{}
	m.home = nil

	m.log.Info("sandbox postgres stopped")
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
