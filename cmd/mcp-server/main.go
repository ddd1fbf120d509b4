// Package main implements the taskflow MCP server.
//
// The server exposes the task tracker as MCP tools over stdio JSON-RPC,
// plus a sandbox PostgreSQL container that can temporarily hold the
// collection. Configuration is read from TASKFLOW_* environment variables
// and logs are written to stderr as JSON.
package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/JamesPrial/taskflow/internal/config"
	"github.com/JamesPrial/taskflow/internal/logger"
	"github.com/JamesPrial/taskflow/internal/mcpserver"
	"github.com/JamesPrial/taskflow/internal/storage"
	"github.com/JamesPrial/taskflow/internal/tracker"
)

func run() int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New("taskflow-mcp", "", os.Stderr).WithError(err).Error("invalid configuration")
		return 1
	}
	logEntry := logger.New("taskflow-mcp", cfg.LogLevel, os.Stderr)

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logEntry.WithError(err).Error("failed to open store")
		return 1
	}
	defer func() { _ = store.Close() }()

	tr, err := tracker.New(ctx, store, logEntry, tracker.Options{MaxInstances: cfg.MaxInstances})
	if err != nil {
		logEntry.WithError(err).Error("failed to load tasks")
		return 1
	}

	srv, err := mcpserver.NewServer(tr, logEntry)
	if err != nil {
		logEntry.WithError(err).Error("failed to create MCP server")
		return 1
	}
	defer func() {
		if err := srv.Close(ctx); err != nil {
			logEntry.WithError(err).Error("failed to stop sandbox container")
		}
	}()

	errLogger, errWriter := newErrorLogger(logEntry)
	defer func() { _ = errWriter.Close() }()

	logEntry.WithField("backend", cfg.Storage.Backend).Info("serving MCP over stdio")
	if err := server.ServeStdio(srv.MCPServer, server.WithErrorLogger(errLogger)); err != nil {
		logEntry.WithError(err).Error("server error")
		return 1
	}
	return 0
}

// newErrorLogger adapts entry to the *log.Logger mcp-go reports transport
// errors to. Closing the returned writer stops the goroutine logrus runs
// behind it.
func newErrorLogger(entry *logrus.Entry) (*log.Logger, *io.PipeWriter) {
	w := entry.WriterLevel(logrus.ErrorLevel)
	return log.New(w, "", 0), w
}

func main() {
	os.Exit(run())
}
