// Package main is the entry point for the taskflow CLI.
//
// Storage and logging are configured with the same TASKFLOW_* environment
// variables as the MCP server, so both operate on the same collection.
//
// Exit codes:
//   - 0: Success
//   - 1: Error (invalid configuration, invalid input, storage failure)
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/JamesPrial/taskflow/internal/cli"
	"github.com/JamesPrial/taskflow/internal/config"
	"github.com/JamesPrial/taskflow/internal/logger"
	"github.com/JamesPrial/taskflow/internal/storage"
	"github.com/JamesPrial/taskflow/internal/tracker"
)

// version is set at build time using -ldflags.
var version = "dev"

// run executes the CLI with the given arguments and streams, returning an
// exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Mutations are logged at info; keep them off the terminal unless asked.
	level := cfg.LogLevel
	if os.Getenv("TASKFLOW_LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New("taskflow-cli", level, stderr)

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	tr, err := tracker.New(ctx, store, log, tracker.Options{MaxInstances: cfg.MaxInstances})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	root := cli.NewRootCommand(tr, version)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
