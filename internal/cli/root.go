// Package cli provides the taskflow command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/taskflow/internal/tracker"
)

// Output formats accepted by --output.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// NewRootCommand creates the root command. Every subcommand operates on tr.
func NewRootCommand(tr *tracker.Tracker, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "Personal task tracker with recurring series",
		Long: `taskflow keeps a single collection of tasks with priorities, categories,
due dates and tags. Recurring tasks expand into one task per occurrence and
can be managed together as a series.

Storage is selected with TASKFLOW_STORAGE_BACKEND (json, sqlite or postgres).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCommand(tr),
		newListCommand(tr),
		newDayCommand(tr),
		newCalendarCommand(tr),
		newToggleCommand(tr),
		newEditCommand(tr),
		newDeleteCommand(tr),
		newSeriesCommand(tr),
		newStatsCommand(tr),
		newDarkModeCommand(tr),
	)
	return root
}

// addOutputFlag registers --output on cmd, bound to target.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", formatText, "Output format: text, json or yaml")
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q: expected text, json or yaml", format)
}

// errNotFound decorates tracker.ErrTaskNotFound with the id the user typed.
func errNotFound(id string, err error) error {
	if errors.Is(err, tracker.ErrTaskNotFound) {
		return fmt.Errorf("task not found: %s", id)
	}
	return err
}
