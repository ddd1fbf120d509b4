package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/taskflow/internal/tracker"
)

func newSeriesCommand(tr *tracker.Tracker) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Manage recurring series",
	}
	cmd.AddCommand(
		newSeriesListCommand(tr),
		newSeriesShowCommand(tr),
		newSeriesRemoveCommand("delete", "Delete every task of a series", tr.DeleteSeries),
		newSeriesRemoveCommand("disable", "Stop a series so it produces no further tasks", tr.DisableFutureSeries),
	)
	return cmd
}

func newSeriesListCommand(tr *tracker.Tracker) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recurring series",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			list := tr.Series()
			if output != formatText {
				return encode(cmd.OutOrStdout(), output, newSeriesSummaries(list))
			}
			newPrinter(cmd.OutOrStdout(), tr.Today()).series(list)
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newSeriesShowCommand(tr *tracker.Tracker) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show PARENT_ID",
		Short: "List the tasks of one series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			members := tr.SeriesMembers(args[0])
			if output != formatText {
				return encode(cmd.OutOrStdout(), output, newTaskList(members))
			}
			newPrinter(cmd.OutOrStdout(), tr.Today()).tasks(members, "No series with id "+args[0]+".")
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newSeriesRemoveCommand(use, short string, remove func(ctx context.Context, parentID string) (int, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PARENT_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No series with id %s.\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from series %s.\n", plural(n, "task"), args[0])
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// stats / dark-mode
// ---------------------------------------------------------------------------

func newStatsCommand(tr *tracker.Tracker) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			s := tr.Stats()
			if output != formatText {
				return encode(cmd.OutOrStdout(), output, stats{Total: s.Total, Completed: s.Completed, Pending: s.Pending})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\nCompleted: %d\nPending: %d\nOverdue: %d\n",
				s.Total, s.Completed, s.Pending, len(tr.Overdue()))
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newDarkModeCommand(tr *tracker.Tracker) *cobra.Command {
	return &cobra.Command{
		Use:       "dark-mode [on|off]",
		Short:     "Show or set the dark mode preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var on bool
				switch strings.ToLower(args[0]) {
				case "on", "true":
					on = true
				case "off", "false":
				default:
					return fmt.Errorf("invalid value %q: expected on or off", args[0])
				}
				if err := tr.SetDarkMode(cmd.Context(), on); err != nil {
					return err
				}
			}

			state := "off"
			if tr.DarkMode() {
				state = "on"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dark mode: %s\n", state)
			return nil
		},
	}
}
