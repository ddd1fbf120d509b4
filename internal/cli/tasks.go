package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/intake"
	"github.com/JamesPrial/taskflow/internal/query"
	"github.com/JamesPrial/taskflow/internal/series"
	"github.com/JamesPrial/taskflow/internal/task"
	"github.com/JamesPrial/taskflow/internal/tracker"
)

// draftFlags are the task fields shared by add and edit.
type draftFlags struct {
	title       string
	description string
	priority    string
	category    string
	due         string
	recurring   bool
	pattern     string
	start       string
	end         string
	tags        string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Task title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category: personal, work, shopping or health (default personal)")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.recurring, "recurring", false, "Repeat the task between --start and --end")
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "Recurrence pattern: daily, weekly or monthly (default daily)")
	cmd.Flags().StringVar(&f.start, "start", "", "First occurrence (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last possible occurrence (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
}

// overlay returns d with every flag the user set on cmd applied.
func (f *draftFlags) overlay(cmd *cobra.Command, d task.Draft) task.Draft {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("priority") {
		d.Priority = f.priority
	}
	if changed("category") {
		d.Category = f.category
	}
	if changed("due") {
		d.DueDate = f.due
	}
	if changed("recurring") {
		d.IsRecurring = f.recurring
	}
	if changed("pattern") {
		d.RecurringPattern = f.pattern
	}
	if changed("start") {
		d.RecurringStartDate = f.start
	}
	if changed("end") {
		d.RecurringEndDate = f.end
	}
	if changed("tags") {
		d.Tags = intake.SplitTags(f.tags)
	}
	return d
}

func (f *draftFlags) anyChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"title", "description", "priority", "category", "due", "recurring", "pattern", "start", "end", "tags"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// add
// ---------------------------------------------------------------------------

type addOptions struct {
	draftFlags
	stdin bool
}

func newAddCommand(tr *tracker.Tracker) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task or a recurring series",
		Example: `  taskflow add --title "Buy milk" --category shopping --due 2024-03-12
  taskflow add --title "Standup" --recurring --pattern daily --start 2024-03-11 --end 2024-03-15
  echo '[{"title":"a"},{"title":"b"}]' | taskflow add --stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var drafts []task.Draft
			if opts.stdin {
				if opts.anyChanged(cmd) {
					return errors.New("--stdin cannot be combined with field flags")
				}
				var err error
				drafts, err = intake.ReadDrafts(cmd.InOrStdin())
				if err != nil {
					return err
				}
				if len(drafts) == 0 {
					return errors.New("no tasks in input")
				}
			} else {
				drafts = []task.Draft{opts.overlay(cmd, task.Draft{})}
			}

			created, err := tr.CreateMany(cmd.Context(), drafts)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout(), tr.Today())
			p.println(fmt.Sprintf("Added %s:", plural(len(created), "task")))
			p.tasks(created, "")
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.stdin, "stdin", false, "Read JSON task declarations from stdin")
	return cmd
}

// ---------------------------------------------------------------------------
// list / day / calendar
// ---------------------------------------------------------------------------

type listOptions struct {
	filter  string
	search  string
	output  string
	overdue bool
}

func newListCommand(tr *tracker.Tracker) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks in collection order.

--filter accepts all, completed, pending, a priority (low, medium, high) or a
category (personal, work, shopping, health). --search matches title and
description case-insensitively. --overdue keeps only open tasks whose due date
has passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(opts.output); err != nil {
				return err
			}
			c, err := query.ParseCriterion(opts.filter)
			if err != nil {
				return err
			}

			var tasks []task.Task
			if opts.overdue {
				tasks = query.Query(tr.Overdue(), c, opts.search)
			} else {
				tasks = tr.Query(c, opts.search)
			}

			if opts.output != formatText {
				return encode(cmd.OutOrStdout(), opts.output, newTaskList(tasks))
			}
			newPrinter(cmd.OutOrStdout(), tr.Today()).tasks(tasks, "No tasks found.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "all", "Filter criterion")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Search term")
	cmd.Flags().BoolVar(&opts.overdue, "overdue", false, "Show only overdue tasks")
	addOutputFlag(cmd, &opts.output)
	return cmd
}

func newDayCommand(tr *tracker.Tracker) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "day YYYY-MM-DD",
		Short: "List the tasks due on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			day, err := dateops.Parse(args[0])
			if err != nil {
				return err
			}
			if day.IsZero() {
				return errors.New("date is required")
			}

			tasks := tr.TasksOnDate(day)
			if output != formatText {
				return encode(cmd.OutOrStdout(), output, newTaskList(tasks))
			}
			newPrinter(cmd.OutOrStdout(), tr.Today()).tasks(tasks, "No tasks due on "+day.String()+".")
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newCalendarCommand(tr *tracker.Tracker) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Show a month calendar of due tasks",
		Long:  "Show a month calendar of due tasks. Defaults to the current month.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			month := dateops.StartOfMonth(tr.Today())
			if len(args) == 1 {
				var err error
				month, err = dateops.ParseMonth(args[0])
				if err != nil {
					return err
				}
			}

			days := tr.Calendar(month)
			if output != formatText {
				return encode(cmd.OutOrStdout(), output, newCalendarMonth(month, days))
			}
			newPrinter(cmd.OutOrStdout(), tr.Today()).calendar(month, days)
			return nil
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

// ---------------------------------------------------------------------------
// toggle / edit
// ---------------------------------------------------------------------------

func newToggleCommand(tr *tracker.Tracker) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Mark a task completed, or reopen it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tr.Toggle(cmd.Context(), args[0])
			if err != nil {
				return errNotFound(args[0], err)
			}

			verb := "Reopened"
			if t.IsCompleted {
				verb = "Completed"
			}
			p := newPrinter(cmd.OutOrStdout(), tr.Today())
			p.println(verb + ": " + p.taskLine(t))
			return nil
		},
	}
}

func newEditCommand(tr *tracker.Tracker) *cobra.Command {
	var opts draftFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the fields of a task",
		Long: `Change the fields of a task. Only the flags given are changed.

Editing a task in a recurring series changes that task alone; the series is
not re-expanded.`,
		Example: `  taskflow edit 3f2c... --priority high --tags urgent,home`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.anyChanged(cmd) {
				return errors.New("no changes given: pass at least one field flag")
			}
			existing, err := tr.Get(args[0])
			if err != nil {
				return errNotFound(args[0], err)
			}

			updated, err := tr.Update(cmd.Context(), args[0], opts.overlay(cmd, task.DraftOf(existing)))
			if err != nil {
				return errNotFound(args[0], err)
			}

			p := newPrinter(cmd.OutOrStdout(), tr.Today())
			p.println("Updated: " + p.taskLine(updated))
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

// ---------------------------------------------------------------------------
// delete
// ---------------------------------------------------------------------------

type deleteOptions struct {
	series   bool
	instance bool
}

func newDeleteCommand(tr *tracker.Tracker) *cobra.Command {
	var opts deleteOptions

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task. When the task belongs to a recurring series, --series
removes every task of the series and --instance removes only this one. With
neither flag you are asked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.series && opts.instance {
				return errors.New("--series and --instance cannot be used together")
			}
			id := args[0]

			whole := opts.series
			if !opts.series && !opts.instance {
				t, err := tr.Get(id)
				if err == nil && t.InSeries() {
					n := len(series.BuildIndex(tr.Tasks())[t.RecurringParentID])
					whole, err = confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf(
						"%q is part of a recurring series of %s. Delete the whole series?", t.Title, plural(n, "task")))
					if err != nil {
						return err
					}
				}
			}

			res, err := tr.Delete(cmd.Context(), id, func(task.Task) bool { return whole })
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res.Removed == 0:
				_, _ = fmt.Fprintf(out, "No task with id %s.\n", id)
			case res.WholeSeries:
				_, _ = fmt.Fprintf(out, "Deleted %s (whole series).\n", plural(res.Removed, "task"))
			default:
				_, _ = fmt.Fprintf(out, "Deleted %s.\n", plural(res.Removed, "task"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.series, "series", false, "Delete the whole recurring series")
	cmd.Flags().BoolVar(&opts.instance, "instance", false, "Delete only this occurrence")
	return cmd
}

// confirm asks a yes/no question on out and reads the answer from in. Only
// "y" or "yes" count as yes; end of input counts as no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
