// Package tracker owns the in-memory task collection of a running process.
//
// A Tracker loads the collection once from a storage.Store, routes every
// mutation through the pure core packages and persists the resulting
// collection before making it current. A failed write leaves the previous
// collection in place.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JamesPrial/taskflow/internal/dateops"
	"github.com/JamesPrial/taskflow/internal/query"
	"github.com/JamesPrial/taskflow/internal/recurrence"
	"github.com/JamesPrial/taskflow/internal/series"
	"github.com/JamesPrial/taskflow/internal/status"
	"github.com/JamesPrial/taskflow/internal/storage"
	"github.com/JamesPrial/taskflow/internal/task"
)

// ErrTaskNotFound is returned when an id names no task in the collection.
var ErrTaskNotFound = errors.New("task not found")

// Options tune a Tracker. The zero value is usable.
type Options struct {
	// MaxInstances caps recurrence expansion. Zero means
	// recurrence.MaxInstances.
	MaxInstances int

	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	store storage.Store
	log   logrus.FieldLogger
	opts  Options

	tasks    []task.Task
	darkMode bool
}

// New loads the collection and the dark mode preference from store.
func New(ctx context.Context, store storage.Store, log logrus.FieldLogger, opts Options) (*Tracker, error) {
	if opts.MaxInstances <= 0 {
		opts.MaxInstances = recurrence.MaxInstances
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	tasks, err := storage.LoadTasks(ctx, store)
	if err != nil {
		return nil, err
	}
	dark, err := storage.LoadDarkMode(ctx, store)
	if err != nil {
		return nil, err
	}

	log.WithField("count", len(tasks)).Debug("collection loaded")
	return &Tracker{
		store:    store,
		log:      log,
		opts:     opts,
		tasks:    tasks,
		darkMode: dark,
	}, nil
}

// Today is the current calendar date in local time.
func (tr *Tracker) Today() dateops.Date {
	return dateops.FromTime(tr.opts.Now())
}

// Tasks returns a copy of the collection in stored order.
func (tr *Tracker) Tasks() []task.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return cloneAll(tr.tasks)
}

// Get returns the task with the given id.
func (tr *Tracker) Get(id string) (task.Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	i := tr.indexOf(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return tr.tasks[i].Clone(), nil
}

// Create validates d and adds the task it describes. A recurring draft is
// replaced by its expanded instances; the added tasks are returned.
func (tr *Tracker) Create(ctx context.Context, d task.Draft) ([]task.Task, error) {
	return tr.CreateMany(ctx, []task.Draft{d})
}

// CreateMany validates and expands every draft before writing anything, then
// adds all resulting tasks in a single commit. If any draft is invalid the
// collection is left unchanged; with more than one draft the error names its
// 1-based position.
func (tr *Tracker) CreateMany(ctx context.Context, drafts []task.Draft) ([]task.Task, error) {
	now := tr.opts.Now()

	var added []task.Task
	for i, d := range drafts {
		tasks, err := tr.prepare(d, now)
		if err != nil {
			if len(drafts) > 1 {
				return nil, fmt.Errorf("task %d: %w", i+1, err)
			}
			return nil, err
		}
		added = append(added, tasks...)
	}
	if len(added) == 0 {
		return nil, nil
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	next := append(cloneAll(tr.tasks), added...)
	if err := tr.commit(ctx, next, "create"); err != nil {
		return nil, err
	}

	tr.log.WithFields(logrus.Fields{
		"declarations": len(drafts),
		"instances":    len(added),
	}).Info("tasks created")
	return cloneAll(added), nil
}

// prepare builds the declaration d describes and expands it.
func (tr *Tracker) prepare(d task.Draft, now time.Time) ([]task.Task, error) {
	decl, err := d.Build(task.NewID(), now)
	if err != nil {
		return nil, err
	}
	return recurrence.ExpandLimit(decl, now, tr.opts.MaxInstances)
}

// Update replaces the editable fields of the task with the given id.
// Editing a series member never re-expands the series.
func (tr *Tracker) Update(ctx context.Context, id string, d task.Draft) (task.Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	i := tr.indexOf(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	edited, err := d.Apply(tr.tasks[i], tr.opts.Now())
	if err != nil {
		return task.Task{}, err
	}

	next := cloneAll(tr.tasks)
	next[i] = edited
	if err := tr.commit(ctx, next, "update"); err != nil {
		return task.Task{}, err
	}

	tr.log.WithField("task_id", id).Info("task updated")
	return edited.Clone(), nil
}

// Toggle flips the completion state of the task with the given id.
func (tr *Tracker) Toggle(ctx context.Context, id string) (task.Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	i := tr.indexOf(id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	next := cloneAll(tr.tasks)
	next[i].IsCompleted = !next[i].IsCompleted
	next[i] = next[i].Touch(tr.opts.Now())
	if err := tr.commit(ctx, next, "toggle"); err != nil {
		return task.Task{}, err
	}

	tr.log.WithFields(logrus.Fields{
		"task_id":   id,
		"completed": next[i].IsCompleted,
	}).Info("task toggled")
	return next[i].Clone(), nil
}

// DeleteResult reports what a Delete removed.
type DeleteResult struct {
	Removed     int
	WholeSeries bool
}

// Delete removes the task with the given id. When the task belongs to a
// series, confirm decides whether the whole series goes with it; a nil
// confirm removes only the instance. An unknown id removes nothing.
func (tr *Tracker) Delete(ctx context.Context, id string, confirm series.ConfirmFunc) (DeleteResult, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	next, whole := series.Delete(tr.tasks, id, confirm)
	res := DeleteResult{Removed: len(tr.tasks) - len(next), WholeSeries: whole}
	if res.Removed == 0 {
		return res, nil
	}
	if err := tr.commit(ctx, next, "delete"); err != nil {
		return DeleteResult{}, err
	}

	tr.log.WithFields(logrus.Fields{
		"task_id":      id,
		"removed":      res.Removed,
		"whole_series": whole,
	}).Info("task deleted")
	return res, nil
}

// DeleteSeries removes every member of the series and returns how many
// tasks were removed.
func (tr *Tracker) DeleteSeries(ctx context.Context, parentID string) (int, error) {
	return tr.removeSeries(ctx, parentID, "delete_series", series.DeleteSeries)
}

// DisableFutureSeries stops a series from appearing in the collection. It
// currently has the same effect as DeleteSeries.
func (tr *Tracker) DisableFutureSeries(ctx context.Context, parentID string) (int, error) {
	return tr.removeSeries(ctx, parentID, "disable_series", series.DisableFutureSeries)
}

func (tr *Tracker) removeSeries(ctx context.Context, parentID, op string, remove func([]task.Task, string) []task.Task) (int, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	next := remove(tr.tasks, parentID)
	removed := len(tr.tasks) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := tr.commit(ctx, next, op); err != nil {
		return 0, err
	}

	tr.log.WithFields(logrus.Fields{
		"parent_id": parentID,
		"removed":   removed,
		"op":        op,
	}).Info("series removed")
	return removed, nil
}

// SeriesMembers returns copies of the tasks of one series in collection
// order.
func (tr *Tracker) SeriesMembers(parentID string) []task.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return cloneAll(series.Members(tr.tasks, parentID))
}

// Query returns the tasks matching c and the search term.
func (tr *Tracker) Query(c query.Criterion, term string) []task.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return cloneAll(query.Query(tr.tasks, c, term))
}

// Overdue returns the tasks that are overdue today.
func (tr *Tracker) Overdue() []task.Task {
	today := tr.Today()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	return cloneAll(query.Overdue(tr.tasks, today))
}

// TasksOnDate returns the tasks due on day.
func (tr *Tracker) TasksOnDate(day dateops.Date) []task.Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return cloneAll(query.TasksOnDate(tr.tasks, day))
}

// Calendar returns the month grid containing month.
func (tr *Tracker) Calendar(month dateops.Date) []query.Day {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return query.Calendar(cloneAll(tr.tasks), month)
}

// Series summarizes the recurring series in the collection.
func (tr *Tracker) Series() []series.Summary {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return series.List(cloneAll(tr.tasks))
}

// Stats counts the collection.
func (tr *Tracker) Stats() query.Stats {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return query.Summarize(tr.tasks)
}

// Status classifies the task with the given id relative to today.
func (tr *Tracker) Status(id string) (status.Status, error) {
	t, err := tr.Get(id)
	if err != nil {
		return status.Status{}, err
	}
	return status.Classify(t, tr.Today()), nil
}

// DarkMode returns the stored display preference.
func (tr *Tracker) DarkMode() bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.darkMode
}

// SetDarkMode persists the display preference.
func (tr *Tracker) SetDarkMode(ctx context.Context, on bool) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if err := storage.SaveDarkMode(ctx, tr.store, on); err != nil {
		tr.log.WithError(err).Error("failed to persist dark mode")
		return err
	}
	tr.darkMode = on
	tr.log.WithField("dark_mode", on).Debug("preference saved")
	return nil
}

// Store returns the store the tracker currently persists to.
func (tr *Tracker) Store() storage.Store {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.store
}

// SwapStore copies the persisted state into next and makes it the store for
// subsequent writes. The previous store is returned and left open.
func (tr *Tracker) SwapStore(ctx context.Context, next storage.Store) (storage.Store, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if err := storage.Copy(ctx, next, tr.store); err != nil {
		return nil, fmt.Errorf("failed to copy state to new store: %w", err)
	}
	// The in-memory collection is authoritative even if nothing was ever
	// written to the previous store.
	if err := storage.SaveTasks(ctx, next, tr.tasks); err != nil {
		return nil, err
	}

	prev := tr.store
	tr.store = next
	tr.log.WithField("count", len(tr.tasks)).Info("store switched")
	return prev, nil
}

// commit persists next and makes it current. Callers hold mu.
func (tr *Tracker) commit(ctx context.Context, next []task.Task, op string) error {
	if err := storage.SaveTasks(ctx, tr.store, next); err != nil {
		tr.log.WithError(err).WithField("op", op).Error("failed to persist tasks")
		return err
	}
	tr.tasks = next
	tr.log.WithFields(logrus.Fields{"op": op, "count": len(next)}).Debug("tasks persisted")
	return nil
}

func (tr *Tracker) indexOf(id string) int {
	for i, t := range tr.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
