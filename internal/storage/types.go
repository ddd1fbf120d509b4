// Package storage persists taskflow state as JSON documents under string keys.
//
// Three backends implement Store: a single JSON file, a SQLite database and a
// PostgreSQL database. The task collection and the dark mode preference are
// the only keys the application writes.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JamesPrial/taskflow/internal/task"
)

// Keys written by the application.
const (
	KeyTasks    = "tasks"
	KeyDarkMode = "darkMode"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a key-value store of JSON documents.
type Store interface {
	// Get returns the document stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the document stored under key. value must be valid JSON.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}

// LoadTasks reads the task collection.
//
// A missing or corrupt document yields an empty collection, so a damaged
// store starts fresh instead of blocking the application. Errors from the
// backend itself (connection failures) are returned.
func LoadTasks(ctx context.Context, s Store) ([]task.Task, error) {
	data, err := s.Get(ctx, KeyTasks)
	if errors.Is(err, ErrNotFound) {
		return make([]task.Task, 0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil || tasks == nil {
		return make([]task.Task, 0), nil
	}
	for i := range tasks {
		tasks[i] = tasks[i].Normalize()
	}
	return tasks, nil
}

// SaveTasks writes the whole task collection.
func SaveTasks(ctx context.Context, s Store, tasks []task.Task) error {
	if tasks == nil {
		tasks = make([]task.Task, 0)
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.Set(ctx, KeyTasks, data); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// LoadDarkMode reads the dark mode preference. The value is stored as the
// JSON string "true" or "false"; anything else reads as false.
func LoadDarkMode(ctx context.Context, s Store) (bool, error) {
	data, err := s.Get(ctx, KeyDarkMode)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load dark mode: %w", err)
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return false, nil
	}
	return raw == "true", nil
}

// SaveDarkMode writes the dark mode preference.
func SaveDarkMode(ctx context.Context, s Store, on bool) error {
	raw := "false"
	if on {
		raw = "true"
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode dark mode: %w", err)
	}
	if err := s.Set(ctx, KeyDarkMode, data); err != nil {
		return fmt.Errorf("failed to save dark mode: %w", err)
	}
	return nil
}

// Copy transfers every application key present in src into dst. Keys absent
// from src are left untouched in dst.
func Copy(ctx context.Context, dst, src Store) error {
	for _, key := range []string{KeyTasks, KeyDarkMode} {
		data, err := src.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", key, err)
		}
		if err := dst.Set(ctx, key, data); err != nil {
			return fmt.Errorf("failed to write %q: %w", key, err)
		}
	}
	return nil
}

func checkJSON(key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for key %q is not valid JSON", key)
	}
	return nil
}
