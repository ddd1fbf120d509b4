package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// JSONBackend implements Store using a single JSON object file.
//
// Each key is a top-level member of the object. Writes replace the file
// atomically through a temporary file and os.Rename.
type JSONBackend struct {
	// Path is the absolute path to the JSON file.
	Path string

	mu sync.Mutex
}

// NewJSONBackend creates a JSONBackend for the given file path. Parent
// directories are created on the first write.
func NewJSONBackend(path string) *JSONBackend {
	return &JSONBackend{Path: path}
}

// Get returns the document stored under key.
func (b *JSONBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.load()
	if err != nil {
		return nil, err
	}
	value, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set stores value under key and rewrites the file.
func (b *JSONBackend) Set(_ context.Context, key string, value []byte) error {
	if err := checkJSON(key, value); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.load()
	if err != nil {
		return err
	}
	doc[key] = json.RawMessage(value)
	return b.write(doc)
}

// Close is a no-op; the file is not held open between calls.
func (b *JSONBackend) Close() error {
	return nil
}

// load reads the file. A missing or non-object file yields an empty
// document; any other read error is returned so that Set never rewrites
// the file from a document it failed to read.
func (b *JSONBackend) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return make(map[string]json.RawMessage), nil
	}
	return doc, nil
}

func (b *JSONBackend) write(doc map[string]json.RawMessage) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", writeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, b.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
