package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/taskflow/internal/storage"
)

func Test_JSONBackend_Contract(t *testing.T) {
	t.Parallel()
	runStoreContract(t, newJSONStore)
}

func Test_JSONBackend_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "store.json")
	b := storage.NewJSONBackend(path)
	require.NoError(t, b.Set(context.Background(), "k", []byte(`1`)))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func Test_JSONBackend_FileIsObjectOfKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	b := storage.NewJSONBackend(path)
	require.NoError(t, b.Set(ctx, storage.KeyTasks, []byte(`[]`)))
	require.NoError(t, b.Set(ctx, storage.KeyDarkMode, []byte(`"false"`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1], "file ends with a newline")

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc, 2)
	assert.JSONEq(t, `"false"`, string(doc[storage.KeyDarkMode]))
}

func Test_JSONBackend_CorruptFileStartsFresh(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", "{{{"},
		{"array", `[1,2]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			path := filepath.Join(t.TempDir(), "store.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			b := storage.NewJSONBackend(path)
			_, err := b.Get(ctx, storage.KeyTasks)
			assert.ErrorIs(t, err, storage.ErrNotFound)

			require.NoError(t, b.Set(ctx, "k", []byte(`1`)))
			got, err := b.Get(ctx, "k")
			require.NoError(t, err)
			assert.JSONEq(t, `1`, string(got))
		})
	}
}

func Test_JSONBackend_ReadErrorIsReturned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	// A directory at the store path fails every read with something other
	// than "does not exist".
	require.NoError(t, os.Mkdir(path, 0o755))
	b := storage.NewJSONBackend(path)

	_, err := b.Get(ctx, storage.KeyTasks)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to read store file")

	err = b.Set(ctx, storage.KeyDarkMode, []byte(`"true"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read store file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "a failed read never rewrites the store")
}

func Test_JSONBackend_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	b := storage.NewJSONBackend(filepath.Join(t.TempDir(), "absent.json"))
	_, err := b.Get(context.Background(), storage.KeyTasks)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func Test_JSONBackend_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := storage.NewJSONBackend(filepath.Join(dir, "store.json"))
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Set(context.Background(), "k", []byte(`[]`)))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
