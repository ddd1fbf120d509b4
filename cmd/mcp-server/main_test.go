package main

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JamesPrial/taskflow/internal/logger"
)

// lockedBuffer lets the test read what the logrus pipe goroutine writes.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// ---------------------------------------------------------------------------
// newErrorLogger
// ---------------------------------------------------------------------------

func Test_newErrorLogger(t *testing.T) {
	t.Parallel()

	var out lockedBuffer
	errLogger, w := newErrorLogger(logger.New("taskflow-mcp", "info", &out))

	errLogger.Print("transport closed")

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "transport closed")
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, out.String(), `"level":"error"`)
	assert.Contains(t, out.String(), `"service":"taskflow-mcp"`)

	require.NoError(t, w.Close())
	// Writes after Close fail instead of blocking on a reader that is gone.
	_, err := w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
