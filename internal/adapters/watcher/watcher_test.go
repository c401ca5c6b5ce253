package watcher_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipkin/pipkin/internal/adapters/watcher"
)

func TestNewWatcher(t *testing.T) {
	w, err := watcher.NewWatcher(100 * time.Millisecond)

	require.NoError(t, err)
	require.NotNil(t, w)
	require.NoError(t, w.Stop())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := watcher.NewWatcher(100 * time.Millisecond)
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	w, err := watcher.NewWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop() //nolint:errcheck // Cleanup in test

	missing := filepath.Join(t.TempDir(), "no-such-dir", "Pipfile")

	err = w.Start(context.Background(), missing)

	require.Error(t, err)
}

func TestWatcher_EventsEndsAfterStop(t *testing.T) {
	w, err := watcher.NewWatcher(50 * time.Millisecond)
	require.NoError(t, err)

	dir := t.TempDir()
	path := writeManifest(t, dir, "[packages]\n")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, path))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range w.Events() {
		}
	}()

	cancel()
	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event iterator did not terminate after stop")
	}
}
