package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = w.Start(ctx, root) }()

	// Give the watch registration a moment to land before mutating files.
	time.Sleep(50 * time.Millisecond)
	return w
}

func nextEvent(t *testing.T, w *Watcher) FileEvent {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file event")
		return FileEvent{}
	}
}

func TestWatcher_ReportsMarkdownCreate(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	path := filepath.Join(root, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Note\n"), 0644))

	ev := nextEvent(t, w)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, OpCreate, ev.Operation)
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "data.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.md"), []byte("# R\n"), 0644))

	// Only the visible Markdown file comes through.
	ev := nextEvent(t, w)
	assert.Equal(t, filepath.Join(root, "real.md"), ev.Path)
}

func TestWatcher_WatchesCreatedDirectories(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))
	// The new directory needs to be picked up before events inside it fire.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "nested.md")
	require.NoError(t, os.WriteFile(path, []byte("# N\n"), 0644))

	ev := nextEvent(t, w)
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New()
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
