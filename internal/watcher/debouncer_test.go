package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(path string, op Operation) FileEvent {
	return FileEvent{Path: path, Operation: op, Timestamp: time.Now()}
}

func waitBatch(t *testing.T, d *Debouncer) []FileEvent {
	t.Helper()
	select {
	case batch := <-d.Batches():
		return batch
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
		return nil
	}
}

func TestDebouncer_EmitsAfterQuietWindow(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(event("a.md", OpModify))

	batch := waitBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, "a.md", batch[0].Path)
}

func TestDebouncer_CoalescesSamePathLatestWins(t *testing.T) {
	// Given: several rapid events for the same file
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(event("a.md", OpCreate))
	d.Add(event("a.md", OpModify))
	d.Add(event("a.md", OpDelete))

	// Then: one entry survives, carrying the last operation
	batch := waitBatch(t, d)
	require.Len(t, batch, 1)
	assert.Equal(t, OpDelete, batch[0].Operation)
}

func TestDebouncer_DistinctPathsInOneBatch(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	d.Add(event("a.md", OpModify))
	d.Add(event("b.md", OpModify))

	batch := waitBatch(t, d)
	assert.Len(t, batch, 2)
}

func TestDebouncer_NewEventExtendsWindow(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	d.Add(event("a.md", OpModify))
	time.Sleep(30 * time.Millisecond)
	d.Add(event("b.md", OpModify))

	// The first event alone must not have flushed yet.
	select {
	case <-d.Batches():
		t.Fatal("batch emitted before the window elapsed")
	case <-time.After(30 * time.Millisecond):
	}

	batch := waitBatch(t, d)
	assert.Len(t, batch, 2)
}

func TestDebouncer_StopClosesChannelAndDropsEvents(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	d.Add(event("a.md", OpModify))

	d.Stop()

	_, open := <-d.Batches()
	assert.False(t, open)

	// Add after Stop is a no-op, not a panic.
	d.Add(event("b.md", OpModify))
}

func TestOperation_String(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "MODIFY", OpModify.String())
	assert.Equal(t, "DELETE", OpDelete.String())
	assert.Equal(t, "RENAME", OpRename.String())
}
