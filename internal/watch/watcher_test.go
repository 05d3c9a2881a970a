package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := NewWatcher(path)
	require.NoError(t, err)
	w.Debounce = 50 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c, ok := <-w.Changes:
		require.True(t, ok, "changes channel closed")
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func TestWatcher_WriteIsDebounced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	w := startWatcher(t, path)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"version":"1.0"}`), 0644))
	}

	c := waitChange(t, w)
	assert.Equal(t, w.Path, c.Path)
	assert.False(t, c.Removed)

	select {
	case extra := <-w.Changes:
		t.Fatalf("unexpected second change %+v", extra)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "settings.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644))

	select {
	case c := <-w.Changes:
		t.Fatalf("unexpected change %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_AtomicReplaceAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	w := startWatcher(t, path)

	tmp := filepath.Join(dir, ".settings.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"a":1}`), 0644))
	require.NoError(t, os.Rename(tmp, path))
	assert.False(t, waitChange(t, w).Removed)

	require.NoError(t, os.Remove(path))
	assert.True(t, waitChange(t, w).Removed)
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()

	_, ok := <-w.Changes
	assert.False(t, ok)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "settings.json"))
	require.NoError(t, err)
	defer w.watcher.Close()

	assert.Error(t, w.Start())
}
