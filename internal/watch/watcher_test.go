package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// advance bumps the file's timestamp without relying on filesystem
// timestamp granularity between writes.
func advance(t *testing.T, path string, d time.Duration) {
	t.Helper()

	info, err := os.Stat(path)
	require.NoError(t, err)

	stamp := info.ModTime().Add(d)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
}

func TestWatcherDetectsChangeOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Blur.wgsl")
	writeFile(t, path, "v1")

	w := NewWatcher(nil)

	var calls int
	w.AddWatch(path, func() { calls++ })

	w.CheckForChanges()
	assert.Equal(t, 0, calls, "no change yet")

	advance(t, path, time.Second)

	w.CheckForChanges()
	assert.Equal(t, 1, calls, "one change, one callback")

	w.CheckForChanges()
	assert.Equal(t, 1, calls, "no further change, no further callback")
}

func TestWatcherMultipleChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Tone.wgsl")
	writeFile(t, path, "v1")

	w := NewWatcher(nil)

	var calls int
	w.AddWatch(path, func() { calls++ })

	advance(t, path, time.Second)
	w.CheckForChanges()

	advance(t, path, time.Second)
	w.CheckForChanges()

	assert.Equal(t, 2, calls)
}

func TestWatcherRemoveWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Old.wgsl")
	writeFile(t, path, "v1")

	w := NewWatcher(nil)

	var calls int
	w.AddWatch(path, func() { calls++ })
	w.RemoveWatch(path)
	assert.Equal(t, 0, w.Len())

	advance(t, path, time.Second)
	w.CheckForChanges()
	assert.Equal(t, 0, calls)
}

func TestWatcherDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Off.wgsl")
	writeFile(t, path, "v1")

	w := NewWatcher(nil)

	var calls int
	w.AddWatch(path, func() { calls++ })
	w.SetEnabled(false)

	advance(t, path, time.Second)
	w.CheckForChanges()
	assert.Equal(t, 0, calls)

	// Re-enabling picks the change up on the next poll.
	w.SetEnabled(true)
	w.CheckForChanges()
	assert.Equal(t, 1, calls)
}

func TestWatcherMissingFileAppears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Late.wgsl")

	w := NewWatcher(nil)

	var calls int
	w.AddWatch(path, func() { calls++ })

	w.CheckForChanges()
	assert.Equal(t, 0, calls, "missing file is not a change")

	writeFile(t, path, "now exists")
	w.CheckForChanges()
	assert.Equal(t, 1, calls, "first appearance counts as a change")
}

func TestWatcherCallbackMayMutateWatchList(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "A.wgsl")
	b := filepath.Join(dir, "B.wgsl")
	writeFile(t, a, "v1")
	writeFile(t, b, "v1")

	w := NewWatcher(nil)
	w.AddWatch(a, func() { w.RemoveWatch(b) })

	advance(t, a, time.Second)

	// Must not deadlock: callbacks run without the watcher lock held.
	w.CheckForChanges()
	assert.Equal(t, 1, w.Len())
}
