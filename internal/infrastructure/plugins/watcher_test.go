package plugins

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CollapsesBurstIntoOneChange(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher([]string{dir}, hclog.NewNullLogger())
	w.debounceDelay = 50 * time.Millisecond
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, "calc-provider-adder")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0755))
	}

	select {
	case changed := <-w.Changes():
		assert.Equal(t, path, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case extra := <-w.Changes():
		t.Fatalf("unexpected second notification for %s", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "created")
	w := NewWatcher([]string{dir}, hclog.NewNullLogger())
	require.NoError(t, w.Start())
	require.NoError(t, w.Start(), "second start is a no-op")

	_, err := os.Stat(dir)
	assert.NoError(t, err, "watched directory should be created")

	w.Stop()
	w.Stop()

	_, ok := <-w.Changes()
	assert.False(t, ok)
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher([]string{dir}, hclog.NewNullLogger())
	w.debounceDelay = 50 * time.Millisecond

	require.NoError(t, w.Start())
	w.Stop()

	require.NotPanics(t, func() {
		require.NoError(t, w.Start())
	})
	defer w.Stop()

	path := filepath.Join(dir, "calc-provider-subtractor")
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0755))

	select {
	case changed, ok := <-w.Changes():
		require.True(t, ok, "restarted watcher should deliver on an open channel")
		assert.Equal(t, path, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification after restart")
	}
}
