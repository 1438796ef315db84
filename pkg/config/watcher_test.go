package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatcher_InertOutsideDevelopment(t *testing.T) {
	cfg := Default()
	cfg.Environment = Production

	w, err := NewWatcher(cfg, "some/path.yaml", zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, cfg, w.Current())
	assert.Nil(t, w.watcher, "production never touches the filesystem")
	w.Stop()
}

func TestWatcher_InertWithoutPath(t *testing.T) {
	w, err := NewWatcher(Default(), "", zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, w.watcher)
	w.Stop()
}

// inertWatcher builds a watcher whose watch loop never starts, so tests can
// drive reload directly without racing the debounced filesystem path.
func inertWatcher(t *testing.T, initial Config, path string) *Watcher {
	t.Helper()
	initial.Environment = Production
	w, err := NewWatcher(initial, path, zap.NewNop())
	require.NoError(t, err)
	require.Nil(t, w.watcher)
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_ReloadNotifiesCallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ego:\n  max_distance: 3\n"), 0o600))

	initial, err := Load(path)
	require.NoError(t, err)
	w := inertWatcher(t, initial, path)

	var notified []Config
	w.OnChange(func(c Config) { notified = append(notified, c) })

	require.NoError(t, os.WriteFile(path, []byte("ego:\n  max_distance: 5\n"), 0o600))
	w.reload()

	require.Len(t, notified, 1)
	assert.Equal(t, 5, notified[0].Ego.MaxDistance)
	assert.Equal(t, 5, w.Current().Ego.MaxDistance)
}

func TestWatcher_ReloadKeepsConfigOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ego:\n  max_distance: 2\n"), 0o600))

	initial, err := Load(path)
	require.NoError(t, err)
	w := inertWatcher(t, initial, path)

	var notified []Config
	w.OnChange(func(c Config) { notified = append(notified, c) })

	require.NoError(t, os.WriteFile(path, []byte("ego:\n  max_distance: -9\n"), 0o600))
	w.reload()

	assert.Empty(t, notified)
	assert.Equal(t, 2, w.Current().Ego.MaxDistance, "an invalid file never replaces the running config")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(Default(), "", zap.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		w.Stop()
		w.Stop()
	})
}
