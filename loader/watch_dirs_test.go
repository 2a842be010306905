package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCreated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app", "new", "deeper"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app", "a.json"), []byte(`{}`), 0o644))

	l := NewDir(dir)

	t.Run("new directories are watched", func(t *testing.T) {
		fsw, err := fsnotify.NewWatcher()
		require.NoError(t, err)
		defer fsw.Close()

		var buf bytes.Buffer
		l.watchCreated(fsw, filepath.Join(dir, "app", "new"), zerolog.New(&buf))

		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "app", "new"),
			filepath.Join(dir, "app", "new", "deeper"),
		}, fsw.WatchList())
		assert.Empty(t, buf.String())
	})

	t.Run("files are ignored", func(t *testing.T) {
		fsw, err := fsnotify.NewWatcher()
		require.NoError(t, err)
		defer fsw.Close()

		l.watchCreated(fsw, filepath.Join(dir, "app", "a.json"), zerolog.Nop())
		assert.Empty(t, fsw.WatchList())
	})

	t.Run("failures are logged", func(t *testing.T) {
		fsw, err := fsnotify.NewWatcher()
		require.NoError(t, err)
		require.NoError(t, fsw.Close())

		var buf bytes.Buffer
		l.watchCreated(fsw, filepath.Join(dir, "app", "new"), zerolog.New(&buf))

		out := buf.String()
		assert.Contains(t, out, `"level":"warn"`)
		assert.Contains(t, out, `"message":"watch error"`)
		assert.Contains(t, out, `"dir":"app/new"`)
	})
}
