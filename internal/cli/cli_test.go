package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/junioryono/lazydi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, data := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(data), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"config/db.yaml":   "host: localhost\nport: 5432\n",
		"config/mode.env":  "MODE=dev\n",
		"config/README.md": "ignored",
	})

	out, err := run(t, "inspect", "config", "-C", dir)
	require.NoError(t, err)
	assert.JSONEq(t, `{"db": {"host": "localhost", "port": 5432}, "mode": {"MODE": "dev"}}`, out)
}

func TestInspect_YAML(t *testing.T) {
	dir := writeFiles(t, map[string]string{"app/name.json": `{"value": "demo"}`})

	out, err := run(t, "inspect", "app", "-C", dir, "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "name:\n  value: demo\n", out)
}

func TestInspect_Overrides(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"db/index.yaml": "host: localhost\nport: 5432\n",
	})

	out, err := run(t, "inspect", "-C", dir, "--set", "db.port=6543", "--set", "db.host=db.internal")
	require.NoError(t, err)
	assert.JSONEq(t, `{"db": {"host": "db.internal", "port": 6543}}`, out)
}

func TestInspect_OverridesDataFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"config/db.yaml":  "host: localhost\nport: 5432\n",
		"config/app.json": `{"name": "demo"}`,
	})

	out, err := run(t, "inspect", "config", "-C", dir, "--set", "db.port=6543", "--set", "app.debug=true")
	require.NoError(t, err)
	assert.JSONEq(t, `{"db": {"host": "localhost", "port": 6543}, "app": {"name": "demo", "debug": true}}`, out)
}

func TestOverlay(t *testing.T) {
	container := lazydi.Tree{"db": lazydi.Tree{"host": "h", "port": 1}, "name": "x"}

	got := overlay(container, lazydi.Tree{"db": lazydi.Tree{"port": 2}, "name": lazydi.Tree{"first": "y"}})
	assert.Equal(t, lazydi.Tree{"db": lazydi.Tree{"host": "h", "port": 2}, "name": lazydi.Tree{"first": "y"}}, got)
	assert.Equal(t, lazydi.Tree{"db": lazydi.Tree{"host": "h", "port": 1}, "name": "x"}, container)

	assert.Equal(t, container, overlay(container, nil))
}

func TestGet(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"db/index.yaml": "host: localhost\nport: 5432\n",
	})

	out, err := run(t, "get", "db.port", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "5432\n", out)

	_, err = run(t, "get", "db.missing", "-C", dir)
	assert.EqualError(t, err, `no value at "db.missing"`)
}

func TestRun_Errors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"bad.json": "{"})

	_, err := run(t, "inspect", "-C", dir)
	assert.ErrorContains(t, err, `load module "bad"`)

	_, err = run(t, "inspect", "-C", dir, "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, "inspect", "-C", dir, "--set", "novalue")
	assert.ErrorContains(t, err, "want path=value")
}

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{"a.b=1", "a.c=true", "d=text", "e=[1, 2]"})
	require.NoError(t, err)
	assert.Equal(t, lazydi.Tree{
		"a": lazydi.Tree{"b": 1, "c": true},
		"d": "text",
		"e": []any{1, 2},
	}, got)

	got, err = parseOverrides(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPlain(t *testing.T) {
	view := lazydi.NewView(lazydi.Tree{"a": 1}, nil)

	assert.Equal(t, lazydi.Tree{"v": lazydi.Tree{"a": 1}, "n": 2}, plain(lazydi.Tree{"v": view, "n": 2}))
}

func TestTree(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"app/db.yaml":    "host: localhost\n",
		"app/mode.env":   "MODE=dev\n",
		"app/svc/a.json": `{}`,
	})

	out, err := run(t, "tree", "app", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "db()\n")
	assert.Contains(t, out, "svc/\n  a()\n")
	assert.Contains(t, out, "Invocables: 3")

	out, err = run(t, "tree", "app", "-C", dir, "--dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph definition {")
}
