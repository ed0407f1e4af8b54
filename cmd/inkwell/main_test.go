package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/inkwell/internal/engine"
)

const testManifest = `
- label: "-"
  strokes:
    - [{x: 0, y: 0}, {x: 10, y: 0}]
- label: "-"
  strokes:
    - [{x: 0, y: 5}, {x: 20, y: 5}]
- label: "-"
  data: '[[{"x": 3, "y": 0}, {"x": 15, "y": 1}]]'
- label: "|"
  strokes:
    - [{x: 0, y: 0}, {x: 0, y: 10}]
- label: "|"
  strokes:
    - [{x: 5, y: 0}, {x: 5, y: 20}]
- label: "|"
  data: '[[{"x": 1, "y": 3}, {"x": 0, "y": 15}]]'
`

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandsEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	dbPath := filepath.Join(dir, "inkwell.db")
	manifest := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte(testManifest), 0o600))
	query := filepath.Join(dir, "query.json")
	require.NoError(t, os.WriteFile(query, []byte(`[[{"x": 0, "y": 0}, {"x": 30, "y": 0}]]`), 0o600))

	db := "--database=" + dbPath

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "inkwell dev")

	out, err = execute(t, "migrate", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated schema")

	out, err = execute(t, "import", db, "--no-progress", manifest)
	require.NoError(t, err)
	assert.Contains(t, out, "6")

	out, err = execute(t, "symbols", "list", db)
	require.NoError(t, err)
	assert.Contains(t, out, "-")
	assert.Contains(t, out, "|")

	out, err = execute(t, "classify", db, "--json", query)
	require.NoError(t, err)
	var matches []engine.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.NotEmpty(t, matches)
	assert.Equal(t, "-", matches[0].Label)

	out, err = execute(t, "validate", db, "--folds=2", "--min-occurrences=2", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "top1_accuracy")

	out, err = execute(t, "runs", db)
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	out, err = execute(t, "snapshot", "list", db)
	require.NoError(t, err)
	assert.Contains(t, out, "auto-import")

	_, err = execute(t, "symbols", "show", db, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no symbol")
}
