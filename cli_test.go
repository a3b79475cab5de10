package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against a file store in a temp dir.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLIAddConnectShow(t *testing.T) {
	color.NoColor = true
	isolateConfig(t)
	t.Setenv("MINDBOARD_STORE_DIR", t.TempDir())

	_, err := runCLI(t, "add", "Launch", "plan")
	require.NoError(t, err)
	_, err = runCLI(t, "add", "Budget")
	require.NoError(t, err)

	out, err := runCLI(t, "connect", "launch plan", "node-1")
	require.NoError(t, err)
	assert.Contains(t, out, `linked "Launch plan" and "Budget"`)

	out, err = runCLI(t, "connect", "Budget", "Launch plan")
	require.NoError(t, err)
	assert.Contains(t, out, "already linked")

	out, err = runCLI(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "2 ideas, 1 links")
	assert.Contains(t, out, "node-0")
	assert.Contains(t, out, "Budget")

	_, err = runCLI(t, "remove", "Launch plan")
	assert.ErrorIs(t, err, ErrCentralNode)

	_, err = runCLI(t, "rm", "Budget")
	require.NoError(t, err)

	out, err = runCLI(t, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "map cleared")

	out, err = runCLI(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "The map is empty")
}

func TestCLIAddDuplicate(t *testing.T) {
	color.NoColor = true
	isolateConfig(t)
	t.Setenv("MINDBOARD_STORE_DIR", t.TempDir())

	_, err := runCLI(t, "add", "Goal")
	require.NoError(t, err)
	out, err := runCLI(t, "add", "goal")
	assert.ErrorIs(t, err, ErrDuplicateText)
	assert.Contains(t, out, "This idea already exists!")
}

func TestCLIExportUnknownFormat(t *testing.T) {
	_, err := runCLI(t, "export", "svg")
	assert.Error(t, err)
}

func TestCLIHelpText(t *testing.T) {
	out, err := runCLI(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "sketches ideas and links them on a canvas")
	assert.NotContains(t, out, "—")
	assert.Equal(t, "mindboard: mind maps in the terminal", rootCmd.Short)
}

func TestCLIExportUnusableSaveDirectory(t *testing.T) {
	color.NoColor = true
	isolateConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	t.Setenv("MINDBOARD_SAVE_DIRECTORY", filepath.Join(blocker, "exports"))
	t.Setenv("MINDBOARD_STORE", "memory")

	_, err := runCLI(t, "export", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create save directory")
}
