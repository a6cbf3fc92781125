// ABOUTME: Shared helpers for command tests
// ABOUTME: Runs the root command against temporary projects with captured output
package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// newTestProject initializes a project whose document holds text.
func newTestProject(t *testing.T, text string) string {
	t.Helper()
	dir := t.TempDir()
	if _, _, err := runCLI(t, "", "-C", dir, "init"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "document.txt"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// mustRun runs args in dir and fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, "", append([]string{"-C", dir}, args...)...)
	if err != nil {
		t.Fatalf("%v error = %v\nstderr: %s", args, err, stderr)
	}
	return out
}

func readDocument(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "document.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
