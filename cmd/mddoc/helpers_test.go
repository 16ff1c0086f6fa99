package main

// Notes:
// - Shared test infrastructure: an in-memory Environment and file helpers.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - In-memory environment
// ---------------------------------------------------------------------------

// testEnv is an Environment whose output is captured.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an environment reading stdin from the given string,
// with a fixed clock, no MDDOC_* variables, and dir as working directory.
func newTestEnv(stdin, dir string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	return &testEnv{
		Environment: &Environment{
			Now:     func() time.Time { return now },
			Stdout:  stdout,
			Stderr:  stderr,
			Stdin:   strings.NewReader(stdin),
			Getwd:   func() (string, error) { return dir, nil },
			Getenv:  func(string) string { return "" },
			Environ: func() []string { return nil },
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// withEnv sets the variables seen through Getenv and Environ.
func (e *testEnv) withEnv(vars map[string]string) *testEnv {
	e.Getenv = func(k string) string { return vars[k] }
	e.Environ = func() []string {
		var out []string
		for k, v := range vars {
			out = append(out, k+"="+v)
		}
		return out
	}
	return e
}

// run invokes the CLI with args after the program name.
func (e *testEnv) run(args ...string) int {
	return runMain(append([]string{"mddoc"}, args...), e.Environment)
}

// writeFile creates path under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// newTestSession builds a session for command tests without going through
// runMain.
func newTestSession(t *testing.T, env *testEnv, cmd string, args ...string) (*session, []string) {
	t.Helper()
	flags, paths, err := parseFlags(cmd, args, env.stderr)
	if err != nil {
		t.Fatalf("parseFlags(%q, %v): %v", cmd, args, err)
	}
	s, err := newSession(cmd, flags, env.Environment)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	return s, paths
}
