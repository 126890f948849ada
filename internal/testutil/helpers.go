// Package testutil provides test helpers for baseline tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to dir/name and returns the path. Parent
// directories are created as needed.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "failed to create parent of %s", name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "failed to write %s", name)
	return path
}

// WriteScript writes a POSIX shell script to dir/name. When executable is
// false the file is left without execute bits.
func WriteScript(t testing.TB, dir, name, body string, executable bool) string {
	t.Helper()

	if !strings.HasPrefix(body, "#!") {
		body = "#!/bin/sh\n" + body
	}
	path := WriteFile(t, dir, name, body)

	mode := os.FileMode(0o644)
	if executable {
		mode = 0o755
	}
	require.NoError(t, os.Chmod(path, mode), "failed to chmod %s", name)
	return path
}

// AssertFileContains asserts that the file at path contains expected.
func AssertFileContains(t testing.TB, path, expected string, msgAndArgs ...interface{}) bool {
	t.Helper()

	data, err := os.ReadFile(path)
	if !assert.NoError(t, err, msgAndArgs...) {
		return false
	}
	return assert.Contains(t, string(data), expected, msgAndArgs...)
}

// SetEnv sets an environment variable for the duration of the test.
func SetEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}
