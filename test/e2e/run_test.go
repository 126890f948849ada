//go:build e2e
// +build e2e

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipUnlessPOSIX(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("steps are POSIX shell scripts")
	}
}

func TestE2E_Run_InheritedRole(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	h := NewHarness(t)
	marker := filepath.Join(h.TempDir, "order")
	h.Script("packages/install.sh", `echo install >> "`+marker+`"`+"\n")
	h.Script("configuration/motd.sh", `echo motd >> "`+marker+`"`+"\n")
	h.WriteConfig(`  base:
    steps:
      - {name: install, path: packages/install.sh}
      - {name: branding, path: configuration/branding.sh, required: false}
  web:
    extends: base
    steps:
      - {name: motd, path: configuration/motd.sh}
`)

	out := h.RunSuccess("run", "web")
	assert.Contains(t, out, "Summary: 2 succeeded, 0 failed, 1 skipped")

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "install\nmotd\n", string(data))

	info, err := os.Stat(filepath.Join(h.ScriptsDir, "packages/install.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.Contains(t, h.LogContent(), "Starting role web")
}

func TestE2E_Run_StopsAtFailingStep(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	h := NewHarness(t)
	marker := filepath.Join(h.TempDir, "after")
	h.Script("fail.sh", "exit 3\n")
	h.Script("after.sh", `touch "`+marker+`"`+"\n")
	h.WriteConfig(`  web:
    steps:
      - {name: fail, path: fail.sh}
      - {name: after, path: after.sh}
`)

	assert.Equal(t, 1, h.Run("run", "web"))
	h.AssertOutputContains("Summary: 0 succeeded, 1 failed, 0 skipped")
	assert.NoFileExists(t, marker)
}

func TestE2E_Run_MissingRequiredStep(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	h := NewHarness(t)
	h.WriteConfig(`  web:
    steps:
      - {name: absent, path: absent.sh}
`)

	out := h.RunFail("run", "web")
	assert.Contains(t, out, "absent")
}

func TestE2E_DryRun_DoesNotExecute(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	h := NewHarness(t)
	marker := filepath.Join(h.TempDir, "ran")
	h.Script("step.sh", `touch "`+marker+`"`+"\n")
	h.WriteConfig(`  web:
    steps:
      - {name: step, path: step.sh}
`)

	out := h.RunSuccess("run", "web", "--dry-run")
	assert.Contains(t, out, "present, will chmod +x")
	assert.NoFileExists(t, marker)
	assert.NoDirExists(t, filepath.Join(h.LogDir, "history"))
}

func TestE2E_History_RecordsRuns(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	h := NewHarness(t)
	h.Script("ok.sh", "exit 0\n")
	h.Script("fail.sh", "exit 1\n")
	h.WriteConfig(`  good:
    steps:
      - {name: ok, path: ok.sh}
  bad:
    steps:
      - {name: fail, path: fail.sh}
`)

	h.RunSuccess("run", "good")
	h.RunFail("run", "bad")

	out := h.RunSuccess("history", "--json")
	var records []struct {
		Role    string `json:"role"`
		Status  string `json:"status"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "bad", records[0].Role)
	assert.Equal(t, "failed", records[0].Status)
	assert.Equal(t, "good", records[1].Role)
	assert.True(t, records[1].Success)

	out = h.RunSuccess("history", "--failures")
	assert.Contains(t, out, "failed at fail")
}

func TestE2E_Wait_SucceedsAfterRetries(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	h := NewHarness(t)
	counter := filepath.Join(h.TempDir, "count")
	script := h.Script("flaky.sh", `echo x >> "`+counter+`"
[ $(wc -l < "`+counter+`") -ge 3 ]
`)
	require.NoError(t, os.Chmod(script, 0o755))
	h.WriteConfig(`  web:
    steps:
      - {name: flaky, path: flaky.sh}
`)

	h.RunSuccess("wait", "--interval", "10ms", "--timeout", "10s", "--", script)
	h.AssertOutputContains("succeeded after 3 attempt(s)")
}
