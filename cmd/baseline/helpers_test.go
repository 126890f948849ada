package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/felixgeelhaar/baseline/internal/app"
	"github.com/felixgeelhaar/baseline/internal/domain/audit"
	"github.com/felixgeelhaar/baseline/internal/domain/platform"
	"github.com/felixgeelhaar/baseline/internal/domain/preflight"
	"github.com/felixgeelhaar/baseline/internal/testutil"
	"github.com/felixgeelhaar/baseline/internal/testutil/mocks"
)

const scriptsDir = "/opt/server-scripts"

// harness swaps the package-level dependencies for test doubles.
type harness struct {
	commands *mocks.CommandRunner
	streamer *mocks.StreamingRunner
	fs       *mocks.FileSystem
	history  *audit.MemoryStore
	freeMB   uint64
	elevated bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		commands: mocks.NewCommandRunner(),
		streamer: mocks.NewStreamingRunner(),
		fs:       mocks.NewFileSystem(),
		history:  audit.NewMemoryStore(),
		freeMB:   10 * 1024,
		elevated: true,
	}
	ubuntu := platform.NewLinux("amd64", platform.Distro{ID: "ubuntu", PrettyName: "Ubuntu 22.04.3 LTS", VersionID: "22.04"})

	prevBaseline, prevSignal, prevFS, prevWait := newBaseline, signalContext, stepsFS, waitRunner
	newBaseline = func(out io.Writer, opts ...app.Option) *app.Baseline {
		return app.New(out, append([]app.Option{
			app.WithCommandRunner(h.commands),
			app.WithStreamingRunner(h.streamer),
			app.WithFileSystem(h.fs),
			app.WithHistoryStore(h.history),
			app.WithRootCheck(func() bool { return true }),
			app.WithCheckerOptions(
				preflight.WithPlatform(ubuntu),
				preflight.WithElevationProbe(func() (bool, error) { return h.elevated, nil }),
				preflight.WithDiskProbe(func(string) (uint64, error) { return h.freeMB * 1024 * 1024, nil }),
			),
		}, opts...)...)
	}
	signalContext = func() (context.Context, context.CancelFunc) {
		return context.WithCancel(context.Background())
	}
	stepsFS = h.fs
	waitRunner = h.streamer

	t.Cleanup(func() {
		newBaseline, signalContext, stepsFS, waitRunner = prevBaseline, prevSignal, prevFS, prevWait
	})
	return h
}

func (h *harness) script(rel string) {
	h.fs.AddFile(filepath.Join(scriptsDir, rel), 0o755)
}

// writeConfig writes a configuration file whose log dir lives under t.TempDir().
func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), name, body)
}

func sampleConfig(t *testing.T) string {
	t.Helper()
	logDir := filepath.Join(t.TempDir(), "logs")
	return writeConfig(t, "baseline.yaml", `
settings:
  base_dir: `+scriptsDir+`
  log_dir: `+logDir+`
  expected_os: ubuntu
  min_free_mb: 1024
  require_privilege: false
roles:
  server-baseline:
    description: Base packages
    steps:
      - {name: install-docker, path: packages/install-docker.sh}
      - {name: branding, path: configuration/branding.sh, required: false}
  cosmos-node:
    extends: server-baseline
    steps:
      - name: wait-for-sync
        path: checks/node-synced.sh
        wait: {interval: 10ms, timeout: 1s}
`)
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
