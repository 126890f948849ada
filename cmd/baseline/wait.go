package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/adapters/command"
	"github.com/felixgeelhaar/baseline/internal/ports"
	"github.com/felixgeelhaar/baseline/internal/retry"
)

var waitCmd = &cobra.Command{
	Use:   "wait [flags] -- <command> [args...]",
	Short: "Re-run a command until it succeeds or the timeout expires",
	Long: `Wait invokes a command repeatedly until it exits 0, sleeping --interval
between attempts. It fails once --timeout has elapsed. Use it inside step
scripts that need to wait for a service or a node to catch up.

Examples:
  baseline wait --interval 30s --timeout 2h -- ./checks/node-synced.sh
  baseline wait --timeout 5m -- systemctl is-active --quiet vault`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWait,
}

var (
	waitInterval time.Duration
	waitTimeout  time.Duration
)

// waitRunner invokes the polled command. Tests replace it.
var waitRunner ports.StreamingRunner = command.NewStreamRunner()

func init() {
	rootCmd.AddCommand(waitCmd)

	waitCmd.Flags().DurationVar(&waitInterval, "interval", 10*time.Second, "time between attempts")
	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 10*time.Minute, "give up after this long")
}

func runWait(cmd *cobra.Command, args []string) error {
	name, cmdArgs := args[0], args[1:]
	logger, err := newConsoleLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	attempts, err := retry.Poll(ctx, waitInterval, waitTimeout, func(pollCtx context.Context) error {
		code, err := waitRunner.Stream(pollCtx, name, cmdArgs...)
		if err != nil {
			if pollCtx.Err() != nil {
				return err
			}
			return retry.Fatal(err)
		}
		if code != 0 {
			logger.Info(ctx, fmt.Sprintf("Waiting for %s: exit code %d, retrying in %s", name, code, waitInterval),
				ports.F("exit_code", code))
			return fmt.Errorf("exit code %d", code)
		}
		return nil
	})

	var timeoutErr *retry.TimeoutError
	switch {
	case err == nil:
		logger.Info(ctx, fmt.Sprintf("%s succeeded after %d attempt(s)", name, attempts))
		return nil
	case errors.As(err, &timeoutErr):
		return fmt.Errorf("%s did not succeed within %s (%d attempts)", name, waitTimeout, attempts)
	default:
		return fmt.Errorf("waiting for %s: %w", name, err)
	}
}
