package app

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
	"github.com/felixgeelhaar/baseline/internal/ports"
)

// rebootDelay is the shutdown -r delay; `shutdown -c` cancels it.
const rebootDelay = "+1"

// applyRebootPolicy acts on the reboot marker after a successful run.
func (b *Baseline) applyRebootPolicy(ctx context.Context, logger ports.Logger, s config.Settings) {
	if s.Reboot == "" || s.Reboot == config.RebootNever {
		return
	}

	marker := s.RebootMarker
	if marker == "" {
		marker = config.DefaultRebootMarker
	}
	if !b.fs.Exists(marker) {
		logger.Debug(ctx, "No reboot required")
		return
	}

	if s.Reboot == config.RebootNotify {
		logger.Warn(ctx, fmt.Sprintf("Reboot required (%s present)", marker))
		return
	}

	logger.Warn(ctx, fmt.Sprintf("Reboot required (%s present), rebooting in 1 minute", marker))

	name, args := "shutdown", []string{"-r", rebootDelay}
	if !b.isRoot() {
		name, args = "sudo", append([]string{"-n", "shutdown"}, args...)
	}

	result, err := b.commands.Run(ctx, name, args...)
	switch {
	case err != nil:
		logger.Error(ctx, "Could not schedule reboot", ports.F("error", err))
	case !result.Success():
		logger.Error(ctx, fmt.Sprintf("Could not schedule reboot: shutdown exited %d", result.ExitCode),
			ports.F("stderr", result.Stderr))
	default:
		logger.Info(ctx, "Reboot scheduled")
	}
}
