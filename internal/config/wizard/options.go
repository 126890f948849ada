package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
)

// RebootOptions lists the reboot policies.
var RebootOptions = []huh.Option[string]{
	huh.NewOption("Never (ignore the reboot marker)", string(config.RebootNever)),
	huh.NewOption("Notify (log when a reboot is required)", string(config.RebootNotify)),
	huh.NewOption("Auto (schedule a reboot after a successful run)", string(config.RebootAuto)),
}

// MinFreeOptions lists common minimum free space values in MB.
var MinFreeOptions = []huh.Option[string]{
	huh.NewOption("Disabled", "0"),
	huh.NewOption("512 MB", "512"),
	huh.NewOption("1 GB (default)", "1024"),
	huh.NewOption("5 GB", "5120"),
	huh.NewOption("20 GB", "20480"),
}
