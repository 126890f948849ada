package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
)

var (
	overrideBaseDir    string
	overrideLogDir     string
	overrideMinFreeMB  uint64
	overrideExpectedOS string
)

// addOverrideFlags registers the flags that replace file settings.
func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&overrideBaseDir, "base-dir", "", "directory step paths are resolved against")
	cmd.Flags().StringVar(&overrideLogDir, "log-dir", "", "directory for the run log")
	cmd.Flags().Uint64Var(&overrideMinFreeMB, "min-free-mb", 0, "minimum free disk space in MB (0 disables the check)")
	cmd.Flags().StringVar(&overrideExpectedOS, "expected-os", "", "required OS identity, e.g. ubuntu")
}

// overrides collects the override flags set on cmd.
func overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{
		BaseDir:    overrideBaseDir,
		LogDir:     overrideLogDir,
		ExpectedOS: overrideExpectedOS,
	}
	if cmd.Flags().Changed("min-free-mb") {
		mb := overrideMinFreeMB
		o.MinFreeMB = &mb
	}
	return o
}
