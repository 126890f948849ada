package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/app"
	"github.com/felixgeelhaar/baseline/internal/domain/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the preflight checks only",
	Long: `Check runs the host checks that gate every run: passwordless privilege
escalation, OS identity, minimum OS version and free disk space.

Without a configuration file the default settings are used.

Examples:
  baseline check
  baseline check --expected-os ubuntu --min-free-mb 2048`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addOverrideFlags(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	logger, err := newConsoleLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	outcome := newBaseline(out, app.WithLogger(logger)).Check(ctx, settings)
	app.NewPrinter(out).PrintPreflight(outcome)

	if !outcome.Passed() {
		return outcome.Err
	}
	_, _ = fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}

// loadSettings returns the file settings with overrides applied. A missing
// default configuration file falls back to the default settings.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	m, err := loadManifest()
	switch {
	case err == nil:
		return m.Settings.Apply(overrides(cmd)), nil
	case config.IsUserError(err, config.ErrCodeConfigNotFound) && !cmd.Flags().Changed("config"):
		return config.DefaultSettings().Apply(overrides(cmd)), nil
	default:
		return config.Settings{}, err
	}
}
