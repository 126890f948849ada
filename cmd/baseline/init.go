package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/config/wizard"
	"github.com/felixgeelhaar/baseline/internal/domain/config"
	"github.com/felixgeelhaar/baseline/internal/domain/platform"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	Long: `Initialize a new baseline configuration using an interactive wizard.

The wizard will guide you through:
  - The scripts and log directories
  - Preflight requirements and the reboot policy
  - A first role and its steps

The format follows the --config extension (.yaml, .yml or .toml).

Examples:
  baseline init
  baseline init --config baseline.toml
  baseline init --force               # Overwrite an existing file`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initForce bool

// isTerminal reports whether stdin is interactive. Tests replace it.
var isTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runWizard runs the questionnaire. Tests replace it.
var runWizard = wizard.RunWizard

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if _, err := config.FormatFromPath(cfgFile); err != nil {
		return err
	}
	if _, err := os.Stat(cfgFile); err == nil && !initForce {
		return config.NewConfigExistsError(cfgFile)
	}
	if !isTerminal() {
		return fmt.Errorf("baseline init needs an interactive terminal; write %s by hand instead", cfgFile)
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := runWizard(ctx, wizard.Defaults(detectedOS()))
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, huh.ErrUserAborted) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Initialization cancelled.")
			return nil
		}
		return fmt.Errorf("init wizard failed: %w", err)
	}

	m, err := wizard.BuildManifest(result)
	if err != nil {
		return err
	}
	if err := config.NewWriter().Write(cfgFile, m, initForce); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration created: %s\n", cfgFile)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintf(out, "  baseline steps %s           - Review the resolved steps\n", result.Role)
	_, _ = fmt.Fprintf(out, "  baseline run %s --dry-run   - Check the host and show the plan\n", result.Role)
	return nil
}

// detectedOS returns the distribution ID to pre-fill expected_os.
func detectedOS() string {
	return platform.Detect().Distro().ID
}
