package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/adapters/filesystem"
	"github.com/felixgeelhaar/baseline/internal/app"
	"github.com/felixgeelhaar/baseline/internal/domain/execution"
	"github.com/felixgeelhaar/baseline/internal/ports"
)

var stepsCmd = &cobra.Command{
	Use:   "steps [role]",
	Short: "List roles or the resolved steps of a role",
	Long: `Without an argument, steps lists the configured roles. With a role, it
resolves the role's steps (including inherited ones) against base_dir and
shows whether each executable is present.

Examples:
  baseline steps
  baseline steps cosmos-node`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeRoles,
	RunE:              runSteps,
}

// stepsFS is the file system plans are resolved against. Tests replace it.
var stepsFS ports.FileSystem = filesystem.NewRealFileSystem()

func init() {
	rootCmd.AddCommand(stepsCmd)
	stepsCmd.Flags().StringVar(&overrideBaseDir, "base-dir", "", "directory step paths are resolved against")
}

func runSteps(cmd *cobra.Command, args []string) error {
	m, err := loadManifest()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ROLE\tSTEPS\tEXTENDS\tDESCRIPTION")
		for _, name := range m.RoleNames() {
			role := m.Roles[name]
			count := "?"
			if steps, err := m.Steps(name); err == nil {
				count = fmt.Sprintf("%d", len(steps))
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, count, dash(role.Extends), role.Description)
		}
		return w.Flush()
	}

	steps, err := m.Steps(args[0])
	if err != nil {
		return err
	}
	settings := m.Settings.Apply(overrides(cmd))
	app.NewPrinter(out).PrintPlan(args[0], execution.NewPlan(stepsFS, steps, settings.BaseDir))
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
