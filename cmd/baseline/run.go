package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/baseline/internal/app"
	"github.com/felixgeelhaar/baseline/internal/domain/execution"
)

var runCmd = &cobra.Command{
	Use:   "run <role>",
	Short: "Run the steps of a role",
	Long: `Run checks the host, opens the run log and executes the role's steps in
order. The first failing or missing required step stops the run.

Missing optional steps are skipped with a warning. A step that is not
executable is made executable before it runs.

Examples:
  baseline run server-baseline
  baseline run cosmos-node --from wait-for-sync   # resume at a step
  baseline run cosmos-node --only wait-for-sync   # re-run one step
  baseline run server-baseline --dry-run          # preflight and plan only`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeRoles,
	RunE:              runRun,
}

var (
	runFrom   string
	runOnly   string
	runDryRun bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFrom, "from", "", "start at this step, skipping the ones before it")
	runCmd.Flags().StringVar(&runOnly, "only", "", "run only this step")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "run preflight and show the plan without executing steps")
	runCmd.MarkFlagsMutuallyExclusive("from", "only")
	addOverrideFlags(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	role := args[0]
	logger, err := newConsoleLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	m, err := loadManifest()
	if err != nil {
		return err
	}
	steps, err := m.Steps(role)
	if err != nil {
		return err
	}
	steps, err = execution.Select(steps, runFrom, runOnly)
	if err != nil {
		return err
	}

	req := app.RunRequest{
		Role:     role,
		Steps:    steps,
		Settings: m.Settings.Apply(overrides(cmd)),
		Verbose:  verbose,
	}

	ctx, cancel := signalContext()
	defer cancel()

	out := cmd.OutOrStdout()
	baseline := newBaseline(out, app.WithLogger(logger))
	printer := app.NewPrinter(out)

	if runDryRun {
		report, plan, err := baseline.DryRun(ctx, req)
		if report != nil {
			printer.PrintPreflight(report.Preflight())
		}
		if err != nil {
			return err
		}
		printer.PrintPlan(role, plan)
		if !plan.Runnable() {
			return fmt.Errorf("plan has %d blocking step(s)", plan.Summary().Blocking)
		}
		return nil
	}

	report, err := baseline.Run(ctx, req)
	if report == nil {
		return err
	}
	if !report.Preflight().Passed() {
		printer.PrintPreflight(report.Preflight())
	}
	printer.PrintReport(report)
	return err
}
