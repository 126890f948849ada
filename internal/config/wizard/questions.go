package wizard

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// roleNameRegex validates role names: lowercase alphanumeric with hyphens or underscores.
var roleNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// runSettingsGroup prompts for the script and log directories.
func runSettingsGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scripts Directory").
				Description("Step paths are resolved relative to this directory").
				Value(&result.BaseDir).
				Validate(validateDir),
			huh.NewInput().
				Title("Log Directory").
				Description("Run logs are appended to <dir>/server-baseline-YYYYMMDD.log").
				Value(&result.LogDir).
				Validate(validateDir),
		).Title("Directories"),
	).RunWithContext(ctx)
}

// runPreflightGroup prompts for the host requirements and reboot policy.
func runPreflightGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Expected OS (Optional)").
				Description("Matched case-insensitively against /etc/os-release. Leave empty to skip.").
				Placeholder("ubuntu").
				Value(&result.ExpectedOS),
			huh.NewSelect[string]().
				Title("Minimum Free Disk Space").
				Options(MinFreeOptions...).
				Value(&result.MinFreeMB).
				Validate(validateMinFree),
			huh.NewConfirm().
				Title("Require Passwordless sudo?").
				Description("Fail before any step runs when `sudo -n true` does not succeed").
				Value(&result.RequirePrivilege),
			huh.NewSelect[string]().
				Title("Reboot Policy").
				Options(RebootOptions...).
				Value(&result.Reboot),
		).Title("Preflight"),
	).RunWithContext(ctx)
}

// runRoleGroup prompts for the role name and description.
func runRoleGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Role Name").
				Description("Run it later with `baseline run <role>`").
				Value(&result.Role).
				Validate(validateRoleName),
			huh.NewInput().
				Title("Description (Optional)").
				Value(&result.Description),
		).Title("Role"),
	).RunWithContext(ctx)
}

// runStepsLoop prompts for steps until the user declines to add another.
func runStepsLoop(ctx context.Context, result *Result) error {
	for {
		step := StepAnswer{Required: true}
		more := false

		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Step Name").
					Placeholder("install-docker").
					Value(&step.Name).
					Validate(func(s string) error { return validateStepName(result.Steps, s) }),
				huh.NewInput().
					Title("Path").
					Description("Executable relative to the scripts directory, or absolute").
					Placeholder("packages/install-docker.sh").
					Value(&step.Path).
					Validate(validateStepPath),
				huh.NewConfirm().
					Title("Required?").
					Description("A missing required step stops the run; a missing optional step is skipped").
					Value(&step.Required),
				huh.NewConfirm().
					Title("Add another step?").
					Value(&more),
			).Title("Step " + strconv.Itoa(len(result.Steps)+1)),
		).RunWithContext(ctx)
		if err != nil {
			return err
		}

		step.Name = strings.TrimSpace(step.Name)
		step.Path = strings.TrimSpace(step.Path)
		result.Steps = append(result.Steps, step)

		if !more {
			return nil
		}
	}
}

func validateRoleName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errRoleRequired
	}
	if !roleNameRegex.MatchString(s) {
		return errRoleInvalid
	}
	return nil
}

func validateDir(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errDirRequired
	}
	if !filepath.IsAbs(s) {
		return errDirNotAbsolute
	}
	return nil
}

func validateMinFree(s string) error {
	if _, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64); err != nil {
		return errMinFreeInvalid
	}
	return nil
}

func validateStepName(existing []StepAnswer, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errStepNameRequired
	}
	if hasStep(existing, s) {
		return errStepNameTaken
	}
	return nil
}

func validateStepPath(s string) error {
	if strings.TrimSpace(s) == "" {
		return errStepPathRequired
	}
	return nil
}
