package wizard

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
)

// StepAnswer is one step entered in the wizard.
type StepAnswer struct {
	Name     string
	Path     string
	Required bool
}

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Settings
	BaseDir          string
	LogDir           string
	ExpectedOS       string
	MinFreeMB        string
	RequirePrivilege bool
	Reboot           string

	// Role
	Role        string
	Description string
	Steps       []StepAnswer
}

// Defaults returns the answers pre-filled before the first question.
// expectedOS is usually the detected distribution ID.
func Defaults(expectedOS string) *Result {
	s := config.DefaultSettings()
	return &Result{
		BaseDir:          s.BaseDir,
		LogDir:           s.LogDir,
		ExpectedOS:       expectedOS,
		MinFreeMB:        fmt.Sprintf("%d", s.MinFreeMB),
		RequirePrivilege: s.RequirePrivilege,
		Reboot:           string(s.Reboot),
		Role:             config.DefaultLogPrefix,
	}
}

// RunWizard runs the interactive questionnaire starting from defaults.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, defaults *Result) (*Result, error) {
	result := *defaults
	result.Steps = nil

	if err := runSettingsGroup(ctx, &result); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	if err := runPreflightGroup(ctx, &result); err != nil {
		return nil, fmt.Errorf("preflight: %w", err)
	}

	if err := runRoleGroup(ctx, &result); err != nil {
		return nil, fmt.Errorf("role: %w", err)
	}

	if err := runStepsLoop(ctx, &result); err != nil {
		return nil, fmt.Errorf("steps: %w", err)
	}

	return &result, nil
}

// hasStep checks if a step name is already in the list.
func hasStep(steps []StepAnswer, name string) bool {
	for _, s := range steps {
		if s.Name == name {
			return true
		}
	}
	return false
}
