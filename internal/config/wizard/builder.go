package wizard

import (
	"strconv"
	"strings"

	"github.com/felixgeelhaar/baseline/internal/domain/config"
)

// BuildManifest creates a manifest from the wizard result. Required steps
// omit the `required` key since steps default to required.
func BuildManifest(result *Result) (*config.Manifest, error) {
	if len(result.Steps) == 0 {
		return nil, errNoSteps
	}
	if err := validateRoleName(result.Role); err != nil {
		return nil, err
	}

	settings := config.DefaultSettings()
	settings.BaseDir = strings.TrimSpace(result.BaseDir)
	settings.LogDir = strings.TrimSpace(result.LogDir)
	settings.ExpectedOS = strings.TrimSpace(result.ExpectedOS)
	settings.RequirePrivilege = result.RequirePrivilege

	if result.MinFreeMB != "" {
		mb, err := strconv.ParseUint(strings.TrimSpace(result.MinFreeMB), 10, 64)
		if err != nil {
			return nil, errMinFreeInvalid
		}
		settings.MinFreeMB = mb
	}
	if result.Reboot != "" {
		settings.Reboot = config.RebootPolicy(result.Reboot)
	}

	steps := make([]config.StepConfig, 0, len(result.Steps))
	for _, s := range result.Steps {
		sc := config.StepConfig{Name: s.Name, Path: s.Path}
		if !s.Required {
			sc.Required = boolPtr(false)
		}
		steps = append(steps, sc)
	}

	m := &config.Manifest{
		Settings: settings,
		Roles: map[string]config.Role{
			strings.TrimSpace(result.Role): {
				Description: strings.TrimSpace(result.Description),
				Steps:       steps,
			},
		},
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func boolPtr(b bool) *bool {
	return &b
}
