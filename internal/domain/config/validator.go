package config

import (
	"errors"
	"fmt"
)

// Validate checks the manifest and returns an *ErrorList with every
// problem found, or nil.
func (m *Manifest) Validate() error {
	errs := NewErrorList()

	m.validateSettings(errs)

	if len(m.Roles) == 0 {
		errs.Add(NewValidationFailedError("roles", ErrNoRoles.Error()).
			WithSuggestion("Add a role under 'roles:' or run 'baseline init'."))
		return errs.AsError()
	}

	for _, name := range m.RoleNames() {
		m.validateRole(name, errs)
	}

	return errs.AsError()
}

func (m *Manifest) validateSettings(errs *ErrorList) {
	s := m.Settings
	if s.BaseDir == "" {
		errs.AddValidation("settings.base_dir", "cannot be empty", "Set base_dir to the directory holding the step scripts.")
	}
	if s.LogDir == "" {
		errs.AddValidation("settings.log_dir", "cannot be empty", "Set log_dir, e.g. /var/log/server-baseline.")
	}
	if !s.Reboot.Valid() {
		errs.AddValidation("settings.reboot",
			fmt.Sprintf("unknown policy %q", s.Reboot),
			"Use one of: never, notify, auto.")
	}
	if s.MinOSVersion != "" && s.ExpectedOS == "" {
		errs.AddValidation("settings.min_os_version",
			"requires expected_os",
			"Version numbers are only comparable within one distribution; set expected_os as well.")
	}
}

func (m *Manifest) validateRole(name string, errs *ErrorList) {
	steps, err := m.ResolveRole(name)
	if err != nil {
		var ue *UserError
		if errors.As(err, &ue) {
			errs.Add(ue)
		} else {
			errs.Add(NewValidationFailedError("roles."+name, err.Error()))
		}
		return
	}

	if len(steps) == 0 {
		errs.AddValidation("roles."+name+".steps", "role has no steps", "Add at least one step or remove the role.")
	}

	seen := make(map[string]bool, len(steps))
	for i, step := range steps {
		field := fmt.Sprintf("roles.%s.steps[%d]", name, i)

		switch {
		case step.Name == "":
			errs.AddValidation(field+".name", "cannot be empty", "Give every step a unique name.")
		case seen[step.Name]:
			errs.AddValidation(field+".name",
				fmt.Sprintf("duplicate step name %q", step.Name),
				"Step names must be unique within a role, including inherited steps.")
		default:
			seen[step.Name] = true
		}

		if step.Path == "" {
			errs.AddValidation(field+".path", "cannot be empty", "Set path relative to base_dir or as an absolute path.")
		}
		if step.Timeout < 0 {
			errs.AddValidation(field+".timeout", "cannot be negative", "Omit timeout for no limit.")
		}
		if step.Wait != nil {
			validateWait(field+".wait", step.Wait, errs)
		}
	}
}

func validateWait(field string, w *WaitConfig, errs *ErrorList) {
	if w.Interval <= 0 {
		errs.AddValidation(field+".interval", "must be positive", `Set an interval such as "30s".`)
	}
	if w.Timeout <= 0 {
		errs.AddValidation(field+".timeout", "must be positive", `Every wait needs a timeout, e.g. "2h".`)
	}
	if w.Interval > 0 && w.Timeout > 0 && w.Interval > w.Timeout {
		errs.AddValidation(field+".interval", "cannot exceed the timeout", "Use a shorter interval or a longer timeout.")
	}
}
