package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errRoleRequired     = errors.New("role name is required")
	errRoleInvalid      = errors.New("role name must be lowercase alphanumeric characters, hyphens or underscores")
	errDirRequired      = errors.New("directory is required")
	errDirNotAbsolute   = errors.New("directory must be an absolute path")
	errMinFreeInvalid   = errors.New("minimum free space must be a whole number of MB")
	errStepNameRequired = errors.New("step name is required")
	errStepNameTaken    = errors.New("step name is already used in this role")
	errStepPathRequired = errors.New("step path is required")
	errNoSteps          = errors.New("a role needs at least one step")
)
