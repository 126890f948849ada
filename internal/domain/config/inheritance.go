package config

import (
	"fmt"
)

// ResolveRole flattens the extends chain of role into one ordered step
// list, parent steps first.
func (m *Manifest) ResolveRole(name string) ([]StepConfig, error) {
	return m.resolveRole(name, nil)
}

// resolveRole walks extends; chain holds the roles currently being
// resolved for cycle detection.
func (m *Manifest) resolveRole(name string, chain []string) ([]StepConfig, error) {
	for _, seen := range chain {
		if seen == name {
			return nil, NewCircularReferenceError(append(chain, name))
		}
	}

	role, ok := m.Roles[name]
	if !ok {
		if len(chain) > 0 {
			parent := chain[len(chain)-1]
			return nil, NewRoleNotFoundError(name, m.RoleNames()).
				WithContext(fmt.Sprintf("roles.%s.extends", parent))
		}
		return nil, NewRoleNotFoundError(name, m.RoleNames())
	}

	var steps []StepConfig
	if role.Extends != "" {
		inherited, err := m.resolveRole(role.Extends, append(chain, name))
		if err != nil {
			return nil, err
		}
		steps = append(steps, inherited...)
	}
	return append(steps, role.Steps...), nil
}
