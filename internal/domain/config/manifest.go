// Package config loads, validates and writes the baseline configuration:
// host settings plus named roles, each an ordered list of steps.
package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/baseline/internal/domain/execution"
)

// Format is a configuration file encoding.
type Format string

const (
	// FormatYAML is YAML (.yaml, .yml).
	FormatYAML Format = "yaml"
	// FormatTOML is TOML (.toml).
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", NewUnsupportedFormatError(path)
}

// WaitConfig turns a step into a bounded poll.
type WaitConfig struct {
	Interval Duration `yaml:"interval" toml:"interval"`
	Timeout  Duration `yaml:"timeout" toml:"timeout"`
}

// StepConfig is one step as written in the file.
type StepConfig struct {
	Name     string      `yaml:"name" toml:"name"`
	Path     string      `yaml:"path" toml:"path"`
	Required *bool       `yaml:"required,omitempty" toml:"required,omitempty"`
	Args     []string    `yaml:"args,omitempty" toml:"args,omitempty"`
	Timeout  Duration    `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	Wait     *WaitConfig `yaml:"wait,omitempty" toml:"wait,omitempty"`
}

// IsRequired returns the required flag. Steps are required unless marked
// otherwise.
func (s StepConfig) IsRequired() bool {
	return s.Required == nil || *s.Required
}

// Step converts the configuration into an execution step.
func (s StepConfig) Step() execution.Step {
	step := execution.Step{
		Name:     s.Name,
		Path:     s.Path,
		Args:     append([]string(nil), s.Args...),
		Required: s.IsRequired(),
		Timeout:  s.Timeout.Std(),
	}
	if s.Wait != nil {
		step.Wait = &execution.WaitSpec{
			Interval: s.Wait.Interval.Std(),
			Timeout:  s.Wait.Timeout.Std(),
		}
	}
	return step
}

// Role is a named, ordered list of steps, optionally extending another role.
type Role struct {
	Description string       `yaml:"description,omitempty" toml:"description,omitempty"`
	Extends     string       `yaml:"extends,omitempty" toml:"extends,omitempty"`
	Steps       []StepConfig `yaml:"steps" toml:"steps"`
}

// Manifest is the root configuration (baseline.yaml or baseline.toml).
type Manifest struct {
	Settings Settings        `yaml:"settings" toml:"settings"`
	Roles    map[string]Role `yaml:"roles" toml:"roles"`
}

// ErrNoRoles is returned by Validate for a manifest without roles.
var ErrNoRoles = errors.New("configuration must define at least one role")

// ParseManifest decodes a manifest. Keys the file omits keep their default
// values; unknown keys are rejected.
func ParseManifest(data []byte, format Format) (*Manifest, error) {
	m := &Manifest{Settings: DefaultSettings()}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			return nil, err
		}
	default:
		return nil, NewUnsupportedFormatError(string(format))
	}

	if m.Roles == nil {
		m.Roles = make(map[string]Role)
	}
	return m, nil
}

// RoleNames returns the role names in sorted order.
func (m *Manifest) RoleNames() []string {
	names := make([]string, 0, len(m.Roles))
	for name := range m.Roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Steps returns the fully resolved steps of role: inherited steps first,
// in order, then the role's own.
func (m *Manifest) Steps(role string) ([]execution.Step, error) {
	configs, err := m.ResolveRole(role)
	if err != nil {
		return nil, err
	}
	steps := make([]execution.Step, 0, len(configs))
	for _, c := range configs {
		steps = append(steps, c.Step())
	}
	return steps, nil
}
