package config

import (
	"os"
	"strings"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "baseline.yaml"

// Loader loads configuration from the filesystem.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses and validates the manifest at path. The format is
// chosen by extension.
func (l *Loader) Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	manifest, err := ParseManifest(data, format)
	if err != nil {
		if format == FormatTOML {
			return nil, NewTOMLParseError(path, err)
		}
		if strings.Contains(err.Error(), "yaml:") || strings.Contains(err.Error(), "duration") {
			return nil, NewYAMLParseError(path, err)
		}
		return nil, NewConfigParseError(path, err)
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}
