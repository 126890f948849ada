package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Writer saves manifests.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Marshal encodes m in format.
func (w *Writer) Marshal(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(m)
	case FormatTOML:
		return toml.Marshal(m)
	}
	return nil, NewUnsupportedFormatError(string(format))
}

// Write validates m and writes it to path. An existing file is only
// replaced when force is set.
func (w *Writer) Write(path string, m *Manifest, force bool) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return NewConfigExistsError(path)
		}
	}

	data, err := w.Marshal(m, format)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}
