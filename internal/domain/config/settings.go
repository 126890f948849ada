package config

import "path/filepath"

// RebootPolicy controls what happens after a successful run when the host
// asks for a reboot.
type RebootPolicy string

const (
	// RebootNever ignores the reboot marker.
	RebootNever RebootPolicy = "never"
	// RebootNotify logs that a reboot is required.
	RebootNotify RebootPolicy = "notify"
	// RebootAuto schedules a reboot.
	RebootAuto RebootPolicy = "auto"
)

// Valid reports whether p is a known policy.
func (p RebootPolicy) Valid() bool {
	switch p {
	case RebootNever, RebootNotify, RebootAuto:
		return true
	}
	return false
}

// Default settings values.
const (
	DefaultBaseDir      = "/opt/server-scripts"
	DefaultLogDir       = "/var/log/server-baseline"
	DefaultLogPrefix    = "server-baseline"
	DefaultMinFreeMB    = 1024
	DefaultDiskPath     = "/"
	DefaultRebootMarker = "/var/run/reboot-required"
)

// Settings holds host-wide run configuration.
type Settings struct {
	BaseDir          string       `yaml:"base_dir" toml:"base_dir"`
	LogDir           string       `yaml:"log_dir" toml:"log_dir"`
	LogPrefix        string       `yaml:"log_prefix,omitempty" toml:"log_prefix,omitempty"`
	HistoryDir       string       `yaml:"history_dir,omitempty" toml:"history_dir,omitempty"`
	MinFreeMB        uint64       `yaml:"min_free_mb" toml:"min_free_mb"`
	DiskPath         string       `yaml:"disk_path,omitempty" toml:"disk_path,omitempty"`
	ExpectedOS       string       `yaml:"expected_os,omitempty" toml:"expected_os,omitempty"`
	MinOSVersion     string       `yaml:"min_os_version,omitempty" toml:"min_os_version,omitempty"`
	RequirePrivilege bool         `yaml:"require_privilege" toml:"require_privilege"`
	Escalate         bool         `yaml:"escalate,omitempty" toml:"escalate,omitempty"`
	Reboot           RebootPolicy `yaml:"reboot,omitempty" toml:"reboot,omitempty"`
	RebootMarker     string       `yaml:"reboot_marker,omitempty" toml:"reboot_marker,omitempty"`
	MetricsTextfile  string       `yaml:"metrics_textfile,omitempty" toml:"metrics_textfile,omitempty"`
}

// DefaultSettings returns the settings used for keys a file omits.
func DefaultSettings() Settings {
	return Settings{
		BaseDir:          DefaultBaseDir,
		LogDir:           DefaultLogDir,
		LogPrefix:        DefaultLogPrefix,
		MinFreeMB:        DefaultMinFreeMB,
		DiskPath:         DefaultDiskPath,
		RequirePrivilege: true,
		Reboot:           RebootNever,
		RebootMarker:     DefaultRebootMarker,
	}
}

// Overrides are command-line values that replace file settings when set.
type Overrides struct {
	BaseDir    string
	LogDir     string
	MinFreeMB  *uint64
	ExpectedOS string
}

// Apply returns a copy of s with the non-empty overrides applied.
func (s Settings) Apply(o Overrides) Settings {
	if o.BaseDir != "" {
		s.BaseDir = o.BaseDir
	}
	if o.LogDir != "" {
		s.LogDir = o.LogDir
	}
	if o.MinFreeMB != nil {
		s.MinFreeMB = *o.MinFreeMB
	}
	if o.ExpectedOS != "" {
		s.ExpectedOS = o.ExpectedOS
	}
	return s
}

// HistoryPath returns the run history directory, defaulting to
// <log_dir>/history.
func (s Settings) HistoryPath() string {
	if s.HistoryDir != "" {
		return s.HistoryDir
	}
	if s.LogDir == "" {
		return ""
	}
	return filepath.Join(s.LogDir, "history")
}
