package platform

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultOSReleasePaths are read in order; the first one present wins.
var DefaultOSReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Distro is the distribution identity reported by os-release(5).
type Distro struct {
	ID         string
	IDLike     string
	Name       string
	PrettyName string
	VersionID  string
}

// IsZero reports whether no identity fields are set.
func (d Distro) IsZero() bool {
	return d == Distro{}
}

// ParseOSRelease parses the KEY=value contents of an os-release file.
func ParseOSRelease(data []byte) (Distro, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return Distro{}, fmt.Errorf("failed to parse os-release: %w", err)
	}

	section := cfg.Section(ini.DefaultSection)
	value := func(key string) string {
		return unquote(section.Key(key).String())
	}

	return Distro{
		ID:         value("ID"),
		IDLike:     value("ID_LIKE"),
		Name:       value("NAME"),
		PrettyName: value("PRETTY_NAME"),
		VersionID:  value("VERSION_ID"),
	}, nil
}

// ReadOSRelease reads and parses the first os-release file found in paths.
func ReadOSRelease(paths ...string) (Distro, error) {
	if len(paths) == 0 {
		paths = DefaultOSReleasePaths
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Distro{}, err
		}
		return ParseOSRelease(data)
	}

	return Distro{}, fmt.Errorf("no os-release file found in %s", strings.Join(paths, ", "))
}

// unquote strips one level of shell quoting left over from the parser.
func unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
