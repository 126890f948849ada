// Package platform detects the host the runner is executing on: operating
// system, execution environment and distribution identity.
package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

// OS represents the operating system type.
type OS string

const (
	// OSDarwin is macOS.
	OSDarwin OS = "darwin"
	// OSLinux is Linux (native or WSL).
	OSLinux OS = "linux"
	// OSWindows is Windows.
	OSWindows OS = "windows"
	// OSUnknown is an unsupported OS.
	OSUnknown OS = "unknown"
)

// Environment represents the execution environment.
type Environment string

const (
	// EnvNative is a native OS environment.
	EnvNative Environment = "native"
	// EnvWSL is Windows Subsystem for Linux.
	EnvWSL Environment = "wsl"
	// EnvContainer is a Docker or containerd container.
	EnvContainer Environment = "container"
)

// Platform contains detected platform information.
type Platform struct {
	os          OS
	arch        string
	environment Environment
	distro      Distro
}

var (
	detected     *Platform
	detectOnce   sync.Once
	testPlatform *Platform
)

// Detect returns the current platform information.
// Results are cached after the first call.
func Detect() *Platform {
	if testPlatform != nil {
		return testPlatform
	}

	detectOnce.Do(func() {
		detected = detect()
	})
	return detected
}

// SetTestPlatform sets a fixed platform for testing.
// Pass nil to reset to actual detection.
func SetTestPlatform(p *Platform) {
	testPlatform = p
}

func detect() *Platform {
	p := &Platform{
		arch:        runtime.GOARCH,
		environment: EnvNative,
	}

	switch runtime.GOOS {
	case "darwin":
		p.os = OSDarwin
	case "linux":
		p.os = OSLinux
		p.environment = detectLinuxEnvironment("/proc/version", "/.dockerenv", "/proc/1/cgroup")
		if distro, err := ReadOSRelease(); err == nil {
			p.distro = distro
		}
	case "windows":
		p.os = OSWindows
	default:
		p.os = OSUnknown
	}

	return p
}

// detectLinuxEnvironment checks for WSL and container markers.
func detectLinuxEnvironment(procVersion, dockerEnv, cgroup string) Environment {
	if data, err := os.ReadFile(procVersion); err == nil {
		version := strings.ToLower(string(data))
		if strings.Contains(version, "microsoft") || strings.Contains(version, "wsl") {
			return EnvWSL
		}
	}

	if _, err := os.Stat(dockerEnv); err == nil {
		return EnvContainer
	}

	if data, err := os.ReadFile(cgroup); err == nil {
		content := string(data)
		if strings.Contains(content, "docker") || strings.Contains(content, "containerd") {
			return EnvContainer
		}
	}

	return EnvNative
}

// OS returns the operating system.
func (p *Platform) OS() OS {
	return p.os
}

// Arch returns the architecture.
func (p *Platform) Arch() string {
	return p.arch
}

// Environment returns the execution environment.
func (p *Platform) Environment() Environment {
	return p.environment
}

// Distro returns the distribution identity (zero outside Linux).
func (p *Platform) Distro() Distro {
	return p.distro
}

// Identity returns the string OS identity checks match against: the
// os-release PRETTY_NAME, NAME and ID joined by spaces, or the OS name
// when no distribution information is available.
func (p *Platform) Identity() string {
	var parts []string
	for _, v := range []string{p.distro.PrettyName, p.distro.Name, p.distro.ID} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return string(p.os)
	}
	return strings.Join(parts, " ")
}

// String returns a human-readable description.
func (p *Platform) String() string {
	parts := []string{string(p.os), p.arch}

	if p.environment != EnvNative {
		parts = append(parts, string(p.environment))
	}
	if p.distro.ID != "" {
		id := p.distro.ID
		if p.distro.VersionID != "" {
			id += "-" + p.distro.VersionID
		}
		parts = append(parts, id)
	}

	return strings.Join(parts, "/")
}

// New creates a Platform with specified values (for testing).
func New(os OS, arch string, env Environment) *Platform {
	return &Platform{
		os:          os,
		arch:        arch,
		environment: env,
	}
}

// NewLinux creates a Linux Platform with the given distribution (for testing).
func NewLinux(arch string, distro Distro) *Platform {
	return &Platform{
		os:          OSLinux,
		arch:        arch,
		environment: EnvNative,
		distro:      distro,
	}
}
