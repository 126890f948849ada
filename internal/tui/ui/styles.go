// Package ui provides the shared terminal styles for command output.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#cba6f7"} // Mauve
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	ColorError     = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
	ColorText      = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"} // Text
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolFailure = "✗"
	SymbolSkipped = "-"
	SymbolPending = "•"
)

// Styles contains reusable lipgloss styles for reports and listings.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Text     lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style

	Label lipgloss.Style
	Panel lipgloss.Style
}

// DefaultStyles returns styles bound to the default renderer (stdout).
func DefaultStyles() Styles {
	return newStyles(lipgloss.DefaultRenderer())
}

// StylesFor returns styles bound to w. Colors are dropped when w is not a
// terminal or NO_COLOR is set.
func StylesFor(w io.Writer) Styles {
	return newStyles(lipgloss.NewRenderer(w))
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Subtitle: r.NewStyle().
			Foreground(ColorSecondary),

		Text: r.NewStyle().
			Foreground(ColorText),

		Success: r.NewStyle().
			Foreground(ColorSuccess),

		Warning: r.NewStyle().
			Foreground(ColorWarning),

		Error: r.NewStyle().
			Foreground(ColorError),

		Info: r.NewStyle().
			Foreground(ColorPrimary),

		Muted: r.NewStyle().
			Foreground(ColorMuted),

		Label: r.NewStyle().
			Bold(true).
			Width(12),

		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),
	}
}

// Status renders a status word with the style matching its outcome.
func (s Styles) Status(status string) string {
	switch status {
	case "succeeded", "passed", "present":
		return s.Success.Render(status)
	case "failed", "missing", "cancelled":
		return s.Error.Render(status)
	case "skipped":
		return s.Warning.Render(status)
	default:
		return s.Muted.Render(status)
	}
}

// Symbol returns the status symbol rendered in the matching style.
func (s Styles) Symbol(status string) string {
	switch status {
	case "succeeded", "passed", "present":
		return s.Success.Render(SymbolSuccess)
	case "failed", "missing", "cancelled":
		return s.Error.Render(SymbolFailure)
	case "skipped":
		return s.Warning.Render(SymbolSkipped)
	default:
		return s.Muted.Render(SymbolPending)
	}
}
