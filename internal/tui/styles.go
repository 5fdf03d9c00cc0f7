// Package tui provides terminal user interface components for prflow.
//
// Styling is centralized here using Lip Gloss. All colors use AdaptiveColor
// for light/dark terminal support, and CheckNoColor() honors the NO_COLOR
// standard (https://no-color.org/) plus TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states, links, and primary actions.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states and completed steps.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warnings and attention-required items.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for error states and failed steps.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for dim/inactive states and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleHeading renders section headings in status output.
	StyleHeading = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	// StyleSuccess renders success lines.
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)

	// StyleWarning renders warning lines.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)

	// StyleError renders error lines.
	StyleError = lipgloss.NewStyle().Foreground(ColorError)

	// StyleMuted renders secondary text such as hints and paths.
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)

	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(ColorPrimary).Underline(true)
)

// CheckNoColor disables color output when the terminal does not support it.
// Call this at the start of commands that render styled output.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport reports whether the terminal supports colors. NO_COLOR set
// to any value, including empty, disables color per the NO_COLOR standard,
// as does TERM=dumb.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return true
}
