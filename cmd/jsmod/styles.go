// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette for dark terminal backgrounds.
const (
	// ColorPrimary is purple, for titles.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray, for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue, for specifiers and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
	// ColorVerbose is light gray, for diagnostics.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and placeholders.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks resolved modules.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle marks failures.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle marks recoverable problems.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// SpecStyle renders specifiers and module names.
	SpecStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle renders supplementary details.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)

// Status icons.
var (
	successIcon = SuccessStyle.Render("✓")
	errorIcon   = ErrorStyle.Render("✗")
	arrowIcon   = SubtitleStyle.Render("→")
)
