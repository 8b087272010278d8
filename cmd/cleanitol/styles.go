// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple, used for titles and headings.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, used for subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, used for found dependencies and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, used for missing dependencies and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, used for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, used for removal lines, commands and links.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray, used for supplementary details.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names, paths and keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)

// Report run styles. Mono variants keep the text as is; the terminal is
// already monospaced.
var (
	runBlackStyle    = lipgloss.NewStyle()
	runBoldStyle     = lipgloss.NewStyle().Bold(true)
	runHeadingStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	runBlueStyle     = lipgloss.NewStyle().Foreground(ColorHighlight)
	runRedStyle      = lipgloss.NewStyle().Foreground(ColorError)
	runGreenStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
	runLinkStyle     = lipgloss.NewStyle().Foreground(ColorHighlight).Underline(true)
	runLinkMonoStyle = lipgloss.NewStyle().Foreground(ColorVerbose).Underline(true)
)
