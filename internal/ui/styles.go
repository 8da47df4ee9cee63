package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#2f8fdb") // sky blue
	ColorSecondary  = lipgloss.Color("#3fa6a0") // teal
	ColorBackground = lipgloss.Color("#16161d") // dark
	ColorText       = lipgloss.Color("#d7d9da") // main text
	ColorMuted      = lipgloss.Color("#8e99ab") // muted text
	ColorSuccess    = lipgloss.Color("#3f866b") // green
	ColorError      = lipgloss.Color("#e06c75") // red
	ColorWarning    = lipgloss.Color("#c78854") // warning
	ColorBorder     = lipgloss.Color("#273540") // border
)

// --- Reusable Styles ---

var (
	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	VisorStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBorder).
			Padding(0, 1)
)
