package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary = lipgloss.Color("#4f8fba") // steel blue
	ColorAccent  = lipgloss.Color("#6fb3b8") // teal
	ColorText    = lipgloss.Color("#e4e7eb")
	ColorMuted   = lipgloss.Color("#98a2b3")
	ColorSuccess = lipgloss.Color("#8cc084")
	ColorError   = lipgloss.Color("#e5737f")
	ColorWarning = lipgloss.Color("#d8a657")
	ColorBorder  = lipgloss.Color("#2f3b45")
)

// --- Reusable Styles ---

var (
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	NormalStyle  = lipgloss.NewStyle().Foreground(ColorText)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	FieldFocusStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ScopeBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#101418")).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)
)
