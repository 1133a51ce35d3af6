package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ____   ___  ____ _____ _____ ____
|  _ \ / _ \/ ___|_   _| ____|  _ \
| |_) | | | \___ \ | | |  _| | |_) |
|  _ <| |_| |___) || | | |___|  _ <
|_| \_\\___/|____/ |_| |_____|_| \_\`

const bannerSubtitle = "Employee Directory • Terminal Client"

// RenderBanner returns the styled banner with a subtitle and underline.
func RenderBanner() string {
	lines := strings.Split(strings.TrimPrefix(bannerArt, "\n"), "\n")
	blockWidth := lipgloss.Width(bannerSubtitle)
	for _, line := range lines {
		blockWidth = max(blockWidth, lipgloss.Width(line))
	}

	art := lipgloss.NewStyle().Foreground(ColorPrimary).Width(blockWidth)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(art.Render(line))
		b.WriteString("\n")
	}

	centered := lipgloss.NewStyle().Width(blockWidth).Align(lipgloss.Center)
	b.WriteString("\n")
	b.WriteString(centered.Foreground(ColorMuted).Render(bannerSubtitle))
	b.WriteString("\n")
	b.WriteString(centered.Foreground(ColorBorder).Render(strings.Repeat("─", lipgloss.Width(bannerSubtitle))))
	return b.String()
}
