package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#101418")).
			Background(colorLabel).
			Bold(true).
			Padding(0, 1)
	hintDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
	hintSeparator = lipgloss.NewStyle().Foreground(colorBorder).Render(" · ")
	statusLine    = lipgloss.NewStyle().Align(lipgloss.Center)
)

// StatusBar lays hints out on centered lines, starting a new line before a
// hint that would overflow width. A width <= 0 keeps everything on one line.
func StatusBar(hints []string, width int) string {
	lines := packHints(hints, width)
	if len(lines) == 0 {
		return ""
	}
	if width <= 0 {
		return strings.Join(lines, "\n")
	}
	return statusLine.Width(width).Render(strings.Join(lines, "\n"))
}

// Hint formats one key hint such as "[/] Search".
func Hint(key, desc string) string {
	return hintKeyStyle.Render(key) + " " + hintDescStyle.Render(desc)
}

func packHints(hints []string, width int) []string {
	sepWidth := lipgloss.Width(hintSeparator)
	var (
		lines     []string
		line      strings.Builder
		lineWidth int
	)
	for _, h := range hints {
		w := lipgloss.Width(h)
		if width > 0 && lineWidth > 0 && lineWidth+sepWidth+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteString(hintSeparator)
			lineWidth += sepWidth
		}
		line.WriteString(h)
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
