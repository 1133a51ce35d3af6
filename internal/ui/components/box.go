package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorBorder = lipgloss.Color("#2f3b45")
	colorActive = lipgloss.Color("#4f8fba")
	colorMuted  = lipgloss.Color("#98a2b3")
	colorText   = lipgloss.Color("#e4e7eb")
	colorLabel  = lipgloss.Color("#6fb3b8")
	colorError  = lipgloss.Color("#8a3b45")
)

var (
	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	boxBorderActive = boxBorder.BorderForeground(colorActive)

	boxHeaderStyle = lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	boxMutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	boxValueStyle  = lipgloss.NewStyle().Foreground(colorText)
	boxLabelStyle  = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)

	errorBorder      = boxBorder.BorderForeground(colorError)
	errorHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5737f")).Bold(true)
	errorBodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#dcbcbc"))

	diffLabelStyle  = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	diffRemoveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5737f"))
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8cc084"))
)

// boxWidth is about 70% of the terminal, between 40 and 80 columns.
func boxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	return min(max(width*70/100, 40), 80)
}

func safeBoxWidth(width int) int {
	w := boxWidth(width)
	if width > 0 && w > width {
		return width
	}
	return w
}

// framed sizes style so the box including its border is safeBoxWidth wide.
func framed(style lipgloss.Style, width int) lipgloss.Style {
	return style.Width(max(safeBoxWidth(width)-2, 0))
}

// Box renders content inside a bordered box.
func Box(content string, width int) string {
	return framed(boxBorder, width).Render(content)
}

// BoxContentWidth is the usable width inside a box: border 2, padding 4.
func BoxContentWidth(width int) int {
	return max(safeBoxWidth(width)-6, 0)
}

// ClampTextWidth flattens text to one line and truncates it to width columns.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	if width <= 3 {
		return truncateRunes(cleaned, width)
	}
	return truncateRunes(cleaned, width-3) + "..."
}

// ErrorBox renders a red box with an optional title.
func ErrorBox(title, message string, width int) string {
	header := ""
	if title != "" {
		header = errorHeaderStyle.Render(title) + "\n\n"
	}
	return framed(errorBorder, width).Render(header + errorBodyStyle.Render(message))
}

// TitledBox renders a box with the title set into its top border.
func TitledBox(title, content string, width int) string {
	return titledBox(title, content, width, boxBorder, colorBorder)
}

// ActiveTitledBox is TitledBox with the highlighted border.
func ActiveTitledBox(title, content string, width int) string {
	return titledBox(title, content, width, boxBorderActive, colorActive)
}

func titledBox(title, content string, width int, style lipgloss.Style, borderColor lipgloss.Color) string {
	boxed := framed(style, width).Render(content)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}

	border := lipgloss.RoundedBorder()
	middle := lineWidth - 2
	label := fmt.Sprintf(" %s ", title)
	if lipgloss.Width(label) > middle {
		label = truncateRunes(label, middle)
	}
	left := max((middle-lipgloss.Width(label))/2, 0)
	right := max(middle-lipgloss.Width(label)-left, 0)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	lines[0] = borderStyle.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(label) +
		borderStyle.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// InfoRow renders a "label: value" line.
func InfoRow(label, value string) string {
	return boxMutedStyle.Render(SanitizeOneLine(label)+": ") + boxValueStyle.Render(SanitizeOneLine(value))
}

// TableRow is one label/value pair.
type TableRow struct {
	Label string
	Value string
}

// Table renders aligned label/value rows inside a titled box. Values are
// clamped to one line each.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(SanitizeOneLine(r.Label)))
	}
	contentWidth := BoxContentWidth(width)
	if contentWidth <= 0 {
		contentWidth = labelWidth + 40
	}
	labelWidth = min(labelWidth, 16, contentWidth/2)
	valueWidth := max(contentWidth-labelWidth-2, 4)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := boxLabelStyle.Render(padRight(ClampTextWidth(r.Label, labelWidth), labelWidth))
		lines = append(lines, label+"  "+boxValueStyle.Render(ClampTextWidth(r.Value, valueWidth)))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// DiffRow is one changed field.
type DiffRow struct {
	Label string
	From  string
	To    string
}

// DiffTable renders changes as "- old" and "+ new" lines per field.
func DiffTable(title string, rows []DiffRow, width int) string {
	if len(rows) == 0 {
		return ""
	}
	valueWidth := max(BoxContentWidth(width)-4, 0)
	render := func(style lipgloss.Style, prefix, value string) string {
		if value == "" {
			value = "-"
		}
		return style.Render(prefix + ClampTextWidth(value, valueWidth))
	}

	blocks := make([]string, 0, len(rows))
	for _, r := range rows {
		blocks = append(blocks, strings.Join([]string{
			diffLabelStyle.Render(SanitizeOneLine(r.Label)),
			render(diffRemoveStyle, "  - ", r.From),
			render(diffAddStyle, "  + ", r.To),
		}, "\n"))
	}
	return TitledBox(title, strings.Join(blocks, "\n\n"), width)
}

// Indent left-pads every line.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}
