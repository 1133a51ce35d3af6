package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(44)
	dialogTitleStyle = lipgloss.NewStyle().Foreground(colorActive).Bold(true)
	dialogFieldStyle = lipgloss.NewStyle().Foreground(colorLabel)
)

// ConfirmDialog renders a yes/no question.
func ConfirmDialog(title, message string) string {
	return dialogStyle.Render(
		dialogTitleStyle.Render(title) + "\n\n" +
			boxMutedStyle.Render(message) + "\n" +
			boxMutedStyle.Render("y: confirm | n: cancel"))
}

// InputDialog renders a prompt around an already rendered input field.
func InputDialog(title, input string) string {
	return dialogStyle.Render(
		dialogTitleStyle.Render(title) + "\n\n" +
			dialogFieldStyle.Render("> ") + input + "\n" +
			boxMutedStyle.Render("enter: submit | esc: cancel"))
}
