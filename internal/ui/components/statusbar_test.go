package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintPutsKeyBeforeDesc(t *testing.T) {
	out := SanitizeText(Hint("/", "Search"))
	assert.Equal(t, " /  Search", out)
}

func TestStatusBarSingleLineWithoutWidth(t *testing.T) {
	out := SanitizeText(StatusBar([]string{Hint("q", "Quit"), Hint("?", "Help")}, 0))
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, "Quit · ")
	assert.Contains(t, out, "Help")
	assert.Empty(t, StatusBar(nil, 80))
}

func TestPackHintsBreaksBeforeOverflow(t *testing.T) {
	lines := packHints([]string{"123456", "abcdef", "ghi"}, 16)
	require.Len(t, lines, 2)
	assert.Equal(t, "123456 · abcdef", SanitizeText(lines[0]))
	assert.Equal(t, "ghi", lines[1])
	for _, line := range lines {
		assert.LessOrEqual(t, lipgloss.Width(line), 16)
	}
}

func TestStatusBarFitsWidth(t *testing.T) {
	hints := []string{Hint("enter", "Open"), Hint("e", "Edit"), Hint("/", "Search"), Hint("q", "Quit")}
	out := StatusBar(hints, 30)
	assert.Greater(t, strings.Count(out, "\n"), 0)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 30)
	}
}
