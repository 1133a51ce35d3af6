package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "q", "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "ctrl+[")
}

// isUp and isDown accept k/j only when vim keys are enabled.
func isUp(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "up") || (vim && isKey(msg, "k"))
}

func isDown(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "down") || (vim && isKey(msg, "j"))
}

func isTop(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "home") || (vim && isKey(msg, "g"))
}

func isBottom(msg tea.KeyMsg, vim bool) bool {
	return isKey(msg, "end") || (vim && isKey(msg, "G"))
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter")
}

func isSave(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+s")
}

func isNextField(msg tea.KeyMsg) bool {
	return isKey(msg, "tab", "down")
}

func isPrevField(msg tea.KeyMsg) bool {
	return isKey(msg, "shift+tab", "up")
}
