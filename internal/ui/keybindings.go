package ui

import tea "github.com/charmbracelet/bubbletea"

// --- Key Constants ---

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
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isSpace(msg tea.KeyMsg) bool {
	return isKey(msg, " ", "space")
}

// tabForKey maps the number row to tabs.
func tabForKey(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] >= '1'+tabCount {
		return 0, false
	}
	return int(s[0] - '1'), true
}

// keyMap resolves list movement keys, with hjkl when vim keys are on.
type keyMap struct {
	vim bool
}

func (k keyMap) up(msg tea.KeyMsg) bool {
	return isKey(msg, "up") || (k.vim && isKey(msg, "k"))
}

func (k keyMap) down(msg tea.KeyMsg) bool {
	return isKey(msg, "down") || (k.vim && isKey(msg, "j"))
}

func (k keyMap) prevPage(msg tea.KeyMsg) bool {
	return isKey(msg, "left", "pgup") || (k.vim && isKey(msg, "h"))
}

func (k keyMap) nextPage(msg tea.KeyMsg) bool {
	return isKey(msg, "right", "pgdown") || (k.vim && isKey(msg, "l"))
}
