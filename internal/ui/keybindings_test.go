package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestIsQuit(t *testing.T) {
	assert.True(t, isQuit(tea.KeyMsg{Type: tea.KeyCtrlC}))
	assert.True(t, isQuit(runeKey('q')))
	assert.False(t, isQuit(runeKey('a')))
}

func TestIsEnter(t *testing.T) {
	assert.True(t, isEnter(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.False(t, isEnter(tea.KeyMsg{Type: tea.KeySpace}))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, isSpace(tea.KeyMsg{Type: tea.KeySpace}))
	assert.False(t, isSpace(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestIsBack(t *testing.T) {
	assert.True(t, isBack(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, isBack(tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestKeyMapVimKeys(t *testing.T) {
	plain := keyMap{}
	vim := keyMap{vim: true}

	assert.True(t, plain.down(tea.KeyMsg{Type: tea.KeyDown}))
	assert.False(t, plain.down(runeKey('j')))
	assert.True(t, vim.down(runeKey('j')))
	assert.True(t, vim.up(runeKey('k')))
	assert.False(t, plain.up(runeKey('k')))
	assert.True(t, vim.prevPage(runeKey('h')))
	assert.True(t, plain.prevPage(tea.KeyMsg{Type: tea.KeyLeft}))
	assert.True(t, vim.nextPage(runeKey('l')))
	assert.True(t, plain.nextPage(tea.KeyMsg{Type: tea.KeyPgDown}))
}

func TestTabForKey(t *testing.T) {
	tab, ok := tabForKey(runeKey('1'))
	assert.True(t, ok)
	assert.Equal(t, tabVisors, tab)

	tab, ok = tabForKey(runeKey('4'))
	assert.True(t, ok)
	assert.Equal(t, tabApps, tab)

	_, ok = tabForKey(runeKey('5'))
	assert.False(t, ok)
	_, ok = tabForKey(runeKey('x'))
	assert.False(t, ok)
}
