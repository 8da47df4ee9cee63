package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
	keyCapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	segmentStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginRight(1)
	statusBarBorder = lipgloss.NewStyle().
			PaddingLeft(2)
	pageInfoStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(2)
)

// StatusBar renders the bottom hint bar, wrapping segments to width.
func StatusBar(hints []string, width int) string {
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, segmentStyle.Render(h))
	}
	if width <= 0 {
		return statusBarBorder.Render(lipgloss.JoinHorizontal(lipgloss.Top, segments...))
	}

	rows := wrapSegments(segments, width)
	if len(rows) == 0 {
		return ""
	}
	maxRowWidth := 0
	for _, row := range rows {
		maxRowWidth = max(maxRowWidth, lipgloss.Width(row))
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.NewStyle().Width(maxRowWidth).Align(lipgloss.Center).Render(row))
	}
	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return statusBarBorder.Width(width).Align(lipgloss.Center).Render(block)
}

// Hint formats a single keybind hint like "Sort s".
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapStyle.Render(key)
}

// PageInfo renders the footer under a list: position, size and ordering.
func PageInfo(page, pages, count int, sortColumn string, descending bool, mode string) string {
	dir := "↑"
	if descending {
		dir = "↓"
	}
	return pageInfoStyle.Render(fmt.Sprintf("page %d/%d · %d total · sort %s %s · %s", page, pages, count, sortColumn, dir, mode))
}

func wrapSegments(segments []string, width int) []string {
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	rows := make([]string, 0, 2)
	var current []string
	currentWidth := 0
	for _, seg := range segments {
		segWidth := lipgloss.Width(seg)
		if currentWidth > 0 && currentWidth+segWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = []string{seg}
			currentWidth = segWidth
			continue
		}
		current = append(current, seg)
		currentWidth += segWidth
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return rows
}
