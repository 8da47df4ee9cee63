package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	boxBorderActive = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	boxMutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	boxLabelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	errorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7a2f3a")).
			Padding(1, 2)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#e06c75")).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d6b5b5"))
)

// Shared palette. The ui package mirrors these in its own styles.
var (
	colorPrimary   = lipgloss.Color("#2f8fdb")
	colorSecondary = lipgloss.Color("#3fa6a0")
	colorText      = lipgloss.Color("#d7d9da")
	colorMuted     = lipgloss.Color("#8e99ab")
	colorBorder    = lipgloss.Color("#273540")
)

func boxWidth(width int) int {
	// ~70% of the terminal, between 40 and 80 columns.
	if width <= 0 {
		return 0
	}
	w := width * 70 / 100
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func safeBoxWidth(width int) int {
	w := boxWidth(width)
	if width > 0 && w > width {
		return width
	}
	return w
}

// Box renders content inside a bordered box.
func Box(content string, width int) string {
	return boxBorder.Width(safeBoxWidth(width)).Render(content)
}

// ActiveBox renders content inside a highlighted bordered box.
func ActiveBox(content string, width int) string {
	return boxBorderActive.Width(safeBoxWidth(width)).Render(content)
}

// BoxContentWidth returns the inner content width excluding border and padding.
func BoxContentWidth(width int) int {
	w := safeBoxWidth(width)
	// Border adds 2, padding adds 4.
	if w <= 6 {
		return 0
	}
	return w - 6
}

// ClampTextWidth flattens text to one line and truncates it to width cells,
// marking the cut with an ellipsis. Wide runes count as two cells.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 {
		return cleaned
	}
	if runewidth.StringWidth(cleaned) <= width {
		return cleaned
	}
	if width == 1 {
		return runewidth.Truncate(cleaned, 1, "")
	}
	return runewidth.Truncate(cleaned, width, "…")
}

// ErrorBox renders a red bordered box for errors.
func ErrorBox(title, message string, width int) string {
	header := ""
	if title != "" {
		header = errorHeaderStyle.Render(title) + "\n\n"
	}
	body := errorBodyStyle.Render(SanitizeText(message))
	return errorBorder.Width(safeBoxWidth(width)).Render(header + body)
}

// TitledBox renders a box with the title set into its top border.
func TitledBox(title, content string, width int) string {
	boxed := boxBorder.Width(safeBoxWidth(width)).Render(content)
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
	titleText := ClampTextWidth(fmt.Sprintf(" [ %s ] ", title), middle)
	titleWidth := lipgloss.Width(titleText)
	left := (middle - titleWidth) / 2
	right := middle - titleWidth - left
	if right < 0 {
		right = 0
	}

	borderStyle := lipgloss.NewStyle().Foreground(colorBorder)
	lines[0] = borderStyle.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// InfoRow renders a label: value row for detail views.
func InfoRow(label, value string) string {
	return boxMutedStyle.Render(SanitizeOneLine(label)+": ") + boxValueStyle.Render(SanitizeOneLine(value))
}

// TableRow is a single row in a key-value table.
type TableRow struct {
	Label string
	Value string
}

// Table renders aligned key-value rows inside a box.
func Table(title string, rows []TableRow, width int) string {
	if len(rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(SanitizeOneLine(r.Label)); w > labelWidth {
			labelWidth = w
		}
	}
	contentWidth := BoxContentWidth(width)
	if contentWidth <= 0 {
		contentWidth = labelWidth + 40
	}
	if limit := contentWidth / 2; labelWidth > limit {
		labelWidth = limit
	}
	valueWidth := contentWidth - labelWidth - 2
	if valueWidth < 4 {
		valueWidth = 4
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		label := boxLabelStyle.Render(padRight(ClampTextWidth(r.Label, labelWidth), labelWidth))
		lines[i] = label + "  " + boxValueStyle.Render(ClampTextWidth(r.Value, valueWidth))
	}
	return TitledBox(title, strings.Join(lines, "\n"), width)
}

// CenterLine centers a single line within width.
func CenterLine(s string, width int) string {
	lineWidth := lipgloss.Width(s)
	if width <= 0 || lineWidth >= width {
		return s
	}
	return strings.Repeat(" ", (width-lineWidth)/2) + s
}
