package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			Width(56)

	dialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	dialogFieldStyle = lipgloss.NewStyle().
				Foreground(colorSecondary)
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(title, message string) string {
	hint := dialogBodyStyle.Render("\ny: confirm | n: cancel")
	return dialogStyle.Render(dialogTitleStyle.Render(title) + "\n\n" + dialogBodyStyle.Render(SanitizeText(message)) + hint)
}

// FormDialog renders a form made of pre-rendered fields, one per line.
// errText, when set, is shown above the key hints.
func FormDialog(title string, fields []string, errText string) string {
	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render(title))
	b.WriteString("\n")
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(dialogFieldStyle.Render(f))
	}
	if errText != "" {
		b.WriteString("\n\n")
		b.WriteString(errorHeaderStyle.Render(SanitizeOneLine(errText)))
	}
	b.WriteString(dialogBodyStyle.Render("\n\ntab: next field | enter: submit | esc: cancel"))
	return dialogStyle.Render(b.String())
}

// ReportDialog renders the outcome of a finished operation.
func ReportDialog(title string, rows []TableRow, width int) string {
	hint := dialogBodyStyle.Render("enter: close")
	return Table(title, rows, width) + "\n" + CenterLine(hint, safeBoxWidth(width))
}
