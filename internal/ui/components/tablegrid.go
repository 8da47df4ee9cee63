package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TableColumn defines a single column for TableGrid.
//
// Width is the visual width of the column content, excluding separators.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

const tableGridLeftOffset = 2

// Selection markers drawn in the first column of list rows.
const (
	MarkChecked   = "[x]"
	MarkUnchecked = "[ ]"
)

var gridLineStyle = lipgloss.NewStyle().
	Foreground(colorBorder)

var gridActiveRowStyle = lipgloss.NewStyle().
	Foreground(colorText).
	Background(lipgloss.Color("#1f2530")).
	Bold(true)

var gridActiveSepStyle = lipgloss.NewStyle().
	Foreground(colorBorder).
	Background(lipgloss.Color("#1f2530"))

var gridSelectedMarkStyle = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// AutoColumns sizes columns to their widest cell and shrinks the widest
// columns until the grid fits tableWidth.
func AutoColumns(headers []string, rows [][]string, tableWidth int) []TableColumn {
	cols := make([]TableColumn, len(headers))
	for i, h := range headers {
		cols[i] = TableColumn{Header: h, Width: runewidth.StringWidth(SanitizeOneLine(h))}
	}
	for _, row := range rows {
		for i := range cols {
			if i >= len(row) {
				break
			}
			if w := runewidth.StringWidth(SanitizeOneLine(row[i])); w > cols[i].Width {
				cols[i].Width = w
			}
		}
	}

	budget := tableWidth - tableGridLeftOffset - len(cols) + 1
	for total(cols) > budget {
		widest := 0
		for i := range cols {
			if cols[i].Width > cols[widest].Width {
				widest = i
			}
		}
		if cols[widest].Width <= 3 {
			break
		}
		cols[widest].Width--
	}
	return cols
}

func total(cols []TableColumn) int {
	sum := 0
	for _, c := range cols {
		sum += c.Width
	}
	return sum
}

// TableGrid renders header, rule and rows separated by the rounded box glyphs.
// The returned lines are padded to tableWidth.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int) string {
	return TableGridWithActiveRow(columns, rows, tableWidth, -1)
}

// TableGridWithActiveRow is like TableGrid but highlights one data row by
// index. Pass -1 to disable highlighting.
func TableGridWithActiveRow(columns []TableColumn, rows [][]string, tableWidth int, activeRow int) string {
	if tableWidth <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", tableWidth)
	}

	border := lipgloss.RoundedBorder()
	out := make([]string, 0, len(rows)+2)
	out = append(out, renderGridRow(columns, headerCells(columns), border.Left, tableWidth, true, false))
	out = append(out, renderGridRule(columns, border.Middle, border.Top, tableWidth))
	for i, row := range rows {
		out = append(out, renderGridRow(columns, row, border.Left, tableWidth, false, i == activeRow))
	}
	return strings.Join(out, "\n")
}

func headerCells(columns []TableColumn) []string {
	hdr := make([]string, len(columns))
	for i, c := range columns {
		hdr[i] = c.Header
	}
	return hdr
}

func renderGridRow(columns []TableColumn, cells []string, sep string, tableWidth int, header, active bool) string {
	sepStyle := gridLineStyle
	if active {
		sepStyle = gridActiveSepStyle
	}
	sepStyled := sepStyle.Inline(true).Render(sep)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", tableGridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(sepStyled)
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		rendered := renderGridCell(text, col.Width, col.Align)
		switch {
		case header:
			rendered = boxLabelStyle.Inline(true).Render(rendered)
		case active:
			rendered = gridActiveRowStyle.Inline(true).Render(rendered)
		}
		if !header {
			rendered = highlightSelectionMarkers(rendered)
		}
		b.WriteString(rendered)
	}
	return padRight(b.String(), tableWidth)
}

func renderGridRule(columns []TableColumn, cross, horiz string, tableWidth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", tableGridLeftOffset))
	for i, col := range columns {
		b.WriteString(strings.Repeat(horiz, max(col.Width, 1)))
		if i < len(columns)-1 {
			b.WriteString(cross)
		}
	}
	return gridLineStyle.Inline(true).Render(padRight(b.String(), tableWidth))
}

func renderGridCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	clamped := ClampTextWidth(text, width)
	pad := width - runewidth.StringWidth(clamped)
	if pad <= 0 {
		return clamped
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	default:
		return clamped + strings.Repeat(" ", pad)
	}
}

func highlightSelectionMarkers(value string) string {
	return strings.ReplaceAll(value, MarkChecked, gridSelectedMarkStyle.Render(MarkChecked))
}
