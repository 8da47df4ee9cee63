package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoColumnsUsesWidestCell(t *testing.T) {
	cols := AutoColumns([]string{"KEY", "RULE"}, [][]string{{"1", "forward"}, {"12345", "x"}}, 80)

	require.Len(t, cols, 2)
	assert.Equal(t, 5, cols[0].Width)
	assert.Equal(t, 7, cols[1].Width)
}

func TestAutoColumnsShrinksToFit(t *testing.T) {
	pk := strings.Repeat("a", 66)
	cols := AutoColumns([]string{"ID", "REMOTE"}, [][]string{{"short", pk}}, 40)

	sum := 0
	for _, c := range cols {
		sum += c.Width
	}
	assert.LessOrEqual(t, sum+tableGridLeftOffset+len(cols)-1, 40)
	assert.Equal(t, 5, cols[0].Width)
}

func TestTableGridRowsFitWidth(t *testing.T) {
	cols := AutoColumns([]string{"", "NAME"}, [][]string{{MarkChecked, "skysocks"}, {MarkUnchecked, "vpn-client"}}, 30)
	out := TableGridWithActiveRow(cols, [][]string{{MarkChecked, "skysocks"}, {MarkUnchecked, "vpn-client"}}, 30, 1)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 30, lipgloss.Width(line))
	}
	clean := SanitizeText(out)
	assert.Contains(t, clean, "NAME")
	assert.Contains(t, clean, "[x]│skysocks")
}

func TestTableGridZeroWidth(t *testing.T) {
	assert.Equal(t, "", TableGrid([]TableColumn{{Header: "A", Width: 3}}, nil, 0))
	assert.Equal(t, "    ", TableGrid(nil, nil, 4))
}

func TestRenderGridCellAlignment(t *testing.T) {
	assert.Equal(t, "  ab", renderGridCell("ab", 4, lipgloss.Right))
	assert.Equal(t, " ab ", renderGridCell("ab", 4, lipgloss.Center))
	assert.Equal(t, "ab  ", renderGridCell("ab", 4, lipgloss.Left))
	assert.Equal(t, "abc…", renderGridCell("abcdefg", 4, lipgloss.Left))
}
