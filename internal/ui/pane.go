package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skyfleet/skymanager/internal/lists"
	"github.com/skyfleet/skymanager/internal/listview"
	"github.com/skyfleet/skymanager/internal/retry"
	"github.com/skyfleet/skymanager/internal/ui/components"
)

// listPane is one tab: a pipeline over the records of a visor plus the
// cursor on its visible page.
type listPane[T any, K comparable] struct {
	view     lists.View[T, K]
	pipe     *listview.Pipeline[T, K]
	cursor   components.Cursor
	notifier *retry.Notifier

	// visor owns the items; empty for the visor list itself.
	visor   string
	loaded  bool
	loading bool
	err     string
}

func newListPane[T any, K comparable](view lists.View[T, K], opts ...listview.Option) *listPane[T, K] {
	return &listPane[T, K]{
		view:     view,
		pipe:     view.Pipeline(opts...),
		notifier: &retry.Notifier{},
	}
}

// reset drops the items and binds the pane to another visor.
func (p *listPane[T, K]) reset(visor string) {
	p.visor = visor
	p.loaded = false
	p.loading = false
	p.err = ""
	p.notifier.Succeeded()
	p.pipe.SetItems(nil)
	p.cursor.Reset()
}

// setItems replaces the collection and stays on the current page when it
// still exists.
func (p *listPane[T, K]) setItems(items []T) {
	p.pipe.Replace(items, p.pipe.Page().Current)
	p.loaded = true
	p.loading = false
	p.err = ""
	p.cursor.Clamp(len(p.rows()))
}

func (p *listPane[T, K]) failed(err error) {
	p.loading = false
	p.err = err.Error()
}

func (p *listPane[T, K]) rows() []T {
	return p.pipe.Page().Items
}

func (p *listPane[T, K]) focused() (T, bool) {
	rows := p.rows()
	if p.cursor.Index < 0 || p.cursor.Index >= len(rows) {
		var zero T
		return zero, false
	}
	return rows[p.cursor.Index], true
}

// targets returns the checked keys in visible order, or the focused key
// when nothing is checked.
func (p *listPane[T, K]) targets() []K {
	if sel := p.pipe.Selection().Selected(); len(sel) > 0 {
		return sel
	}
	if item, ok := p.focused(); ok {
		return []K{p.view.Key(item)}
	}
	return nil
}

// handleKey applies the list keys and reports whether msg was one of them.
func (p *listPane[T, K]) handleKey(keys keyMap, msg tea.KeyMsg) bool {
	n := len(p.rows())
	switch {
	case keys.up(msg):
		p.cursor.Up()
	case keys.down(msg):
		p.cursor.Down(n)
	case keys.prevPage(msg):
		if p.pipe.PrevPage() {
			p.cursor.Reset()
		}
	case keys.nextPage(msg):
		if p.pipe.NextPage() {
			p.cursor.Reset()
		}
	case isKey(msg, "s"):
		p.pipe.CycleSort()
	case isKey(msg, "S"):
		p.pipe.ReverseSort()
	case isKey(msg, "f"):
		p.pipe.ToggleMode()
		p.cursor.Clamp(len(p.rows()))
	case isSpace(msg):
		if item, ok := p.focused(); ok {
			p.pipe.Selection().Toggle(p.view.Key(item))
			p.cursor.Down(n)
		}
	case isKey(msg, "a"):
		p.pipe.Selection().SetAll(true)
	case isKey(msg, "A"):
		p.pipe.Selection().SetAll(false)
	default:
		return false
	}
	return true
}

// render draws the table of the visible page and its footer.
func (p *listPane[T, K]) render(width, height int, spin string) string {
	if p.loading && !p.loaded {
		return MutedStyle.Render(fmt.Sprintf("  %s loading %s...", spin, p.view.Kind))
	}
	if p.err != "" && !p.loaded {
		return ErrorStyle.Render(fmt.Sprintf("  could not load %s, retrying: %s", p.view.Kind, components.SanitizeOneLine(p.err)))
	}
	if p.pipe.Len() == 0 {
		return MutedStyle.Render(fmt.Sprintf("  no %s found", p.view.Kind))
	}

	items := p.rows()
	sel := p.pipe.Selection()
	spec := p.pipe.Sort()

	headers := make([]string, 0, len(p.view.Headers)+1)
	headers = append(headers, "")
	for _, h := range p.view.Headers {
		if strings.EqualFold(h, spec.Column) {
			h += sortArrow(spec.Reverse)
		}
		headers = append(headers, h)
	}

	p.cursor.Height = max(height, 0)
	start, end := p.cursor.Window(len(items))
	rows := make([][]string, 0, end-start)
	for _, item := range items[start:end] {
		mark := components.MarkUnchecked
		if sel.IsChecked(p.view.Key(item)) {
			mark = components.MarkChecked
		}
		rows = append(rows, append([]string{mark}, p.view.Row(item)...))
	}

	tableWidth := max(width-2, 20)
	cols := components.AutoColumns(headers, rows, tableWidth)
	grid := components.TableGridWithActiveRow(cols, rows, tableWidth, p.cursor.Index-start)

	page := p.pipe.Page()
	footer := components.PageInfo(page.Current, page.Total, p.pipe.Len(), spec.Column, spec.Reverse, p.pipe.Mode().String())
	if p.err != "" {
		footer += "  " + WarningStyle.Render(spin+" retrying")
	}
	return grid + "\n\n" + footer
}

func sortArrow(reverse bool) string {
	if reverse {
		return " ↓"
	}
	return " ↑"
}
