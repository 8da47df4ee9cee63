package listview

import (
	"cmp"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Compare orders two items: negative when a sorts before b, zero when equal.
type Compare[T any] func(a, b T) int

// Column is a named sortable column.
type Column[T any] struct {
	Name    string
	Compare Compare[T]
}

// Columns is the set of sortable columns of one list kind.
//
// The first column is the default: it is used when no column was chosen and
// as the tie-break for every other column.
type Columns[T any] []Column[T]

// Default returns the tie-break column.
func (c Columns[T]) Default() Column[T] {
	if len(c) == 0 {
		return Column[T]{Compare: func(T, T) int { return 0 }}
	}
	return c[0]
}

// Lookup finds a column by name, case-insensitively.
func (c Columns[T]) Lookup(name string) (Column[T], bool) {
	name = strings.TrimSpace(name)
	for _, col := range c {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return Column[T]{}, false
}

// Names returns the column names in declaration order.
func (c Columns[T]) Names() []string {
	names := make([]string, len(c))
	for i, col := range c {
		names[i] = col.Name
	}
	return names
}

// Next returns the column declared after name, wrapping around.
func (c Columns[T]) Next(name string) Column[T] {
	for i, col := range c {
		if strings.EqualFold(col.Name, name) {
			return c[(i+1)%len(c)]
		}
	}
	return c.Default()
}

// Suggest returns the column name closest to name by edit distance, or ""
// when nothing is reasonably close.
func (c Columns[T]) Suggest(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, col := range c {
		d := levenshtein.ComputeDistance(name, strings.ToLower(col.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = col.Name, d
		}
	}
	if bestDist < 0 || bestDist > len(name)/2+1 {
		return ""
	}
	return best
}

// Numeric builds a comparator over a numeric field.
func Numeric[T any, N cmp.Ordered](field func(T) N) Compare[T] {
	return func(a, b T) int {
		return cmp.Compare(field(a), field(b))
	}
}

// Bool builds a comparator over a boolean field; false sorts first.
func Bool[T any](field func(T) bool) Compare[T] {
	return func(a, b T) int {
		x, y := field(a), field(b)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English)
)

// Text builds a locale-aware comparator over a string field.
func Text[T any](field func(T) string) Compare[T] {
	return func(a, b T) int {
		return CompareText(field(a), field(b))
	}
}

// CompareText compares two strings with English collation rules.
func CompareText(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}
