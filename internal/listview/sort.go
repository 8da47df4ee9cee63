package listview

import "slices"

// SortSpec is the chosen sort column and direction.
type SortSpec struct {
	Column  string `json:"column" yaml:"column"`
	Reverse bool   `json:"reverse" yaml:"reverse"`
}

// Sort returns a new slice holding items ordered by spec.
//
// The primary comparison uses spec.Column and is negated when spec.Reverse is
// set. Ties fall back to the default column in ascending order regardless of
// direction. An unknown column sorts by the default column. items is never
// modified.
func Sort[T any](items []T, spec SortSpec, cols Columns[T]) []T {
	out := slices.Clone(items)
	if len(out) < 2 {
		return out
	}

	def := cols.Default()
	primary, ok := cols.Lookup(spec.Column)
	if !ok {
		primary = def
	}

	slices.SortStableFunc(out, func(a, b T) int {
		r := primary.Compare(a, b)
		if spec.Reverse {
			r = -r
		}
		if r != 0 {
			return r
		}
		return def.Compare(a, b)
	})
	return out
}
