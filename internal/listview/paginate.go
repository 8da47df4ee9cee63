package listview

// Page is the visible slice of a sorted collection.
type Page[T any] struct {
	Items   []T
	Current int
	Total   int
}

// Paginate slices items into pages of pageSize and returns the page closest
// to requested.
//
// Total is at least 1, even for an empty collection. Current is clamped to
// [1, Total]: a request past the end returns the last page. A pageSize of
// zero or less puts everything on a single page.
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	n := len(items)
	if pageSize <= 0 {
		return Page[T]{Items: items[:n:n], Current: 1, Total: 1}
	}

	total := (n + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	current := requested
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := pageSize * (current - 1)
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return Page[T]{Items: items[start:end:end], Current: current, Total: total}
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Current < p.Total
}

// HasPrev reports whether a page precedes this one.
func (p Page[T]) HasPrev() bool {
	return p.Current > 1
}
