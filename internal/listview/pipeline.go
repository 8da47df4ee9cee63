package listview

import "fmt"

// Mode selects the page size tier.
type Mode int

const (
	// Short shows a preview with few rows.
	Short Mode = iota
	// Full shows the complete paginated list.
	Full
)

func (m Mode) String() string {
	if m == Full {
		return "full"
	}
	return "short"
}

// PageSizes holds the two page size tiers.
type PageSizes struct {
	Short int
	Full  int
}

// DefaultPageSizes matches the hypervisor manager's list sizes.
var DefaultPageSizes = PageSizes{Short: 5, Full: 40}

// For returns the size for mode.
func (p PageSizes) For(mode Mode) int {
	if mode == Full {
		return p.Full
	}
	return p.Short
}

type settings struct {
	sorts *SortStore
	sizes PageSizes
	mode  Mode
}

// Option configures a Pipeline.
type Option func(*settings)

// WithSortStore shares sort choices with other pipelines of the session.
func WithSortStore(store *SortStore) Option {
	return func(s *settings) {
		if store != nil {
			s.sorts = store
		}
	}
}

// WithPageSizes overrides the page size tiers.
func WithPageSizes(sizes PageSizes) Option {
	return func(s *settings) {
		s.sizes = sizes
	}
}

// WithMode sets the initial display mode.
func WithMode(mode Mode) Option {
	return func(s *settings) {
		s.mode = mode
	}
}

// Pipeline composes sort, paginate and selection reconcile over one list.
// A Pipeline is not safe for concurrent use; the SortStore it reads is.
type Pipeline[T any, K comparable] struct {
	kind      string
	columns   Columns[T]
	key       func(T) K
	sorts     *SortStore
	sizes     PageSizes
	mode      Mode
	requested int
	items     []T
	sorted    []T
	page      Page[T]
	selection *Selection[K]
}

// NewPipeline builds an empty pipeline for a list kind.
func NewPipeline[T any, K comparable](kind string, cols Columns[T], key func(T) K, opts ...Option) *Pipeline[T, K] {
	s := settings{sizes: DefaultPageSizes, mode: Short}
	for _, opt := range opts {
		opt(&s)
	}
	if s.sorts == nil {
		s.sorts = NewSortStore()
	}
	p := &Pipeline[T, K]{
		kind:      kind,
		columns:   cols,
		key:       key,
		sorts:     s.sorts,
		sizes:     s.sizes,
		mode:      s.mode,
		requested: 1,
		selection: NewSelection[K](),
	}
	p.recompute()
	return p
}

// SetItems replaces the collection and goes back to the first page.
func (p *Pipeline[T, K]) SetItems(items []T) {
	p.items = items
	p.requested = 1
	p.recompute()
}

// Replace swaps the collection and requests page in a single recompute, so
// checked ids on that page survive a refresh.
func (p *Pipeline[T, K]) Replace(items []T, page int) {
	p.items = items
	p.requested = page
	p.recompute()
}

// SetPage requests a page; out of range requests are clamped.
func (p *Pipeline[T, K]) SetPage(page int) {
	p.requested = page
	p.recompute()
}

// NextPage moves one page forward and reports whether it moved.
func (p *Pipeline[T, K]) NextPage() bool {
	if !p.page.HasNext() {
		return false
	}
	p.SetPage(p.page.Current + 1)
	return true
}

// PrevPage moves one page back and reports whether it moved.
func (p *Pipeline[T, K]) PrevPage() bool {
	if !p.page.HasPrev() {
		return false
	}
	p.SetPage(p.page.Current - 1)
	return true
}

// SetMode switches between the short and full page size.
func (p *Pipeline[T, K]) SetMode(mode Mode) {
	p.mode = mode
	p.recompute()
}

// ToggleMode flips between short and full.
func (p *Pipeline[T, K]) ToggleMode() {
	if p.mode == Full {
		p.SetMode(Short)
		return
	}
	p.SetMode(Full)
}

// Mode returns the display mode.
func (p *Pipeline[T, K]) Mode() Mode {
	return p.mode
}

// Sort returns the active sort spec.
func (p *Pipeline[T, K]) Sort() SortSpec {
	return p.sorts.Get(p.kind, p.columns.Default().Name)
}

// SetSort stores spec for this list kind and recomputes.
func (p *Pipeline[T, K]) SetSort(spec SortSpec) error {
	col, ok := p.columns.Lookup(spec.Column)
	if !ok {
		return p.unknownColumn(spec.Column)
	}
	spec.Column = col.Name
	p.sorts.Set(p.kind, spec)
	p.recompute()
	return nil
}

// SortBy selects a column the way a header click does: choosing the active
// column flips its direction, choosing another sorts it ascending.
func (p *Pipeline[T, K]) SortBy(column string) error {
	col, ok := p.columns.Lookup(column)
	if !ok {
		return p.unknownColumn(column)
	}
	current := p.Sort()
	next := SortSpec{Column: col.Name}
	if current.Column == col.Name {
		next.Reverse = !current.Reverse
	}
	p.sorts.Set(p.kind, next)
	p.recompute()
	return nil
}

// CycleSort moves to the next column in ascending order.
func (p *Pipeline[T, K]) CycleSort() {
	if len(p.columns) == 0 {
		return
	}
	next := p.columns.Next(p.Sort().Column)
	p.sorts.Set(p.kind, SortSpec{Column: next.Name})
	p.recompute()
}

// ReverseSort flips the direction of the active column.
func (p *Pipeline[T, K]) ReverseSort() {
	spec := p.Sort()
	spec.Reverse = !spec.Reverse
	p.sorts.Set(p.kind, spec)
	p.recompute()
}

// Refresh recomputes with the current collection, for example after another
// pipeline of the same kind changed the shared sort choice.
func (p *Pipeline[T, K]) Refresh() {
	p.recompute()
}

// Page returns the visible page.
func (p *Pipeline[T, K]) Page() Page[T] {
	return p.page
}

// Sorted returns the whole collection in display order.
func (p *Pipeline[T, K]) Sorted() []T {
	return p.sorted
}

// Len returns the size of the whole collection.
func (p *Pipeline[T, K]) Len() int {
	return len(p.items)
}

// Selection returns the checkbox state of the visible page.
func (p *Pipeline[T, K]) Selection() *Selection[K] {
	return p.selection
}

// Key returns the identity of item.
func (p *Pipeline[T, K]) Key(item T) K {
	return p.key(item)
}

// Kind returns the list kind used as the sort store key.
func (p *Pipeline[T, K]) Kind() string {
	return p.kind
}

// Columns returns the sortable columns.
func (p *Pipeline[T, K]) Columns() Columns[T] {
	return p.columns
}

func (p *Pipeline[T, K]) recompute() {
	p.sorted = Sort(p.items, p.Sort(), p.columns)
	p.page = Paginate(p.sorted, p.sizes.For(p.mode), p.requested)

	keys := make([]K, len(p.page.Items))
	for i, item := range p.page.Items {
		keys[i] = p.key(item)
	}
	p.selection.Reconcile(keys)
}

func (p *Pipeline[T, K]) unknownColumn(name string) error {
	if s := p.columns.Suggest(name); s != "" {
		return fmt.Errorf("unknown sort column %q (did you mean %q?)", name, s)
	}
	return fmt.Errorf("unknown sort column %q", name)
}
