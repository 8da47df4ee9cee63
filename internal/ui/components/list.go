package components

// Cursor is the focused row of a list page, with a scroll window for pages
// taller than the terminal.
type Cursor struct {
	Index  int
	Offset int
	// Height is the number of visible rows. Zero shows every row.
	Height int
}

// Reset moves the cursor to the first row.
func (c *Cursor) Reset() {
	c.Index = 0
	c.Offset = 0
}

// Clamp keeps the cursor inside a page of n rows.
func (c *Cursor) Clamp(n int) {
	if n <= 0 {
		c.Reset()
		return
	}
	if c.Index >= n {
		c.Index = n - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
	c.follow()
}

// Down moves the cursor down within n rows.
func (c *Cursor) Down(n int) bool {
	if c.Index >= n-1 {
		return false
	}
	c.Index++
	c.follow()
	return true
}

// Up moves the cursor up.
func (c *Cursor) Up() bool {
	if c.Index <= 0 {
		return false
	}
	c.Index--
	c.follow()
	return true
}

// Window returns the visible row range [start, end) of n rows.
func (c *Cursor) Window(n int) (int, int) {
	if c.Height <= 0 || n <= c.Height {
		return 0, n
	}
	start := min(c.Offset, n-c.Height)
	return start, start + c.Height
}

func (c *Cursor) follow() {
	if c.Height <= 0 {
		c.Offset = 0
		return
	}
	if c.Index < c.Offset {
		c.Offset = c.Index
	}
	if c.Index >= c.Offset+c.Height {
		c.Offset = c.Index - c.Height + 1
	}
}
