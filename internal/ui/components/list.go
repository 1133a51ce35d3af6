package components

// List is a scrollable list with a cursor and a fixed window of visible rows.
type List struct {
	Items    []string
	Cursor   int
	Offset   int
	PageSize int
}

// NewList creates a list showing pageSize rows at a time.
func NewList(pageSize int) *List {
	if pageSize < 1 {
		pageSize = 1
	}
	return &List{PageSize: pageSize}
}

// SetItems replaces items and moves back to the top.
func (l *List) SetItems(items []string) {
	l.Items = items
	l.Cursor = 0
	l.Offset = 0
}

// Refresh replaces items but keeps the cursor and scroll position, clamped to
// the new length. Appending a page or rewriting one row must not jump the view.
func (l *List) Refresh(items []string) {
	l.Items = items
	l.clamp()
}

// Resize changes the visible window and keeps the cursor on screen.
func (l *List) Resize(pageSize int) {
	if pageSize < 1 {
		pageSize = 1
	}
	l.PageSize = pageSize
	l.clamp()
}

func (l *List) clamp() {
	n := len(l.Items)
	if n == 0 {
		l.Cursor, l.Offset = 0, 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), n-1)
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+l.PageSize {
		l.Offset = l.Cursor - l.PageSize + 1
	}
	l.Offset = min(max(l.Offset, 0), max(n-l.PageSize, 0))
}

// Down moves the cursor down one row.
func (l *List) Down() {
	if l.Cursor < len(l.Items)-1 {
		l.Cursor++
		if l.Cursor >= l.Offset+l.PageSize {
			l.Offset++
		}
	}
}

// Up moves the cursor up one row.
func (l *List) Up() {
	if l.Cursor > 0 {
		l.Cursor--
		if l.Cursor < l.Offset {
			l.Offset--
		}
	}
}

// Top jumps to the first row.
func (l *List) Top() {
	l.Cursor, l.Offset = 0, 0
}

// Bottom jumps to the last row.
func (l *List) Bottom() {
	l.Cursor = len(l.Items) - 1
	l.clamp()
}

// NearEnd reports whether the cursor is within threshold rows of the last item.
func (l *List) NearEnd(threshold int) bool {
	if len(l.Items) == 0 {
		return false
	}
	return l.Cursor >= len(l.Items)-1-threshold
}

// Visible returns the rows inside the window.
func (l *List) Visible() []string {
	if len(l.Items) == 0 {
		return nil
	}
	end := min(l.Offset+l.PageSize, len(l.Items))
	return l.Items[l.Offset:end]
}

// Selected returns the cursor index.
func (l *List) Selected() int {
	return l.Cursor
}

// IsSelected reports whether absIdx is under the cursor.
func (l *List) IsSelected(absIdx int) bool {
	return absIdx == l.Cursor
}

// RelToAbs converts a visible row index to an item index.
func (l *List) RelToAbs(relIdx int) int {
	return l.Offset + relIdx
}
