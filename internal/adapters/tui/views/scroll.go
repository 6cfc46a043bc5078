package views

// Scroller keeps a cursor inside a window of rows that scrolls with it
type Scroller struct {
	height int
	offset int
	cursor int
	total  int
}

// NewScroller creates a scroller showing height rows at a time
func NewScroller(height int) *Scroller {
	s := &Scroller{}
	s.SetHeight(height)
	return s
}

// SetHeight changes the number of visible rows
func (s *Scroller) SetHeight(height int) {
	if height <= 0 {
		height = 10
	}
	s.height = height
	s.follow()
}

// SetTotal sets the number of rows and clamps the cursor
func (s *Scroller) SetTotal(total int) {
	s.total = total
	s.SetCursor(s.cursor)
}

// Cursor returns the absolute cursor row
func (s *Scroller) Cursor() int {
	return s.cursor
}

// SetCursor moves the cursor to pos, clamped to the rows
func (s *Scroller) SetCursor(pos int) {
	if pos >= s.total {
		pos = s.total - 1
	}
	if pos < 0 {
		pos = 0
	}
	s.cursor = pos
	s.follow()
}

// Up moves the cursor one row up
func (s *Scroller) Up() bool {
	if s.cursor == 0 {
		return false
	}
	s.SetCursor(s.cursor - 1)
	return true
}

// Down moves the cursor one row down
func (s *Scroller) Down() bool {
	if s.cursor >= s.total-1 {
		return false
	}
	s.SetCursor(s.cursor + 1)
	return true
}

// PageUp moves the cursor one window up
func (s *Scroller) PageUp() {
	s.SetCursor(s.cursor - s.height)
}

// PageDown moves the cursor one window down
func (s *Scroller) PageDown() {
	s.SetCursor(s.cursor + s.height)
}

// VisibleRange returns the half-open range of rows to render
func (s *Scroller) VisibleRange() (start, end int) {
	return s.offset, min(s.offset+s.height, s.total)
}

func (s *Scroller) follow() {
	switch {
	case s.cursor < s.offset:
		s.offset = s.cursor
	case s.cursor >= s.offset+s.height:
		s.offset = s.cursor - s.height + 1
	}
	if maxOffset := max(s.total-s.height, 0); s.offset > maxOffset {
		s.offset = maxOffset
	}
}
