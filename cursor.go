package gridterm

// Cursor tracks the write position in the grid (0-based coordinates).
// Engine operations keep it inside [0,rows)x[0,cols) at all times.
type Cursor struct {
	Row     int
	Col     int
	Visible bool
}

// NewCursor creates a visible cursor at the origin.
func NewCursor() *Cursor {
	return &Cursor{Visible: true}
}

// SavedCursor is the single DEC save/restore slot (ESC 7 / ESC 8).
// Saving again overwrites it; there is no stack.
type SavedCursor struct {
	Row int
	Col int
}

// Position identifies a cell location in the grid (0-based).
type Position struct {
	Row int
	Col int
}
