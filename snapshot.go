package gridterm

// Snapshot is a point-in-time copy of the visible screen, decoupled from the
// live terminal. Renderers can walk it without holding any lock.
type Snapshot struct {
	Rows          int
	Cols          int
	Cells         [][]Cell
	CursorRow     int
	CursorCol     int
	CursorVisible bool
	Title         string
	Theme         Theme
}

// Snapshot returns a consistent copy of the current screen state.
func (t *Terminal) Snapshot() *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return &Snapshot{
		Rows:          t.rows,
		Cols:          t.cols,
		Cells:         t.buffer.snapshotRows(),
		CursorRow:     t.cursor.Row,
		CursorCol:     t.cursor.Col,
		CursorVisible: t.cursor.Visible,
		Title:         t.title,
		Theme:         t.theme,
	}
}

// Cell returns the cell at (row, col), or the zero Cell out of bounds.
func (s *Snapshot) Cell(row, col int) Cell {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return Cell{}
	}
	return s.Cells[row][col]
}
