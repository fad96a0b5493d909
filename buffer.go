package gridterm

// Buffer stores the rows x cols cell grid. It owns no cursor and performs no
// parsing; all addressing is clamped so callers can pass unchecked values.
//
// Invariant: the grid always holds exactly rows rows of exactly cols cells.
// Resizing pads with blanks or truncates per physical row, never leaving a
// ragged edge.
type Buffer struct {
	rows  int
	cols  int
	cells [][]Cell

	scrollback  ScrollbackProvider
	pushEnabled bool

	dirty bool
}

// NewBuffer creates a buffer with the given dimensions and no scrollback.
// Dimensions below 1 are raised to 1.
func NewBuffer(rows, cols int) *Buffer {
	return NewBufferWithStorage(rows, cols, NoopScrollback{})
}

// NewBufferWithStorage creates a buffer whose scrolled-off top lines are
// pushed to storage.
func NewBufferWithStorage(rows, cols int, storage ScrollbackProvider) *Buffer {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	b := &Buffer{
		rows:        rows,
		cols:        cols,
		cells:       make([][]Cell, rows),
		scrollback:  storage,
		pushEnabled: true,
	}
	for i := range b.cells {
		b.cells[i] = newBlankRow(cols, Style{})
	}

	return b
}

func newBlankRow(cols int, style Style) []Cell {
	row := make([]Cell, cols)
	blank := blankCell(style)
	for i := range row {
		row[i] = blank
	}
	return row
}

// Rows returns the buffer height in character rows.
func (b *Buffer) Rows() int {
	return b.rows
}

// Cols returns the buffer width in character columns.
func (b *Buffer) Cols() int {
	return b.cols
}

// Cell returns a pointer to the cell at (row, col), or nil if out of bounds.
func (b *Buffer) Cell(row, col int) *Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return nil
	}
	return &b.cells[row][col]
}

// SetCell replaces the cell at (row, col). Out-of-bounds writes are dropped.
func (b *Buffer) SetCell(row, col int, cell Cell) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return
	}
	b.cells[row][col] = cell
	b.dirty = true
}

// ClearRow fills an entire row with style's blank.
func (b *Buffer) ClearRow(row int, style Style) {
	b.ClearRowRange(row, 0, b.cols, style)
}

// ClearRowRange fills cells [startCol, endCol) of a row with style's blank.
func (b *Buffer) ClearRowRange(row, startCol, endCol int, style Style) {
	if row < 0 || row >= b.rows {
		return
	}
	if startCol < 0 {
		startCol = 0
	}
	if endCol > b.cols {
		endCol = b.cols
	}
	blank := blankCell(style)
	for col := startCol; col < endCol; col++ {
		b.cells[row][col] = blank
	}
	b.dirty = true
}

// ClearAll fills the whole grid with style's blank.
func (b *Buffer) ClearAll(style Style) {
	for row := 0; row < b.rows; row++ {
		b.ClearRow(row, style)
	}
}

// ScrollUp shifts rows [top, bottom] (inclusive) up by n. The vacated bottom
// rows are filled with style's blank. When the region starts at the first row,
// the lines scrolled off are pushed to scrollback (if push is enabled).
func (b *Buffer) ScrollUp(top, bottom, n int, style Style) {
	if top < 0 {
		top = 0
	}
	if bottom >= b.rows {
		bottom = b.rows - 1
	}
	if n <= 0 || top > bottom {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}

	if b.pushEnabled && top == 0 && b.scrollback != nil {
		for i := 0; i < n; i++ {
			b.scrollback.Push(b.cells[top+i])
		}
	}

	for row := top; row+n <= bottom; row++ {
		b.cells[row] = b.cells[row+n]
	}
	for row := bottom - n + 1; row <= bottom; row++ {
		b.cells[row] = newBlankRow(b.cols, style)
	}
	b.dirty = true
}

// ScrollDown shifts rows [top, bottom] (inclusive) down by n. The vacated top
// rows are filled with style's blank.
func (b *Buffer) ScrollDown(top, bottom, n int, style Style) {
	if top < 0 {
		top = 0
	}
	if bottom >= b.rows {
		bottom = b.rows - 1
	}
	if n <= 0 || top > bottom {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}

	for row := bottom; row-n >= top; row-- {
		b.cells[row] = b.cells[row-n]
	}
	for row := top; row < top+n; row++ {
		b.cells[row] = newBlankRow(b.cols, style)
	}
	b.dirty = true
}

// InsertBlanks inserts n blank cells at (row, col), shifting the rest of the
// line right. Content pushed past the last column is lost.
func (b *Buffer) InsertBlanks(row, col, n int, style Style) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}
	if n > b.cols-col {
		n = b.cols - col
	}

	line := b.cells[row]
	copy(line[col+n:], line[col:b.cols-n])
	blank := blankCell(style)
	for c := col; c < col+n; c++ {
		line[c] = blank
	}
	b.dirty = true
}

// DeleteChars removes n cells at (row, col), shifting the rest of the line
// left and filling the end with style's blank.
func (b *Buffer) DeleteChars(row, col, n int, style Style) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}
	if n > b.cols-col {
		n = b.cols - col
	}

	line := b.cells[row]
	copy(line[col:], line[col+n:])
	blank := blankCell(style)
	for c := b.cols - n; c < b.cols; c++ {
		line[c] = blank
	}
	b.dirty = true
}

// Resize changes the buffer dimensions. Every existing row is padded with
// blanks or truncated to the new width; rows are added at or removed from the
// bottom. No rewrap of logical lines is attempted.
func (b *Buffer) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == b.rows && cols == b.cols {
		return
	}

	newCells := make([][]Cell, rows)
	for i := range newCells {
		row := newBlankRow(cols, Style{})
		if i < b.rows {
			copy(row, b.cells[i])
		}
		newCells[i] = row
	}

	b.cells = newCells
	b.rows = rows
	b.cols = cols
	b.dirty = true
}

// SetScrollbackPush enables or disables pushing scrolled-off lines to
// scrollback. Disabled while the alternate screen is active.
func (b *Buffer) SetScrollbackPush(enabled bool) {
	b.pushEnabled = enabled
}

// SetScrollbackProvider replaces the scrollback storage.
func (b *Buffer) SetScrollbackProvider(storage ScrollbackProvider) {
	b.scrollback = storage
}

// ScrollbackProvider returns the current scrollback storage.
func (b *Buffer) ScrollbackProvider() ScrollbackProvider {
	return b.scrollback
}

// takeDirty reports whether the grid changed since the last call and resets
// the flag.
func (b *Buffer) takeDirty() bool {
	d := b.dirty
	b.dirty = false
	return d
}

// snapshotRows returns a deep copy of the cell grid.
func (b *Buffer) snapshotRows() [][]Cell {
	rows := make([][]Cell, b.rows)
	for i := range rows {
		rows[i] = make([]Cell, b.cols)
		copy(rows[i], b.cells[i])
	}
	return rows
}

// restoreRows replaces the grid content from a snapshot, padding or truncating
// each row to the current dimensions.
func (b *Buffer) restoreRows(saved [][]Cell) {
	for i := 0; i < b.rows; i++ {
		row := newBlankRow(b.cols, Style{})
		if i < len(saved) {
			copy(row, saved[i])
		}
		b.cells[i] = row
	}
	b.dirty = true
}

// LineContent returns the text of a row with trailing blanks trimmed.
// Wide-character spacer cells are skipped.
func (b *Buffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}

	lastNonBlank := -1
	for col := b.cols - 1; col >= 0; col-- {
		cell := &b.cells[row][col]
		if cell.Rune != ' ' && cell.Rune != 0 && !cell.IsWideSpacer() {
			lastNonBlank = col
			break
		}
	}
	if lastNonBlank < 0 {
		return ""
	}

	runes := make([]rune, 0, lastNonBlank+1)
	for col := 0; col <= lastNonBlank; col++ {
		cell := &b.cells[row][col]
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Rune == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, cell.Rune)
		}
	}

	return string(runes)
}
