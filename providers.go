package gridterm

import "io"

// ResponseProvider receives the bytes the engine emits in reply to host
// queries (cursor position reports, device attributes) and for encoded key
// input sent through SendKey. Typically the write side of the PTY.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// --- Bell Provider ---

// BellProvider handles bell events triggered by BEL (0x07) bytes.
type BellProvider interface {
	// Ring is called when a bell character is received.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// --- Title Provider ---

// TitleProvider is notified of window title changes (OSC 0/2).
type TitleProvider interface {
	SetTitle(title string)
}

// NoopTitle ignores title changes.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}

// --- Change Provider ---

// ChangeProvider is notified when the grid content or dimensions change, so
// the host can re-render and renegotiate the PTY window size. Callbacks run
// outside the engine lock; it is safe to read the terminal from them.
type ChangeProvider interface {
	// ContentChanged is called after a Write or theme change mutated cells.
	ContentChanged()
	// SizeChanged is called after a resize took effect.
	SizeChanged(rows, cols int)
}

// NoopChange ignores all change notifications.
type NoopChange struct{}

func (NoopChange) ContentChanged()           {}
func (NoopChange) SizeChanged(rows, cols int) {}

// --- Scrollback Provider ---

// ScrollbackProvider stores lines scrolled off the top of the main screen.
// Implementations may keep them in memory, on disk, or nowhere.
type ScrollbackProvider interface {
	// Push appends a line. Implementations must copy; the engine reuses
	// row storage after scrolling.
	Push(line []Cell)
	// Len returns the number of stored lines.
	Len() int
	// Line returns the line at index, 0 being the oldest. Nil if out of range.
	Line(index int) []Cell
	// Clear removes all stored lines (ED 3).
	Clear()
	// SetMaxLines caps the stored line count, trimming oldest lines.
	SetMaxLines(max int)
	// MaxLines returns the current capacity, 0 meaning scrollback is off.
	MaxLines() int
}

// NoopScrollback discards all scrollback lines.
type NoopScrollback struct{}

func (NoopScrollback) Push(line []Cell)      {}
func (NoopScrollback) Len() int              { return 0 }
func (NoopScrollback) Line(index int) []Cell { return nil }
func (NoopScrollback) Clear()                {}
func (NoopScrollback) SetMaxLines(max int)   {}
func (NoopScrollback) MaxLines() int         { return 0 }

// MemoryScrollback keeps scrollback lines in memory with a capacity limit.
// The oldest lines are dropped once the limit is reached.
type MemoryScrollback struct {
	lines    [][]Cell
	maxLines int
}

// NewMemoryScrollback creates an in-memory scrollback store. A maxLines of 0
// means unlimited.
func NewMemoryScrollback(maxLines int) *MemoryScrollback {
	return &MemoryScrollback{maxLines: maxLines}
}

// Push appends a copy of the line, trimming the oldest line when full.
func (m *MemoryScrollback) Push(line []Cell) {
	lineCopy := make([]Cell, len(line))
	copy(lineCopy, line)
	m.lines = append(m.lines, lineCopy)

	if m.maxLines > 0 && len(m.lines) > m.maxLines {
		excess := len(m.lines) - m.maxLines
		m.lines = m.lines[excess:]
	}
}

// Len returns the number of stored lines.
func (m *MemoryScrollback) Len() int {
	return len(m.lines)
}

// Line returns the line at index, 0 being the oldest.
func (m *MemoryScrollback) Line(index int) []Cell {
	if index < 0 || index >= len(m.lines) {
		return nil
	}
	return m.lines[index]
}

// Clear removes all stored lines.
func (m *MemoryScrollback) Clear() {
	m.lines = nil
}

// SetMaxLines sets the capacity, trimming oldest lines if over it.
func (m *MemoryScrollback) SetMaxLines(max int) {
	m.maxLines = max
	if max > 0 && len(m.lines) > max {
		excess := len(m.lines) - max
		m.lines = m.lines[excess:]
	}
}

// MaxLines returns the current capacity.
func (m *MemoryScrollback) MaxLines() int {
	return m.maxLines
}

// Ensure implementations satisfy their interfaces
var _ ResponseProvider = NoopResponse{}
var _ BellProvider = NoopBell{}
var _ TitleProvider = NoopTitle{}
var _ ChangeProvider = NoopChange{}
var _ ScrollbackProvider = NoopScrollback{}
var _ ScrollbackProvider = (*MemoryScrollback)(nil)
