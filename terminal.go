package gridterm

import (
	"log/slog"
	"strings"
	"sync"
)

// TerminalMode is a bitmask of terminal behavior flags toggled by escape
// sequences.
type TerminalMode uint32

const (
	// ModeCursorKeys makes arrow keys send application sequences (ESC O A).
	ModeCursorKeys TerminalMode = 1 << iota
	// ModeKeypadApplication makes the numeric keypad send application codes.
	ModeKeypadApplication
	// ModeAutoWrap wraps the cursor to the next line at the right margin.
	ModeAutoWrap
	// ModeInsert shifts existing characters right instead of overwriting.
	ModeInsert
	// ModeShowCursor makes the cursor visible.
	ModeShowCursor
	// ModeBracketedPaste wraps pasted text in ESC [200~ / ESC [201~ markers.
	ModeBracketedPaste
	// ModeMouseTracking reports mouse button presses and releases.
	ModeMouseTracking
	// ModeMouseButtons also reports motion while a button is held.
	ModeMouseButtons
	// ModeMouseSGR encodes mouse reports in the SGR extended format.
	ModeMouseSGR
)

const defaultModes = ModeAutoWrap | ModeShowCursor

// Has reports whether all bits of mode are set.
func (m TerminalMode) Has(mode TerminalMode) bool {
	return m&mode == mode
}

func (m TerminalMode) with(mode TerminalMode, enable bool) TerminalMode {
	if enable {
		return m | mode
	}
	return m &^ mode
}

// scrollRegion holds DECSTBM margins, both rows inclusive.
type scrollRegion struct {
	top    int
	bottom int
}

// savedScreen holds the main screen while the alternate screen is active.
type savedScreen struct {
	cells  [][]Cell
	cursor Cursor
	region *scrollRegion
}

// Terminal is a headless ANSI/VT100 terminal emulator. Bytes written to it
// are parsed into a cell grid that can be inspected, snapshotted, or rendered.
// All methods are safe for concurrent use.
type Terminal struct {
	mu sync.RWMutex

	rows int
	cols int

	buffer *Buffer
	cursor *Cursor
	saved  *SavedCursor
	style  Style
	region *scrollRegion

	modes             TerminalMode
	savedPrivateModes map[int]bool

	usingAlternate bool
	savedMain      *savedScreen

	title      string
	workingDir string
	theme      Theme

	inEscape bool
	escape   []rune
	pending  []byte

	// Provider events raised while the write lock is held, delivered by
	// Write after unlock so callbacks may call back into the terminal.
	pendingTitles []string
	pendingBells  int

	logger *slog.Logger

	response   ResponseProvider
	bell       BellProvider
	titleProv  TitleProvider
	change     ChangeProvider
	scrollback ScrollbackProvider
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithSize sets the initial dimensions. The default is 24x80.
func WithSize(rows, cols int) Option {
	return func(t *Terminal) {
		if rows > 0 {
			t.rows = rows
		}
		if cols > 0 {
			t.cols = cols
		}
	}
}

// WithResponse sets the writer that receives terminal query replies and
// encoded input. Usually the write side of the PTY.
func WithResponse(w ResponseProvider) Option {
	return func(t *Terminal) { t.response = w }
}

// WithScrollback sets the scrollback storage. The default discards lines.
func WithScrollback(s ScrollbackProvider) Option {
	return func(t *Terminal) { t.scrollback = s }
}

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Terminal) { t.logger = l }
}

// WithTheme sets the color theme used to resolve cell colors.
func WithTheme(theme Theme) Option {
	return func(t *Terminal) { t.theme = theme }
}

// WithBell sets the bell event handler.
func WithBell(b BellProvider) Option {
	return func(t *Terminal) { t.bell = b }
}

// WithTitle sets the window title change handler.
func WithTitle(p TitleProvider) Option {
	return func(t *Terminal) { t.titleProv = p }
}

// WithChange sets the content/size change notification handler.
func WithChange(c ChangeProvider) Option {
	return func(t *Terminal) { t.change = c }
}

// New creates a terminal with the given options.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		rows:              24,
		cols:              80,
		modes:             defaultModes,
		savedPrivateModes: make(map[int]bool),
		theme:             DefaultTheme(),
		logger:            slog.New(slog.DiscardHandler),
		response:          NoopResponse{},
		bell:              NoopBell{},
		titleProv:         NoopTitle{},
		change:            NoopChange{},
		scrollback:        NoopScrollback{},
	}

	for _, opt := range opts {
		opt(t)
	}

	t.buffer = NewBufferWithStorage(t.rows, t.cols, t.scrollback)
	t.cursor = NewCursor()

	return t
}

// Write feeds bytes from the application (the PTY read side) into the
// emulator. It always consumes the full slice and never fails; malformed
// input is logged and skipped. Escape sequences and UTF-8 runes split across
// calls are reassembled.
func (t *Terminal) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	t.decodeAndProcess(p)
	dirty := t.buffer.takeDirty()
	titles := t.pendingTitles
	bells := t.pendingBells
	t.pendingTitles = nil
	t.pendingBells = 0
	t.mu.Unlock()

	for i := 0; i < bells; i++ {
		t.bell.Ring()
	}
	for _, title := range titles {
		t.titleProv.SetTitle(title)
	}
	if dirty {
		t.change.ContentChanged()
	}
	return len(p), nil
}

// WriteString feeds a string into the emulator.
func (t *Terminal) WriteString(s string) (n int, err error) {
	return t.Write([]byte(s))
}

// writeRune applies one decoded rune outside any escape sequence.
func (t *Terminal) writeRune(r rune) {
	switch r {
	case '\r':
		t.cursor.Col = 0
		return
	case '\n', '\v', '\f':
		t.lineFeed()
		return
	case '\b':
		t.cursor.Col = max(t.cursor.Col-1, 0)
		return
	case '\t':
		next := (t.cursor.Col/8 + 1) * 8
		if next < t.cols {
			t.cursor.Col = next
		}
		return
	case '\a':
		t.pendingBells++
		return
	}
	if r < 0x20 || r == 0x7f {
		return
	}

	width := runeWidth(r)
	if width == 0 {
		// Combining marks need the cell to the left; standalone ones are
		// dropped.
		return
	}

	if width == 2 && t.cursor.Col == t.cols-1 {
		// A wide character cannot straddle the margin.
		if !t.modes.Has(ModeAutoWrap) {
			t.cursor.Col = max(t.cols-2, 0)
		} else {
			t.buffer.SetCell(t.cursor.Row, t.cursor.Col, blankCell(t.style))
			t.cursor.Col = 0
			t.lineFeed()
		}
	}

	if t.modes.Has(ModeInsert) {
		t.buffer.InsertBlanks(t.cursor.Row, t.cursor.Col, width, t.style)
	}

	cell := Cell{Rune: r, Style: t.style}
	if width == 2 {
		cell.Flags = CellFlagWide
	}
	t.buffer.SetCell(t.cursor.Row, t.cursor.Col, cell)
	if width == 2 {
		spacer := Cell{Rune: ' ', Style: t.style, Flags: CellFlagWideSpacer}
		t.buffer.SetCell(t.cursor.Row, t.cursor.Col+1, spacer)
	}

	t.cursor.Col += width
	if t.cursor.Col >= t.cols {
		if t.modes.Has(ModeAutoWrap) {
			t.cursor.Col = 0
			t.lineFeed()
		} else {
			t.cursor.Col = t.cols - 1
		}
	}
}

// regionBounds returns the active scroll region rows, both inclusive, or the
// full screen when no region is set.
func (t *Terminal) regionBounds() (top, bottom int) {
	if t.region != nil {
		return t.region.top, t.region.bottom
	}
	return 0, t.rows - 1
}

// lineFeed moves the cursor down one row, scrolling the region when the
// cursor sits on its bottom row.
func (t *Terminal) lineFeed() {
	_, bottom := t.regionBounds()
	if t.cursor.Row == bottom {
		top, _ := t.regionBounds()
		t.buffer.ScrollUp(top, bottom, 1, t.style)
		return
	}
	if t.cursor.Row < t.rows-1 {
		t.cursor.Row++
	}
}

// reverseIndex moves the cursor up one row, scrolling the region down when
// the cursor sits on its top row.
func (t *Terminal) reverseIndex() {
	top, bottom := t.regionBounds()
	if t.cursor.Row == top {
		t.buffer.ScrollDown(top, bottom, 1, t.style)
		return
	}
	if t.cursor.Row > 0 {
		t.cursor.Row--
	}
}

// switchBuffer enters or leaves the alternate screen (DECSET/DECRST 1049).
// The main screen content, cursor, and scroll region are saved on entry and
// restored verbatim on exit. Scrollback never accumulates while the alternate
// screen is active.
func (t *Terminal) switchBuffer(alternate bool) {
	if alternate == t.usingAlternate {
		return
	}

	if alternate {
		t.savedMain = &savedScreen{
			cells:  t.buffer.snapshotRows(),
			cursor: *t.cursor,
			region: t.region,
		}
		t.buffer.SetScrollbackPush(false)
		t.buffer.ClearAll(Style{})
		t.cursor.Row, t.cursor.Col = 0, 0
		t.region = nil
		t.usingAlternate = true
		return
	}

	t.usingAlternate = false
	t.buffer.SetScrollbackPush(true)
	if t.savedMain != nil {
		t.buffer.restoreRows(t.savedMain.cells)
		t.cursor.Row = clamp(t.savedMain.cursor.Row, 0, t.rows-1)
		t.cursor.Col = clamp(t.savedMain.cursor.Col, 0, t.cols-1)
		// A resize while on the alternate screen may have invalidated the
		// saved region.
		t.region = t.savedMain.region
		if t.region != nil {
			t.region.bottom = min(t.region.bottom, t.rows-1)
			if t.region.top >= t.region.bottom {
				t.region = nil
			}
		}
		t.savedMain = nil
	}
}

// fullReset restores the power-on state (ESC c). The grid and scrollback are
// cleared and all modes return to their defaults. The title and working
// directory are kept.
func (t *Terminal) fullReset() {
	t.buffer.SetScrollbackPush(true)
	t.buffer.ClearAll(Style{})
	t.scrollback.Clear()
	t.cursor.Row, t.cursor.Col = 0, 0
	t.cursor.Visible = true
	t.saved = nil
	t.style = Style{}
	t.region = nil
	t.modes = defaultModes
	t.savedPrivateModes = make(map[int]bool)
	t.usingAlternate = false
	t.savedMain = nil
	t.inEscape = false
	t.escape = t.escape[:0]
	t.pending = nil
}

// send writes a reply to the response provider.
func (t *Terminal) send(s string) {
	if _, err := t.response.Write([]byte(s)); err != nil {
		t.logger.Warn("response write failed", "error", err)
	}
}

// Resize changes the terminal dimensions. Rows are added at or removed from
// the bottom; no rewrap is attempted. The cursor is clamped into the new
// bounds and a scroll region that no longer fits is cleared.
func (t *Terminal) Resize(rows, cols int) {
	t.mu.Lock()
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows == t.rows && cols == t.cols {
		t.mu.Unlock()
		return
	}

	t.buffer.Resize(rows, cols)
	t.rows = rows
	t.cols = cols

	t.cursor.Row = clamp(t.cursor.Row, 0, rows-1)
	t.cursor.Col = clamp(t.cursor.Col, 0, cols-1)
	if t.saved != nil {
		t.saved.Row = clamp(t.saved.Row, 0, rows-1)
		t.saved.Col = clamp(t.saved.Col, 0, cols-1)
	}
	if t.region != nil {
		t.region.bottom = min(t.region.bottom, rows-1)
		if t.region.top >= t.region.bottom {
			t.region = nil
		}
	}
	t.buffer.takeDirty()
	t.mu.Unlock()

	t.change.SizeChanged(rows, cols)
	t.change.ContentChanged()
}

// Rows returns the terminal height in character rows.
func (t *Terminal) Rows() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows
}

// Cols returns the terminal width in character columns.
func (t *Terminal) Cols() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cols
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() (rows, cols int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows, t.cols
}

// Cell returns a copy of the cell at (row, col). The zero Cell is returned
// for out-of-bounds coordinates.
func (t *Terminal) Cell(row, col int) Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := t.buffer.Cell(row, col)
	if c == nil {
		return Cell{}
	}
	return *c
}

// CursorPos returns the cursor position.
func (t *Terminal) CursorPos() Position {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Position{Row: t.cursor.Row, Col: t.cursor.Col}
}

// CursorVisible reports whether the cursor is shown (DECTCEM).
func (t *Terminal) CursorVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor.Visible
}

// Title returns the window title set via OSC 0/2.
func (t *Terminal) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// WorkingDirectory returns the directory reported via OSC 7.
func (t *Terminal) WorkingDirectory() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.workingDir
}

// HasMode reports whether the given mode flags are all set.
func (t *Terminal) HasMode(mode TerminalMode) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes.Has(mode)
}

// IsAlternateScreen reports whether the alternate screen is active.
func (t *Terminal) IsAlternateScreen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.usingAlternate
}

// ScrollRegion returns the active scroll margins, both inclusive. Without an
// explicit region it covers the full screen.
func (t *Terminal) ScrollRegion() (top, bottom int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.regionBounds()
}

// Theme returns the active color theme.
func (t *Terminal) Theme() Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.theme
}

// SetTheme replaces the color theme. Cells with default colors pick up the
// new theme on the next render.
func (t *Terminal) SetTheme(theme Theme) {
	t.mu.Lock()
	t.theme = theme
	t.mu.Unlock()
	t.change.ContentChanged()
}

// Scrollback returns the scrollback storage.
func (t *Terminal) Scrollback() ScrollbackProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollback
}

// LineContent returns the text of a screen row with trailing blanks trimmed.
func (t *Terminal) LineContent(row int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.buffer.LineContent(row)
}

// String renders the screen as text, one line per row, trailing blanks
// trimmed.
func (t *Terminal) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sb strings.Builder
	for row := 0; row < t.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(t.buffer.LineContent(row))
	}
	return sb.String()
}
