package gridterm

import "fmt"

// dispatch routes a complete escape sequence to its handler. Callers hold the
// write lock.
func (t *Terminal) dispatch(raw string) {
	seq := parseSequence(raw)

	switch seq.kind {
	case seqCSI:
		t.handleCSI(&seq)
	case seqOSC:
		t.handleOSC(&seq)
	case seqDCS:
		t.logger.Debug("ignoring DCS sequence", "payload", seq.payload)
	case seqDEC:
		t.handleDECSpecial(&seq)
	default:
		t.handleSimple(&seq)
	}
}

func (t *Terminal) handleCSI(seq *sequence) {
	switch seq.final {
	case 'A': // CUU
		t.moveCursorUp(seq.paramCount(0))

	case 'B': // CUD
		t.moveCursorDown(seq.paramCount(0))

	case 'C': // CUF
		t.cursor.Col = min(t.cursor.Col+seq.paramCount(0), t.cols-1)

	case 'D': // CUB
		t.cursor.Col = max(t.cursor.Col-seq.paramCount(0), 0)

	case 'H', 'f': // CUP / HVP
		t.setCursorPosition(seq.param(0, 1)-1, seq.param(1, 1)-1)

	case 'G': // CHA
		t.cursor.Col = clamp(seq.param(0, 1)-1, 0, t.cols-1)

	case 'd': // VPA
		t.cursor.Row = clamp(seq.param(0, 1)-1, 0, t.rows-1)

	case 'J':
		t.eraseInDisplay(seq.param(0, 0))

	case 'K':
		t.eraseInLine(seq.param(0, 0))

	case '@': // ICH
		t.buffer.InsertBlanks(t.cursor.Row, t.cursor.Col, seq.paramCount(0), t.style)

	case 'P': // DCH
		t.buffer.DeleteChars(t.cursor.Row, t.cursor.Col, seq.paramCount(0), t.style)

	case 'L': // IL
		t.insertLines(seq.paramCount(0))

	case 'M': // DL
		t.deleteLines(seq.paramCount(0))

	case 'X': // ECH
		n := seq.paramCount(0)
		t.buffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cursor.Col+n, t.style)

	case 'S': // SU
		top, bottom := t.regionBounds()
		t.buffer.ScrollUp(top, bottom, seq.paramCount(0), t.style)

	case 'T': // SD
		top, bottom := t.regionBounds()
		t.buffer.ScrollDown(top, bottom, seq.paramCount(0), t.style)

	case 'm':
		t.handleSGR(seq.params)

	case 'n':
		t.handleDeviceStatus(seq.param(0, 0))

	case 'c':
		t.handleDeviceAttributes(seq)

	case 'r':
		if seq.private {
			t.restorePrivateModes(seq.params)
		} else {
			t.setScrollRegion(seq)
		}

	case 's':
		if seq.private {
			t.savePrivateModes(seq.params)
		} else {
			t.saved = &SavedCursor{Row: t.cursor.Row, Col: t.cursor.Col}
		}

	case 'u':
		t.restoreCursor()

	case 'h':
		t.setModes(seq, true)

	case 'l':
		t.setModes(seq, false)

	case 'g': // TBC, tab stops are fixed at every 8 columns
		t.logger.Debug("ignoring tab clear", "param", seq.param(0, 0))

	case 't': // window operations
		t.logger.Debug("ignoring window operation", "params", seq.params)

	default:
		t.logger.Warn("unknown CSI sequence", "sequence", seq.raw)
	}
}

// moveCursorUp moves the cursor up, stopping at the scroll region top when the
// cursor starts inside the region, otherwise at the screen top.
func (t *Terminal) moveCursorUp(n int) {
	top, _ := t.regionBounds()
	limit := 0
	if t.cursor.Row >= top {
		limit = top
	}
	t.cursor.Row = max(t.cursor.Row-n, limit)
}

func (t *Terminal) moveCursorDown(n int) {
	_, bottom := t.regionBounds()
	limit := t.rows - 1
	if t.cursor.Row <= bottom {
		limit = bottom
	}
	t.cursor.Row = min(t.cursor.Row+n, limit)
}

func (t *Terminal) setCursorPosition(row, col int) {
	t.cursor.Row = clamp(row, 0, t.rows-1)
	t.cursor.Col = clamp(col, 0, t.cols-1)
}

func (t *Terminal) restoreCursor() {
	if t.saved == nil {
		return
	}
	t.setCursorPosition(t.saved.Row, t.saved.Col)
}

func (t *Terminal) insertLines(n int) {
	top, bottom := t.regionBounds()
	if t.cursor.Row < top || t.cursor.Row > bottom {
		return
	}
	t.buffer.ScrollDown(t.cursor.Row, bottom, n, t.style)
}

func (t *Terminal) deleteLines(n int) {
	top, bottom := t.regionBounds()
	if t.cursor.Row < top || t.cursor.Row > bottom {
		return
	}
	// Rows removed inside the region never reach scrollback.
	t.buffer.SetScrollbackPush(false)
	t.buffer.ScrollUp(t.cursor.Row, bottom, n, t.style)
	t.buffer.SetScrollbackPush(!t.usingAlternate)
}

func (t *Terminal) eraseInDisplay(mode int) {
	switch mode {
	case 0: // cursor to end of screen
		t.buffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cols, t.style)
		for row := t.cursor.Row + 1; row < t.rows; row++ {
			t.buffer.ClearRow(row, t.style)
		}
	case 1: // start of screen to cursor, inclusive
		for row := 0; row < t.cursor.Row; row++ {
			t.buffer.ClearRow(row, t.style)
		}
		t.buffer.ClearRowRange(t.cursor.Row, 0, t.cursor.Col+1, t.style)
	case 2:
		t.buffer.ClearAll(t.style)
	case 3: // scrollback, only reachable from the main screen
		if !t.usingAlternate {
			t.scrollback.Clear()
		}
	default:
		t.logger.Warn("unknown erase display mode", "mode", mode)
	}
}

func (t *Terminal) eraseInLine(mode int) {
	switch mode {
	case 0:
		t.buffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cols, t.style)
	case 1:
		t.buffer.ClearRowRange(t.cursor.Row, 0, t.cursor.Col+1, t.style)
	case 2:
		t.buffer.ClearRow(t.cursor.Row, t.style)
	default:
		t.logger.Warn("unknown erase line mode", "mode", mode)
	}
}

func (t *Terminal) handleSGR(params []int) {
	if len(params) == 0 {
		t.style = Style{}
		return
	}

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			t.style = Style{}
		case p == 1:
			t.style.Weight = WeightBold
		case p == 2:
			t.style.Weight = WeightFaint
		case p == 3:
			t.style.Italic = true
		case p == 4:
			t.style.Underline = true
		case p == 22:
			t.style.Weight = WeightDefault
		case p == 23:
			t.style.Italic = false
		case p == 24:
			t.style.Underline = false
		case p >= 30 && p <= 37:
			t.style.Fg = IndexedColor(uint8(p - 30))
		case p == 38:
			c, skip := parseExtendedColor(params[i+1:])
			if skip == 0 {
				t.logger.Warn("malformed extended foreground", "params", params)
				return
			}
			t.style.Fg = c
			i += skip
		case p == 39:
			t.style.Fg = Color{}
		case p >= 40 && p <= 47:
			t.style.Bg = IndexedColor(uint8(p - 40))
		case p == 48:
			c, skip := parseExtendedColor(params[i+1:])
			if skip == 0 {
				t.logger.Warn("malformed extended background", "params", params)
				return
			}
			t.style.Bg = c
			i += skip
		case p == 49:
			t.style.Bg = Color{}
		case p >= 90 && p <= 97: // bright foreground
			t.style.Fg = IndexedColor(uint8(p - 90 + 8))
		case p >= 100 && p <= 107: // bright background
			t.style.Bg = IndexedColor(uint8(p - 100 + 8))
		default:
			t.logger.Warn("unknown SGR parameter", "param", p)
		}
	}
}

// parseExtendedColor decodes the tail of a 38/48 SGR parameter list. It
// returns the color and how many parameters were consumed, 0 on a malformed
// list.
func parseExtendedColor(params []int) (Color, int) {
	if len(params) >= 2 && params[0] == 5 {
		return IndexedColor(uint8(clamp(params[1], 0, 255))), 2
	}
	if len(params) >= 4 && params[0] == 2 {
		r := uint8(clamp(params[1], 0, 255))
		g := uint8(clamp(params[2], 0, 255))
		b := uint8(clamp(params[3], 0, 255))
		return RGBColor(r, g, b), 4
	}
	return Color{}, 0
}

func (t *Terminal) handleDeviceStatus(mode int) {
	switch mode {
	case 5: // operating status, report OK
		t.send("\x1b[0n")
	case 6: // cursor position report, 1-based
		t.send(fmt.Sprintf("\x1b[%d;%dR", t.cursor.Row+1, t.cursor.Col+1))
	default:
		t.logger.Warn("unknown device status request", "mode", mode)
	}
}

func (t *Terminal) handleDeviceAttributes(seq *sequence) {
	if seq.prefix == '>' { // secondary DA, report as VT220
		t.send("\x1b[>1;10;0c")
		return
	}
	if seq.param(0, 0) == 0 { // primary DA, VT100 with advanced video
		t.send("\x1b[?1;2c")
	}
}

func (t *Terminal) setScrollRegion(seq *sequence) {
	if len(seq.params) == 0 {
		t.region = nil
		return
	}

	top := seq.param(0, 1) - 1
	bottom := seq.param(1, t.rows) - 1
	if seq.param(1, 0) == 0 {
		bottom = t.rows - 1
	}

	top = clamp(top, 0, t.rows-1)
	bottom = clamp(bottom, 0, t.rows-1)
	if top >= bottom {
		t.logger.Warn("ignoring invalid scroll region", "top", top, "bottom", bottom)
		return
	}

	if top == 0 && bottom == t.rows-1 {
		t.region = nil
		return
	}
	t.region = &scrollRegion{top: top, bottom: bottom}
}

// savePrivateModes stores the current value of each listed private mode
// (XTSAVE, CSI ? Pm s).
func (t *Terminal) savePrivateModes(params []int) {
	for _, p := range params {
		t.savedPrivateModes[p] = t.privateModeValue(p)
	}
}

// restorePrivateModes re-applies saved private mode values (XTRESTORE,
// CSI ? Pm r). Modes never saved are left untouched.
func (t *Terminal) restorePrivateModes(params []int) {
	for _, p := range params {
		v, ok := t.savedPrivateModes[p]
		if !ok {
			continue
		}
		t.setPrivateMode(p, v)
	}
}

func (t *Terminal) privateModeValue(mode int) bool {
	switch mode {
	case 1:
		return t.modes.Has(ModeCursorKeys)
	case 7:
		return t.modes.Has(ModeAutoWrap)
	case 25:
		return t.cursor.Visible
	case 1000, 1001:
		return t.modes.Has(ModeMouseTracking)
	case 1002:
		return t.modes.Has(ModeMouseButtons)
	case 1006:
		return t.modes.Has(ModeMouseSGR)
	case 1049:
		return t.usingAlternate
	case 2004:
		return t.modes.Has(ModeBracketedPaste)
	default:
		return false
	}
}

func (t *Terminal) setModes(seq *sequence, enable bool) {
	for _, p := range seq.params {
		if seq.private {
			t.setPrivateMode(p, enable)
		} else {
			t.setANSIMode(p, enable)
		}
	}
}

func (t *Terminal) setPrivateMode(mode int, enable bool) {
	switch mode {
	case 1: // DECCKM, application cursor keys
		t.modes = t.modes.with(ModeCursorKeys, enable)
	case 7: // DECAWM
		t.modes = t.modes.with(ModeAutoWrap, enable)
	case 12: // cursor blink
		t.logger.Debug("ignoring cursor blink mode", "enable", enable)
	case 25: // DECTCEM
		t.modes = t.modes.with(ModeShowCursor, enable)
		t.cursor.Visible = enable
	case 1000, 1001: // mouse click tracking
		t.modes = t.modes.with(ModeMouseTracking, enable)
	case 1002: // mouse button-motion tracking
		t.modes = t.modes.with(ModeMouseTracking, enable)
		t.modes = t.modes.with(ModeMouseButtons, enable)
	case 1006: // SGR mouse encoding
		t.modes = t.modes.with(ModeMouseSGR, enable)
	case 1049: // alternate screen
		t.switchBuffer(enable)
	case 2004: // bracketed paste
		t.modes = t.modes.with(ModeBracketedPaste, enable)
	default:
		t.logger.Warn("unknown private mode", "mode", mode, "enable", enable)
	}
}

func (t *Terminal) setANSIMode(mode int, enable bool) {
	switch mode {
	case 4: // IRM, insert mode
		t.modes = t.modes.with(ModeInsert, enable)
	case 20: // LNM, automatic newline
		t.logger.Debug("ignoring automatic newline mode", "enable", enable)
	default:
		t.logger.Warn("unknown ANSI mode", "mode", mode, "enable", enable)
	}
}

func (t *Terminal) handleOSC(seq *sequence) {
	code, rest := splitOSC(seq.payload)

	switch code {
	case "0", "2": // window title (0 also sets the icon name)
		t.title = rest
		t.pendingTitles = append(t.pendingTitles, rest)

	case "1": // icon name only
		// ignored

	case "7": // working directory notification
		if rest == "f" {
			if t.workingDir != "" {
				t.send("\x1b]7;" + t.workingDir + "\x1b\\")
			}
			return
		}
		t.workingDir = rest

	case "10", "11":
		t.logger.Debug("ignoring color query/set", "code", code, "param", rest)

	case "52":
		t.logger.Debug("ignoring clipboard operation", "param", rest)

	default:
		t.logger.Warn("unknown OSC sequence", "sequence", seq.raw)
	}
}

func splitOSC(payload string) (code, rest string) {
	for i := 0; i < len(payload); i++ {
		if payload[i] == ';' {
			return payload[:i], payload[i+1:]
		}
	}
	return payload, ""
}

// handleDECSpecial dispatches ESC # sequences (DEC line/screen attributes).
func (t *Terminal) handleDECSpecial(seq *sequence) {
	switch seq.final {
	case '8': // DECALN, fill the screen with the alignment pattern
		for row := 0; row < t.rows; row++ {
			for col := 0; col < t.cols; col++ {
				t.buffer.SetCell(row, col, Cell{Rune: 'E'})
			}
		}
	default:
		t.logger.Warn("unknown DEC special sequence", "sequence", seq.raw)
	}
}

func (t *Terminal) handleSimple(seq *sequence) {
	switch seq.final {
	case '7': // DECSC
		t.saved = &SavedCursor{Row: t.cursor.Row, Col: t.cursor.Col}

	case '8': // DECRC
		t.restoreCursor()

	case 'D': // IND
		t.lineFeed()

	case 'M': // RI
		t.reverseIndex()

	case 'E': // NEL
		t.cursor.Col = 0
		t.lineFeed()

	case 'H': // HTS, tab stops are fixed at every 8 columns
		t.logger.Debug("ignoring set tab stop")

	case 'c': // RIS
		t.fullReset()

	case '=': // DECKPAM
		t.modes = t.modes.with(ModeKeypadApplication, true)

	case '>': // DECKPNM
		t.modes = t.modes.with(ModeKeypadApplication, false)

	case '\\': // stray ST
		// ignored

	default:
		t.logger.Warn("unknown escape sequence", "sequence", seq.raw)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
