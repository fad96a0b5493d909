package gridterm

import "fmt"

// Key identifies a non-text key. Printable input travels as KeyRune with the
// text in KeyEvent.Text.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyDelete
	KeyInsert
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifiers is a bitmask of modifier keys held during a key event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// KeyEvent describes one key press from the host UI.
type KeyEvent struct {
	Key    Key
	Text   string // printable text for KeyRune events
	Mod    Modifiers
	Keypad bool // set when the key came from the numeric keypad
}

// keypadApplication maps keypad characters to their DECKPAM final bytes.
var keypadApplication = map[rune]byte{
	'0': 'p', '1': 'q', '2': 'r', '3': 's', '4': 't',
	'5': 'u', '6': 'v', '7': 'w', '8': 'x', '9': 'y',
	'-': 'm', ',': 'l', '.': 'n', '+': 'k', '*': 'j', '/': 'o',
}

// ctrlDigits maps Ctrl+digit to its control byte.
var ctrlDigits = map[rune]byte{
	'2': 0x00, '3': 0x1b, '4': 0x1c, '5': 0x1d,
	'6': 0x1e, '7': 0x1f, '8': 0x7f,
}

// EncodeKey converts a key event to the byte sequence the application
// expects, honoring the application cursor key and keypad modes. It returns
// nil for keys that have no terminal encoding.
func (t *Terminal) EncodeKey(ev KeyEvent) []byte {
	t.mu.RLock()
	cursorApp := t.modes.Has(ModeCursorKeys)
	keypadApp := t.modes.Has(ModeKeypadApplication)
	t.mu.RUnlock()

	switch ev.Key {
	case KeyEnter:
		if ev.Keypad && keypadApp {
			return []byte{0x1b, 'O', 'M'}
		}
		return []byte{'\r'}
	case KeyTab:
		if ev.Mod.Has(ModShift) {
			return []byte("\x1b[Z")
		}
		return []byte{'\t'}
	case KeyBackspace:
		if ev.Mod.Has(ModCtrl) {
			return []byte{0x7f}
		}
		return []byte{'\b'}
	case KeyEscape:
		return []byte{0x1b}
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyUp:
		return arrowSequence('A', cursorApp)
	case KeyDown:
		return arrowSequence('B', cursorApp)
	case KeyRight:
		return arrowSequence('C', cursorApp)
	case KeyLeft:
		return arrowSequence('D', cursorApp)
	case KeyHome:
		return arrowSequence('H', cursorApp)
	case KeyEnd:
		return arrowSequence('F', cursorApp)
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5:
		return []byte("\x1b[15~")
	case KeyF6:
		return []byte("\x1b[17~")
	case KeyF7:
		return []byte("\x1b[18~")
	case KeyF8:
		return []byte("\x1b[19~")
	case KeyF9:
		return []byte("\x1b[20~")
	case KeyF10:
		return []byte("\x1b[21~")
	case KeyF11:
		return []byte("\x1b[23~")
	case KeyF12:
		return []byte("\x1b[24~")
	}

	if ev.Text == "" {
		return nil
	}

	if ev.Mod.Has(ModCtrl) {
		return encodeCtrl(ev.Text)
	}

	if ev.Keypad && keypadApp {
		runes := []rune(ev.Text)
		if len(runes) == 1 {
			if final, ok := keypadApplication[runes[0]]; ok {
				return []byte{0x1b, 'O', final}
			}
		}
	}

	if ev.Mod.Has(ModAlt) {
		return append([]byte{0x1b}, ev.Text...)
	}
	return []byte(ev.Text)
}

// Has reports whether all bits of mod are set.
func (m Modifiers) Has(mod Modifiers) bool {
	return m&mod == mod
}

func arrowSequence(final byte, application bool) []byte {
	if application {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

// encodeCtrl maps Ctrl+key to its control byte.
func encodeCtrl(text string) []byte {
	runes := []rune(text)
	if len(runes) != 1 {
		return []byte(text)
	}
	r := runes[0]
	switch {
	case r >= 'a' && r <= 'z':
		return []byte{byte(r - 'a' + 1)}
	case r >= 'A' && r <= 'Z':
		return []byte{byte(r - 'A' + 1)}
	case r == '[':
		return []byte{0x1b}
	case r == '\\':
		return []byte{0x1c}
	case r == ']':
		return []byte{0x1d}
	case r == ' ':
		return []byte{0x00}
	}
	if b, ok := ctrlDigits[r]; ok {
		return []byte{b}
	}
	return []byte(text)
}

// EncodePaste converts pasted text to the application byte stream, wrapping
// it in bracketed paste markers when that mode is on.
func (t *Terminal) EncodePaste(text string) []byte {
	t.mu.RLock()
	bracketed := t.modes.Has(ModeBracketedPaste)
	t.mu.RUnlock()

	if !bracketed {
		return []byte(text)
	}
	out := make([]byte, 0, len(text)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, text...)
	out = append(out, "\x1b[201~"...)
	return out
}

// MouseButton identifies the button in a mouse event.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEvent describes one mouse action at a grid position (0-based).
type MouseEvent struct {
	Button MouseButton
	Row    int
	Col    int
	Press  bool // false for release
	Motion bool // movement with a button held
	Mod    Modifiers
}

// EncodeMouse converts a mouse event to an X10 or SGR tracking report. It
// returns nil when the application has not enabled mouse tracking, or when
// the event class is not being tracked.
func (t *Terminal) EncodeMouse(ev MouseEvent) []byte {
	t.mu.RLock()
	tracking := t.modes.Has(ModeMouseTracking)
	motion := t.modes.Has(ModeMouseButtons)
	sgr := t.modes.Has(ModeMouseSGR)
	t.mu.RUnlock()

	if !tracking {
		return nil
	}
	if ev.Motion && !motion {
		return nil
	}

	code := mouseButtonCode(ev)

	if sgr {
		final := byte('M')
		if !ev.Press && !isWheel(ev.Button) {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, ev.Col+1, ev.Row+1, final))
	}

	// X10 encoding caps coordinates at 223 to stay within a byte.
	if !ev.Press && !isWheel(ev.Button) {
		code = 3
	}
	col := min(ev.Col, 222)
	row := min(ev.Row, 222)
	return []byte{0x1b, '[', 'M', byte(32 + code), byte(33 + col), byte(33 + row)}
}

func mouseButtonCode(ev MouseEvent) int {
	var code int
	switch ev.Button {
	case MouseLeft:
		code = 0
	case MouseMiddle:
		code = 1
	case MouseRight:
		code = 2
	case MouseWheelUp:
		code = 64
	case MouseWheelDown:
		code = 65
	}
	if ev.Motion {
		code += 32
	}
	if ev.Mod.Has(ModShift) {
		code += 4
	}
	if ev.Mod.Has(ModAlt) {
		code += 8
	}
	if ev.Mod.Has(ModCtrl) {
		code += 16
	}
	return code
}

func isWheel(b MouseButton) bool {
	return b == MouseWheelUp || b == MouseWheelDown
}

// SendKey encodes a key event and writes it to the response provider.
func (t *Terminal) SendKey(ev KeyEvent) {
	if data := t.EncodeKey(ev); len(data) > 0 {
		t.mu.RLock()
		w := t.response
		t.mu.RUnlock()
		_, _ = w.Write(data)
	}
}

// SendPaste encodes pasted text and writes it to the response provider.
func (t *Terminal) SendPaste(text string) {
	data := t.EncodePaste(text)
	t.mu.RLock()
	w := t.response
	t.mu.RUnlock()
	_, _ = w.Write(data)
}

// SendMouse encodes a mouse event and writes it to the response provider.
func (t *Terminal) SendMouse(ev MouseEvent) {
	if data := t.EncodeMouse(ev); len(data) > 0 {
		t.mu.RLock()
		w := t.response
		t.mu.RUnlock()
		_, _ = w.Write(data)
	}
}
