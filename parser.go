package gridterm

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxSequenceLen bounds escape sequence accumulation. A stream that never
// terminates a sequence (binary data after a stray ESC) is abandoned past this
// length so the terminal cannot wedge.
const maxSequenceLen = 128

type sequenceKind int

const (
	seqEsc sequenceKind = iota // ESC plus a single character
	seqCSI                     // ESC [ ... final byte
	seqOSC                     // ESC ] ... BEL or ESC \
	seqDCS                     // ESC P ... ESC \
	seqDEC                     // ESC # plus a single character
)

// sequence is a decoded escape sequence ready for dispatch.
type sequence struct {
	kind    sequenceKind
	final   rune   // CSI final byte, or the character after ESC for seqEsc
	private bool   // CSI '?' marker
	prefix  rune   // CSI '>' or similar prefix marker, 0 if absent
	params  []int  // CSI numeric parameters, nil when none given
	payload string // OSC/DCS string content, terminator stripped
	raw     string // the full sequence as received
}

// param returns the i-th numeric parameter, or def when absent.
func (s *sequence) param(i, def int) int {
	if i < 0 || i >= len(s.params) {
		return def
	}
	return s.params[i]
}

// paramCount returns the i-th parameter treated as a repeat count: absent or
// zero values become 1.
func (s *sequence) paramCount(i int) int {
	n := s.param(i, 1)
	if n < 1 {
		n = 1
	}
	return n
}

// escapeComplete reports whether the accumulated sequence (starting with ESC)
// is terminated. Incomplete sequences keep accumulating across Write calls.
func escapeComplete(seq []rune) bool {
	if len(seq) < 2 {
		return false
	}

	switch seq[1] {
	case ']': // OSC, runs until BEL or ST (ESC \)
		last := seq[len(seq)-1]
		if last == '\a' {
			return true
		}
		return len(seq) >= 4 && seq[len(seq)-2] == 0x1b && last == '\\'

	case '[': // CSI, runs until a final byte
		last := seq[len(seq)-1]
		if last >= 'a' && last <= 'z' || last >= 'A' && last <= 'Z' {
			return true
		}
		return last == '@' || last == '`' || last == '~'

	case 'P': // DCS, runs until ST
		return len(seq) >= 4 && seq[len(seq)-2] == 0x1b && seq[len(seq)-1] == '\\'

	case '#': // DEC line/screen attributes, one more character
		return len(seq) >= 3

	default:
		// Everything else is ESC plus one character. The recognized set is
		// handled in dispatch; unrecognized pairs complete here too so a
		// stray ESC cannot swallow the rest of the stream.
		return true
	}
}

// parseSequence decodes a complete escape sequence into its parts.
func parseSequence(raw string) sequence {
	seq := sequence{raw: raw}
	runes := []rune(raw)
	if len(runes) < 2 {
		return seq
	}

	switch runes[1] {
	case '[':
		seq.kind = seqCSI
		body := runes[2:]
		if len(body) == 0 {
			return seq
		}
		seq.final = body[len(body)-1]
		body = body[:len(body)-1]

		if len(body) > 0 && body[0] == '?' {
			seq.private = true
			body = body[1:]
		} else if len(body) > 0 && (body[0] == '>' || body[0] == '=' || body[0] == '!') {
			seq.prefix = body[0]
			body = body[1:]
		}
		seq.params = parseParams(string(body))

	case ']':
		seq.kind = seqOSC
		seq.payload = stripStringTerminator(string(runes[2:]))

	case 'P':
		seq.kind = seqDCS
		seq.payload = stripStringTerminator(string(runes[2:]))

	case '#':
		seq.kind = seqDEC
		if len(runes) >= 3 {
			seq.final = runes[2]
		}

	default:
		seq.kind = seqEsc
		seq.final = runes[1]
	}

	return seq
}

// parseParams splits a CSI parameter string on semicolons. Empty components
// decode to 0; an entirely empty string decodes to nil.
func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	params := make([]int, len(parts))
	for i, p := range parts {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		params[i] = n
	}
	return params
}

// stripStringTerminator removes a trailing BEL or ESC \ from an OSC/DCS body.
func stripStringTerminator(s string) string {
	if strings.HasSuffix(s, "\x1b\\") {
		return s[:len(s)-2]
	}
	if strings.HasSuffix(s, "\a") {
		return s[:len(s)-1]
	}
	return s
}

// decodeAndProcess decodes UTF-8 from the byte stream and feeds runes to the
// escape accumulator. A trailing incomplete rune is held in t.pending and
// completed by the next Write; invalid bytes decode to U+FFFD.
func (t *Terminal) decodeAndProcess(data []byte) {
	buf := data
	if len(t.pending) > 0 {
		buf = append(t.pending, data...)
		t.pending = nil
	}

	for len(buf) > 0 {
		if !utf8.FullRune(buf) {
			// Hold back at most one partial rune. A lone continuation byte
			// can never complete, so only keep plausible prefixes short.
			if len(buf) < utf8.UTFMax {
				t.pending = append(t.pending, buf...)
				return
			}
		}
		r, size := utf8.DecodeRune(buf)
		buf = buf[size:]
		t.processRune(r)
	}
}

// processRune routes one decoded rune through the escape accumulator.
func (t *Terminal) processRune(r rune) {
	if t.inEscape {
		switch r {
		case '\r', '\n', '\b', '\f', '\t', '\v':
			// Control characters execute even mid-sequence.
			t.writeRune(r)
			return
		case 0x1b:
			// A new ESC aborts an unfinished CSI or simple sequence. OSC
			// and DCS keep it: ESC \ is their terminator.
			if len(t.escape) == 1 {
				return
			}
			if t.escape[1] != ']' && t.escape[1] != 'P' {
				t.logger.Warn("discarding unfinished escape sequence",
					"sequence", string(t.escape))
				t.escape = t.escape[:1]
				return
			}
		}
		t.escape = append(t.escape, r)
		if escapeComplete(t.escape) {
			raw := string(t.escape)
			t.escape = t.escape[:0]
			t.inEscape = false
			t.dispatch(raw)
			return
		}
		if len(t.escape) > maxSequenceLen {
			t.logger.Warn("abandoning unterminated escape sequence",
				"length", len(t.escape))
			t.escape = t.escape[:0]
			t.inEscape = false
		}
		return
	}

	if r == 0x1b {
		t.inEscape = true
		t.escape = append(t.escape[:0], r)
		return
	}

	t.writeRune(r)
}
