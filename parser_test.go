package gridterm

import "testing"

func TestEscapeCompleteCSI(t *testing.T) {
	cases := []struct {
		seq  string
		want bool
	}{
		{"\x1b", false},
		{"\x1b[", false},
		{"\x1b[3", false},
		{"\x1b[31;4", false},
		{"\x1b[31m", true},
		{"\x1b[H", true},
		{"\x1b[?1049h", true},
		{"\x1b[5;10r", true},
		{"\x1b[200~", true},
		{"\x1b[2`", true},
		{"\x1b[@", true},
	}

	for _, tc := range cases {
		if got := escapeComplete([]rune(tc.seq)); got != tc.want {
			t.Errorf("escapeComplete(%q) = %v, want %v", tc.seq, got, tc.want)
		}
	}
}

func TestEscapeCompleteOSC(t *testing.T) {
	cases := []struct {
		seq  string
		want bool
	}{
		{"\x1b]", false},
		{"\x1b]0;title", false},
		{"\x1b]0;title\x07", true},
		{"\x1b]0;title\x1b\\", true},
	}

	for _, tc := range cases {
		if got := escapeComplete([]rune(tc.seq)); got != tc.want {
			t.Errorf("escapeComplete(%q) = %v, want %v", tc.seq, got, tc.want)
		}
	}
}

func TestEscapeCompleteDCS(t *testing.T) {
	if escapeComplete([]rune("\x1bPdata")) {
		t.Error("expected DCS without ST to be incomplete")
	}
	if !escapeComplete([]rune("\x1bPdata\x1b\\")) {
		t.Error("expected DCS with ST to be complete")
	}
}

func TestEscapeCompleteSimple(t *testing.T) {
	// Any ESC plus one non-introducer character terminates, recognized or not.
	for _, seq := range []string{"\x1b7", "\x1b8", "\x1bD", "\x1bM", "\x1b=", "\x1b>", "\x1bc", "\x1bQ"} {
		if !escapeComplete([]rune(seq)) {
			t.Errorf("expected %q to be complete", seq)
		}
	}
}

func TestParseSequenceCSI(t *testing.T) {
	seq := parseSequence("\x1b[5;10H")

	if seq.kind != seqCSI || seq.final != 'H' {
		t.Fatalf("unexpected kind/final: %v %q", seq.kind, seq.final)
	}
	if len(seq.params) != 2 || seq.params[0] != 5 || seq.params[1] != 10 {
		t.Errorf("unexpected params: %v", seq.params)
	}
}

func TestParseSequenceCSINoParams(t *testing.T) {
	seq := parseSequence("\x1b[H")

	if seq.params != nil {
		t.Errorf("expected nil params, got %v", seq.params)
	}
	if seq.param(0, 1) != 1 {
		t.Errorf("expected default 1, got %d", seq.param(0, 1))
	}
}

func TestParseSequenceCSIPrivate(t *testing.T) {
	seq := parseSequence("\x1b[?1049h")

	if !seq.private {
		t.Error("expected private marker")
	}
	if len(seq.params) != 1 || seq.params[0] != 1049 {
		t.Errorf("unexpected params: %v", seq.params)
	}
}

func TestParseSequenceCSIPrefix(t *testing.T) {
	seq := parseSequence("\x1b[>c")

	if seq.prefix != '>' {
		t.Errorf("expected '>' prefix, got %q", seq.prefix)
	}
	if seq.private {
		t.Error("expected no private marker")
	}
}

func TestParseSequenceEmptyParamComponents(t *testing.T) {
	seq := parseSequence("\x1b[;5H")

	if len(seq.params) != 2 || seq.params[0] != 0 || seq.params[1] != 5 {
		t.Errorf("expected empty component to decode as 0, got %v", seq.params)
	}
}

func TestParseSequenceOSC(t *testing.T) {
	seq := parseSequence("\x1b]0;my title\x07")

	if seq.kind != seqOSC {
		t.Fatalf("expected OSC kind, got %v", seq.kind)
	}
	if seq.payload != "0;my title" {
		t.Errorf("unexpected payload: %q", seq.payload)
	}

	seq = parseSequence("\x1b]2;other\x1b\\")
	if seq.payload != "2;other" {
		t.Errorf("expected ST stripped, got %q", seq.payload)
	}
}

func TestEscapeCompleteDECSpecial(t *testing.T) {
	if escapeComplete([]rune("\x1b#")) {
		t.Error("expected ESC # without a final character to be incomplete")
	}
	if !escapeComplete([]rune("\x1b#8")) {
		t.Error("expected ESC # 8 to be complete")
	}
}

func TestParseSequenceDECSpecial(t *testing.T) {
	seq := parseSequence("\x1b#8")

	if seq.kind != seqDEC || seq.final != '8' {
		t.Errorf("unexpected kind/final: %v %q", seq.kind, seq.final)
	}
}

func TestParseSequenceSimple(t *testing.T) {
	seq := parseSequence("\x1b7")

	if seq.kind != seqEsc || seq.final != '7' {
		t.Errorf("unexpected kind/final: %v %q", seq.kind, seq.final)
	}
}

func TestSequenceParamCount(t *testing.T) {
	seq := parseSequence("\x1b[0A")
	if seq.paramCount(0) != 1 {
		t.Errorf("expected zero param to count as 1, got %d", seq.paramCount(0))
	}

	seq = parseSequence("\x1b[7A")
	if seq.paramCount(0) != 7 {
		t.Errorf("expected 7, got %d", seq.paramCount(0))
	}
}

func TestSplitOSC(t *testing.T) {
	code, rest := splitOSC("0;a;b")
	if code != "0" || rest != "a;b" {
		t.Errorf("unexpected split: %q %q", code, rest)
	}

	code, rest = splitOSC("7")
	if code != "7" || rest != "" {
		t.Errorf("unexpected split: %q %q", code, rest)
	}
}
