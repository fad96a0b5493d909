package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Camium02/gridterm"
)

func TestRendererFullPaint(t *testing.T) {
	term := gridterm.New(gridterm.WithSize(3, 10))
	term.WriteString("hi")

	var buf bytes.Buffer
	r := NewRenderer(&buf)

	if err := r.Render(term.Snapshot()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "\x1b[2J") {
		t.Error("expected first frame to clear the screen")
	}
	if !strings.Contains(out, "hi") {
		t.Errorf("expected content in output, got %q", out)
	}
	if !strings.Contains(out, "\x1b[1;3H") {
		t.Errorf("expected final cursor move to (1,3), got %q", out)
	}
}

func TestRendererDiffSkipsUnchangedRows(t *testing.T) {
	term := gridterm.New(gridterm.WithSize(3, 10))
	term.WriteString("aaa\r\nbbb")

	var buf bytes.Buffer
	r := NewRenderer(&buf)
	if err := r.Render(term.Snapshot()); err != nil {
		t.Fatal(err)
	}

	term.WriteString("\x1b[2;1Hxxx")
	buf.Reset()
	if err := r.Render(term.Snapshot()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "aaa") {
		t.Errorf("expected unchanged row skipped, got %q", out)
	}
	if !strings.Contains(out, "xxx") {
		t.Errorf("expected changed row repainted, got %q", out)
	}
	if strings.Contains(out, "\x1b[2J") {
		t.Error("expected no full clear on diff frame")
	}
}

func TestRendererResetForcesRepaint(t *testing.T) {
	term := gridterm.New(gridterm.WithSize(3, 10))
	term.WriteString("aaa")

	var buf bytes.Buffer
	r := NewRenderer(&buf)
	if err := r.Render(term.Snapshot()); err != nil {
		t.Fatal(err)
	}

	r.Reset()
	buf.Reset()
	if err := r.Render(term.Snapshot()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[2J") {
		t.Error("expected full clear after Reset")
	}
}

func TestSGRFor(t *testing.T) {
	cases := []struct {
		style gridterm.Style
		want  string
	}{
		{gridterm.Style{}, "\x1b[0m"},
		{gridterm.Style{Weight: gridterm.WeightBold}, "\x1b[0;1m"},
		{gridterm.Style{Underline: true}, "\x1b[0;4m"},
		{gridterm.Style{Fg: gridterm.IndexedColor(1)}, "\x1b[0;38;5;1m"},
		{gridterm.Style{Bg: gridterm.RGBColor(1, 2, 3)}, "\x1b[0;48;2;1;2;3m"},
	}

	for _, tc := range cases {
		if got := sgrFor(tc.style); got != tc.want {
			t.Errorf("sgrFor(%+v) = %q, want %q", tc.style, got, tc.want)
		}
	}
}
