package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Camium02/gridterm"
)

// Renderer paints emulator snapshots onto a real terminal, repainting only
// the rows that changed since the previous frame.
type Renderer struct {
	out  io.Writer
	prev *gridterm.Snapshot
}

// NewRenderer creates a renderer writing ANSI output to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Reset forgets the previous frame so the next Render repaints everything.
func (r *Renderer) Reset() {
	r.prev = nil
}

// Render paints a snapshot. The hosting terminal must be at least as large as
// the snapshot.
func (r *Renderer) Render(snap *gridterm.Snapshot) error {
	var sb strings.Builder

	full := r.prev == nil || r.prev.Rows != snap.Rows || r.prev.Cols != snap.Cols
	if full {
		sb.WriteString("\x1b[2J")
	}
	sb.WriteString("\x1b[?25l")

	for row := 0; row < snap.Rows; row++ {
		if !full && !rowChanged(r.prev, snap, row) {
			continue
		}
		fmt.Fprintf(&sb, "\x1b[%d;1H\x1b[K", row+1)
		renderRow(&sb, snap, row)
	}

	fmt.Fprintf(&sb, "\x1b[%d;%dH", snap.CursorRow+1, snap.CursorCol+1)
	if snap.CursorVisible {
		sb.WriteString("\x1b[?25h")
	}

	r.prev = snap
	_, err := io.WriteString(r.out, sb.String())
	return err
}

func rowChanged(prev, next *gridterm.Snapshot, row int) bool {
	for col := 0; col < next.Cols; col++ {
		if prev.Cells[row][col] != next.Cells[row][col] {
			return true
		}
	}
	return false
}

func renderRow(sb *strings.Builder, snap *gridterm.Snapshot, row int) {
	var current gridterm.Style
	sb.WriteString("\x1b[0m")

	last := snap.Cols - 1
	for last >= 0 {
		cell := snap.Cell(row, last)
		if cell.Rune != ' ' && cell.Rune != 0 || !cell.Style.IsDefault() {
			break
		}
		last--
	}

	for col := 0; col <= last; col++ {
		cell := snap.Cell(row, col)
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Style != current {
			sb.WriteString(sgrFor(cell.Style))
			current = cell.Style
		}
		if cell.Rune == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteRune(cell.Rune)
		}
	}
	sb.WriteString("\x1b[0m")
}

// sgrFor builds the SGR sequence that sets a style from the default state.
func sgrFor(s gridterm.Style) string {
	params := []string{"0"}

	switch s.Weight {
	case gridterm.WeightBold:
		params = append(params, "1")
	case gridterm.WeightFaint:
		params = append(params, "2")
	}
	if s.Italic {
		params = append(params, "3")
	}
	if s.Underline {
		params = append(params, "4")
	}
	params = appendColor(params, s.Fg, 38)
	params = appendColor(params, s.Bg, 48)

	return "\x1b[" + strings.Join(params, ";") + "m"
}

func appendColor(params []string, c gridterm.Color, base int) []string {
	switch c.Mode {
	case gridterm.ColorIndexed:
		return append(params, strconv.Itoa(base), "5", strconv.Itoa(int(c.Index)))
	case gridterm.ColorRGB:
		return append(params, strconv.Itoa(base), "2",
			strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B)))
	default:
		return params
	}
}
