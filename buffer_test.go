package gridterm

import "testing"

func TestNewBuffer(t *testing.T) {
	b := NewBuffer(10, 20)

	if b.Rows() != 10 || b.Cols() != 20 {
		t.Errorf("expected 10x20, got %dx%d", b.Rows(), b.Cols())
	}
	cell := b.Cell(0, 0)
	if cell == nil || cell.Rune != ' ' {
		t.Errorf("expected blank cell, got %+v", cell)
	}
}

func TestNewBufferClampsDimensions(t *testing.T) {
	b := NewBuffer(0, -5)

	if b.Rows() != 1 || b.Cols() != 1 {
		t.Errorf("expected 1x1 minimum, got %dx%d", b.Rows(), b.Cols())
	}
}

func TestBufferCellOutOfBounds(t *testing.T) {
	b := NewBuffer(5, 5)

	if b.Cell(-1, 0) != nil || b.Cell(0, -1) != nil || b.Cell(5, 0) != nil || b.Cell(0, 5) != nil {
		t.Error("expected nil for out-of-bounds cells")
	}

	// Out-of-bounds writes must be dropped, not panic.
	b.SetCell(99, 99, Cell{Rune: 'X'})
}

func TestBufferScrollUp(t *testing.T) {
	b := NewBuffer(4, 5)
	for i := 0; i < 4; i++ {
		b.SetCell(i, 0, Cell{Rune: rune('A' + i)})
	}

	b.ScrollUp(0, 3, 1, Style{})

	if b.Cell(0, 0).Rune != 'B' || b.Cell(2, 0).Rune != 'D' {
		t.Errorf("unexpected rows after scroll up: %q %q", b.Cell(0, 0).Rune, b.Cell(2, 0).Rune)
	}
	if b.Cell(3, 0).Rune != ' ' {
		t.Errorf("expected blank bottom row, got %q", b.Cell(3, 0).Rune)
	}
}

func TestBufferScrollUpPartialRegion(t *testing.T) {
	b := NewBuffer(4, 5)
	for i := 0; i < 4; i++ {
		b.SetCell(i, 0, Cell{Rune: rune('A' + i)})
	}

	b.ScrollUp(1, 2, 1, Style{})

	if b.Cell(0, 0).Rune != 'A' || b.Cell(3, 0).Rune != 'D' {
		t.Error("expected rows outside the region untouched")
	}
	if b.Cell(1, 0).Rune != 'C' || b.Cell(2, 0).Rune != ' ' {
		t.Errorf("unexpected region rows: %q %q", b.Cell(1, 0).Rune, b.Cell(2, 0).Rune)
	}
}

func TestBufferScrollDown(t *testing.T) {
	b := NewBuffer(4, 5)
	for i := 0; i < 4; i++ {
		b.SetCell(i, 0, Cell{Rune: rune('A' + i)})
	}

	b.ScrollDown(0, 3, 2, Style{})

	if b.Cell(0, 0).Rune != ' ' || b.Cell(1, 0).Rune != ' ' {
		t.Error("expected blank top rows")
	}
	if b.Cell(2, 0).Rune != 'A' || b.Cell(3, 0).Rune != 'B' {
		t.Errorf("unexpected shifted rows: %q %q", b.Cell(2, 0).Rune, b.Cell(3, 0).Rune)
	}
}

func TestBufferScrollPushesToScrollback(t *testing.T) {
	storage := NewMemoryScrollback(10)
	b := NewBufferWithStorage(3, 5, storage)
	b.SetCell(0, 0, Cell{Rune: 'X'})

	b.ScrollUp(0, 2, 1, Style{})

	if storage.Len() != 1 {
		t.Fatalf("expected 1 pushed line, got %d", storage.Len())
	}
	if storage.Line(0)[0].Rune != 'X' {
		t.Errorf("expected pushed line to hold 'X', got %q", storage.Line(0)[0].Rune)
	}
}

func TestBufferScrollInsideRegionSkipsScrollback(t *testing.T) {
	storage := NewMemoryScrollback(10)
	b := NewBufferWithStorage(4, 5, storage)

	b.ScrollUp(1, 3, 1, Style{})

	if storage.Len() != 0 {
		t.Errorf("expected no push for region not starting at row 0, got %d", storage.Len())
	}
}

func TestBufferScrollbackPushDisabled(t *testing.T) {
	storage := NewMemoryScrollback(10)
	b := NewBufferWithStorage(3, 5, storage)

	b.SetScrollbackPush(false)
	b.ScrollUp(0, 2, 1, Style{})

	if storage.Len() != 0 {
		t.Errorf("expected no push while disabled, got %d", storage.Len())
	}
}

func TestBufferClearRowRangeCarriesStyle(t *testing.T) {
	b := NewBuffer(3, 5)
	style := Style{Bg: IndexedColor(4)}

	b.ClearRowRange(0, 1, 3, style)

	if got := b.Cell(0, 1).Style.Bg; got != IndexedColor(4) {
		t.Errorf("expected blue background on cleared cell, got %+v", got)
	}
	if got := b.Cell(0, 0).Style.Bg; got.Explicit() {
		t.Errorf("expected untouched cell outside range, got %+v", got)
	}
}

func TestBufferInsertBlanks(t *testing.T) {
	b := NewBuffer(1, 5)
	for i := 0; i < 5; i++ {
		b.SetCell(0, i, Cell{Rune: rune('A' + i)})
	}

	b.InsertBlanks(0, 1, 2, Style{})

	want := " ABC"
	if b.Cell(0, 1).Rune != ' ' || b.Cell(0, 2).Rune != ' ' ||
		b.Cell(0, 3).Rune != 'B' || b.Cell(0, 4).Rune != 'C' {
		got := ""
		for i := 1; i < 5; i++ {
			got += string(b.Cell(0, i).Rune)
		}
		t.Errorf("expected %q after insert, got %q", want, got)
	}
}

func TestBufferDeleteChars(t *testing.T) {
	b := NewBuffer(1, 5)
	for i := 0; i < 5; i++ {
		b.SetCell(0, i, Cell{Rune: rune('A' + i)})
	}

	b.DeleteChars(0, 1, 2, Style{})

	if b.Cell(0, 1).Rune != 'D' || b.Cell(0, 2).Rune != 'E' {
		t.Errorf("expected shifted cells, got %q %q", b.Cell(0, 1).Rune, b.Cell(0, 2).Rune)
	}
	if b.Cell(0, 3).Rune != ' ' || b.Cell(0, 4).Rune != ' ' {
		t.Error("expected blanks at the end of the line")
	}
}

func TestBufferResizeKeepsRectangular(t *testing.T) {
	b := NewBuffer(4, 10)
	b.SetCell(0, 0, Cell{Rune: 'X'})

	b.Resize(6, 5)

	if b.Rows() != 6 || b.Cols() != 5 {
		t.Fatalf("expected 6x5, got %dx%d", b.Rows(), b.Cols())
	}
	for row := 0; row < b.Rows(); row++ {
		for col := 0; col < b.Cols(); col++ {
			if b.Cell(row, col) == nil {
				t.Fatalf("missing cell at (%d, %d) after resize", row, col)
			}
		}
	}
	if b.Cell(0, 0).Rune != 'X' {
		t.Error("expected content preserved across resize")
	}
	if b.Cell(5, 4).Rune != ' ' {
		t.Error("expected new cells blank")
	}
}

func TestBufferLineContent(t *testing.T) {
	b := NewBuffer(2, 10)
	b.SetCell(0, 0, Cell{Rune: 'h'})
	b.SetCell(0, 1, Cell{Rune: 'i'})

	if got := b.LineContent(0); got != "hi" {
		t.Errorf("expected 'hi', got '%s'", got)
	}
	if got := b.LineContent(1); got != "" {
		t.Errorf("expected empty line, got '%s'", got)
	}
	if got := b.LineContent(99); got != "" {
		t.Errorf("expected empty for out of range, got '%s'", got)
	}
}

func TestBufferLineContentSkipsWideSpacers(t *testing.T) {
	b := NewBuffer(1, 10)
	b.SetCell(0, 0, Cell{Rune: '世', Flags: CellFlagWide})
	b.SetCell(0, 1, Cell{Rune: ' ', Flags: CellFlagWideSpacer})
	b.SetCell(0, 2, Cell{Rune: '!'})

	if got := b.LineContent(0); got != "世!" {
		t.Errorf("expected '世!', got '%s'", got)
	}
}

func TestMemoryScrollbackLimit(t *testing.T) {
	s := NewMemoryScrollback(2)

	s.Push([]Cell{{Rune: 'a'}})
	s.Push([]Cell{{Rune: 'b'}})
	s.Push([]Cell{{Rune: 'c'}})

	if s.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", s.Len())
	}
	if s.Line(0)[0].Rune != 'b' || s.Line(1)[0].Rune != 'c' {
		t.Error("expected oldest line dropped")
	}
}

func TestMemoryScrollbackCopiesLines(t *testing.T) {
	s := NewMemoryScrollback(10)
	line := []Cell{{Rune: 'a'}}

	s.Push(line)
	line[0].Rune = 'z'

	if s.Line(0)[0].Rune != 'a' {
		t.Error("expected pushed line to be copied")
	}
}

func TestMemoryScrollbackSetMaxLines(t *testing.T) {
	s := NewMemoryScrollback(0)
	for i := 0; i < 5; i++ {
		s.Push([]Cell{{Rune: rune('a' + i)}})
	}

	s.SetMaxLines(2)

	if s.Len() != 2 {
		t.Fatalf("expected trim to 2 lines, got %d", s.Len())
	}
	if s.Line(0)[0].Rune != 'd' {
		t.Errorf("expected oldest trimmed, got %q", s.Line(0)[0].Rune)
	}
}
