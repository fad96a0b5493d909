package gridterm

import "testing"

func TestSnapshot(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("\x1b]0;snap\x07hello\x1b[?25l")

	snap := term.Snapshot()

	if snap.Rows != 5 || snap.Cols != 20 {
		t.Fatalf("unexpected dimensions: %dx%d", snap.Rows, snap.Cols)
	}
	if snap.Cell(0, 0).Rune != 'h' {
		t.Errorf("unexpected cell content: %q", snap.Cell(0, 0).Rune)
	}
	if snap.CursorRow != 0 || snap.CursorCol != 5 {
		t.Errorf("unexpected cursor: (%d, %d)", snap.CursorRow, snap.CursorCol)
	}
	if snap.CursorVisible {
		t.Error("expected hidden cursor in snapshot")
	}
	if snap.Title != "snap" {
		t.Errorf("unexpected title: %q", snap.Title)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("before")

	snap := term.Snapshot()
	term.WriteString("\x1b[2J\x1b[Hafter")

	if snap.Cell(0, 0).Rune != 'b' {
		t.Error("expected snapshot to be unaffected by later writes")
	}
}

func TestSnapshotCellOutOfBounds(t *testing.T) {
	term := New(WithSize(5, 20))
	snap := term.Snapshot()

	if got := snap.Cell(99, 99); got != (Cell{}) {
		t.Errorf("expected zero cell out of bounds, got %+v", got)
	}
}
