package vtterm

import "testing"

func TestSnapshotTextDetail(t *testing.T) {
	s := New(WithSize(2, 10))
	s.WriteString("hi")
	snap := s.Snapshot(SnapshotText)
	if snap.Size.Rows != 2 || snap.Size.Cols != 10 {
		t.Fatalf("Size = %+v, want {2 10}", snap.Size)
	}
	if len(snap.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(snap.Lines))
	}
	if snap.Lines[0].Text != "hi" {
		t.Errorf("Lines[0].Text = %q, want %q", snap.Lines[0].Text, "hi")
	}
	if snap.Lines[0].Segments != nil {
		t.Errorf("Lines[0].Segments = %v, want nil at SnapshotText detail", snap.Lines[0].Segments)
	}
}

func TestSnapshotStyledDetailSegments(t *testing.T) {
	s := New(WithSize(1, 10))
	s.WriteString("\x1b[1mhi\x1b[0mthere")
	snap := s.Snapshot(SnapshotStyled)
	if len(snap.Lines[0].Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2 (bold run + plain run)", len(snap.Lines[0].Segments))
	}
	if snap.Lines[0].Segments[0].Text != "hi" || snap.Lines[0].Segments[0].Flags&CellFlagBold == 0 {
		t.Errorf("Segments[0] = %+v, want bold %q", snap.Lines[0].Segments[0], "hi")
	}
	if snap.Lines[0].Segments[1].Text != "there" || snap.Lines[0].Segments[1].Flags&CellFlagBold != 0 {
		t.Errorf("Segments[1] = %+v, want plain %q", snap.Lines[0].Segments[1], "there")
	}
}

func TestSnapshotFullIncludesScrollback(t *testing.T) {
	s := New(WithSize(1, 10), WithScrollback(10))
	s.WriteString("one\r\ntwo")
	snap := s.Snapshot(SnapshotFull)
	if len(snap.Scrollback) == 0 {
		t.Fatalf("Scrollback is empty, want at least one evicted line")
	}
}

func TestSnapshotCursorState(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("\x1b[3;4H")
	snap := s.Snapshot(SnapshotText)
	if snap.Cursor.Row != 2 || snap.Cursor.Col != 3 {
		t.Errorf("Cursor = %+v, want {Row:2 Col:3}", snap.Cursor)
	}
}
