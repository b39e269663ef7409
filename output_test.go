package vtterm

import "testing"

func TestRenderLinesPlainText(t *testing.T) {
	g := NewOutputGenerator()
	l := NewLine(5)
	for i, r := range "hi" {
		l.Cells[i].Char = r
	}
	out := g.RenderLines([]Line{l})
	if string(out) != "hi" {
		t.Errorf("RenderLines = %q, want %q", out, "hi")
	}
}

func TestRenderLinesEmitsSGROnChange(t *testing.T) {
	g := NewOutputGenerator()
	l := NewLine(3)
	l.Cells[0].Char = 'a'
	l.Cells[1].Char = 'b'
	l.Cells[1].Flags = CellFlagBold
	l.Cells[2].Char = 'c'
	l.Cells[2].Flags = CellFlagBold
	out := g.RenderLines([]Line{l})
	want := "a\x1b[0;1mbc"
	if string(out) != want {
		t.Errorf("RenderLines = %q, want %q (one SGR transition, not one per cell)", out, want)
	}
}

func TestRenderLinesTrimsTrailingBlanks(t *testing.T) {
	g := NewOutputGenerator()
	l := NewLine(10)
	l.Cells[0].Char = 'x'
	out := g.RenderLines([]Line{l})
	if string(out) != "x" {
		t.Errorf("RenderLines = %q, want %q (trailing blanks trimmed)", out, "x")
	}
}

func TestRenderLinesJoinsWithCRLF(t *testing.T) {
	g := NewOutputGenerator()
	l1 := NewLine(3)
	l1.Cells[0].Char = 'a'
	l2 := NewLine(3)
	l2.Cells[0].Char = 'b'
	out := g.RenderLines([]Line{l1, l2})
	want := "a\r\nb"
	if string(out) != want {
		t.Errorf("RenderLines = %q, want %q", out, want)
	}
}

func TestRenderLinesHyperlinkWrapping(t *testing.T) {
	g := NewOutputGenerator()
	l := NewLine(3)
	h := &Hyperlink{URI: "https://example.com"}
	l.Cells[0].Char = 'x'
	l.Cells[0].Hyperlink = h
	out := g.RenderLines([]Line{l})
	want := "\x1b]8;;https://example.com\x07x\x1b]8;;\x07"
	if string(out) != want {
		t.Errorf("RenderLines = %q, want %q", out, want)
	}
}

func TestScreenRenderRoundTrip(t *testing.T) {
	s := New(WithSize(2, 10))
	s.WriteString("hi")
	out := s.Render()
	if len(out) == 0 {
		t.Fatalf("Render() returned no bytes")
	}
	prefix := "\x1b[2J\x1b[H"
	if string(out[:len(prefix)]) != prefix {
		t.Errorf("Render() prefix = %q, want %q", out[:len(prefix)], prefix)
	}
}
