package vtterm

import "testing"

func TestScreenWritePlainText(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("hello")
	if got := s.Active().LineContent(0); got != "hello" {
		t.Errorf("LineContent(0) = %q, want %q", got, "hello")
	}
	if s.Active().Cursor().Col != 5 {
		t.Errorf("Cursor().Col = %d, want 5", s.Active().Cursor().Col)
	}
}

func TestScreenCursorPositioning(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("\x1b[3;4Hx")
	if c := s.Active().Cell(2, 3); c.Char != 'x' {
		t.Errorf("Cell(2,3).Char = %q, want 'x'", c.Char)
	}
}

func TestScreenSGRColorsCell(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("\x1b[31mx")
	c := s.Active().Cell(0, 0)
	idx, ok := c.Fg.(IndexedColor)
	if !ok || idx.Index != 1 {
		t.Errorf("Cell(0,0).Fg = %+v, want IndexedColor{1}", c.Fg)
	}
}

func TestScreenAlternateScreenSwitch(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("primary")
	s.WriteString("\x1b[?1049h")
	if s.Active() != s.Alternate() {
		t.Fatalf("Active() did not switch to the alternate buffer")
	}
	s.WriteString("alt")
	if got := s.Active().LineContent(0); got != "alt" {
		t.Errorf("alt screen LineContent(0) = %q, want %q", got, "alt")
	}
	s.WriteString("\x1b[?1049l")
	if s.Active() != s.Primary() {
		t.Fatalf("Active() did not switch back to the primary buffer")
	}
	if got := s.Active().LineContent(0); got != "primary" {
		t.Errorf("primary screen LineContent(0) after returning = %q, want %q", got, "primary")
	}
}

func TestScreenScrollback(t *testing.T) {
	s := New(WithSize(2, 5), WithScrollback(10))
	s.WriteString("one\r\ntwo\r\nthree")
	if s.Primary().ScrollbackLen() == 0 {
		t.Fatalf("expected scrollback to hold evicted lines, got none")
	}
}

func TestScreenResize(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("hi")
	s.Resize(8, 20)
	if s.Rows() != 8 || s.Cols() != 20 {
		t.Fatalf("Rows/Cols after Resize = %d/%d, want 8/20", s.Rows(), s.Cols())
	}
	if got := s.Active().LineContent(0); got != "hi" {
		t.Errorf("LineContent(0) after resize = %q, want %q", got, "hi")
	}
}

func TestScreenDeviceStatusReportWritesResponse(t *testing.T) {
	var buf fakeWriter
	s := New(WithSize(5, 10), WithResponse(&buf))
	s.WriteString("\x1b[6n")
	if got := buf.String(); got != "\x1b[1;1R" {
		t.Errorf("response = %q, want %q", got, "\x1b[1;1R")
	}
}

func TestScreenBellProvider(t *testing.T) {
	rung := false
	s := New(WithSize(5, 10), WithBell(bellFunc(func() { rung = true })))
	s.WriteString("\x07")
	if !rung {
		t.Errorf("bell provider was not invoked")
	}
}

func TestScreenSyncOutputCoalesces(t *testing.T) {
	s := New(WithSize(3, 10))
	s.WriteString("\x1b[?2026h")
	s.WriteString("x")
	if c := s.Active().Cell(0, 0); c.Char == 'x' {
		t.Fatalf("cell written while sync-output buffering was active, want deferred")
	}
	s.WriteString("\x1b[?2026l")
	if c := s.Active().Cell(0, 0); c.Char != 'x' {
		t.Errorf("Cell(0,0).Char = %q after reset, want 'x'", c.Char)
	}
}

func TestScreenRISReset(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("\x1b[31mtext")
	s.WriteString("\x1bc")
	if got := s.Active().LineContent(0); got != "" {
		t.Errorf("LineContent(0) after RIS = %q, want empty", got)
	}
	if s.Active().Pen().Fg != nil {
		t.Errorf("pen fg after RIS = %+v, want nil (default)", s.Active().Pen().Fg)
	}
}

func TestScreenDeviceStatusReportExtended(t *testing.T) {
	var buf fakeWriter
	s := New(WithSize(5, 10), WithResponse(&buf))
	s.WriteString("\x1b[?6n")
	if got := buf.String(); got != "\x1b[?1;1;0R" {
		t.Errorf("response = %q, want %q", got, "\x1b[?1;1;0R")
	}
}

func TestScreenIdentifyTerminalReportsDA1(t *testing.T) {
	var buf fakeWriter
	s := New(WithSize(5, 10), WithResponse(&buf))
	s.WriteString("\x1b[c")
	if got, want := buf.String(), "\x1b[?64;1;2;6;9;15;21;22c"; got != want {
		t.Errorf("response = %q, want %q", got, want)
	}
}

func TestScreenSyncOutputPassesNonDrawingCommandsThrough(t *testing.T) {
	var buf fakeWriter
	s := New(WithSize(3, 10), WithResponse(&buf))
	s.WriteString("\x1b[?2026h")
	s.WriteString("\x1b[6n")
	if got := buf.String(); got != "\x1b[1;1R" {
		t.Errorf("DSR reply during sync buffering = %q, want %q (should not wait for flush)", got, "\x1b[1;1R")
	}
	s.WriteString("\x1b[?2026l")
}

func TestScreenSGRCurlyUnderlineSubParameter(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("\x1b[4:3mx")
	c := s.Active().Cell(0, 0)
	if c.Flags&CellFlagCurlyUnderline == 0 {
		t.Errorf("flags = %v, want CellFlagCurlyUnderline set", c.Flags)
	}
}

func TestScreenSGRUnderlineSubParameterOffClears(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("\x1b[4:3m\x1b[4:0mx")
	c := s.Active().Cell(0, 0)
	if c.Flags.HasUnderline() {
		t.Errorf("flags = %v, want no underline after 4:0", c.Flags)
	}
}

func TestScreenAutoScrollOnUpdateResetsViewport(t *testing.T) {
	s := New(WithSize(3, 10), WithScrollback(10))
	s.WriteString("a\r\nb\r\nc\r\nd\r\n")
	s.ScrollViewport(1)
	if s.ViewportOffset() == 0 {
		t.Fatalf("expected nonzero viewport offset after scrolling back")
	}
	s.WriteString("e")
	if got := s.ViewportOffset(); got != 0 {
		t.Errorf("ViewportOffset() = %d after write, want 0 (auto-scroll)", got)
	}
}

func TestScreenAutoScrollOnUpdateDisabled(t *testing.T) {
	s := New(WithSize(3, 10), WithScrollback(10), WithAutoScrollOnUpdate(false))
	s.WriteString("a\r\nb\r\nc\r\nd\r\n")
	s.ScrollViewport(1)
	offset := s.ViewportOffset()
	s.WriteString("e")
	if got := s.ViewportOffset(); got != offset {
		t.Errorf("ViewportOffset() = %d after write, want unchanged %d", got, offset)
	}
}

func TestScreenResizeWindowRequestInvokesLifecycle(t *testing.T) {
	var gotCols, gotRows int
	var gotPixels bool
	lc := lifecycleFunc{resizeWindow: func(cols, rows int, inPixels bool) {
		gotCols, gotRows, gotPixels = cols, rows, inPixels
	}}
	s := New(WithSize(5, 10), WithLifecycle(lc))
	s.WriteString("\x1b[8;24;80t")
	if gotCols != 80 || gotRows != 24 || gotPixels {
		t.Errorf("ResizeWindow(%d,%d,%v), want (80,24,false)", gotCols, gotRows, gotPixels)
	}
}

func TestScreenSetTitleNotifiesLifecycle(t *testing.T) {
	var changed []BufferChangeKind
	lc := lifecycleFunc{bufferChanged: func(kind BufferChangeKind) { changed = append(changed, kind) }}
	s := New(WithSize(5, 10), WithLifecycle(lc))
	s.WriteString("\x1b]0;hello\x07")
	if len(changed) == 0 || changed[len(changed)-1] != BufferChangedTitle {
		t.Errorf("BufferChanged calls = %v, want a trailing BufferChangedTitle", changed)
	}
}

func TestScreenSwitchScreenNotifiesLifecycle(t *testing.T) {
	var changed []BufferChangeKind
	lc := lifecycleFunc{bufferChanged: func(kind BufferChangeKind) { changed = append(changed, kind) }}
	s := New(WithSize(5, 10), WithLifecycle(lc))
	s.WriteString("\x1b[?1049h")
	s.WriteString("\x1b[?1049l")
	if len(changed) != 2 {
		t.Fatalf("BufferChanged call count = %d, want 2", len(changed))
	}
	for _, kind := range changed {
		if kind != BufferChangedScreenSwitch {
			t.Errorf("kind = %v, want BufferChangedScreenSwitch", kind)
		}
	}
}

func TestScreenCloseNotifiesLifecycle(t *testing.T) {
	closed := false
	lc := lifecycleFunc{closed: func() { closed = true }}
	s := New(WithSize(5, 10), WithLifecycle(lc))
	s.Close()
	if !closed {
		t.Errorf("Close() did not invoke lifecycle.Closed()")
	}
}

func TestScreenScrollToMark(t *testing.T) {
	s := New(WithSize(5, 10))
	s.WriteString("a\r\n")
	s.Active().SetMark(1)
	s.WriteString("b\r\nc\r\n")
	s.Active().Cursor().Row = 0
	s.ScrollToMark(true)
	if got := s.Active().Cursor().Row; got != 1 {
		t.Errorf("Cursor().Row = %d after ScrollToMark(true), want 1", got)
	}
}

func TestSelectionReleaseNotifiesLifecycle(t *testing.T) {
	var gotText string
	lc := lifecycleFunc{selectionComplete: func(text string) { gotText = text }}
	s := New(WithSize(5, 10), WithLifecycle(lc))
	s.WriteString("hello")
	sel := s.SelectionEngine()
	sel.Start(SelectionChar, SelectionPosition{Row: 0, Col: 0})
	sel.Extend(SelectionPosition{Row: 0, Col: 4})
	sel.Release()
	if gotText != "hello" {
		t.Errorf("SelectionComplete text = %q, want %q", gotText, "hello")
	}
}

func TestScreenEnableTracingLogsCommands(t *testing.T) {
	spy := &spyLogger{}
	s := New(WithSize(5, 10), WithLogger(spy))
	s.EnableTracing()
	s.WriteString("x")
	if len(spy.lines) == 0 {
		t.Errorf("EnableTracing: no commands traced")
	}
}

// --- test doubles ---

type fakeWriter struct {
	data []byte
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *fakeWriter) String() string { return string(w.data) }

type bellFunc func()

func (f bellFunc) Ring() { f() }

type lifecycleFunc struct {
	resizeWindow      func(cols, rows int, inPixels bool)
	bufferChanged     func(kind BufferChangeKind)
	closed            func()
	selectionComplete func(text string)
}

func (l lifecycleFunc) ResizeWindow(cols, rows int, inPixels bool) {
	if l.resizeWindow != nil {
		l.resizeWindow(cols, rows, inPixels)
	}
}

func (l lifecycleFunc) BufferChanged(kind BufferChangeKind) {
	if l.bufferChanged != nil {
		l.bufferChanged(kind)
	}
}

func (l lifecycleFunc) Closed() {
	if l.closed != nil {
		l.closed()
	}
}

func (l lifecycleFunc) SelectionComplete(text string) {
	if l.selectionComplete != nil {
		l.selectionComplete(text)
	}
}

type spyLogger struct {
	lines []string
}

func (s *spyLogger) Tracef(format string, args ...any) {
	s.lines = append(s.lines, format)
}
