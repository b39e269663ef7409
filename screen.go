package vtterm

import (
	"io"
	"sync"
)

const (
	DefaultRows = 24
	DefaultCols = 80
)

// Option configures a Screen at construction time, the functional-options
// pattern used throughout this module for anything with more than one or
// two optional dependencies.
type Option func(*Screen)

// WithSize sets the initial viewport dimensions.
func WithSize(rows, cols int) Option {
	return func(s *Screen) { s.rows, s.cols = rows, cols }
}

// WithResponse sets where terminal responses (CPR, DA, DSR) are written.
func WithResponse(w ResponseProvider) Option {
	return func(s *Screen) { s.response = w }
}

func WithBell(p BellProvider) Option           { return func(s *Screen) { s.bell = p } }
func WithTitle(p TitleProvider) Option         { return func(s *Screen) { s.title = p } }
func WithClipboard(p ClipboardProvider) Option { return func(s *Screen) { s.clipboard = p } }
func WithNotify(p NotifyProvider) Option       { return func(s *Screen) { s.notify = p } }
func WithDynamicColors(p DynamicColorProvider) Option {
	return func(s *Screen) { s.dynamicColors = p }
}
func WithRecording(p RecordingProvider) Option { return func(s *Screen) { s.recording = p } }
func WithLogger(l Logger) Option               { return func(s *Screen) { s.logger = l } }

// WithLifecycle installs the host callback bundle for window resize
// requests, buffer-change notifications, shutdown, and selection
// completion.
func WithLifecycle(p LifecycleProvider) Option { return func(s *Screen) { s.lifecycle = p } }

// WithAutoScrollOnUpdate controls whether drawing/update commands reset the
// viewport back to the live screen (the default). Disable it for a host
// that wants to let the user keep reading scrollback while output arrives.
func WithAutoScrollOnUpdate(on bool) Option {
	return func(s *Screen) { s.autoScrollOnUpdate = on }
}

// WithScrollback enables in-memory scrollback storage capped at maxLines.
func WithScrollback(maxLines int) Option {
	return func(s *Screen) { s.scrollbackMax = maxLines }
}

// WithScrollbackProvider installs a custom scrollback store (e.g. backed by
// disk) instead of the default MemoryScrollback.
func WithScrollbackProvider(p ScrollbackProvider) Option {
	return func(s *Screen) { s.scrollbackProvider = p }
}

// WithAutoResize stores an auto-resize flag on the Screen. No buffer
// operation reads it: the primary buffer scrolls at the bottom row whether
// or not it is set, and its size changes only through Resize.
func WithAutoResize(on bool) Option {
	return func(s *Screen) { s.autoResize = on }
}

// WithSyncFlushTimeout overrides the safety-net flush delay applied to
// synchronized-output mode (2026) if the host never resets it. Defaults to
// 200ms (DirectExecutor/SyncExecutor, spec §4.E).
func WithSyncFlushTimeout(d int) Option {
	return func(s *Screen) { s.syncFlushMillis = d }
}

// Screen orchestrates everything needed to turn a byte stream into a
// rendered grid: a Parser, a Builder, a CommandVisitor-based Executor, the
// primary and alternate Buffers, and the host-facing provider callbacks
// (spec §4.E "Screen orchestration").
type Screen struct {
	mu sync.RWMutex

	rows, cols int

	primary   *Buffer
	alternate *Buffer
	altActive bool

	modes   *Modes
	parser  *Parser
	builder *Builder

	response      ResponseProvider
	bell          BellProvider
	title         TitleProvider
	clipboard     ClipboardProvider
	notify        NotifyProvider
	dynamicColors DynamicColorProvider
	recording     RecordingProvider
	logger        Logger
	lifecycle     LifecycleProvider

	scrollbackMax      int
	scrollbackProvider ScrollbackProvider

	autoResize         bool
	autoScrollOnUpdate bool
	syncFlushMillis    int

	executor Executor

	viewportOffset int // rows scrolled up from the live viewport; 0 = live
	selection      *Selection
}

// New creates a Screen ready to receive bytes. Defaults: 24x80, providers
// no-op except an in-memory dynamic-color store, no scrollback, and a
// SyncExecutor wrapping a DirectExecutor.
func New(opts ...Option) *Screen {
	s := &Screen{
		rows: DefaultRows, cols: DefaultCols,
		response:        NoopResponse{},
		bell:            NoopBell{},
		title:           NoopTitle{},
		clipboard:       NoopClipboard{},
		notify:          NoopNotify{},
		recording:          NoopRecording{},
		logger:             NoopLogger{},
		lifecycle:          NoopLifecycle{},
		autoScrollOnUpdate: true,
		syncFlushMillis:    200,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dynamicColors == nil {
		s.dynamicColors = newMemoryDynamicColors()
	}

	sb := s.scrollbackProvider
	if sb == nil {
		sb = NewMemoryScrollback(s.scrollbackMax)
	}

	s.primary = NewBufferWithStorage(s.rows, s.cols, sb)
	s.alternate = NewBufferWithStorage(s.rows, s.cols, NoopScrollback{})
	s.modes = NewModes()
	s.parser = NewParser()
	s.builder = NewBuilder(s.logger)
	s.selection = NewSelection(s)

	direct := &DirectExecutor{screen: s}
	s.executor = NewSyncExecutor(direct, s.syncFlushMillis)
	return s
}

// Active returns the currently visible buffer (primary or alternate).
func (s *Screen) Active() *Buffer {
	if s.altActive {
		return s.alternate
	}
	return s.primary
}

func (s *Screen) Primary() *Buffer   { return s.primary }
func (s *Screen) Alternate() *Buffer { return s.alternate }
func (s *Screen) Modes() *Modes      { return s.modes }
func (s *Screen) Rows() int          { return s.rows }
func (s *Screen) Cols() int          { return s.cols }

// Write implements io.Writer: bytes are recorded (if a RecordingProvider is
// installed), parsed, built into Commands, and executed, all under the
// Screen's write lock.
func (s *Screen) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recording.Record(data)
	s.parser.ParseFunc(data, func(seq Sequence) {
		for _, cmd := range s.builder.Build(seq) {
			s.executor.Execute(cmd)
			if s.autoScrollOnUpdate && s.viewportOffset != 0 && !nonDrawingCommand(cmd) {
				s.viewportOffset = 0
			}
		}
	})
	return len(data), nil
}

// WriteString is a convenience wrapper around Write.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

var _ io.Writer = (*Screen)(nil)

// Resize changes the viewport dimensions. The primary buffer re-flows
// wrapped lines (RewrapResize); the alternate buffer simply truncates/pads,
// matching most terminal emulators' treatment of full-screen applications
// that redraw on SIGWINCH anyway.
func (s *Screen) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows, s.cols = rows, cols
	s.primary.RewrapResize(rows, cols)
	s.alternate.Resize(rows, cols)
	s.viewportOffset = 0
}

// ScrollViewport moves the visible window into scrollback by delta rows
// (positive scrolls back in history, negative scrolls toward live).
func (s *Screen) ScrollViewport(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := s.primary.ScrollbackLen()
	s.viewportOffset = clamp(s.viewportOffset+delta, 0, max)
}

// ResetViewport snaps the visible window back to the live screen.
func (s *Screen) ResetViewport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportOffset = 0
}

// ViewportOffset reports how many rows above the live screen the view
// currently sits (0 means live).
func (s *Screen) ViewportOffset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewportOffset
}

// ViewLine returns the content of the row at the given viewport-relative
// index (0 is the topmost visible row given the current scroll offset),
// transparently crossing from scrollback into the live grid.
func (s *Screen) ViewLine(viewportRow int) Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLineLocked(viewportRow)
}

func (s *Screen) viewLineLocked(viewportRow int) Line {
	active := s.Active()
	sbLen := active.ScrollbackLen()
	absolute := viewportRow - s.viewportOffset + sbLen
	if absolute < 0 {
		return Line{}
	}
	if absolute < sbLen {
		return active.ScrollbackLine(absolute)
	}
	row := absolute - sbLen
	l := active.Line(row)
	if l == nil {
		return Line{}
	}
	return *l
}

// SelectionEngine returns the screen's selection engine (spec §4.F).
func (s *Screen) SelectionEngine() *Selection { return s.selection }

// AbsoluteLine returns the line at an absolute row index: 0 is the oldest
// scrollback line, and indices at or beyond the scrollback length address
// the live grid. This single addressing scheme is what lets a Selection
// span scrollback and live content uniformly regardless of the current
// viewport scroll offset (spec §4.F, §9 Open Question on coordinates).
func (s *Screen) AbsoluteLine(row int) Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.absoluteLineLocked(row)
}

func (s *Screen) absoluteLineLocked(row int) Line {
	active := s.Active()
	sbLen := active.ScrollbackLen()
	if row < 0 {
		return Line{}
	}
	if row < sbLen {
		return active.ScrollbackLine(row)
	}
	l := active.Line(row - sbLen)
	if l == nil {
		return Line{}
	}
	return *l
}

// AbsoluteLineCount returns the total number of addressable rows: scrollback
// plus the live grid.
func (s *Screen) AbsoluteLineCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := s.Active()
	return active.ScrollbackLen() + active.Rows()
}

// ViewportToAbsolute converts a viewport-relative row (0 = topmost visible
// row at the current scroll offset) to an absolute row index.
func (s *Screen) ViewportToAbsolute(viewportRow int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := s.Active()
	return viewportRow - s.viewportOffset + active.ScrollbackLen()
}

// AbsoluteToViewport converts an absolute row index back to a viewport-
// relative row at the current scroll offset.
func (s *Screen) AbsoluteToViewport(row int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	active := s.Active()
	return row - active.ScrollbackLen() + s.viewportOffset
}

// reply writes a response sequence back toward the host, ignoring write
// errors beyond logging them — a full PTY is not this module's concern, and
// a blocked reply channel shouldn't panic the parser loop (spec's ambient
// error-handling convention: only I/O at the boundary is ever surfaced).
func (s *Screen) reply(data string) {
	if _, err := s.response.Write([]byte(data)); err != nil {
		s.logger.Tracef("vtterm: reply write failed: %v", err)
	}
}

// Close notifies the installed LifecycleProvider that the session is
// shutting down. It does not release any other Screen resources.
func (s *Screen) Close() {
	s.lifecycle.Closed()
}

// ScrollToMark jumps the cursor to the next (forward) or previous
// (!forward) marked row (set by OSC 133 through SetMarkCommand, or by
// Buffer.SetMark), relative
// to its current position. No-op if there is no such mark.
func (s *Screen) ScrollToMark(forward bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executor.Execute(ScrollToMarkCommand{Forward: forward})
}

// Flush forces any buffered synchronized-output commands to apply
// immediately, bypassing the mode-2026 coalescing window.
func (s *Screen) Flush() {
	if se, ok := s.executor.(*SyncExecutor); ok {
		se.Flush()
	}
}

// resetAll implements RIS (ESC c): both buffers are cleared, the primary's
// scrollback is dropped, cursors/pens/margins return to power-on defaults,
// the alternate screen is exited, and modes reset.
func (s *Screen) resetAll() {
	s.primary.ClearAll()
	s.primary.ClearScrollback()
	*s.primary.Cursor() = *NewCursor()
	*s.primary.Pen() = Pen{}
	s.primary.ResetMargins()

	s.alternate.ClearAll()
	*s.alternate.Cursor() = *NewCursor()
	*s.alternate.Pen() = Pen{}
	s.alternate.ResetMargins()

	s.altActive = false
	s.viewportOffset = 0
	s.modes = NewModes()
}
