package vtterm

// Command is the closed set of operations the Builder produces from a
// Sequence and the Executor applies to a Screen (spec §4.B/§4.C "command
// algebra"). Every concrete type below implements Command via Accept, which
// dispatches to the matching CommandVisitor method — the standard Go
// closed-sum-type idiom used in place of a type switch at every call site.
type Command interface {
	Accept(v CommandVisitor)
}

// CommandVisitor receives exactly one call per Command processed.
// DirectExecutor implements this interface instead of a switch over a Kind
// enum; SyncExecutor and TraceExecutor implement Executor and forward
// commands to the executor they wrap.
type CommandVisitor interface {
	VisitPrint(c PrintCommand)
	VisitBell(c BellCommand)
	VisitBackspace(c BackspaceCommand)
	VisitCarriageReturn(c CarriageReturnCommand)
	VisitLineFeed(c LineFeedCommand)
	VisitNextLine(c NextLineCommand)
	VisitIndex(c IndexCommand)
	VisitReverseIndex(c ReverseIndexCommand)
	VisitTab(c TabCommand)
	VisitBackTab(c BackTabCommand)
	VisitHorizontalTabSet(c HorizontalTabSetCommand)
	VisitClearTabs(c ClearTabsCommand)
	VisitGoto(c GotoCommand)
	VisitGotoLine(c GotoLineCommand)
	VisitGotoCol(c GotoColCommand)
	VisitMoveCursor(c MoveCursorCommand)
	VisitInsertBlank(c InsertBlankCommand)
	VisitDeleteChars(c DeleteCharsCommand)
	VisitEraseChars(c EraseCharsCommand)
	VisitInsertLines(c InsertLinesCommand)
	VisitDeleteLines(c DeleteLinesCommand)
	VisitClearLine(c ClearLineCommand)
	VisitClearScreen(c ClearScreenCommand)
	VisitScrollUp(c ScrollUpCommand)
	VisitScrollDown(c ScrollDownCommand)
	VisitSaveCursor(c SaveCursorCommand)
	VisitRestoreCursor(c RestoreCursorCommand)
	VisitSetScrollingRegion(c SetScrollingRegionCommand)
	VisitSetLeftRightMargins(c SetLeftRightMarginsCommand)
	VisitSetMode(c SetModeCommand)
	VisitResetMode(c ResetModeCommand)
	VisitSwitchScreen(c SwitchScreenCommand)
	VisitSetForeground(c SetForegroundCommand)
	VisitSetBackground(c SetBackgroundCommand)
	VisitSetUnderlineColor(c SetUnderlineColorCommand)
	VisitSetAttr(c SetAttrCommand)
	VisitResetAttrs(c ResetAttrsCommand)
	VisitConfigureCharset(c ConfigureCharsetCommand)
	VisitSetActiveCharset(c SetActiveCharsetCommand)
	VisitDeviceStatusReport(c DeviceStatusReportCommand)
	VisitIdentifyTerminal(c IdentifyTerminalCommand)
	VisitSetTitle(c SetTitleCommand)
	VisitPushTitle(c PushTitleCommand)
	VisitPopTitle(c PopTitleCommand)
	VisitSetHyperlink(c SetHyperlinkCommand)
	VisitClipboard(c ClipboardCommand)
	VisitNotify(c NotifyCommand)
	VisitSetDynamicColor(c SetDynamicColorCommand)
	VisitResetDynamicColor(c ResetDynamicColorCommand)
	VisitQueryDynamicColor(c QueryDynamicColorCommand)
	VisitSetCursorStyle(c SetCursorStyleCommand)
	VisitSetKeypadApplicationMode(c SetKeypadApplicationModeCommand)
	VisitSetModifyOtherKeys(c SetModifyOtherKeysCommand)
	VisitPushKeyboardMode(c PushKeyboardModeCommand)
	VisitPopKeyboardMode(c PopKeyboardModeCommand)
	VisitSetKeyboardMode(c SetKeyboardModeCommand)
	VisitReportKeyboardMode(c ReportKeyboardModeCommand)
	VisitReset(c ResetCommand)
	VisitAlignmentTest(c AlignmentTestCommand)
	VisitSetMark(c SetMarkCommand)
	VisitResizeWindowRequest(c ResizeWindowRequestCommand)
	VisitScrollToMark(c ScrollToMarkCommand)
	VisitUnsupported(c UnsupportedCommand)
}

// CursorDirection names the four relative-move directions shared by
// MoveCursorCommand (CUU/CUD/CUF/CUB and their carriage-return variants).
type CursorDirection int

const (
	DirUp CursorDirection = iota
	DirDown
	DirForward
	DirBackward
)

type PrintCommand struct {
	Rune rune
}

type BellCommand struct{}
type BackspaceCommand struct{}
type CarriageReturnCommand struct{}
type LineFeedCommand struct{}
type NextLineCommand struct{}
type IndexCommand struct{}
type ReverseIndexCommand struct{}
type TabCommand struct{}

// BackTabCommand is CBT: move back Count tab stops.
type BackTabCommand struct {
	Count int
}

type HorizontalTabSetCommand struct{}

// ClearTabsCommand is TBC: Mode 0 clears the stop at the cursor, Mode 3
// clears every stop.
type ClearTabsCommand struct {
	Mode int
}

// GotoCommand is CUP/HVP: move to an absolute (Row, Col), both 0-based;
// the executor offsets them by the margins when origin mode is active.
type GotoCommand struct {
	Row, Col int
}

type GotoLineCommand struct {
	Line int
}

type GotoColCommand struct {
	Col int
}

// MoveCursorCommand is the relative-move family (CUU/CUD/CUF/CUB and the
// CNL/CPL variants that also return to the left margin).
type MoveCursorCommand struct {
	Dir             CursorDirection
	Count           int
	CarriageReturn  bool
}

type InsertBlankCommand struct {
	Count int
}

type DeleteCharsCommand struct {
	Count int
}

type EraseCharsCommand struct {
	Count int
}

type InsertLinesCommand struct {
	Count int
}

type DeleteLinesCommand struct {
	Count int
}

// ClearLineCommand is EL: Mode 0 cursor-to-end, 1 start-to-cursor, 2 whole line.
type ClearLineCommand struct {
	Mode int
}

// ClearScreenCommand is ED: Mode 0 cursor-to-end, 1 start-to-cursor, 2 whole
// screen, 3 whole screen plus scrollback.
type ClearScreenCommand struct {
	Mode int
}

type ScrollUpCommand struct {
	Count int
}

type ScrollDownCommand struct {
	Count int
}

type SaveCursorCommand struct{}
type RestoreCursorCommand struct{}

// SetScrollingRegionCommand is DECSTBM; Top/Bottom are 0-based, Top
// inclusive, Bottom exclusive.
type SetScrollingRegionCommand struct {
	Top, Bottom int
}

// SetLeftRightMarginsCommand is DECSLRM; Left/Right are 0-based, Left
// inclusive, Right exclusive.
type SetLeftRightMarginsCommand struct {
	Left, Right int
}

type SetModeCommand struct {
	Mode    TerminalMode
	Private bool
}

type ResetModeCommand struct {
	Mode    TerminalMode
	Private bool
}

// SwitchScreenCommand is produced when the Builder resolves DECSET/DECRST
// modes 47/1047/1049 into the screen-buffer-swap operation instead of a
// plain SetModeCommand, since swapping buffers is a Screen-level act, not a
// Buffer-level bit flip (spec §4.E). When ClearOnExit is set (1047/1049),
// the executor clears the alternate buffer as it switches to it.
type SwitchScreenCommand struct {
	Alt         bool
	SaveCursor  bool
	ClearOnExit bool
}

type SetForegroundCommand struct {
	Color Color
}

type SetBackgroundCommand struct {
	Color Color
}

type SetUnderlineColorCommand struct {
	Color Color
}

// SetAttrCommand toggles one or more SGR text-attribute flags.
type SetAttrCommand struct {
	Flags CellFlags
	On    bool
}

type ResetAttrsCommand struct{}

type ConfigureCharsetCommand struct {
	Slot    CharsetIndex
	Charset Charset
}

type SetActiveCharsetCommand struct {
	Slot CharsetIndex
}

// DeviceStatusReportCommand is DSR; Param 5 asks for status, 6 asks for
// cursor position. Private is true when the request carried the '?' marker
// (CSI ? 6 n), which asks for the extended DECXCPR reply form instead of
// plain CPR.
type DeviceStatusReportCommand struct {
	Param   int
	Private bool
}

type IdentifyTerminalCommand struct{}

// SetTitleCommand is OSC 0/1/2; Kind 0 sets both icon and window title, 1
// icon only, 2 window only.
type SetTitleCommand struct {
	Title string
	Kind  int
}

type PushTitleCommand struct{}
type PopTitleCommand struct{}

// SetHyperlinkCommand is OSC 8; an empty URI closes the currently open link.
type SetHyperlinkCommand struct {
	ID  string
	URI string
}

// ClipboardCommand is OSC 52; Query true means the host should report the
// current contents back instead of replacing them.
type ClipboardCommand struct {
	Selection byte
	Data      string
	Query     bool
}

type NotifyCommand struct {
	Title string
	Body  string
}

// SetDynamicColorCommand is the set form of OSC 4/10/11/12.
type SetDynamicColorCommand struct {
	Index int
	Color Color
}

type ResetDynamicColorCommand struct {
	Index int
}

type QueryDynamicColorCommand struct {
	Index int
}

type SetCursorStyleCommand struct {
	Style CursorStyle
}

type SetKeypadApplicationModeCommand struct {
	On bool
}

// SetModifyOtherKeysCommand is xterm's modifyOtherKeys setting (CSI > 4 ; n m).
type SetModifyOtherKeysCommand struct {
	Mode int
}

// PushKeyboardModeCommand is the Kitty keyboard protocol's CSI > flags u.
type PushKeyboardModeCommand struct {
	Flags int
}

type PopKeyboardModeCommand struct {
	Count int
}

// SetKeyboardModeCommand is CSI = flags ; mode u: mode 1 sets flags, 2 adds,
// 3 removes the given bits.
type SetKeyboardModeCommand struct {
	Flags int
	Mode  int
}

type ReportKeyboardModeCommand struct{}

// ResetCommand is RIS (ESC c): full terminal reset.
type ResetCommand struct{}

// AlignmentTestCommand is DECALN (ESC # 8).
type AlignmentTestCommand struct{}

// SetMarkCommand flags the cursor's current row as a marker (this module's
// generalization of shell-integration "prompt start" OSC sequences into a
// single marker concept usable by any OSC or application convention).
type SetMarkCommand struct{}

// ResizeWindowRequestCommand is XTWINOPS (CSI t): Op selects the operation
// (8 = resize in character cells, 4 = resize in pixels); A/B carry the
// rows/height and cols/width parameters respectively, in that order.
type ResizeWindowRequestCommand struct {
	Op   int
	A, B int
}

// ScrollToMarkCommand jumps the cursor to the nearest row SetMarkCommand
// flagged in the given direction — the shell-integration "jump to
// previous/next prompt" action. No VT sequence produces this directly; it
// is issued by Screen.ScrollToMark on behalf of a host UI gesture.
type ScrollToMarkCommand struct {
	Forward bool
}

// UnsupportedCommand carries a Sequence the Builder recognized syntactically
// but chose not to interpret, so callers can log or ignore it uniformly
// instead of the Builder silently dropping data.
type UnsupportedCommand struct {
	Raw Sequence
}

func (c PrintCommand) Accept(v CommandVisitor)                     { v.VisitPrint(c) }
func (c BellCommand) Accept(v CommandVisitor)                      { v.VisitBell(c) }
func (c BackspaceCommand) Accept(v CommandVisitor)                 { v.VisitBackspace(c) }
func (c CarriageReturnCommand) Accept(v CommandVisitor)             { v.VisitCarriageReturn(c) }
func (c LineFeedCommand) Accept(v CommandVisitor)                  { v.VisitLineFeed(c) }
func (c NextLineCommand) Accept(v CommandVisitor)                  { v.VisitNextLine(c) }
func (c IndexCommand) Accept(v CommandVisitor)                     { v.VisitIndex(c) }
func (c ReverseIndexCommand) Accept(v CommandVisitor)              { v.VisitReverseIndex(c) }
func (c TabCommand) Accept(v CommandVisitor)                       { v.VisitTab(c) }
func (c BackTabCommand) Accept(v CommandVisitor)                   { v.VisitBackTab(c) }
func (c HorizontalTabSetCommand) Accept(v CommandVisitor)           { v.VisitHorizontalTabSet(c) }
func (c ClearTabsCommand) Accept(v CommandVisitor)                  { v.VisitClearTabs(c) }
func (c GotoCommand) Accept(v CommandVisitor)                       { v.VisitGoto(c) }
func (c GotoLineCommand) Accept(v CommandVisitor)                   { v.VisitGotoLine(c) }
func (c GotoColCommand) Accept(v CommandVisitor)                    { v.VisitGotoCol(c) }
func (c MoveCursorCommand) Accept(v CommandVisitor)                 { v.VisitMoveCursor(c) }
func (c InsertBlankCommand) Accept(v CommandVisitor)                { v.VisitInsertBlank(c) }
func (c DeleteCharsCommand) Accept(v CommandVisitor)                { v.VisitDeleteChars(c) }
func (c EraseCharsCommand) Accept(v CommandVisitor)                 { v.VisitEraseChars(c) }
func (c InsertLinesCommand) Accept(v CommandVisitor)                { v.VisitInsertLines(c) }
func (c DeleteLinesCommand) Accept(v CommandVisitor)                { v.VisitDeleteLines(c) }
func (c ClearLineCommand) Accept(v CommandVisitor)                  { v.VisitClearLine(c) }
func (c ClearScreenCommand) Accept(v CommandVisitor)                { v.VisitClearScreen(c) }
func (c ScrollUpCommand) Accept(v CommandVisitor)                   { v.VisitScrollUp(c) }
func (c ScrollDownCommand) Accept(v CommandVisitor)                 { v.VisitScrollDown(c) }
func (c SaveCursorCommand) Accept(v CommandVisitor)                 { v.VisitSaveCursor(c) }
func (c RestoreCursorCommand) Accept(v CommandVisitor)              { v.VisitRestoreCursor(c) }
func (c SetScrollingRegionCommand) Accept(v CommandVisitor)         { v.VisitSetScrollingRegion(c) }
func (c SetLeftRightMarginsCommand) Accept(v CommandVisitor)        { v.VisitSetLeftRightMargins(c) }
func (c SetModeCommand) Accept(v CommandVisitor)                    { v.VisitSetMode(c) }
func (c ResetModeCommand) Accept(v CommandVisitor)                  { v.VisitResetMode(c) }
func (c SwitchScreenCommand) Accept(v CommandVisitor)               { v.VisitSwitchScreen(c) }
func (c SetForegroundCommand) Accept(v CommandVisitor)              { v.VisitSetForeground(c) }
func (c SetBackgroundCommand) Accept(v CommandVisitor)              { v.VisitSetBackground(c) }
func (c SetUnderlineColorCommand) Accept(v CommandVisitor)          { v.VisitSetUnderlineColor(c) }
func (c SetAttrCommand) Accept(v CommandVisitor)                    { v.VisitSetAttr(c) }
func (c ResetAttrsCommand) Accept(v CommandVisitor)                 { v.VisitResetAttrs(c) }
func (c ConfigureCharsetCommand) Accept(v CommandVisitor)           { v.VisitConfigureCharset(c) }
func (c SetActiveCharsetCommand) Accept(v CommandVisitor)           { v.VisitSetActiveCharset(c) }
func (c DeviceStatusReportCommand) Accept(v CommandVisitor)         { v.VisitDeviceStatusReport(c) }
func (c IdentifyTerminalCommand) Accept(v CommandVisitor)           { v.VisitIdentifyTerminal(c) }
func (c SetTitleCommand) Accept(v CommandVisitor)                   { v.VisitSetTitle(c) }
func (c PushTitleCommand) Accept(v CommandVisitor)                  { v.VisitPushTitle(c) }
func (c PopTitleCommand) Accept(v CommandVisitor)                   { v.VisitPopTitle(c) }
func (c SetHyperlinkCommand) Accept(v CommandVisitor)               { v.VisitSetHyperlink(c) }
func (c ClipboardCommand) Accept(v CommandVisitor)                  { v.VisitClipboard(c) }
func (c NotifyCommand) Accept(v CommandVisitor)                     { v.VisitNotify(c) }
func (c SetDynamicColorCommand) Accept(v CommandVisitor)            { v.VisitSetDynamicColor(c) }
func (c ResetDynamicColorCommand) Accept(v CommandVisitor)          { v.VisitResetDynamicColor(c) }
func (c QueryDynamicColorCommand) Accept(v CommandVisitor)          { v.VisitQueryDynamicColor(c) }
func (c SetCursorStyleCommand) Accept(v CommandVisitor)             { v.VisitSetCursorStyle(c) }
func (c SetKeypadApplicationModeCommand) Accept(v CommandVisitor)   { v.VisitSetKeypadApplicationMode(c) }
func (c SetModifyOtherKeysCommand) Accept(v CommandVisitor)         { v.VisitSetModifyOtherKeys(c) }
func (c PushKeyboardModeCommand) Accept(v CommandVisitor)           { v.VisitPushKeyboardMode(c) }
func (c PopKeyboardModeCommand) Accept(v CommandVisitor)            { v.VisitPopKeyboardMode(c) }
func (c SetKeyboardModeCommand) Accept(v CommandVisitor)            { v.VisitSetKeyboardMode(c) }
func (c ReportKeyboardModeCommand) Accept(v CommandVisitor)         { v.VisitReportKeyboardMode(c) }
func (c ResetCommand) Accept(v CommandVisitor)                      { v.VisitReset(c) }
func (c AlignmentTestCommand) Accept(v CommandVisitor)               { v.VisitAlignmentTest(c) }
func (c SetMarkCommand) Accept(v CommandVisitor)                    { v.VisitSetMark(c) }
func (c ResizeWindowRequestCommand) Accept(v CommandVisitor)         { v.VisitResizeWindowRequest(c) }
func (c ScrollToMarkCommand) Accept(v CommandVisitor)                { v.VisitScrollToMark(c) }
func (c UnsupportedCommand) Accept(v CommandVisitor)                 { v.VisitUnsupported(c) }

// nonDrawingCommand reports whether cmd is a host-communication command
// (a reply trigger, clipboard transfer, or out-of-band notification) rather
// than something that mutates the visible grid. SyncExecutor forwards these
// immediately even while synchronized-output buffering is active, and
// Screen.Write's auto-scroll-to-bottom policy ignores them.
func nonDrawingCommand(cmd Command) bool {
	switch cmd.(type) {
	case DeviceStatusReportCommand, IdentifyTerminalCommand, ReportKeyboardModeCommand,
		ClipboardCommand, QueryDynamicColorCommand, NotifyCommand,
		SetTitleCommand, PushTitleCommand, PopTitleCommand,
		SetDynamicColorCommand, ResetDynamicColorCommand,
		ResizeWindowRequestCommand, SetMarkCommand, UnsupportedCommand:
		return true
	default:
		return false
	}
}
