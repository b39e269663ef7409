package vtterm

import (
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// Executor applies a Command to a Screen. DirectExecutor does it
// immediately; SyncExecutor wraps a DirectExecutor to honor synchronized
// output (mode 2026), coalescing a burst of commands so partial frames are
// never observable mid-update (spec §4.E).
type Executor interface {
	Execute(cmd Command)
}

// DirectExecutor is a CommandVisitor that mutates a Screen in place. It is
// the only place in this module where Command semantics are interpreted —
// everything upstream (Parser, Builder) is pure data transformation.
type DirectExecutor struct {
	screen *Screen
}

var _ Executor = (*DirectExecutor)(nil)
var _ CommandVisitor = (*DirectExecutor)(nil)

func (e *DirectExecutor) Execute(cmd Command) { cmd.Accept(e) }

func (e *DirectExecutor) buf() *Buffer { return e.screen.Active() }

func (e *DirectExecutor) resolveRow(buf *Buffer, row int) int {
	cur := buf.Cursor()
	top, bottom, _, _ := buf.Margins()
	if cur.OriginMode {
		return clamp(row+top, top, bottom-1)
	}
	return clamp(row, 0, buf.Rows()-1)
}

func (e *DirectExecutor) resolveCol(buf *Buffer, col int) int {
	cur := buf.Cursor()
	_, _, left, right := buf.Margins()
	if cur.OriginMode {
		return clamp(col+left, left, right-1)
	}
	return clamp(col, 0, buf.Cols()-1)
}

func (e *DirectExecutor) homeCursor(buf *Buffer) {
	cur := buf.Cursor()
	top, _, left, _ := buf.Margins()
	if cur.OriginMode {
		cur.Row, cur.Col = top, left
	} else {
		cur.Row, cur.Col = 0, 0
	}
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitPrint(c PrintCommand) {
	buf := e.buf()
	buf.WriteRune(c.Rune, e.screen.modes.Has(ModeAutoWrap), e.screen.modes.Has(ModeInsert))
}

func (e *DirectExecutor) VisitBell(c BellCommand) { e.screen.bell.Ring() }

func (e *DirectExecutor) VisitBackspace(c BackspaceCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	_, _, left, _ := buf.Margins()
	if cur.Col > left {
		cur.Col--
	}
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitCarriageReturn(c CarriageReturnCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	_, _, left, _ := buf.Margins()
	cur.Col = left
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitLineFeed(c LineFeedCommand) {
	buf := e.buf()
	buf.Cursor().WrapPending = false
	buf.advanceRowWithScroll()
}

func (e *DirectExecutor) VisitNextLine(c NextLineCommand) {
	buf := e.buf()
	_, _, left, _ := buf.Margins()
	buf.Cursor().WrapPending = false
	buf.advanceRowWithScroll()
	buf.Cursor().Col = left
}

func (e *DirectExecutor) VisitIndex(c IndexCommand) {
	buf := e.buf()
	buf.Cursor().WrapPending = false
	buf.advanceRowWithScroll()
}

func (e *DirectExecutor) VisitReverseIndex(c ReverseIndexCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	top, bottom, left, right := buf.Margins()
	cur.WrapPending = false
	if cur.Row <= top {
		buf.ScrollDown(top, bottom, left, right, 1)
	} else {
		cur.Row--
	}
}

func (e *DirectExecutor) VisitTab(c TabCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	cur.Col = buf.NextTabStop(cur.Col)
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitBackTab(c BackTabCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	for i := 0; i < c.Count; i++ {
		cur.Col = buf.PrevTabStop(cur.Col)
	}
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitHorizontalTabSet(c HorizontalTabSetCommand) {
	buf := e.buf()
	buf.SetTabStop(buf.Cursor().Col)
}

func (e *DirectExecutor) VisitClearTabs(c ClearTabsCommand) {
	buf := e.buf()
	if c.Mode == 3 {
		buf.ClearAllTabStops()
	} else {
		buf.ClearTabStop(buf.Cursor().Col)
	}
}

func (e *DirectExecutor) VisitGoto(c GotoCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	cur.Row = e.resolveRow(buf, c.Row)
	cur.Col = e.resolveCol(buf, c.Col)
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitGotoLine(c GotoLineCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	cur.Row = e.resolveRow(buf, c.Line)
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitGotoCol(c GotoColCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	cur.Col = e.resolveCol(buf, c.Col)
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitMoveCursor(c MoveCursorCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	top, bottom, left, right := buf.Margins()
	switch c.Dir {
	case DirUp:
		cur.Row = clamp(cur.Row-c.Count, top, bottom-1)
	case DirDown:
		cur.Row = clamp(cur.Row+c.Count, top, bottom-1)
	case DirForward:
		cur.Col = clamp(cur.Col+c.Count, left, right-1)
	case DirBackward:
		cur.Col = clamp(cur.Col-c.Count, left, right-1)
	}
	if c.CarriageReturn {
		cur.Col = left
	}
	cur.WrapPending = false
}

func (e *DirectExecutor) VisitInsertBlank(c InsertBlankCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	buf.InsertBlanks(cur.Row, cur.Col, c.Count)
}

func (e *DirectExecutor) VisitDeleteChars(c DeleteCharsCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	buf.DeleteChars(cur.Row, cur.Col, c.Count)
}

func (e *DirectExecutor) VisitEraseChars(c EraseCharsCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	buf.EraseChars(cur.Row, cur.Col, c.Count)
}

func (e *DirectExecutor) VisitInsertLines(c InsertLinesCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	_, bottom, _, _ := buf.Margins()
	if cur.Row < bottom {
		buf.InsertLines(cur.Row, bottom, c.Count)
	}
}

func (e *DirectExecutor) VisitDeleteLines(c DeleteLinesCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	_, bottom, _, _ := buf.Margins()
	if cur.Row < bottom {
		buf.DeleteLines(cur.Row, bottom, c.Count)
	}
}

func (e *DirectExecutor) VisitClearLine(c ClearLineCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	switch c.Mode {
	case 0:
		buf.ClearRowRange(cur.Row, cur.Col, buf.Cols())
	case 1:
		buf.ClearRowRange(cur.Row, 0, cur.Col+1)
	default:
		buf.ClearRow(cur.Row)
	}
}

func (e *DirectExecutor) VisitClearScreen(c ClearScreenCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	switch c.Mode {
	case 0:
		buf.ClearRowRange(cur.Row, cur.Col, buf.Cols())
		for r := cur.Row + 1; r < buf.Rows(); r++ {
			buf.ClearRow(r)
		}
	case 1:
		for r := 0; r < cur.Row; r++ {
			buf.ClearRow(r)
		}
		buf.ClearRowRange(cur.Row, 0, cur.Col+1)
	case 2:
		buf.ClearAll()
	case 3:
		buf.ClearAll()
		buf.ClearScrollback()
	}
}

func (e *DirectExecutor) VisitScrollUp(c ScrollUpCommand) {
	buf := e.buf()
	top, bottom, left, right := buf.Margins()
	buf.ScrollUp(top, bottom, left, right, c.Count)
}

func (e *DirectExecutor) VisitScrollDown(c ScrollDownCommand) {
	buf := e.buf()
	top, bottom, left, right := buf.Margins()
	buf.ScrollDown(top, bottom, left, right, c.Count)
}

func (e *DirectExecutor) VisitSaveCursor(c SaveCursorCommand) { e.buf().SaveCursor() }
func (e *DirectExecutor) VisitRestoreCursor(c RestoreCursorCommand) { e.buf().RestoreCursor() }

func (e *DirectExecutor) VisitSetScrollingRegion(c SetScrollingRegionCommand) {
	buf := e.buf()
	buf.SetScrollRegion(c.Top, c.Bottom)
	e.homeCursor(buf)
}

func (e *DirectExecutor) VisitSetLeftRightMargins(c SetLeftRightMarginsCommand) {
	buf := e.buf()
	buf.SetLeftRightMargins(c.Left, c.Right)
	e.homeCursor(buf)
}

func (e *DirectExecutor) VisitSetMode(c SetModeCommand) {
	e.screen.modes.Set(c.Mode)
	e.applyModeSideEffects(c.Mode, true)
}

func (e *DirectExecutor) VisitResetMode(c ResetModeCommand) {
	e.screen.modes.Reset(c.Mode)
	e.applyModeSideEffects(c.Mode, false)
}

func (e *DirectExecutor) applyModeSideEffects(mode TerminalMode, on bool) {
	buf := e.buf()
	switch mode {
	case ModeCursorVisible:
		buf.Cursor().Visible = on
	case ModeOriginMode:
		buf.Cursor().OriginMode = on
		e.homeCursor(buf)
	}
}

func (e *DirectExecutor) VisitSwitchScreen(c SwitchScreenCommand) {
	s := e.screen
	switch {
	case c.Alt && !s.altActive:
		if c.SaveCursor {
			s.primary.SaveCursor()
		}
		s.altActive = true
		if c.ClearOnExit {
			s.alternate.ClearAll()
		}
		s.lifecycle.BufferChanged(BufferChangedScreenSwitch)
	case !c.Alt && s.altActive:
		s.altActive = false
		if c.SaveCursor {
			s.primary.RestoreCursor()
		}
		s.lifecycle.BufferChanged(BufferChangedScreenSwitch)
	}
}

func (e *DirectExecutor) VisitSetForeground(c SetForegroundCommand) { e.buf().Pen().Fg = c.Color }
func (e *DirectExecutor) VisitSetBackground(c SetBackgroundCommand) { e.buf().Pen().Bg = c.Color }
func (e *DirectExecutor) VisitSetUnderlineColor(c SetUnderlineColorCommand) {
	e.buf().Pen().UnderlineColor = c.Color
}

func (e *DirectExecutor) VisitSetAttr(c SetAttrCommand) {
	pen := e.buf().Pen()
	if c.On {
		pen.Flags |= c.Flags
	} else {
		pen.Flags &^= c.Flags
	}
}

func (e *DirectExecutor) VisitResetAttrs(c ResetAttrsCommand) {
	pen := e.buf().Pen()
	*pen = Pen{}
}

func (e *DirectExecutor) VisitConfigureCharset(c ConfigureCharsetCommand) {
	e.buf().DesignateCharset(c.Slot, c.Charset)
}

func (e *DirectExecutor) VisitSetActiveCharset(c SetActiveCharsetCommand) {
	e.buf().SetActiveCharset(c.Slot)
}

func (e *DirectExecutor) VisitDeviceStatusReport(c DeviceStatusReportCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	switch c.Param {
	case 5:
		e.screen.reply("\x1b[0n")
	case 6:
		row, col := cur.Row+1, cur.Col+1
		if cur.OriginMode {
			top, _, left, _ := buf.Margins()
			row, col = row-top, col-left
		}
		if c.Private {
			e.screen.reply(GenerateDECXCPR(row, col))
		} else {
			e.screen.reply(GenerateCPR(row, col))
		}
	}
}

func (e *DirectExecutor) VisitIdentifyTerminal(c IdentifyTerminalCommand) {
	e.screen.reply(GenerateDA1())
}

func (e *DirectExecutor) VisitSetTitle(c SetTitleCommand) {
	e.screen.title.SetTitle(c.Title)
	e.screen.lifecycle.BufferChanged(BufferChangedTitle)
}
func (e *DirectExecutor) VisitPushTitle(c PushTitleCommand) { e.screen.title.PushTitle() }
func (e *DirectExecutor) VisitPopTitle(c PopTitleCommand)   { e.screen.title.PopTitle() }

func (e *DirectExecutor) VisitSetHyperlink(c SetHyperlinkCommand) {
	buf := e.buf()
	if c.URI == "" {
		buf.SetCurrentHyperlink(nil)
		return
	}
	buf.SetCurrentHyperlink(&Hyperlink{ID: c.ID, URI: c.URI})
}

func (e *DirectExecutor) VisitClipboard(c ClipboardCommand) {
	if c.Query {
		data := e.screen.clipboard.Read(c.Selection)
		encoded := base64.StdEncoding.EncodeToString([]byte(data))
		e.screen.reply(fmt.Sprintf("\x1b]52;%c;%s\x07", c.Selection, encoded))
		return
	}
	e.screen.clipboard.Write(c.Selection, []byte(c.Data))
}

func (e *DirectExecutor) VisitNotify(c NotifyCommand) { e.screen.notify.Notify(c.Title, c.Body) }

func (e *DirectExecutor) VisitSetDynamicColor(c SetDynamicColorCommand) {
	e.screen.dynamicColors.Set(c.Index, c.Color)
}

func (e *DirectExecutor) VisitResetDynamicColor(c ResetDynamicColorCommand) {
	e.screen.dynamicColors.Reset(c.Index)
}

// dynamicColorOSCNumber maps a dynamic-color index back to the OSC number
// that should prefix a query reply (10/11/12 for the named default colors,
// 4 for an indexed palette slot).
func dynamicColorOSCNumber(index int) int {
	switch index {
	case -1:
		return 10
	case -2:
		return 11
	case -3:
		return 12
	default:
		return 4
	}
}

func (e *DirectExecutor) VisitQueryDynamicColor(c QueryDynamicColorCommand) {
	color := e.screen.dynamicColors.Get(c.Index)
	if color == nil {
		return
	}
	rgba := ResolveRGBA(color, c.Index != -2)
	num := dynamicColorOSCNumber(c.Index)
	body := fmt.Sprintf("rgb:%02x%02x/%02x%02x/%02x%02x", rgba.R, rgba.R, rgba.G, rgba.G, rgba.B, rgba.B)
	if num == 4 {
		e.screen.reply(fmt.Sprintf("\x1b]4;%d;%s\x07", c.Index, body))
	} else {
		e.screen.reply(fmt.Sprintf("\x1b]%d;%s\x07", num, body))
	}
}

func (e *DirectExecutor) VisitSetCursorStyle(c SetCursorStyleCommand) {
	e.buf().Cursor().Style = c.Style
}

func (e *DirectExecutor) VisitSetKeypadApplicationMode(c SetKeypadApplicationModeCommand) {
	if c.On {
		e.screen.modes.Set(ModeApplicationKeypad)
	} else {
		e.screen.modes.Reset(ModeApplicationKeypad)
	}
}

func (e *DirectExecutor) VisitSetModifyOtherKeys(c SetModifyOtherKeysCommand) {
	e.screen.modes.SetModifyOtherKeys(c.Mode)
}

func (e *DirectExecutor) VisitPushKeyboardMode(c PushKeyboardModeCommand) {
	e.screen.modes.PushKeyboardFlags(c.Flags)
}

func (e *DirectExecutor) VisitPopKeyboardMode(c PopKeyboardModeCommand) {
	e.screen.modes.PopKeyboardFlags(c.Count)
}

func (e *DirectExecutor) VisitSetKeyboardMode(c SetKeyboardModeCommand) {
	e.screen.modes.SetKeyboardFlags(c.Flags, c.Mode)
}

func (e *DirectExecutor) VisitReportKeyboardMode(c ReportKeyboardModeCommand) {
	e.screen.reply(fmt.Sprintf("\x1b[?%du", e.screen.modes.KeyboardFlags()))
}

func (e *DirectExecutor) VisitReset(c ResetCommand) { e.screen.resetAll() }

func (e *DirectExecutor) VisitAlignmentTest(c AlignmentTestCommand) { e.buf().FillWithE() }

func (e *DirectExecutor) VisitSetMark(c SetMarkCommand) {
	buf := e.buf()
	buf.SetMark(buf.Cursor().Row)
}

func (e *DirectExecutor) VisitUnsupported(c UnsupportedCommand) {
	e.screen.logger.Tracef("vtterm: dropped unsupported command kind=%d", c.Raw.Kind)
}

// VisitResizeWindowRequest handles XTWINOPS (CSI t). Only the resize
// operations (4 = pixels, 8 = character cells) are interpreted; every other
// op (report size, iconify, de-iconify, ...) is outside this module's scope
// and only traced.
func (e *DirectExecutor) VisitResizeWindowRequest(c ResizeWindowRequestCommand) {
	switch c.Op {
	case 4:
		e.screen.lifecycle.ResizeWindow(c.B, c.A, true)
	case 8:
		e.screen.lifecycle.ResizeWindow(c.B, c.A, false)
	default:
		e.screen.logger.Tracef("vtterm: unsupported XTWINOPS op=%d", c.Op)
	}
}

func (e *DirectExecutor) VisitScrollToMark(c ScrollToMarkCommand) {
	buf := e.buf()
	cur := buf.Cursor()
	var row int
	if c.Forward {
		row = buf.FindMarkerForward(cur.Row + 1)
	} else {
		row = buf.FindMarkerBackward(cur.Row - 1)
	}
	if row < 0 {
		return
	}
	cur.Row = row
	cur.WrapPending = false
}

// SyncExecutor wraps another Executor, buffering commands while
// synchronized-output mode (2026) is active so partial frames never reach
// the underlying Screen, and force-flushing after a timeout in case the
// host forgets to reset the mode (spec §4.E).
type SyncExecutor struct {
	next          Executor
	timeoutMillis int

	mu        sync.Mutex
	buffering bool
	queue     []Command
	timer     *time.Timer
}

var _ Executor = (*SyncExecutor)(nil)

// NewSyncExecutor wraps next with synchronized-output coalescing.
func NewSyncExecutor(next Executor, timeoutMillis int) *SyncExecutor {
	if timeoutMillis <= 0 {
		timeoutMillis = 200
	}
	return &SyncExecutor{next: next, timeoutMillis: timeoutMillis}
}

func (e *SyncExecutor) Execute(cmd Command) {
	e.mu.Lock()

	if sm, ok := cmd.(SetModeCommand); ok && sm.Mode == ModeSyncOutput {
		e.next.Execute(cmd)
		e.buffering = true
		e.armTimerLocked()
		e.mu.Unlock()
		return
	}
	if rm, ok := cmd.(ResetModeCommand); ok && rm.Mode == ModeSyncOutput {
		e.buffering = false
		e.disarmTimerLocked()
		pending := e.queue
		e.queue = nil
		e.mu.Unlock()
		e.next.Execute(cmd)
		for _, qc := range pending {
			e.next.Execute(qc)
		}
		return
	}

	if e.buffering && !nonDrawingCommand(cmd) {
		e.queue = append(e.queue, cmd)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.next.Execute(cmd)
}

func (e *SyncExecutor) armTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(time.Duration(e.timeoutMillis)*time.Millisecond, e.Flush)
}

func (e *SyncExecutor) disarmTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Flush applies any buffered commands immediately, as if mode 2026 had just
// been reset. Safe to call whether or not buffering is active.
func (e *SyncExecutor) Flush() {
	e.mu.Lock()
	if !e.buffering {
		e.mu.Unlock()
		return
	}
	e.buffering = false
	e.disarmTimerLocked()
	pending := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, c := range pending {
		e.next.Execute(c)
	}
}
