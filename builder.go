package vtterm

import (
	"bytes"
	"encoding/base64"
	"strconv"
)

// Builder turns one Sequence into zero or more Commands. It holds no
// terminal state of its own — final-byte/marker/intermediate dispatch plus
// default-parameter substitution is a pure function, exactly like the
// teacher's handler dispatch but retargeted at producing data instead of
// mutating a Terminal directly (spec §4.B "command algebra").
type Builder struct {
	logger Logger
}

// NewBuilder creates a Builder. A nil logger is replaced with NoopLogger.
func NewBuilder(logger Logger) *Builder {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Builder{logger: logger}
}

// param returns params[i] if present and non-zero, otherwise def — the
// standard VT "0 or omitted means default" rule.
func param(params []int, i, def int) int {
	if i < 0 || i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

// paramRaw returns params[i] if present, otherwise def, without the
// zero-means-default substitution (needed by SGR color sub-selectors where
// 0 is a meaningful index).
func paramRaw(params []int, i, def int) int {
	if i < 0 || i >= len(params) {
		return def
	}
	return params[i]
}

// Build dispatches a Sequence to the matching Command(s).
func (b *Builder) Build(seq Sequence) []Command {
	switch seq.Kind {
	case SeqPrint:
		return []Command{PrintCommand{Rune: seq.Rune}}
	case SeqControl:
		return b.buildControl(seq.Byte)
	case SeqEscape:
		return b.buildEscape(seq)
	case SeqCSI:
		return b.buildCSI(seq)
	case SeqOSC:
		return b.buildOSC(seq.Data)
	case SeqDCS, SeqAPC, SeqPM, SeqSOS:
		b.logger.Tracef("vtterm: unsupported string sequence kind=%d len=%d", seq.Kind, len(seq.Data))
		return []Command{UnsupportedCommand{Raw: seq}}
	default:
		return nil
	}
}

func (b *Builder) buildControl(c byte) []Command {
	switch c {
	case 0x07:
		return []Command{BellCommand{}}
	case 0x08:
		return []Command{BackspaceCommand{}}
	case 0x09:
		return []Command{TabCommand{}}
	case 0x0a, 0x0b, 0x0c:
		return []Command{LineFeedCommand{}}
	case 0x0d:
		return []Command{CarriageReturnCommand{}}
	case 0x0e:
		return []Command{SetActiveCharsetCommand{Slot: CharsetIndexG1}}
	case 0x0f:
		return []Command{SetActiveCharsetCommand{Slot: CharsetIndexG0}}
	default:
		return nil
	}
}

func (b *Builder) buildEscape(seq Sequence) []Command {
	// Charset designation: ESC ( / ) / * / + <final> selects G0-G3.
	if len(seq.Intermediates) == 1 {
		slot, isCharsetSlot := charsetSlot(seq.Intermediates[0])
		if isCharsetSlot {
			return []Command{ConfigureCharsetCommand{Slot: slot, Charset: charsetFromFinal(seq.Final)}}
		}
		if seq.Intermediates[0] == '#' && seq.Final == '8' {
			return []Command{AlignmentTestCommand{}}
		}
	}

	switch seq.Final {
	case '7':
		return []Command{SaveCursorCommand{}}
	case '8':
		return []Command{RestoreCursorCommand{}}
	case 'c':
		return []Command{ResetCommand{}}
	case 'D':
		return []Command{IndexCommand{}}
	case 'M':
		return []Command{ReverseIndexCommand{}}
	case 'E':
		return []Command{NextLineCommand{}}
	case 'H':
		return []Command{HorizontalTabSetCommand{}}
	case '=':
		return []Command{SetKeypadApplicationModeCommand{On: true}}
	case '>':
		return []Command{SetKeypadApplicationModeCommand{On: false}}
	default:
		return nil
	}
}

func charsetSlot(intermediate byte) (CharsetIndex, bool) {
	switch intermediate {
	case '(':
		return CharsetIndexG0, true
	case ')':
		return CharsetIndexG1, true
	case '*':
		return CharsetIndexG2, true
	case '+':
		return CharsetIndexG3, true
	default:
		return 0, false
	}
}

func charsetFromFinal(final byte) Charset {
	switch final {
	case '0':
		return CharsetLineDrawing
	default:
		return CharsetASCII
	}
}

func (b *Builder) buildCSI(seq Sequence) []Command {
	n := param(seq.Params, 0, 1)
	private := seq.Marker == '?'

	switch seq.Final {
	case 'A':
		return []Command{MoveCursorCommand{Dir: DirUp, Count: n}}
	case 'B':
		return []Command{MoveCursorCommand{Dir: DirDown, Count: n}}
	case 'C', 'a':
		return []Command{MoveCursorCommand{Dir: DirForward, Count: n}}
	case 'D':
		return []Command{MoveCursorCommand{Dir: DirBackward, Count: n}}
	case 'E':
		return []Command{MoveCursorCommand{Dir: DirDown, Count: n, CarriageReturn: true}}
	case 'F':
		return []Command{MoveCursorCommand{Dir: DirUp, Count: n, CarriageReturn: true}}
	case 'G', '`':
		return []Command{GotoColCommand{Col: n - 1}}
	case 'H', 'f':
		row := param(seq.Params, 0, 1)
		col := param(seq.Params, 1, 1)
		return []Command{GotoCommand{Row: row - 1, Col: col - 1}}
	case 'I':
		cmds := make([]Command, n)
		for i := range cmds {
			cmds[i] = TabCommand{}
		}
		return cmds
	case 'J':
		return []Command{ClearScreenCommand{Mode: param(seq.Params, 0, 0)}}
	case 'K':
		return []Command{ClearLineCommand{Mode: param(seq.Params, 0, 0)}}
	case 'L':
		return []Command{InsertLinesCommand{Count: n}}
	case 'M':
		return []Command{DeleteLinesCommand{Count: n}}
	case 'P':
		return []Command{DeleteCharsCommand{Count: n}}
	case '@':
		return []Command{InsertBlankCommand{Count: n}}
	case 'S':
		return []Command{ScrollUpCommand{Count: n}}
	case 'T':
		return []Command{ScrollDownCommand{Count: n}}
	case 'X':
		return []Command{EraseCharsCommand{Count: n}}
	case 'Z':
		return []Command{BackTabCommand{Count: n}}
	case 'd':
		return []Command{GotoLineCommand{Line: n - 1}}
	case 'e':
		return []Command{MoveCursorCommand{Dir: DirDown, Count: n}}
	case 'g':
		return []Command{ClearTabsCommand{Mode: param(seq.Params, 0, 0)}}
	case 'c':
		return []Command{IdentifyTerminalCommand{}}
	case 'n':
		return []Command{DeviceStatusReportCommand{Param: param(seq.Params, 0, 0), Private: private}}
	case 'h':
		return b.buildModeChange(seq.Params, private, true)
	case 'l':
		return b.buildModeChange(seq.Params, private, false)
	case 'r':
		if len(seq.Params) >= 2 || len(seq.Params) == 0 {
			top := param(seq.Params, 0, 1)
			bottom := paramRaw(seq.Params, 1, 0)
			return []Command{SetScrollingRegionCommand{Top: top - 1, Bottom: bottom}}
		}
		return nil
	case 's':
		if len(seq.Params) >= 2 {
			left := param(seq.Params, 0, 1)
			right := paramRaw(seq.Params, 1, 0)
			return []Command{SetLeftRightMarginsCommand{Left: left - 1, Right: right}}
		}
		return []Command{SaveCursorCommand{}}
	case 'u':
		return b.buildCSIu(seq)
	case 'm':
		if seq.Marker == '>' {
			if param(seq.Params, 0, 0) == 4 {
				return []Command{SetModifyOtherKeysCommand{Mode: paramRaw(seq.Params, 1, 0)}}
			}
			return nil
		}
		return b.buildSGR(seq.Params, seq.Sub)
	case 't':
		return []Command{ResizeWindowRequestCommand{
			Op: param(seq.Params, 0, 0),
			A:  paramRaw(seq.Params, 1, 0),
			B:  paramRaw(seq.Params, 2, 0),
		}}
	case 'q':
		if len(seq.Intermediates) == 1 && seq.Intermediates[0] == ' ' {
			return []Command{SetCursorStyleCommand{Style: CursorStyle(param(seq.Params, 0, 1) - 1)}}
		}
		return nil
	case 'p':
		if len(seq.Intermediates) == 1 && seq.Intermediates[0] == '!' {
			return []Command{ResetCommand{}}
		}
		if private && len(seq.Intermediates) == 1 && seq.Intermediates[0] == '>' {
			return []Command{SetModifyOtherKeysCommand{Mode: param(seq.Params, 1, 0)}}
		}
		return nil
	default:
		b.logger.Tracef("vtterm: unsupported CSI final=%q marker=%q params=%v", seq.Final, seq.Marker, seq.Params)
		return []Command{UnsupportedCommand{Raw: seq}}
	}
}

func (b *Builder) buildCSIu(seq Sequence) []Command {
	switch seq.Marker {
	case '>':
		return []Command{PushKeyboardModeCommand{Flags: param(seq.Params, 0, 0)}}
	case '<':
		return []Command{PopKeyboardModeCommand{Count: param(seq.Params, 0, 1)}}
	case '=':
		return []Command{SetKeyboardModeCommand{Flags: param(seq.Params, 0, 0), Mode: param(seq.Params, 1, 1)}}
	case '?':
		return []Command{ReportKeyboardModeCommand{}}
	default:
		return []Command{RestoreCursorCommand{}}
	}
}

// csiModeBit maps a numeric DEC private mode code to its TerminalMode bit.
// ok is false for modes this module doesn't represent as a plain bit
// (handled instead as SwitchScreenCommand).
func csiModeBit(code int) (mode TerminalMode, ok bool) {
	switch code {
	case 1:
		return ModeApplicationCursorKeys, true
	case 3:
		return ModeColumn132, true
	case 5:
		return ModeReverseVideo, true
	case 6:
		return ModeOriginMode, true
	case 7:
		return ModeAutoWrap, true
	case 9:
		return ModeMouseX10, true
	case 25:
		return ModeCursorVisible, true
	case 66:
		return ModeApplicationKeypad, true
	case 1000:
		return ModeMouseNormal, true
	case 1002:
		return ModeMouseButtonEvent, true
	case 1003:
		return ModeMouseAnyEvent, true
	case 1004:
		return ModeFocusEvents, true
	case 1005:
		return ModeMouseUTF8, true
	case 1006:
		return ModeMouseSGR, true
	case 1015:
		return ModeMouseURXVT, true
	case 1048:
		return ModeSaveCursorDECSET, true
	case 2004:
		return ModeBracketedPaste, true
	case 2026:
		return ModeSyncOutput, true
	default:
		return 0, false
	}
}

func (b *Builder) buildModeChange(params []int, private, set bool) []Command {
	var out []Command
	for _, code := range params {
		if private && (code == 47 || code == 1047 || code == 1049) {
			out = append(out, SwitchScreenCommand{
				Alt:         set,
				SaveCursor:  code == 1049,
				ClearOnExit: code == 1047 || code == 1049,
			})
			continue
		}
		if !private {
			switch code {
			case 4:
				out = append(out, SetModeIRM(set))
				continue
			}
			continue
		}
		if bit, ok := csiModeBit(code); ok {
			if set {
				out = append(out, SetModeCommand{Mode: bit, Private: true})
			} else {
				out = append(out, ResetModeCommand{Mode: bit, Private: true})
			}
			continue
		}
		b.logger.Tracef("vtterm: unsupported mode code=%d private=%v set=%v", code, private, set)
	}
	return out
}

// SetModeIRM builds the ANSI (non-private) insert-mode command; kept as a
// helper since IRM is the one widely used non-private SM/RM mode.
func SetModeIRM(set bool) Command {
	if set {
		return SetModeCommand{Mode: ModeInsert, Private: false}
	}
	return ResetModeCommand{Mode: ModeInsert, Private: false}
}

// sgrColorFromParams interprets an SGR extended-color sub-sequence starting
// at params[i] (which must be 38, 48, or 58): either "5;idx" (256-color) or
// "2;r;g;b" (truecolor), or the colon form carried in sub ("38:5:idx",
// "38:2:r:g:b", "38:2:cs:r:g:b" / "38:2::r:g:b"). Returns the resolved Color
// and how many params (including the selector itself) were consumed.
func sgrColorFromParams(params []int, i int, sub []int) (Color, int) {
	if n := len(sub); n > 0 {
		start := 2
		if n == 4 {
			start = 1
		}
		switch {
		case sub[0] == 5 && n >= 2:
			return IndexedColor{Index: uint8(sub[1])}, 1
		case sub[0] == 2 && n >= start+3:
			return RGBColor{R: uint8(sub[start]), G: uint8(sub[start+1]), B: uint8(sub[start+2])}, 1
		}
		return nil, 1
	}
	if i+1 >= len(params) {
		return nil, 1
	}
	switch params[i+1] {
	case 5:
		if i+2 < len(params) {
			return IndexedColor{Index: uint8(params[i+2])}, 3
		}
		return nil, 2
	case 2:
		if i+4 < len(params) {
			return RGBColor{R: uint8(params[i+2]), G: uint8(params[i+3]), B: uint8(params[i+4])}, 5
		}
		return nil, 2
	default:
		return nil, 1
	}
}

// underlineAttrCommand resolves SGR 4, optionally extended with a
// colon-separated sub-parameter (e.g. "4:3" for curly underline, the form
// xterm/kitty use for undercurl), into the matching CellFlags toggle.
// sub is nil or empty for the plain "4" form.
func underlineAttrCommand(sub []int) Command {
	if len(sub) == 0 {
		return SetAttrCommand{Flags: CellFlagUnderline, On: true}
	}
	switch sub[0] {
	case 0:
		return SetAttrCommand{Flags: CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline, On: false}
	case 2:
		return SetAttrCommand{Flags: CellFlagDoubleUnderline, On: true}
	case 3:
		return SetAttrCommand{Flags: CellFlagCurlyUnderline, On: true}
	case 4:
		return SetAttrCommand{Flags: CellFlagDottedUnderline, On: true}
	case 5:
		return SetAttrCommand{Flags: CellFlagDashedUnderline, On: true}
	default:
		return SetAttrCommand{Flags: CellFlagUnderline, On: true}
	}
}

func (b *Builder) buildSGR(params []int, sub map[int][]int) []Command {
	if len(params) == 0 {
		params = []int{0}
	}
	var out []Command
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			out = append(out, ResetAttrsCommand{})
		case p == 1:
			out = append(out, SetAttrCommand{Flags: CellFlagBold, On: true})
		case p == 2:
			out = append(out, SetAttrCommand{Flags: CellFlagFaint, On: true})
		case p == 3:
			out = append(out, SetAttrCommand{Flags: CellFlagItalic, On: true})
		case p == 4:
			out = append(out, underlineAttrCommand(sub[i]))
		case p == 5:
			out = append(out, SetAttrCommand{Flags: CellFlagBlinkSlow, On: true})
		case p == 6:
			out = append(out, SetAttrCommand{Flags: CellFlagBlinkFast, On: true})
		case p == 7:
			out = append(out, SetAttrCommand{Flags: CellFlagInverse, On: true})
		case p == 8:
			out = append(out, SetAttrCommand{Flags: CellFlagInvisible, On: true})
		case p == 9:
			out = append(out, SetAttrCommand{Flags: CellFlagCrossedOut, On: true})
		case p == 21:
			out = append(out, SetAttrCommand{Flags: CellFlagDoubleUnderline, On: true})
		case p == 22:
			out = append(out, SetAttrCommand{Flags: CellFlagBold | CellFlagFaint, On: false})
		case p == 23:
			out = append(out, SetAttrCommand{Flags: CellFlagItalic, On: false})
		case p == 24:
			out = append(out, SetAttrCommand{Flags: CellFlagUnderline | CellFlagDoubleUnderline | CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline, On: false})
		case p == 25:
			out = append(out, SetAttrCommand{Flags: CellFlagBlinkSlow | CellFlagBlinkFast, On: false})
		case p == 27:
			out = append(out, SetAttrCommand{Flags: CellFlagInverse, On: false})
		case p == 28:
			out = append(out, SetAttrCommand{Flags: CellFlagInvisible, On: false})
		case p == 29:
			out = append(out, SetAttrCommand{Flags: CellFlagCrossedOut, On: false})
		case p == 53:
			out = append(out, SetAttrCommand{Flags: CellFlagOverline, On: true})
		case p == 55:
			out = append(out, SetAttrCommand{Flags: CellFlagOverline, On: false})
		case p >= 30 && p <= 37:
			out = append(out, SetForegroundCommand{Color: IndexedColor{Index: uint8(p - 30)}})
		case p == 38:
			c, consumed := sgrColorFromParams(params, i, sub[i])
			if c != nil {
				out = append(out, SetForegroundCommand{Color: c})
			}
			i += consumed - 1
		case p == 39:
			out = append(out, SetForegroundCommand{Color: DefaultColor{}})
		case p >= 40 && p <= 47:
			out = append(out, SetBackgroundCommand{Color: IndexedColor{Index: uint8(p - 40)}})
		case p == 48:
			c, consumed := sgrColorFromParams(params, i, sub[i])
			if c != nil {
				out = append(out, SetBackgroundCommand{Color: c})
			}
			i += consumed - 1
		case p == 49:
			out = append(out, SetBackgroundCommand{Color: DefaultColor{}})
		case p == 58:
			c, consumed := sgrColorFromParams(params, i, sub[i])
			if c != nil {
				out = append(out, SetUnderlineColorCommand{Color: c})
			}
			i += consumed - 1
		case p == 59:
			out = append(out, SetUnderlineColorCommand{Color: DefaultColor{}})
		case p >= 90 && p <= 97:
			out = append(out, SetForegroundCommand{Color: BrightColor{Index: uint8(p - 90)}})
		case p >= 100 && p <= 107:
			out = append(out, SetBackgroundCommand{Color: BrightColor{Index: uint8(p - 100)}})
		}
	}
	return out
}

// buildOSC parses an OSC payload "num;rest" (or "num;rest;rest2;...") into
// the matching Command(s).
func (b *Builder) buildOSC(data []byte) []Command {
	semi := bytes.IndexByte(data, ';')
	numStr := string(data)
	rest := []byte(nil)
	if semi >= 0 {
		numStr = string(data[:semi])
		rest = data[semi+1:]
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		b.logger.Tracef("vtterm: malformed OSC %q", data)
		return []Command{UnsupportedCommand{Raw: Sequence{Kind: SeqOSC, Data: data}}}
	}

	switch num {
	case 0:
		return []Command{SetTitleCommand{Title: string(rest), Kind: 0}}
	case 1:
		return []Command{SetTitleCommand{Title: string(rest), Kind: 1}}
	case 2:
		return []Command{SetTitleCommand{Title: string(rest), Kind: 2}}
	case 4:
		return b.buildOSC4(rest)
	case 8:
		return b.buildOSC8(rest)
	case 9, 777:
		return []Command{NotifyCommand{Body: string(rest)}}
	case 10:
		return b.buildDynamicColor(-1, rest)
	case 11:
		return b.buildDynamicColor(-2, rest)
	case 12:
		return b.buildDynamicColor(-3, rest)
	case 52:
		return b.buildOSC52(rest)
	case 104:
		return b.buildResetDynamicColor(rest, true)
	case 110:
		return []Command{ResetDynamicColorCommand{Index: -1}}
	case 111:
		return []Command{ResetDynamicColorCommand{Index: -2}}
	case 112:
		return []Command{ResetDynamicColorCommand{Index: -3}}
	case 133:
		return []Command{SetMarkCommand{}}
	default:
		b.logger.Tracef("vtterm: unsupported OSC num=%d", num)
		return []Command{UnsupportedCommand{Raw: Sequence{Kind: SeqOSC, Data: data}}}
	}
}

func splitSemi(data []byte) [][]byte {
	return bytes.Split(data, []byte{';'})
}

func (b *Builder) buildOSC4(rest []byte) []Command {
	parts := splitSemi(rest)
	var out []Command
	for i := 0; i+1 < len(parts); i += 2 {
		idx, err := strconv.Atoi(string(parts[i]))
		if err != nil {
			continue
		}
		spec := string(parts[i+1])
		if spec == "?" {
			out = append(out, QueryDynamicColorCommand{Index: idx})
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			out = append(out, SetDynamicColorCommand{Index: idx, Color: c})
		}
	}
	return out
}

func (b *Builder) buildDynamicColor(index int, rest []byte) []Command {
	spec := string(rest)
	if spec == "?" {
		return []Command{QueryDynamicColorCommand{Index: index}}
	}
	if c, ok := parseColorSpec(spec); ok {
		return []Command{SetDynamicColorCommand{Index: index, Color: c}}
	}
	return nil
}

func (b *Builder) buildResetDynamicColor(rest []byte, multi bool) []Command {
	if len(rest) == 0 {
		return []Command{ResetDynamicColorCommand{Index: -1}}
	}
	var out []Command
	for _, p := range splitSemi(rest) {
		idx, err := strconv.Atoi(string(p))
		if err == nil {
			out = append(out, ResetDynamicColorCommand{Index: idx})
		}
	}
	return out
}

// parseColorSpec parses the XParseColor-ish forms xterm accepts in OSC 4/10/11:
// "#rrggbb", "rgb:rr/gg/bb", or a bare palette index.
func parseColorSpec(spec string) (Color, bool) {
	if len(spec) == 7 && spec[0] == '#' {
		r, err1 := strconv.ParseUint(spec[1:3], 16, 8)
		g, err2 := strconv.ParseUint(spec[3:5], 16, 8)
		bb, err3 := strconv.ParseUint(spec[5:7], 16, 8)
		if err1 == nil && err2 == nil && err3 == nil {
			return RGBColor{R: uint8(r), G: uint8(g), B: uint8(bb)}, true
		}
	}
	if len(spec) >= 4 && spec[:4] == "rgb:" {
		parts := bytes.Split([]byte(spec[4:]), []byte{'/'})
		if len(parts) == 3 {
			r, err1 := strconv.ParseUint(clipHex(string(parts[0])), 16, 8)
			g, err2 := strconv.ParseUint(clipHex(string(parts[1])), 16, 8)
			bb, err3 := strconv.ParseUint(clipHex(string(parts[2])), 16, 8)
			if err1 == nil && err2 == nil && err3 == nil {
				return RGBColor{R: uint8(r), G: uint8(g), B: uint8(bb)}, true
			}
		}
	}
	if idx, err := strconv.Atoi(spec); err == nil && idx >= 0 && idx < 256 {
		return IndexedColor{Index: uint8(idx)}, true
	}
	return nil, false
}

// clipHex truncates a >2-digit component (e.g. "rgb:ffff/0000/0000") down to
// its top 2 hex digits, matching the precision this module's 8-bit Color
// actually stores.
func clipHex(s string) string {
	if len(s) > 2 {
		return s[:2]
	}
	return s
}

func (b *Builder) buildOSC8(rest []byte) []Command {
	semi := bytes.IndexByte(rest, ';')
	if semi < 0 {
		return []Command{SetHyperlinkCommand{}}
	}
	params := string(rest[:semi])
	uri := string(rest[semi+1:])
	id := ""
	for _, kv := range splitSemi([]byte(params)) {
		s := string(kv)
		if len(s) > 3 && s[:3] == "id=" {
			id = s[3:]
		}
	}
	return []Command{SetHyperlinkCommand{ID: id, URI: uri}}
}

func (b *Builder) buildOSC52(rest []byte) []Command {
	semi := bytes.IndexByte(rest, ';')
	if semi < 0 {
		return nil
	}
	selector := rest[:semi]
	payload := rest[semi+1:]
	sel := byte('c')
	if len(selector) > 0 {
		sel = selector[0]
	}
	if string(payload) == "?" {
		return []Command{ClipboardCommand{Selection: sel, Query: true}}
	}
	decoded, err := base64.StdEncoding.DecodeString(string(payload))
	if err != nil {
		return nil
	}
	return []Command{ClipboardCommand{Selection: sel, Data: string(decoded)}}
}
