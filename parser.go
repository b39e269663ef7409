package vtterm

import "unicode/utf8"

// parserState is one state of the byte-level state machine (modeled after
// Paul Williams' VT500 parser, the same shape used by the simpler
// hand-rolled parsers in the reference corpus rather than a generated
// table — spec §4.A).
type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString
)

const maxParams = 32
const maxStringLen = 1 << 20 // 1 MiB guard against unterminated OSC/DCS floods

// Parser turns a raw byte stream into a sequence of Sequence values. It
// holds no references to a Screen or Buffer — it is a pure function of
// bytes to Sequences, reusable standalone (e.g. for tests or a recording
// replay tool) independent of the rest of the module (spec §4.A).
type Parser struct {
	state parserState

	intermediates []byte
	marker        byte
	params        []int
	curParam      int
	curParamSet   bool

	// mainParam/mainParamSet hold a parameter's value once a ':' introduces
	// a sub-parameter group (SGR colon form, e.g. "4:3"); curSub accumulates
	// the sub-parameter values that follow, and sub maps them back onto the
	// finished params index they belong to.
	mainParam    int
	mainParamSet bool
	curSub       []int
	sub          map[int][]int

	stringKind byte // one of ']', 'P', '_', '^', 'X' identifying the open string
	data       []byte
	pendingST  bool // previous byte was ESC while collecting a string, awaiting '\\'

	utf8Pending int
	utf8Buf     [4]byte
	utf8Len     int
}

// NewParser creates a parser in the Ground state.
func NewParser() *Parser {
	return &Parser{}
}

// Parse feeds data through the parser and returns every Sequence it
// completed. Partial sequences are retained internally until the next call.
func (p *Parser) Parse(data []byte) []Sequence {
	var out []Sequence
	p.ParseFunc(data, func(s Sequence) { out = append(out, s) })
	return out
}

// ParseFunc feeds data through the parser, invoking emit once per completed
// Sequence. This is the streaming entry point Screen.Write uses so that a
// large write doesn't force one big allocation.
func (p *Parser) ParseFunc(data []byte, emit func(Sequence)) {
	for _, b := range data {
		p.feedByte(b, emit)
	}
}

func (p *Parser) feedByte(b byte, emit func(Sequence)) {
	switch p.state {
	case stateGround:
		p.ground(b, emit)
	case stateEscape:
		p.escape(b, emit)
	case stateEscapeIntermediate:
		p.escapeIntermediate(b, emit)
	case stateCsiEntry:
		p.csiEntry(b, emit)
	case stateCsiParam:
		p.csiParam(b, emit)
	case stateCsiIntermediate:
		p.csiIntermediate(b, emit)
	case stateCsiIgnore:
		p.csiIgnore(b, emit)
	case stateDcsEntry:
		p.dcsEntry(b, emit)
	case stateDcsParam:
		p.dcsParam(b, emit)
	case stateDcsIntermediate:
		p.dcsIntermediate(b, emit)
	case stateDcsPassthrough:
		p.dcsPassthrough(b, emit)
	case stateDcsIgnore:
		p.dcsIgnore(b, emit)
	case stateOscString:
		p.oscString(b, emit)
	case stateSosPmApcString:
		p.stringCollect(b, emit)
	}
}

// leadLen returns the number of bytes a UTF-8 lead byte announces, or 0 if b
// cannot start a multi-byte sequence.
func leadLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

func (p *Parser) resetUTF8() {
	p.utf8Pending = 0
	p.utf8Len = 0
}

// flushInvalidUTF8 emits the Unicode replacement character for a byte
// sequence that could not be decoded.
func (p *Parser) flushInvalidUTF8(emit func(Sequence)) {
	p.resetUTF8()
	emit(Sequence{Kind: SeqPrint, Rune: utf8.RuneError})
}

func (p *Parser) ground(b byte, emit func(Sequence)) {
	if p.utf8Pending > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf[p.utf8Len] = b
			p.utf8Len++
			if p.utf8Len == p.utf8Pending {
				r, size := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
				p.resetUTF8()
				if r == utf8.RuneError && size <= 1 {
					emit(Sequence{Kind: SeqPrint, Rune: utf8.RuneError})
				} else {
					emit(Sequence{Kind: SeqPrint, Rune: r})
				}
			}
			return
		}
		p.flushInvalidUTF8(emit)
		// fall through and reprocess b as a fresh byte below
	}

	switch {
	case b == 0x1b:
		p.enterEscape()
	case b == 0x18 || b == 0x1a:
		// CAN/SUB abort whatever was in progress; nothing was in progress
		// in Ground, so this is a no-op control byte.
		emit(Sequence{Kind: SeqControl, Byte: b})
	case b < 0x20 || b == 0x7f:
		emit(Sequence{Kind: SeqControl, Byte: b})
	case b >= 0x80 && b <= 0x9f:
		p.enterEscapeFromC1(b, emit)
	case b >= 0x20 && b < 0x80:
		emit(Sequence{Kind: SeqPrint, Rune: rune(b)})
	default:
		if n := leadLen(b); n > 0 {
			p.utf8Buf[0] = b
			p.utf8Len = 1
			p.utf8Pending = n
		} else {
			emit(Sequence{Kind: SeqPrint, Rune: utf8.RuneError})
		}
	}
}

// enterEscapeFromC1 maps an 8-bit C1 control byte onto the 7-bit ESC
// equivalent every other state below expects, so the rest of the machine
// only has to know the 7-bit encodings.
func (p *Parser) enterEscapeFromC1(b byte, emit func(Sequence)) {
	p.resetCollectors()
	switch b {
	case 0x9b: // CSI
		p.state = stateCsiEntry
	case 0x9d: // OSC
		p.state = stateOscString
		p.stringKind = ']'
	case 0x90: // DCS
		p.state = stateDcsEntry
	case 0x9e: // PM
		p.state = stateSosPmApcString
		p.stringKind = '^'
	case 0x9f: // APC
		p.state = stateSosPmApcString
		p.stringKind = '_'
	case 0x98: // SOS
		p.state = stateSosPmApcString
		p.stringKind = 'X'
	case 0x9c: // ST with nothing open: ignore
		p.state = stateGround
	default:
		// IND, NEL, HTS, RI, ...: the 7-bit form is ESC followed by b-0x40.
		emit(Sequence{Kind: SeqEscape, Final: b - 0x40})
		p.state = stateGround
	}
}

func (p *Parser) enterEscape() {
	p.resetCollectors()
	p.state = stateEscape
}

func (p *Parser) resetCollectors() {
	p.intermediates = p.intermediates[:0]
	p.marker = 0
	p.params = p.params[:0]
	p.curParam = 0
	p.curParamSet = false
	p.mainParam = 0
	p.mainParamSet = false
	p.curSub = p.curSub[:0]
	p.sub = nil
	p.data = p.data[:0]
	p.stringKind = 0
}

func (p *Parser) toGround(emit func(Sequence)) {
	p.state = stateGround
}

func (p *Parser) escape(b byte, emit func(Sequence)) {
	switch {
	case b == '[':
		p.state = stateCsiEntry
	case b == ']':
		p.state = stateOscString
		p.stringKind = ']'
	case b == 'P':
		p.state = stateDcsEntry
	case b == '^':
		p.state = stateSosPmApcString
		p.stringKind = '^'
	case b == '_':
		p.state = stateSosPmApcString
		p.stringKind = '_'
	case b == 'X':
		p.state = stateSosPmApcString
		p.stringKind = 'X'
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateEscapeIntermediate
	case b >= 0x30 && b <= 0x7e:
		emit(Sequence{Kind: SeqEscape, Final: b, Intermediates: append([]byte(nil), p.intermediates...)})
		p.toGround(emit)
	default:
		p.toGround(emit)
	}
}

func (p *Parser) escapeIntermediate(b byte, emit func(Sequence)) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x30 && b <= 0x7e:
		emit(Sequence{Kind: SeqEscape, Final: b, Intermediates: append([]byte(nil), p.intermediates...)})
		p.toGround(emit)
	default:
		p.toGround(emit)
	}
}

func (p *Parser) csiEntry(b byte, emit func(Sequence)) {
	switch {
	case b >= '0' && b <= '9':
		p.curParam = int(b - '0')
		p.curParamSet = true
		p.state = stateCsiParam
	case b == ';':
		p.params = append(p.params, 0)
		p.state = stateCsiParam
	case b == '<' || b == '=' || b == '>' || b == '?':
		p.marker = b
		p.state = stateCsiParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.emitCSI(b, emit)
	case b == 0x18 || b == 0x1a || b == 0x1b:
		p.toGround(emit)
		if b == 0x1b {
			p.enterEscape()
		}
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) csiParam(b byte, emit func(Sequence)) {
	switch {
	case b >= '0' && b <= '9':
		if len(p.params) >= maxParams {
			p.state = stateCsiIgnore
			return
		}
		p.curParam = p.curParam*10 + int(b-'0')
		p.curParamSet = true
	case b == ';':
		p.finishParam()
	case b == ':':
		p.handleSubSeparator()
	case b >= 0x20 && b <= 0x2f:
		p.finishParam()
		p.intermediates = append(p.intermediates, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.finishParam()
		p.emitCSI(b, emit)
	case b == 0x18 || b == 0x1a || b == 0x1b:
		p.toGround(emit)
		if b == 0x1b {
			p.enterEscape()
		}
	default:
		p.state = stateCsiIgnore
	}
}

// handleSubSeparator processes a ':' within a CSI/DCS parameter: the first
// colon in a group splits off the main parameter value collected so far
// (e.g. the "4" in "4:3"); subsequent colons push another sub-parameter
// value onto curSub (e.g. the RGB triplet in "58:2:255:0:0").
func (p *Parser) handleSubSeparator() {
	if !p.mainParamSet {
		p.mainParam = p.curParam
		p.mainParamSet = true
	} else {
		p.curSub = append(p.curSub, p.curParam)
	}
	p.curParam = 0
	p.curParamSet = false
}

// finishParam closes out the parameter group in progress — either a bare
// numeric param or a main param plus any colon-separated sub-parameters —
// and appends it to params, recording sub-parameters in sub keyed by the
// index the main param lands at.
func (p *Parser) finishParam() {
	v := p.curParam
	if p.mainParamSet {
		// Whatever digits were collected since the last colon are a
		// trailing sub-parameter value that never got an explicit ':' or
		// ';' after it.
		p.curSub = append(p.curSub, p.curParam)
		v = p.mainParam
	}
	p.params = append(p.params, v)
	if len(p.curSub) > 0 {
		if p.sub == nil {
			p.sub = make(map[int][]int)
		}
		p.sub[len(p.params)-1] = append([]int(nil), p.curSub...)
		p.curSub = p.curSub[:0]
	}
	p.curParam = 0
	p.curParamSet = false
	p.mainParam = 0
	p.mainParamSet = false
}

func (p *Parser) csiIntermediate(b byte, emit func(Sequence)) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x40 && b <= 0x7e:
		p.emitCSI(b, emit)
	case b == 0x18 || b == 0x1a || b == 0x1b:
		p.toGround(emit)
		if b == 0x1b {
			p.enterEscape()
		}
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) csiIgnore(b byte, emit func(Sequence)) {
	if b >= 0x40 && b <= 0x7e {
		p.toGround(emit)
		return
	}
	if b == 0x1b {
		p.enterEscape()
	}
}

// emitCSI completes the pending parameter (if the collector has a trailing
// unterminated digit run) and emits a SeqCSI.
func (p *Parser) emitCSI(final byte, emit func(Sequence)) {
	if p.curParamSet || p.mainParamSet || len(p.params) == 0 {
		p.finishParam()
	}
	emit(Sequence{
		Kind:          SeqCSI,
		Marker:        p.marker,
		Params:        append([]int(nil), p.params...),
		Sub:           copySub(p.sub),
		Intermediates: append([]byte(nil), p.intermediates...),
		Final:         final,
	})
	p.toGround(emit)
}

// copySub deep-copies a sub-parameter map so a retained Sequence doesn't
// alias the parser's mutable collectors.
func copySub(m map[int][]int) map[int][]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[int][]int, len(m))
	for k, v := range m {
		out[k] = append([]int(nil), v...)
	}
	return out
}

func (p *Parser) dcsEntry(b byte, emit func(Sequence)) {
	switch {
	case b >= '0' && b <= '9':
		p.curParam = int(b - '0')
		p.curParamSet = true
		p.state = stateDcsParam
	case b == ';':
		p.params = append(p.params, 0)
		p.state = stateDcsParam
	case b == '<' || b == '=' || b == '>' || b == '?':
		p.marker = b
		p.state = stateDcsParam
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		// The final byte starts the payload and is kept as Data's first byte.
		p.data = append(p.data, b)
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) dcsParam(b byte, emit func(Sequence)) {
	switch {
	case b >= '0' && b <= '9':
		p.curParam = p.curParam*10 + int(b-'0')
		p.curParamSet = true
	case b == ';':
		p.finishParam()
	case b == ':':
		p.handleSubSeparator()
	case b >= 0x20 && b <= 0x2f:
		p.finishParam()
		p.intermediates = append(p.intermediates, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.finishParam()
		p.data = append(p.data, b)
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) dcsIntermediate(b byte, emit func(Sequence)) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x40 && b <= 0x7e:
		p.data = append(p.data, b)
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) dcsPassthrough(b byte, emit func(Sequence)) {
	if p.isStringTerminator(b) {
		p.emitString(SeqDCS, emit)
		return
	}
	if b == 0x1b {
		p.pendingST = true
		return
	}
	if p.pendingST {
		p.pendingST = false
	}
	if len(p.data) < maxStringLen {
		p.data = append(p.data, b)
	}
}

func (p *Parser) dcsIgnore(b byte, emit func(Sequence)) {
	if p.isStringTerminator(b) {
		p.toGround(emit)
	}
}

func (p *Parser) oscString(b byte, emit func(Sequence)) {
	if p.isStringTerminator(b) {
		p.emitString(SeqOSC, emit)
		return
	}
	if b == 0x07 { // BEL also terminates OSC, xterm convention
		p.emitString(SeqOSC, emit)
		return
	}
	if b == 0x1b {
		p.pendingST = true
		return
	}
	if p.pendingST {
		p.pendingST = false
	}
	if len(p.data) < maxStringLen {
		p.data = append(p.data, b)
	}
}

func (p *Parser) stringCollect(b byte, emit func(Sequence)) {
	if p.isStringTerminator(b) {
		kind := SeqAPC
		switch p.stringKind {
		case '^':
			kind = SeqPM
		case 'X':
			kind = SeqSOS
		}
		p.emitString(kind, emit)
		return
	}
	if b == 0x1b {
		p.pendingST = true
		return
	}
	if p.pendingST {
		p.pendingST = false
	}
	if len(p.data) < maxStringLen {
		p.data = append(p.data, b)
	}
}

// isStringTerminator recognizes ST both as the 8-bit C1 byte (0x9c) and as
// the two-byte 7-bit form (ESC \\), the latter detected via the pendingST
// flag set when the previous byte was ESC.
func (p *Parser) isStringTerminator(b byte) bool {
	if b == 0x9c {
		return true
	}
	return p.pendingST && b == '\\'
}

func (p *Parser) emitString(kind SequenceKind, emit func(Sequence)) {
	emit(Sequence{Kind: kind, Data: append([]byte(nil), p.data...)})
	p.pendingST = false
	p.toGround(emit)
}
