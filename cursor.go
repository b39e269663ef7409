package vtterm

// CursorStyle determines how the cursor is rendered, set via DECSCUSR.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// CharsetIndex selects one of the four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// Charset selects the character-set variant designated into a slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// Pen is the set of attributes applied to newly written cells: the running
// style plus fg/bg/underline color. SGR mutates a Buffer's pen; writing a
// codepoint stamps the pen onto the cell.
type Pen struct {
	Fg             Color
	Bg             Color
	UnderlineColor Color
	Flags          CellFlags
}

// Cursor tracks position (0-based internally; the Builder translates the
// spec's 1-based coordinates at the dispatch boundary), rendering style,
// and the transient wrap-pending bit described in spec §3/§4.D: set when a
// glyph is written to the last column, consumed (and cleared) by the next
// glyph, which performs the wrap when auto-wrap is enabled.
type Cursor struct {
	Row, Col    int
	Style       CursorStyle
	Visible     bool
	WrapPending bool
	OriginMode  bool
}

// NewCursor creates a cursor at (0, 0), blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{Row: 0, Col: 0, Style: CursorStyleBlinkingBlock, Visible: true}
}

// SavedCursor stores everything DECSC/DECRC (and the 1047/1049 alternate
// screen transition) must save and restore as one unit: position, pen,
// origin mode, and the full charset table with its active slot.
type SavedCursor struct {
	Row, Col     int
	Pen          Pen
	OriginMode   bool
	WrapPending  bool
	ActiveSlot   CharsetIndex
	Charsets     [4]Charset
}
