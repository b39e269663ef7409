package vtterm

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint32

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagFaint
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagInverse
	CellFlagInvisible
	CellFlagCrossedOut
	CellFlagOverline
	CellFlagFramed
	CellFlagEncircled
	CellFlagWide          // base cell of a 2-column glyph
	CellFlagWideContinuation // the trailing width-0 cell of a wide glyph
	CellFlagDirty
)

// HasUnderline reports whether any of the underline variants is set.
func (f CellFlags) HasUnderline() bool {
	return f&(CellFlagUnderline|CellFlagDoubleUnderline|CellFlagCurlyUnderline|
		CellFlagDottedUnderline|CellFlagDashedUnderline) != 0
}

// Hyperlink associates a run of cells with a clickable link (OSC 8).
// refs tracks how many cells still point at this record; the Buffer
// increments it when a cell is stamped with the link and decrements it when
// that cell is overwritten or reset.
type Hyperlink struct {
	ID    string
	URI   string
	Hover bool
	refs  int
}

// Cell stores the codepoint cluster, colors, and formatting attributes for
// one grid position. A wide (2-column) glyph occupies a base cell
// (CellFlagWide, Width 2) followed by a continuation cell (CellFlagWideContinuation,
// Width 0) that carries no content of its own.
type Cell struct {
	Char           rune
	Combining      []rune // zero or more combining codepoints attached to Char
	Width          int8   // 1, 2, or 0 for a wide-glyph continuation
	Fg             Color
	Bg             Color
	UnderlineColor Color
	Flags          CellFlags
	Hyperlink      *Hyperlink
}

// NewCell creates a cell initialized with a space character, default width
// and colors, and no attributes.
func NewCell() Cell {
	return Cell{Char: ' ', Width: 1}
}

// Reset clears all attributes and returns the cell to its default state,
// dropping its hyperlink reference (the caller is responsible for
// decrementing the old hyperlink's refcount before calling Reset; Buffer's
// erase/write paths do this via unrefHyperlink).
func (c *Cell) Reset() {
	c.Char = ' '
	c.Combining = nil
	c.Width = 1
	c.Fg = nil
	c.Bg = nil
	c.UnderlineColor = nil
	c.Flags = 0
	c.Hyperlink = nil
}

// HasFlag returns true if the specified flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool { return c.Flags&flag != 0 }

// SetFlag enables the specified flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) { c.Flags |= flag }

// ClearFlag disables the specified flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) { c.Flags &^= flag }

// IsDirty returns true if the cell was modified since the last ClearDirty call.
func (c *Cell) IsDirty() bool { return c.HasFlag(CellFlagDirty) }

// MarkDirty marks the cell as modified for dirty tracking.
func (c *Cell) MarkDirty() { c.SetFlag(CellFlagDirty) }

// ClearDirty resets the dirty tracking flag.
func (c *Cell) ClearDirty() { c.ClearFlag(CellFlagDirty) }

// IsWide returns true if this cell is the base of a 2-column glyph.
func (c *Cell) IsWide() bool { return c.HasFlag(CellFlagWide) }

// IsWideContinuation returns true if this cell is the trailing half of a
// wide glyph and should be skipped when iterating visible content.
func (c *Cell) IsWideContinuation() bool { return c.HasFlag(CellFlagWideContinuation) }

// Copy returns a deep copy of the cell, including its combining-mark slice.
// The hyperlink pointer is shared, not duplicated — callers that move a
// copy into a new slot must ref/unref the hyperlink themselves.
func (c *Cell) Copy() Cell {
	cp := *c
	if len(c.Combining) > 0 {
		cp.Combining = append([]rune(nil), c.Combining...)
	}
	return cp
}

// Runes returns the cell's base codepoint followed by its combining marks,
// the sequence a renderer should draw as one cluster.
func (c *Cell) Runes() []rune {
	if len(c.Combining) == 0 {
		return []rune{c.Char}
	}
	out := make([]rune, 0, 1+len(c.Combining))
	out = append(out, c.Char)
	out = append(out, c.Combining...)
	return out
}
