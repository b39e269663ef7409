package vtterm

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputGenerator turns Screen/Buffer state back into a VT byte stream —
// the reverse direction of Parser+Builder. It tracks a running pen and
// open hyperlink so a full-screen redraw emits the minimum SGR/OSC 8
// transitions needed rather than one escape per cell (spec §4.H, and the
// §9 Open Question: "compare against the current pen before emitting SGR").
type OutputGenerator struct{}

// NewOutputGenerator creates an OutputGenerator. It carries no state of its
// own between calls — callers render a whole region at once.
func NewOutputGenerator() *OutputGenerator { return &OutputGenerator{} }

// RenderLines serializes lines to VT bytes: CRLF between rows, minimal SGR
// transitions, and OSC 8 hyperlink wrapping. The returned bytes do not
// include a leading clear-screen or cursor-positioning sequence — callers
// compose those separately (e.g. Screen.Render prefixes them).
func (g *OutputGenerator) RenderLines(lines []Line) []byte {
	var buf strings.Builder
	pen := Pen{}
	var openHyperlink *Hyperlink

	for i, line := range lines {
		if i > 0 {
			buf.WriteString("\r\n")
		}
		trailing := trailingBlankFrom(line)
		for ci := 0; ci < trailing; ci++ {
			c := &line.Cells[ci]
			if c.IsWideContinuation() {
				continue
			}
			cp := cellPen(c)
			if !penEqual(pen, cp) {
				if s := sgrSequence(cp); s != "" {
					buf.WriteString(s)
				}
				pen = cp
			}
			if !sameHyperlink(openHyperlink, c.Hyperlink) {
				buf.WriteString(hyperlinkSequence(c.Hyperlink))
				openHyperlink = c.Hyperlink
			}
			buf.WriteRune(c.Char)
			for _, r := range c.Combining {
				buf.WriteRune(r)
			}
		}
	}
	if openHyperlink != nil {
		buf.WriteString("\x1b]8;;\x07")
	}
	return []byte(buf.String())
}

// trailingBlankFrom returns the index one past the last cell worth emitting
// (trailing default-styled blanks are dropped, matching how a real terminal
// redraw skips padding it doesn't need to draw).
func trailingBlankFrom(l Line) int {
	for i := len(l.Cells) - 1; i >= 0; i-- {
		c := &l.Cells[i]
		if c.Char != ' ' || c.Flags&^CellFlagDirty != 0 || c.Hyperlink != nil {
			return i + 1
		}
	}
	return 0
}

func cellPen(c *Cell) Pen {
	return Pen{Fg: c.Fg, Bg: c.Bg, UnderlineColor: c.UnderlineColor, Flags: c.Flags &^ CellFlagDirty}
}

func penEqual(a, b Pen) bool {
	return a.Flags == b.Flags && colorsEqual(a.Fg, b.Fg) && colorsEqual(a.Bg, b.Bg) && colorsEqual(a.UnderlineColor, b.UnderlineColor)
}

func sameHyperlink(a, b *Hyperlink) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.URI == b.URI && a.ID == b.ID
}

func sgrSequence(p Pen) string {
	params := []string{"0"}
	if p.Flags&CellFlagBold != 0 {
		params = append(params, "1")
	}
	if p.Flags&CellFlagFaint != 0 {
		params = append(params, "2")
	}
	if p.Flags&CellFlagItalic != 0 {
		params = append(params, "3")
	}
	if p.Flags.HasUnderline() {
		params = append(params, "4")
	}
	if p.Flags&CellFlagBlinkSlow != 0 {
		params = append(params, "5")
	}
	if p.Flags&CellFlagBlinkFast != 0 {
		params = append(params, "6")
	}
	if p.Flags&CellFlagInverse != 0 {
		params = append(params, "7")
	}
	if p.Flags&CellFlagInvisible != 0 {
		params = append(params, "8")
	}
	if p.Flags&CellFlagCrossedOut != 0 {
		params = append(params, "9")
	}
	if p.Flags&CellFlagOverline != 0 {
		params = append(params, "53")
	}
	params = append(params, colorParams(p.Fg, 30, 90, 38)...)
	params = append(params, colorParams(p.Bg, 40, 100, 48)...)
	params = append(params, colorParams(p.UnderlineColor, -1, -1, 58)...)
	if len(params) == 1 {
		return "\x1b[0m"
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// colorParams renders c using the standard (base), bright (brightBase), and
// extended (extSelector) SGR forms. base/brightBase of -1 means "this
// channel has no classic form" (used for the underline color, which is
// always extended-only).
func colorParams(c Color, base, brightBase, extSelector int) []string {
	switch v := c.(type) {
	case nil, DefaultColor:
		return nil
	case IndexedColor:
		if base >= 0 && v.Index < 8 {
			return []string{strconv.Itoa(base + int(v.Index))}
		}
		return []string{strconv.Itoa(extSelector), "5", strconv.Itoa(int(v.Index))}
	case BrightColor:
		if brightBase >= 0 {
			return []string{strconv.Itoa(brightBase + int(v.Index))}
		}
		return []string{strconv.Itoa(extSelector), "5", strconv.Itoa(8 + int(v.Index))}
	case RGBColor:
		return []string{strconv.Itoa(extSelector), "2", strconv.Itoa(int(v.R)), strconv.Itoa(int(v.G)), strconv.Itoa(int(v.B))}
	default:
		return nil
	}
}

// GenerateCPR formats a plain cursor-position report (CSI row ; col R), the
// DSR 6 reply for a request with no '?' private marker.
func GenerateCPR(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dR", row, col)
}

// GenerateDECXCPR formats the extended cursor-position report (CSI ? row ;
// col ; 0 R), the DSR 6 reply for a request that carried the '?' marker
// (CSI ? 6 n).
func GenerateDECXCPR(row, col int) string {
	return fmt.Sprintf("\x1b[?%d;%d;0R", row, col)
}

// GenerateDA1 formats the primary device attributes reply: VT420-level
// conformance (64) plus 132 columns, printer port, selective erase,
// national replacement charsets, the technical-characters set, horizontal
// scrolling, and ANSI color.
func GenerateDA1() string {
	return "\x1b[?64;1;2;6;9;15;21;22c"
}

// GenerateSGR formats the minimal SGR sequence that sets the terminal pen
// to p, matching the RenderLines transition logic.
func GenerateSGR(p Pen) string { return sgrSequence(p) }

// GenerateHyperlinkOSC8 formats the OSC 8 sequence opening (or, for a nil
// h, closing) a hyperlink, matching RenderLines' hyperlink wrapping.
func GenerateHyperlinkOSC8(h *Hyperlink) string { return hyperlinkSequence(h) }

func hyperlinkSequence(h *Hyperlink) string {
	if h == nil {
		return "\x1b]8;;\x07"
	}
	params := ""
	if h.ID != "" {
		params = "id=" + h.ID
	}
	return fmt.Sprintf("\x1b]8;%s;%s\x07", params, h.URI)
}

// Render produces a full redraw of the live screen: clear, home, then every
// visible row.
func (s *Screen) Render() []byte {
	s.mu.RLock()
	buf := s.Active()
	lines := make([]Line, buf.Rows())
	for i := range lines {
		lines[i] = *buf.Line(i)
	}
	s.mu.RUnlock()

	g := NewOutputGenerator()
	out := []byte("\x1b[2J\x1b[H")
	return append(out, g.RenderLines(lines)...)
}

// RenderRegion redraws absolute rows [top, bottom) without a leading clear,
// useful for incremental scrollback export.
func (s *Screen) RenderRegion(top, bottom int) []byte {
	s.mu.RLock()
	n := s.AbsoluteLineCountLocked()
	if bottom > n {
		bottom = n
	}
	var lines []Line
	for row := top; row < bottom; row++ {
		lines = append(lines, s.absoluteLineLocked(row))
	}
	s.mu.RUnlock()

	g := NewOutputGenerator()
	return g.RenderLines(lines)
}

// AbsoluteLineCountLocked is AbsoluteLineCount for callers that already hold
// s.mu (RenderRegion uses it to avoid a recursive RLock).
func (s *Screen) AbsoluteLineCountLocked() int {
	active := s.Active()
	return active.ScrollbackLen() + active.Rows()
}
