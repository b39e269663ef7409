package vtterm

import (
	"fmt"
	"unicode"
)

// MouseTransport selects how mouse coordinates are encoded in a report
// (spec §4.G "Input Encoder").
type MouseTransport int

const (
	MouseTransportDefault MouseTransport = iota
	MouseTransportUTF8
	MouseTransportSGR
	MouseTransportURXVT
)

// MouseButton identifies which button (or wheel direction) a mouse event
// concerns.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonNone
	MouseButtonWheelUp
	MouseButtonWheelDown
)

// MouseEventType is press, release, or motion.
type MouseEventType int

const (
	MouseDown MouseEventType = iota
	MouseUp
	MouseMotion
)

// MouseEvent describes one host-observed mouse action, in 0-based screen
// coordinates.
type MouseEvent struct {
	Button     MouseButton
	Type       MouseEventType
	Row, Col   int
	Shift, Alt, Ctrl bool
}

// EncodeMouse returns the bytes to send to the application for ev, or nil if
// the currently active mouse protocol (per modes) doesn't want this event
// reported at all (e.g. motion with no button-event/any-event tracking
// enabled).
func EncodeMouse(modes *Modes, ev MouseEvent) []byte {
	enabled, anyEvent, buttonEvent := modes.MouseProtocol()
	if !enabled {
		return nil
	}
	if ev.Type == MouseMotion {
		if !anyEvent && !(buttonEvent && ev.Button != MouseButtonNone) {
			return nil
		}
	}

	cb := mouseButtonCode(ev)
	row, col := ev.Row+1, ev.Col+1

	switch modes.MouseTransport() {
	case MouseTransportSGR:
		final := byte('M')
		if ev.Type == MouseUp {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", cb, col, row, final))
	case MouseTransportURXVT:
		return []byte(fmt.Sprintf("\x1b[%d;%d;%dM", cb+32, col, row))
	case MouseTransportUTF8:
		out := append([]byte("\x1b[M"), byte(32+cb))
		out = append(out, encodeUTF8Coord(col)...)
		return append(out, encodeUTF8Coord(row)...)
	default:
		if col > 223 || row > 223 {
			return nil // default transport cannot represent coordinates beyond 223
		}
		return []byte{0x1b, '[', 'M', byte(32 + cb), byte(32 + col), byte(32 + row)}
	}
}

func encodeUTF8Coord(v int) []byte {
	r := rune(32 + v)
	if r < 0x80 {
		return []byte{byte(r)}
	}
	buf := make([]byte, 4)
	n := copy(buf, string(r))
	return buf[:n]
}

func mouseButtonCode(ev MouseEvent) int {
	var base int
	switch ev.Button {
	case MouseButtonLeft:
		base = 0
	case MouseButtonMiddle:
		base = 1
	case MouseButtonRight:
		base = 2
	case MouseButtonWheelUp:
		base = 64
	case MouseButtonWheelDown:
		base = 65
	default:
		base = 3
	}
	if ev.Type == MouseUp && ev.Button != MouseButtonWheelUp && ev.Button != MouseButtonWheelDown {
		base = 3
	}
	if ev.Type == MouseMotion {
		base |= 32
	}
	if ev.Shift {
		base |= 4
	}
	if ev.Alt {
		base |= 8
	}
	if ev.Ctrl {
		base |= 16
	}
	return base
}

// Key identifies a non-printable key EncodeKey knows how to translate.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
)

// KeyEvent describes one host-observed key press. Rune is set for printable
// keys; Key is set for everything else (arrows, function keys, ...).
type KeyEvent struct {
	Key                    Key
	Rune                   rune
	Shift, Alt, Ctrl, Super bool
}

func (ev KeyEvent) modifierParam() int {
	m := 1
	if ev.Shift {
		m += 1
	}
	if ev.Alt {
		m += 2
	}
	if ev.Ctrl {
		m += 4
	}
	if ev.Super {
		m += 8
	}
	return m
}

func (ev KeyEvent) hasModifier() bool {
	return ev.Shift || ev.Alt || ev.Ctrl || ev.Super
}

// EncodeKey returns the bytes an application should receive for ev, honoring
// application-cursor-keys mode (arrows, Home, End) and (for printable keys
// with modifiers) the Kitty keyboard protocol when it has been negotiated
// via CSI > flags u (spec §4.G). Application-keypad mode is not consulted:
// Key has no keypad keys.
func EncodeKey(modes *Modes, ev KeyEvent) []byte {
	if arrow, ok := arrowFinal(ev.Key); ok {
		return encodeArrowLike(modes, ev, arrow)
	}
	if tilde, ok := tildeCode(ev.Key); ok {
		return encodeTilde(ev, tilde)
	}
	if ss3, ok := functionSS3(ev.Key); ok {
		return encodeFunctionSS3(ev, ss3)
	}

	switch ev.Key {
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		if ev.Shift {
			return []byte("\x1b[Z")
		}
		return []byte{0x09}
	case KeyEnter:
		return []byte{0x0d}
	case KeyEscape:
		return []byte{0x1b}
	}

	if ev.Rune != 0 {
		return encodeRune(modes, ev)
	}
	return nil
}

func arrowFinal(k Key) (byte, bool) {
	switch k {
	case KeyUp:
		return 'A', true
	case KeyDown:
		return 'B', true
	case KeyRight:
		return 'C', true
	case KeyLeft:
		return 'D', true
	case KeyHome:
		return 'H', true
	case KeyEnd:
		return 'F', true
	default:
		return 0, false
	}
}

func encodeArrowLike(modes *Modes, ev KeyEvent, final byte) []byte {
	if ev.hasModifier() {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", ev.modifierParam(), final))
	}
	if modes.Has(ModeApplicationCursorKeys) {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

func tildeCode(k Key) (int, bool) {
	switch k {
	case KeyInsert:
		return 2, true
	case KeyDelete:
		return 3, true
	case KeyPageUp:
		return 5, true
	case KeyPageDown:
		return 6, true
	case KeyF5:
		return 15, true
	case KeyF6:
		return 17, true
	case KeyF7:
		return 18, true
	case KeyF8:
		return 19, true
	case KeyF9:
		return 20, true
	case KeyF10:
		return 21, true
	case KeyF11:
		return 23, true
	case KeyF12:
		return 24, true
	default:
		return 0, false
	}
}

func encodeTilde(ev KeyEvent, code int) []byte {
	if ev.hasModifier() {
		return []byte(fmt.Sprintf("\x1b[%d;%d~", code, ev.modifierParam()))
	}
	return []byte(fmt.Sprintf("\x1b[%d~", code))
}

func functionSS3(k Key) (byte, bool) {
	switch k {
	case KeyF1:
		return 'P', true
	case KeyF2:
		return 'Q', true
	case KeyF3:
		return 'R', true
	case KeyF4:
		return 'S', true
	default:
		return 0, false
	}
}

func encodeFunctionSS3(ev KeyEvent, final byte) []byte {
	if ev.hasModifier() {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", ev.modifierParam(), final))
	}
	return []byte{0x1b, 'O', final}
}

// encodeRune handles printable keys: Ctrl+letter produces the matching C0
// control byte; a negotiated Kitty keyboard protocol re-encodes any
// modified printable key as CSI codepoint ; modifier u; otherwise the plain
// UTF-8 encoding of the rune is sent.
func encodeRune(modes *Modes, ev KeyEvent) []byte {
	if ev.Ctrl && !ev.Alt && !ev.Super {
		if r := unicode.ToUpper(ev.Rune); r >= 'A' && r <= '_' {
			return []byte{byte(r) & 0x1f}
		}
	}
	if modes.KeyboardFlags() != 0 && ev.hasModifier() {
		return []byte(fmt.Sprintf("\x1b[%d;%du", ev.Rune, ev.modifierParam()))
	}
	if ev.Alt {
		return append([]byte{0x1b}, []byte(string(ev.Rune))...)
	}
	return []byte(string(ev.Rune))
}
