package vtterm

// TerminalMode is a bitmask of the DEC private / ANSI modes this module
// tracks (spec §4.E "Screen modes"). Builder resolves a CSI ... h/l sequence
// plus its private-marker byte into the matching bit before handing a
// SetModeCommand/ResetModeCommand to the Executor.
type TerminalMode uint64

const (
	// ModeInsert is IRM (ANSI mode 4): insert vs. replace on Print.
	ModeInsert TerminalMode = 1 << iota
	// ModeAutoWrap is DECAWM (?7): wrap at the right margin.
	ModeAutoWrap
	// ModeOriginMode is DECOM (?6): cursor addressing relative to margins.
	ModeOriginMode
	// ModeCursorVisible is DECTCEM (?25).
	ModeCursorVisible
	// ModeReverseVideo is DECSCNM (?5): swap default fg/bg.
	ModeReverseVideo
	// ModeBracketedPaste is ?2004.
	ModeBracketedPaste
	// ModeApplicationCursorKeys is DECCKM (?1).
	ModeApplicationCursorKeys
	// ModeApplicationKeypad is DECPAM/DECPNM (?66), tracked separately from
	// the legacy ESC =/> toggle for hosts that only speak DECSET.
	ModeApplicationKeypad
	// ModeMouseX10 is the original X10 mouse protocol (?9).
	ModeMouseX10
	// ModeMouseNormal is VT200 mouse tracking (?1000).
	ModeMouseNormal
	// ModeMouseButtonEvent is button-event tracking (?1002).
	ModeMouseButtonEvent
	// ModeMouseAnyEvent is any-event tracking (?1003).
	ModeMouseAnyEvent
	// ModeMouseUTF8 selects the UTF-8 mouse coordinate transport (?1005).
	ModeMouseUTF8
	// ModeMouseSGR selects the SGR mouse coordinate transport (?1006).
	ModeMouseSGR
	// ModeMouseURXVT selects the urxvt mouse coordinate transport (?1015).
	ModeMouseURXVT
	// ModeFocusEvents is ?1004: report focus in/out.
	ModeFocusEvents
	// ModeAltScreen47 is the bare alternate-screen toggle (?47), no save/restore.
	ModeAltScreen47
	// ModeAltScreen1047 is ?1047: the alternate screen, cleared as it is entered.
	ModeAltScreen1047
	// ModeAltScreen1049 additionally saves/restores the cursor (the modern form).
	ModeAltScreen1049
	// ModeSyncOutput is ?2026: suppress intermediate redraws until reset.
	ModeSyncOutput
	// ModeSaveCursorDECSET is ?1048: save/restore cursor without swapping the buffer.
	ModeSaveCursorDECSET
	// ModeColumn132 is DECCOLM (?3): 80/132 column switch.
	ModeColumn132
)

// Modes is the live bitset plus the two ambient settings (the
// modifyOtherKeys level and the Kitty keyboard protocol flag stack) that
// don't fit a single bit. Screen holds one per
// Screen, not per Buffer, since it is shared by primary and alternate.
type Modes struct {
	bits             TerminalMode
	modifyOtherKeys  int
	keyboardFlags    []int // stack; top is the active Kitty keyboard protocol flag set
}

// NewModes returns the power-on default mode set (spec §4.E defaults):
// auto-wrap and cursor-visible on, everything else off.
func NewModes() *Modes {
	return &Modes{bits: ModeAutoWrap | ModeCursorVisible}
}

func (m *Modes) Has(mode TerminalMode) bool { return m.bits&mode != 0 }
func (m *Modes) Set(mode TerminalMode)      { m.bits |= mode }
func (m *Modes) Reset(mode TerminalMode)    { m.bits &^= mode }

func (m *Modes) ModifyOtherKeys() int      { return m.modifyOtherKeys }
func (m *Modes) SetModifyOtherKeys(n int)  { m.modifyOtherKeys = n }

// PushKeyboardFlags pushes a new Kitty keyboard protocol flag set.
func (m *Modes) PushKeyboardFlags(flags int) {
	m.keyboardFlags = append(m.keyboardFlags, flags)
}

// PopKeyboardFlags pops n entries off the keyboard flag stack.
func (m *Modes) PopKeyboardFlags(n int) {
	if n <= 0 {
		return
	}
	if n > len(m.keyboardFlags) {
		n = len(m.keyboardFlags)
	}
	m.keyboardFlags = m.keyboardFlags[:len(m.keyboardFlags)-n]
}

// KeyboardFlags returns the active (topmost) Kitty keyboard flag set, or 0
// if the stack is empty (legacy mode).
func (m *Modes) KeyboardFlags() int {
	if len(m.keyboardFlags) == 0 {
		return 0
	}
	return m.keyboardFlags[len(m.keyboardFlags)-1]
}

// SetKeyboardFlags applies mode 1 (set), 2 (add), or 3 (remove) to the
// topmost flag set, pushing an initial zero entry if the stack is empty.
func (m *Modes) SetKeyboardFlags(flags, mode int) {
	if len(m.keyboardFlags) == 0 {
		m.keyboardFlags = append(m.keyboardFlags, 0)
	}
	top := len(m.keyboardFlags) - 1
	switch mode {
	case 2:
		m.keyboardFlags[top] |= flags
	case 3:
		m.keyboardFlags[top] &^= flags
	default:
		m.keyboardFlags[top] = flags
	}
}

// MouseProtocol reports which mouse tracking protocol (if any) is active,
// highest-precedence mode winning per xterm convention (any-event beats
// button-event beats normal beats X10).
func (m *Modes) MouseProtocol() (enabled bool, anyEvent, buttonEvent bool) {
	switch {
	case m.Has(ModeMouseAnyEvent):
		return true, true, false
	case m.Has(ModeMouseButtonEvent):
		return true, false, true
	case m.Has(ModeMouseNormal):
		return true, false, false
	case m.Has(ModeMouseX10):
		return true, false, false
	}
	return false, false, false
}

// MouseTransport reports which coordinate encoding is active: SGR takes
// precedence over URXVT, which takes precedence over UTF-8, which takes
// precedence over the default single-byte form.
func (m *Modes) MouseTransport() MouseTransport {
	switch {
	case m.Has(ModeMouseSGR):
		return MouseTransportSGR
	case m.Has(ModeMouseURXVT):
		return MouseTransportURXVT
	case m.Has(ModeMouseUTF8):
		return MouseTransportUTF8
	default:
		return MouseTransportDefault
	}
}
