// Package vtterm implements a DEC-compatible terminal emulator core: a
// byte-stream parser, a command builder and algebra, a screen buffer with
// primary/alternate grids and scrollback, screen orchestration (modes,
// margins, the alternate screen, synchronized output), a selection engine,
// an output generator, and an input encoder.
//
// The pipeline runs in one direction for incoming host output:
//
//	bytes -> Parser -> Sequence -> Builder -> Command -> Executor -> Screen
//
// and in the other direction for host-bound input:
//
//	KeyEvent/MouseEvent -> EncodeKey/EncodeMouse -> bytes
//
// A Screen's Write, Resize, viewport, absolute-line, Snapshot and Render
// methods take the screen's internal lock. Active, Primary, Alternate,
// Modes, Rows, Cols and Flush do not, and the *Buffer values they return
// are not synchronized. Host integration points (bell, title, clipboard,
// scrollback storage, response writer, ...) are injected via functional
// options on New, each with a default (a no-op for most, in-memory stores
// for dynamic colors and scrollback) so embedding the package never
// requires wiring anything you don't care about.
package vtterm
