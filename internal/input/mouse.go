package input

import (
	"fmt"

	"vtcore/internal/grid"
)

// MouseButton identifies which button a mouse event concerns; MouseMove
// events (no button held) use MouseButtonNone with MouseMove's own bit.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonNone
	MouseWheelUp
	MouseWheelDown
)

type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseDrag
	MouseMove
)

// EncodeMouse returns the bytes to report a mouse event, or nil if no mouse
// protocol is currently enabled, or the event kind isn't one the active
// protocol reports (e.g. plain VT200 mode never reports motion/drag).
// row/col are 0-based cell coordinates.
func (e *Encoder) EncodeMouse(kind MouseEventKind, button MouseButton, row, col int, mods Modifier) []byte {
	active, anyEvent, buttonEvent := e.g.Modes().MouseReportMode()
	if !active {
		return nil
	}
	if kind == MouseMove && !anyEvent {
		return nil
	}
	if kind == MouseDrag && !anyEvent && !buttonEvent {
		return nil
	}

	cb := mouseButtonCode(kind, button, mods)
	if e.g.Modes().Has(grid.ModeMouseSGR) {
		final := byte('M')
		if kind == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", cb, col+1, row+1, final))
	}

	// Legacy X10/X11 encoding: button+32 biased, coordinates clamped to 255
	// (1-223 usable range) since the format has no room for larger values.
	bc := clampByte(cb + 32)
	cc := clampByte(col + 1 + 32)
	rc := clampByte(row + 1 + 32)
	return []byte{0x1B, '[', 'M', bc, cc, rc}
}

func mouseButtonCode(kind MouseEventKind, button MouseButton, mods Modifier) int {
	var code int
	switch button {
	case MouseButtonLeft:
		code = 0
	case MouseButtonMiddle:
		code = 1
	case MouseButtonRight:
		code = 2
	case MouseWheelUp:
		code = 64
	case MouseWheelDown:
		code = 65
	default:
		code = 3
	}
	if kind == MouseDrag || kind == MouseMove {
		code |= 32
	}
	if mods.has(ModShift) {
		code |= 4
	}
	if mods.has(ModAlt) {
		code |= 8
	}
	if mods.has(ModCtrl) {
		code |= 16
	}
	return code
}

func clampByte(v int) byte {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return byte(v)
}
