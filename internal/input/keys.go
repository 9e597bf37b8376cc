// Package input turns high-level key/mouse/paste events from the UI layer
// into the byte sequences a child shell expects on its PTY stdin: legacy
// XTerm encodings by default, or the Kitty keyboard protocol's richer
// encoding once a pane has requested it via CSI > flags u.
package input

import (
	"fmt"

	"vtcore/internal/grid"
)

// Modifier is a bitset matching the Kitty/XTerm modifier encoding (1-based
// when added to the wire value: Shift=1, Alt=2, Ctrl=4, Super=8).
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
)

// wireValue converts Modifier bits to the CSI "Pm" modifier parameter,
// which is 1 + the bitset, per both XTerm and Kitty protocols.
func (m Modifier) wireValue() int { return int(m) + 1 }

// Key identifies a non-printable key the UI layer can send; printable runes
// are sent through EncodeRune instead.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
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
	KeySpace
	KeyCapsLock
	KeyScrollLock
	KeyNumLock
	KeyPrintScreen
	KeyPause
	KeyMenu
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPDecimal
	KeyKPDivide
	KeyKPMultiply
	KeyKPSubtract
	KeyKPAdd
	KeyKPEnter
	KeyKPEqual
	// KeyModShift/Ctrl/Alt/Super are the bare modifier keys themselves
	// (pressing just Shift with nothing else held), reportable only under
	// the Kitty REPORT_ALL_KEYS_AS_ESC flag — see spec §4.E item 2.
	KeyModShift
	KeyModCtrl
	KeyModAlt
	KeyModSuper
)

// legacyArrowFinal maps the arrow/Home/End family to their CSI letter, used by
// both the plain and application-cursor-keys legacy encodings.
var legacyArrowFinal = map[Key]byte{
	KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D',
	KeyHome: 'H', KeyEnd: 'F',
}

// tildeCode maps keys encoded as "CSI N ~" (optionally with a modifier
// parameter: "CSI N ; Mod ~").
var tildeCode = map[Key]int{
	KeyInsert: 2, KeyDelete: 3, KeyPageUp: 5, KeyPageDown: 6,
	KeyF1: 11, KeyF2: 12, KeyF3: 13, KeyF4: 14, KeyF5: 15,
	KeyF6: 17, KeyF7: 18, KeyF8: 19, KeyF9: 20, KeyF10: 21, KeyF11: 23, KeyF12: 24,
}

// kittyCodepoint maps the Kitty keyboard protocol's "other functional keys"
// (spec §4.E item 2) to their fixed Unicode-private-use codepoints. These
// are always encoded as "CSI CODEPOINT ; MOD u" whenever any Kitty
// progressive-enhancement flag is active, unlike the arrow/tilde families
// above which keep their legacy shape.
var kittyCodepoint = map[Key]int{
	KeyEscape: 27,
	KeySpace:  32,

	KeyKP0: 57399, KeyKP1: 57400, KeyKP2: 57401, KeyKP3: 57402, KeyKP4: 57403,
	KeyKP5: 57404, KeyKP6: 57405, KeyKP7: 57406, KeyKP8: 57407, KeyKP9: 57408,
	KeyKPDecimal: 57409, KeyKPDivide: 57410, KeyKPMultiply: 57411,
	KeyKPSubtract: 57412, KeyKPAdd: 57413, KeyKPEnter: 57414, KeyKPEqual: 57415,

	KeyCapsLock: 57358, KeyScrollLock: 57359, KeyNumLock: 57360,
	KeyPrintScreen: 57361, KeyPause: 57362, KeyMenu: 57363,
}

// enterTabBackspaceCode is the CSI-u codepoint REPORT_ALL_KEYS_AS_ESC uses
// for these three keys instead of their legacy \r/\t/\x7F bytes.
var enterTabBackspaceCode = map[Key]int{
	KeyEnter: 13, KeyTab: 9, KeyBackspace: 127,
}

// bareModifierCodepoint maps a bare modifier keypress to its codepoint,
// reported only under REPORT_ALL_KEYS_AS_ESC per spec §4.E item 2's
// "(bare modifiers under REPORT_ALL)" parenthetical.
var bareModifierCodepoint = map[Key]int{
	KeyModShift: 57441, KeyModCtrl: 57443, KeyModAlt: 57445, KeyModSuper: 57447,
}

// encodeCSIu formats the Kitty keyboard protocol's "CSI CODEPOINT ; MOD u"
// sequence, omitting the modifier parameter when MOD is the default (1),
// matching the encoder's convention for the arrow/tilde families.
func encodeCSIu(codepoint int, mods Modifier) []byte {
	if mods == 0 {
		return []byte(fmt.Sprintf("\x1b[%du", codepoint))
	}
	return []byte(fmt.Sprintf("\x1b[%d;%du", codepoint, mods.wireValue()))
}

// Encoder turns key/mouse/paste events into bytes to write to a pane's PTY,
// consulting the grid's mode bits (app cursor keys, bracketed paste) and
// Kitty keyboard flags to pick the right wire format.
type Encoder struct {
	g *grid.Grid
}

func New(g *grid.Grid) *Encoder { return &Encoder{g: g} }

// EncodeKey returns the bytes to send for a non-printable key press. The
// Kitty keyboard protocol is consulted whenever any of its five
// progressive-enhancement flags is set, not only DISAMBIGUATE_ESC_CODES,
// per spec §4.E item 2.
func (e *Encoder) EncodeKey(key Key, mods Modifier) []byte {
	if e.g.KittyFlags() != 0 {
		if b, ok := e.encodeKitty(key, mods); ok {
			return b
		}
	}
	return e.encodeLegacy(key, mods)
}

func (e *Encoder) encodeLegacy(key Key, mods Modifier) []byte {
	switch key {
	case KeyEnter:
		if mods == ModShift {
			return []byte("\x1b[13;2u")
		}
		return []byte("\r")
	case KeyTab:
		if mods.has(ModShift) {
			return []byte("\x1b[Z")
		}
		return []byte("\t")
	case KeyBackspace:
		if mods.has(ModAlt) {
			return []byte("\x1b\x7f")
		}
		return []byte("\x7f")
	case KeyEscape:
		return []byte("\x1b")
	case KeySpace:
		if mods == 0 {
			return []byte(" ")
		}
		return []byte(fmt.Sprintf("\x1b[32;%du", mods.wireValue()))
	case KeyLeft:
		if mods == ModAlt {
			return []byte("\x1bb")
		}
	case KeyRight:
		if mods == ModAlt {
			return []byte("\x1bf")
		}
	}
	if final, ok := legacyArrowFinal[key]; ok {
		if mods == 0 {
			if e.g.Modes().Has(grid.ModeAppCursorKeys) {
				return []byte{0x1B, 'O', final}
			}
			return []byte{0x1B, '[', final}
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", mods.wireValue(), final))
	}
	if code, ok := tildeCode[key]; ok {
		if mods == 0 {
			return []byte(fmt.Sprintf("\x1b[%d~", code))
		}
		return []byte(fmt.Sprintf("\x1b[%d;%d~", code, mods.wireValue()))
	}
	return nil
}

// encodeKitty produces the Kitty keyboard protocol's functional-key
// encoding once a pane has opted in via any of its five flags. Arrow/Home/
// End keep the legacy "CSI 1 ; MOD {A|B|C|D|H|F}" form, sent as
// "CSI 1 {A|B|C|D|H|F}" when no modifier is held;
// Insert/Delete/PageUp/PageDown/F1-F12 use the legacy tilde form
// "CSI N ; MOD ~" with the same N table as non-Kitty mode, likewise without
// the modifier parameter when no modifier is held. Escape, Space,
// the keypad keys, CapsLock/ScrollLock/NumLock/PrintScreen/Pause/Menu
// always use the "CSI CODEPOINT ; MOD u" form. Enter/Tab/Backspace and bare
// modifier presses keep their legacy encodings unless
// REPORT_ALL_KEYS_AS_ESC is set, in which case they too become
// "CSI CODEPOINT ; MOD u".
func (e *Encoder) encodeKitty(key Key, mods Modifier) ([]byte, bool) {
	flags := e.g.KittyFlags()

	if code, ok := enterTabBackspaceCode[key]; ok {
		if !flags.Has(grid.KittyReportAllKeysAsEscape) {
			return nil, false
		}
		return encodeCSIu(code, mods), true
	}
	if code, ok := bareModifierCodepoint[key]; ok {
		if !flags.Has(grid.KittyReportAllKeysAsEscape) {
			return nil, false
		}
		return encodeCSIu(code, mods), true
	}
	if code, ok := kittyCodepoint[key]; ok {
		return encodeCSIu(code, mods), true
	}
	if final, ok := legacyArrowFinal[key]; ok {
		if mods == 0 {
			return []byte(fmt.Sprintf("\x1b[1%c", final)), true
		}
		return []byte(fmt.Sprintf("\x1b[1;%d%c", mods.wireValue(), final)), true
	}
	if code, ok := tildeCode[key]; ok {
		if mods == 0 {
			return []byte(fmt.Sprintf("\x1b[%d~", code)), true
		}
		return []byte(fmt.Sprintf("\x1b[%d;%d~", code, mods.wireValue())), true
	}
	return nil, false
}

func (m Modifier) has(bit Modifier) bool { return m&bit != 0 }

// EncodeRune encodes a printable character. Under an active Kitty mode, a
// plain keypress (MOD=1, no REPORT_ALL_KEYS_AS_ESC) still returns the
// literal character, but anything else - Ctrl/Alt/Shift held, or
// REPORT_ALL_KEYS_AS_ESC set - returns "CSI CODEPOINT ; MOD u" instead of
// the legacy Ctrl mask/Alt prefix. With no Kitty flags set, Ctrl applies
// its low 5-bit mask to ASCII letters and Alt prefixes ESC ("meta").
func (e *Encoder) EncodeRune(r rune, mods Modifier) []byte {
	if flags := e.g.KittyFlags(); flags != 0 {
		if mods == 0 && !flags.Has(grid.KittyReportAllKeysAsEscape) {
			return []byte(string(r))
		}
		return encodeCSIu(int(r), mods)
	}
	if mods.has(ModCtrl) && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
		return []byte{byte(r) & 0x1F}
	}
	buf := []byte(string(r))
	if mods.has(ModAlt) {
		return append([]byte{0x1B}, buf...)
	}
	return buf
}
