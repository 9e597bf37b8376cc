package grid

// ModeBits tracks terminal modes a renderer and input encoder need to know
// about but that midterm does not expose directly: DEC private modes set via
// CSI ? Pm h/l, plus the Kitty keyboard protocol's progressive-enhancement
// flags (distinct from the Kitty graphics protocol). The VT worker updates
// these by scanning child output for the relevant CSI sequences alongside
// feeding bytes to the grid.
type ModeBits uint32

const (
	ModeAppCursorKeys ModeBits = 1 << iota // DECCKM, ?1
	ModeAppKeypad                          // DECKPAM/DECKPNM
	ModeBracketedPaste                      // ?2004
	ModeMouseX10                            // ?9
	ModeMouseVT200                          // ?1000
	ModeMouseButtonEvent                    // ?1002
	ModeMouseAnyEvent                       // ?1003
	ModeMouseSGR                            // ?1006
	ModeMouseUTF8                           // ?1005
	ModeAltScreen                           // ?1049/?47/?1047
	ModeFocusEvents                         // ?1004
	ModeOriginMode                          // DECOM, ?6
	ModeAutowrap                            // DECAWM, ?7
	ModeCursorVisible                       // DECTCEM, ?25 (default on)
)

func (m ModeBits) Has(bit ModeBits) bool { return m&bit != 0 }

func (m *ModeBits) Set(bit ModeBits, on bool) {
	if on {
		*m |= bit
	} else {
		*m &^= bit
	}
}

// MouseReportMode resolves which mouse protocol, if any, is active, in
// priority order: any-event > button-event > vt200 > x10.
func (m ModeBits) MouseReportMode() (active bool, anyEvent bool, buttonEvent bool) {
	switch {
	case m.Has(ModeMouseAnyEvent):
		return true, true, false
	case m.Has(ModeMouseButtonEvent):
		return true, false, true
	case m.Has(ModeMouseVT200), m.Has(ModeMouseX10):
		return true, false, false
	default:
		return false, false, false
	}
}

// KittyFlags is the Kitty keyboard progressive-enhancement protocol's flag
// set (CSI > flags u / CSI = flags ; mode u), independent of ModeBits.
type KittyFlags uint8

const (
	KittyDisambiguateEscapeCodes KittyFlags = 1 << iota
	KittyReportEventTypes
	KittyReportAlternateKeys
	KittyReportAllKeysAsEscape
	KittyReportAssociatedText
)

func (k KittyFlags) Has(flag KittyFlags) bool { return k&flag != 0 }
