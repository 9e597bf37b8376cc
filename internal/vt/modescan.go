package vt

import (
	"strconv"
	"strings"

	"vtcore/internal/grid"
)

// scanModes walks data for CSI "?Pm h"/"?Pm l" (DEC private mode set/reset)
// and the Kitty keyboard protocol's progressive-enhancement sequences,
// applying each one found to g. This is the same out-of-band scanning idiom
// oscscan.go uses for OSC sequences, aimed at CSI instead: midterm parses
// and acts on these sequences for its own internal state (alt-screen
// buffers, cursor visibility) but does not expose the raw mode bits, so the
// worker recovers them itself.
func scanModes(data []byte, g *grid.Grid) {
	i := 0
	for i < len(data) {
		if data[i] != 0x1B || i+1 >= len(data) || data[i+1] != '[' {
			i++
			continue
		}
		start := i + 2
		j := start
		for j < len(data) && !isCSIFinal(data[j]) {
			j++
		}
		if j >= len(data) {
			break
		}
		params := string(data[start:j])
		final := data[j]
		applyCSIMode(params, final, g)
		i = j + 1
	}
}

func isCSIFinal(b byte) bool { return b >= 0x40 && b <= 0x7E }

func applyCSIMode(params string, final byte, g *grid.Grid) {
	switch {
	case strings.HasPrefix(params, "?") && (final == 'h' || final == 'l'):
		applyDECMode(params[1:], final == 'h', g)
	case strings.HasPrefix(params, "=") && final == 'u':
		if v, err := strconv.Atoi(strings.TrimSuffix(params[1:], ";1")); err == nil {
			g.SetKittyFlags(grid.KittyFlags(v))
		}
	case strings.HasPrefix(params, ">") && final == 'u':
		if v, err := strconv.Atoi(params[1:]); err == nil {
			g.SetKittyFlags(g.KittyFlags() | grid.KittyFlags(v))
		}
	case params == "<" && final == 'u':
		g.SetKittyFlags(0)
	}
}

var decModeBits = map[int]grid.ModeBits{
	1:    grid.ModeAppCursorKeys,
	6:    grid.ModeOriginMode,
	7:    grid.ModeAutowrap,
	9:    grid.ModeMouseX10,
	25:   grid.ModeCursorVisible,
	47:   grid.ModeAltScreen,
	1000: grid.ModeMouseVT200,
	1002: grid.ModeMouseButtonEvent,
	1003: grid.ModeMouseAnyEvent,
	1004: grid.ModeFocusEvents,
	1005: grid.ModeMouseUTF8,
	1006: grid.ModeMouseSGR,
	1047: grid.ModeAltScreen,
	1049: grid.ModeAltScreen,
	2004: grid.ModeBracketedPaste,
}

func applyDECMode(params string, on bool, g *grid.Grid) {
	for _, part := range strings.Split(params, ";") {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		if bit, ok := decModeBits[n]; ok {
			g.SetMode(bit, on)
		}
	}
}
