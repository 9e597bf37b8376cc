package grid

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// decodeANSILine decodes a fully-rendered ANSI line (as produced by
// midterm.Line.Display(), used for captured scrollback) into Cells. Unlike
// decodeLiveRowLocked, which walks midterm's own Format.Regions, this walks
// the escape sequences embedded in the string directly, since Display()
// hands back plain text rather than a region iterator.
func decodeANSILine(s string) []Cell {
	cells := make([]Cell, 0, len(s))
	fg, bg := DefaultColor, DefaultColor
	var flags CellFlags
	i := 0
	for i < len(s) {
		if s[i] == 0x1B && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				fg, bg, flags = parseSGR(s[i : j+1])
				i = j + 1
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		cells = append(cells, Cell{
			Rune:  r,
			Width: runeWidth(r),
			Fg:    fg,
			Bg:    bg,
			Flags: flags,
		})
	}
	return cells
}

// runeWidth resolves a rune's terminal column width, used to set each
// Cell's Width.
func runeWidth(r rune) int {
	if r == 0 {
		return 1
	}
	return runewidth.RuneWidth(r)
}
