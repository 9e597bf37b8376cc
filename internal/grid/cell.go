package grid

// CellFlags is a bitset of SGR text attributes, parsed off each format
// region's rendered escape sequence (see parseSGR in sgr.go).
type CellFlags uint16

const (
	FlagBold CellFlags = 1 << iota
	FlagDim
	FlagItalic
	FlagUnderline
	FlagBlink
	FlagInverse
	FlagHidden
	FlagStrikethrough
)

func (f CellFlags) Has(flag CellFlags) bool { return f&flag != 0 }

// Cell is one character position of rendered content: the rune to draw plus
// its resolved foreground/background and attribute bits. This is the unit
// the render pipeline consumes; it never touches midterm types directly.
type Cell struct {
	Rune  rune
	Width int // 2 for a double-width rune, 0 for its second column, 1 normally
	Fg    Color
	Bg    Color
	Flags CellFlags
}

// Blank returns a default-styled empty cell, used to pad rows shorter than
// the grid's column count and to fill newly grown scrollback lines.
func Blank() Cell {
	return Cell{Rune: ' ', Width: 1, Fg: DefaultColor, Bg: DefaultColor}
}
