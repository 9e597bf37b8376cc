package grid

import "strconv"

// parseSGR decodes the SGR ("\033[...m") escape sequence midterm.Format.Render
// produces for one format region into our own Fg/Bg/Flags representation.
// midterm exposes formatting only as a renderable escape string, not as
// exported fields, so this is the seam between its internal Format type and
// ours: the same out-of-band scanning idiom used for OSC sequences in
// oscscan.go, applied to SGR instead.
func parseSGR(seq string) (fg, bg Color, flags CellFlags) {
	fg, bg = DefaultColor, DefaultColor
	codes := splitSGRCodes(seq)
	for i := 0; i < len(codes); i++ {
		n := codes[i]
		switch {
		case n == 0:
			fg, bg, flags = DefaultColor, DefaultColor, 0
		case n == 1:
			flags |= FlagBold
		case n == 2:
			flags |= FlagDim
		case n == 3:
			flags |= FlagItalic
		case n == 4:
			flags |= FlagUnderline
		case n == 5 || n == 6:
			flags |= FlagBlink
		case n == 7:
			flags |= FlagInverse
		case n == 8:
			flags |= FlagHidden
		case n == 9:
			flags |= FlagStrikethrough
		case n == 22:
			flags &^= FlagBold | FlagDim
		case n == 23:
			flags &^= FlagItalic
		case n == 24:
			flags &^= FlagUnderline
		case n == 25:
			flags &^= FlagBlink
		case n == 27:
			flags &^= FlagInverse
		case n == 28:
			flags &^= FlagHidden
		case n == 29:
			flags &^= FlagStrikethrough
		case n >= 30 && n <= 37:
			fg = NamedColor(uint8(n - 30))
		case n == 38:
			var c Color
			i, c = parseExtendedColor(codes, i)
			fg = c
		case n == 39:
			fg = DefaultColor
		case n >= 40 && n <= 47:
			bg = NamedColor(uint8(n - 40))
		case n == 48:
			var c Color
			i, c = parseExtendedColor(codes, i)
			bg = c
		case n == 49:
			bg = DefaultColor
		case n >= 90 && n <= 97:
			fg = NamedColor(uint8(n - 90 + 8))
		case n >= 100 && n <= 107:
			bg = NamedColor(uint8(n - 100 + 8))
		}
	}
	return fg, bg, flags
}

// parseExtendedColor handles the "38;5;N" (indexed) and "38;2;R;G;B"
// (truecolor) extended color forms starting at codes[i] == 38 or 48. It
// returns the index of the last consumed code and the resolved color.
func parseExtendedColor(codes []int, i int) (int, Color) {
	if i+1 >= len(codes) {
		return i, DefaultColor
	}
	switch codes[i+1] {
	case 5:
		if i+2 < len(codes) {
			return i + 2, IndexedColor(uint8(codes[i+2]))
		}
	case 2:
		if i+4 < len(codes) {
			return i + 4, RGBColor(uint8(codes[i+2]), uint8(codes[i+3]), uint8(codes[i+4]))
		}
	}
	return i + 1, DefaultColor
}

// splitSGRCodes extracts the numeric parameters from one or more "\033[...m"
// sequences embedded in seq, treating a bare "\033[m" as code 0.
func splitSGRCodes(seq string) []int {
	var codes []int
	i := 0
	for i < len(seq) {
		if seq[i] != 0x1B {
			i++
			continue
		}
		i++
		if i >= len(seq) || seq[i] != '[' {
			continue
		}
		i++
		start := i
		for i < len(seq) && seq[i] != 'm' {
			i++
		}
		params := seq[start:i]
		if i < len(seq) {
			i++ // consume 'm'
		}
		if params == "" {
			codes = append(codes, 0)
			continue
		}
		for _, part := range splitBytes(params, ';') {
			if part == "" {
				codes = append(codes, 0)
				continue
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				continue
			}
			codes = append(codes, v)
		}
	}
	return codes
}

func splitBytes(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
