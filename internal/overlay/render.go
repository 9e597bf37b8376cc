package overlay

import (
	"bytes"
	"fmt"

	"github.com/muesli/termenv"

	"vtcore/internal/render"
)

// drawFrame turns one render.Frame into ANSI and writes it to the host
// terminal: background fills first, overlay tints layered on top, glyphs
// last, cursor positioning and the OSC 9;4-derived progress strip at the
// very end. Mirrors the teacher's RenderScreen/RenderBar split (full
// content redraw, then a status strip) but sourced from render.Frame
// instead of a VT buffer walked directly.
func (s *Session) drawFrame(f render.Frame) {
	if s.cols <= 0 || s.rows <= 0 {
		return
	}
	bg := make([][3]uint8, s.rows*s.cols)
	hasBG := make([]bool, s.rows*s.cols)
	for r := range bg {
		bg[r] = s.pipeline.Theme.DefaultBg
	}
	idx := func(row, col int) int { return row*s.cols + col }

	paintRegion := func(row, lo, hi int, color [3]uint8, inclusive bool) {
		if row < 0 || row >= s.rows {
			return
		}
		end := hi
		if inclusive {
			end++
		}
		for col := lo; col < end && col < s.cols; col++ {
			if col < 0 {
				continue
			}
			bg[idx(row, col)] = color
			hasBG[idx(row, col)] = true
		}
	}

	for _, r := range f.BGRegions {
		paintRegion(r.Row, r.ColStart, r.ColEnd, r.Color, false)
	}
	for _, r := range f.Selection {
		paintRegion(r.Row, r.ColStart, r.ColEnd, r.Color, true)
	}
	for _, r := range f.Search {
		paintRegion(r.Row, r.ColStart, r.ColEnd, r.Color, true)
	}

	glyph := make([]rune, s.rows*s.cols)
	fg := make([][3]uint8, s.rows*s.cols)
	for i := range glyph {
		glyph[i] = ' '
	}
	for _, c := range f.Cells {
		if c.Row < 0 || c.Row >= s.rows || c.Col < 0 || c.Col >= s.cols {
			continue
		}
		glyph[idx(c.Row, c.Col)] = c.Rune
		fg[idx(c.Row, c.Col)] = c.Fg
	}

	var buf bytes.Buffer
	buf.WriteString("\x1b[?25l")
	for row := 0; row < s.rows; row++ {
		fmt.Fprintf(&buf, "\x1b[%d;1H\x1b[2K", row+1)
		s.writeRow(&buf, row, glyph, fg, bg, hasBG)
	}
	if f.Progress != nil {
		s.writeProgress(&buf, *f.Progress)
	}
	if f.Cursor != nil {
		fmt.Fprintf(&buf, "\x1b[%d;%dH\x1b[?25h", f.Cursor.Row+1, f.Cursor.Col+1)
	}
	s.out.Write(buf.Bytes())
}

// writeRow emits one row, coalescing runs of identical fg/bg into a single
// SGR sequence the way the teacher's RenderLine coalesces midterm.Format
// regions, instead of re-emitting color codes per cell.
func (s *Session) writeRow(buf *bytes.Buffer, row int, glyph []rune, fg, bgColors [][3]uint8, hasBG []bool) {
	lastFg, lastBg := [3]uint8{}, [3]uint8{}
	started := false
	for col := 0; col < s.cols; col++ {
		i := row*s.cols + col
		curFg, curBg := fg[i], s.pipeline.Theme.DefaultBg
		if hasBG[i] {
			curBg = bgColors[i]
		}
		if !started || curFg != lastFg || curBg != lastBg {
			buf.WriteString(s.sgr(curFg, curBg, hasBG[i]))
			lastFg, lastBg = curFg, curBg
			started = true
		}
		buf.WriteRune(glyph[i])
	}
	buf.WriteString("\x1b[0m")
}

// sgr renders one CSI sequence carrying both the foreground and (when
// hasBG) background color, via termenv so the actual codes emitted (truecolor
// vs 256-color vs ANSI-16) match whatever profile the host terminal supports
// instead of always assuming truecolor.
func (s *Session) sgr(fg, bg [3]uint8, hasBG bool) string {
	seq := "0;" + s.profile.Color(hexColor(fg)).Sequence(false)
	if hasBG {
		seq += ";" + s.profile.Color(hexColor(bg)).Sequence(true)
	}
	return termenv.CSI + seq + "m"
}

func hexColor(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// writeProgress paints the OSC 9;4 progress strip on the bottom row: a
// Frac-wide run of spaces with Color as background. The rest of the row is
// left as the frame drew it.
func (s *Session) writeProgress(buf *bytes.Buffer, p render.ProgressBar) {
	row := s.rows
	width := int(float64(s.cols) * p.Frac)
	if width > s.cols {
		width = s.cols
	}
	fmt.Fprintf(buf, "\x1b[%d;1H", row)
	buf.WriteString(termenv.CSI + "0;" + s.profile.Color(hexColor(p.Color)).Sequence(true) + "m")
	for i := 0; i < width; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString("\x1b[0m")
}
