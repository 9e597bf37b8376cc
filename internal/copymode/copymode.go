// Package copymode implements a vi-like overlay interaction state machine:
// a cursor over the grid that moves with h/j/k/l, word and line motions,
// half-page scrolling, and three selection toggles (character, line,
// block), plus an in-buffer search bar (literal, regex, and fuzzy modes).
package copymode

import (
	"strings"
	"unicode"

	"vtcore/internal/grid"
	"vtcore/internal/input"
)

// Mode is the active selection toggle, mirroring grid.SelectionMode but
// named for the copy-mode keys that set it (v/V/Ctrl+V).
type Mode = grid.SelectionMode

const (
	SelectNone      = grid.SelectionNone
	SelectCharacter = grid.SelectionCharacter
	SelectLine      = grid.SelectionLine
	SelectBlock     = grid.SelectionBlock
)

// State is one pane's copy-mode overlay. Entering it snapshots the grid's
// size and the terminal cursor's current visual position as the anchor; all
// subsequent movement is relative to that snapshot until Exit.
type State struct {
	g *grid.Grid

	Active bool
	Mode   Mode

	rows, cols int
	rowOffset  int // row index (in Grid.RenderableRow space) of the viewport top

	cursor grid.Point
	anchor grid.Point
}

// New builds a copy-mode controller over a pane's grid. It starts inactive;
// call Enter to snapshot state and begin accepting movement keys.
func New(g *grid.Grid) *State {
	return &State{g: g}
}

// Enter snapshots the grid's current size and cursor position as the
// copy-mode anchor and activates the overlay.
func (s *State) Enter() {
	rows, cols := s.g.Size()
	s.rows, s.cols = rows, cols
	s.rowOffset = s.g.ScrollbackLen() - s.g.ScrollOffset()

	cur := s.g.Cursor()
	pos := grid.Point{Row: s.rowOffset + cur.Row, Col: cur.Col}
	s.cursor = pos
	s.anchor = pos
	s.Mode = SelectNone
	s.Active = true
}

// Exit cancels copy mode without touching the clipboard (Escape).
func (s *State) Exit() {
	s.Active = false
	s.Mode = SelectNone
	s.g.ClearSelection()
}

// totalRows is the highest valid row index (Grid.RenderableRow space) plus
// one; copy-mode movement clamps into [0, totalRows).
func (s *State) totalRows() int {
	return s.g.TotalRows()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// move repositions the cursor, clamping into grid bounds: every movement
// stays within [0,rows) x [0,cols), and range computations stay safe even
// on a zero-sized grid.
func (s *State) move(row, col int) {
	maxRow := s.totalRows() - 1
	if maxRow < 0 {
		maxRow = 0
	}
	s.cursor.Row = clamp(row, 0, maxRow)
	maxCol := s.cols - 1
	if maxCol < 0 {
		maxCol = 0
	}
	s.cursor.Col = clamp(col, 0, maxCol)
	s.syncSelection()
}

func (s *State) syncSelection() {
	if s.Mode == SelectNone {
		return
	}
	s.g.SetSelection(grid.Selection{Mode: s.Mode, Anchor: s.anchor, Cursor: s.cursor})
}

// Left, Down, Up, Right implement h/j/k/l.
func (s *State) Left()  { s.move(s.cursor.Row, s.cursor.Col-1) }
func (s *State) Right() { s.move(s.cursor.Row, s.cursor.Col+1) }
func (s *State) Up()    { s.move(s.cursor.Row-1, s.cursor.Col) }
func (s *State) Down()  { s.move(s.cursor.Row+1, s.cursor.Col) }

// LineStart, LineEnd implement 0/$.
func (s *State) LineStart() { s.move(s.cursor.Row, 0) }
func (s *State) LineEnd()   { s.move(s.cursor.Row, s.cols-1) }

// Top, Bottom implement gg/G.
func (s *State) Top()    { s.move(0, s.cursor.Col) }
func (s *State) Bottom() { s.move(s.totalRows()-1, s.cursor.Col) }

// HalfPageUp, HalfPageDown implement Ctrl+U/Ctrl+D.
func (s *State) HalfPageUp()   { s.move(s.cursor.Row-s.rows/2, s.cursor.Col) }
func (s *State) HalfPageDown() { s.move(s.cursor.Row+s.rows/2, s.cursor.Col) }

// cellIsBlank reports whether a cell counts as word-motion whitespace.
func cellIsBlank(c grid.Cell) bool {
	return c.Width == 0 || c.Rune == 0 || c.Rune == ' ' || unicode.IsSpace(c.Rune)
}

// WordForward implements w: the next whitespace-delimited word start,
// scanning forward across row boundaries.
func (s *State) WordForward() {
	row, col := s.cursor.Row, s.cursor.Col
	cells := s.g.RenderableRow(row)
	inWord := col < len(cells) && !cellIsBlank(cells[col])
	for {
		col++
		if col >= s.cols {
			row++
			col = 0
			if row >= s.totalRows() {
				s.move(s.totalRows()-1, s.cols-1)
				return
			}
			cells = s.g.RenderableRow(row)
			inWord = false
		}
		blank := col >= len(cells) || cellIsBlank(cells[col])
		if blank {
			inWord = false
			continue
		}
		if !inWord {
			s.move(row, col)
			return
		}
	}
}

// WordBack implements b: the previous word start, scanning backward.
func (s *State) WordBack() {
	row, col := s.cursor.Row, s.cursor.Col
	for {
		col--
		if col < 0 {
			row--
			if row < 0 {
				s.move(0, 0)
				return
			}
			col = s.cols - 1
		}
		cells := s.g.RenderableRow(row)
		if col >= len(cells) || cellIsBlank(cells[col]) {
			continue
		}
		// Walk to the start of this word.
		for col > 0 {
			prev := cells[col-1]
			if cellIsBlank(prev) {
				break
			}
			col--
		}
		s.move(row, col)
		return
	}
}

// ToggleCharacter, ToggleLine, ToggleBlock implement v/V/Ctrl+V: entering a
// mode sets the anchor to the current cursor; re-pressing the same key
// exits selection entirely, matching vi's visual-mode toggle behavior.
func (s *State) ToggleCharacter() { s.toggle(SelectCharacter) }
func (s *State) ToggleLine()      { s.toggle(SelectLine) }
func (s *State) ToggleBlock()     { s.toggle(SelectBlock) }

func (s *State) toggle(mode Mode) {
	if s.Mode == mode {
		s.Mode = SelectNone
		s.g.ClearSelection()
		return
	}
	s.Mode = mode
	s.anchor = s.cursor
	s.syncSelection()
}

// Yank extracts the current selection's text per spec.md §4.G's per-mode
// join rules, writes it to the system clipboard, and exits copy mode. It
// returns the extracted text (tests don't need a live clipboard to assert
// on it).
func (s *State) Yank() (string, error) {
	text := s.ExtractText()
	s.Exit()
	if text == "" {
		return text, nil
	}
	return text, input.WriteClipboard(text)
}

// ExtractText computes the selection text without mutating state, using the
// per-mode join rules spec.md §4.G spells out: Character joins with '\n'
// verbatim per row; Line trims trailing whitespace per row; Block extracts
// each row's [start,end] column span, trimming trailing whitespace.
func (s *State) ExtractText() string {
	if s.Mode == SelectNone {
		return ""
	}
	sel := grid.Selection{Mode: s.Mode, Anchor: s.anchor, Cursor: s.cursor}
	switch s.Mode {
	case SelectLine:
		return extractLine(sel, s.g, s.cols)
	case SelectBlock:
		return extractBlock(sel, s.g)
	default:
		startRow, endRow := sel.RowRange()
		lines := make([]string, 0, endRow-startRow+1)
		for row := startRow; row <= endRow; row++ {
			var line strings.Builder
			for col, cell := range s.g.RenderableRow(row) {
				if sel.Contains(row, col) && cell.Width != 0 {
					line.WriteRune(cell.Rune)
				}
			}
			lines = append(lines, line.String())
		}
		return strings.Join(lines, "\n")
	}
}

func extractLine(sel grid.Selection, g *grid.Grid, cols int) string {
	startRow, endRow := sel.RowRange()
	var lines []string
	for row := startRow; row <= endRow; row++ {
		cells := g.RenderableRow(row)
		var b strings.Builder
		for col := 0; col < cols && col < len(cells); col++ {
			if cells[col].Width == 0 {
				continue
			}
			b.WriteRune(cells[col].Rune)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

func extractBlock(sel grid.Selection, g *grid.Grid) string {
	a, c := sel.Anchor, sel.Cursor
	minRow, maxRow := a.Row, c.Row
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	minCol, maxCol := a.Col, c.Col
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	var lines []string
	for row := minRow; row <= maxRow; row++ {
		cells := g.RenderableRow(row)
		var b strings.Builder
		for col := minCol; col <= maxCol && col < len(cells); col++ {
			if cells[col].Width == 0 {
				continue
			}
			b.WriteRune(cells[col].Rune)
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}
