package grid

import "strings"

// SelectionMode controls how a start/end point pair is expanded into the
// set of cells considered selected.
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionCharacter
	SelectionLine
	SelectionBlock
)

// Point is a zero-based (row, col) grid coordinate. Row indexes scrollback
// and live rows together the way Grid.RenderableRow does: 0 is the oldest
// captured scrollback line, and the live screen follows the scrollback.
type Point struct {
	Row, Col int
}

// Selection is the authority for "what text is currently selected", shared
// by mouse-drag selection and copy-mode's visual-select. Anchor is where the
// drag/selection started; Cursor is the live end point and may be before
// Anchor in either axis.
type Selection struct {
	Mode   SelectionMode
	Anchor Point
	Cursor Point
}

func (s Selection) Active() bool { return s.Mode != SelectionNone }

// ordered returns (start, end) with start always earlier in reading order.
func (s Selection) ordered() (Point, Point) {
	a, c := s.Anchor, s.Cursor
	if a.Row > c.Row || (a.Row == c.Row && a.Col > c.Col) {
		a, c = c, a
	}
	return a, c
}

// Contains reports whether (row, col) falls inside the selection under its
// current mode.
func (s Selection) Contains(row, col int) bool {
	if !s.Active() {
		return false
	}
	start, end := s.ordered()
	switch s.Mode {
	case SelectionLine:
		return row >= start.Row && row <= end.Row
	case SelectionBlock:
		lo, hi := start.Col, end.Col
		if lo > hi {
			lo, hi = hi, lo
		}
		return row >= start.Row && row <= end.Row && col >= lo && col <= hi
	default: // SelectionCharacter
		if row < start.Row || row > end.Row {
			return false
		}
		if row == start.Row && col < start.Col {
			return false
		}
		if row == end.Row && col > end.Col {
			return false
		}
		return true
	}
}

// RowRange returns the inclusive row span the selection touches, useful for
// callers that want to avoid scanning every row of the grid.
func (s Selection) RowRange() (int, int) {
	start, end := s.ordered()
	return start.Row, end.Row
}

// ExtractText renders the selected cells of the given rows (indexed the same
// way as Contains — see Grid.RenderableRow) into a plain-text string,
// joining selected lines with newlines and trimming trailing blanks the way
// a terminal's own copy-to-clipboard does.
func ExtractText(selection Selection, rows func(row int) []Cell) string {
	if !selection.Active() {
		return ""
	}
	start, end := selection.ordered()
	var b strings.Builder
	for row := start.Row; row <= end.Row; row++ {
		cells := rows(row)
		var line strings.Builder
		for col, cell := range cells {
			if !selection.Contains(row, col) {
				continue
			}
			if cell.Width == 0 {
				continue
			}
			line.WriteRune(cell.Rune)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		if row != end.Row {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
