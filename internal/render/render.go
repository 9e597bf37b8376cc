// Package render turns a pane's grid into the per-frame draw data the UI
// toolkit's generic canvas consumes: background quads, shaped text runs,
// cursor shape, selection/search overlays, and the OSC 9;4 progress strip.
// It never touches a GPU or windowing API directly — that canvas is the
// external collaborator spec.md §1 excludes from the core; this package
// only builds the data those draw calls would use.
package render

import (
	"vtcore/internal/grid"
)

// Theme is the subset of settings-owned colors the render pipeline needs.
// Everything else about themes (names, palettes beyond these, live reload)
// stays outside the core per spec.md §1.
type Theme struct {
	DefaultFg      [3]uint8
	DefaultBg      [3]uint8
	SelectionTint  [3]uint8
	SearchTint     [3]uint8
	SearchCurrent  [3]uint8
	CursorColor    [3]uint8
}

// DefaultTheme is a reasonable dark-background fallback for callers (tests,
// headless demos) that don't have a live settings file.
var DefaultTheme = Theme{
	DefaultFg:     [3]uint8{0xe5, 0xe5, 0xe5},
	DefaultBg:     [3]uint8{0x00, 0x00, 0x00},
	SelectionTint: [3]uint8{0x3a, 0x3a, 0x5c},
	SearchTint:    [3]uint8{0x5c, 0x5c, 0x10},
	SearchCurrent: [3]uint8{0xb0, 0x8a, 0x00},
	CursorColor:   [3]uint8{0xff, 0xff, 0xff},
}

// RenderCell is one drawable glyph: non-space, non-NUL cells only.
type RenderCell struct {
	Row, Col int
	Rune     rune
	Fg       [3]uint8
	Bold     bool
	Italic   bool
	Width    int
}

// BGRegion is a run of same-row, column-adjacent cells sharing one
// non-default background color, merged so the renderer can fill it with a
// single quad instead of one per cell.
type BGRegion struct {
	Row             int
	ColStart, ColEnd int // ColEnd exclusive
	Color           [3]uint8
}

// OverlayRegion is a translucent tint painted over a row span: selection or
// search-match highlighting.
type OverlayRegion struct {
	Row             int
	ColStart, ColEnd int // inclusive
	Color           [3]uint8
}

// Cursor is the resolved on-screen cursor, or nil if hidden/off-screen.
type Cursor struct {
	Row, Col int
	Shape    grid.CursorShape
	Color    [3]uint8
}

// ProgressBar describes the OSC 9;4 strip painted at the pane's bottom.
type ProgressBar struct {
	Color [3]uint8
	Frac  float64 // width = total_w * Frac; 1.0 for the indeterminate dim strip
}

// SearchMatch is one in-buffer match to highlight, in the same row
// coordinate space as Grid.RenderableRow (see internal/copymode).
type SearchMatch struct {
	Row             int
	StartCol, EndCol int // EndCol exclusive
}

// Frame is everything one call to Pipeline.Build produced; the caller feeds
// it to whatever canvas abstraction the UI toolkit provides.
type Frame struct {
	Cells      []RenderCell
	BGRegions  []BGRegion
	Selection  []OverlayRegion
	Search     []OverlayRegion
	Cursor     *Cursor
	Progress   *ProgressBar
}

// Pipeline builds Frames for one pane. It is stateless aside from the
// theme, so it is safe to share across panes.
type Pipeline struct {
	Theme Theme
}

func New(theme Theme) *Pipeline { return &Pipeline{Theme: theme} }

// Input bundles the per-frame extras the grid itself doesn't carry: the
// current and all search matches (internal/copymode owns the search state),
// so the pipeline can paint highlights without importing copymode (which
// imports grid, avoiding an import cycle).
type Input struct {
	Matches      []SearchMatch
	CurrentMatch int // index into Matches, -1 if none
}

// Build walks the grid's visible rows and produces one Frame. Rows are
// indexed the same way Grid.VisibleRows returns them: 0 is the top of the
// current viewport, accounting for scroll/display offset.
func (p *Pipeline) Build(g *grid.Grid, in Input) Frame {
	rows := g.VisibleRows()
	_, cols := g.Size()

	var f Frame
	var curBG *BGRegion
	sel := g.Selection()
	displayOffset := g.ScrollOffset()
	// RenderableRow index of the top visible row.
	viewStart := g.ScrollbackLen() - displayOffset

	flushBG := func() {
		if curBG != nil {
			f.BGRegions = append(f.BGRegions, *curBG)
			curBG = nil
		}
	}

	for visRow, cells := range rows {
		for col := 0; col < cols; col++ {
			var cell grid.Cell
			if col < len(cells) {
				cell = cells[col]
			} else {
				cell = grid.Blank()
			}
			if cell.Width == 0 {
				// WIDE_CHAR_SPACER: no glyph, no independent background run.
				flushBG()
				continue
			}

			fg, bg, isDefaultBg := p.resolveColors(cell)

			if !isDefaultBg {
				if curBG != nil && curBG.Row == visRow && curBG.ColEnd == col && curBG.Color == bg {
					curBG.ColEnd = col + cell.Width
				} else {
					flushBG()
					curBG = &BGRegion{Row: visRow, ColStart: col, ColEnd: col + cell.Width, Color: bg}
				}
			} else {
				flushBG()
			}

			if cell.Rune != ' ' && cell.Rune != 0 {
				f.Cells = append(f.Cells, RenderCell{
					Row: visRow, Col: col, Rune: cell.Rune, Fg: fg,
					Bold: cell.Flags.Has(grid.FlagBold), Italic: cell.Flags.Has(grid.FlagItalic),
					Width: cell.Width,
				})
			}
		}
		flushBG()

		if sel.Active() {
			// Selection rows are addressed in the same [scrollback..live]
			// space as Contains; convert to a visible-row span.
			gridRow := viewStart + visRow
			if lo, hi := rowSelectionSpan(sel, gridRow, cols); lo >= 0 {
				f.Selection = append(f.Selection, OverlayRegion{Row: visRow, ColStart: lo, ColEnd: hi, Color: p.Theme.SelectionTint})
			}
		}
	}

	for i, m := range in.Matches {
		color := p.Theme.SearchTint
		if i == in.CurrentMatch {
			color = p.Theme.SearchCurrent
		}
		row := m.Row - viewStart
		if row < 0 || row >= len(rows) {
			continue
		}
		f.Search = append(f.Search, OverlayRegion{Row: row, ColStart: m.StartCol, ColEnd: m.EndCol - 1, Color: color})
	}

	if cur := g.Cursor(); cur.Visible && cur.Shape != grid.CursorHidden {
		row := cur.Row + displayOffset
		if row >= 0 && row < len(rows) {
			f.Cursor = &Cursor{Row: row, Col: cur.Col, Shape: cur.Shape, Color: p.Theme.CursorColor}
		}
	}

	f.Progress = p.buildProgress(g.Progress())

	return f
}

// rowSelectionSpan returns the inclusive [start, end] column span selected
// on gridRow, or (-1, -1) if the row has no selected columns. Single-cell
// selections are skipped per spec §4.D stage 4.
func rowSelectionSpan(sel grid.Selection, gridRow, cols int) (int, int) {
	startRow, endRow := sel.RowRange()
	if gridRow < startRow || gridRow > endRow {
		return -1, -1
	}
	lo, hi := -1, -1
	for col := 0; col < cols; col++ {
		if sel.Contains(gridRow, col) {
			if lo < 0 {
				lo = col
			}
			hi = col
		}
	}
	if lo < 0 || lo == hi {
		return -1, -1
	}
	return lo, hi
}

// buildProgress maps grid.ProgressState to the 3px strip spec.md §4.D stage
// 9 describes: green for normal, red for error, yellow for paused, dim-green
// full-width for indeterminate; nil when hidden.
func (p *Pipeline) buildProgress(ps grid.ProgressState) *ProgressBar {
	if !ps.Active {
		return nil
	}
	switch {
	case ps.Indeterminate:
		return &ProgressBar{Color: [3]uint8{0x00, 0x60, 0x00}, Frac: 1.0}
	case ps.Error:
		return &ProgressBar{Color: [3]uint8{0xcc, 0x00, 0x00}, Frac: float64(ps.Percent) / 100}
	case ps.Paused:
		return &ProgressBar{Color: [3]uint8{0xcc, 0xcc, 0x00}, Frac: float64(ps.Percent) / 100}
	default:
		return &ProgressBar{Color: [3]uint8{0x00, 0xaa, 0x00}, Frac: float64(ps.Percent) / 100}
	}
}
