// Package grid wraps vito/midterm's byte-stream VT parser with the richer
// contract the rest of the terminal core needs: a cell-based renderable view
// (not an ANSI string), bounded scrollback, a selection authority, DEC mode
// tracking, and out-of-band OSC scanning for sequences midterm does not
// interpret itself.
package grid

import (
	"sync"

	"github.com/vito/midterm"
)

// Cursor is the grid's notion of cursor position and appearance, extending
// midterm's own X/Y with the shape and visibility a renderer needs.
type Cursor struct {
	Row, Col int
	Shape    CursorShape
	Visible  bool
}

type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorHollowBlock
	CursorBeam
	CursorUnderline
	CursorHidden
)

// Grid owns the midterm terminal for one pane and everything layered on top
// of it: bounded scrollback captured via OnScrollback, DEC mode bits, the
// selection authority, and the most recent OSC-scanned side channel state
// (title, cwd, progress).
type Grid struct {
	mu   sync.Mutex
	term *midterm.Terminal

	rows, cols int

	scrollback    []ScrollbackLine
	scrollbackMax int
	scrollOffset  int // 0 == pinned to live bottom; grows as the user scrolls up

	modes       ModeBits
	kitty       KittyFlags
	cursorShape CursorShape

	selection Selection

	title   string
	cwd     string
	progress ProgressState
}

// ScrollbackLine is one row captured off the top of the live grid, already
// decoded into cells so rendering never touches midterm types.
type ScrollbackLine struct {
	Cells []Cell
}

// New creates a grid sized rows x cols with scrollbackMax lines of history.
// A scrollbackMax of 0 disables history capture entirely.
func New(rows, cols, scrollbackMax int) *Grid {
	g := &Grid{
		term:          midterm.NewTerminal(rows, cols),
		rows:          rows,
		cols:          cols,
		scrollbackMax: scrollbackMax,
		modes:         ModeCursorVisible | ModeAutowrap,
		cursorShape:   CursorBlock,
	}
	if scrollbackMax > 0 {
		// The callback runs inside term.Write/Resize, which the Grid only
		// calls with g.mu already held, so it must not lock g.mu again.
		g.term.OnScrollback(func(line midterm.Line) {
			g.scrollback = append(g.scrollback, ScrollbackLine{Cells: decodeLine(line)})
			if len(g.scrollback) > g.scrollbackMax {
				trim := len(g.scrollback) - g.scrollbackMax
				g.scrollback = g.scrollback[trim:]
			}
		})
	}
	return g
}

// decodeLine converts a captured midterm.Line (rendered with trailing SGR
// reset) into our Cell representation by re-parsing its embedded SGR codes.
func decodeLine(line midterm.Line) []Cell {
	rendered := line.Display()
	return decodeANSILine(rendered)
}

// Term exposes the underlying midterm terminal for callers (the VT worker,
// ForwardRequests/ForwardResponses wiring) that need to talk to it directly.
// Write and Resize should still go through the Grid so scrollback and mode
// tracking stay in sync.
func (g *Grid) Term() *midterm.Terminal { return g.term }

// Write feeds child output to the underlying parser. Callers should run
// Scan on the same bytes beforehand (the VT worker does this) and apply the
// result via ApplyScan; Write itself only touches the grid/cursor state.
func (g *Grid) Write(data []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.term.Write(data)
}

// ApplyScan merges an oscscan.Scan result into the grid's side-channel
// state. Called by the VT worker once per chunk, independent of Write.
func (g *Grid) ApplyScan(res ScanResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if res.HasTitle {
		g.title = res.Title
	}
	if res.HasCWD {
		g.cwd = res.CWD
	}
	if res.HasProgress {
		g.progress = res.Progress
	}
}

func (g *Grid) Title() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.title
}

func (g *Grid) CWD() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cwd
}

func (g *Grid) Progress() ProgressState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.progress
}

// Resize updates both the live grid and tracked dimensions. Cursor position
// is left to midterm, which clamps it into the new bounds.
func (g *Grid) Resize(rows, cols int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.term.Resize(rows, cols)
	g.rows, g.cols = rows, cols
}

func (g *Grid) Size() (rows, cols int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rows, g.cols
}

// Modes returns the current DEC private mode bitset.
func (g *Grid) Modes() ModeBits {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modes
}

// SetMode flips one DEC private mode bit, called by the VT worker when it
// observes the corresponding CSI ? Pm h/l sequence.
func (g *Grid) SetMode(bit ModeBits, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modes.Set(bit, on)
}

func (g *Grid) KittyFlags() KittyFlags {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.kitty
}

func (g *Grid) SetKittyFlags(flags KittyFlags) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.kitty = flags
}

func (g *Grid) CursorShape() CursorShape {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursorShape
}

func (g *Grid) SetCursorShape(shape CursorShape) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursorShape = shape
}

// Cursor returns the live cursor state, deriving visibility from ModeBits
// and shape from the most recent DECSCUSR request.
func (g *Grid) Cursor() Cursor {
	g.mu.Lock()
	defer g.mu.Unlock()
	shape := g.cursorShape
	if !g.modes.Has(ModeCursorVisible) {
		shape = CursorHidden
	}
	return Cursor{
		Row:     g.term.Cursor.Y,
		Col:     g.term.Cursor.X,
		Shape:   shape,
		Visible: g.modes.Has(ModeCursorVisible),
	}
}

// ScrollbackLen returns how many lines of history are currently captured.
func (g *Grid) ScrollbackLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.scrollback)
}

// ScrollDisplay moves the viewport by delta lines (positive scrolls up into
// history) and returns the resulting offset, clamped to [0, ScrollbackLen()].
func (g *Grid) ScrollDisplay(delta int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollOffset += delta
	if g.scrollOffset < 0 {
		g.scrollOffset = 0
	}
	if max := len(g.scrollback); g.scrollOffset > max {
		g.scrollOffset = max
	}
	return g.scrollOffset
}

func (g *Grid) ScrollOffset() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scrollOffset
}

func (g *Grid) ResetScrollDisplay() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scrollOffset = 0
}

// RenderableRow returns the decoded cells for one row of the combined
// [scrollback...live] buffer addressed the same way copy mode and selection
// do: row 0 is the oldest captured scrollback line, and
// ScrollbackLen()+rows-1 is the last live row.
func (g *Grid) RenderableRow(row int) []Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	histLen := len(g.scrollback)
	if row < histLen {
		if row < 0 {
			return nil
		}
		return g.scrollback[row].Cells
	}
	liveRow := row - histLen
	return g.decodeLiveRowLocked(liveRow)
}

// VisibleRows returns the rows currently in the viewport, accounting for
// ScrollDisplay, as a slice of decoded cell rows top-to-bottom.
func (g *Grid) VisibleRows() [][]Cell {
	g.mu.Lock()
	histLen := len(g.scrollback)
	rows := g.rows
	offset := g.scrollOffset
	g.mu.Unlock()

	total := histLen + rows
	start := total - rows - offset
	if start < 0 {
		start = 0
	}
	out := make([][]Cell, 0, rows)
	for i := 0; i < rows; i++ {
		r := start + i
		if r >= total {
			out = append(out, nil)
			continue
		}
		out = append(out, g.RenderableRow(r))
	}
	return out
}

// decodeLiveRowLocked must be called with g.mu held.
func (g *Grid) decodeLiveRowLocked(row int) []Cell {
	if row < 0 || row >= len(g.term.Content) {
		return nil
	}
	line := g.term.Content[row]
	cells := make([]Cell, 0, len(line))
	var pos int
	var lastFormat midterm.Format
	var fg, bg Color
	var flags CellFlags
	for region := range g.term.Format.Regions(row) {
		f := region.F
		if f != lastFormat {
			fg, bg, flags = parseSGR(f.Render())
			lastFormat = f
		}
		end := pos + region.Size
		for ; pos < end && pos < len(line); pos++ {
			cells = append(cells, Cell{
				Rune:  line[pos],
				Width: runeWidth(line[pos]),
				Fg:    fg,
				Bg:    bg,
				Flags: flags,
			})
		}
		pos = end
	}
	return cells
}

// TotalRows returns the combined scrollback+live row count, for scrollbar
// and "jump to bottom" math.
func (g *Grid) TotalRows() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.scrollback) + g.rows
}

func (g *Grid) SetSelection(sel Selection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selection = sel
}

func (g *Grid) Selection() Selection {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selection
}

// SelectionText extracts the plain text of the current selection.
func (g *Grid) SelectionText() string {
	sel := g.Selection()
	return ExtractText(sel, g.RenderableRow)
}

// ClearSelection deactivates the current selection.
func (g *Grid) ClearSelection() {
	g.SetSelection(Selection{})
}
