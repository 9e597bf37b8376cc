package copymode

import (
	"regexp"
	"strings"

	"github.com/sahilm/fuzzy"

	"vtcore/internal/grid"
)

// SearchMode selects how Query is interpreted: a plain substring search, a
// regular expression, or a fuzzy score computed with sahilm/fuzzy over
// each row's text.
type SearchMode int

const (
	SearchLiteral SearchMode = iota
	SearchRegex
	SearchFuzzy
)

// Match is one located span, in Grid.RenderableRow row space.
type Match struct {
	Row              int
	StartCol, EndCol int // EndCol exclusive
}

// Search is the search-bar overlay: a query, a mode, and the resulting
// match list plus which one is "current" for cycling and centering.
type Search struct {
	g *grid.Grid

	Query   string
	Mode    SearchMode
	Matches []Match
	Current int // index into Matches, -1 if none
}

func NewSearch(g *grid.Grid) *Search {
	return &Search{g: g, Current: -1}
}

// FindMatches re-scans the whole grid (scrollback + live) for Query under
// Mode and repopulates Matches. An invalid regex yields zero matches
// rather than an error, so the search bar stays visible and simply shows
// no hits.
func (s *Search) FindMatches() {
	s.Matches = nil
	s.Current = -1
	if s.Query == "" {
		return
	}

	total := s.g.TotalRows()
	var re *regexp.Regexp
	if s.Mode == SearchRegex {
		compiled, err := regexp.Compile("(?i)" + s.Query)
		if err != nil {
			return
		}
		re = compiled
	}

	for row := 0; row < total; row++ {
		cells := s.g.RenderableRow(row)
		text, byteToCol := rowText(cells)
		switch s.Mode {
		case SearchLiteral:
			s.findLiteral(row, text, byteToCol)
		case SearchRegex:
			s.findRegex(row, text, byteToCol, re)
		case SearchFuzzy:
			s.findFuzzy(row, text, byteToCol)
		}
	}
	if len(s.Matches) > 0 {
		s.Current = 0
	}
}

// rowText concatenates a row's runes into a string plus a per-byte-offset
// column lookup table, since multi-byte runes make a string byte offset
// differ from the cell column.
func rowText(cells []grid.Cell) (string, []int) {
	var b strings.Builder
	var byteToCol []int
	for col, c := range cells {
		if c.Width == 0 {
			continue
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		n := b.Len()
		b.WriteRune(r)
		for i := n; i < b.Len(); i++ {
			byteToCol = append(byteToCol, col)
		}
	}
	byteToCol = append(byteToCol, len(cells)) // sentinel for end-of-row offsets
	return b.String(), byteToCol
}

func (s *Search) findLiteral(row int, text string, byteToCol []int) {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(s.Query)
	if lowerQuery == "" {
		return
	}
	start := 0
	for {
		idx := strings.Index(lowerText[start:], lowerQuery)
		if idx < 0 {
			return
		}
		byteStart := start + idx
		byteEnd := byteStart + len(lowerQuery)
		s.Matches = append(s.Matches, Match{
			Row:      row,
			StartCol: colAt(byteToCol, byteStart),
			EndCol:   colAt(byteToCol, byteEnd),
		})
		start = byteStart + 1
		if start >= len(lowerText) {
			return
		}
	}
}

func (s *Search) findRegex(row int, text string, byteToCol []int, re *regexp.Regexp) {
	if re == nil {
		return
	}
	for _, loc := range re.FindAllStringIndex(text, -1) {
		s.Matches = append(s.Matches, Match{
			Row:      row,
			StartCol: colAt(byteToCol, loc[0]),
			EndCol:   colAt(byteToCol, loc[1]),
		})
	}
}

// findFuzzy scores the row against the query with sahilm/fuzzy; a row that
// matches at all contributes one match spanning its first-to-last matched
// rune, so the highlight still lands somewhere sensible on screen. Fuzzy's
// MatchedIndexes are rune offsets; treated as byte offsets here, which is
// exact for ASCII rows and approximate for rows with multi-byte runes.
func (s *Search) findFuzzy(row int, text string, byteToCol []int) {
	if text == "" {
		return
	}
	results := fuzzy.Find(s.Query, []string{text})
	if len(results) == 0 {
		return
	}
	idxs := results[0].MatchedIndexes
	if len(idxs) == 0 {
		return
	}
	lo, hi := idxs[0], idxs[len(idxs)-1]
	s.Matches = append(s.Matches, Match{
		Row:      row,
		StartCol: colAt(byteToCol, lo),
		EndCol:   colAt(byteToCol, hi) + 1,
	})
}

func colAt(byteToCol []int, i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(byteToCol) {
		return byteToCol[len(byteToCol)-1]
	}
	return byteToCol[i]
}

// Next, Prev cycle through Matches modulo the match count and report the
// newly-current match, or (Match{}, false) if there are none.
func (s *Search) Next() (Match, bool) { return s.cycle(1) }
func (s *Search) Prev() (Match, bool) { return s.cycle(-1) }

func (s *Search) cycle(delta int) (Match, bool) {
	n := len(s.Matches)
	if n == 0 {
		return Match{}, false
	}
	s.Current = ((s.Current+delta)%n + n) % n
	m := s.Matches[s.Current]
	s.scrollToMatch(m)
	return m, true
}

// scrollToMatch sets the grid's display offset so m is vertically centered
// in the viewport, clamped to history bounds, if it's currently outside the
// visible rows.
func (s *Search) scrollToMatch(m Match) {
	rows, _ := s.g.Size()
	histLen := s.g.ScrollbackLen()
	offset := s.g.ScrollOffset()

	total := histLen + rows
	viewStart := total - rows - offset
	viewEnd := viewStart + rows

	if m.Row >= viewStart && m.Row < viewEnd {
		return
	}
	// Center m.Row: want viewStart = m.Row - rows/2, and offset = total - rows - viewStart.
	wantStart := m.Row - rows/2
	wantOffset := total - rows - wantStart
	if wantOffset < 0 {
		wantOffset = 0
	}
	if wantOffset > histLen {
		wantOffset = histLen
	}
	s.g.ScrollDisplay(wantOffset - offset)
}
