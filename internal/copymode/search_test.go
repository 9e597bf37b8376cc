package copymode

import (
	"testing"

	"vtcore/internal/grid"
)

func TestFindMatchesLiteralCaseInsensitive(t *testing.T) {
	g := grid.New(3, 20, 0)
	g.Write([]byte("Hello World\r\nfoo\r\nHELLO again"))
	s := NewSearch(g)
	s.Query = "hello"
	s.Mode = SearchLiteral
	s.FindMatches()
	if len(s.Matches) != 2 {
		t.Fatalf("got %d matches, want 2, matches=%+v", len(s.Matches), s.Matches)
	}
}

func TestFindMatchesRegex(t *testing.T) {
	g := grid.New(2, 20, 0)
	g.Write([]byte("abc123\r\nxyz456"))
	s := NewSearch(g)
	s.Query = `[0-9]+`
	s.Mode = SearchRegex
	s.FindMatches()
	if len(s.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(s.Matches))
	}
}

func TestFindMatchesInvalidRegexYieldsNoMatches(t *testing.T) {
	g := grid.New(1, 20, 0)
	g.Write([]byte("abc"))
	s := NewSearch(g)
	s.Query = "("
	s.Mode = SearchRegex
	s.FindMatches()
	if len(s.Matches) != 0 {
		t.Fatalf("invalid regex should yield zero matches, got %d", len(s.Matches))
	}
}

func TestEmptyQueryYieldsNoMatches(t *testing.T) {
	g := grid.New(1, 20, 0)
	g.Write([]byte("abc"))
	s := NewSearch(g)
	s.Mode = SearchLiteral
	s.FindMatches()
	if len(s.Matches) != 0 {
		t.Fatal("empty query should yield no matches")
	}
}

func TestNextPrevCycleModuloMatchCount(t *testing.T) {
	g := grid.New(3, 20, 0)
	g.Write([]byte("aa\r\naa\r\naa"))
	s := NewSearch(g)
	s.Query = "aa"
	s.Mode = SearchLiteral
	s.FindMatches()
	if len(s.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(s.Matches))
	}
	if s.Current != 0 {
		t.Fatalf("Current = %d, want 0 after FindMatches", s.Current)
	}
	s.Next()
	s.Next()
	m, ok := s.Next() // wraps back to 0
	if !ok || s.Current != 0 {
		t.Fatalf("Next should wrap modulo match count, Current=%d", s.Current)
	}
	_ = m
	s.Prev()
	if s.Current != len(s.Matches)-1 {
		t.Fatalf("Prev from 0 should wrap to last, Current=%d", s.Current)
	}
}

func TestFuzzySearchFindsApproximateMatch(t *testing.T) {
	g := grid.New(1, 30, 0)
	g.Write([]byte("the quick brown fox"))
	s := NewSearch(g)
	s.Query = "qckbrwn"
	s.Mode = SearchFuzzy
	s.FindMatches()
	if len(s.Matches) == 0 {
		t.Fatal("fuzzy search should find a subsequence match")
	}
}
