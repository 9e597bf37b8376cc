package input

import (
	"testing"

	"vtcore/internal/grid"
)

func TestEncodePastePlainWithoutBracketedMode(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodePaste("hello")
	if string(got) != "hello" {
		t.Errorf("got %q, want unwrapped text", got)
	}
}

func TestEncodePasteWrapsWhenBracketedPasteEnabled(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeBracketedPaste, true)
	e := New(g)
	got := string(e.EncodePaste("hello"))
	want := "\x1b[200~hello\x1b[201~"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeFileDropQuotesPaths(t *testing.T) {
	got := EncodeFileDrop([]string{"/tmp/plain", "/tmp/needs quoting"})
	if got == "" {
		t.Fatal("expected non-empty quoted string")
	}
	if got == "/tmp/plain /tmp/needs quoting" {
		t.Error("expected the space-containing path to be quoted")
	}
}
