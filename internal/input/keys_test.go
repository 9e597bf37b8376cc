package input

import (
	"testing"

	"vtcore/internal/grid"
)

func TestEncodeArrowLegacyNoModifier(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodeKey(KeyUp, 0)
	if string(got) != "\x1b[A" {
		t.Errorf("got %q, want CSI A", got)
	}
}

func TestEncodeArrowAppCursorMode(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeAppCursorKeys, true)
	e := New(g)
	got := e.EncodeKey(KeyUp, 0)
	if string(got) != "\x1bOA" {
		t.Errorf("got %q, want SS3 A", got)
	}
}

func TestEncodeArrowWithModifier(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodeKey(KeyRight, ModShift)
	if string(got) != "\x1b[1;2C" {
		t.Errorf("got %q, want CSI 1;2 C", got)
	}
}

func TestEncodeTildeKey(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodeKey(KeyDelete, 0)
	if string(got) != "\x1b[3~" {
		t.Errorf("got %q, want CSI 3~", got)
	}
	got = e.EncodeKey(KeyPageUp, ModCtrl)
	if string(got) != "\x1b[5;5~" {
		t.Errorf("got %q, want CSI 5;5~", got)
	}
}

func TestEncodeEnterTabBackspace(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	if string(e.EncodeKey(KeyEnter, 0)) != "\r" {
		t.Error("enter should send CR")
	}
	if string(e.EncodeKey(KeyTab, 0)) != "\t" {
		t.Error("tab should send TAB")
	}
	if string(e.EncodeKey(KeyTab, ModShift)) != "\x1b[Z" {
		t.Error("shift+tab should send CSI Z (back-tab)")
	}
	if string(e.EncodeKey(KeyBackspace, 0)) != "\x7f" {
		t.Error("backspace should send DEL")
	}
}

func TestEncodeKittyFunctionalKey(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	got := e.EncodeKey(KeyF1, 0)
	if string(got) != "\x1b[11~" {
		t.Errorf("got %q, want kitty F1 tilde form", got)
	}
	got = e.EncodeKey(KeyF1, ModCtrl)
	if string(got) != "\x1b[11;5~" {
		t.Errorf("got %q, want kitty F1 with ctrl modifier", got)
	}
}

func TestEncodeKittyF5Shift(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	got := e.EncodeKey(KeyF5, ModShift)
	if string(got) != "\x1b[15;2~" {
		t.Errorf("got %q, want %q (spec E3)", got, "\x1b[15;2~")
	}
}

func TestEncodeKittyArrowNoModifier(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	got := e.EncodeKey(KeyUp, 0)
	if string(got) != "\x1b[1A" {
		t.Errorf("got %q, want %q", got, "\x1b[1A")
	}
}

func TestEncodeKittyFallsBackForEnterTab(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	if string(e.EncodeKey(KeyEnter, 0)) != "\r" {
		t.Error("enter should still send CR under kitty mode")
	}
}

func TestEncodeKittyEscapeCodepoint(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	got := e.EncodeKey(KeyEscape, 0)
	if string(got) != "\x1b[27u" {
		t.Errorf("got %q, want CSI 27 u", got)
	}
}

func TestEncodeKittySpaceCodepoint(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	got := e.EncodeKey(KeySpace, ModShift)
	if string(got) != "\x1b[32;2u" {
		t.Errorf("got %q, want CSI 32;2 u", got)
	}
}

func TestEncodeKittyReportAllEnterTabBackspace(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyReportAllKeysAsEscape)
	e := New(g)
	if got := string(e.EncodeKey(KeyEnter, 0)); got != "\x1b[13u" {
		t.Errorf("got %q, want CSI 13 u", got)
	}
	if got := string(e.EncodeKey(KeyTab, 0)); got != "\x1b[9u" {
		t.Errorf("got %q, want CSI 9 u", got)
	}
	if got := string(e.EncodeKey(KeyBackspace, ModCtrl)); got != "\x1b[127;5u" {
		t.Errorf("got %q, want CSI 127;5 u", got)
	}
}

func TestEncodeKittyBareModifierRequiresReportAll(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	if got := e.EncodeKey(KeyModShift, 0); got != nil {
		t.Errorf("got %q, want nil (no REPORT_ALL)", got)
	}
	g.SetKittyFlags(grid.KittyReportAllKeysAsEscape)
	got := e.EncodeKey(KeyModShift, 0)
	if string(got) != "\x1b[57441u" {
		t.Errorf("got %q, want CSI 57441 u", got)
	}
}

func TestEncodeAltArrowShortcuts(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	if got := string(e.EncodeKey(KeyLeft, ModAlt)); got != "\x1bb" {
		t.Errorf("got %q, want ESC b", got)
	}
	if got := string(e.EncodeKey(KeyRight, ModAlt)); got != "\x1bf" {
		t.Errorf("got %q, want ESC f", got)
	}
}

func TestEncodeShiftEnterAndSpace(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	if got := string(e.EncodeKey(KeyEnter, ModShift)); got != "\x1b[13;2u" {
		t.Errorf("got %q, want CSI 13;2 u", got)
	}
	if got := string(e.EncodeKey(KeySpace, 0)); got != " " {
		t.Errorf("got %q, want bare space", got)
	}
	if got := string(e.EncodeKey(KeySpace, ModShift)); got != "\x1b[32;2u" {
		t.Errorf("got %q, want CSI 32;2 u", got)
	}
}

func TestEncodeRuneKittyPlainVsModified(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	e := New(g)
	if got := string(e.EncodeRune('a', 0)); got != "a" {
		t.Errorf("got %q, want literal a", got)
	}
	got := e.EncodeRune('a', ModCtrl)
	if string(got) != "\x1b[97;5u" {
		t.Errorf("got %q, want CSI 97;5 u", got)
	}
}

func TestEncodeRuneKittyReportAllForcesCodepoint(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyReportAllKeysAsEscape)
	e := New(g)
	got := e.EncodeRune('a', 0)
	if string(got) != "\x1b[97u" {
		t.Errorf("got %q, want CSI 97 u", got)
	}
}

func TestEncodeRuneCtrl(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodeRune('c', ModCtrl)
	if len(got) != 1 || got[0] != 0x03 {
		t.Errorf("got %v, want Ctrl+C (0x03)", got)
	}
	got = e.EncodeRune('C', ModCtrl)
	if len(got) != 1 || got[0] != 0x03 {
		t.Errorf("got %v, want Ctrl+C (0x03) regardless of case", got)
	}
}

func TestEncodeRuneAlt(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodeRune('x', ModAlt)
	if string(got) != "\x1bx" {
		t.Errorf("got %q, want ESC-prefixed x", got)
	}
}

func TestEncodeRunePlain(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	got := e.EncodeRune('a', 0)
	if string(got) != "a" {
		t.Errorf("got %q, want bare a", got)
	}
}
