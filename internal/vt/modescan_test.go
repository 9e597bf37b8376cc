package vt

import (
	"testing"

	"vtcore/internal/grid"
)

func TestScanModesSetsBracketedPaste(t *testing.T) {
	g := grid.New(10, 40, 0)
	scanModes([]byte("\x1b[?2004h"), g)
	if !g.Modes().Has(grid.ModeBracketedPaste) {
		t.Error("expected bracketed paste set")
	}
	scanModes([]byte("\x1b[?2004l"), g)
	if g.Modes().Has(grid.ModeBracketedPaste) {
		t.Error("expected bracketed paste cleared")
	}
}

func TestScanModesSetsMultipleParams(t *testing.T) {
	g := grid.New(10, 40, 0)
	scanModes([]byte("\x1b[?1000;1006h"), g)
	if !g.Modes().Has(grid.ModeMouseVT200) || !g.Modes().Has(grid.ModeMouseSGR) {
		t.Errorf("modes = %v, want vt200+sgr set", g.Modes())
	}
}

func TestScanModesSetsAltScreen(t *testing.T) {
	g := grid.New(10, 40, 0)
	scanModes([]byte("\x1b[?1049h"), g)
	if !g.Modes().Has(grid.ModeAltScreen) {
		t.Error("expected alt screen set")
	}
}

func TestScanModesKittyFlags(t *testing.T) {
	g := grid.New(10, 40, 0)
	scanModes([]byte("\x1b[=5u"), g)
	if g.KittyFlags() != grid.KittyDisambiguateEscapeCodes|grid.KittyReportAlternateKeys {
		t.Errorf("kitty flags = %v, want 5 (disambiguate|alternate-keys)", g.KittyFlags())
	}
}

func TestScanModesKittyPop(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetKittyFlags(grid.KittyDisambiguateEscapeCodes)
	scanModes([]byte("\x1b[<u"), g)
	if g.KittyFlags() != 0 {
		t.Errorf("kitty flags = %v, want 0 after pop", g.KittyFlags())
	}
}

func TestScanModesIgnoresUnrelatedCSI(t *testing.T) {
	g := grid.New(10, 40, 0)
	before := g.Modes()
	scanModes([]byte("\x1b[2J\x1b[10;20H"), g)
	if g.Modes() != before {
		t.Errorf("modes changed from unrelated CSI: before=%v after=%v", before, g.Modes())
	}
}
