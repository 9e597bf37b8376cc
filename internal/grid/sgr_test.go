package grid

import "testing"

func TestParseSGRNamedColors(t *testing.T) {
	fg, bg, flags := parseSGR("\x1b[31;44m")
	if fg.Kind != ColorNamed || fg.Value != 1 {
		t.Errorf("fg = %+v, want named red", fg)
	}
	if bg.Kind != ColorNamed || bg.Value != 4 {
		t.Errorf("bg = %+v, want named blue", bg)
	}
	if flags != 0 {
		t.Errorf("flags = %v, want none", flags)
	}
}

func TestParseSGRIndexedColor(t *testing.T) {
	fg, _, _ := parseSGR("\x1b[38;5;202m")
	if fg.Kind != ColorIndexed || fg.Value != 202 {
		t.Errorf("fg = %+v, want indexed 202", fg)
	}
}

func TestParseSGRTruecolor(t *testing.T) {
	_, bg, _ := parseSGR("\x1b[48;2;10;20;30m")
	if bg.Kind != ColorRGB || bg.R != 10 || bg.G != 20 || bg.B != 30 {
		t.Errorf("bg = %+v, want rgb(10,20,30)", bg)
	}
}

func TestParseSGRResetClearsState(t *testing.T) {
	fg, bg, flags := parseSGR("\x1b[1;31;44;0m")
	if fg.Kind != ColorDefault || bg.Kind != ColorDefault || flags != 0 {
		t.Errorf("expected reset to defaults, got fg=%+v bg=%+v flags=%v", fg, bg, flags)
	}
}

func TestParseSGRBrightColors(t *testing.T) {
	fg, bg, _ := parseSGR("\x1b[91;102m")
	if fg.Kind != ColorNamed || fg.Value != 9 {
		t.Errorf("fg = %+v, want named bright red (9)", fg)
	}
	if bg.Kind != ColorNamed || bg.Value != 10 {
		t.Errorf("bg = %+v, want named bright green (10)", bg)
	}
}

func TestParseSGRFlagsToggleOffIndividually(t *testing.T) {
	_, _, flags := parseSGR("\x1b[1;3;4m\x1b[23m")
	if !flags.Has(FlagBold) || !flags.Has(FlagUnderline) {
		t.Errorf("flags = %v, want bold+underline retained", flags)
	}
	if flags.Has(FlagItalic) {
		t.Error("expected italic cleared by code 23")
	}
}

func TestBrightVariantOfNamedColor(t *testing.T) {
	c := NamedColor(2).Bright()
	if c.Value != 10 {
		t.Errorf("bright variant = %d, want 10", c.Value)
	}
	rgb := RGBColor(1, 2, 3)
	if rgb.Bright() != rgb {
		t.Error("RGB colors should be unaffected by Bright()")
	}
}
