package render

import (
	"math"
	"testing"

	"vtcore/internal/grid"
)

func allColors() []grid.Color {
	return []grid.Color{
		grid.DefaultColor,
		grid.NamedColor(3),
		grid.NamedColor(11),
		grid.IndexedColor(200),
		grid.RGBColor(10, 20, 30),
	}
}

func TestResolveHSLATotality(t *testing.T) {
	for _, c := range allColors() {
		h, s, l, a := ResolveHSLA(c, [3]uint8{10, 10, 10})
		for _, v := range []float64{h, s, l, a} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("color %+v produced non-finite HSLA component", c)
			}
		}
		if a != 1.0 {
			t.Fatalf("color %+v alpha = %v, want 1.0", c, a)
		}
	}
}

func TestDimReducesLightnessExactly(t *testing.T) {
	p := New(DefaultTheme)
	cell := grid.Cell{Rune: 'x', Width: 1, Fg: grid.RGBColor(200, 100, 50), Bg: grid.DefaultColor, Flags: grid.FlagDim}
	fg, _, _ := p.resolveColors(cell)

	plain := grid.Cell{Rune: 'x', Width: 1, Fg: grid.RGBColor(200, 100, 50), Bg: grid.DefaultColor}
	baseFg, _, _ := p.resolveColors(plain)

	bh, bs, bl := rgbToHSL(baseFg)
	dh, ds, dl := rgbToHSL(fg)

	if math.Abs(dh-bh) > 0.5 || math.Abs(ds-bs) > 0.01 {
		t.Fatalf("dim changed hue/saturation: base (%v,%v) dim (%v,%v)", bh, bs, dh, ds)
	}
	want := bl * 0.66
	if math.Abs(dl-want) > 0.01 {
		t.Fatalf("dim lightness = %v, want %v (66%% of %v)", dl, want, bl)
	}
}

func TestInverseSwapsFgBg(t *testing.T) {
	p := New(DefaultTheme)
	cell := grid.Cell{Rune: 'x', Width: 1, Fg: grid.RGBColor(1, 2, 3), Bg: grid.RGBColor(9, 9, 9), Flags: grid.FlagInverse}
	fg, bg, _ := p.resolveColors(cell)
	if fg != [3]uint8{9, 9, 9} || bg != [3]uint8{1, 2, 3} {
		t.Fatalf("inverse did not swap: fg=%v bg=%v", fg, bg)
	}
}

func TestHiddenSetsFgToBg(t *testing.T) {
	p := New(DefaultTheme)
	cell := grid.Cell{Rune: 'x', Width: 1, Fg: grid.RGBColor(1, 2, 3), Bg: grid.RGBColor(9, 9, 9), Flags: grid.FlagHidden}
	fg, bg, _ := p.resolveColors(cell)
	if fg != bg {
		t.Fatalf("hidden fg %v != bg %v", fg, bg)
	}
}

func TestBoldSubstitutesBrightVariant(t *testing.T) {
	p := New(DefaultTheme)
	plain := grid.Cell{Rune: 'x', Width: 1, Fg: grid.NamedColor(1), Bg: grid.DefaultColor}
	bold := grid.Cell{Rune: 'x', Width: 1, Fg: grid.NamedColor(1), Bg: grid.DefaultColor, Flags: grid.FlagBold}
	plainFg, _, _ := p.resolveColors(plain)
	boldFg, _, _ := p.resolveColors(bold)
	if plainFg == boldFg {
		t.Fatal("bold did not change the resolved named color to its bright variant")
	}
}

func rgbToHSL(rgb [3]uint8) (h, s, l float64) {
	h, s, l, _ = ResolveHSLA(grid.RGBColor(rgb[0], rgb[1], rgb[2]), [3]uint8{})
	return h, s, l
}
