package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"vtcore/internal/grid"
)

// resolveColors applies spec.md §4.D stage 3's attribute rules (bold implies
// bright on named colors, dim multiplies lightness by 0.66, inverse swaps
// fg/bg, hidden sets fg=bg) and returns concrete RGB plus whether the
// resolved background is the theme default (so callers skip emitting a
// BGRegion for it). Dim goes through go-colorful's HSL space so it is an
// exact, total operation regardless of the color's origin
// (named/indexed/RGB) — see TestDimReducesLightnessExactly.
func (p *Pipeline) resolveColors(cell grid.Cell) (fg, bg [3]uint8, bgIsDefault bool) {
	fgColor := cell.Fg
	bgColor := cell.Bg

	if cell.Flags.Has(grid.FlagBold) {
		fgColor = fgColor.Bright()
	}

	if cell.Flags.Has(grid.FlagInverse) {
		fgColor, bgColor = bgColor, fgColor
	}

	fr, fgc, fb := fgColor.ToRGB(p.Theme.DefaultFg)
	br, bgc, bb := bgColor.ToRGB(p.Theme.DefaultBg)

	if cell.Flags.Has(grid.FlagDim) {
		fr, fgc, fb = dimRGB(fr, fgc, fb)
	}

	if cell.Flags.Has(grid.FlagHidden) {
		fr, fgc, fb = br, bgc, bb
	}

	bgIsDefault = bgColor.Kind == grid.ColorDefault && !cell.Flags.Has(grid.FlagInverse)
	return [3]uint8{fr, fgc, fb}, [3]uint8{br, bgc, bb}, bgIsDefault
}

// dimRGB multiplies HSL lightness by exactly 0.66, preserving hue and
// saturation, per spec.md testable property 5.
func dimRGB(r, g, b uint8) (uint8, uint8, uint8) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()
	l *= 0.66
	dimmed := colorful.Hsl(h, s, l)
	cr, cg, cb := dimmed.RGB255()
	return cr, cg, cb
}

// ResolveHSLA converts any grid.Color to an HSL triple plus alpha for
// callers (tests, future theme editors) that need the totality property
// spec.md lists (#3): finite components, alpha always 1, for every Color
// variant and flag combination.
func ResolveHSLA(c grid.Color, fallback [3]uint8) (h, s, l, a float64) {
	r, g, b := c.ToRGB(fallback)
	cc := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l = cc.Hsl()
	return h, s, l, 1.0
}
