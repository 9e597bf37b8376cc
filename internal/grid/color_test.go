package grid

import "testing"

func TestToRGBDefaultUsesProvidedFallback(t *testing.T) {
	r, g, b := DefaultColor.ToRGB([3]uint8{1, 2, 3})
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("got (%d,%d,%d), want (1,2,3)", r, g, b)
	}
}

func TestToRGBTruecolorPassesThrough(t *testing.T) {
	r, g, b := RGBColor(10, 20, 30).ToRGB([3]uint8{0, 0, 0})
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("got (%d,%d,%d), want (10,20,30)", r, g, b)
	}
}

func TestIndexedToRGBCoversAllThreeRanges(t *testing.T) {
	cases := []uint8{0, 15, 16, 231, 232, 255}
	for _, idx := range cases {
		r, g, b := IndexedColor(idx).ToRGB([3]uint8{})
		_ = r
		_ = g
		_ = b // no panics across range boundaries is the assertion
	}
}

func TestIndexedGrayscaleRampIsMonotonic(t *testing.T) {
	_, prevG, _ := IndexedColor(232).ToRGB([3]uint8{})
	for idx := uint8(233); idx <= 255; idx++ {
		_, g, _ := IndexedColor(idx).ToRGB([3]uint8{})
		if g <= prevG {
			t.Fatalf("grayscale ramp not increasing at index %d: %d <= %d", idx, g, prevG)
		}
		prevG = g
	}
}
