package input

import (
	"testing"

	"vtcore/internal/grid"
)

func TestEncodeMouseNoProtocolReturnsNil(t *testing.T) {
	g := grid.New(10, 40, 0)
	e := New(g)
	if got := e.EncodeMouse(MousePress, MouseButtonLeft, 0, 0, 0); got != nil {
		t.Errorf("got %q, want nil when no mouse protocol enabled", got)
	}
}

func TestEncodeMouseSGRPress(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeMouseVT200, true)
	g.SetMode(grid.ModeMouseSGR, true)
	e := New(g)
	got := e.EncodeMouse(MousePress, MouseButtonLeft, 4, 9, 0)
	if string(got) != "\x1b[<0;10;5M" {
		t.Errorf("got %q, want SGR press at (10,5)", got)
	}
}

func TestEncodeMouseSGRRelease(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeMouseVT200, true)
	g.SetMode(grid.ModeMouseSGR, true)
	e := New(g)
	got := e.EncodeMouse(MouseRelease, MouseButtonLeft, 0, 0, 0)
	if string(got) != "\x1b[<0;1;1m" {
		t.Errorf("got %q, want SGR release (lowercase m)", got)
	}
}

func TestEncodeMouseLegacyX11ClampsCoordinates(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeMouseVT200, true)
	e := New(g)
	got := e.EncodeMouse(MousePress, MouseButtonLeft, 500, 500, 0)
	if len(got) != 6 {
		t.Fatalf("got %v, want 6-byte legacy mouse report", got)
	}
	if got[4] != 255 || got[5] != 255 {
		t.Errorf("got cols=%d rows=%d, want clamped to 255", got[4], got[5])
	}
}

func TestEncodeMouseMotionSuppressedWithoutAnyEventMode(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeMouseVT200, true)
	e := New(g)
	if got := e.EncodeMouse(MouseMove, MouseButtonNone, 0, 0, 0); got != nil {
		t.Errorf("got %q, want nil: vt200 alone doesn't report motion", got)
	}
}

func TestEncodeMouseWheel(t *testing.T) {
	g := grid.New(10, 40, 0)
	g.SetMode(grid.ModeMouseVT200, true)
	g.SetMode(grid.ModeMouseSGR, true)
	e := New(g)
	got := e.EncodeMouse(MousePress, MouseWheelUp, 0, 0, 0)
	if string(got) != "\x1b[<64;1;1M" {
		t.Errorf("got %q, want wheel-up code 64", got)
	}
}
