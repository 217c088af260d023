package seat

import (
	"testing"
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/desktop/desktoptest"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/mstarongithub/theinterface/output"
)

type fakeNotifier struct {
	pointerFocus  desktop.Surface
	keyboardFocus desktop.Surface
	enters        int
	motions       int
	buttons       int
	clears        int
	keys          int
	cursorImage   string
	cursorSurface desktop.Surface
	caps          [2]bool
}

func (n *fakeNotifier) PointerEnter(s desktop.Surface, _, _ float64) {
	n.pointerFocus = s
	n.enters++
}
func (n *fakeNotifier) PointerMotion(uint32, float64, float64)                          { n.motions++ }
func (n *fakeNotifier) PointerButton(uint32, uint32, ButtonState)                       { n.buttons++ }
func (n *fakeNotifier) PointerAxis(uint32, AxisOrientation, float64, int32, AxisSource) {}
func (n *fakeNotifier) PointerFrame()                                                   {}
func (n *fakeNotifier) PointerClearFocus() {
	n.pointerFocus = nil
	n.clears++
}
func (n *fakeNotifier) PointerFocus() desktop.Surface { return n.pointerFocus }
func (n *fakeNotifier) PointerFocusClient() any {
	if n.pointerFocus == nil {
		return nil
	}
	return n.pointerFocus
}
func (n *fakeNotifier) KeyboardEnter(s desktop.Surface)                { n.keyboardFocus = s }
func (n *fakeNotifier) KeyboardClearFocus()                            { n.keyboardFocus = nil }
func (n *fakeNotifier) KeyboardKey(Keyboard, uint32, uint32, KeyState) { n.keys++ }
func (n *fakeNotifier) KeyboardModifiers(Keyboard)                     {}
func (n *fakeNotifier) SetCursorImage(name string)                     { n.cursorImage = name }
func (n *fakeNotifier) SetCursorSurface(s desktop.Surface, _, _ int32) {
	n.cursorSurface = s
}
func (n *fakeNotifier) SetCapabilities(pointer, keyboard bool) { n.caps = [2]bool{pointer, keyboard} }

type fakeDamager struct {
	count map[desktop.ID]int
}

func (d *fakeDamager) DamageWholeView(v *desktop.View) {
	d.count[v.ID()]++
}

type fakeKeyboard string

func (k fakeKeyboard) Name() string { return string(k) }

type fixture struct {
	reg    *desktop.Registry
	n      *fakeNotifier
	damage *fakeDamager
	seat   *Seat
}

func newFixture() *fixture {
	f := &fixture{
		reg:    desktop.NewRegistry(),
		n:      &fakeNotifier{},
		damage: &fakeDamager{count: map[desktop.ID]int{}},
	}
	f.seat = New("seat0", f.reg, f.n, f.damage)
	return f
}

func (f *fixture) view(name string, box geom.Box) (*desktop.View, *desktoptest.Provider) {
	p := desktoptest.NewProvider(name, box.Width, box.Height)
	v := f.reg.NewView(p, box, desktop.Credentials{})
	f.reg.Insert(v)
	f.reg.Map(v)
	return v, p
}

func TestPassthroughMotion(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})

	f.seat.RouteMotion(10, 10, 1)
	if f.n.pointerFocus != a.Provider().Surface() || f.n.enters != 1 {
		t.Fatalf("pointer did not enter a")
	}
	f.seat.RouteMotion(20, 20, 2)
	if f.n.enters != 1 || f.n.motions != 1 {
		t.Errorf("motion on the same surface: %d enters, %d motions", f.n.enters, f.n.motions)
	}
	f.seat.RouteMotion(500, 500, 3)
	if f.n.pointerFocus != nil || f.n.cursorImage != "default" {
		t.Error("pointer focus not cleared over empty space")
	}
}

func TestGrabDeniedWithoutPointerFocus(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
	b, _ := f.view("b", geom.Box{X: 200, Width: 100, Height: 100})
	f.seat.RouteMotion(10, 10, 1)

	if f.seat.BeginInteractive(b, ModeMove, geom.EdgeNone) {
		t.Fatal("background view started a move")
	}
	if f.seat.Mode() != ModePassthrough {
		t.Fatalf("mode = %v", f.seat.Mode())
	}
	if _, ok := f.seat.Grabbed(); ok {
		t.Fatal("grabbed view set after denial")
	}
	if !f.seat.BeginInteractive(a, ModeMove, geom.EdgeNone) {
		t.Fatal("focused view could not start a move")
	}
}

func TestMoveFollowsCursor(t *testing.T) {
	f := newFixture()
	a, p := f.view("a", geom.Box{X: 0, Y: 0, Width: 100, Height: 100})
	f.seat.RouteMotion(10, 10, 1)
	f.seat.BeginInteractive(a, ModeMove, geom.EdgeNone)
	before := f.damage.count[a.ID()]

	f.seat.RouteMotion(60, 70, 2)
	if a.Box != (geom.Box{X: 50, Y: 60, Width: 100, Height: 100}) {
		t.Errorf("box after move = %v", a.Box)
	}
	if got := f.damage.count[a.ID()] - before; got != 2 {
		t.Errorf("move damaged %d times, want old and new box", got)
	}
	if len(p.Configures) != 1 {
		t.Errorf("provider configured %d times", len(p.Configures))
	}
	f.seat.RouteMotion(60, 70, 3)
	if len(p.Configures) != 1 {
		t.Error("motion without movement reconfigured the view")
	}
}

func TestResizeTopPastBottomEdge(t *testing.T) {
	f := newFixture()
	a, p := f.view("a", geom.Box{X: 0, Y: 0, Width: 100, Height: 100})
	f.seat.RouteMotion(50, 1, 1)
	if !f.seat.BeginInteractive(a, ModeResize, geom.EdgeTop) {
		t.Fatal("resize denied")
	}
	f.seat.RouteMotion(50, 151, 2)
	if a.Box.Height != 1 || a.Box.Y != 99 || a.Box.Y+a.Box.Height != 100 {
		t.Errorf("box after dragging top by 150 = %v", a.Box)
	}
	if last := p.Configures[len(p.Configures)-1]; last.Height != 1 || last.Width != 100 {
		t.Errorf("provider configured to %v", last)
	}
}

func TestResizeEdges(t *testing.T) {
	start := geom.Box{X: 10, Y: 10, Width: 100, Height: 100}
	tests := []struct {
		name   string
		edges  geom.Edges
		dx, dy int
		want   geom.Box
	}{
		{"bottom-right", geom.EdgeBottom | geom.EdgeRight, 20, 30, geom.Box{X: 10, Y: 10, Width: 120, Height: 130}},
		{"left", geom.EdgeLeft, 30, 0, geom.Box{X: 40, Y: 10, Width: 70, Height: 100}},
		{"left past right", geom.EdgeLeft, 500, 0, geom.Box{X: 109, Y: 10, Width: 1, Height: 100}},
		{"bottom past top", geom.EdgeBottom, 0, -500, geom.Box{X: 10, Y: 10, Width: 100, Height: 1}},
		{"malformed vertical", geom.EdgeTop | geom.EdgeBottom | geom.EdgeRight, 10, 10, geom.Box{X: 10, Y: 10, Width: 110, Height: 100}},
		{"malformed both", geom.EdgeTop | geom.EdgeBottom | geom.EdgeLeft | geom.EdgeRight, 10, 10, start},
		{"garbage bits", geom.Edges(0xf0), 10, 10, start},
	}
	for _, tt := range tests {
		if got := resizeBox(start, tt.edges, tt.dx, tt.dy); got != tt.want {
			t.Errorf("%s: resizeBox = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReleaseAnyButtonEndsGrab(t *testing.T) {
	for _, button := range []uint32{0, 272, 273, 274, 275, 0xffff} {
		for _, mode := range []Mode{ModeMove, ModeResize} {
			f := newFixture()
			a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
			f.seat.RouteMotion(10, 10, 1)
			f.seat.BeginInteractive(a, mode, geom.EdgeBottom)
			f.seat.RouteButton(2, button, ButtonReleased)
			if f.seat.Mode() != ModePassthrough {
				t.Errorf("button %d release left mode %v", button, f.seat.Mode())
			}
			if _, ok := f.seat.Grabbed(); ok {
				t.Errorf("button %d release kept the grab", button)
			}
		}
	}
}

func TestDestroyedGrabbedViewEndsGrab(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
	f.view("b", geom.Box{X: 200, Width: 100, Height: 100})
	f.seat.RouteMotion(10, 10, 1)
	f.seat.BeginInteractive(a, ModeMove, geom.EdgeNone)

	f.reg.Remove(a)
	if f.seat.Mode() != ModePassthrough {
		t.Fatalf("mode = %v after grabbed view was destroyed", f.seat.Mode())
	}
	f.seat.RouteMotion(40, 40, 2)
}

func TestUnmappedGrabbedViewEndsGrab(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
	f.seat.RouteMotion(10, 10, 1)
	f.seat.BeginInteractive(a, ModeResize, geom.EdgeRight)
	f.reg.Unmap(a)
	if f.seat.Mode() != ModePassthrough {
		t.Fatal("grab survived unmap")
	}
}

func TestFocus(t *testing.T) {
	f := newFixture()
	a, pa := f.view("a", geom.Box{Width: 100, Height: 100})
	b, pb := f.view("b", geom.Box{X: 10, Y: 10, Width: 50, Height: 50})

	f.seat.Focus(a)
	if f.reg.MRU()[0] != a || f.reg.Stacking()[0] != a {
		t.Fatal("focus did not raise a")
	}
	if !pa.Active || f.n.keyboardFocus != pa.Main {
		t.Fatal("a not activated")
	}
	activations := len(pa.Activations)
	f.seat.Focus(a)
	if len(pa.Activations) != activations {
		t.Error("refocusing a changed its activation")
	}

	f.seat.Focus(b)
	if pa.Active || !pb.Active || f.n.keyboardFocus != pb.Main {
		t.Error("focus did not move to b")
	}
	if got, _ := f.seat.Focused(); got != b {
		t.Errorf("Focused = %v", got)
	}
	f.seat.Focus(nil)
	if pb.Active || f.n.keyboardFocus != nil {
		t.Error("focus not cleared")
	}
}

func TestButtonPressFocusesViewUnderCursor(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
	f.view("b", geom.Box{X: 200, Width: 100, Height: 100})
	f.seat.RouteMotion(10, 10, 1)
	f.seat.RouteButton(2, 272, ButtonPressed)
	if got, ok := f.seat.Focused(); !ok || got != a {
		t.Errorf("focused = %v, want a", got)
	}
	if f.n.buttons != 1 {
		t.Error("button not forwarded")
	}
}

func TestUnmapFocusedViewFocusesNext(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
	b, pb := f.view("b", geom.Box{Width: 100, Height: 100})
	f.seat.Focus(a)
	f.seat.Focus(b)
	f.reg.Unmap(b)
	if got, ok := f.seat.Focused(); !ok || got != a {
		t.Errorf("focused = %v after unmapping b, want a", got)
	}
	if pb.Active {
		t.Error("unmapped view still active")
	}
	f.reg.Unmap(a)
	if _, ok := f.seat.Focused(); ok || f.n.keyboardFocus != nil {
		t.Error("focus kept with nothing mapped")
	}
}

func TestKeyBindings(t *testing.T) {
	f := newFixture()
	kb := fakeKeyboard("kbd")
	f.seat.AddKeyboard(kb)
	if f.n.caps != [2]bool{true, true} {
		t.Errorf("capabilities = %v", f.n.caps)
	}
	f.seat.SetBindings(func(syms []KeySym, mods Modifier) bool {
		return mods.Has(ModAlt) && len(syms) == 1 && syms[0] == KeyTab
	})
	f.seat.RouteKey(kb, 1, 15, []KeySym{KeyTab}, ModAlt, KeyPressed)
	if f.n.keys != 0 {
		t.Error("bound key reached the client")
	}
	f.seat.RouteKey(kb, 2, 15, []KeySym{KeyTab}, ModAlt, KeyReleased)
	f.seat.RouteKey(kb, 3, 15, []KeySym{KeyTab}, 0, KeyPressed)
	if f.n.keys != 2 {
		t.Errorf("forwarded %d keys, want 2", f.n.keys)
	}
	f.seat.RemoveKeyboard(kb)
	if f.n.caps != [2]bool{true, false} || len(f.seat.Keyboards()) != 0 {
		t.Error("keyboard not removed")
	}
}

func TestRequestSetCursorOnlyFromFocusedClient(t *testing.T) {
	f := newFixture()
	a, _ := f.view("a", geom.Box{Width: 100, Height: 100})
	f.seat.RouteMotion(10, 10, 1)
	cursor := &desktoptest.Surface{Name: "cursor"}
	f.seat.RequestSetCursor("someone else", cursor, 0, 0)
	if f.n.cursorSurface != nil {
		t.Fatal("cursor set by unfocused client")
	}
	f.seat.RequestSetCursor(a.Provider().Surface(), cursor, 0, 0)
	if f.n.cursorSurface != cursor {
		t.Fatal("cursor request from focused client ignored")
	}
}

type layerHandle struct{}

func (layerHandle) Name() string                       { return "L" }
func (layerHandle) Modes() []output.Mode               { return nil }
func (layerHandle) PreferredMode() (output.Mode, bool) { return output.Mode{}, false }
func (layerHandle) Resolution() (int, int)             { return 1000, 1000 }
func (layerHandle) NeedsFrame() bool                   { return false }
func (layerHandle) Commit(geom.Region) error           { return nil }
func (layerHandle) HardwareCursor() bool               { return true }
func (layerHandle) RenderSoftwareCursors(geom.Region)  {}

type layerClient struct {
	surface *desktoptest.Surface
}

func (c *layerClient) Namespace() string        { return c.surface.Name }
func (c *layerClient) Surface() desktop.Surface { return c.surface }
func (c *layerClient) SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool) {
	return c.surface, sx, sy, true
}
func (c *layerClient) Configure(int, int)                      {}
func (c *layerClient) Close()                                  {}
func (c *layerClient) ForEachSurface(func(desktop.SubSurface)) {}
func (c *layerClient) SendFrameDone(time.Time)                 {}

func TestLayerKeyboardPrecedence(t *testing.T) {
	f := newFixture()
	layout := output.NewLayout()
	o := layout.Add(layerHandle{}, 1, geom.TransformNormal)
	shell := layer.NewShell(layout, layout, f.seat)
	f.seat.SetLayers(shell)

	a, _ := f.view("a", geom.Box{Y: 100, Width: 100, Height: 100})
	f.seat.Focus(a)

	launcher := &layerClient{surface: &desktoptest.Surface{Name: "launcher"}}
	ls, err := shell.NewSurface(launcher, layer.State{
		Layer:               layer.LayerOverlay,
		Anchor:              layer.AnchorTop,
		DesiredWidth:        100,
		DesiredHeight:       50,
		KeyboardInteractive: true,
	}, o, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	shell.Map(ls)
	if f.n.keyboardFocus != launcher.surface || f.seat.FocusLayer() != ls {
		t.Fatal("interactive overlay surface did not take keyboard focus")
	}

	b, _ := f.view("b", geom.Box{Y: 300, Width: 100, Height: 100})
	f.seat.Focus(b)
	if f.n.keyboardFocus != launcher.surface {
		t.Error("view focus stole the keyboard from the layer surface")
	}

	// the overlay sits above the views for the pointer as well
	f.seat.RouteMotion(500, 10, 1)
	if f.n.pointerFocus != launcher.surface {
		t.Error("pointer did not enter the overlay surface")
	}

	shell.Destroy(ls)
	if f.seat.FocusLayer() != nil || f.n.keyboardFocus != b.Provider().Surface() {
		t.Errorf("keyboard focus not returned to the MRU front view")
	}
}
