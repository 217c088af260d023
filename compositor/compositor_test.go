package compositor

import (
	"errors"
	"testing"
	"time"

	"github.com/mstarongithub/theinterface/config"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/desktop/desktoptest"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/mstarongithub/theinterface/output"
	"github.com/mstarongithub/theinterface/seat"
)

type fakeBackend struct {
	terminated int
	vts        []int
	vtErr      error
}

func (b *fakeBackend) Terminate() { b.terminated++ }
func (b *fakeBackend) ChangeVT(vt int) error {
	b.vts = append(b.vts, vt)
	return b.vtErr
}

type fakeNotifier struct {
	pointerFocus  desktop.Surface
	keyboardFocus desktop.Surface
	keys          int
}

func (n *fakeNotifier) PointerEnter(s desktop.Surface, _, _ float64)                              { n.pointerFocus = s }
func (n *fakeNotifier) PointerMotion(uint32, float64, float64)                                    {}
func (n *fakeNotifier) PointerButton(uint32, uint32, seat.ButtonState)                            {}
func (n *fakeNotifier) PointerAxis(uint32, seat.AxisOrientation, float64, int32, seat.AxisSource) {}
func (n *fakeNotifier) PointerFrame()                                                             {}
func (n *fakeNotifier) PointerClearFocus()                                                        { n.pointerFocus = nil }
func (n *fakeNotifier) PointerFocus() desktop.Surface                                             { return n.pointerFocus }
func (n *fakeNotifier) PointerFocusClient() any                                                   { return n.pointerFocus }
func (n *fakeNotifier) KeyboardEnter(s desktop.Surface)                                           { n.keyboardFocus = s }
func (n *fakeNotifier) KeyboardClearFocus()                                                       { n.keyboardFocus = nil }
func (n *fakeNotifier) KeyboardKey(seat.Keyboard, uint32, uint32, seat.KeyState)                  { n.keys++ }
func (n *fakeNotifier) KeyboardModifiers(seat.Keyboard)                                           {}
func (n *fakeNotifier) SetCursorImage(string)                                                     {}
func (n *fakeNotifier) SetCursorSurface(desktop.Surface, int32, int32)                            {}
func (n *fakeNotifier) SetCapabilities(bool, bool)                                                {}

type fakeHandle struct {
	name          string
	width, height int
	commits       int
}

func (h *fakeHandle) Name() string                       { return h.name }
func (h *fakeHandle) Modes() []output.Mode               { return nil }
func (h *fakeHandle) PreferredMode() (output.Mode, bool) { return output.Mode{}, false }
func (h *fakeHandle) Resolution() (int, int)             { return h.width, h.height }
func (h *fakeHandle) NeedsFrame() bool                   { return false }
func (h *fakeHandle) Commit(geom.Region) error {
	h.commits++
	return nil
}
func (h *fakeHandle) HardwareCursor() bool              { return true }
func (h *fakeHandle) RenderSoftwareCursors(geom.Region) {}

// fixedHandle places itself, like the wlroots output layout
type fixedHandle struct{ fakeHandle }

func (h *fixedHandle) FixedGeometry() bool { return true }

type fakeRenderer struct {
	textures int
	quads    int
}

func (r *fakeRenderer) Begin(int, int)     {}
func (r *fakeRenderer) Scissor(*geom.Box)  {}
func (r *fakeRenderer) Clear(output.Color) {}
func (r *fakeRenderer) End()               {}
func (r *fakeRenderer) Texture(s desktop.Surface) (output.Texture, bool) {
	return s, true
}
func (r *fakeRenderer) RenderTexture(output.Texture, geom.Matrix, float32) { r.textures++ }
func (r *fakeRenderer) RenderQuad(output.Color, geom.Matrix)               { r.quads++ }

type fixture struct {
	c        *Compositor
	backend  *fakeBackend
	notifier *fakeNotifier
	renderer *fakeRenderer
}

func newFixture() *fixture {
	f := &fixture{
		backend:  &fakeBackend{},
		notifier: &fakeNotifier{},
		renderer: &fakeRenderer{},
	}
	f.c = New(nil, f.backend, f.notifier, f.renderer)
	return f
}

func (f *fixture) mapped(name string, box geom.Box) (*desktop.View, *desktoptest.Provider) {
	p := desktoptest.NewProvider(name, box.Width, box.Height)
	v := f.c.NewView(p, box, desktop.Credentials{})
	f.c.MapView(v)
	return v, p
}

func mruTitles(c *Compositor) []string {
	var titles []string
	for _, v := range c.Registry.MRU() {
		titles = append(titles, v.Title())
	}
	return titles
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMapFocusesAndDestroyHandsOff(t *testing.T) {
	f := newFixture()
	a, _ := f.mapped("a", geom.Box{Width: 100, Height: 100})
	b, pb := f.mapped("b", geom.Box{X: 200, Width: 100, Height: 100})
	if got, _ := f.c.Seat.Focused(); got != b || !pb.Active {
		t.Fatal("newly mapped view did not get focus")
	}

	f.c.DestroyView(b)
	f.c.DestroyView(b)
	if got, ok := f.c.Seat.Focused(); !ok || got != a {
		t.Errorf("focus after destroy = %v", got)
	}
	if f.c.Registry.Len() != 1 {
		t.Errorf("registry holds %d views", f.c.Registry.Len())
	}
}

func TestLegacyViewsAreDecorated(t *testing.T) {
	f := newFixture()
	p := desktoptest.NewProvider("xterm", 100, 100)
	p.ViewKind = desktop.KindXWayland
	v := f.c.NewView(p, geom.Box{X: 100, Y: 100, Width: 100, Height: 100}, desktop.Credentials{})
	if !v.Decorated || v.BorderWidth != 4 || v.TitlebarHeight != 12 {
		t.Errorf("decorations = %v %d %d", v.Decorated, v.BorderWidth, v.TitlebarHeight)
	}
	if got := v.DecoBox(); got != (geom.Box{X: 96, Y: 84, Width: 108, Height: 120}) {
		t.Errorf("DecoBox = %v", got)
	}
}

func TestKeyBindings(t *testing.T) {
	f := newFixture()
	f.mapped("a", geom.Box{Width: 10, Height: 10})
	f.mapped("b", geom.Box{Width: 10, Height: 10})
	c, _ := f.mapped("c", geom.Box{Width: 10, Height: 10})

	if !sameStrings(mruTitles(f.c), []string{"c", "b", "a"}) {
		t.Fatalf("MRU = %v", mruTitles(f.c))
	}

	if !f.c.handleKeyBinding([]seat.KeySym{seat.KeyTab}, seat.ModAlt) {
		t.Fatal("Alt+Tab not handled")
	}
	if got, _ := f.c.Seat.Focused(); got.Title() != "b" {
		t.Errorf("Alt+Tab focused %q", got.Title())
	}
	if !sameStrings(mruTitles(f.c), []string{"b", "a", "c"}) {
		t.Errorf("MRU after Alt+Tab = %v", mruTitles(f.c))
	}
	if c.Provider().(*desktoptest.Provider).Active {
		t.Error("previous front still active")
	}

	if !f.c.handleKeyBinding([]seat.KeySym{seat.KeySwitchVT1 + 2}, seat.ModCtrl|seat.ModAlt) {
		t.Fatal("XF86Switch_VT_3 not handled")
	}
	if !f.c.handleKeyBinding([]seat.KeySym{seat.KeyF1 + 1}, seat.ModCtrl|seat.ModAlt|seat.ModMod2) {
		t.Fatal("Ctrl+Alt+F2 with num lock not handled")
	}
	if len(f.backend.vts) != 2 || f.backend.vts[0] != 3 || f.backend.vts[1] != 2 {
		t.Errorf("VT switches = %v", f.backend.vts)
	}

	if f.c.handleKeyBinding([]seat.KeySym{seat.KeyEscape}, seat.ModAlt) {
		t.Error("Alt+Escape must reach the client")
	}
	if f.c.handleKeyBinding([]seat.KeySym{seat.KeyTab}, seat.ModAlt|seat.ModShift) {
		t.Error("extra modifiers must not match Alt+Tab")
	}
	if !f.c.handleKeyBinding([]seat.KeySym{seat.KeyEscape}, seat.ModLogo) || f.backend.terminated != 1 {
		t.Error("Logo+Escape did not terminate")
	}
}

func TestAltF4ClosesViewWithoutProcess(t *testing.T) {
	f := newFixture()
	_, pa := f.mapped("a", geom.Box{Width: 10, Height: 10})
	_, pb := f.mapped("b", geom.Box{Width: 10, Height: 10})

	if !f.c.handleKeyBinding([]seat.KeySym{seat.KeyF4}, seat.ModAlt) {
		t.Fatal("Alt+F4 not handled")
	}
	if !pb.Closed || pa.Closed {
		t.Errorf("closed: a=%v b=%v, want only b", pa.Closed, pb.Closed)
	}
	if got, _ := f.c.Seat.Focused(); got.Title() != "a" {
		t.Errorf("focus after Alt+F4 = %q", got.Title())
	}
}

func TestKeysReachClientWhenUnbound(t *testing.T) {
	f := newFixture()
	kb := keyboard("kbd")
	f.c.Seat.AddKeyboard(kb)
	f.c.Seat.RouteKey(kb, 1, 30, []seat.KeySym{'a'}, seat.ModAlt, seat.KeyPressed)
	f.c.Seat.RouteKey(kb, 2, 15, []seat.KeySym{seat.KeyTab}, seat.ModAlt, seat.KeyPressed)
	if f.notifier.keys != 1 {
		t.Errorf("client received %d keys, want 1", f.notifier.keys)
	}
}

type keyboard string

func (k keyboard) Name() string { return string(k) }

func TestOutputsAndCursor(t *testing.T) {
	f := newFixture()
	a := f.c.AddOutput(&fakeHandle{name: "A", width: 1920, height: 1080})
	if x, y := f.c.Seat.Cursor(); x != 960 || y != 540 {
		t.Errorf("cursor on first output = %v,%v", x, y)
	}
	b := f.c.AddOutput(&fakeHandle{name: "B", width: 1280, height: 1024})
	if b.X != 1920 {
		t.Fatalf("second output at x=%d", b.X)
	}

	panel := &layerClient{name: "panel"}
	ls, err := f.c.Layers.NewSurface(panel, layer.State{
		Layer:         layer.LayerTop,
		Anchor:        layer.AnchorTop | layer.AnchorLeft | layer.AnchorRight,
		DesiredHeight: 30,
		ExclusiveZone: 30,
	}, b, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	f.c.Layers.Map(ls)
	if b.Usable().Y != 30 {
		t.Errorf("usable area of B = %v", b.Usable())
	}

	f.c.Seat.WarpCursor(2500, 900)
	f.c.RemoveOutput(b)
	if !panel.closed {
		t.Error("layer surface survived its output")
	}
	if x, y := f.c.Seat.Cursor(); x != 1919 || y != 900 {
		t.Errorf("cursor after removal = %v,%v", x, y)
	}
	if f.c.Layout.Len() != 1 || f.c.Layout.Outputs()[0] != a {
		t.Error("wrong output removed")
	}
}

func TestRenderFrame(t *testing.T) {
	f := newFixture()
	h := &fakeHandle{name: "A", width: 1000, height: 1000}
	o := f.c.AddOutput(h)
	v, p := f.mapped("a", geom.Box{X: 10, Y: 10, Width: 100, Height: 100})
	ran := false
	if err := f.c.Loop.Post(func() { ran = true }); err != nil {
		t.Fatal(err)
	}

	drawn, err := f.c.RenderFrame(o, time.Now())
	if err != nil || !drawn {
		t.Fatalf("RenderFrame = %v, %v", drawn, err)
	}
	if !ran {
		t.Error("posted work did not run before the frame")
	}
	if f.renderer.textures == 0 || p.FramesDone != 1 || h.commits != 1 {
		t.Errorf("textures %d, frames done %d, commits %d", f.renderer.textures, p.FramesDone, h.commits)
	}
	if drawn, _ := f.c.RenderFrame(o, time.Now()); drawn {
		t.Error("frame without damage was committed")
	}

	f.c.MoveView(v, 300, 300)
	if v.Box.X != 300 || o.Damage().Empty() {
		t.Error("move did not damage the output")
	}
}

func TestViewByUUIDAndSnapshot(t *testing.T) {
	f := newFixture()
	f.c.AddOutput(&fakeHandle{name: "A", width: 800, height: 600})
	a, _ := f.mapped("a", geom.Box{Width: 10, Height: 10})
	b, _ := f.mapped("b", geom.Box{Width: 10, Height: 10})

	got, err := f.c.ViewByUUID(a.UUID.String())
	if err != nil || got != a {
		t.Fatalf("ViewByUUID = %v, %v", got, err)
	}
	if _, err := f.c.ViewByUUID("not-a-uuid"); err == nil {
		t.Error("bad uuid accepted")
	}

	state := f.c.Snapshot()
	if len(state.Views) != 2 || state.Views[0].UUID != b.UUID.String() || !state.Views[0].Focused {
		t.Errorf("views = %+v", state.Views)
	}
	if len(state.Outputs) != 1 || state.Outputs[0].Box.Width != 800 {
		t.Errorf("outputs = %+v", state.Outputs)
	}
	if state.Seat.Focused != b.UUID.String() || state.Seat.Mode != "passthrough" {
		t.Errorf("seat = %+v", state.Seat)
	}
}

func TestSwitchVTErrorIsLogged(t *testing.T) {
	f := newFixture()
	f.backend.vtErr = errors.New("no session")
	if !f.c.handleKeyBinding([]seat.KeySym{seat.KeySwitchVT12}, seat.ModCtrl|seat.ModAlt) {
		t.Fatal("binding must consume the key even when switching fails")
	}
}

type layerClient struct {
	name   string
	closed bool
}

func (c *layerClient) Namespace() string        { return c.name }
func (c *layerClient) Surface() desktop.Surface { return c }
func (c *layerClient) SurfaceAt(sx, sy float64) (desktop.Surface, float64, float64, bool) {
	return c, sx, sy, true
}
func (c *layerClient) Configure(int, int)                      {}
func (c *layerClient) Close()                                  { c.closed = true }
func (c *layerClient) ForEachSurface(func(desktop.SubSurface)) {}
func (c *layerClient) SendFrameDone(time.Time)                 {}

func TestRestackFollowsMRU(t *testing.T) {
	f := newFixture()
	o := f.c.AddOutput(&fakeHandle{name: "A", width: 100, height: 100})
	var raised []string
	for _, name := range []string{"a", "b", "c"} {
		_, p := f.mapped(name, geom.Box{Width: 10, Height: 10})
		p.RaiseLog = &raised
	}

	f.c.RenderFrame(o, time.Now())
	if !sameStrings(raised, []string{"a", "b", "c"}) {
		t.Fatalf("first frame raised %v", raised)
	}

	raised = nil
	f.c.RenderFrame(o, time.Now())
	if len(raised) != 0 {
		t.Errorf("unchanged order raised %v", raised)
	}

	f.c.CycleFocus()
	f.c.RenderFrame(o, time.Now())
	if !sameStrings(raised, []string{"c", "a", "b"}) {
		t.Errorf("after Alt+Tab raised %v", raised)
	}
}

func TestFixedGeometryIgnoresOutputConfig(t *testing.T) {
	f := newFixture()
	f.c.Config.Outputs = []config.Output{
		{Name: "A", Scale: 2, Transform: 1},
		{Name: "C", Scale: 2},
	}

	a := f.c.AddOutput(&fixedHandle{fakeHandle{name: "A", width: 1280, height: 800}})
	if a.Scale != 1 || a.Transform != geom.TransformNormal {
		t.Errorf("fixed output got scale %v transform %v", a.Scale, a.Transform)
	}
	b := f.c.AddOutput(&fixedHandle{fakeHandle{name: "B", width: 640, height: 480}})
	if b.X != 1280 {
		t.Errorf("second fixed output at x=%d, want 1280", b.X)
	}

	c := f.c.AddOutput(&fakeHandle{name: "C", width: 640, height: 480})
	if c.Scale != 2 {
		t.Errorf("scalable output got scale %v", c.Scale)
	}
}
