package output

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/desktop/desktoptest"
	"github.com/mstarongithub/theinterface/geom"
)

type fakeHandle struct {
	name      string
	modes     []Mode
	width     int
	height    int
	needs     bool
	hwCursor  bool
	commits   []geom.Region
	swCursors int
	commitErr error
}

func (h *fakeHandle) Name() string  { return h.name }
func (h *fakeHandle) Modes() []Mode { return h.modes }
func (h *fakeHandle) PreferredMode() (Mode, bool) {
	for _, m := range h.modes {
		if m.Preferred {
			return m, true
		}
	}
	return Mode{}, false
}
func (h *fakeHandle) Resolution() (int, int) { return h.width, h.height }
func (h *fakeHandle) NeedsFrame() bool       { return h.needs }
func (h *fakeHandle) Commit(damage geom.Region) error {
	if h.commitErr != nil {
		return h.commitErr
	}
	h.commits = append(h.commits, damage)
	return nil
}
func (h *fakeHandle) HardwareCursor() bool                { return h.hwCursor }
func (h *fakeHandle) RenderSoftwareCursors(_ geom.Region) { h.swCursors++ }

type fakeRenderer struct {
	begins   int
	clears   int
	textures int
	quads    int
	scissors []geom.Box
}

func (r *fakeRenderer) Begin(int, int) { r.begins++ }
func (r *fakeRenderer) Scissor(b *geom.Box) {
	if b != nil {
		r.scissors = append(r.scissors, *b)
	}
}
func (r *fakeRenderer) Clear(Color) { r.clears++ }
func (r *fakeRenderer) Texture(s desktop.Surface) (Texture, bool) {
	return s, s != nil
}
func (r *fakeRenderer) RenderTexture(Texture, geom.Matrix, float32) { r.textures++ }
func (r *fakeRenderer) RenderQuad(Color, geom.Matrix)               { r.quads++ }
func (r *fakeRenderer) End()                                        {}

func newHandle(name string, w, h int) *fakeHandle {
	return &fakeHandle{name: name, width: w, height: h, hwCursor: true}
}

func mappedView(r *desktop.Registry, box geom.Box) (*desktop.View, *desktoptest.Provider) {
	p := desktoptest.NewProvider("v", box.Width, box.Height)
	v := r.NewView(p, box, desktop.Credentials{})
	r.Insert(v)
	r.Map(v)
	return v, p
}

func TestLayoutPlacesLeftToRight(t *testing.T) {
	l := NewLayout()
	a := l.Add(&fakeHandle{name: "A", modes: []Mode{{Width: 800, Height: 600}, {Width: 1920, Height: 1080, Preferred: true}}}, 1, geom.TransformNormal)
	b := l.Add(newHandle("B", 1280, 1024), 2, geom.TransformNormal)

	if a.Width != 1920 || a.Height != 1080 {
		t.Errorf("preferred mode not picked: %dx%d", a.Width, a.Height)
	}
	if b.X != 1920 || b.Y != 0 {
		t.Errorf("B placed at %d,%d", b.X, b.Y)
	}
	if got := b.LayoutBox(); got != (geom.Box{X: 1920, Width: 640, Height: 512}) {
		t.Errorf("B layout box = %v", got)
	}
	if o, ok := l.OutputAt(2000, 10); !ok || o != b {
		t.Error("OutputAt missed B")
	}
	if _, ok := l.OutputAt(2000, 900); ok {
		t.Error("OutputAt hit below B")
	}
	if o, ok := l.Find("A"); !ok || o != a {
		t.Error("Find(A) failed")
	}
	if _, ok := l.Find("C"); ok {
		t.Error("Find(C) succeeded")
	}
	if o, ok := l.Center(); !ok || o != a {
		t.Errorf("Center = %v", o)
	}
	if x, y := l.Clamp(3000, 100); x != 2559 || y != 100 {
		t.Errorf("Clamp right of B = %v,%v", x, y)
	}
	x, y := l.Clamp(5000, 5000)
	if x != 1919 || y != 1079 {
		t.Errorf("Clamp = %v,%v", x, y)
	}
	l.Remove(a)
	if _, ok := l.Find("A"); ok || l.Len() != 1 {
		t.Error("A still in layout")
	}
}

func TestDamageWholeViewIsIdempotent(t *testing.T) {
	l := NewLayout()
	o := l.Add(newHandle("A", 1000, 1000), 1, geom.TransformNormal)
	o.damage.Clear()
	r := desktop.NewRegistry()
	v, p := mappedView(r, geom.Box{X: 10, Y: 10, Width: 100, Height: 100})
	p.PendingDmg = []geom.Box{{X: 5, Y: 5, Width: 10, Height: 10}}

	o.DamageWholeView(v)
	once := o.Damage()
	o.DamageWholeView(v)
	if !once.Equal(o.Damage()) {
		t.Errorf("damage after two calls %v, after one %v", o.Damage().Rects(), once.Rects())
	}
}

func TestDamageIsScaledAndClipped(t *testing.T) {
	l := NewLayout()
	o := l.Add(newHandle("A", 200, 200), 2, geom.TransformNormal)
	o.damage.Clear()
	r := desktop.NewRegistry()
	v, _ := mappedView(r, geom.Box{X: 90, Y: -10, Width: 20, Height: 20})

	o.DamageWholeView(v)
	rects := o.Damage().Rects()
	want := geom.Box{X: 180, Y: 0, Width: 20, Height: 20}
	if len(rects) != 1 || rects[0] != want {
		t.Errorf("damage = %v, want [%v]", rects, want)
	}
}

func TestDamageRotatedView(t *testing.T) {
	l := NewLayout()
	o := l.Add(newHandle("A", 1000, 1000), 1, geom.TransformNormal)
	o.damage.Clear()
	r := desktop.NewRegistry()
	box := geom.Box{X: 100, Y: 100, Width: 100, Height: 100}
	v, p := mappedView(r, box)
	v.Rotation = math.Pi / 4

	o.DamageWholeView(v)
	want := box.RotatedBounds(v.Rotation)
	if got := o.Damage().Extents(); got != want {
		t.Errorf("whole damage = %v, want %v", got, want)
	}
	if !want.ContainsBox(box) || want == box {
		t.Fatalf("rotated bounds %v do not grow past %v", want, box)
	}

	// any surface damage on a rotated view covers the whole surface
	o.damage.Clear()
	p.PendingDmg = []geom.Box{{X: 1, Y: 1, Width: 2, Height: 2}}
	o.DamagePartialView(v)
	if got := o.Damage().Extents(); got != want {
		t.Errorf("partial damage = %v, want %v", got, want)
	}
}

func TestDamagePartialViewUsesSurfaceDamage(t *testing.T) {
	l := NewLayout()
	o := l.Add(newHandle("A", 500, 500), 1, geom.TransformNormal)
	o.damage.Clear()
	r := desktop.NewRegistry()
	v, p := mappedView(r, geom.Box{X: 100, Y: 100, Width: 100, Height: 100})

	o.DamagePartialView(v)
	if !o.Damage().Empty() {
		t.Fatal("view without surface damage produced damage")
	}
	p.PendingDmg = []geom.Box{{X: 1, Y: 2, Width: 3, Height: 4}}
	o.DamagePartialView(v)
	rects := o.Damage().Rects()
	if len(rects) != 1 || rects[0] != (geom.Box{X: 101, Y: 102, Width: 3, Height: 4}) {
		t.Errorf("partial damage = %v", rects)
	}
}

func TestFrameSkippedWithoutDamage(t *testing.T) {
	l := NewLayout()
	h := newHandle("A", 100, 100)
	o := l.Add(h, 1, geom.TransformNormal)
	o.damage.Clear()
	rend := &fakeRenderer{}

	committed, err := o.Frame(rend, &Scene{}, time.Now())
	if err != nil || committed {
		t.Fatalf("Frame = %v, %v; want skip", committed, err)
	}
	if rend.begins != 0 || len(h.commits) != 0 {
		t.Error("skipped frame touched the renderer or backend")
	}

	h.needs = true
	committed, err = o.Frame(rend, &Scene{}, time.Now())
	if err != nil || !committed || len(h.commits) != 1 {
		t.Fatalf("frame with pending swap not committed: %v, %v", committed, err)
	}
	if rend.clears != 0 {
		t.Error("frame without damage cleared something")
	}
}

func TestFrameDrawsDamageAndResets(t *testing.T) {
	l := NewLayout()
	h := newHandle("A", 100, 100)
	h.hwCursor = false
	o := l.Add(h, 1, geom.TransformNormal)
	o.damage.Clear()

	r := desktop.NewRegistry()
	back, pBack := mappedView(r, geom.Box{X: 0, Y: 0, Width: 50, Height: 50})
	front, pFront := mappedView(r, geom.Box{X: 60, Y: 60, Width: 20, Height: 20})
	front.Decorated = true
	front.BorderWidth = 2
	front.TitlebarHeight = 5
	o.DamageBox(geom.Box{X: 0, Y: 0, Width: 10, Height: 10})

	rend := &fakeRenderer{}
	scene := &Scene{Views: []*desktop.View{front, back}}
	committed, err := o.Frame(rend, scene, time.Now())
	if err != nil || !committed {
		t.Fatalf("Frame = %v, %v", committed, err)
	}
	if rend.clears != 1 {
		t.Errorf("cleared %d rects, want 1", rend.clears)
	}
	if rend.textures != 1 {
		t.Errorf("drew %d textures, want only the damaged back view", rend.textures)
	}
	if rend.quads != 0 {
		t.Errorf("drew %d decoration quads outside the damage", rend.quads)
	}
	if pBack.FramesDone != 1 || pFront.FramesDone != 1 {
		t.Error("frame done not sent to every view on the output")
	}
	if h.swCursors != 1 {
		t.Error("software cursor not drawn")
	}
	if !o.Damage().Empty() {
		t.Error("damage not reset after commit")
	}
	if got := h.commits[0].Rects(); len(got) != 1 || got[0] != (geom.Box{Width: 10, Height: 10}) {
		t.Errorf("committed damage = %v", got)
	}
}

func TestFrameKeepsDamageOnCommitError(t *testing.T) {
	l := NewLayout()
	h := newHandle("A", 100, 100)
	h.commitErr = errors.New("busy")
	o := l.Add(h, 1, geom.TransformNormal)

	if _, err := o.Frame(&fakeRenderer{}, &Scene{}, time.Now()); !errors.Is(err, h.commitErr) {
		t.Fatalf("err = %v", err)
	}
	if o.Damage().Empty() {
		t.Error("damage dropped after failed commit")
	}
}

func TestFrameTransformsCommittedDamage(t *testing.T) {
	l := NewLayout()
	h := newHandle("A", 100, 200)
	o := l.Add(h, 1, geom.Transform90)
	if w, hh := o.EffectiveResolution(); w != 200 || hh != 100 {
		t.Fatalf("effective resolution %dx%d", w, hh)
	}
	o.damage.Clear()
	o.DamageBox(geom.Box{Width: 10, Height: 10})

	if _, err := o.Frame(&fakeRenderer{}, &Scene{}, time.Now()); err != nil {
		t.Fatal(err)
	}
	got := h.commits[0].Rects()
	if len(got) != 1 || got[0] != (geom.Box{X: 0, Y: 190, Width: 10, Height: 10}) {
		t.Errorf("buffer damage = %v", got)
	}
}
