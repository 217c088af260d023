package output

import (
	"fmt"
	"time"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
)

// Drawable is a non-view surface tree composited with the views, such as a
// panel or a wallpaper
type Drawable interface {
	// Bounds is the area of the tree in layout coordinates
	Bounds() geom.Box
	ForEachSurface(fn func(desktop.SubSurface))
	SendFrameDone(when time.Time)
}

// Scene is everything one frame needs to put on screen
type Scene struct {
	// Below is drawn first, bottom-most first
	Below []Drawable
	// Views in MRU order, most recent first. They are drawn back to front.
	Views []*desktop.View
	// Above is drawn last, bottom-most first
	Above []Drawable

	Focused          desktop.ID
	DecoColor        Color
	FocusedDecoColor Color
}

type frame struct {
	o          *Output
	r          Renderer
	projection geom.Matrix
	// damage in device pixels before the transform
	damage geom.Region
	now    time.Time
}

// scissor converts a damage rectangle into buffer coordinates
func (f *frame) scissor(b geom.Box) {
	w, h := f.o.EffectiveResolution()
	box := b.Transform(f.o.Transform.Invert(), w, h)
	f.r.Scissor(&box)
}

// drawSurface composites one surface at the given layout box. It returns
// false when the surface does not touch the damage.
func (f *frame) drawSurface(s desktop.Surface, box geom.Box, rotation float64, alpha float32) bool {
	device := f.o.toDevice(box, 0)
	bounds := device.RotatedBounds(rotation)
	if !f.damage.Intersects(bounds) {
		return false
	}
	tex, ok := f.r.Texture(s)
	if !ok {
		return false
	}
	m := geom.ProjectBox(device, rotation, f.projection)
	for _, rect := range f.damage.Rects() {
		if !rect.Overlaps(bounds) {
			continue
		}
		f.scissor(rect.Intersect(bounds))
		f.r.RenderTexture(tex, m, alpha)
	}
	return true
}

func (f *frame) drawQuad(box geom.Box, c Color) {
	device := f.o.toDevice(box, 0)
	if !f.damage.Intersects(device) {
		return
	}
	m := geom.ProjectBox(device, 0, f.projection)
	for _, rect := range f.damage.Rects() {
		if !rect.Overlaps(device) {
			continue
		}
		f.scissor(rect.Intersect(device))
		f.r.RenderQuad(c, m)
	}
}

// decorations returns the border and titlebar strips around the view box
func decorations(v *desktop.View) []geom.Box {
	if !v.Decorated {
		return nil
	}
	deco := v.DecoBox()
	box := v.Box
	return []geom.Box{
		{X: deco.X, Y: deco.Y, Width: deco.Width, Height: box.Y - deco.Y},
		{X: deco.X, Y: box.Y, Width: box.X - deco.X, Height: box.Height},
		{X: box.X + box.Width, Y: box.Y, Width: deco.X + deco.Width - box.X - box.Width, Height: box.Height},
		{X: deco.X, Y: box.Y + box.Height, Width: deco.Width, Height: deco.Y + deco.Height - box.Y - box.Height},
	}
}

func (f *frame) drawView(v *desktop.View, scene *Scene) {
	if !v.Mapped() || !f.o.LayoutBox().Overlaps(v.DecoBox().RotatedBounds(v.Rotation)) {
		return
	}
	color := scene.DecoColor
	if v.ID() == scene.Focused {
		color = scene.FocusedDecoColor
	}
	for _, strip := range decorations(v) {
		f.drawQuad(strip, color)
	}
	v.Provider().ForEachSurface(func(sub desktop.SubSurface) {
		f.drawSurface(sub.Surface, sub.Box().Translate(v.Box.X, v.Box.Y), v.Rotation, v.Alpha)
	})
	v.Provider().SendFrameDone(f.now)
}

func (f *frame) drawDrawable(d Drawable) {
	origin := d.Bounds()
	if !f.o.LayoutBox().Overlaps(origin) {
		return
	}
	d.ForEachSurface(func(sub desktop.SubSurface) {
		f.drawSurface(sub.Surface, sub.Box().Translate(origin.X, origin.Y), 0, 1)
	})
	d.SendFrameDone(f.now)
}

// Frame composites the scene onto the output. Nothing is drawn when the
// backend does not need a frame and there is no damage. Otherwise only the
// damaged rectangles are cleared and redrawn, the frame is committed and the
// damage is reset. It reports whether a frame was committed.
func (o *Output) Frame(r Renderer, scene *Scene, now time.Time) (bool, error) {
	needsFrame := o.handle.NeedsFrame()
	if !needsFrame && o.damage.Empty() {
		return false, nil
	}

	f := &frame{
		o:          o,
		r:          r,
		projection: geom.ProjectionMatrix(o.Width, o.Height, o.Transform),
		damage:     o.Damage(),
		now:        now,
	}
	w, h := o.EffectiveResolution()
	bufferDamage := f.damage.Transform(o.Transform.Invert(), w, h)

	r.Begin(o.Width, o.Height)
	for _, rect := range f.damage.Rects() {
		f.scissor(rect)
		r.Clear(o.Background)
	}
	for _, d := range scene.Below {
		f.drawDrawable(d)
	}
	for i := len(scene.Views) - 1; i >= 0; i-- {
		f.drawView(scene.Views[i], scene)
	}
	for _, d := range scene.Above {
		f.drawDrawable(d)
	}
	r.Scissor(nil)
	if !o.handle.HardwareCursor() {
		o.handle.RenderSoftwareCursors(bufferDamage)
	}
	r.End()

	if err := o.handle.Commit(bufferDamage); err != nil {
		return false, fmt.Errorf("committing frame on %s: %w", o.name, err)
	}
	o.damage.Clear()
	o.fps.tick(now, o.log)
	return true, nil
}
