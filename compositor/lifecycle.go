package compositor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mstarongithub/theinterface/config"
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/mstarongithub/theinterface/output"
	"github.com/mstarongithub/theinterface/seat"
	"github.com/sirupsen/logrus"
)

// NewView registers a client window at box. It stays invisible until
// MapView. Legacy X windows get server side decorations.
func (c *Compositor) NewView(p desktop.Provider, box geom.Box, creds desktop.Credentials) *desktop.View {
	v := c.Registry.NewView(p, box, creds)
	if p.Kind() == desktop.KindXWayland {
		v.Decorated = true
		v.BorderWidth = c.Config.Decorations.BorderWidth
		v.TitlebarHeight = c.Config.Decorations.TitlebarHeight
	}
	c.Registry.Insert(v)
	c.log.WithFields(logrus.Fields{
		"view": v.ID(),
		"uuid": v.UUID,
		"kind": p.Kind(),
		"pid":  creds.PID,
	}).Debugln("New view")
	return v
}

// MapView shows the view and gives it focus
func (c *Compositor) MapView(v *desktop.View) {
	if v.Mapped() {
		return
	}
	c.Registry.Map(v)
	c.Layout.DamageWholeView(v)
	c.Seat.Focus(v)
	c.Seat.Refresh(0)
}

// UnmapView hides the view. The seat moves focus and ends gestures itself.
func (c *Compositor) UnmapView(v *desktop.View) {
	if !v.Mapped() {
		return
	}
	c.Layout.DamageWholeView(v)
	c.Registry.Unmap(v)
}

// DestroyView forgets the view. Calling it twice is harmless.
func (c *Compositor) DestroyView(v *desktop.View) {
	if v.Registry() == nil {
		return
	}
	c.UnmapView(v)
	c.Registry.Remove(v)
}

// CommitView reacts to new content of a mapped view
func (c *Compositor) CommitView(v *desktop.View) {
	if !v.Mapped() {
		return
	}
	c.Layout.DamagePartialView(v)
}

// ResizeView records a size the client chose on its own
func (c *Compositor) ResizeView(v *desktop.View, width, height int) {
	if v.Box.Width == width && v.Box.Height == height {
		return
	}
	if v.Mapped() {
		c.Layout.DamageWholeView(v)
	}
	v.Box.Width, v.Box.Height = width, height
	if v.Mapped() {
		c.Layout.DamageWholeView(v)
	}
}

// MoveView places the view at x, y in layout coordinates
func (c *Compositor) MoveView(v *desktop.View, x, y int) {
	c.Seat.MoveView(v, x, y)
}

// TitleChanged redraws the titlebar of a decorated view
func (c *Compositor) TitleChanged(v *desktop.View) {
	if v.Mapped() && v.Decorated {
		c.Layout.DamageWholeView(v)
	}
}

// RequestMove is a client asking for an interactive move
func (c *Compositor) RequestMove(v *desktop.View) bool {
	return c.Seat.BeginInteractive(v, seat.ModeMove, geom.EdgeNone)
}

// RequestResize is a client asking for an interactive resize from edges
func (c *Compositor) RequestResize(v *desktop.View, edges geom.Edges) bool {
	return c.Seat.BeginInteractive(v, seat.ModeResize, edges)
}

// ViewByUUID finds a live view by its external id
func (c *Compositor) ViewByUUID(id string) (*desktop.View, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing view id: %w", err)
	}
	for _, v := range c.Registry.Stacking() {
		if v.UUID == parsed {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no view with id %s", parsed)
}

// AddOutput puts a new output into the layout with its configured scale and
// transform. The first output gets the cursor.
func (c *Compositor) AddOutput(h output.Handle) *output.Output {
	oc, _ := c.Config.OutputFor(h.Name())
	scale, transform := oc.Scale, geom.Transform(oc.Transform)
	if fg, ok := h.(output.FixedGeometry); ok && fg.FixedGeometry() {
		if scale != 1 || transform != geom.TransformNormal {
			c.log.WithFields(logrus.Fields{
				"output":    h.Name(),
				"scale":     scale,
				"transform": oc.Transform,
			}).Warnln("Backend places this output itself, ignoring configured scale and transform")
		}
		scale, transform = 1, geom.TransformNormal
	}
	o := c.Layout.Add(h, scale, transform)
	o.Background = output.Color(config.Color4(c.Config.Background))
	c.Layers.Arrange(o)
	if c.Layout.Len() == 1 {
		box := o.LayoutBox()
		c.Seat.WarpCursor(float64(box.X+box.Width/2), float64(box.Y+box.Height/2))
	}
	return o
}

// RemoveOutput takes an unplugged output out of the layout. Its layer
// surfaces are closed and the cursor is pulled back onto the remaining
// outputs.
func (c *Compositor) RemoveOutput(o *output.Output) {
	c.Layers.OutputDestroyed(o)
	if !c.Layout.Remove(o) {
		return
	}
	if c.Layout.Len() == 0 {
		return
	}
	x, y := c.Layout.Clamp(c.Seat.Cursor())
	c.Seat.WarpCursor(x, y)
	c.Layout.DamageWhole()
	c.Seat.Refresh(0)
}

// OutputResized reacts to a backend mode change of o
func (c *Compositor) OutputResized(o *output.Output, width, height int) {
	o.SetResolution(width, height)
	c.Layers.Arrange(o)
}

// RenderFrame runs queued work, brings provider stacking in line with the
// MRU order and then composites one frame on o
func (c *Compositor) RenderFrame(o *output.Output, now time.Time) (bool, error) {
	c.Loop.Drain()
	c.restack()
	deco, focusedDeco := c.decoColors()
	scene := output.Scene{
		Below:            c.Layers.Drawables(o, false),
		Views:            c.mappedMRU(),
		Above:            c.Layers.Drawables(o, true),
		DecoColor:        deco,
		FocusedDecoColor: focusedDeco,
	}
	if v, ok := c.Seat.Focused(); ok {
		scene.Focused = v.ID()
	}
	return o.Frame(c.renderer, &scene, now)
}

// NewLayerSurface places a panel like surface on the output under the cursor
// and shows it
func (c *Compositor) NewLayerSurface(cl layer.Client, st layer.State) (*layer.Surface, error) {
	x, y := c.Seat.Cursor()
	s, err := c.Layers.NewSurface(cl, st, nil, x, y)
	if err != nil {
		return nil, err
	}
	c.Layers.Map(s)
	return s, nil
}

// CommitLayerSurface applies a changed request of s
func (c *Compositor) CommitLayerSurface(s *layer.Surface, st layer.State) {
	c.Layers.Commit(s, st)
}

// DestroyLayerSurface forgets s and gives its reserved space back
func (c *Compositor) DestroyLayerSurface(s *layer.Surface) {
	c.Layers.Destroy(s)
}
