package layer

import (
	"errors"

	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/output"
	"github.com/sirupsen/logrus"
)

var ErrNoOutput = errors.New("no output to place the layer surface on")

// Damager receives layout-space damage
type Damager interface {
	DamageBox(b geom.Box)
}

// FocusSetter is told which layer surface should hold keyboard focus, or
// nil when none of them wants it
type FocusSetter interface {
	SetFocusLayer(s *Surface)
}

type lists [layerCount][]*Surface

// Shell keeps the layer surfaces of every output, newest last in each layer
type Shell struct {
	layout  *output.Layout
	damage  Damager
	focus   FocusSetter
	outputs map[*output.Output]*lists
	serial  uint64
	focused *Surface
	log     *logrus.Entry
}

func NewShell(layout *output.Layout, damage Damager, focus FocusSetter) *Shell {
	return &Shell{
		layout:  layout,
		damage:  damage,
		focus:   focus,
		outputs: map[*output.Output]*lists{},
		log:     logrus.WithField("component", "layer-shell"),
	}
}

// SetFocusSetter wires the focus target after construction
func (sh *Shell) SetFocusSetter(f FocusSetter) {
	sh.focus = f
}

func (sh *Shell) listsOf(o *output.Output) *lists {
	l, ok := sh.outputs[o]
	if !ok {
		l = &lists{}
		sh.outputs[o] = l
	}
	return l
}

// NewSurface registers a surface. Without a requested output it goes to the
// output under the cursor, then the one in the middle of the layout. With no
// output at all the surface is closed.
func (sh *Shell) NewSurface(c Client, st State, requested *output.Output, cursorX, cursorY float64) (*Surface, error) {
	if !st.Layer.valid() {
		c.Close()
		return nil, errors.New("invalid layer requested")
	}
	o := requested
	if o == nil {
		if at, ok := sh.layout.OutputAt(cursorX, cursorY); ok {
			o = at
		} else if center, ok := sh.layout.Center(); ok {
			o = center
		}
	}
	if o == nil {
		c.Close()
		return nil, ErrNoOutput
	}
	s := &Surface{
		client: c,
		output: o,
		state:  st,
	}
	sh.place(s, st.Layer)
	sh.log.WithFields(logrus.Fields{
		"namespace": c.Namespace(),
		"output":    o.Name(),
		"layer":     st.Layer,
	}).Debugln("New layer surface")
	sh.Arrange(o)
	if s.closed {
		return nil, errors.New("layer surface rejected during arrangement")
	}
	return s, nil
}

// place appends s to layer on its output and makes it the most recently
// placed surface
func (sh *Shell) place(s *Surface, layer Layer) {
	sh.serial++
	s.placed = sh.serial
	l := sh.listsOf(s.output)
	l[layer] = append(l[layer], s)
}

func (sh *Shell) remove(s *Surface) {
	if s.output == nil {
		return
	}
	l, ok := sh.outputs[s.output]
	if !ok {
		return
	}
	list := l[s.state.Layer]
	for i, existing := range list {
		if existing == s {
			l[s.state.Layer] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (sh *Shell) close(s *Surface) {
	if s.closed {
		return
	}
	if s.mapped {
		sh.damage.DamageBox(s.Bounds())
	}
	s.closed = true
	s.mapped = false
	sh.remove(s)
	s.client.Close()
}

func (sh *Shell) Map(s *Surface) {
	if s.closed || s.mapped {
		return
	}
	s.mapped = true
	sh.serial++
	s.placed = sh.serial
	sh.damage.DamageBox(s.Bounds())
	sh.updateFocus()
}

func (sh *Shell) Unmap(s *Surface) {
	if !s.mapped {
		return
	}
	sh.damage.DamageBox(s.Bounds())
	s.mapped = false
	sh.updateFocus()
}

// Commit applies a new client state. A layer change moves the surface to
// the new list and any change rearranges its output.
func (sh *Shell) Commit(s *Surface, st State) {
	if s.closed {
		return
	}
	if !st.Layer.valid() {
		sh.log.WithField("surface", s).Warnln("Commit with invalid layer, closing surface")
		sh.close(s)
		return
	}
	if st == s.state {
		if s.mapped {
			sh.damage.DamageBox(s.Bounds())
		}
		return
	}
	if st.Layer != s.state.Layer {
		sh.remove(s)
		sh.place(s, st.Layer)
	}
	s.state = st
	sh.Arrange(s.output)
}

// Destroy forgets the surface. It is safe to call after a close.
func (sh *Shell) Destroy(s *Surface) {
	if s.mapped {
		sh.damage.DamageBox(s.Bounds())
	}
	s.mapped = false
	wasClosed := s.closed
	s.closed = true
	sh.remove(s)
	if s.output != nil && !wasClosed {
		if _, ok := sh.outputs[s.output]; ok {
			sh.Arrange(s.output)
			return
		}
	}
	sh.updateFocus()
}

// OutputDestroyed closes every surface on the output
func (sh *Shell) OutputDestroyed(o *output.Output) {
	l, ok := sh.outputs[o]
	if !ok {
		return
	}
	for layer := range l {
		for _, s := range append([]*Surface(nil), l[layer]...) {
			sh.close(s)
			s.output = nil
		}
	}
	delete(sh.outputs, o)
	sh.updateFocus()
}

// Arrange recomputes the usable area of the output and places every layer
// surface on it.
func (sh *Shell) Arrange(o *output.Output) {
	l, ok := sh.outputs[o]
	if !ok {
		o.SetUsable(o.LocalBox())
		return
	}
	full := o.LocalBox()
	usable := full
	order := []Layer{LayerOverlay, LayerTop, LayerBottom, LayerBackground}
	for _, layer := range order {
		sh.arrangeLayer(append([]*Surface(nil), l[layer]...), full, &usable, true)
	}
	o.SetUsable(usable)
	for _, layer := range order {
		sh.arrangeLayer(append([]*Surface(nil), l[layer]...), full, &usable, false)
	}
	sh.updateFocus()
}

// Surfaces returns the surfaces of one layer on one output, oldest first
func (sh *Shell) Surfaces(o *output.Output, layer Layer) []*Surface {
	l, ok := sh.outputs[o]
	if !ok || !layer.valid() {
		return nil
	}
	return append([]*Surface(nil), l[layer]...)
}

// Drawables returns the mapped surfaces drawn below the views (background
// and bottom) or above them (top and overlay), bottom-most first
func (sh *Shell) Drawables(o *output.Output, above bool) []output.Drawable {
	layers := []Layer{LayerBackground, LayerBottom}
	if above {
		layers = []Layer{LayerTop, LayerOverlay}
	}
	var out []output.Drawable
	for _, layer := range layers {
		for _, s := range sh.Surfaces(o, layer) {
			if s.mapped {
				out = append(out, s)
			}
		}
	}
	return out
}

// SurfaceAt hit-tests the layer surfaces above the views (overlay, top) or
// below them (bottom, background), newest first
func (sh *Shell) SurfaceAt(lx, ly float64, above bool) (*Surface, desktop.Surface, float64, float64, bool) {
	layers := []Layer{LayerBottom, LayerBackground}
	if above {
		layers = []Layer{LayerOverlay, LayerTop}
	}
	for _, o := range sh.layout.Outputs() {
		for _, layer := range layers {
			list := sh.Surfaces(o, layer)
			for i := len(list) - 1; i >= 0; i-- {
				s := list[i]
				b := s.Bounds()
				if !s.mapped || !b.Contains(lx, ly) {
					continue
				}
				if surface, sx, sy, ok := s.client.SurfaceAt(lx-float64(b.X), ly-float64(b.Y)); ok {
					return s, surface, sx, sy, true
				}
			}
		}
	}
	return nil, nil, 0, 0, false
}

// Focused is the layer surface currently holding keyboard focus
func (sh *Shell) Focused() *Surface {
	return sh.focused
}

// updateFocus hands keyboard focus to the most recently placed mapped
// keyboard-interactive surface in the overlay layer, then the top layer.
func (sh *Shell) updateFocus() {
	var target *Surface
	for _, layer := range []Layer{LayerOverlay, LayerTop} {
		for _, o := range sh.layout.Outputs() {
			for _, s := range sh.Surfaces(o, layer) {
				if !s.mapped || !s.state.KeyboardInteractive {
					continue
				}
				if target == nil || target.state.Layer == layer && s.placed > target.placed {
					target = s
				}
			}
		}
		if target != nil {
			break
		}
	}
	if target == sh.focused {
		return
	}
	sh.focused = target
	if sh.focus != nil {
		sh.focus.SetFocusLayer(target)
	}
}
