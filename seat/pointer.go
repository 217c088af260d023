package seat

import (
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/sirupsen/logrus"
)

// surfaceAt finds the client surface under the layout point. Layer surfaces
// above the views win over views, which win over layer surfaces below them.
func (s *Seat) surfaceAt(x, y float64) (*desktop.View, desktop.Surface, float64, float64, bool) {
	if s.layers != nil {
		if _, surface, sx, sy, ok := s.layers.SurfaceAt(x, y, true); ok {
			return nil, surface, sx, sy, true
		}
	}
	if v, surface, sx, sy, ok := s.registry.ViewAt(x, y); ok {
		return v, surface, sx, sy, true
	}
	if s.layers != nil {
		if _, surface, sx, sy, ok := s.layers.SurfaceAt(x, y, false); ok {
			return nil, surface, sx, sy, true
		}
	}
	return nil, nil, 0, 0, false
}

func (s *Seat) setCursorImage(name string) {
	s.cursorImage = name
	s.notifier.SetCursorImage(name)
}

// RouteMotion handles the cursor arriving at x, y in layout coordinates
func (s *Seat) RouteMotion(x, y float64, time uint32) {
	s.cursorX, s.cursorY = x, y
	switch s.mode {
	case ModeMove:
		s.processMove()
		return
	case ModeResize:
		s.processResize()
		return
	}
	s.passthroughMotion(time)
}

func (s *Seat) passthroughMotion(time uint32) {
	v, surface, sx, sy, ok := s.surfaceAt(s.cursorX, s.cursorY)
	if v == nil {
		s.setCursorImage("default")
	}
	if !ok {
		s.notifier.PointerClearFocus()
		return
	}
	if surface != s.notifier.PointerFocus() {
		s.notifier.PointerEnter(surface, sx, sy)
		return
	}
	s.notifier.PointerMotion(time, sx, sy)
}

// RouteButton forwards the button to the focused client. Releasing any
// button ends a move or resize. Pressing one focuses the view under the
// cursor.
func (s *Seat) RouteButton(time, button uint32, state ButtonState) {
	s.notifier.PointerButton(time, button, state)
	if state == ButtonReleased {
		if s.mode != ModePassthrough {
			s.log.WithFields(logrus.Fields{
				"mode":   s.mode,
				"button": button,
			}).Debugln("Interactive mode ended")
		}
		s.resetMode()
		return
	}
	v, _, _, _, ok := s.surfaceAt(s.cursorX, s.cursorY)
	if ok && v != nil {
		s.Focus(v)
	}
}

func (s *Seat) RouteAxis(time uint32, orientation AxisOrientation, delta float64, discrete int32, source AxisSource) {
	s.notifier.PointerAxis(time, orientation, delta, discrete, source)
}

func (s *Seat) RouteFrame() {
	s.notifier.PointerFrame()
}

// AddPointer advertises the pointer capability
func (s *Seat) AddPointer() {
	s.notifier.SetCapabilities(true, len(s.keyboards) > 0)
}

// RequestSetCursor lets the client with pointer focus set the cursor image
func (s *Seat) RequestSetCursor(client any, surface desktop.Surface, hotspotX, hotspotY int32) {
	if client == nil || client != s.notifier.PointerFocusClient() {
		s.log.Debugln("Ignoring cursor request from client without pointer focus")
		return
	}
	s.cursorImage = "client"
	s.notifier.SetCursorSurface(surface, hotspotX, hotspotY)
}

// Refresh re-runs pointer focus at the current cursor position, for when
// the scene changed under a still cursor
func (s *Seat) Refresh(time uint32) {
	if s.mode == ModePassthrough {
		s.passthroughMotion(time)
	}
}
