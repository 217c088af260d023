package seat

import (
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/sirupsen/logrus"
)

// BeginInteractive starts a client requested move or resize of v. Only a
// view owning the surface under the pointer may start one, any other
// request is ignored and false is returned.
func (s *Seat) BeginInteractive(v *desktop.View, mode Mode, edges geom.Edges) bool {
	if v == nil || mode == ModePassthrough {
		return false
	}
	if !v.Mapped() || !v.Owns(s.notifier.PointerFocus()) {
		s.log.WithFields(logrus.Fields{
			"view": v.ID(),
			"mode": mode,
		}).Debugln("Denied interactive request from view without pointer focus")
		return false
	}
	s.grabbed = v.ID()
	s.mode = mode
	s.grabBox = v.Box
	if mode == ModeMove {
		s.grabX = s.cursorX - float64(v.Box.X)
		s.grabY = s.cursorY - float64(v.Box.Y)
		s.edges = geom.EdgeNone
	} else {
		s.grabX = s.cursorX
		s.grabY = s.cursorY
		s.edges = edges
	}
	s.log.WithFields(logrus.Fields{
		"view":  v.ID(),
		"mode":  mode,
		"edges": edges,
		"box":   v.Box,
	}).Debugln("Interactive mode started")
	return true
}

func (s *Seat) resetMode() {
	s.mode = ModePassthrough
	s.grabbed = desktop.ID{}
	s.edges = geom.EdgeNone
}

// grabbedView resolves the grab. A grab on a view that is gone ends the
// gesture.
func (s *Seat) grabbedView() (*desktop.View, bool) {
	v, ok := s.registry.Lookup(s.grabbed)
	if !ok || !v.Mapped() {
		s.resetMode()
		return nil, false
	}
	return v, true
}

func (s *Seat) processMove() {
	v, ok := s.grabbedView()
	if !ok {
		return
	}
	s.MoveView(v, int(s.cursorX-s.grabX), int(s.cursorY-s.grabY))
}

// MoveView places the view at x, y and damages where it was and where it
// is now. Nothing happens when the position does not change.
func (s *Seat) MoveView(v *desktop.View, x, y int) {
	if v.Box.X == x && v.Box.Y == y {
		return
	}
	s.damage.DamageWholeView(v)
	v.Box.X, v.Box.Y = x, y
	v.Provider().Configure(x, y, v.Box.Width, v.Box.Height)
	s.damage.DamageWholeView(v)
}

// resizeBox applies a cursor delta to box for the given edges. A dragged
// edge never passes the opposite one: the size stops at 1 with the
// opposite edge kept in place.
func resizeBox(box geom.Box, edges geom.Edges, dx, dy int) geom.Box {
	switch edges.Vertical() {
	case geom.EdgeTop:
		box.Y += dy
		box.Height -= dy
		if box.Height < 1 {
			box.Y += box.Height - 1
			box.Height = 1
		}
	case geom.EdgeBottom:
		box.Height += dy
		if box.Height < 1 {
			box.Height = 1
		}
	}
	switch edges.Horizontal() {
	case geom.EdgeLeft:
		box.X += dx
		box.Width -= dx
		if box.Width < 1 {
			box.X += box.Width - 1
			box.Width = 1
		}
	case geom.EdgeRight:
		box.Width += dx
		if box.Width < 1 {
			box.Width = 1
		}
	}
	return box
}

func (s *Seat) processResize() {
	v, ok := s.grabbedView()
	if !ok {
		return
	}
	dx := int(s.cursorX - s.grabX)
	dy := int(s.cursorY - s.grabY)
	box := resizeBox(s.grabBox, s.edges, dx, dy)
	if box == v.Box {
		return
	}
	s.damage.DamageWholeView(v)
	moved := box.X != v.Box.X || box.Y != v.Box.Y
	v.Box = box
	if moved {
		v.Provider().Configure(box.X, box.Y, box.Width, box.Height)
	} else {
		v.Provider().Resize(box.Width, box.Height)
	}
	s.damage.DamageWholeView(v)
}
