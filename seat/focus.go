package seat

import (
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/sirupsen/logrus"
)

// Focus gives keyboard focus to v and raises it. A nil view clears focus.
// Focusing the view that already has focus does nothing.
func (s *Seat) Focus(v *desktop.View) {
	if v == nil {
		s.clearFocus()
		return
	}
	if v.ID() == s.focused {
		return
	}
	if !v.Mapped() {
		s.log.WithField("view", v.ID()).Debugln("Refusing to focus unmapped view")
		return
	}
	if prev, ok := s.registry.Lookup(s.focused); ok {
		prev.Provider().Activate(false)
		s.damage.DamageWholeView(prev)
	}
	s.registry.PromoteToFront(v)
	s.damage.DamageWholeView(v)
	v.Provider().Activate(true)
	s.focused = v.ID()
	s.log.WithFields(logrus.Fields{
		"view":  v.ID(),
		"title": v.Title(),
	}).Debugln("Focused view")
	if s.focusLayer == nil {
		s.notifier.KeyboardEnter(v.Provider().Surface())
	}
}

func (s *Seat) clearFocus() {
	if prev, ok := s.registry.Lookup(s.focused); ok {
		prev.Provider().Activate(false)
		s.damage.DamageWholeView(prev)
	}
	s.focused = desktop.ID{}
	if s.focusLayer == nil {
		s.notifier.KeyboardClearFocus()
	}
}

// focusFront hands focus to the most recently used mapped view, or clears
// it when there is none
func (s *Seat) focusFront() {
	front, ok := s.registry.FrontMapped()
	if !ok {
		s.clearFocus()
		return
	}
	if front.ID() == s.focused {
		if s.focusLayer == nil {
			s.notifier.KeyboardEnter(front.Provider().Surface())
		}
		return
	}
	s.Focus(front)
}

// SetFocusLayer gives a layer surface precedence over views for keyboard
// focus. Passing nil returns focus to the views.
func (s *Seat) SetFocusLayer(l *layer.Surface) {
	if l == s.focusLayer {
		return
	}
	s.focusLayer = l
	if l != nil {
		s.log.WithField("surface", l).Debugln("Layer surface took keyboard focus")
		s.notifier.KeyboardEnter(l.Client().Surface())
		return
	}
	s.focusFront()
}

// viewGone runs when a view was unmapped or destroyed. It ends a gesture on
// it and moves focus away from it.
func (s *Seat) viewGone(id desktop.ID) {
	if s.grabbed == id {
		s.log.WithField("view", id).Debugln("Grabbed view went away")
		s.resetMode()
	}
	if s.focused == id {
		if v, ok := s.registry.Lookup(id); ok {
			v.Provider().Activate(false)
		}
		s.focused = desktop.ID{}
		s.focusFront()
	}
	s.Refresh(0)
}
