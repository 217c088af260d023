package main

import (
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/seat"
	"github.com/swaywm/go-wlroots/wlroots"
)

type wlKeyboard struct {
	dev  wlroots.InputDevice
	name string
}

func (k *wlKeyboard) Name() string {
	return k.name
}

// wlSeat forwards the seat decisions of the core to wlr_seat. Surfaces that
// are not wlroots surfaces, like legacy X windows, never get protocol focus.
type wlSeat struct {
	server *Server
}

var _ seat.Notifier = (*wlSeat)(nil)

func (n *wlSeat) PointerEnter(s desktop.Surface, sx, sy float64) {
	surface, ok := s.(wlroots.Surface)
	if !ok {
		n.server.seat.ClearPointerFocus()
		return
	}
	n.server.seat.NotifyPointerEnter(surface, sx, sy)
}

func (n *wlSeat) PointerMotion(time uint32, sx, sy float64) {
	n.server.seat.NotifyPointerMotion(time, sx, sy)
}

func (n *wlSeat) PointerButton(time, button uint32, state seat.ButtonState) {
	n.server.seat.NotifyPointerButton(time, button, wlroots.ButtonState(state))
}

func (n *wlSeat) PointerAxis(time uint32, orientation seat.AxisOrientation, delta float64, discrete int32, source seat.AxisSource) {
	n.server.seat.NotifyPointerAxis(time, wlroots.AxisOrientation(orientation), delta, discrete, wlroots.AxisSource(source))
}

func (n *wlSeat) PointerFrame() {
	n.server.seat.NotifyPointerFrame()
}

func (n *wlSeat) PointerClearFocus() {
	n.server.seat.ClearPointerFocus()
}

func (n *wlSeat) PointerFocus() desktop.Surface {
	s := n.server.seat.PointerState().FocusedSurface()
	if s.Nil() {
		return nil
	}
	return s
}

func (n *wlSeat) PointerFocusClient() any {
	if n.PointerFocus() == nil {
		return nil
	}
	return n.server.seat.PointerState().FocusedClient()
}

func (n *wlSeat) KeyboardEnter(s desktop.Surface) {
	surface, ok := s.(wlroots.Surface)
	if !ok {
		return
	}
	n.server.seat.NotifyKeyboardEnter(surface, n.server.seat.Keyboard())
}

// TODO: call wlr_seat_keyboard_clear_focus once go-wlroots binds it. Until
// then the old surface keeps keyboard focus until it is destroyed.
func (n *wlSeat) KeyboardClearFocus() {
	n.server.log.Debugln("Keyboard focus cleared in the core only")
}

func (n *wlSeat) KeyboardKey(kb seat.Keyboard, time, key uint32, state seat.KeyState) {
	k, ok := kb.(*wlKeyboard)
	if !ok {
		return
	}
	n.server.seat.SetKeyboard(k.dev)
	n.server.seat.NotifyKeyboardKey(time, key, wlroots.KeyState(state))
}

func (n *wlSeat) KeyboardModifiers(kb seat.Keyboard) {
	k, ok := kb.(*wlKeyboard)
	if !ok {
		return
	}
	n.server.seat.SetKeyboard(k.dev)
	n.server.seat.NotifyKeyboardModifiers(k.dev.Keyboard())
}

func (n *wlSeat) SetCursorImage(name string) {
	n.server.cursor.SetXCursor(n.server.cursorMgr, name)
}

func (n *wlSeat) SetCursorSurface(s desktop.Surface, hotspotX, hotspotY int32) {
	surface, ok := s.(wlroots.Surface)
	if !ok {
		return
	}
	n.server.cursor.SetSurface(surface, hotspotX, hotspotY)
}

// SetCapabilities always advertises a pointer, there is a cursor even
// without a pointer device
func (n *wlSeat) SetCapabilities(_, keyboard bool) {
	caps := wlroots.SeatCapabilityPointer
	if keyboard {
		caps |= wlroots.SeatCapabilityKeyboard
	}
	n.server.seat.SetCapabilities(caps)
}
