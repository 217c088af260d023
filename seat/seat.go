// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package seat routes pointer and keyboard input to clients and runs the
// interactive move and resize gestures.
package seat

import (
	"github.com/mstarongithub/theinterface/desktop"
	"github.com/mstarongithub/theinterface/geom"
	"github.com/mstarongithub/theinterface/layer"
	"github.com/sirupsen/logrus"
)

type Mode int

const (
	ModePassthrough Mode = iota
	ModeMove
	ModeResize
)

func (m Mode) String() string {
	switch m {
	case ModePassthrough:
		return "passthrough"
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "unknown"
	}
}

type ButtonState int

const (
	ButtonReleased ButtonState = iota
	ButtonPressed
)

type KeyState int

const (
	KeyReleased KeyState = iota
	KeyPressed
)

type AxisOrientation int

const (
	AxisVertical AxisOrientation = iota
	AxisHorizontal
)

type AxisSource int

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
	AxisSourceWheelTilt
)

// Keyboard is one keyboard device attached to the seat
type Keyboard interface {
	Name() string
}

// Notifier is the protocol side of the seat. It forwards events to the
// clients owning the surfaces.
type Notifier interface {
	PointerEnter(s desktop.Surface, sx, sy float64)
	PointerMotion(time uint32, sx, sy float64)
	PointerButton(time, button uint32, state ButtonState)
	PointerAxis(time uint32, orientation AxisOrientation, delta float64, discrete int32, source AxisSource)
	PointerFrame()
	PointerClearFocus()
	// PointerFocus is the surface holding pointer focus, nil if none
	PointerFocus() desktop.Surface
	// PointerFocusClient is the client owning PointerFocus, nil if none
	PointerFocusClient() any

	KeyboardEnter(s desktop.Surface)
	KeyboardClearFocus()
	KeyboardKey(kb Keyboard, time, key uint32, state KeyState)
	KeyboardModifiers(kb Keyboard)

	SetCursorImage(name string)
	SetCursorSurface(s desktop.Surface, hotspotX, hotspotY int32)
	SetCapabilities(pointer, keyboard bool)
}

// Damager invalidates the screen area of a view
type Damager interface {
	DamageWholeView(v *desktop.View)
}

// LayerHitTester finds layer surfaces under a layout point
type LayerHitTester interface {
	SurfaceAt(lx, ly float64, above bool) (*layer.Surface, desktop.Surface, float64, float64, bool)
}

// BindingHandler is offered every key press before it reaches a client. It
// returns true when it consumed the key.
type BindingHandler func(syms []KeySym, mods Modifier) bool

type Seat struct {
	name     string
	registry *desktop.Registry
	notifier Notifier
	damage   Damager
	layers   LayerHitTester

	cursorX, cursorY float64
	cursorImage      string

	mode    Mode
	focused desktop.ID
	grabbed desktop.ID
	// grabX, grabY is the cursor offset into the view for a move and the
	// raw cursor position for a resize
	grabX, grabY float64
	grabBox      geom.Box
	edges        geom.Edges

	focusLayer *layer.Surface
	keyboards  []Keyboard
	bindings   BindingHandler

	unsubscribe func()
	log         *logrus.Entry
}

func New(name string, registry *desktop.Registry, notifier Notifier, damage Damager) *Seat {
	s := &Seat{
		name:        name,
		registry:    registry,
		notifier:    notifier,
		damage:      damage,
		cursorImage: "default",
		log:         logrus.WithField("seat", name),
	}
	s.unsubscribe = registry.Subscribe(s.handleRegistryEvent)
	return s
}

// SetLayers enables hit-testing of layer surfaces
func (s *Seat) SetLayers(l LayerHitTester) {
	s.layers = l
}

// SetBindings installs the compositor keybinding handler
func (s *Seat) SetBindings(h BindingHandler) {
	s.bindings = h
}

// Close detaches the seat from the registry
func (s *Seat) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Seat) Name() string {
	return s.name
}

func (s *Seat) Mode() Mode {
	return s.mode
}

func (s *Seat) Cursor() (float64, float64) {
	return s.cursorX, s.cursorY
}

// WarpCursor moves the cursor without generating any events, used when the
// layout changes under it
func (s *Seat) WarpCursor(x, y float64) {
	s.cursorX, s.cursorY = x, y
}

func (s *Seat) CursorImage() string {
	return s.cursorImage
}

// Focused returns the view holding keyboard focus
func (s *Seat) Focused() (*desktop.View, bool) {
	return s.registry.Lookup(s.focused)
}

// Grabbed returns the view being moved or resized
func (s *Seat) Grabbed() (*desktop.View, bool) {
	return s.registry.Lookup(s.grabbed)
}

func (s *Seat) GrabBox() geom.Box {
	return s.grabBox
}

func (s *Seat) Edges() geom.Edges {
	return s.edges
}

func (s *Seat) FocusLayer() *layer.Surface {
	return s.focusLayer
}

func (s *Seat) Keyboards() []Keyboard {
	return append([]Keyboard(nil), s.keyboards...)
}

func (s *Seat) handleRegistryEvent(ev desktop.Event) {
	switch ev.Type {
	case desktop.EventUnmapped, desktop.EventRemoved:
		s.viewGone(ev.View)
	}
}
